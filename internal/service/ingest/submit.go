package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

const (
	maxTitleLength   = 1000
	maxContentLength = 1 << 20
	maxURLLength     = 2048
)

// SubmitPostInput holds a post delivered by the feed downloader.
type SubmitPostInput struct {
	ID         uuid.UUID
	FeedID     string
	CategoryID string
	Title      string
	Content    string
	URL        string
	Read       bool
	Favorite   bool
}

// Validate checks all fields and collects all errors.
func (i SubmitPostInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" && strings.TrimSpace(i.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "title or content required"})
	}
	if utf8.RuneCountInString(i.Title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: fmt.Sprintf("max %d characters", maxTitleLength)})
	}
	if len(i.Content) > maxContentLength {
		errs = append(errs, domain.FieldError{Field: "content", Message: "too large"})
	}
	if len(i.URL) > maxURLLength {
		errs = append(errs, domain.FieldError{Field: "url", Message: fmt.Sprintf("max %d characters", maxURLLength)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SubmitPost stores a new untagged post. The next ProcessPending run picks
// it up. A zero ID is replaced with a fresh one.
func (s *Service) SubmitPost(ctx context.Context, owner uuid.UUID, input SubmitPostInput) (*domain.Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	id := input.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	post := domain.Post{
		ID:         id,
		OwnerID:    owner,
		FeedID:     input.FeedID,
		CategoryID: input.CategoryID,
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		URL:        input.URL,
		Read:       input.Read,
		Favorite:   input.Favorite,
		Processing: domain.ProcessingIdle,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	s.log.DebugContext(ctx, "post submitted",
		slog.String("owner_id", owner.String()),
		slog.String("post_id", id.String()),
	)
	return &post, nil
}

// GetPost returns one of the owner's posts with its computed tags.
func (s *Service) GetPost(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}
