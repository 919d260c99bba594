package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/service/tagsync"
)

// MaxMarkPosts is the largest batch MarkPosts accepts.
const MaxMarkPosts = 1000

// MarkPostsInput holds the parameters for changing the read state of posts.
type MarkPostsInput struct {
	IDs  []uuid.UUID
	Read bool
}

// Validate checks all fields and collects all errors.
func (i MarkPostsInput) Validate() error {
	var errs []domain.FieldError

	if len(i.IDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "ids", Message: "required"})
	}
	if len(i.IDs) > MaxMarkPosts {
		errs = append(errs, domain.FieldError{Field: "ids", Message: fmt.Sprintf("max %d items", MaxMarkPosts)})
	}
	for _, id := range i.IDs {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "ids", Message: "must not contain nil ids"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// MarkResult reports what a MarkPosts call changed.
type MarkResult struct {
	Changed int
	Matched tagsync.ToggleResult
}

// MarkPosts sets the read flag of the owner's posts and moves the aggregate
// counters for the tagged posts whose flag changed. Idle posts only get the
// flag, which the worker picks up when it counts them. Posts in processing,
// of another owner or already carrying the flag are left alone.
func (s *Service) MarkPosts(ctx context.Context, owner uuid.UUID, input MarkPostsInput) (MarkResult, error) {
	if err := input.Validate(); err != nil {
		return MarkResult{}, err
	}

	var res MarkResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Without a transaction the posts SetRead flipped before failing stay
		// flipped, so their counters move as well.
		changed, setErr := s.posts.SetRead(txCtx, owner, input.IDs, input.Read)
		if setErr != nil {
			setErr = fmt.Errorf("set read: %w", setErr)
		}
		res.Changed = len(changed)
		counted := countedPosts(changed)
		if len(counted) == 0 {
			return setErr
		}

		var err error
		res.Matched, err = s.sync.ToggleRead(txCtx, owner, domain.CountOccurrences(counted), input.Read)
		if err != nil {
			return errors.Join(setErr, fmt.Errorf("toggle read: %w", err))
		}
		return setErr
	})
	if err != nil {
		return MarkResult{}, err
	}

	s.log.InfoContext(ctx, "posts marked",
		slog.String("owner_id", owner.String()),
		slog.Bool("read", input.Read),
		slog.Int("requested", len(input.IDs)),
		slog.Int("changed", res.Changed),
	)
	return res, nil
}

// countedPosts returns the posts already included in the aggregates.
func countedPosts(posts []domain.Post) []domain.Post {
	counted := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.Processing == domain.ProcessingDone {
			counted = append(counted, p)
		}
	}
	return counted
}
