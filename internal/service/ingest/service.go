// Package ingest tags pending feed posts and applies read state changes to
// the aggregates.
package ingest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/service/tagsync"
	"github.com/heartmarshall/feedtags-backend/internal/tagging"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type postRepo interface {
	Insert(ctx context.Context, p domain.Post) error
	Get(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error)
	PendingOwners(ctx context.Context) ([]uuid.UUID, error)
	ClaimPending(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error)
	SaveTags(ctx context.Context, id uuid.UUID, tags, biGrams []string) error
	Release(ctx context.Context, id uuid.UUID) error
	SetRead(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error)
}

type coordinator interface {
	Ingest(ctx context.Context, owner uuid.UUID, tags, biGrams []string, unread bool) error
	ToggleRead(ctx context.Context, owner uuid.UUID, occ domain.Occurrences, markingRead bool) (tagsync.ToggleResult, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs the tagging pipeline over stored posts.
type Service struct {
	posts      postRepo
	sync       coordinator
	tx         txManager
	tokenizer  *tagging.Tokenizer
	classifier *tagging.Classifier
	cfg        config.IngestConfig
	log        *slog.Logger
}

// NewService creates a new ingest service. tokenizer and classifier are
// shared by all workers.
func NewService(
	log *slog.Logger,
	posts postRepo,
	sync coordinator,
	tx txManager,
	tokenizer *tagging.Tokenizer,
	classifier *tagging.Classifier,
	cfg config.IngestConfig,
) *Service {
	return &Service{
		posts:      posts,
		sync:       sync,
		tx:         tx,
		tokenizer:  tokenizer,
		classifier: classifier,
		cfg:        cfg,
		log:        log.With("service", "ingest"),
	}
}
