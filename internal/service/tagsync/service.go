// Package tagsync keeps the per-owner tag, bi-gram and letter aggregates in
// step with post ingestion and read state changes.
package tagsync

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type tagRepo interface {
	Upsert(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	ListAll(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error)
	Owners(ctx context.Context) ([]uuid.UUID, error)
	DecayTemperature(ctx context.Context, factor float64) (int64, error)
}

type biGramRepo interface {
	Upsert(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	DecayTemperature(ctx context.Context, factor float64) (int64, error)
}

type letterRepo interface {
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	Replace(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error
}

type locator interface {
	BuildLocator(endpoint string, params map[string]string) string
}

// LettersEndpoint is the route a letter's LocalURL points to: the first page
// of tags starting with that letter.
const LettersEndpoint = "tags_by_letter"

// Service coordinates the aggregate stores. It holds no state of its own;
// calls for one owner must be serialized by the caller.
type Service struct {
	tags    tagRepo
	biGrams biGramRepo
	letters letterRepo
	routes  locator
	log     *slog.Logger
}

// NewService creates a new sync coordinator.
func NewService(
	log *slog.Logger,
	tags tagRepo,
	biGrams biGramRepo,
	letters letterRepo,
	routes locator,
) *Service {
	return &Service{
		tags:    tags,
		biGrams: biGrams,
		letters: letters,
		routes:  routes,
		log:     log.With("service", "tagsync"),
	}
}

// ToggleResult reports, per store, whether at least one key matched.
type ToggleResult struct {
	Tags    bool
	BiGrams bool
	Letters bool
}
