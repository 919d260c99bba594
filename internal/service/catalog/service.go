// Package catalog serves read queries over the tag, bi-gram and letter
// aggregates of an owner.
package catalog

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
	Get(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error)
	List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error)
	Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)
}

type biGramRepo interface {
	Get(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error)
	List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error)
	Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)
}

type letterRepo interface {
	Get(ctx context.Context, owner uuid.UUID) (*domain.Letters, error)
}

// Service answers aggregate queries.
type Service struct {
	tags    tagRepo
	biGrams biGramRepo
	letters letterRepo
	log     *slog.Logger
}

// NewService creates a new catalog service.
func NewService(log *slog.Logger, tags tagRepo, biGrams biGramRepo, letters letterRepo) *Service {
	return &Service{
		tags:    tags,
		biGrams: biGrams,
		letters: letters,
		log:     log.With("service", "catalog"),
	}
}

// Page is one page of a listing plus the total number of matches.
type Page[T any] struct {
	Items  []T
	Total  int
	Offset uint
	Limit  uint
}
