package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// ListTags returns a page of the owner's tags. Bi-gram tag filters are
// ignored.
func (s *Service) ListTags(ctx context.Context, owner uuid.UUID, input ListInput) (Page[domain.Tag], error) {
	if err := input.Validate(); err != nil {
		return Page[domain.Tag]{}, err
	}
	opts := input.options()
	opts.Tags = nil

	items, err := s.tags.List(ctx, owner, opts)
	if err != nil {
		return Page[domain.Tag]{}, fmt.Errorf("list tags: %w", err)
	}
	total, err := s.tags.Count(ctx, owner, opts)
	if err != nil {
		return Page[domain.Tag]{}, fmt.Errorf("count tags: %w", err)
	}

	return Page[domain.Tag]{Items: items, Total: total, Offset: opts.Offset, Limit: opts.Limit}, nil
}

// CountTags returns the number of the owner's tags matching input.
func (s *Service) CountTags(ctx context.Context, owner uuid.UUID, input ListInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	opts := input.options()
	opts.Tags = nil

	n, err := s.tags.Count(ctx, owner, opts)
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

// GetTag returns one tag aggregate.
func (s *Service) GetTag(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error) {
	if err := validateKey("tag", tag); err != nil {
		return nil, err
	}
	t, err := s.tags.Get(ctx, owner, tag)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

// ListBiGrams returns a page of the owner's bi-grams. With Tags set only
// bi-grams built from all of the given tags are returned.
func (s *Service) ListBiGrams(ctx context.Context, owner uuid.UUID, input ListInput) (Page[domain.BiGram], error) {
	if err := input.Validate(); err != nil {
		return Page[domain.BiGram]{}, err
	}
	opts := input.options()

	items, err := s.biGrams.List(ctx, owner, opts)
	if err != nil {
		return Page[domain.BiGram]{}, fmt.Errorf("list bi-grams: %w", err)
	}
	total, err := s.biGrams.Count(ctx, owner, opts)
	if err != nil {
		return Page[domain.BiGram]{}, fmt.Errorf("count bi-grams: %w", err)
	}

	return Page[domain.BiGram]{Items: items, Total: total, Offset: opts.Offset, Limit: opts.Limit}, nil
}

// GetBiGram returns one bi-gram aggregate by its "first second" key.
func (s *Service) GetBiGram(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error) {
	if err := validateKey("bigram", key); err != nil {
		return nil, err
	}
	bg, err := s.biGrams.Get(ctx, owner, key)
	if err != nil {
		return nil, fmt.Errorf("get bi-gram: %w", err)
	}
	return bg, nil
}

// Letters returns the owner's letter rollup in alphabetical order. An owner
// without a rollup gets an empty list.
func (s *Service) Letters(ctx context.Context, owner uuid.UUID, onlyUnread bool) ([]domain.LetterItem, error) {
	letters, err := s.letters.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.LetterItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get letters: %w", err)
	}
	return letters.ToList(onlyUnread), nil
}
