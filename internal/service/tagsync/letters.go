package tagsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// ResyncLetters rebuilds the owner's letter rollup from tags and replaces
// the stored one. Running it twice on the same tags stores the same rollup.
func (s *Service) ResyncLetters(ctx context.Context, owner uuid.UUID, tags []domain.Tag) (map[string]domain.LetterItem, error) {
	letters := s.buildLetters(tags)

	if err := s.letters.Replace(ctx, owner, letters); err != nil {
		return nil, fmt.Errorf("replace letters: %w", err)
	}

	s.log.InfoContext(ctx, "letters resynced",
		slog.String("owner_id", owner.String()),
		slog.Int("tags", len(tags)),
		slog.Int("letters", len(letters)),
	)
	return letters, nil
}

// ResyncOwnerLetters loads every tag of the owner and resyncs its letters.
func (s *Service) ResyncOwnerLetters(ctx context.Context, owner uuid.UUID) (map[string]domain.LetterItem, error) {
	tags, err := s.tags.ListAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return s.ResyncLetters(ctx, owner, tags)
}

// ResyncAll resyncs the letters of every owner that has tags. An owner that
// fails does not stop the others; the failures are joined in the returned
// error. Returns the number of owners resynced.
func (s *Service) ResyncAll(ctx context.Context) (int, error) {
	owners, err := s.tags.Owners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	var (
		done int
		errs []error
	)
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.ResyncOwnerLetters(ctx, owner); err != nil {
			s.log.ErrorContext(ctx, "resync letters failed",
				slog.String("owner_id", owner.String()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("owner %s: %w", owner, err))
			continue
		}
		done++
	}

	return done, errors.Join(errs...)
}

// buildLetters groups tags by first character and sums their unread counts.
func (s *Service) buildLetters(tags []domain.Tag) map[string]domain.LetterItem {
	letters := make(map[string]domain.LetterItem)
	for _, t := range tags {
		letter := domain.FirstLetter(t.Tag)
		if letter == "" {
			continue
		}
		item, ok := letters[letter]
		if !ok {
			item = domain.LetterItem{
				Letter: letter,
				LocalURL: s.routes.BuildLocator(LettersEndpoint, map[string]string{
					"letter":      letter,
					"page_number": "1",
				}),
			}
		}
		item.UnreadCount += t.UnreadCount
		letters[letter] = item
	}
	return letters
}
