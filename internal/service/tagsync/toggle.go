package tagsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// ToggleRead moves unread counters for a batch of posts whose read flag
// changed. occ holds how many of those posts carry each key. Counters go
// down when markingRead and up otherwise.
//
// Tags, bi-grams and letters are updated independently: a failing store
// does not stop the others. The returned error joins the failures of every
// store that failed.
func (s *Service) ToggleRead(ctx context.Context, owner uuid.UUID, occ domain.Occurrences, markingRead bool) (ToggleResult, error) {
	var (
		result ToggleResult
		errs   []error
	)
	if occ.IsEmpty() {
		return result, nil
	}

	sign := 1
	if markingRead {
		sign = -1
	}

	var err error
	if len(occ.Tags) > 0 {
		result.Tags, err = s.tags.ApplyDeltas(ctx, owner, signed(occ.Tags, sign))
		if err != nil {
			errs = append(errs, fmt.Errorf("toggle tags: %w", err))
		}

		result.Letters, err = s.letters.ApplyDeltas(ctx, owner, signed(letterOccurrences(occ.Tags), sign))
		if err != nil {
			errs = append(errs, fmt.Errorf("toggle letters: %w", err))
		}
	}

	if len(occ.BiGrams) > 0 {
		result.BiGrams, err = s.biGrams.ApplyDeltas(ctx, owner, signed(occ.BiGrams, sign))
		if err != nil {
			errs = append(errs, fmt.Errorf("toggle bi-grams: %w", err))
		}
	}

	s.log.InfoContext(ctx, "read state toggled",
		slog.String("owner_id", owner.String()),
		slog.Bool("marking_read", markingRead),
		slog.Int("tags", len(occ.Tags)),
		slog.Int("bi_grams", len(occ.BiGrams)),
		slog.Bool("tags_matched", result.Tags),
		slog.Bool("bi_grams_matched", result.BiGrams),
		slog.Bool("letters_matched", result.Letters),
	)

	return result, errors.Join(errs...)
}

// signed returns counts multiplied by sign. Zero counts are dropped.
func signed(counts map[string]int, sign int) map[string]int {
	deltas := make(map[string]int, len(counts))
	for key, n := range counts {
		if n == 0 {
			continue
		}
		deltas[key] = sign * n
	}
	return deltas
}

// letterOccurrences sums tag occurrences by the tags' first character.
func letterOccurrences(tags map[string]int) map[string]int {
	letters := make(map[string]int)
	for tag, n := range tags {
		letter := domain.FirstLetter(tag)
		if letter == "" {
			continue
		}
		letters[letter] += n
	}
	return letters
}
