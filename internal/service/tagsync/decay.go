package tagsync

import (
	"context"
	"fmt"
	"log/slog"
)

// DecayTemperature cools down tag and bi-gram temperatures of all owners.
func (s *Service) DecayTemperature(ctx context.Context, factor float64) error {
	tags, err := s.tags.DecayTemperature(ctx, factor)
	if err != nil {
		return fmt.Errorf("decay tags: %w", err)
	}
	biGrams, err := s.biGrams.DecayTemperature(ctx, factor)
	if err != nil {
		return fmt.Errorf("decay bi-grams: %w", err)
	}

	s.log.InfoContext(ctx, "temperature decayed",
		slog.Float64("factor", factor),
		slog.Int64("tags", tags),
		slog.Int64("bi_grams", biGrams),
	)
	return nil
}
