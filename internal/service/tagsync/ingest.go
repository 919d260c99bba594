package tagsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Ingest counts one more post for every tag and bi-gram of a freshly tagged
// post, creating missing aggregates. unread also bumps unread_count.
func (s *Service) Ingest(ctx context.Context, owner uuid.UUID, tags, biGrams []string, unread bool) error {
	if err := s.tags.Upsert(ctx, owner, tags, unread); err != nil {
		return fmt.Errorf("ingest tags: %w", err)
	}
	if err := s.biGrams.Upsert(ctx, owner, biGrams, unread); err != nil {
		return fmt.Errorf("ingest bi-grams: %w", err)
	}

	s.log.DebugContext(ctx, "post ingested",
		slog.String("owner_id", owner.String()),
		slog.Int("tags", len(tags)),
		slog.Int("bi_grams", len(biGrams)),
		slog.Bool("unread", unread),
	)
	return nil
}
