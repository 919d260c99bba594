// Package letter implements the per-owner first-letter rollup store using
// PostgreSQL. The rollup document is stored as one row per letter.
package letter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/feedtags-backend/internal/adapter/postgres"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// Repo provides letter rollup persistence backed by PostgreSQL.
type Repo struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a new letter repository.
func New(q postgres.Querier, logger *slog.Logger) *Repo {
	return &Repo{q: q, log: logger.With("repo", "letters")}
}

const applyDeltasSQL = `
UPDATE letters l
SET unread_count = l.unread_count + d.delta
FROM unnest($2::text[], $3::int[]) AS d(letter, delta)
WHERE l.owner_id = $1
  AND l.letter = d.letter
  AND l.unread_count + d.delta >= 0
RETURNING l.letter`

// replaceSQL swaps the owner's rows for the given set in one statement.
const replaceSQL = `
WITH input AS (
    SELECT * FROM unnest($2::text[], $3::int[], $4::text[]) AS i(letter, unread_count, local_url)
), removed AS (
    DELETE FROM letters l
    WHERE l.owner_id = $1
      AND NOT EXISTS (SELECT 1 FROM input WHERE input.letter = l.letter)
)
INSERT INTO letters (owner_id, letter, unread_count, local_url)
SELECT $1, letter, unread_count, local_url FROM input
ON CONFLICT (owner_id, letter) DO UPDATE
SET unread_count = EXCLUDED.unread_count,
    local_url    = EXCLUDED.local_url`

// Get returns the owner's letter document. Returns domain.ErrNotFound when
// the owner has no letters yet.
func (r *Repo) Get(ctx context.Context, owner uuid.UUID) (*domain.Letters, error) {
	items, err := r.List(ctx, owner, domain.QueryOptions{Limit: domain.MaxQueryLimit})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("letters %s: %w", owner, domain.ErrNotFound)
	}

	doc := &domain.Letters{OwnerID: owner, Letters: make(map[string]domain.LetterItem, len(items))}
	for _, item := range items {
		doc.Letters[item.Letter] = item
	}
	return doc, nil
}

// List returns the owner's letters. Keys and OnlyUnread filter; the order is
// alphabetical unless SortByUnread is requested explicitly.
func (r *Repo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.LetterItem, error) {
	byUnread := opts.SortMode == domain.SortByUnread
	opts = opts.Normalized()

	sb := filter(postgres.Builder.Select("letter", "unread_count", "local_url").From("letters"), owner, opts)
	if byUnread {
		sb = sb.OrderBy("unread_count DESC", "letter ASC")
	} else {
		sb = sb.OrderBy("letter ASC")
	}
	sb = sb.Offset(uint64(opts.Offset)).Limit(uint64(opts.Limit))

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list letters query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "letters", owner.String())
	}
	defer rows.Close()

	items := make([]domain.LetterItem, 0)
	for rows.Next() {
		var item domain.LetterItem
		if err := rows.Scan(&item.Letter, &item.UnreadCount, &item.LocalURL); err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "letters", owner.String())
	}
	return items, nil
}

// Count returns the number of letters matching the filters of opts.
func (r *Repo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	query, args, err := filter(postgres.Builder.Select("count(*)").From("letters"), owner, opts).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count letters query: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "letters", owner.String())
	}
	return n, nil
}

// ApplyDeltas adds signed deltas to the letters' unread counts. Letters that
// do not exist yet are not created; a later resync adds them.
func (r *Repo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	applied, err := postgres.ApplyUnreadDeltas(ctx, postgres.QuerierFromCtx(ctx, r.q), applyDeltasSQL, owner, deltas)
	if err != nil {
		return false, fmt.Errorf("letters: %w", err)
	}

	if skipped := postgres.SkippedKeys(deltas, applied); len(skipped) > 0 {
		r.log.WarnContext(ctx, "unread deltas skipped",
			slog.String("owner_id", owner.String()),
			slog.Any("letters", skipped),
		)
	}
	return len(applied) > 0, nil
}

// Replace stores letters as the owner's complete letter document.
func (r *Repo) Replace(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error {
	keys := slices.Sorted(maps.Keys(letters))
	counts := make([]int32, len(keys))
	urls := make([]string, len(keys))
	for i, k := range keys {
		counts[i] = int32(letters[k].UnreadCount)
		urls[i] = letters[k].LocalURL
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, replaceSQL, owner, keys, counts, urls); err != nil {
		return postgres.MapError(err, "letters", owner.String())
	}
	return nil
}

// Prepare creates the unread lookup index. Failures are logged.
func (r *Repo) Prepare(ctx context.Context) {
	postgres.EnsureIndexes(ctx, r.q, r.log,
		`CREATE INDEX IF NOT EXISTS ix_letters_owner_unread ON letters (owner_id, letter) WHERE unread_count > 0`,
	)
}

func filter(sb sq.SelectBuilder, owner uuid.UUID, opts domain.QueryOptions) sq.SelectBuilder {
	sb = sb.Where(sq.Eq{"owner_id": owner})
	if len(opts.Keys) > 0 {
		sb = sb.Where(sq.Eq{"letter": opts.Keys})
	}
	if opts.OnlyUnread {
		sb = sb.Where(sq.Gt{"unread_count": 0})
	}
	return sb
}
