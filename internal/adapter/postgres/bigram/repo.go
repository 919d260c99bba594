// Package bigram implements the per-owner bi-gram aggregate store using
// PostgreSQL. Constituent tags are kept in a text[] column so bi-grams can
// be looked up by the tags they contain.
package bigram

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/feedtags-backend/internal/adapter/postgres"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// Repo provides bi-gram aggregate persistence backed by PostgreSQL.
type Repo struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a new bi-gram repository.
func New(q postgres.Querier, logger *slog.Logger) *Repo {
	return &Repo{q: q, log: logger.With("repo", "bi_grams")}
}

var columns = []string{"owner_id", "tag", "tags", "posts_count", "unread_count", "temperature"}

const upsertSQL = `
INSERT INTO bi_grams (owner_id, tag, tags, posts_count, unread_count, temperature)
VALUES ($1, $2, $3, 1, $4, 1)
ON CONFLICT (owner_id, tag) DO UPDATE
SET posts_count  = bi_grams.posts_count + 1,
    unread_count = bi_grams.unread_count + EXCLUDED.unread_count,
    temperature  = bi_grams.temperature + 1`

const applyDeltasSQL = `
UPDATE bi_grams b
SET unread_count = b.unread_count + d.delta
FROM unnest($2::text[], $3::int[]) AS d(tag, delta)
WHERE b.owner_id = $1
  AND b.tag = d.tag
  AND b.unread_count + d.delta BETWEEN 0 AND b.posts_count
RETURNING b.tag`

const decayTemperatureSQL = `
UPDATE bi_grams
SET temperature = temperature * $1
WHERE temperature > 0`

// Get returns one bi-gram by key. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("bi_grams").
		Where(sq.Eq{"owner_id": owner, "tag": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get bi-gram query: %w", err)
	}

	b, err := scanBiGram(postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "bi-gram", key)
	}
	return &b, nil
}

// List returns the owner's bi-grams matching opts, sorted and paged.
// opts.Tags keeps bi-grams containing every listed tag.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error) {
	opts = opts.Normalized()

	sb := filter(postgres.Builder.Select(columns...).From("bi_grams"), owner, opts)
	sb = postgres.PageAggregates(sb, opts)

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bi-grams query: %w", err)
	}

	return r.query(ctx, owner, "list bi-grams", query, args...)
}

// ListAll returns every bi-gram of the owner ordered by key.
func (r *Repo) ListAll(ctx context.Context, owner uuid.UUID) ([]domain.BiGram, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("bi_grams").
		Where(sq.Eq{"owner_id": owner}).
		OrderBy("tag ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all bi-grams query: %w", err)
	}

	return r.query(ctx, owner, "list all bi-grams", query, args...)
}

// Count returns the number of the owner's bi-grams matching the filters of opts.
func (r *Repo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	query, args, err := filter(postgres.Builder.Select("count(*)").From("bi_grams"), owner, opts).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bi-grams query: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "bi-grams", owner.String())
	}
	return n, nil
}

// Upsert counts one more post for every bi-gram key, creating missing
// bi-grams with their constituent tags.
func (r *Repo) Upsert(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error {
	if len(keys) == 0 {
		return nil
	}

	unreadInc := 0
	if unread {
		unreadInc = 1
	}

	batch := &pgx.Batch{}
	for _, key := range keys {
		batch.Queue(upsertSQL, owner, key, domain.BiGramTags(key), unreadInc)
	}

	if _, err := postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.q), batch); err != nil {
		return fmt.Errorf("upsert bi-grams: %w", err)
	}
	return nil
}

// ApplyDeltas adds signed deltas to unread_count, skipping keys that are
// missing or would leave [0, posts_count]. matched reports whether at least
// one key was updated.
func (r *Repo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	applied, err := postgres.ApplyUnreadDeltas(ctx, postgres.QuerierFromCtx(ctx, r.q), applyDeltasSQL, owner, deltas)
	if err != nil {
		return false, fmt.Errorf("bi-grams: %w", err)
	}

	if skipped := postgres.SkippedKeys(deltas, applied); len(skipped) > 0 {
		r.log.WarnContext(ctx, "unread deltas skipped",
			slog.String("owner_id", owner.String()),
			slog.Any("bi_grams", skipped),
		)
	}
	return len(applied) > 0, nil
}

// DecayTemperature multiplies every positive temperature by factor.
func (r *Repo) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, decayTemperatureSQL, factor)
	if err != nil {
		return 0, fmt.Errorf("decay bi-gram temperature: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Prepare creates the listing and constituent indexes. Failures are logged.
func (r *Repo) Prepare(ctx context.Context) {
	postgres.EnsureIndexes(ctx, r.q, r.log,
		`CREATE INDEX IF NOT EXISTS ix_bi_grams_owner_posts ON bi_grams (owner_id, posts_count DESC, tag)`,
		`CREATE INDEX IF NOT EXISTS ix_bi_grams_owner_unread ON bi_grams (owner_id, unread_count DESC, tag)`,
		`CREATE INDEX IF NOT EXISTS ix_bi_grams_tags ON bi_grams USING gin (tags)`,
	)
}

func filter(sb sq.SelectBuilder, owner uuid.UUID, opts domain.QueryOptions) sq.SelectBuilder {
	sb = postgres.FilterAggregates(sb, owner, opts)
	if len(opts.Tags) > 0 {
		sb = sb.Where("tags @> ?::text[]", opts.Tags)
	}
	return sb
}

func (r *Repo) query(ctx context.Context, owner uuid.UUID, op, query string, args ...any) ([]domain.BiGram, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, op, owner.String())
	}
	defer rows.Close()

	result := make([]domain.BiGram, 0)
	for rows.Next() {
		b, err := scanBiGram(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, op, owner.String())
	}
	return result, nil
}

func scanBiGram(row pgx.Row) (domain.BiGram, error) {
	var b domain.BiGram
	err := row.Scan(&b.OwnerID, &b.Tag, &b.Tags, &b.PostsCount, &b.UnreadCount, &b.Temperature)
	return b, err
}
