// Package tag implements the per-owner tag aggregate store using PostgreSQL.
package tag

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

// Repo provides tag aggregate persistence backed by PostgreSQL.
type Repo struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a new tag repository.
func New(q postgres.Querier, logger *slog.Logger) *Repo {
	return &Repo{q: q, log: logger.With("repo", "tags")}
}

var columns = []string{"owner_id", "tag", "posts_count", "unread_count", "temperature", "processing"}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const upsertSQL = `
INSERT INTO tags (owner_id, tag, posts_count, unread_count, temperature)
VALUES ($1, $2, 1, $3, 1)
ON CONFLICT (owner_id, tag) DO UPDATE
SET posts_count  = tags.posts_count + 1,
    unread_count = tags.unread_count + EXCLUDED.unread_count,
    temperature  = tags.temperature + 1`

const applyDeltasSQL = `
UPDATE tags t
SET unread_count = t.unread_count + d.delta
FROM unnest($2::text[], $3::int[]) AS d(tag, delta)
WHERE t.owner_id = $1
  AND t.tag = d.tag
  AND t.unread_count + d.delta BETWEEN 0 AND t.posts_count
RETURNING t.tag`

const decayTemperatureSQL = `
UPDATE tags
SET temperature = temperature * $1
WHERE temperature > 0`

const ownersSQL = `SELECT DISTINCT owner_id FROM tags ORDER BY owner_id`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns one tag. Returns domain.ErrNotFound if the owner has no such tag.
func (r *Repo) Get(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("tags").
		Where(sq.Eq{"owner_id": owner, "tag": tag}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get tag query: %w", err)
	}

	t, err := scanTag(postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "tag", tag)
	}
	return &t, nil
}

// List returns the owner's tags matching opts, sorted and paged.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error) {
	opts = opts.Normalized()

	sb := postgres.Builder.Select(columns...).From("tags")
	sb = postgres.PageAggregates(postgres.FilterAggregates(sb, owner, opts), opts)

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tags query: %w", err)
	}

	return r.query(ctx, owner, "list tags", query, args...)
}

// ListAll returns every tag of the owner ordered by tag.
func (r *Repo) ListAll(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("tags").
		Where(sq.Eq{"owner_id": owner}).
		OrderBy("tag ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all tags query: %w", err)
	}

	return r.query(ctx, owner, "list all tags", query, args...)
}

// Count returns the number of the owner's tags matching the filters of opts.
func (r *Repo) Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error) {
	sb := postgres.FilterAggregates(postgres.Builder.Select("count(*)").From("tags"), owner, opts)

	query, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tags query: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "tags", owner.String())
	}
	return n, nil
}

// Owners returns every owner that has at least one tag.
func (r *Repo) Owners(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, ownersSQL)
	if err != nil {
		return nil, fmt.Errorf("list tag owners: %w", err)
	}
	defer rows.Close()

	owners := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tag owners: %w", err)
	}
	return owners, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert counts one more post for every tag, creating missing tags.
// unread also bumps unread_count.
func (r *Repo) Upsert(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error {
	if len(tags) == 0 {
		return nil
	}

	unreadInc := 0
	if unread {
		unreadInc = 1
	}

	batch := &pgx.Batch{}
	for _, tag := range tags {
		batch.Queue(upsertSQL, owner, tag, unreadInc)
	}

	if _, err := postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.q), batch); err != nil {
		return fmt.Errorf("upsert tags: %w", err)
	}
	return nil
}

// ApplyDeltas adds signed deltas to unread_count. Keys that are missing or
// whose count would leave [0, posts_count] are skipped and logged. matched
// reports whether at least one key was updated.
func (r *Repo) ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error) {
	applied, err := postgres.ApplyUnreadDeltas(ctx, postgres.QuerierFromCtx(ctx, r.q), applyDeltasSQL, owner, deltas)
	if err != nil {
		return false, fmt.Errorf("tags: %w", err)
	}

	if skipped := postgres.SkippedKeys(deltas, applied); len(skipped) > 0 {
		r.log.WarnContext(ctx, "unread deltas skipped",
			slog.String("owner_id", owner.String()),
			slog.Any("tags", skipped),
		)
	}
	return len(applied) > 0, nil
}

// DecayTemperature multiplies every positive temperature by factor.
// Returns the number of tags updated.
func (r *Repo) DecayTemperature(ctx context.Context, factor float64) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, decayTemperatureSQL, factor)
	if err != nil {
		return 0, fmt.Errorf("decay tag temperature: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Prepare creates the listing indexes. Failures are logged, not returned.
func (r *Repo) Prepare(ctx context.Context) {
	postgres.EnsureIndexes(ctx, r.q, r.log,
		`CREATE INDEX IF NOT EXISTS ix_tags_owner_posts ON tags (owner_id, posts_count DESC, tag)`,
		`CREATE INDEX IF NOT EXISTS ix_tags_owner_unread ON tags (owner_id, unread_count DESC, tag)`,
		`CREATE INDEX IF NOT EXISTS ix_tags_owner_temperature ON tags (owner_id, temperature DESC, tag)`,
		`CREATE INDEX IF NOT EXISTS ix_tags_owner_tag_pattern ON tags (owner_id, tag text_pattern_ops)`,
	)
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func (r *Repo) query(ctx context.Context, owner uuid.UUID, op, query string, args ...any) ([]domain.Tag, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, op, owner.String())
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, op, owner.String())
	}
	return tags, nil
}

func scanTag(row pgx.Row) (domain.Tag, error) {
	var (
		t          domain.Tag
		processing string
	)
	err := row.Scan(&t.OwnerID, &t.Tag, &t.PostsCount, &t.UnreadCount, &t.Temperature, &processing)
	t.Processing = domain.ProcessingState(processing)
	return t, err
}
