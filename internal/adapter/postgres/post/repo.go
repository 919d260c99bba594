// Package post implements the feed post store used by the ingest worker and
// the read-state API.
package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/feedtags-backend/internal/adapter/postgres"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new post repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

const selectColumns = `id, owner_id, feed_id, category_id, title, content, url, read, favorite, tags, bi_grams, processing, created_at`

const insertSQL = `
INSERT INTO posts (id, owner_id, feed_id, category_id, title, content, url, read, favorite, tags, bi_grams, processing, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const getSQL = `SELECT ` + selectColumns + ` FROM posts WHERE owner_id = $1 AND id = $2`

const pendingOwnersSQL = `SELECT DISTINCT owner_id FROM posts WHERE processing = 'IDLE' ORDER BY owner_id`

// claimPendingSQL moves up to $2 idle posts of owner $1 to PROCESSING,
// skipping rows another worker holds.
const claimPendingSQL = `
UPDATE posts SET processing = 'PROCESSING'
WHERE id IN (
    SELECT id FROM posts
    WHERE owner_id = $1 AND processing = 'IDLE'
    ORDER BY created_at, id
    LIMIT $2
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + selectColumns

const saveTagsSQL = `
UPDATE posts
SET tags = $2, bi_grams = $3, processing = 'DONE'
WHERE id = $1 AND processing = 'PROCESSING'`

const releaseSQL = `UPDATE posts SET processing = 'IDLE' WHERE id = $1 AND processing = 'PROCESSING'`

// setReadSQL flips read state of posts whose state changes. Posts held by a
// worker are skipped: the worker counts them with the flag it claimed.
const setReadSQL = `
UPDATE posts SET read = $3
WHERE owner_id = $1 AND id = ANY($2::uuid[]) AND read <> $3 AND processing <> 'PROCESSING'
RETURNING ` + selectColumns

// Insert stores a new post as produced by the downloader.
func (r *Repo) Insert(ctx context.Context, p domain.Post) error {
	if p.Processing == "" {
		p.Processing = domain.ProcessingIdle
	}
	tags, biGrams := nonNil(p.Tags), nonNil(p.BiGrams)

	_, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, insertSQL,
		p.ID, p.OwnerID, p.FeedID, p.CategoryID, p.Title, p.Content, p.URL,
		p.Read, p.Favorite, tags, biGrams, string(p.Processing), p.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "post", p.ID.String())
	}
	return nil
}

// Get returns one post of the owner. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error) {
	p, err := scanPost(postgres.QuerierFromCtx(ctx, r.q).QueryRow(ctx, getSQL, owner, id))
	if err != nil {
		return nil, postgres.MapError(err, "post", id.String())
	}
	return &p, nil
}

// PendingOwners returns the owners that have posts waiting for tagging.
func (r *Repo) PendingOwners(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, pendingOwnersSQL)
	if err != nil {
		return nil, fmt.Errorf("list pending owners: %w", err)
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
		return nil, fmt.Errorf("list pending owners: %w", err)
	}
	return owners, nil
}

// ClaimPending marks up to limit idle posts of the owner as in processing
// and returns them oldest first.
func (r *Repo) ClaimPending(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error) {
	return r.queryPosts(ctx, "claim pending posts", claimPendingSQL, owner, limit)
}

// SaveTags stores the computed tag and bi-gram keys and marks the post done.
// Returns domain.ErrNotFound if the post is not in processing.
func (r *Repo) SaveTags(ctx context.Context, id uuid.UUID, tags, biGrams []string) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, saveTagsSQL, id, nonNil(tags), nonNil(biGrams))
	if err != nil {
		return postgres.MapError(err, "post", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Release returns a claimed post to the idle state after a failed attempt.
func (r *Repo) Release(ctx context.Context, id uuid.UUID) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, releaseSQL, id); err != nil {
		return postgres.MapError(err, "post", id.String())
	}
	return nil
}

// SetRead sets the read flag of the owner's posts that are not in processing
// and returns the posts whose flag actually changed.
func (r *Repo) SetRead(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}
	return r.queryPosts(ctx, "set posts read", setReadSQL, owner, ids, read)
}

func (r *Repo) queryPosts(ctx context.Context, op, query string, args ...any) ([]domain.Post, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.q).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (domain.Post, error) {
	var (
		p          domain.Post
		processing string
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.FeedID, &p.CategoryID, &p.Title, &p.Content, &p.URL,
		&p.Read, &p.Favorite, &p.Tags, &p.BiGrams, &processing, &p.CreatedAt,
	)
	p.Processing = domain.ProcessingState(processing)
	return p, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
