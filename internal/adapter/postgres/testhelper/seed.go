package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedPost inserts a post for owner with the given HTML content.
// The post starts unread and unprocessed. Returns the filled domain.Post.
func SeedPost(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, content string) domain.Post {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	post := domain.Post{
		ID:         uuid.New(),
		OwnerID:    owner,
		FeedID:     "feed-" + suffix,
		CategoryID: "category-" + suffix,
		Title:      "Post " + suffix,
		Content:    content,
		URL:        "https://example.com/" + suffix,
		Tags:       []string{},
		BiGrams:    []string{},
		Processing: domain.ProcessingIdle,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO posts (id, owner_id, feed_id, category_id, title, content, url, processing, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		post.ID, post.OwnerID, post.FeedID, post.CategoryID, post.Title, post.Content, post.URL,
		string(post.Processing), post.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}

	return post
}

// SeedTag inserts a tag aggregate with explicit counters.
func SeedTag(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, tag string, posts, unread int) domain.Tag {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO tags (owner_id, tag, posts_count, unread_count) VALUES ($1, $2, $3, $4)`,
		owner, tag, posts, unread,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTag %q: %v", tag, err)
	}

	return domain.Tag{OwnerID: owner, Tag: tag, PostsCount: posts, UnreadCount: unread, Processing: domain.ProcessingIdle}
}

// SeedBiGram inserts a bi-gram aggregate with explicit counters.
func SeedBiGram(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, key string, tags []string, posts, unread int) domain.BiGram {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO bi_grams (owner_id, tag, tags, posts_count, unread_count) VALUES ($1, $2, $3, $4, $5)`,
		owner, key, tags, posts, unread,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBiGram %q: %v", key, err)
	}

	return domain.BiGram{OwnerID: owner, Tag: key, Tags: tags, PostsCount: posts, UnreadCount: unread}
}
