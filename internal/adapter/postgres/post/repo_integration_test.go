package post_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/post"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

func TestRepo_Lifecycle(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := post.New(pool)
	ctx := context.Background()
	owner := uuid.New()

	first := testhelper.SeedPost(t, pool, owner, "<p>first</p>")
	second := testhelper.SeedPost(t, pool, owner, "<p>second</p>")

	owners, err := repo.PendingOwners(ctx)
	require.NoError(t, err)
	assert.Contains(t, owners, owner)

	claimed, err := repo.ClaimPending(ctx, owner, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, first.ID, claimed[0].ID, "oldest post is claimed first")
	assert.Equal(t, domain.ProcessingInProgress, claimed[0].Processing)

	// The claimed post is skipped; the idle one is flipped.
	changed, err := repo.SetRead(ctx, owner, []uuid.UUID{first.ID, second.ID}, true)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, second.ID, changed[0].ID)
	assert.Equal(t, domain.ProcessingIdle, changed[0].Processing)

	require.NoError(t, repo.SaveTags(ctx, first.ID, []string{"first"}, []string{}))
	err = repo.SaveTags(ctx, first.ID, []string{"first"}, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "post is no longer in processing")

	changed, err = repo.SetRead(ctx, owner, []uuid.UUID{first.ID, second.ID}, true)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, first.ID, changed[0].ID)
	assert.Equal(t, []string{"first"}, changed[0].Tags)

	changed, err = repo.SetRead(ctx, owner, []uuid.UUID{first.ID}, true)
	require.NoError(t, err)
	assert.Empty(t, changed, "already read")

	claimed, err = repo.ClaimPending(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.True(t, claimed[0].Read, "read flag set while idle is kept")
	require.NoError(t, repo.Release(ctx, claimed[0].ID))

	got, err := repo.Get(ctx, owner, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingIdle, got.Processing)

	_, err = repo.Get(ctx, uuid.New(), second.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepo_Insert(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := post.New(pool)
	ctx := context.Background()

	p := domain.Post{ID: uuid.New(), OwnerID: uuid.New(), Title: "t", Content: "c"}
	require.NoError(t, repo.Insert(ctx, p))

	err := repo.Insert(ctx, p)
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
}
