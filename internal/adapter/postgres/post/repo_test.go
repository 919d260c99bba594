package post

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

var postColumns = []string{
	"id", "owner_id", "feed_id", "category_id", "title", "content", "url",
	"read", "favorite", "tags", "bi_grams", "processing", "created_at",
}

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_SetRead(t *testing.T) {
	owner := uuid.New()
	changed := uuid.New()
	unchanged := uuid.New()
	now := time.Now()

	idle := uuid.New()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET read = $3") + `(?s).*` +
		regexp.QuoteMeta("processing <> 'PROCESSING'")).
		WithArgs(owner, []uuid.UUID{changed, unchanged, idle}, true).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow(
				changed, owner, "f", "c", "t", "<p>x</p>", "https://x",
				true, false, []string{"go"}, []string{"go lang"}, "DONE", now,
			).
			AddRow(
				idle, owner, "f", "c", "t", "<p>y</p>", "https://y",
				true, false, []string{}, []string{}, "IDLE", now,
			))

	got, err := repo.SetRead(context.Background(), owner, []uuid.UUID{changed, unchanged, idle}, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, changed, got[0].ID)
	assert.Equal(t, []string{"go"}, got[0].Tags)
	assert.Equal(t, domain.ProcessingDone, got[0].Processing)
	assert.Equal(t, idle, got[1].ID)
	assert.Equal(t, domain.ProcessingIdle, got[1].Processing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SetRead_NoIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	got, err := repo.SetRead(context.Background(), uuid.New(), nil, true)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SaveTags(t *testing.T) {
	id := uuid.New()

	t.Run("saved", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("SET tags = $2, bi_grams = $3, processing = 'DONE'")).
			WithArgs(id, []string{"go"}, []string{}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.SaveTags(context.Background(), id, []string{"go"}, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not claimed", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`UPDATE posts`).
			WithArgs(id, []string{}, []string{}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SaveTags(context.Background(), id, nil, nil)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_ClaimPending(t *testing.T) {
	owner := uuid.New()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(owner, 10).
		WillReturnRows(pgxmock.NewRows(postColumns))

	got, err := repo.ClaimPending(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
