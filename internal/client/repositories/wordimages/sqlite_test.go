package wordimages

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/storage"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedBoard(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`insert into boards (id, name, idx) values (?, ?, 0)`, id, "board")
	require.NoError(t, err)
	return id
}

func newWordImage(boardID uuid.UUID, text string, at time.Time) *models.WordImage {
	return &models.WordImage{
		ID:        uuid.New(),
		Text:      text,
		ImageData: []byte{0xFF, 0xD8, byte(len(text))},
		BoardID:   boardID,
		CreatedAt: at,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	boardID := seedBoard(t, db)
	at := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	w := newWordImage(boardID, "掲示板", at)
	require.NoError(t, r.Insert(ctx, w))

	got, err := r.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, "掲示板", got.Text)
	assert.Equal(t, w.ImageData, got.ImageData)
	assert.Equal(t, boardID, got.BoardID)
	assert.True(t, at.Equal(got.CreatedAt))
}

func TestInsert_UnknownBoardRejected(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Insert(context.Background(), newWordImage(uuid.New(), "x", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert word image")
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	_, err := NewSQLiteRepository(db).GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByIDs(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	boardID := seedBoard(t, db)
	a := newWordImage(boardID, "a", time.Now())
	b := newWordImage(boardID, "b", time.Now())
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))

	got, err := r.GetByIDs(ctx, []uuid.UUID{a.ID, uuid.New(), b.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[a.ID].Text)
	assert.Equal(t, "b", got[b.ID].Text)

	empty, err := r.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListByBoard_OldestFirstAndScoped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b1 := seedBoard(t, db)
	b2 := seedBoard(t, db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	second := newWordImage(b1, "second", base.Add(time.Minute))
	first := newWordImage(b1, "first", base)
	other := newWordImage(b2, "other", base)
	for _, w := range []*models.WordImage{second, first, other} {
		require.NoError(t, r.Insert(ctx, w))
	}

	list, err := r.ListByBoard(ctx, b1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	w := newWordImage(seedBoard(t, db), "x", time.Now())
	require.NoError(t, r.Insert(ctx, w))
	require.NoError(t, r.DeleteByID(ctx, w.ID))

	_, err := r.GetByID(ctx, w.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, r.DeleteByID(ctx, w.ID))
}

func TestListByBoard_QueryErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`from word_images where board_id=\?`).WillReturnError(errors.New("locked"))

	_, err = NewSQLiteRepository(db).ListByBoard(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select word images")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_DBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get word image")
}
