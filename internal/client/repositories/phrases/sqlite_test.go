package phrases

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
	_, err := db.Exec(`insert into boards (id, name, idx) values (?, 'b', 0)`, id)
	require.NoError(t, err)
	return id
}

func seedWordImage(t *testing.T, db *sql.DB, boardID uuid.UUID, text string) models.WordImage {
	t.Helper()
	w := models.WordImage{
		ID:        uuid.New(),
		Text:      text,
		ImageData: []byte(text),
		BoardID:   boardID,
		CreatedAt: time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
	}
	_, err := db.Exec(`insert into word_images (id, text, image_data, board_id, created_at) values (?, ?, ?, ?, ?)`,
		w.ID, w.Text, w.ImageData, w.BoardID, w.CreatedAt)
	require.NoError(t, err)
	return w
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`select count(*) from `+table).Scan(&n))
	return n
}

func TestInsertAndGetByID_RoundTripsOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b1, b2 := seedBoard(t, db), seedBoard(t, db)
	w1 := seedWordImage(t, db, b1, "ほぼ")
	w2 := seedWordImage(t, db, b2, "全部")
	w3 := seedWordImage(t, db, b1, "読み")

	p := models.NewPhrase([]models.WordImage{w3, w1, w2, w1}, time.Now().UTC())
	require.NoError(t, r.Insert(ctx, p))

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "読みほぼ全部ほぼ", got.Text)
	assert.ElementsMatch(t, []uuid.UUID{b1, b2}, got.BoardIDs)
	assert.Equal(t, []models.WordImage{w3, w1, w2, w1}, got.OrderedWordImages())
}

func TestInsert_EmptyPhrase(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := models.NewPhrase(nil, time.Now())
	require.NoError(t, r.Insert(ctx, p))

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
	assert.Empty(t, got.OrderedWordImages())
	assert.Empty(t, got.BoardIDs)
}

func TestInsert_MissingWordImageFails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	ghost := models.WordImage{ID: uuid.New(), Text: "x", BoardID: seedBoard(t, db)}
	err := r.Insert(context.Background(), models.NewPhrase([]models.WordImage{ghost}, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert phrase relation")
}

func TestWordImageDeletion_DropsRelationFromOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b := seedBoard(t, db)
	w1 := seedWordImage(t, db, b, "a")
	w2 := seedWordImage(t, db, b, "b")
	w3 := seedWordImage(t, db, b, "c")
	p := models.NewPhrase([]models.WordImage{w1, w2, w3}, time.Now())
	require.NoError(t, r.Insert(ctx, p))

	_, err := db.Exec(`delete from word_images where id=?`, w2.ID)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Relations, 3)
	assert.False(t, got.Relations[1].WordImageID.Valid)
	assert.Equal(t, []models.WordImage{w1, w3}, got.OrderedWordImages())
	assert.Equal(t, "abc", got.Text)
}

func TestDeleteByID_CascadesRelationsKeepsWordImages(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b := seedBoard(t, db)
	w := seedWordImage(t, db, b, "a")
	p := models.NewPhrase([]models.WordImage{w, w}, time.Now())
	require.NoError(t, r.Insert(ctx, p))

	require.NoError(t, r.DeleteByID(ctx, p.ID))

	assert.Equal(t, 0, count(t, db, "phrase_word_images"))
	assert.Equal(t, 0, count(t, db, "phrase_boards"))
	assert.Equal(t, 1, count(t, db, "word_images"))

	_, err := r.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	err = r.DeleteByID(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByBoardAndListAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	b1, b2 := seedBoard(t, db), seedBoard(t, db)
	w1 := seedWordImage(t, db, b1, "x")
	w2 := seedWordImage(t, db, b2, "y")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := models.NewPhrase([]models.WordImage{w1}, base)
	newer := models.NewPhrase([]models.WordImage{w1, w2}, base.Add(time.Hour))
	onlyB2 := models.NewPhrase([]models.WordImage{w2}, base.Add(2*time.Hour))
	for _, p := range []*models.Phrase{older, newer, onlyB2} {
		require.NoError(t, r.Insert(ctx, p))
	}

	list, err := r.ListByBoard(ctx, b1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Equal(t, []models.WordImage{w1, w2}, list[0].OrderedWordImages())

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, onlyB2.ID, all[0].ID)
}

func TestListAll_QueryErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`from phrases`).WillReturnError(errors.New("gone"))

	_, err = NewSQLiteRepository(db).ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select phrases")
}

func TestInsert_PhraseBoardErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	w := models.WordImage{ID: uuid.New(), BoardID: uuid.New()}
	p := models.NewPhrase([]models.WordImage{w}, time.Now())

	mock.ExpectExec(`insert into phrases`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`insert into phrase_word_images`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`insert into phrase_boards`).WillReturnError(errors.New("constraint"))

	err = NewSQLiteRepository(db).Insert(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to link phrase to board")
	require.NoError(t, mock.ExpectationsWereMet())
}
