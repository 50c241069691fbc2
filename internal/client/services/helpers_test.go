package services

import (
	"context"
	"database/sql"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/client"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/boards"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/client/storage"
	"github.com/keijiban-app/keijiban/internal/dbx"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storeBoards(t *testing.T, db *sql.DB, bs ...models.Board) {
	t.Helper()
	repo := boards.NewSQLiteRepository(db)
	for i := range bs {
		require.NoError(t, repo.Insert(context.Background(), &bs[i]))
	}
}

func allBoards(t *testing.T, db *sql.DB) map[uuid.UUID]models.Board {
	t.Helper()
	list, err := boards.NewSQLiteRepository(db).GetAll(context.Background())
	require.NoError(t, err)
	out := make(map[uuid.UUID]models.Board, len(list))
	for _, b := range list {
		out[b.ID] = b
	}
	return out
}

func crop(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 200, A: 255})
		}
	}
	return img
}

// fakeGateway embeds client.Gateway; unset methods panic.
type fakeGateway struct {
	client.Gateway

	boards      []models.Board
	fetched     []models.FetchedBoard
	entries     []models.Entry
	err         error
	fetchCalls  int
	gotOffset   *int64
	gotCount    *int
	posted      [][]byte
	postedBoard uuid.UUID
	postedBy    string
	postedKey   string
}

func (f *fakeGateway) FetchBoards(ctx context.Context) ([]models.Board, error) {
	f.fetchCalls++
	return f.boards, f.err
}

func (f *fakeGateway) FetchBoardsWithEntries(ctx context.Context) ([]models.FetchedBoard, error) {
	f.fetchCalls++
	return f.fetched, f.err
}

func (f *fakeGateway) FetchEntries(ctx context.Context, boardID uuid.UUID, offset *int64, count *int) ([]models.Entry, error) {
	f.gotOffset, f.gotCount = offset, count
	return f.entries, f.err
}

func (f *fakeGateway) PostEntry(ctx context.Context, boardID uuid.UUID, images [][]byte, author, key string) error {
	f.postedBoard, f.posted, f.postedBy, f.postedKey = boardID, images, author, key
	return f.err
}

// hookedManager wraps a real manager so tests can intercept board repositories.
type hookedManager struct {
	repomanager.RepositoryManager
	wrapBoards func(boards.Repository) boards.Repository
}

func (m *hookedManager) Boards(db dbx.DBTX) boards.Repository {
	r := m.RepositoryManager.Boards(db)
	if m.wrapBoards != nil {
		return m.wrapBoards(r)
	}
	return r
}

type hookedBoards struct {
	boards.Repository
	getAll func(ctx context.Context) ([]models.Board, error)
	insert func(ctx context.Context, b *models.Board) error
}

func (h *hookedBoards) GetAll(ctx context.Context) ([]models.Board, error) {
	if h.getAll != nil {
		return h.getAll(ctx)
	}
	return h.Repository.GetAll(ctx)
}

func (h *hookedBoards) Insert(ctx context.Context, b *models.Board) error {
	if h.insert != nil {
		return h.insert(ctx, b)
	}
	return h.Repository.Insert(ctx, b)
}
