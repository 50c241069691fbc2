package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/boards"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncService(t *testing.T, gw *fakeGateway) (*BoardSyncService, func() map[uuid.UUID]models.Board) {
	t.Helper()
	db := setupDB(t)
	s := NewBoardSyncService(db, repomanager.NewSQLiteRepositoryManager(), gw, logging.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s, func() map[uuid.UUID]models.Board { return allBoards(t, db) }
}

func TestSyncBoards_Scenario(t *testing.T) {
	s, state := newSyncService(t, &fakeGateway{})
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	storeBoards(t, s.db,
		models.Board{ID: id1, Name: "x", Index: 0},
		models.Board{ID: id2, Name: "y", Index: 1},
	)

	report, err := s.SyncBoards(context.Background(), []models.Board{
		{ID: id1, Name: "x2", Index: 0},
		{ID: id3, Name: "z", Index: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Inserted: 1, Updated: 1, Deleted: 1}, report)

	got := state()
	require.Len(t, got, 3)

	assert.Equal(t, "x2", got[id1].Name)
	assert.False(t, got[id1].IsDeleted)
	require.NotNil(t, got[id1].SyncedAt)
	assert.True(t, fixedNow.Equal(*got[id1].SyncedAt))

	assert.True(t, got[id2].IsDeleted)
	assert.Equal(t, "y", got[id2].Name)

	assert.Equal(t, "z", got[id3].Name)
	assert.Equal(t, 2, got[id3].Index)
	assert.False(t, got[id3].IsDeleted)
}

func TestSyncBoards_Idempotent(t *testing.T) {
	s, state := newSyncService(t, &fakeGateway{})
	stale := uuid.New()
	storeBoards(t, s.db, models.Board{ID: stale, Name: "old"})

	list := []models.Board{
		{ID: uuid.New(), Name: "新聞・雑誌部", Index: 0},
		{ID: uuid.New(), Name: "手書き部", Index: 1},
	}
	ctx := context.Background()

	_, err := s.SyncBoards(ctx, list)
	require.NoError(t, err)
	first := state()

	s.now = func() time.Time { return fixedNow.Add(time.Hour) }
	report, err := s.SyncBoards(ctx, list)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Unchanged: 2}, report)

	if diff := cmp.Diff(first, state(), cmpopts.IgnoreFields(models.Board{}, "SyncedAt")); diff != "" {
		t.Fatalf("second sync changed the store (-first +second):\n%s", diff)
	}
}

func TestSyncBoards_OrderDoesNotMatter(t *testing.T) {
	a := models.Board{ID: uuid.New(), Name: "a", Index: 5}
	b := models.Board{ID: uuid.New(), Name: "b", Index: 1}

	s1, state1 := newSyncService(t, &fakeGateway{})
	s2, state2 := newSyncService(t, &fakeGateway{})

	_, err := s1.SyncBoards(context.Background(), []models.Board{a, b})
	require.NoError(t, err)
	_, err = s2.SyncBoards(context.Background(), []models.Board{b, a})
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(state1(), state2()))
}

func TestSyncBoards_UndeleteOnReappear(t *testing.T) {
	s, state := newSyncService(t, &fakeGateway{})
	id := uuid.New()
	storeBoards(t, s.db, models.Board{ID: id, Name: "gone", Index: 3, IsDeleted: true})

	report, err := s.SyncBoards(context.Background(), []models.Board{{ID: id, Name: "back", Index: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	got := state()[id]
	assert.False(t, got.IsDeleted)
	assert.Equal(t, "back", got.Name)
	assert.Equal(t, 0, got.Index)
}

func TestSyncBoards_EmptyListInvalidatesAll(t *testing.T) {
	s, state := newSyncService(t, &fakeGateway{})
	storeBoards(t, s.db,
		models.Board{ID: uuid.New(), Name: "a"},
		models.Board{ID: uuid.New(), Name: "b"},
		models.Board{ID: uuid.New(), Name: "c", IsDeleted: true},
	)

	report, err := s.SyncBoards(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, SyncReport{Deleted: 2}, report)

	got := state()
	assert.Len(t, got, 3)
	for _, b := range got {
		assert.True(t, b.IsDeleted, b.Name)
	}

	active, err := s.ActiveBoards(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSyncBoards_SoftDeleteKeepsWordImages(t *testing.T) {
	s, _ := newSyncService(t, &fakeGateway{})
	id := uuid.New()
	storeBoards(t, s.db, models.Board{ID: id, Name: "a"})
	_, err := s.db.Exec(`insert into word_images (id, text, image_data, board_id, created_at) values (?, 'w', x'00', ?, ?)`,
		uuid.New(), id, fixedNow)
	require.NoError(t, err)

	_, err = s.SyncBoards(context.Background(), nil)
	require.NoError(t, err)

	var n int
	require.NoError(t, s.db.QueryRow(`select count(*) from word_images where board_id=?`, id).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSyncBoards_WriteFailureRollsBack(t *testing.T) {
	db := setupDB(t)
	keep := models.Board{ID: uuid.New(), Name: "keep", Index: 0}
	storeBoards(t, db, keep)
	before := allBoards(t, db)

	rm := &hookedManager{
		RepositoryManager: repomanager.NewSQLiteRepositoryManager(),
		wrapBoards: func(r boards.Repository) boards.Repository {
			return &hookedBoards{Repository: r, insert: func(ctx context.Context, b *models.Board) error {
				if b.Name == "bad" {
					return errors.New("disk full")
				}
				return r.Insert(ctx, b)
			}}
		},
	}
	s := NewBoardSyncService(db, rm, &fakeGateway{}, logging.NewNop())

	_, err := s.SyncBoards(context.Background(), []models.Board{
		{ID: keep.ID, Name: "renamed"},
		{ID: uuid.New(), Name: "good"},
		{ID: uuid.New(), Name: "bad"},
	})
	require.ErrorIs(t, err, common.ErrStoreWrite)

	assert.Empty(t, cmp.Diff(before, allBoards(t, db)))

	_, ok, err := s.LastSyncedAt(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSyncBoards_ReadFailure(t *testing.T) {
	db := setupDB(t)
	rm := &hookedManager{
		RepositoryManager: repomanager.NewSQLiteRepositoryManager(),
		wrapBoards: func(r boards.Repository) boards.Repository {
			return &hookedBoards{Repository: r, getAll: func(context.Context) ([]models.Board, error) {
				return nil, errors.New("io")
			}}
		},
	}
	s := NewBoardSyncService(db, rm, &fakeGateway{}, logging.NewNop())

	_, err := s.SyncBoards(context.Background(), []models.Board{{ID: uuid.New(), Name: "a"}})
	require.ErrorIs(t, err, common.ErrStoreRead)
	assert.Empty(t, allBoards(t, db))
}

func TestSyncBoards_StoreUnavailable(t *testing.T) {
	db := setupDB(t)
	s := NewBoardSyncService(db, repomanager.NewSQLiteRepositoryManager(), &fakeGateway{}, logging.NewNop())
	require.NoError(t, db.Close())

	_, err := s.SyncBoards(context.Background(), []models.Board{{ID: uuid.New(), Name: "a"}})
	require.ErrorIs(t, err, common.ErrStoreRead)
	assert.NotErrorIs(t, err, common.ErrStoreWrite)
}

func TestSyncBoards_CommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`from boards`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "idx", "synced_at", "deleted"}))
	mock.ExpectExec(`insert into boards`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	s := NewBoardSyncService(db, repomanager.NewSQLiteRepositoryManager(), &fakeGateway{}, logging.NewNop())
	_, err = s.SyncBoards(context.Background(), []models.Board{{ID: uuid.New(), Name: "a"}})
	require.ErrorIs(t, err, common.ErrStoreWrite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncBoards_ConcurrentCallRejected(t *testing.T) {
	db := setupDB(t)
	entered := make(chan struct{})
	release := make(chan struct{})

	rm := &hookedManager{
		RepositoryManager: repomanager.NewSQLiteRepositoryManager(),
		wrapBoards: func(r boards.Repository) boards.Repository {
			return &hookedBoards{Repository: r, getAll: func(ctx context.Context) ([]models.Board, error) {
				close(entered)
				<-release
				return r.GetAll(ctx)
			}}
		},
	}
	s := NewBoardSyncService(db, rm, &fakeGateway{}, logging.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := s.SyncBoards(context.Background(), nil)
		done <- err
	}()

	<-entered
	_, err := s.SyncBoards(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestRefresh_SyncsAndRecordsTime(t *testing.T) {
	gw := &fakeGateway{boards: []models.Board{{ID: uuid.New(), Name: "風景部", Index: 2}}}
	s, state := newSyncService(t, gw)

	fetched, err := s.Refresh(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Empty(t, fetched[0].Entries)
	assert.Len(t, state(), 1)

	at, ok, err := s.LastSyncedAt(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fixedNow.Equal(at))
}

func TestRefresh_WithEntries(t *testing.T) {
	board := models.Board{ID: uuid.New(), Name: "作字部"}
	gw := &fakeGateway{fetched: []models.FetchedBoard{{Board: board, Entries: []models.Entry{{ID: uuid.New()}}}}}
	s, state := newSyncService(t, gw)

	fetched, err := s.Refresh(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Len(t, fetched[0].Entries, 1)
	assert.Equal(t, "作字部", state()[board.ID].Name)
}

func TestRefresh_GatewayAndDecodeFailuresLeaveStoreAlone(t *testing.T) {
	for name, gwErr := range map[string]error{
		"gateway": common.ErrGateway,
		"decode":  common.ErrMissingIdentifier,
	} {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{err: gwErr}
			s, state := newSyncService(t, gw)
			existing := models.Board{ID: uuid.New(), Name: "a"}
			storeBoards(t, s.db, existing)

			_, err := s.Refresh(context.Background(), false)
			require.ErrorIs(t, err, gwErr)
			assert.False(t, state()[existing.ID].IsDeleted)

			_, ok, err := s.LastSyncedAt(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestActiveBoards_SortedByIndex(t *testing.T) {
	s, _ := newSyncService(t, &fakeGateway{})
	storeBoards(t, s.db,
		models.Board{ID: uuid.New(), Name: "c", Index: 2},
		models.Board{ID: uuid.New(), Name: "a", Index: 0},
		models.Board{ID: uuid.New(), Name: "del", Index: 1, IsDeleted: true},
	)

	active, err := s.ActiveBoards(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].Name)
	assert.Equal(t, "c", active[1].Name)
}
