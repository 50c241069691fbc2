package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/client"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/metadata"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/dbx"
	"github.com/keijiban-app/keijiban/internal/logging"
)

// SyncReport counts what a sync did to the local board list.
type SyncReport struct {
	Inserted  int
	Updated   int
	Unchanged int
	Deleted   int
}

// BoardSyncService mirrors the server's board list into the local store.
//
// Only one sync runs at a time per service; a call made while another is in
// flight fails with common.ErrSyncInProgress.
type BoardSyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     client.Gateway
	log         logging.Logger
	now         func() time.Time

	inFlight atomic.Bool
}

func NewBoardSyncService(db *sql.DB, rm repomanager.RepositoryManager, gateway client.Gateway, log logging.Logger) *BoardSyncService {
	return &BoardSyncService{
		db:          db,
		repomanager: rm,
		gateway:     gateway,
		log:         log.With("service", "boardsync"),
		now:         time.Now,
	}
}

// SyncBoards reconciles the stored boards with fetched in one transaction:
// known ids are updated in place and revived, unknown ids are inserted and
// stored boards absent from fetched are soft-deleted. An empty fetched list
// therefore soft-deletes everything. Nothing is written unless every step
// succeeds.
func (s *BoardSyncService) SyncBoards(ctx context.Context, fetched []models.Board) (SyncReport, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return SyncReport{}, common.ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	now := s.now().UTC()
	var report SyncReport

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		report = SyncReport{}
		repo := s.repomanager.Boards(tx)

		stored, err := repo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrStoreRead, err)
		}

		byID := make(map[uuid.UUID]*models.Board, len(stored))
		for i := range stored {
			byID[stored[i].ID] = &stored[i]
		}

		seen := make(map[uuid.UUID]struct{}, len(fetched))
		for _, f := range fetched {
			seen[f.ID] = struct{}{}

			if existing, ok := byID[f.ID]; ok {
				if existing.Update(f, now) {
					report.Updated++
				} else {
					report.Unchanged++
				}
				if err := repo.Update(ctx, existing); err != nil {
					return fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
				}
				continue
			}

			synced := now
			b := &models.Board{ID: f.ID, Name: f.Name, Index: f.Index, SyncedAt: &synced}
			if err := repo.Insert(ctx, b); err != nil {
				return fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
			}
			byID[b.ID] = b
			report.Inserted++
		}

		for i := range stored {
			b := &stored[i]
			if _, ok := seen[b.ID]; ok {
				continue
			}
			if !b.MarkDeleted() {
				continue
			}
			if err := repo.Update(ctx, b); err != nil {
				return fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
			}
			report.Deleted++
		}

		if err := metadata.SetTime(ctx, s.repomanager.Metadata(tx), metadata.KeyLastSyncedAt, now); err != nil {
			return fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrStoreRead), errors.Is(err, common.ErrStoreWrite):
		case errors.Is(err, dbx.ErrCommit):
			err = fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
		default:
			// Begin failed: nothing was read yet.
			err = fmt.Errorf("%w: %w", common.ErrStoreRead, err)
		}
		s.log.Error(ctx, "board sync failed", "error", err)
		return SyncReport{}, err
	}

	s.log.Info(ctx, "boards synced",
		"inserted", report.Inserted, "updated", report.Updated,
		"unchanged", report.Unchanged, "deleted", report.Deleted)
	return report, nil
}

// Refresh fetches boards from the gateway and syncs them. A fetch or decode
// failure returns before the store is touched.
func (s *BoardSyncService) Refresh(ctx context.Context, withEntries bool) ([]models.FetchedBoard, error) {
	var fetched []models.FetchedBoard
	if withEntries {
		boards, err := s.gateway.FetchBoardsWithEntries(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch boards: %w", err)
		}
		fetched = boards
	} else {
		boards, err := s.gateway.FetchBoards(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch boards: %w", err)
		}
		fetched = make([]models.FetchedBoard, len(boards))
		for i, b := range boards {
			fetched[i] = models.FetchedBoard{Board: b}
		}
	}

	if _, err := s.SyncBoards(ctx, models.Boards(fetched)); err != nil {
		return nil, err
	}
	return fetched, nil
}

// ActiveBoards lists boards that are not soft-deleted, in display order.
func (s *BoardSyncService) ActiveBoards(ctx context.Context) ([]models.Board, error) {
	boards, err := s.repomanager.Boards(s.db).GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreRead, err)
	}
	return boards, nil
}

// LastSyncedAt reports when the last successful sync committed. ok is false
// if no sync has happened yet.
func (s *BoardSyncService) LastSyncedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	t, ok, err = metadata.GetTime(ctx, s.repomanager.Metadata(s.db), metadata.KeyLastSyncedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", common.ErrStoreRead, err)
	}
	return t, ok, nil
}
