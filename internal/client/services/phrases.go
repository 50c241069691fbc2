package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/dbx"
	"github.com/keijiban-app/keijiban/internal/logging"
)

type PhraseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewPhraseService(db *sql.DB, rm repomanager.RepositoryManager, log logging.Logger) *PhraseService {
	return &PhraseService{db: db, repomanager: rm, log: log.With("service", "phrases"), now: time.Now}
}

// CreatePhrase composes and stores a phrase from wordImages in order. The
// word-images must already be stored; they are referenced, not inserted.
func (s *PhraseService) CreatePhrase(ctx context.Context, wordImages []models.WordImage) (*models.Phrase, error) {
	p := models.NewPhrase(wordImages, s.now().UTC())

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Phrases(tx).Insert(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
	}

	s.log.Debug(ctx, "phrase created", "id", p.ID, "words", len(p.Relations))
	return p, nil
}

// CreatePhraseFromIDs loads the word-images by id, keeping the order and
// repetitions of ids, and composes a phrase from them.
func (s *PhraseService) CreatePhraseFromIDs(ctx context.Context, ids []uuid.UUID) (*models.Phrase, error) {
	found, err := s.repomanager.WordImages(s.db).GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreRead, err)
	}

	wordImages := make([]models.WordImage, 0, len(ids))
	for _, id := range ids {
		w, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("word image %s: %w", id, common.ErrNotFound)
		}
		wordImages = append(wordImages, w)
	}
	return s.CreatePhrase(ctx, wordImages)
}

func readErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStoreRead, err)
}

func (s *PhraseService) GetPhrase(ctx context.Context, id uuid.UUID) (*models.Phrase, error) {
	p, err := s.repomanager.Phrases(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, readErr(err)
	}
	return p, nil
}

// ListByBoard returns phrases containing a word-image of boardID, newest first.
func (s *PhraseService) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Phrase, error) {
	list, err := s.repomanager.Phrases(s.db).ListByBoard(ctx, boardID)
	if err != nil {
		return nil, readErr(err)
	}
	return list, nil
}

func (s *PhraseService) ListAll(ctx context.Context) ([]*models.Phrase, error) {
	list, err := s.repomanager.Phrases(s.db).ListAll(ctx)
	if err != nil {
		return nil, readErr(err)
	}
	return list, nil
}

// DeletePhrase removes the phrase and its relations. Word-images stay.
func (s *PhraseService) DeletePhrase(ctx context.Context, id uuid.UUID) error {
	err := s.repomanager.Phrases(s.db).DeleteByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
	}
	return nil
}
