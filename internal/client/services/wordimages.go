package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/imaging"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/recognizer"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/dbx"
	"github.com/keijiban-app/keijiban/internal/logging"
	"golang.org/x/sync/errgroup"
)

var ErrNoRecognizer = errors.New("no recognizer configured")

// ItemError reports a batch item that was skipped.
type ItemError struct {
	Index int
	Text  string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("item %d (%q): %v", e.Index, e.Text, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchResult holds the stored word-images in input order and the items
// that could not be encoded.
type BatchResult struct {
	Saved  []models.WordImage
	Failed []ItemError
}

type WordImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recognizer  recognizer.Recognizer
	log         logging.Logger
	now         func() time.Time
	encode      func(image.Image, int) ([]byte, error)
	workers     int
}

// NewWordImageService builds the service. rec may be nil when only stored
// word-images are handled.
func NewWordImageService(db *sql.DB, rm repomanager.RepositoryManager, rec recognizer.Recognizer, log logging.Logger) *WordImageService {
	return &WordImageService{
		db:          db,
		repomanager: rm,
		recognizer:  rec,
		log:         log.With("service", "wordimages"),
		now:         time.Now,
		encode:      imaging.EncodeJPEG,
		workers:     runtime.GOMAXPROCS(0),
	}
}

func (s *WordImageService) build(rw models.RecognizedWord, boardID uuid.UUID) (*models.WordImage, error) {
	data, err := s.encode(rw.Image, imaging.StoreQuality)
	if err != nil {
		if !errors.Is(err, common.ErrEncode) {
			err = fmt.Errorf("%w: %w", common.ErrEncode, err)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", common.ErrEncode)
	}
	return &models.WordImage{
		ID:        uuid.New(),
		Text:      rw.Text,
		ImageData: data,
		BoardID:   boardID,
		CreatedAt: s.now().UTC(),
	}, nil
}

// Ingest encodes one recognized word and stores it under boardID.
func (s *WordImageService) Ingest(ctx context.Context, rw models.RecognizedWord, boardID uuid.UUID) (*models.WordImage, error) {
	w, err := s.build(rw, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.WordImages(s.db).Insert(ctx, w); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
	}
	return w, nil
}

// IngestBatch encodes recognized words concurrently and stores the ones that
// encoded in a single transaction, in input order. Encode failures are
// reported per item; a store failure aborts the whole batch.
func (s *WordImageService) IngestBatch(ctx context.Context, recognized []models.RecognizedWord, boardID uuid.UUID) (BatchResult, error) {
	built := make([]*models.WordImage, len(recognized))
	failed := make([]error, len(recognized))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))
	for i := range recognized {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			built[i], failed[i] = s.build(recognized[i], boardID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for i, err := range failed {
		if err == nil {
			continue
		}
		res.Failed = append(res.Failed, ItemError{Index: i, Text: recognized[i].Text, Err: err})
		s.log.Warn(ctx, "word image skipped", "index", i, "text", recognized[i].Text, "error", err)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.WordImages(tx)
		for _, w := range built {
			if w == nil {
				continue
			}
			if err := repo.Insert(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: %w", common.ErrStoreWrite, err)
	}

	for _, w := range built {
		if w != nil {
			res.Saved = append(res.Saved, *w)
		}
	}

	s.log.Info(ctx, "word images ingested", "board", boardID, "saved", len(res.Saved), "skipped", len(res.Failed))
	return res, nil
}

// ListByBoard returns the board's word-images, oldest first.
func (s *WordImageService) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]models.WordImage, error) {
	list, err := s.repomanager.WordImages(s.db).ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreRead, err)
	}
	return list, nil
}

// Analyze runs the configured recognizer on img.
func (s *WordImageService) Analyze(ctx context.Context, img image.Image) ([]models.RecognizedWord, error) {
	if s.recognizer == nil {
		return nil, ErrNoRecognizer
	}
	words, err := s.recognizer.Analyze(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return words, nil
}

// WithRecognizer returns a copy of s using rec.
func (s *WordImageService) WithRecognizer(rec recognizer.Recognizer) *WordImageService {
	c := *s
	c.recognizer = rec
	return &c
}
