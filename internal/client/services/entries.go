package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/client"
	"github.com/keijiban-app/keijiban/internal/client/imaging"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/client/repositories/repomanager"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/logging"
)

// MaxPostWordImages caps the number of word-images in one entry.
const MaxPostWordImages = 20

// EntryService reads entries from boards and posts phrases to them. Entries
// are never stored locally.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     client.Gateway
	log         logging.Logger
	thumbnail   func([]byte) ([]byte, error)
}

func NewEntryService(db *sql.DB, rm repomanager.RepositoryManager, gateway client.Gateway, log logging.Logger) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: rm,
		gateway:     gateway,
		log:         log.With("service", "entries"),
		thumbnail:   imaging.Thumbnail,
	}
}

// ListEntries returns up to count entries of boardID, newest first. before is
// the createdAt of the oldest entry already shown; only strictly older
// entries are requested. A nil before starts from the newest entry and a
// non-positive count leaves the page size to the server.
func (s *EntryService) ListEntries(ctx context.Context, boardID uuid.UUID, before *int64, count int) ([]models.Entry, error) {
	var offset *int64
	if before != nil {
		o := *before - 1
		offset = &o
	}
	var n *int
	if count > 0 {
		n = &count
	}

	entries, err := s.gateway.FetchEntries(ctx, boardID, offset, n)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt > entries[j].CreatedAt })
	return entries, nil
}

// PostPhrase posts the stored phrase's word-images, in phrase order, as a
// new entry on boardID. The board must be known locally and not deleted;
// otherwise common.ErrNotFound is returned without contacting the server.
func (s *EntryService) PostPhrase(ctx context.Context, boardID, phraseID uuid.UUID, authorName, deleteKey string) error {
	if err := validatePost(authorName, deleteKey); err != nil {
		return err
	}

	b, err := s.repomanager.Boards(s.db).GetByID(ctx, boardID)
	if err != nil {
		return readErr(err)
	}
	if b.IsDeleted {
		return fmt.Errorf("%w: board %s was removed", common.ErrNotFound, boardID)
	}

	p, err := s.repomanager.Phrases(s.db).GetByID(ctx, phraseID)
	if err != nil {
		return readErr(err)
	}
	return s.PostWordImages(ctx, boardID, p.OrderedWordImages(), authorName, deleteKey)
}

// PostWordImages shrinks each word-image to a thumbnail and posts them as one
// entry. Word-images whose thumbnail cannot be produced are left out; if
// none remain the post fails with common.ErrEncode.
func (s *EntryService) PostWordImages(ctx context.Context, boardID uuid.UUID, wordImages []models.WordImage, authorName, deleteKey string) error {
	if err := validatePost(authorName, deleteKey); err != nil {
		return err
	}
	if len(wordImages) == 0 {
		return fmt.Errorf("%w: nothing to post", common.ErrValidation)
	}
	if len(wordImages) > MaxPostWordImages {
		return fmt.Errorf("%w: at most %d word images per entry, got %d", common.ErrValidation, MaxPostWordImages, len(wordImages))
	}

	images := make([][]byte, 0, len(wordImages))
	for _, w := range wordImages {
		thumb, err := s.thumbnail(w.ImageData)
		if err != nil {
			s.log.Warn(ctx, "word image left out of post", "id", w.ID, "error", err)
			continue
		}
		images = append(images, thumb)
	}
	if len(images) == 0 {
		return fmt.Errorf("%w: no word image could be thumbnailed", common.ErrEncode)
	}

	if err := s.gateway.PostEntry(ctx, boardID, images, authorName, deleteKey); err != nil {
		return fmt.Errorf("post entry: %w", err)
	}

	s.log.Info(ctx, "entry posted", "board", boardID, "images", len(images))
	return nil
}

func validatePost(authorName, deleteKey string) error {
	if strings.TrimSpace(authorName) == "" {
		return fmt.Errorf("%w: author name must not be empty", common.ErrValidation)
	}
	if deleteKey == "" {
		return fmt.Errorf("%w: delete key must not be empty", common.ErrValidation)
	}
	return nil
}
