package boards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxWordImages matches the client's per-entry limit.
	MaxWordImages = 20
)

// ErrWrongDeleteKey is returned when a delete key does not match the hash
// stored with the entry.
var ErrWrongDeleteKey = errors.New("delete key does not match")

// BoardWithEntries is a board plus its newest entries.
type BoardWithEntries struct {
	Board
	Entries []Entry
}

type Service struct {
	repo       Repository
	pageSize   int
	bcryptCost int
	now        func() time.Time
}

func NewService(repo Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		repo:       repo,
		pageSize:   min(pageSize, MaxPageSize),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Boards lists all boards ordered by index. With withEntries each board
// carries its first page of entries.
func (s *Service) Boards(ctx context.Context, withEntries bool) ([]BoardWithEntries, error) {
	list, err := s.repo.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing boards: %w", err)
	}

	out := make([]BoardWithEntries, len(list))
	for i, b := range list {
		out[i].Board = b
		if !withEntries {
			continue
		}
		entries, err := s.repo.ListEntries(ctx, b.ID, nil, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("error listing entries of %s: %w", b.ID, err)
		}
		out[i].Entries = entries
	}
	return out, nil
}

// Entries returns a page of boardID's entries created at or before
// offsetCreatedAt, newest first. count is clamped to [1, MaxPageSize]; nil
// selects the configured page size.
func (s *Service) Entries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, count *int) ([]Entry, error) {
	limit := s.pageSize
	if count != nil {
		if *count <= 0 {
			return nil, fmt.Errorf("%w: count must be positive", common.ErrValidation)
		}
		limit = min(*count, MaxPageSize)
	}
	return s.repo.ListEntries(ctx, boardID, offsetCreatedAt, limit)
}

// Post stores a new entry. Images are ordered by their Index, not by the
// order they arrived in. The delete key is kept only as a bcrypt hash.
func (s *Service) Post(ctx context.Context, boardID uuid.UUID, images []PostedImage, authorName, deleteKey string) (*Entry, error) {
	switch {
	case strings.TrimSpace(authorName) == "":
		return nil, fmt.Errorf("%w: authorName is required", common.ErrValidation)
	case deleteKey == "":
		return nil, fmt.Errorf("%w: deleteKey is required", common.ErrValidation)
	case len(images) == 0:
		return nil, fmt.Errorf("%w: wordImages must not be empty", common.ErrValidation)
	case len(images) > MaxWordImages:
		return nil, fmt.Errorf("%w: at most %d wordImages", common.ErrValidation, MaxWordImages)
	}

	sorted := make([]PostedImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	data := make([][]byte, len(sorted))
	for i, img := range sorted {
		if len(img.Data) == 0 {
			return nil, fmt.Errorf("%w: wordImages[%d] is empty", common.ErrValidation, img.Index)
		}
		data[i] = img.Data
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(deleteKey), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing delete key: %w", err)
	}

	e := &Entry{
		ID:            uuid.New(),
		BoardID:       boardID,
		WordImages:    data,
		AuthorName:    authorName,
		CreatedAt:     s.now().Unix(),
		DeleteKeyHash: hash,
	}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an entry when deleteKey matches the one it was posted with.
func (s *Service) Delete(ctx context.Context, boardID, entryID uuid.UUID, deleteKey string) error {
	e, err := s.repo.GetEntry(ctx, boardID, entryID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(e.DeleteKeyHash, []byte(deleteKey)); err != nil {
		return ErrWrongDeleteKey
	}
	return s.repo.DeleteEntry(ctx, boardID, entryID)
}

func (s *Service) Like(ctx context.Context, boardID, entryID uuid.UUID) (*Entry, error) {
	return s.repo.IncrementLikes(ctx, boardID, entryID)
}
