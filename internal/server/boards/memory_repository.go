package boards

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/common"
)

// MemoryRepository is a Repository guarded by a single RWMutex.
type MemoryRepository struct {
	mu      sync.RWMutex
	boards  []Board
	entries map[uuid.UUID][]*Entry
}

func NewMemoryRepository(boards []Board) *MemoryRepository {
	r := &MemoryRepository{
		boards:  slices.Clone(boards),
		entries: make(map[uuid.UUID][]*Entry, len(boards)),
	}
	sort.SliceStable(r.boards, func(i, j int) bool { return r.boards[i].Index < r.boards[j].Index })
	return r
}

func (r *MemoryRepository) ListBoards(ctx context.Context) ([]Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.boards), nil
}

func (r *MemoryRepository) GetBoard(ctx context.Context, id uuid.UUID) (*Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.board(id)
}

func (r *MemoryRepository) board(id uuid.UUID) (*Board, error) {
	for i := range r.boards {
		if r.boards[i].ID == id {
			b := r.boards[i]
			return &b, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) ListEntries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, limit int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := r.board(boardID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Entry{}, nil
	}

	// stored oldest first; walk backwards for newest first
	all := r.entries[boardID]
	out := make([]Entry, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		e := all[i]
		if offsetCreatedAt != nil && e.CreatedAt > *offsetCreatedAt {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *MemoryRepository) GetEntry(ctx context.Context, boardID, entryID uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, err := r.entryIndex(boardID, entryID)
	if err != nil {
		return nil, err
	}
	e := *r.entries[boardID][i]
	return &e, nil
}

func (r *MemoryRepository) entryIndex(boardID, entryID uuid.UUID) (int, error) {
	for i, e := range r.entries[boardID] {
		if e.ID == entryID {
			return i, nil
		}
	}
	return -1, common.ErrNotFound
}

// CreateEntry appends e keeping the per-board slice ordered by CreatedAt.
func (r *MemoryRepository) CreateEntry(ctx context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.board(e.BoardID); err != nil {
		return err
	}

	c := *e
	list := r.entries[e.BoardID]
	i := sort.Search(len(list), func(i int) bool { return list[i].CreatedAt > c.CreatedAt })
	r.entries[e.BoardID] = slices.Insert(list, i, &c)
	return nil
}

func (r *MemoryRepository) DeleteEntry(ctx context.Context, boardID, entryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.entryIndex(boardID, entryID)
	if err != nil {
		return err
	}
	r.entries[boardID] = slices.Delete(r.entries[boardID], i, i+1)
	return nil
}

func (r *MemoryRepository) IncrementLikes(ctx context.Context, boardID, entryID uuid.UUID) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.entryIndex(boardID, entryID)
	if err != nil {
		return nil, err
	}
	e := r.entries[boardID][i]
	e.LikeCount++
	c := *e
	return &c, nil
}
