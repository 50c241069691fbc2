package boards

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListBoards(ctx context.Context) ([]Board, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*Board, error)

	// ListEntries returns up to limit entries of the board created at or
	// before offsetCreatedAt (any time when nil), newest first.
	ListEntries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, limit int) ([]Entry, error)
	GetEntry(ctx context.Context, boardID, entryID uuid.UUID) (*Entry, error)
	CreateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, boardID, entryID uuid.UUID) error
	IncrementLikes(ctx context.Context, boardID, entryID uuid.UUID) (*Entry, error)
}
