package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
)

// Gateway is the contract of the remote board service.
type Gateway interface {
	// FetchBoards returns the current board list.
	FetchBoards(ctx context.Context) ([]models.Board, error)

	// FetchBoardsWithEntries returns boards with their most recent entries.
	FetchBoardsWithEntries(ctx context.Context) ([]models.FetchedBoard, error)

	// FetchEntries returns entries of a board created at or before
	// offsetCreatedAt (newest first when nil), at most count of them.
	FetchEntries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, count *int) ([]models.Entry, error)

	// PostEntry publishes images (already encoded thumbnails) in the given order.
	PostEntry(ctx context.Context, boardID uuid.UUID, images [][]byte, authorName, deleteKey string) error

	Ping(ctx context.Context) error
}
