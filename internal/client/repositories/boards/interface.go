package boards

import (
	"context"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
)

// Repository describes persistence of the locally cached board list.
type Repository interface {
	// GetAll returns every stored board, soft-deleted ones included.
	GetAll(ctx context.Context) ([]models.Board, error)

	// GetActive returns boards that are not soft-deleted, ordered by index.
	GetActive(ctx context.Context) ([]models.Board, error)

	// GetByID returns a board regardless of its deleted flag.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Board, error)

	Insert(ctx context.Context, b *models.Board) error

	// Update writes name, index, synced time and deleted flag of an existing board.
	Update(ctx context.Context, b *models.Board) error

	// DeleteByID erases the row. Word-images owned by the board go with it.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
