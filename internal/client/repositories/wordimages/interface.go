package wordimages

import (
	"context"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
)

// Repository persists word-images. Word-images are immutable, so there is
// no update operation.
type Repository interface {
	Insert(ctx context.Context, w *models.WordImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WordImage, error)

	// GetByIDs returns the word-images found among ids keyed by id. Missing
	// ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.WordImage, error)

	// ListByBoard returns the board's word-images, oldest first.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]models.WordImage, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
}
