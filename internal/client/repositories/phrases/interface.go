package phrases

import (
	"context"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
)

// Repository persists phrases with their ordered word-image relations and
// the set of boards they belong to.
type Repository interface {
	// Insert writes the phrase, its relations and board links. The
	// referenced word-images and boards must already exist.
	Insert(ctx context.Context, p *models.Phrase) error

	// GetByID loads a phrase with relations resolved to word-images.
	// Relations whose word-image was deleted come back with an invalid
	// WordImageID and a nil WordImage.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Phrase, error)

	// ListByBoard returns phrases linked to boardID, newest first.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Phrase, error)

	ListAll(ctx context.Context) ([]*models.Phrase, error)

	// DeleteByID removes the phrase and its relations, leaving word-images.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
