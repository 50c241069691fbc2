package models

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// WordImage is a single recognized word: its text and the JPEG crop it was
// read from. It belongs to exactly one board and is immutable once stored.
type WordImage struct {
	ID        uuid.UUID
	Text      string
	ImageData []byte
	BoardID   uuid.UUID
	CreatedAt time.Time
}

// RecognizedWord is one result of image analysis: the recognized text, the
// cropped bitmap and where the crop sits in the original image.
type RecognizedWord struct {
	Text   string
	Image  image.Image
	Origin image.Point
}
