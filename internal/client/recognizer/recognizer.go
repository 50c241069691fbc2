// Package recognizer defines the word recognition contract and a
// manifest-driven implementation.
//
// Real OCR is an external collaborator. ManifestRecognizer stands in for it
// by reading word regions from a JSON sidecar prepared beforehand, which is
// enough to drive ingestion from the CLI and in tests.
package recognizer

import (
	"context"
	"image"

	"github.com/keijiban-app/keijiban/internal/client/models"
)

// Recognizer finds words in a photo and returns one crop per word.
type Recognizer interface {
	Analyze(ctx context.Context, img image.Image) ([]models.RecognizedWord, error)
}
