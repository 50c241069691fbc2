package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"strings"

	"github.com/keijiban-app/keijiban/internal/client/imaging"
	"github.com/keijiban-app/keijiban/internal/client/models"
)

// ManifestExt is appended to an image path to locate its sidecar.
const ManifestExt = ".words.json"

var ErrInvalidRegion = errors.New("invalid word region")

// Region is one word in a manifest, in image pixel coordinates.
type Region struct {
	Text   string `json:"text"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Manifest lists the words of one image.
type Manifest struct {
	Words []Region `json:"words"`
}

// ReadManifest decodes a manifest and rejects regions without text or area.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	for i, w := range m.Words {
		if strings.TrimSpace(w.Text) == "" || w.Width <= 0 || w.Height <= 0 {
			return nil, fmt.Errorf("word %d: %w", i, ErrInvalidRegion)
		}
	}
	return &m, nil
}

// ManifestRecognizer returns the words listed in its manifest.
type ManifestRecognizer struct {
	manifest *Manifest
}

func NewManifestRecognizer(m *Manifest) *ManifestRecognizer {
	return &ManifestRecognizer{manifest: m}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func crop(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rectangle{Max: r.Size()})
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// Analyze crops every manifest region that overlaps img. Regions are clipped
// to the image bounds; regions entirely outside it are dropped.
func (m *ManifestRecognizer) Analyze(ctx context.Context, img image.Image) ([]models.RecognizedWord, error) {
	bounds := img.Bounds()
	words := make([]models.RecognizedWord, 0, len(m.manifest.Words))

	for _, w := range m.manifest.Words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := w.Rect().Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			continue
		}
		words = append(words, models.RecognizedWord{
			Text:   w.Text,
			Image:  crop(img, r),
			Origin: r.Min.Sub(bounds.Min),
		})
	}
	return words, nil
}

// LoadFile reads the image at path and its sidecar manifest (path +
// ManifestExt).
func LoadFile(path string) (image.Image, *ManifestRecognizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path + ManifestExt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := ReadManifest(f)
	if err != nil {
		return nil, nil, err
	}
	return img, NewManifestRecognizer(m), nil
}
