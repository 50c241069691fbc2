// Package imaging encodes word crops for storage and shrinks stored crops
// into the thumbnails posted to boards.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/png"

	"github.com/keijiban-app/keijiban/internal/common"
	"golang.org/x/image/draw"
)

const (
	// StoreQuality is used for word-images kept in the local store.
	StoreQuality = 90

	// ThumbnailQuality is used for images posted to a board.
	ThumbnailQuality = 30

	ThumbnailWidth  = 72
	ThumbnailHeight = 48
)

// EncodeJPEG encodes img at the given quality (1-100). A nil or empty image,
// an encoder failure or an empty result are reported as common.ErrEncode.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", common.ErrEncode)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: encoder produced no data", common.ErrEncode)
	}
	return buf.Bytes(), nil
}

// Decode reads a JPEG or PNG blob.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", common.ErrEncode, err)
	}
	return img, nil
}

// FitSize scales size uniformly so that it fits inside maxW x maxH, touching
// at least one edge. Smaller sources are scaled up. Each side is at least 1.
func FitSize(size image.Point, maxW, maxH int) image.Point {
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}
	}
	ratio := math.Min(float64(maxW)/float64(size.X), float64(maxH)/float64(size.Y))
	w := int(math.Round(float64(size.X) * ratio))
	h := int(math.Round(float64(size.Y) * ratio))
	return image.Pt(max(w, 1), max(h, 1))
}

// Resize draws src into a new RGBA image fitting inside maxW x maxH.
func Resize(src image.Image, maxW, maxH int) image.Image {
	size := FitSize(src.Bounds().Size(), maxW, maxH)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// Thumbnail turns a stored word-image blob into the posting format: fit into
// 72x48 and re-encode at ThumbnailQuality.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(Resize(img, ThumbnailWidth, ThumbnailHeight), ThumbnailQuality)
}
