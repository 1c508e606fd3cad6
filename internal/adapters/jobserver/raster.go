package jobserver

import (
	"bytes"
	"image"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/image/tiff"
)

// Raster sizes of synthesized exports and previews.
const (
	ExportSize  = 128
	PreviewSize = 16
)

// Synthesize renders a deterministic forest-cover raster of size×size cells for seed.
// Each sample is a cell class; identical seeds produce identical bytes.
func Synthesize(seed string, size int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, size, size))
	h := xxhash.Sum64String(seed)
	for y := range size {
		for x := range size {
			h ^= h << 13
			h ^= h >> 7
			h ^= h << 17
			class := domain.NoForest
			if h%100 < 62 {
				class = domain.Forest
			}
			img.Pix[y*img.Stride+x] = uint8(class)
		}
	}

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to encode raster"), "seed", seed)
	}
	return buf.Bytes(), nil
}
