package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// Prepare cleans a rasterized page before recognition: grayscale, a mild
// contrast boost, then sharpening. Engines receive the cleaned image; the
// original raster is not retained.
func Prepare(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 10)
	return imaging.Sharpen(out, 0.5)
}
