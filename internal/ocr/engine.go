// Package ocr defines the OCR engine contract and the ranked fallback
// cascade that routes one rasterized page image through the available
// engines.
package ocr

import (
	"context"
	"image"

	"github.com/docforge/document-extractor/internal/models"
)

// Engine recognizes text in a single page image. Implementations own their
// confidence normalization: every returned block carries a confidence in
// [0,1]. Page numbers on returned blocks are unset; the caller assigns
// them.
type Engine interface {
	// Name identifies the engine in logs and capability reports.
	Name() string

	// Recognize returns the recognized text blocks in natural engine
	// order. An empty slice is a valid "nothing recognized" result, not an
	// error.
	Recognize(ctx context.Context, img image.Image) ([]models.TextBlock, error)
}
