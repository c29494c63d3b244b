package ocr

import (
	"context"
	"image"
	"strings"

	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/pkg/logger"
)

// Cascade tries a ranked list of engines against one page image and keeps
// the first non-empty result verbatim. Falling back only on a zero-block
// result, never on low confidence, avoids mixing engines within a page:
// engines differ in output volume and their confidence scales are not
// directly comparable.
type Cascade struct {
	engines []Engine
	log     logger.Logger
}

// NewCascade builds a cascade over the given engines, ranked
// highest-preference first.
func NewCascade(engines []Engine, log logger.Logger) *Cascade {
	return &Cascade{engines: engines, log: log}
}

// Available reports whether at least one engine is usable.
func (c *Cascade) Available() bool {
	return len(c.engines) > 0
}

// Recognize runs the cascade. A nil or empty result means no engine
// recognized anything; that is a valid outcome, not an error. Engine
// failures are logged and treated the same as empty output.
func (c *Cascade) Recognize(ctx context.Context, img image.Image) []models.TextBlock {
	for _, engine := range c.engines {
		blocks, err := engine.Recognize(ctx, img)
		if err != nil {
			c.log.Warn("OCR engine failed, trying next",
				logger.String("engine", engine.Name()),
				logger.Error(err),
			)
			continue
		}
		blocks = dropEmpty(blocks)
		if len(blocks) > 0 {
			return blocks
		}
	}
	return nil
}

// dropEmpty removes whitespace-only blocks and clamps confidences into
// [0,1] so downstream code never sees out-of-range values.
func dropEmpty(blocks []models.TextBlock) []models.TextBlock {
	out := blocks[:0]
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		if b.Confidence < 0 {
			b.Confidence = 0
		} else if b.Confidence > 1 {
			b.Confidence = 1
		}
		out = append(out, b)
	}
	return out
}
