package pdfdoc

import (
	"image"
)

// Span is a run of selectable text with its axis-aligned bounding box
// [x1, y1, x2, y2] in page point space.
type Span struct {
	Text string
	BBox [4]float64
}

// Document is the parsed-PDF capability consumed by classification and the
// extraction strategies. Page numbers are 1-based.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the full selectable text of a page.
	PageText(page int) (string, error)

	// PageSpans returns the positioned text spans of a page.
	PageSpans(page int) ([]Span, error)

	// RenderPage rasterizes a page at scale times the native 72 DPI unit,
	// without an alpha channel.
	RenderPage(page int, scale float64) (image.Image, error)

	// Close releases any resources held by the document.
	Close() error
}

// OpenFunc opens a Document from raw PDF bytes. The service takes it as a
// dependency so tests can substitute fakes.
type OpenFunc func(data []byte) (Document, error)
