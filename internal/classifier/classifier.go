// Package classifier decides whether a PDF is born-digital or scanned.
//
// The verdict drives strategy selection: born-digital documents are read
// directly, scanned documents are rasterized and OCRed. The heuristic is a
// single cheap pass over selectable-text lengths; no page is rendered.
package classifier

import (
	"github.com/docforge/document-extractor/internal/pdfdoc"
)

// Verdict is the classification outcome for one PDF.
type Verdict struct {
	IsDigital bool
	// Ratio is the clamped text-density score in [0,1] the verdict was
	// derived from.
	Ratio float64
}

// Classify sums selectable-text character counts across all pages and
// scores them against a fixed per-page density denominator. Documents with
// ratio above threshold are digital; everything else, including zero-page
// or unreadable documents, is scanned. Misreads on individual pages count
// as zero characters, which biases toward the scanned path where OCR can
// still attempt something.
func Classify(doc pdfdoc.Document, densityDenominator int, threshold float64) Verdict {
	chars := 0
	for page := 1; page <= doc.PageCount(); page++ {
		text, err := doc.PageText(page)
		if err != nil {
			continue
		}
		chars += len(text)
	}

	pages := doc.PageCount()
	if pages < 1 {
		pages = 1
	}
	ratio := float64(chars) / float64(pages*densityDenominator)
	if ratio > 1 {
		ratio = 1
	}

	return Verdict{IsDigital: ratio > threshold, Ratio: ratio}
}
