// Package tables implements best-effort table detection over born-digital
// PDFs. Two geometric strategies run per page: ruling-based boundary
// detection over drawn rectangles, and alignment-based detection over word
// positions. Results from both are collected without cross-strategy
// deduplication, so a table found by both strategies appears twice; callers
// can tell them apart by the strategy label.
package tables

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/pkg/logger"
)

// Strategy detects tables on one page's content.
type Strategy interface {
	Name() string
	Detect(content pdf.Content, page int) ([]models.Table, error)
}

// Extractor runs every registered strategy over every page. A failure in
// one strategy on one page is contained: its contribution is empty and
// extraction continues for all other units.
type Extractor struct {
	strategies []Strategy
	log        logger.Logger
}

// NewExtractor builds an extractor with the ruling and alignment
// strategies.
func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		strategies: []Strategy{&rulingStrategy{}, &alignmentStrategy{}},
		log:        log,
	}
}

// Extract detects tables in raw PDF bytes. It never fails: unreadable
// documents or pages simply contribute no tables.
func (e *Extractor) Extract(data []byte) []models.Table {
	tables := []models.Table{}

	r := bytes.NewReader(data)
	reader, err := pdf.NewReader(r, r.Size())
	if err != nil {
		e.log.Warn("table extraction skipped, unreadable document", logger.Error(err))
		return tables
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		content, err := pageContent(reader, pageNum)
		if err != nil {
			e.log.Warn("table extraction skipped for page",
				logger.Int("page", pageNum),
				logger.Error(err),
			)
			continue
		}
		for _, strategy := range e.strategies {
			found, err := runStrategy(strategy, content, pageNum)
			if err != nil {
				e.log.Warn("table strategy failed",
					logger.String("strategy", strategy.Name()),
					logger.Int("page", pageNum),
					logger.Error(err),
				)
				continue
			}
			tables = append(tables, found...)
		}
	}
	return tables
}

func pageContent(reader *pdf.Reader, pageNum int) (content pdf.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page content: %v", r)
		}
	}()
	p := reader.Page(pageNum)
	if p.V.IsNull() {
		return pdf.Content{}, nil
	}
	return p.Content(), nil
}

// runStrategy converts a panicking strategy into an error value so the
// containment is visible to the caller.
func runStrategy(s Strategy, content pdf.Content, page int) (tables []models.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s: %v", s.Name(), r)
		}
	}()
	return s.Detect(content, page)
}
