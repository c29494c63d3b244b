// Package capability probes the optional extraction backends once at
// startup and freezes the outcome. Nothing in the request path re-probes:
// every downstream branch reads the same immutable Capabilities value.
package capability

import (
	"errors"

	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/ocr"
	"github.com/docforge/document-extractor/pkg/logger"
)

// Capabilities records which backends are usable for the lifetime of the
// process. Engines are ranked, preferred first; their underlying clients
// are still constructed lazily on first use.
type Capabilities struct {
	DigitalText bool
	Tables      bool
	Engines     []ocr.Engine
}

// HasOCR reports whether any OCR engine is usable.
func (c *Capabilities) HasOCR() bool {
	return len(c.Engines) > 0
}

// EngineNames lists the ranked engine names, for health reporting.
func (c *Capabilities) EngineNames() []string {
	names := make([]string, 0, len(c.Engines))
	for _, e := range c.Engines {
		names = append(names, e.Name())
	}
	return names
}

// Probe inspects configuration and the local environment. The digital-text
// backend is mandatory: without it PDF extraction cannot work at all, so
// its absence is a startup error rather than a runtime fallback. The table
// extractor and both OCR engines are optional.
func Probe(cfg *config.Config, log logger.Logger) (*Capabilities, error) {
	if cfg.DisablePDFText {
		return nil, errors.New("digital-text backend is disabled but mandatory")
	}

	caps := &Capabilities{
		DigitalText: true,
		Tables:      !cfg.DisableTables,
	}

	if ocr.TextractConfigured(cfg.Textract) {
		caps.Engines = append(caps.Engines, ocr.NewTextractEngine(cfg.Textract, log))
	}
	if !cfg.DisableTesseract && ocr.TesseractAvailable() {
		caps.Engines = append(caps.Engines, ocr.NewTesseractEngine(cfg.OCRLanguage, log))
	}

	log.Info("capabilities probed",
		logger.Bool("digital_text", caps.DigitalText),
		logger.Bool("tables", caps.Tables),
		logger.Any("ocr_engines", caps.EngineNames()),
	)
	return caps, nil
}
