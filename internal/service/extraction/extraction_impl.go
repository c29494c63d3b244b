package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// webp uploads are accepted; imaging registers the other formats.
	_ "golang.org/x/image/webp"

	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/capability"
	"github.com/docforge/document-extractor/internal/classifier"
	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/internal/ocr"
	"github.com/docforge/document-extractor/internal/pdfdoc"
	"github.com/docforge/document-extractor/pkg/logger"
)

// TableDetector is the table-extraction capability consumed on the digital
// path. *tables.Extractor is the production implementation.
type TableDetector interface {
	Extract(data []byte) []models.Table
}

// Service routes each document through classification, the matching
// extraction strategy and the result merger. One request is processed
// start to finish by one goroutine; pages are handled strictly in order so
// at most one rasterized page is in memory at a time. The only state
// shared between concurrent requests is the read-only capability registry
// and the lazily built engine handles, which are safe for concurrent use.
type Service struct {
	caps    *capability.Capabilities
	cascade *ocr.Cascade
	tables  TableDetector
	cfg     *config.Config
	openPDF pdfdoc.OpenFunc
	log     logger.Logger
}

// Option adjusts service construction.
type Option func(*Service)

// WithPDFOpener overrides how PDF bytes are parsed. Used by tests to
// substitute fake documents.
func WithPDFOpener(open pdfdoc.OpenFunc) Option {
	return func(s *Service) { s.openPDF = open }
}

// NewService wires the extraction pipeline from the probed capabilities.
func NewService(
	caps *capability.Capabilities,
	tableExtractor TableDetector,
	cfg *config.Config,
	log logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		caps:    caps,
		cascade: ocr.NewCascade(caps.Engines, log),
		tables:  tableExtractor,
		cfg:     cfg,
		openPDF: pdfdoc.Open,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract implements DocumentExtractor.
func (s *Service) Extract(ctx context.Context, req Request) (*models.ExtractionResult, error) {
	kind, mime := models.DetectKind(req.FileName)
	switch kind {
	case models.KindPDF:
		return s.extractPDF(ctx, req, mime)
	case models.KindImage:
		return s.extractImage(ctx, req, mime)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedInput, req.FileName)
	}
}

func (s *Service) extractImage(ctx context.Context, req Request, mime string) (*models.ExtractionResult, error) {
	if !s.cascade.Available() {
		return nil, models.ErrNoEngineAvailable
	}

	img, err := imaging.Decode(bytes.NewReader(req.Data))
	if err != nil {
		return nil, &models.ParseError{FileName: req.FileName, Err: err}
	}

	blocks := s.cascade.Recognize(ctx, ocr.Prepare(img))
	texts := make([]string, 0, len(blocks))
	for i := range blocks {
		blocks[i].Page = 1
		texts = append(texts, blocks[i].Text)
	}

	result := models.NewExtractionResult(req.FileName, mime)
	result.Pages = 1
	result.Text = strings.Join(texts, " ")
	result.Blocks = append(result.Blocks, blocks...)
	result.Metadata["engine"] = models.EngineOCR
	return result, nil
}

func (s *Service) extractPDF(ctx context.Context, req Request, mime string) (*models.ExtractionResult, error) {
	if !s.caps.DigitalText {
		return nil, models.ErrDigitalTextUnavailable
	}

	doc, err := s.openPDF(req.Data)
	if err != nil {
		return nil, &models.ParseError{FileName: req.FileName, Err: err}
	}
	defer doc.Close()

	verdict := classifier.Classify(doc, s.cfg.DensityDenominator, s.cfg.DigitalThreshold)
	s.log.Debug("classified document",
		logger.String("file", req.FileName),
		logger.Bool("digital", verdict.IsDigital),
		logger.Float64("ratio", verdict.Ratio),
	)

	result := models.NewExtractionResult(req.FileName, mime)
	result.Pages = doc.PageCount()
	isDigital := verdict.IsDigital
	result.IsDigitalPDF = &isDigital

	if verdict.IsDigital {
		result.Metadata["engine"] = models.EnginePDFText
		s.extractDigital(ctx, doc, req, result)
	} else {
		result.Metadata["engine"] = models.EngineOCR
		s.extractScanned(ctx, doc, result)
	}
	return result, nil
}

// extractDigital pulls positioned spans page by page. Table detection is
// independent of the text path and runs concurrently with it.
func (s *Service) extractDigital(ctx context.Context, doc pdfdoc.Document, req Request, result *models.ExtractionResult) {
	var detected []models.Table

	g, _ := errgroup.WithContext(ctx)
	if req.WantTables && s.caps.Tables && s.tables != nil {
		g.Go(func() error {
			detected = s.tables.Extract(req.Data)
			return nil
		})
	}

	var pageTexts []string
	for page := 1; page <= doc.PageCount(); page++ {
		spans, err := doc.PageSpans(page)
		if err != nil {
			// Contained: this page contributes nothing, the rest go on.
			s.log.Warn("page extraction failed",
				logger.Int("page", page),
				logger.Error(err),
			)
			pageTexts = append(pageTexts, "")
			continue
		}
		var texts []string
		for _, span := range spans {
			if strings.TrimSpace(span.Text) == "" {
				continue
			}
			result.Blocks = append(result.Blocks, models.TextBlock{
				Text:       span.Text,
				Confidence: 1.0, // digital text is ground truth
				BBox:       span.BBox,
				Page:       page,
			})
			texts = append(texts, span.Text)
		}
		pageTexts = append(pageTexts, strings.Join(texts, "\n"))
	}
	result.Text = strings.Join(pageTexts, "\n")

	_ = g.Wait()
	result.Tables = append(result.Tables, detected...)
}

// extractScanned rasterizes each page in order and routes it through the
// OCR cascade. Tables are never populated on this path.
func (s *Service) extractScanned(ctx context.Context, doc pdfdoc.Document, result *models.ExtractionResult) {
	var pageTexts []string
	for page := 1; page <= doc.PageCount(); page++ {
		img, err := doc.RenderPage(page, s.cfg.RasterScale)
		if err != nil {
			s.log.Warn("page render failed",
				logger.Int("page", page),
				logger.Error(err),
			)
			pageTexts = append(pageTexts, "")
			continue
		}

		blocks := s.cascade.Recognize(ctx, ocr.Prepare(img))
		texts := make([]string, 0, len(blocks))
		for i := range blocks {
			blocks[i].Page = page
			texts = append(texts, blocks[i].Text)
		}
		result.Blocks = append(result.Blocks, blocks...)
		pageTexts = append(pageTexts, strings.Join(texts, " "))
	}
	result.Text = strings.Join(pageTexts, "\n")
}
