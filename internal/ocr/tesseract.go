package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/pkg/logger"
)

// TesseractEngine is the fallback OCR engine, backed by a local Tesseract
// installation through gosseract. A single client is constructed lazily
// and reused; the client is not safe for concurrent invocation, so calls
// are serialized with a mutex instead of constructing one client per
// request.
type TesseractEngine struct {
	language string
	log      logger.Logger

	once    sync.Once
	mu      sync.Mutex
	client  *gosseract.Client
	initErr error
}

// NewTesseractEngine builds the engine descriptor without initializing
// Tesseract.
func NewTesseractEngine(language string, log logger.Logger) *TesseractEngine {
	return &TesseractEngine{language: language, log: log}
}

// TesseractAvailable probes whether a usable Tesseract installation is
// present.
func TesseractAvailable() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version() != ""
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]models.TextBlock, error) {
	if err := e.init(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	hocr, err := e.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("run tesseract: %w", err)
	}

	words := parseHOCRWords(hocr)
	blocks := make([]models.TextBlock, 0, len(words))
	for _, w := range words {
		blocks = append(blocks, models.TextBlock{
			Text:       w.Text,
			Confidence: w.Confidence,
			BBox:       w.BBox,
		})
	}
	return blocks, nil
}

func (e *TesseractEngine) init() error {
	e.once.Do(func() {
		client := gosseract.NewClient()
		if err := client.SetLanguage(e.language); err != nil {
			client.Close()
			e.initErr = fmt.Errorf("set language %q: %w", e.language, err)
			return
		}
		if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			client.Close()
			e.initErr = fmt.Errorf("set page segmentation mode: %w", err)
			return
		}
		e.client = client
		e.log.Info("tesseract client initialized", logger.String("language", e.language))
	})
	return e.initErr
}

// Close releases the shared Tesseract client, if one was created.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
