package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	cfg "github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/pkg/logger"
)

// TextractEngine is the preferred OCR engine, backed by AWS Textract. The
// client is constructed lazily on first use and shared afterwards; the
// Textract client is safe for concurrent calls.
type TextractEngine struct {
	config cfg.TextractConfig
	log    logger.Logger

	once    sync.Once
	client  *textract.Client
	initErr error
}

// NewTextractEngine builds the engine descriptor without touching AWS.
func NewTextractEngine(config cfg.TextractConfig, log logger.Logger) *TextractEngine {
	return &TextractEngine{config: config, log: log}
}

// TextractConfigured reports whether the engine has enough configuration to
// be worth registering.
func TextractConfigured(config cfg.TextractConfig) bool {
	return !config.Disabled &&
		config.Region != "" && config.AccessKey != "" && config.SecretKey != ""
}

func (e *TextractEngine) Name() string { return "textract" }

func (e *TextractEngine) Recognize(ctx context.Context, img image.Image) ([]models.TextBlock, error) {
	client, err := e.getClient(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	out, err := client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: buf.Bytes()},
	})
	if err != nil {
		return nil, fmt.Errorf("detect document text: %w", err)
	}

	bounds := img.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	var blocks []models.TextBlock
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		// Textract reports percent confidence and box coordinates
		// normalized to the page; convert both here so the cascade only
		// ever sees [0,1] confidences and pixel boxes.
		confidence := 0.0
		if block.Confidence != nil {
			confidence = float64(*block.Confidence) / 100
		}
		blocks = append(blocks, models.TextBlock{
			Text:       *block.Text,
			Confidence: confidence,
			BBox:       pixelBox(block.Geometry, width, height),
		})
	}
	return blocks, nil
}

func (e *TextractEngine) getClient(ctx context.Context) (*textract.Client, error) {
	e.once.Do(func() {
		creds := credentials.NewStaticCredentialsProvider(
			e.config.AccessKey,
			e.config.SecretKey,
			"",
		)
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(e.config.Region),
			awsconfig.WithCredentialsProvider(creds),
		)
		if err != nil {
			e.initErr = fmt.Errorf("load AWS config: %w", err)
			return
		}
		e.client = textract.NewFromConfig(awsCfg)
		e.log.Info("textract client initialized", logger.String("region", e.config.Region))
	})
	if e.initErr != nil {
		return nil, e.initErr
	}
	return e.client, nil
}

func pixelBox(geometry *types.Geometry, width, height float64) [4]float64 {
	if geometry == nil || geometry.BoundingBox == nil {
		return [4]float64{}
	}
	bb := geometry.BoundingBox
	x1 := float64(bb.Left) * width
	y1 := float64(bb.Top) * height
	return [4]float64{
		x1,
		y1,
		x1 + float64(bb.Width)*width,
		y1 + float64(bb.Height)*height,
	}
}
