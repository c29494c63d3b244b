package extraction

import (
	"context"

	"github.com/docforge/document-extractor/internal/models"
)

// Request is one document to extract. Data is the raw upload payload;
// WantTables controls whether table detection runs on the digital path.
type Request struct {
	FileName   string
	Data       []byte
	WantTables bool
}

// DocumentExtractor turns an uploaded document into a unified
// ExtractionResult.
type DocumentExtractor interface {
	Extract(ctx context.Context, req Request) (*models.ExtractionResult, error)
}
