package handlers

import (
	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/capability"
	"github.com/docforge/document-extractor/internal/service/extraction"
	"github.com/docforge/document-extractor/pkg/logger"
)

type Handlers struct {
	Extract *ExtractHandler
}

func NewHandlers(
	service extraction.DocumentExtractor,
	caps *capability.Capabilities,
	cfg *config.Config,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Extract: NewExtractHandler(service, caps, cfg, log),
	}
}
