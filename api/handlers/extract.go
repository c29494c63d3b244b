package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/capability"
	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/internal/service/extraction"
	"github.com/docforge/document-extractor/pkg/logger"
)

type ExtractHandler struct {
	service extraction.DocumentExtractor
	caps    *capability.Capabilities
	cfg     *config.Config
	logger  logger.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewExtractHandler(
	service extraction.DocumentExtractor,
	caps *capability.Capabilities,
	cfg *config.Config,
	log logger.Logger,
) *ExtractHandler {
	return &ExtractHandler{service: service, caps: caps, cfg: cfg, logger: log}
}

// Extract handles POST /extract: a multipart file upload plus an optional
// want_tables form flag (default true).
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "no file provided", err)
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxFileSize {
		h.handleError(c, http.StatusBadRequest, "file too large", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "failed to read file", err)
		return
	}

	wantTables := true
	if v := c.PostForm("want_tables"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			wantTables = b
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.service.Extract(ctx, extraction.Request{
		FileName:   header.Filename,
		Data:       data,
		WantTables: wantTables,
	})
	if err != nil {
		h.handleError(c, statusFor(err), err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health handles GET /health and reports the probed capabilities.
func (h *ExtractHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "document-extractor",
		"capabilities": gin.H{
			"digital_text": h.caps.DigitalText,
			"tables":       h.caps.Tables,
			"ocr_engines":  h.caps.EngineNames(),
		},
	})
}

// statusFor maps the error taxonomy onto HTTP statuses: client mistakes
// are 400, a missing OCR engine is a server-configuration 500, and a PDF
// upload without the digital-text capability is a distinguished 501.
func statusFor(err error) int {
	var parseErr *models.ParseError
	switch {
	case errors.Is(err, models.ErrUnsupportedInput):
		return http.StatusBadRequest
	case errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoEngineAvailable):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrDigitalTextUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (h *ExtractHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	)
	c.JSON(status, ErrorResponse{Error: message})
}
