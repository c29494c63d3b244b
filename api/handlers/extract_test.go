package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/document-extractor/config"
	"github.com/docforge/document-extractor/internal/capability"
	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/internal/service/extraction"
	"github.com/docforge/document-extractor/pkg/logger"
)

type captureService struct {
	last   extraction.Request
	result *models.ExtractionResult
	err    error
}

func (s *captureService) Extract(ctx context.Context, req extraction.Request) (*models.ExtractionResult, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return models.NewExtractionResult(req.FileName, "application/pdf"), nil
}

func newTestRouter(service extraction.DocumentExtractor, caps *capability.Capabilities) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExtractHandler(service, caps, config.Default(), logger.NewTestLogger())
	r := gin.New()
	r.GET("/health", h.Health)
	r.POST("/extract", h.Extract)
	return r
}

func uploadRequest(t *testing.T, fileName string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/extract", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	caps := &capability.Capabilities{DigitalText: true}
	svc := extraction.NewService(caps, nil, config.Default(), logger.NewTestLogger())
	router := newTestRouter(svc, caps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("plain text"), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "unsupported")
}

func TestExtractMissingFile(t *testing.T) {
	router := newTestRouter(&captureService{}, &capability.Capabilities{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractPDFWithoutDigitalTextCapability(t *testing.T) {
	caps := &capability.Capabilities{DigitalText: false}
	svc := extraction.NewService(caps, nil, config.Default(), logger.NewTestLogger())
	router := newTestRouter(svc, caps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("%PDF-1.4"), nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestExtractWantTablesDefaultsTrue(t *testing.T) {
	svc := &captureService{}
	router := newTestRouter(svc, &capability.Capabilities{DigitalText: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("%PDF-1.4"), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.last.WantTables)
	assert.Equal(t, "doc.pdf", svc.last.FileName)
}

func TestExtractWantTablesDisabled(t *testing.T) {
	svc := &captureService{}
	router := newTestRouter(svc, &capability.Capabilities{DigitalText: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("%PDF-1.4"), map[string]string{
		"want_tables": "false",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.last.WantTables)
}

func TestExtractNoEngineIsServerError(t *testing.T) {
	svc := &captureService{err: models.ErrNoEngineAvailable}
	router := newTestRouter(svc, &capability.Capabilities{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "photo.png", []byte("bytes"), nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExtractResponseShape(t *testing.T) {
	result := models.NewExtractionResult("doc.pdf", "application/pdf")
	result.Pages = 1
	digital := true
	result.IsDigitalPDF = &digital
	result.Text = "hello"
	result.Metadata["engine"] = models.EnginePDFText

	svc := &captureService{result: result}
	router := newTestRouter(svc, &capability.Capabilities{DigitalText: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("%PDF-1.4"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "doc.pdf", body["file_name"])
	assert.Equal(t, "application/pdf", body["mime_type"])
	assert.Equal(t, true, body["is_digital_pdf"])
	assert.Equal(t, "pymupdf", body["metadata"].(map[string]interface{})["engine"])

	blocks, ok := body["blocks"].([]interface{})
	require.True(t, ok, "blocks must serialize as an array, not null")
	assert.Empty(t, blocks)
	tables, ok := body["tables"].([]interface{})
	require.True(t, ok, "tables must serialize as an array, not null")
	assert.Empty(t, tables)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&captureService{}, &capability.Capabilities{
		DigitalText: true,
		Tables:      true,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	caps := body["capabilities"].(map[string]interface{})
	assert.Equal(t, true, caps["digital_text"])
}
