package models

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to clients. Handlers map these onto HTTP
// statuses; everything else is an internal failure.
var (
	// ErrUnsupportedInput marks a file kind that is neither pdf nor image.
	ErrUnsupportedInput = errors.New("unsupported file type")

	// ErrNoEngineAvailable marks an image input with no usable OCR engine.
	ErrNoEngineAvailable = errors.New("no OCR engine available")

	// ErrDigitalTextUnavailable marks a PDF input while the mandatory
	// digital-text backend is disabled.
	ErrDigitalTextUnavailable = errors.New("PDF text extraction not available")
)

// ParseError wraps a failure to read malformed PDF or image bytes. It is a
// client error and carries the underlying cause message.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
