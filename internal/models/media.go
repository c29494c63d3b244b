package models

import (
	"path/filepath"
	"strings"
)

// MediaKind is the declared kind of an uploaded file.
type MediaKind string

const (
	KindPDF         MediaKind = "pdf"
	KindImage       MediaKind = "image"
	KindUnsupported MediaKind = "unsupported"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// DetectKind classifies an uploaded file by its extension and returns the
// kind together with the reported mime classification.
func DetectKind(fileName string) (MediaKind, string) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".pdf":
		return KindPDF, "application/pdf"
	case imageExts[ext]:
		return KindImage, "image"
	default:
		return KindUnsupported, "application/octet-stream"
	}
}
