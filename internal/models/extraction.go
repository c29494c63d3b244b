package models

// Engine names reported in ExtractionResult metadata.
const (
	EnginePDFText = "pymupdf"
	EngineOCR     = "ocr"
)

// TextBlock is one fragment of extracted or recognized text. Confidence is
// 1.0 for digitally extracted text and in [0,1] for OCR output. BBox is
// [x1, y1, x2, y2] in page pixel/point space.
type TextBlock struct {
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
	Page       int        `json:"page"`
}

// Table is a best-effort detected table. Rows are row-major cell strings;
// missing cells are empty strings, never null. Tables carry no confidence.
type Table struct {
	Page     int        `json:"page"`
	Rows     [][]string `json:"rows"`
	Strategy string     `json:"strategy"`
}

// ExtractionResult is the unified response for one uploaded document.
// Blocks and Tables are always present, possibly empty. IsDigitalPDF is nil
// only for image inputs. Text always equals the page-order join of block
// texts.
type ExtractionResult struct {
	FileName     string                 `json:"file_name"`
	MimeType     string                 `json:"mime_type"`
	Pages        int                    `json:"pages"`
	IsDigitalPDF *bool                  `json:"is_digital_pdf"`
	Text         string                 `json:"text"`
	Blocks       []TextBlock            `json:"blocks"`
	Tables       []Table                `json:"tables"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// NewExtractionResult returns a result with all collection fields
// initialized so they serialize as empty arrays rather than null.
func NewExtractionResult(fileName, mimeType string) *ExtractionResult {
	return &ExtractionResult{
		FileName: fileName,
		MimeType: mimeType,
		Blocks:   []TextBlock{},
		Tables:   []Table{},
		Metadata: map[string]interface{}{"engine": nil},
	}
}
