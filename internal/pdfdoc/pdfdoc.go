package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// document reads text and geometry through ledongthuc/pdf and rasterizes
// pages through MuPDF. The MuPDF handle is opened lazily because only the
// scanned path ever renders.
type document struct {
	data   []byte
	reader *pdf.Reader

	fitzOnce sync.Once
	fitzDoc  *fitz.Document
	fitzErr  error
}

// Open parses raw PDF bytes into a Document.
func Open(data []byte) (Document, error) {
	r := bytes.NewReader(data)
	reader, err := pdf.NewReader(r, r.Size())
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &document{data: data, reader: reader}, nil
}

func (d *document) PageCount() int {
	return d.reader.NumPage()
}

func (d *document) PageText(page int) (text string, err error) {
	// The underlying parser panics on some malformed content streams;
	// contain it to this page.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page %d: %v", page, r)
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *document) PageSpans(page int) (spans []Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page %d: %v", page, r)
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return mergeTexts(p.Content().Text), nil
}

func (d *document) RenderPage(page int, scale float64) (image.Image, error) {
	d.fitzOnce.Do(func() {
		d.fitzDoc, d.fitzErr = fitz.NewFromMemory(d.data)
	})
	if d.fitzErr != nil {
		return nil, fmt.Errorf("open renderer: %w", d.fitzErr)
	}
	img, err := d.fitzDoc.ImageDPI(page-1, scale*72)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (d *document) Close() error {
	if d.fitzDoc != nil {
		return d.fitzDoc.Close()
	}
	return nil
}

// mergeTexts coalesces the parser's per-fragment text items into line-level
// spans. Fragments on the same baseline that continue within a small
// horizontal gap are joined; whitespace-only spans are dropped.
func mergeTexts(texts []pdf.Text) []Span {
	var spans []Span
	var cur *spanBuilder

	for _, t := range texts {
		if cur != nil && cur.continues(t) {
			cur.append(t)
			continue
		}
		if cur != nil {
			if s, ok := cur.build(); ok {
				spans = append(spans, s)
			}
		}
		cur = newSpanBuilder(t)
	}
	if cur != nil {
		if s, ok := cur.build(); ok {
			spans = append(spans, s)
		}
	}
	return spans
}

type spanBuilder struct {
	sb       strings.Builder
	x1, y    float64
	x2       float64
	fontSize float64
}

func newSpanBuilder(t pdf.Text) *spanBuilder {
	b := &spanBuilder{x1: t.X, y: t.Y, x2: t.X + t.W, fontSize: t.FontSize}
	b.sb.WriteString(t.S)
	return b
}

func (b *spanBuilder) continues(t pdf.Text) bool {
	sameLine := math.Abs(t.Y-b.y) < 0.5
	// Allow up to one space-width of slack between fragments.
	gap := t.X - b.x2
	return sameLine && gap > -1 && gap < b.fontSize
}

func (b *spanBuilder) append(t pdf.Text) {
	if t.X-b.x2 > t.FontSize*0.25 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(t.S)
	if t.X+t.W > b.x2 {
		b.x2 = t.X + t.W
	}
	if t.FontSize > b.fontSize {
		b.fontSize = t.FontSize
	}
}

func (b *spanBuilder) build() (Span, bool) {
	text := b.sb.String()
	if strings.TrimSpace(text) == "" {
		return Span{}, false
	}
	return Span{
		Text: text,
		BBox: [4]float64{b.x1, b.y, b.x2, b.y + b.fontSize},
	}, true
}
