package classifier

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docforge/document-extractor/internal/pdfdoc"
)

type fakeDoc struct {
	pageTexts []string
	textErr   error
}

func (d *fakeDoc) PageCount() int { return len(d.pageTexts) }

func (d *fakeDoc) PageText(page int) (string, error) {
	if d.textErr != nil {
		return "", d.textErr
	}
	return d.pageTexts[page-1], nil
}

func (d *fakeDoc) PageSpans(page int) ([]pdfdoc.Span, error) { return nil, nil }

func (d *fakeDoc) RenderPage(page int, scale float64) (image.Image, error) {
	return nil, errors.New("not rendered")
}

func (d *fakeDoc) Close() error { return nil }

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		doc         *fakeDoc
		wantDigital bool
		wantRatio   float64
	}{
		{
			name:        "one page with 2000 chars is digital with clamped ratio",
			doc:         &fakeDoc{pageTexts: []string{strings.Repeat("a", 2000)}},
			wantDigital: true,
			wantRatio:   1.0,
		},
		{
			name:        "one page with no text is scanned",
			doc:         &fakeDoc{pageTexts: []string{""}},
			wantDigital: false,
			wantRatio:   0.0,
		},
		{
			name:        "sparse text stays below threshold",
			doc:         &fakeDoc{pageTexts: []string{strings.Repeat("a", 100)}},
			wantDigital: false,
			wantRatio:   0.1,
		},
		{
			name:        "zero pages is scanned",
			doc:         &fakeDoc{},
			wantDigital: false,
			wantRatio:   0.0,
		},
		{
			name: "unreadable pages count as empty",
			doc: &fakeDoc{
				pageTexts: []string{"ignored", "ignored"},
				textErr:   errors.New("corrupt stream"),
			},
			wantDigital: false,
			wantRatio:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.doc, 1000, 0.1)
			assert.Equal(t, tt.wantDigital, v.IsDigital)
			assert.InDelta(t, tt.wantRatio, v.Ratio, 1e-9)
		})
	}
}

func TestClassifyMonotonicInCharacterCount(t *testing.T) {
	prev := -1.0
	for chars := 0; chars <= 1500; chars += 100 {
		doc := &fakeDoc{pageTexts: []string{strings.Repeat("x", chars)}}
		v := Classify(doc, 1000, 0.1)
		assert.GreaterOrEqual(t, v.Ratio, prev, "ratio must not decrease at %d chars", chars)
		assert.LessOrEqual(t, v.Ratio, 1.0)
		prev = v.Ratio
	}
}
