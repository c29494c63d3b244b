package tables

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/document-extractor/internal/models"
	"github.com/docforge/document-extractor/pkg/logger"
)

func text(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func rect(x1, y1, x2, y2 float64) pdf.Rect {
	return pdf.Rect{Min: pdf.Point{X: x1, Y: y1}, Max: pdf.Point{X: x2, Y: y2}}
}

func TestRulingStrategyDetectsGrid(t *testing.T) {
	content := pdf.Content{
		// 2x2 cell grid drawn as four rectangles.
		Rect: []pdf.Rect{
			rect(40, 670, 120, 700), rect(120, 670, 200, 700),
			rect(40, 640, 120, 670), rect(120, 640, 200, 670),
		},
		Text: []pdf.Text{
			text("Name", 50, 678, 30), text("Qty", 130, 678, 20),
			text("Apple", 50, 648, 32), text("3", 130, 648, 8),
		},
	}

	got, err := (&rulingStrategy{}).Detect(content, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 2, got[0].Page)
	assert.Equal(t, "lines", got[0].Strategy)
	assert.Equal(t, [][]string{
		{"Name", "Qty"},
		{"Apple", "3"},
	}, got[0].Rows)
}

func TestRulingStrategyNoRulingsNoTable(t *testing.T) {
	content := pdf.Content{
		Text: []pdf.Text{text("just", 50, 700, 25), text("prose", 80, 700, 30)},
	}
	got, err := (&rulingStrategy{}).Detect(content, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAlignmentStrategyDetectsColumns(t *testing.T) {
	content := pdf.Content{
		Text: []pdf.Text{
			text("Item", 50, 700, 25), text("Price", 150, 700, 30),
			text("Apple", 50, 680, 32), text("1.50", 150, 680, 25),
			text("Pear", 50, 660, 28), text("2.00", 150, 660, 25),
		},
	}

	got, err := (&alignmentStrategy{}).Detect(content, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 3, got[0].Page)
	assert.Equal(t, "text", got[0].Strategy)
	assert.Equal(t, [][]string{
		{"Item", "Price"},
		{"Apple", "1.50"},
		{"Pear", "2.00"},
	}, got[0].Rows)
}

func TestAlignmentStrategyIgnoresSingleRow(t *testing.T) {
	content := pdf.Content{
		Text: []pdf.Text{
			text("one", 50, 700, 20), text("line", 100, 700, 25), text("only", 160, 700, 25),
		},
	}
	got, err := (&alignmentStrategy{}).Detect(content, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type boomStrategy struct{}

func (boomStrategy) Name() string { return "boom" }

func (boomStrategy) Detect(content pdf.Content, page int) ([]models.Table, error) {
	panic("kaput")
}

func TestRunStrategyContainsPanics(t *testing.T) {
	got, err := runStrategy(boomStrategy{}, pdf.Content{}, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, got)
}

func TestExtractUnreadableDocumentYieldsNoTables(t *testing.T) {
	e := NewExtractor(logger.NewTestLogger())
	got := e.Extract([]byte("not a pdf at all"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
