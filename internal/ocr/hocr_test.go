package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHOCR = `<div class='ocr_page' id='page_1'>
 <span class='ocr_line' id='line_1_1' title="bbox 10 10 300 40">
  <span class='ocrx_word' id='word_1_1' title='bbox 12 14 80 38; x_wconf 87'>Invoice</span>
  <span class='ocrx_word' id='word_1_2' title='bbox 90 14 160 38; x_wconf n/a'>Total</span>
  <span class='ocrx_word' id='word_1_3' title='bbox 170 14 240 38; x_wconf 100'><strong>42</strong></span>
  <span class='ocrx_word' id='word_1_4' title='bbox 250 14 260 38; x_wconf 95'> </span>
 </span>
</div>`

func TestParseHOCRWords(t *testing.T) {
	words := parseHOCRWords(sampleHOCR)
	require.Len(t, words, 3, "whitespace-only words must be dropped")

	assert.Equal(t, "Invoice", words[0].Text)
	assert.InDelta(t, 0.87, words[0].Confidence, 1e-9)
	assert.Equal(t, [4]float64{12, 14, 80, 38}, words[0].BBox)

	assert.Equal(t, "Total", words[1].Text)
	assert.Equal(t, 0.0, words[1].Confidence, "unparsable confidence maps to zero")

	assert.Equal(t, "42", words[2].Text, "nested markup is stripped")
	assert.Equal(t, 1.0, words[2].Confidence)
}

func TestParseWordConfidence(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"87", 0.87},
		{"100", 1.0},
		{"0", 0.0},
		{"n/a", 0.0},
		{"", 0.0},
		{"-1", 0.0},
		{"250", 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseWordConfidence(tt.raw), 1e-9, "raw=%q", tt.raw)
	}
}

func TestParseHOCRWordsEmptyInput(t *testing.T) {
	assert.Empty(t, parseHOCRWords(""))
	assert.Empty(t, parseHOCRWords("<div class='ocr_page'></div>"))
}
