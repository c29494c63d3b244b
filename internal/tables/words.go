package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// word is a merged run of text fragments used by the detection strategies.
type word struct {
	text           string
	x1, y1, x2, y2 float64
}

func (w word) centerX() float64 { return (w.x1 + w.x2) / 2 }
func (w word) centerY() float64 { return (w.y1 + w.y2) / 2 }

// groupWords merges the parser's raw text fragments into words: fragments
// share a word when they sit on the same baseline and the horizontal gap
// between them is below a quarter of the font size.
func groupWords(texts []pdf.Text) []word {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // top of page first
		}
		return sorted[i].X < sorted[j].X
	})

	var words []word
	var cur *word
	var sb strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.text = strings.TrimSpace(sb.String())
		if cur.text != "" {
			words = append(words, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" && cur == nil {
			continue
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 10
		}
		if cur != nil &&
			math.Abs(t.Y-cur.y1) < 0.5 &&
			t.X-cur.x2 < fontSize*0.25 &&
			t.X-cur.x2 > -1 {
			sb.WriteString(t.S)
			if t.X+t.W > cur.x2 {
				cur.x2 = t.X + t.W
			}
			if t.Y+fontSize > cur.y2 {
				cur.y2 = t.Y + fontSize
			}
			continue
		}
		flush()
		cur = &word{x1: t.X, y1: t.Y, x2: t.X + t.W, y2: t.Y + fontSize}
		sb.WriteString(t.S)
	}
	flush()
	return words
}

// cluster groups sorted values whose neighbors are within tolerance and
// returns one representative (the mean) per group.
func cluster(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var out []float64
	groupStart := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i]-sorted[i-1] > tolerance {
			sum := 0.0
			for _, v := range sorted[groupStart:i] {
				sum += v
			}
			out = append(out, sum/float64(i-groupStart))
			groupStart = i
		}
	}
	return out
}

// bucketIndex returns the index of the interval [bounds[i], bounds[i+1])
// containing v, or -1 when v falls outside all intervals. bounds must be
// ascending.
func bucketIndex(bounds []float64, v float64) int {
	for i := 0; i+1 < len(bounds); i++ {
		if v >= bounds[i] && v < bounds[i+1] {
			return i
		}
	}
	return -1
}

// nearestIndex returns the index of the center closest to v, or -1 when the
// distance exceeds maxDist.
func nearestIndex(centers []float64, v, maxDist float64) int {
	best := -1
	bestDist := maxDist
	for i, c := range centers {
		d := math.Abs(c - v)
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
