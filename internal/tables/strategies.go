package tables

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docforge/document-extractor/internal/models"
)

// Detection tolerances in PDF points.
const (
	rulingTolerance    = 2.0 // merging of drawn boundary coordinates
	rowTolerance       = 3.0 // words on the same visual row
	columnTolerance    = 5.0 // word starts belonging to the same column
	minBoundsPerAxis   = 3   // boundaries for a 2x2 cell grid
	minAlignedRows     = 2
	minAlignedColumns  = 2
	maxColumnSnapDrift = 18.0
)

// rulingStrategy reconstructs a cell grid from drawn rectangles. Tables
// with explicit rulings produce repeated rectangle edges; clustering those
// edges yields the column and row boundaries.
type rulingStrategy struct{}

func (s *rulingStrategy) Name() string { return "lines" }

func (s *rulingStrategy) Detect(content pdf.Content, page int) ([]models.Table, error) {
	if len(content.Rect) < 2 {
		return nil, nil
	}

	var xs, ys []float64
	for _, r := range content.Rect {
		xs = append(xs, r.Min.X, r.Max.X)
		ys = append(ys, r.Min.Y, r.Max.Y)
	}
	xBounds := cluster(xs, rulingTolerance)
	yBounds := cluster(ys, rulingTolerance)
	if len(xBounds) < minBoundsPerAxis || len(yBounds) < minBoundsPerAxis {
		return nil, nil
	}

	numCols := len(xBounds) - 1
	numRows := len(yBounds) - 1
	matrix := emptyMatrix(numRows, numCols)

	occupied := 0
	for _, w := range groupWords(content.Text) {
		col := bucketIndex(xBounds, w.centerX())
		yIdx := bucketIndex(yBounds, w.centerY())
		if col < 0 || yIdx < 0 {
			continue
		}
		// PDF y grows upward; the topmost band is the first table row.
		row := numRows - 1 - yIdx
		if matrix[row][col] == "" {
			occupied++
			matrix[row][col] = w.text
		} else {
			matrix[row][col] += " " + w.text
		}
	}
	if occupied < 2 {
		return nil, nil
	}

	return []models.Table{{Page: page, Rows: matrix, Strategy: s.Name()}}, nil
}

// alignmentStrategy detects tables without rulings by finding word start
// positions that repeat across multiple rows. Ordinary prose rarely aligns
// word starts vertically; tabular data does.
type alignmentStrategy struct{}

func (s *alignmentStrategy) Name() string { return "text" }

func (s *alignmentStrategy) Detect(content pdf.Content, page int) ([]models.Table, error) {
	words := groupWords(content.Text)
	if len(words) < minAlignedRows*minAlignedColumns {
		return nil, nil
	}

	rows := groupRows(words)

	// Columns are x-start clusters that recur in at least two rows.
	var starts []float64
	for _, row := range rows {
		for _, w := range row {
			starts = append(starts, w.x1)
		}
	}
	var columns []float64
	for _, center := range cluster(starts, columnTolerance) {
		rowsHit := 0
		for _, row := range rows {
			for _, w := range row {
				if w.x1 >= center-columnTolerance && w.x1 <= center+columnTolerance {
					rowsHit++
					break
				}
			}
		}
		if rowsHit >= minAlignedRows {
			columns = append(columns, center)
		}
	}
	if len(columns) < minAlignedColumns {
		return nil, nil
	}

	var matrix [][]string
	for _, row := range rows {
		cells := make([]string, len(columns))
		aligned := 0
		for _, w := range row {
			col := nearestIndex(columns, w.x1, maxColumnSnapDrift)
			if col < 0 {
				continue
			}
			if w.x1 >= columns[col]-columnTolerance && w.x1 <= columns[col]+columnTolerance {
				aligned++
			}
			if cells[col] == "" {
				cells[col] = w.text
			} else {
				cells[col] += " " + w.text
			}
		}
		if aligned >= minAlignedColumns {
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			matrix = append(matrix, cells)
		}
	}
	if len(matrix) < minAlignedRows {
		return nil, nil
	}

	return []models.Table{{Page: page, Rows: matrix, Strategy: s.Name()}}, nil
}

// groupRows buckets words into visual rows, ordered top of page first.
func groupRows(words []word) [][]word {
	var centers []float64
	for _, w := range words {
		centers = append(centers, w.centerY())
	}
	rowCenters := cluster(centers, rowTolerance)
	// cluster returns ascending y; rows read top to bottom.
	sort.Sort(sort.Reverse(sort.Float64Slice(rowCenters)))

	rows := make([][]word, len(rowCenters))
	for _, w := range words {
		idx := nearestIndex(rowCenters, w.centerY(), rowTolerance+1)
		if idx < 0 {
			continue
		}
		rows[idx] = append(rows[idx], w)
	}

	out := rows[:0]
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		sort.Slice(row, func(i, j int) bool { return row[i].x1 < row[j].x1 })
		out = append(out, row)
	}
	return out
}

func emptyMatrix(rows, cols int) [][]string {
	m := make([][]string, rows)
	for i := range m {
		m[i] = make([]string, cols)
	}
	return m
}
