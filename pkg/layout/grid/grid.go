// Package grid provides the two simple placement algorithms: a max-column
// grid packer and a vertical flow stack.
//
// Both are deterministic: items are placed strictly in input order.
package grid

import (
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Options configures [Grid].
type Options struct {
	// MaxColumns caps the column count. Zero or negative places every item
	// in one row.
	MaxColumns  int
	NodeSpacing float64 // horizontal gap between columns
	RowSpacing  float64 // vertical gap between rows
}

// Result holds top-left positions relative to the grid's origin.
type Result struct {
	Width     float64
	Height    float64
	Columns   int
	Rows      int
	Positions map[model.NodeID]geom.Point
}

// Rect returns the placed rectangle of item it.
func (r Result) Rect(it model.Item) geom.Rect {
	return geom.RectAt(r.Positions[it.ID], it.Size)
}

// Grid packs items into at most MaxColumns columns.
//
// Item i goes to column i%columns and row i/columns. Each column is as wide
// as its widest member and each row as tall as its tallest; members are
// centered in their cell.
func Grid(items []model.Item, opts Options) Result {
	n := len(items)
	res := Result{Positions: make(map[model.NodeID]geom.Point, n)}
	if n == 0 {
		return res
	}

	cols := n
	if opts.MaxColumns > 0 {
		cols = min(opts.MaxColumns, n)
	}
	rows := (n + cols - 1) / cols
	res.Columns, res.Rows = cols, rows

	colW := make([]float64, cols)
	rowH := make([]float64, rows)
	for i, it := range items {
		c, r := i%cols, i/cols
		colW[c] = max(colW[c], it.Size.W)
		rowH[r] = max(rowH[r], it.Size.H)
	}

	colX := offsets(colW, opts.NodeSpacing)
	rowY := offsets(rowH, opts.RowSpacing)

	for i, it := range items {
		c, r := i%cols, i/cols
		res.Positions[it.ID] = geom.Point{
			X: colX[c] + (colW[c]-it.Size.W)/2,
			Y: rowY[r] + (rowH[r]-it.Size.H)/2,
		}
	}

	res.Width = colX[cols-1] + colW[cols-1]
	res.Height = rowY[rows-1] + rowH[rows-1]
	return res
}

// offsets returns the start coordinate of each band.
func offsets(bands []float64, gap float64) []float64 {
	out := make([]float64, len(bands))
	pos := 0.0
	for i, b := range bands {
		out[i] = pos
		pos += b + gap
	}
	return out
}
