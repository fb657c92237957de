package grid

import (
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Alignment positions narrower items within the stack.
type Alignment string

// Alignments.
const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// FlowOptions configures [Flow].
type FlowOptions struct {
	Padding  float64 // horizontal inset on both sides
	SpacingY float64 // vertical gap between items
	Align    Alignment
}

// Flow stacks items vertically at x = Padding, starting at y = 0.
// With AlignCenter or AlignEnd narrower items are shifted right within the
// widest item's extent.
//
// The container is maxWidth + 2·Padding wide and exactly as tall as the
// stacked items and gaps. No items yields a zero-sized result.
func Flow(items []model.Item, opts FlowOptions) Result {
	res := Result{Positions: make(map[model.NodeID]geom.Point, len(items))}
	if len(items) == 0 {
		return res
	}

	maxW := 0.0
	for _, it := range items {
		maxW = max(maxW, it.Size.W)
	}

	y := 0.0
	for i, it := range items {
		if i > 0 {
			y += opts.SpacingY
		}
		x := opts.Padding
		switch opts.Align {
		case AlignCenter:
			x += (maxW - it.Size.W) / 2
		case AlignEnd:
			x += maxW - it.Size.W
		}
		res.Positions[it.ID] = geom.Point{X: x, Y: y}
		y += it.Size.H
	}

	res.Columns, res.Rows = 1, len(items)
	res.Width = maxW + 2*opts.Padding
	res.Height = y
	return res
}
