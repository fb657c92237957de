package c4

import (
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/grid"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Containers grid-packs internal elements inside a boundary and places
// externals around it, never inside.
//
// The boundary is the grid's extent plus BoundaryPadding on each side.
// External sides follow relationship direction:
//
//   - externals that only call into the boundary go on top
//   - externals that are only called from inside go below
//   - externals with traffic both ways go to the right
//   - externals without cross-boundary relationships go to the left
//
// Relationships between two externals or two internals do not affect
// placement.
func Containers(internal, externals []model.Item, rels []model.Relationship, opts Options) Result {
	res := Result{Positions: make(map[model.NodeID]geom.Point, len(internal)+len(externals))}
	if len(internal) == 0 && len(externals) == 0 {
		return res
	}

	pad := opts.BoundaryPadding
	g := grid.Grid(internal, grid.Options{
		MaxColumns:  opts.MaxColumns,
		NodeSpacing: opts.NodeSpacing,
		RowSpacing:  opts.RankSpacing,
	})
	for _, it := range internal {
		res.Positions[it.ID] = g.Positions[it.ID].Add(geom.Point{X: pad, Y: pad})
	}
	res.Boundary = geom.Rect{W: g.Width + 2*pad, H: g.Height + 2*pad}

	sides := classify(internal, externals, rels)
	rects := surround(res.Boundary, sides, opts, res.Positions)
	res.normalize(geom.Bounds(append(rects, res.Boundary)...))
	return res
}

// classify assigns each external to a side by the direction of its
// relationships with internal elements.
func classify(internal, externals []model.Item, rels []model.Relationship) [4][]model.Item {
	inside := make(map[model.NodeID]bool, len(internal))
	for _, it := range internal {
		inside[it.ID] = true
	}

	const (
		calls = 1 << iota
		called
	)
	traffic := make(map[model.NodeID]int, len(externals))
	for _, r := range rels {
		switch {
		case inside[r.To] && !inside[r.From]:
			traffic[r.From] |= calls
		case inside[r.From] && !inside[r.To]:
			traffic[r.To] |= called
		}
	}

	var sides [4][]model.Item
	for _, ext := range externals {
		if inside[ext.ID] {
			continue
		}
		var side Side
		switch traffic[ext.ID] {
		case calls:
			side = Top
		case called:
			side = Bottom
		case calls | called:
			side = Right
		default:
			side = Left
		}
		sides[side] = append(sides[side], ext)
	}
	return sides
}
