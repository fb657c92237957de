// Package c4 implements the level-specific placement strategies for C4
// diagrams.
//
//   - [SystemContext] (L1) centers one focal system and surrounds it with the
//     people and systems it interacts with.
//   - [Containers] (L2) grid-packs the containers of a system inside its
//     boundary and places external elements around the boundary.
//   - [Components] (L3) orders the components of a container into dependency
//     lanes with the layered algorithm.
//
// All strategies return positions relative to a canvas whose top-left corner
// is the origin.
package c4

import (
	"math"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/grid"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// DefaultMaxPerSide is used when Options.MaxPerSide is zero.
const DefaultMaxPerSide = 4

// Options configures the strategies.
type Options struct {
	NodeSpacing     float64 // gap between neighbors
	RankSpacing     float64 // gap between layers and grid rows
	ExternalGap     float64 // gap between the core and surrounding elements
	BoundaryPadding float64 // inset of a boundary around its children
	MaxColumns      int     // grid columns inside a boundary
	MaxPerSide      int     // externals per row (top, bottom) or column (left, right)
	Direction       model.Direction

	// Lanes holds optional minimum layers for components.
	Lanes map[model.NodeID]int
}

func (o Options) maxPerSide() int {
	if o.MaxPerSide > 0 {
		return o.MaxPerSide
	}
	return DefaultMaxPerSide
}

// Result is the outcome of a strategy.
type Result struct {
	Width     float64
	Height    float64
	Positions map[model.NodeID]geom.Point

	// Boundary is the focal box (L1), the system boundary (L2) or the
	// extent of the components (L3).
	Boundary geom.Rect

	// Layer, BackEdges and Crossings are set by Components.
	Layer     map[model.NodeID]int
	BackEdges []model.Relationship
	Crossings int
}

// Side is one edge of a rectangle.
type Side int

// Sides in round-robin order.
const (
	Top Side = iota
	Right
	Bottom
	Left
)

func (s Side) String() string {
	return [...]string{"top", "right", "bottom", "left"}[s]
}

// surround places each side's items around core and returns their
// rectangles. Left and right groups are centered vertically on core; top and
// bottom groups clear both core and the side groups, so no two groups
// overlap.
func surround(core geom.Rect, sides [4][]model.Item, opts Options, pos map[model.NodeID]geom.Point) []geom.Rect {
	gap := opts.ExternalGap
	per := opts.maxPerSide()
	var rects []geom.Rect

	place := func(items []model.Item, g grid.Result, origin geom.Point) {
		for _, it := range items {
			p := g.Positions[it.ID].Add(origin)
			pos[it.ID] = p
			rects = append(rects, geom.RectAt(p, it.Size))
		}
	}

	top, bottom := core.Top(), core.Bottom()
	for _, side := range []Side{Right, Left} {
		items := sides[side]
		if len(items) == 0 {
			continue
		}
		cols := (len(items) + per - 1) / per
		g := grid.Grid(items, grid.Options{MaxColumns: cols, NodeSpacing: gap, RowSpacing: gap})
		y := core.CenterY() - g.Height/2
		x := core.Right() + gap
		if side == Left {
			x = core.Left() - gap - g.Width
		}
		place(items, g, geom.Point{X: x, Y: y})
		top, bottom = math.Min(top, y), math.Max(bottom, y+g.Height)
	}

	for _, side := range []Side{Top, Bottom} {
		items := sides[side]
		if len(items) == 0 {
			continue
		}
		g := grid.Grid(items, grid.Options{MaxColumns: per, NodeSpacing: gap, RowSpacing: gap})
		x := core.CenterX() - g.Width/2
		y := bottom + gap
		if side == Top {
			y = top - gap - g.Height
		}
		place(items, g, geom.Point{X: x, Y: y})
	}
	return rects
}

// normalize translates positions and the boundary so that bounds starts at
// the origin, and sets the result size.
func (r *Result) normalize(bounds geom.Rect) {
	for id, p := range r.Positions {
		r.Positions[id] = geom.Point{X: p.X - bounds.X, Y: p.Y - bounds.Y}
	}
	r.Boundary = r.Boundary.Translate(-bounds.X, -bounds.Y)
	r.Width, r.Height = bounds.W, bounds.H
}
