// Package sugiyama implements layered graph drawing.
//
// [Layout] runs the three classic phases:
//
//  1. Rank assignment: longest path from the sources, via
//     [transform.AssignRanks]. Cycles are truncated and their closing edges
//     are reported in [Result.BackEdges].
//  2. Crossing reduction: barycenter sweeps. Each iteration orders every
//     layer by the mean position of its predecessors (downward sweep), then
//     by the mean position of its successors (upward sweep). Nodes with no
//     neighbor in the adjacent layer sort after the scored ones, keeping
//     their relative order.
//  3. Coordinate assignment: nodes are packed left to right with uniform
//     spacing and centered vertically on the tallest member of their layer;
//     layers are stacked with uniform spacing and centered horizontally on
//     the widest layer.
//
// Every step uses insertion order and stable sorts, so identical input
// produces identical output.
package sugiyama

import (
	"cmp"
	"slices"

	"github.com/sruja-ai/sruja-sub008/pkg/dag"
	"github.com/sruja-ai/sruja-sub008/pkg/dag/transform"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// DefaultIterations is the number of barycenter iterations when
// Options.Iterations is zero.
const DefaultIterations = 4

// Options configures [Layout].
type Options struct {
	NodeSpacing float64 // gap between neighbors in a layer
	RankSpacing float64 // gap between layers
	Iterations  int     // barycenter iterations; 0 means DefaultIterations
	Direction   model.Direction

	// MinRanks holds optional lower bounds on node ranks, such as lane
	// hints from the model.
	MinRanks map[model.NodeID]int
}

// Result holds top-left positions relative to the drawing's origin.
type Result struct {
	Width     float64
	Height    float64
	Positions map[model.NodeID]geom.Point

	// Layers lists node ids per layer in final left-to-right order.
	Layers [][]model.NodeID
	// Layer maps each node to its layer index.
	Layer map[model.NodeID]int
	// BackEdges are relationships that closed a cycle.
	BackEdges []model.Relationship
	// Crossings counts edge crossings between adjacent layers after
	// ordering.
	Crossings int
}

// Layout places items in layers following edges. Edges whose endpoints are
// not both among items are ignored, as are repeated item ids.
func Layout(items []model.Item, edges []model.Relationship, opts Options) Result {
	res := Result{
		Positions: make(map[model.NodeID]geom.Point, len(items)),
		Layer:     make(map[model.NodeID]int, len(items)),
	}
	if len(items) == 0 {
		return res
	}

	horizontal := opts.Direction.Horizontal()
	sizes := make(map[model.NodeID]geom.Size, len(items))
	g := dag.New()
	for _, it := range items {
		if g.AddNode(dag.Node{ID: it.ID}) != nil {
			continue
		}
		s := it.Size
		if horizontal {
			s.W, s.H = s.H, s.W
		}
		sizes[it.ID] = s
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e.From, To: e.To})
	}

	ranking := transform.AssignRanksWithFloor(g, opts.MinRanks)
	for _, e := range ranking.BackEdges {
		res.BackEdges = append(res.BackEdges, model.Relationship{From: e.From, To: e.To})
	}

	layers, layerOf := transform.Layers(g)
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	order(g, layers, iterations)

	res.Layers = layers
	res.Layer = layerOf
	res.Crossings = dag.CountCrossings(g, layers)
	res.Width, res.Height = place(layers, sizes, opts, res.Positions)

	if horizontal {
		transpose(&res, sizes, opts.Direction == model.RightLeft)
	}
	return res
}

// order applies the barycenter sweeps in place.
func order(g *dag.DAG, layers [][]model.NodeID, iterations int) {
	for range iterations {
		for i := 1; i < len(layers); i++ {
			sortByBarycenter(layers[i], dag.PosMap(layers[i-1]), g.Parents)
		}
		for i := len(layers) - 2; i >= 0; i-- {
			sortByBarycenter(layers[i], dag.PosMap(layers[i+1]), g.Children)
		}
	}
}

// sortByBarycenter orders layer by the mean position of each node's
// neighbors in the adjacent layer. Nodes without such neighbors score -1 and
// go last.
func sortByBarycenter(layer []model.NodeID, adjPos map[model.NodeID]int, neighbors func(model.NodeID) []model.NodeID) {
	score := make(map[model.NodeID]float64, len(layer))
	for _, id := range layer {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		score[id] = -1
		if n > 0 {
			score[id] = float64(sum) / float64(n)
		}
	}

	slices.SortStableFunc(layer, func(a, b model.NodeID) int {
		sa, sb := score[a], score[b]
		switch {
		case sa < 0 && sb < 0:
			return 0
		case sa < 0:
			return 1
		case sb < 0:
			return -1
		}
		return cmp.Compare(sa, sb)
	})
}

// place assigns coordinates and returns the overall size.
func place(layers [][]model.NodeID, sizes map[model.NodeID]geom.Size, opts Options, pos map[model.NodeID]geom.Point) (float64, float64) {
	widths := make([]float64, len(layers))
	heights := make([]float64, len(layers))
	maxW := 0.0
	for i, layer := range layers {
		for k, id := range layer {
			if k > 0 {
				widths[i] += opts.NodeSpacing
			}
			widths[i] += sizes[id].W
			heights[i] = max(heights[i], sizes[id].H)
		}
		maxW = max(maxW, widths[i])
	}

	y := 0.0
	for i, layer := range layers {
		if i > 0 {
			y += opts.RankSpacing
		}
		x := (maxW - widths[i]) / 2
		for _, id := range layer {
			s := sizes[id]
			pos[id] = geom.Point{X: x, Y: y + (heights[i]-s.H)/2}
			x += s.W + opts.NodeSpacing
		}
		y += heights[i]
	}
	return maxW, y
}

// transpose turns a top-bottom drawing of transposed sizes into a
// left-right one, mirrored for right-left.
func transpose(res *Result, sizes map[model.NodeID]geom.Size, mirror bool) {
	res.Width, res.Height = res.Height, res.Width
	for id, p := range res.Positions {
		p.X, p.Y = p.Y, p.X
		if mirror {
			// sizes are transposed: the node's drawn width is s.H
			p.X = res.Width - p.X - sizes[id].H
		}
		res.Positions[id] = p
	}
}
