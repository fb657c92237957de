// Package containment makes every parent box enclose its children.
//
// [Enforce] runs once, bottom-up from the deepest level to the roots. A node
// at depth d is only refit after every node at depth d+1, so its children
// are final when it is processed and no fixed-point iteration is needed.
//
// The refit is strict: the parent box becomes exactly the union of its
// visible children grown by SafetyMargin plus the level padding. It does not
// keep the old top-left corner, so no empty space lingers after children
// move closer together.
package containment

import (
	"fmt"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// DefaultSafetyMargin is the margin used when Options.SafetyMargin is zero.
const DefaultSafetyMargin = 8

// Options configures [Enforce] and [Verify].
type Options struct {
	SafetyMargin float64
	// LevelPadding is the inset of a parent at each level. Levels without
	// an entry use DefaultPadding.
	LevelPadding   map[model.Level]float64
	DefaultPadding float64
}

// Margin returns the effective safety margin.
func (o Options) Margin() float64 {
	if o.SafetyMargin > 0 {
		return o.SafetyMargin
	}
	return DefaultSafetyMargin
}

// Padding returns the padding of a parent at level.
func (o Options) Padding(level model.Level) float64 {
	if p, ok := o.LevelPadding[level]; ok {
		return p
	}
	return o.DefaultPadding
}

// Enforce refits every node with visible children. order lists the node ids
// in a stable order, typically tree pre-order; ids missing from nodes are
// skipped. It returns the number of refitted parents.
func Enforce(nodes map[model.NodeID]*model.PositionedNode, order []model.NodeID, opts Options) int {
	maxDepth := -1
	for _, id := range order {
		if n, ok := nodes[id]; ok {
			maxDepth = max(maxDepth, n.Depth)
		}
	}

	refitted := 0
	for depth := maxDepth; depth >= 0; depth-- {
		for _, id := range order {
			n, ok := nodes[id]
			if !ok || n.Depth != depth {
				continue
			}
			union, any := visibleUnion(nodes, n)
			if !any {
				continue
			}
			refit(n, union, opts)
			refitted++
		}
	}
	return refitted
}

func visibleUnion(nodes map[model.NodeID]*model.PositionedNode, n *model.PositionedNode) (geom.Rect, bool) {
	var union geom.Rect
	found := false
	for _, cid := range n.ChildrenIDs {
		c, ok := nodes[cid]
		if !ok || !c.Visible {
			continue
		}
		if !found {
			union, found = c.BBox, true
			continue
		}
		union = union.Union(c.BBox)
	}
	return union, found
}

// refit sets n's boxes from the union of its children. The label keeps its
// size and is centered in the top padding band.
func refit(n *model.PositionedNode, union geom.Rect, opts Options) {
	pad := opts.Padding(n.Level)
	n.BBox = union.Expand(opts.Margin() + pad)
	n.ContentBox = n.BBox.Shrink(pad)

	band := opts.Margin() + pad
	n.LabelBox = geom.Rect{
		X: n.BBox.CenterX() - n.LabelBox.W/2,
		Y: n.BBox.Y + max(0, (band-n.LabelBox.H)/2),
		W: n.LabelBox.W,
		H: n.LabelBox.H,
	}
}

// Violation reports a visible child not enclosed by its parent.
type Violation struct {
	Parent model.NodeID
	Child  model.NodeID
}

func (v Violation) String() string {
	return fmt.Sprintf("%s does not enclose %s", v.Parent, v.Child)
}

// Verify returns every visible child whose box, grown by SafetyMargin plus
// the parent's level padding, is not inside its parent's box. Parents are
// checked in order.
func Verify(nodes map[model.NodeID]*model.PositionedNode, order []model.NodeID, opts Options) []Violation {
	var out []Violation
	for _, id := range order {
		p, ok := nodes[id]
		if !ok {
			continue
		}
		grow := opts.Margin() + opts.Padding(p.Level)
		for _, cid := range p.ChildrenIDs {
			c, ok := nodes[cid]
			if !ok || !c.Visible {
				continue
			}
			if !p.BBox.Contains(c.BBox.Expand(grow)) {
				out = append(out, Violation{Parent: id, Child: cid})
			}
		}
	}
	return out
}
