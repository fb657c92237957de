// Package layout computes positions for hierarchical C4 diagrams.
//
// The [Engine] runs the stages in order:
//
//  1. build the element tree ([hierarchy.Build] or [hierarchy.BuildFlat])
//  2. size every node from its label ([sizing.Sizer])
//  3. arrange each group of siblings bottom-up with the strategy that fits
//     its level (see [Strategy]), growing parents around their children
//  4. place groups top-down into absolute coordinates
//  5. refit parents strictly around their children ([containment.Enforce])
//  6. optionally spread the diagram over the viewport ([viewport.Expand])
//
// Output coordinates start at the origin. Identical input yields identical
// output: every step iterates in tree or input order.
//
// # Usage
//
//	engine, err := layout.New(layout.Options{Preset: layout.PresetPublication}, logger)
//	if err != nil {
//	    return err
//	}
//	res, err := engine.Layout(ctx, layout.Graph{Root: &root, Relationships: rels})
package layout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/hierarchy"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/containment"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/viewport"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/observability"
	"github.com/sruja-ai/sruja-sub008/pkg/sizing"
)

// PositionedNode is the layout of one element.
type PositionedNode = model.PositionedNode

// Graph is the engine input. Root takes precedence over Elements.
type Graph struct {
	Root          *model.Element
	Elements      []model.FlatElement
	Relationships []model.Relationship
}

// EdgeHint tells a renderer how to draw a relationship. It carries intent
// only, never geometry.
type EdgeHint struct {
	From  model.NodeID `json:"from"`
	To    model.NodeID `json:"to"`
	Label string       `json:"label,omitempty"`
	// Source and Target are the nearest visible elements of From and To,
	// which differ from them inside collapsed or hidden subtrees.
	Source  model.NodeID `json:"source"`
	Target  model.NodeID `json:"target"`
	Routing string       `json:"routing"`
	// Backward marks relationships that close a cycle and therefore run
	// against the layer flow.
	Backward bool `json:"backward,omitempty"`
}

// Result is a finished layout.
type Result struct {
	Nodes map[model.NodeID]*PositionedNode
	// Order lists node ids in tree pre-order.
	Order  []model.NodeID
	Bounds geom.Rect
	Width  float64
	Height float64
	// Scale is the viewport expansion that was applied.
	Scale viewport.Scale
	// Layer is the layer of every node arranged by a layered strategy,
	// relative to its siblings.
	Layer map[model.NodeID]int
	// BackEdges are the sibling-level relationships that closed a cycle.
	BackEdges []model.Relationship
	Crossings int
	Edges     []EdgeHint
}

// Engine lays out element trees with fixed options. It is safe for
// concurrent use when its Measurer is.
type Engine struct {
	opts     Options
	logger   *log.Logger
	measurer measure.Measurer
}

// New validates opts, applies defaults and returns an engine. A nil logger
// discards output.
func New(opts Options, logger *log.Logger) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := opts.Measurer
	if m == nil {
		m = measure.NewCached(measure.NewMeasurer(), measure.NewLRUStore(measure.DefaultLRUSize))
	}
	return &Engine{opts: opts, logger: logger, measurer: m}, nil
}

// Layout is a convenience wrapper creating a one-shot engine.
func Layout(ctx context.Context, g Graph, opts Options) (*Result, error) {
	e, err := New(opts, nil)
	if err != nil {
		return nil, err
	}
	return e.Layout(ctx, g)
}

// Options returns the engine's options with defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Layout computes the layout of g.
//
// Duplicate or invalid ids fail the whole layout. Relationships naming
// unknown elements are skipped with a warning. Cycles never fail: they are
// reported in Result.BackEdges.
func (e *Engine) Layout(ctx context.Context, g Graph) (*Result, error) {
	start := time.Now()

	tree, err := buildTree(g)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Nodes:     make(map[model.NodeID]*PositionedNode, tree.Len()),
		Order:     tree.IDs(),
		Scale:     viewport.Identity,
		Layer:     make(map[model.NodeID]int),
		BackEdges: []model.Relationship{},
		Edges:     []EdgeHint{},
	}
	if tree.Len() == 0 {
		return res, nil
	}

	sized := sizing.Sizer{Measurer: e.measurer, Rules: e.opts.rules()}.Size(tree)
	e.logger.Debug("sized nodes", "count", len(sized), "elapsed", time.Since(start))

	s := newScene(tree, sized, g.Relationships, e.logger)
	if err := e.arrangeAll(ctx, s, res); err != nil {
		return nil, err
	}
	s.place(e.inset)
	e.emit(s, res)

	copts := containment.Options{
		SafetyMargin:   e.opts.SafetyMargin,
		LevelPadding:   e.opts.LevelPadding.Map(),
		DefaultPadding: e.opts.LevelPadding.L0,
	}
	containment.Enforce(res.Nodes, res.Order, copts)

	if e.opts.Viewport.Size.Valid() {
		res.Scale = viewport.Expand(res.Nodes, e.opts.Viewport.options())
		if res.Scale.Applied() {
			containment.Enforce(res.Nodes, res.Order, copts)
			e.logger.Debug("expanded to viewport", "scale_x", res.Scale.X, "scale_y", res.Scale.Y)
		}
	}
	if v := containment.Verify(res.Nodes, res.Order, copts); len(v) > 0 {
		e.logger.Warn("containment violations", "count", len(v), "first", v[0].String())
	}

	e.finish(res)
	res.Edges = s.edgeHints(e.opts.EdgeRouting)

	if n := len(res.BackEdges); n > 0 {
		observability.Layout().OnCycle(ctx, n)
		e.logger.Warn("cyclic relationships truncated", "back_edges", n, "first", res.BackEdges[0].From.String()+" -> "+res.BackEdges[0].To.String())
	}
	e.logger.Debug("layout complete",
		"nodes", tree.Len(),
		"width", res.Width,
		"height", res.Height,
		"crossings", res.Crossings,
		"elapsed", time.Since(start),
	)
	return res, nil
}

func buildTree(g Graph) (*hierarchy.Tree, error) {
	if g.Root != nil {
		return hierarchy.Build(*g.Root)
	}
	return hierarchy.BuildFlat(g.Elements)
}

// arrangeAll arranges every expanded parent bottom-up and then the roots.
func (e *Engine) arrangeAll(ctx context.Context, s *scene, res *Result) error {
	for i := s.tree.Len() - 1; i >= -1; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i >= 0 && !s.expanded[i] {
			continue
		}
		a := e.arrange(ctx, s, i)
		s.groups[i] = a
		if i >= 0 {
			in := e.inset(s.tree.Nodes[i].Level)
			s.size[i] = a.size.Add(2*in, 2*in)
		}

		for id, l := range a.layer {
			res.Layer[id] = l
		}
		res.BackEdges = append(res.BackEdges, a.back...)
		res.Crossings += a.crossings
		for _, b := range a.back {
			s.backward[[2]model.NodeID{b.From, b.To}] = true
		}
	}
	return nil
}

// inset is the distance from a parent's border to its children.
func (e *Engine) inset(level model.Level) float64 {
	return e.opts.SafetyMargin + e.opts.LevelPadding.At(level)
}

// emit builds the positioned nodes from the scene.
func (e *Engine) emit(s *scene, res *Result) {
	for i := range s.tree.Nodes {
		n := &s.tree.Nodes[i]
		sn := s.sized[i]
		box := geom.RectAt(s.origin[i], s.size[i])
		pn := &PositionedNode{
			NodeID:      n.ID,
			Kind:        n.Element.Kind,
			Label:       n.Element.DisplayLabel(),
			LabelLines:  sn.LabelLines,
			BBox:        box,
			ContentBox:  box.Shrink(e.opts.LevelPadding.At(n.Level)),
			LabelBox:    geom.Rect{W: sn.LabelSize.W, H: sn.LabelSize.H},
			ChildrenIDs: s.tree.ChildIDs(i),
			Depth:       n.Depth,
			Level:       n.Level,
			External:    n.Element.External,
			Collapsed:   n.Element.Collapsed,
			Visible:     s.visible[i],
			ZIndex:      n.Depth,
		}
		if n.Parent >= 0 {
			pn.ParentID = s.tree.Nodes[n.Parent].ID
		}
		if !s.expanded[i] {
			// containment positions the label of parents
			c := box.Center()
			pn.LabelBox.X, pn.LabelBox.Y = c.X-sn.LabelSize.W/2, c.Y-sn.LabelSize.H/2
		}
		res.Nodes[n.ID] = pn
	}
}

// finish moves the diagram to the origin and computes bounds and ports.
func (e *Engine) finish(res *Result) {
	var boxes []geom.Rect
	for _, id := range res.Order {
		if n := res.Nodes[id]; n.Visible {
			boxes = append(boxes, n.BBox)
		}
	}
	b := geom.Bounds(boxes...)
	for _, id := range res.Order {
		n := res.Nodes[id]
		n.Translate(-b.X, -b.Y)
		if n.Visible {
			n.Ports = ports(n.BBox)
		}
	}
	res.Bounds = geom.Rect{W: b.W, H: b.H}
	res.Width, res.Height = b.W, b.H
}

// ports returns the side midpoints of r.
func ports(r geom.Rect) []model.Port {
	return []model.Port{
		{Side: "top", At: geom.Point{X: r.CenterX(), Y: r.Top()}},
		{Side: "right", At: geom.Point{X: r.Right(), Y: r.CenterY()}},
		{Side: "bottom", At: geom.Point{X: r.CenterX(), Y: r.Bottom()}},
		{Side: "left", At: geom.Point{X: r.Left(), Y: r.CenterY()}},
	}
}
