// Package sizing computes the size of every node from its label.
package sizing

import (
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/hierarchy"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Rule holds the size constraints of one element kind.
type Rule struct {
	// Padding is added around the label on every side.
	Padding float64 `json:"padding" toml:"padding"`
	// MaxLabelWidth is the wrap width for the label. Zero disables wrapping.
	MaxLabelWidth float64 `json:"max_label_width" toml:"max_label_width"`
	// MinSize and MaxSize bound the final size. A zero MaxSize axis is
	// unbounded.
	MinSize geom.Size `json:"min_size" toml:"min_size"`
	MaxSize geom.Size `json:"max_size" toml:"max_size"`
}

// Rules maps kinds to rules. Kinds without an entry use Default.
type Rules struct {
	Default Rule                `json:"default" toml:"default"`
	ByKind  map[model.Kind]Rule `json:"by_kind,omitempty" toml:"by_kind"`
}

// For returns the rule for kind.
func (r Rules) For(kind model.Kind) Rule {
	if rule, ok := r.ByKind[kind]; ok {
		return rule
	}
	return r.Default
}

// DefaultRules returns the built-in C4 sizing rules.
func DefaultRules() Rules {
	box := Rule{Padding: 16, MaxLabelWidth: 160, MinSize: geom.Size{W: 160, H: 80}, MaxSize: geom.Size{W: 320, H: 240}}
	small := Rule{Padding: 12, MaxLabelWidth: 140, MinSize: geom.Size{W: 140, H: 64}, MaxSize: geom.Size{W: 280, H: 200}}
	return Rules{
		Default: box,
		ByKind: map[model.Kind]Rule{
			model.KindPerson:    {Padding: 16, MaxLabelWidth: 140, MinSize: geom.Size{W: 140, H: 100}, MaxSize: geom.Size{W: 280, H: 240}},
			model.KindSystem:    {Padding: 20, MaxLabelWidth: 180, MinSize: geom.Size{W: 200, H: 100}, MaxSize: geom.Size{W: 360, H: 260}},
			model.KindContainer: box,
			model.KindDatabase:  box,
			model.KindQueue:     box,
			model.KindComponent: small,
			model.KindBoundary:  {Padding: 24, MaxLabelWidth: 240, MinSize: geom.Size{W: 200, H: 120}},
		},
	}
}

// SizedNode is a tree node with its computed size.
type SizedNode struct {
	Index  int // index into the tree
	ID     model.NodeID
	Parent int // tree index of the parent, -1 for roots

	Size        geom.Size
	ContentSize geom.Size
	LabelSize   geom.Size
	LabelLines  []string
}

// Sizer derives node sizes from labels.
type Sizer struct {
	Measurer measure.Measurer
	Rules    Rules
}

// Size returns one SizedNode per tree node, in tree order.
//
// The label is wrapped at the kind's MaxLabelWidth; ContentSize is the label
// extent plus padding on each side; Size is ContentSize clamped to the
// kind's bounds. An element that supplies a finite, positive Size keeps it.
// A supplied size that is zero, negative or not finite falls back to the
// kind's MinSize.
func (s Sizer) Size(tree *hierarchy.Tree) []SizedNode {
	m := s.Measurer
	if m == nil {
		m = measure.Heuristic{}
	}

	out := make([]SizedNode, tree.Len())
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		rule := s.Rules.For(n.Element.Kind)

		text := m.MeasureMultiline(n.Element.DisplayLabel(), n.Element.Kind, n.Level, rule.MaxLabelWidth)
		content := text.Size().Add(2*rule.Padding, 2*rule.Padding)

		size := content.Clamp(rule.MinSize, rule.MaxSize)
		if supplied := n.Element.Size; supplied != nil {
			if supplied.Valid() {
				size = *supplied
			} else {
				size = rule.MinSize
			}
		}

		out[i] = SizedNode{
			Index:       i,
			ID:          n.ID,
			Parent:      n.Parent,
			Size:        size,
			ContentSize: content,
			LabelSize:   text.Size(),
			LabelLines:  text.Lines,
		}
	}
	return out
}
