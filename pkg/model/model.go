// Package model defines the typed input vocabulary of the layout engine:
// node identities, C4 element kinds and levels, the nested element tree and
// relationships between elements.
//
// These types are produced by upstream collaborators (the DSL compiler or a
// model builder) and are never mutated by the layout stages.
package model

import (
	"fmt"
	"strings"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
)

// NodeID is the opaque identity of a diagram element. It is a distinct type so
// that ids cannot be mixed up with labels or other raw strings.
type NodeID string

// String returns the id as a plain string.
func (id NodeID) String() string { return string(id) }

// IDs converts raw strings to NodeIDs.
func IDs(ss ...string) []NodeID {
	out := make([]NodeID, len(ss))
	for i, s := range ss {
		out[i] = NodeID(s)
	}
	return out
}

// Kind is the C4 element kind. It selects fonts, paddings and size rules.
type Kind string

// Element kinds.
const (
	KindPerson    Kind = "person"
	KindSystem    Kind = "system"
	KindContainer Kind = "container"
	KindComponent Kind = "component"
	KindDatabase  Kind = "database"
	KindQueue     Kind = "queue"
	KindBoundary  Kind = "boundary"
	KindNode      Kind = "node"
)

// Kinds lists every known kind in a stable order.
var Kinds = []Kind{
	KindPerson, KindSystem, KindContainer, KindComponent,
	KindDatabase, KindQueue, KindBoundary, KindNode,
}

// ParseKind resolves a case-insensitive kind name. Unknown names map to
// KindNode so that foreign models still lay out.
func ParseKind(s string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k
		}
	}
	return KindNode
}

// Level is a C4 abstraction level.
type Level int

// C4 levels.
const (
	L0 Level = iota // landscape
	L1              // system context
	L2              // containers
	L3              // components
)

// String returns "L0".."L3".
func (l Level) String() string { return fmt.Sprintf("L%d", int(l)) }

// Valid reports whether l is one of L0..L3.
func (l Level) Valid() bool { return l >= L0 && l <= L3 }

// ParseLevel accepts "L2", "l2" or "2".
func ParseLevel(s string) (Level, error) {
	t := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "L")
	var n int
	if _, err := fmt.Sscanf(t, "%d", &n); err != nil || !Level(n).Valid() {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	return Level(n), nil
}

// DefaultLevel returns the level at which a kind is normally drawn.
func DefaultLevel(k Kind) Level {
	switch k {
	case KindPerson, KindSystem:
		return L1
	case KindContainer, KindDatabase, KindQueue:
		return L2
	case KindComponent:
		return L3
	default:
		return L0
	}
}

// Element is a node of the input element tree.
//
// Size is optional: when nil (or not finite and positive) the node sizer
// derives it from Label. External marks elements outside the focal boundary,
// which the C4 strategies place around it rather than inside it.
type Element struct {
	ID        NodeID     `json:"id" toml:"id"`
	Kind      Kind       `json:"kind,omitempty" toml:"kind"`
	Level     Level      `json:"level,omitempty" toml:"level"`
	Label     string     `json:"label,omitempty" toml:"label"`
	Tags      []string   `json:"tags,omitempty" toml:"tags"`
	Size      *geom.Size `json:"size,omitempty" toml:"size"`
	LaneHint  int        `json:"lane_hint,omitempty" toml:"lane_hint"`
	External  bool       `json:"external,omitempty" toml:"external"`
	Collapsed bool       `json:"collapsed,omitempty" toml:"collapsed"`
	Hidden    bool       `json:"hidden,omitempty" toml:"hidden"`
	Children  []Element  `json:"children,omitempty" toml:"children"`
}

// DisplayLabel returns the label if set, otherwise the id.
func (e *Element) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return string(e.ID)
}

// HasTag reports whether the element carries tag (case-insensitive).
func (e *Element) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// FlatElement is an Element addressed by parent id instead of nesting.
// An empty ParentID marks a root.
type FlatElement struct {
	Element
	ParentID NodeID `json:"parent,omitempty" toml:"parent"`
}

// Relationship is a directed edge between two elements. Direction implies
// layout flow: From is placed before (above) To.
type Relationship struct {
	From  NodeID `json:"from" toml:"from"`
	To    NodeID `json:"to" toml:"to"`
	Label string `json:"label,omitempty" toml:"label"`
}

// Item is a node with a known size, the input unit of every placement
// algorithm.
type Item struct {
	ID   NodeID    `json:"id"`
	Size geom.Size `json:"size"`
}

// Direction is the flow direction of layered layouts.
type Direction string

// Flow directions.
const (
	TopBottom Direction = "TB"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Valid reports whether d is a known direction. The empty direction is
// valid and means TopBottom.
func (d Direction) Valid() bool {
	switch d {
	case "", TopBottom, LeftRight, RightLeft:
		return true
	}
	return false
}

// Horizontal reports whether layers advance along the X axis.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }

// Port is a connection point on a node's border.
type Port struct {
	Side string     `json:"side"`
	At   geom.Point `json:"at"`
}

// PositionedNode is the layout of one element.
//
// BBox is authoritative; ContentBox is BBox shrunk by the level padding and
// LabelBox locates the wrapped label.
type PositionedNode struct {
	NodeID      NodeID    `json:"id"`
	Kind        Kind      `json:"kind"`
	Label       string    `json:"label,omitempty"`
	LabelLines  []string  `json:"label_lines,omitempty"`
	BBox        geom.Rect `json:"bbox"`
	ContentBox  geom.Rect `json:"content_box"`
	LabelBox    geom.Rect `json:"label_box"`
	ParentID    NodeID    `json:"parent,omitempty"`
	ChildrenIDs []NodeID  `json:"children,omitempty"`
	Depth       int       `json:"depth"`
	Level       Level     `json:"level"`
	External    bool      `json:"external,omitempty"`
	Collapsed   bool      `json:"collapsed,omitempty"`
	Visible     bool      `json:"visible"`
	ZIndex      int       `json:"z"`
	Ports       []Port    `json:"ports,omitempty"`
}

// Translate moves every box and port of n by (dx, dy).
func (n *PositionedNode) Translate(dx, dy float64) {
	n.BBox = n.BBox.Translate(dx, dy)
	n.ContentBox = n.ContentBox.Translate(dx, dy)
	n.LabelBox = n.LabelBox.Translate(dx, dy)
	for i := range n.Ports {
		n.Ports[i].At = n.Ports[i].At.Add(geom.Point{X: dx, Y: dy})
	}
}
