package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/viewport"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// =============================================================================
// Layout - Engine Output
// =============================================================================

// Layout is the serialized form of a layout result. Nodes are in tree
// pre-order, so the output is stable byte for byte.
type Layout struct {
	Width     float64              `json:"width"`
	Height    float64              `json:"height"`
	Scale     viewport.Scale       `json:"scale"`
	Nodes     []Node               `json:"nodes"`
	Edges     []layout.EdgeHint    `json:"edges"`
	BackEdges []model.Relationship `json:"back_edges,omitempty"`
	Crossings int                  `json:"crossings"`
}

// Node is a positioned element with its layer, if a layered strategy
// placed it.
type Node struct {
	model.PositionedNode
	Layer int `json:"layer,omitempty"`
}

// FromResult converts an engine result.
func FromResult(res *layout.Result) Layout {
	l := Layout{
		Width:     res.Width,
		Height:    res.Height,
		Scale:     res.Scale,
		Nodes:     make([]Node, 0, len(res.Order)),
		Edges:     res.Edges,
		BackEdges: res.BackEdges,
		Crossings: res.Crossings,
	}
	if l.Edges == nil {
		l.Edges = []layout.EdgeHint{}
	}
	for _, id := range res.Order {
		l.Nodes = append(l.Nodes, Node{PositionedNode: *res.Nodes[id], Layer: res.Layer[id]})
	}
	return l
}

// Boxes returns the bounding box of every visible node.
func (l Layout) Boxes() map[model.NodeID]geom.Rect {
	out := make(map[model.NodeID]geom.Rect, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.Visible {
			out[n.NodeID] = n.BBox
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayout writes a Layout as indented JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
