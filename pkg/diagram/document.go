// Package diagram provides the file and wire formats of the layout engine.
//
// A [Document] is the input: an element tree (nested under Root or flat in
// Elements), relationships, an optional preset name and view settings. It
// is read from JSON or TOML.
//
// A [Layout] is the output: positioned nodes in tree order, edge routing
// hints and summary metrics, written as JSON.
//
// # Document format
//
//	{
//	  "preset": "publication",
//	  "elements": [
//	    {"id": "shop", "kind": "system"},
//	    {"id": "api", "kind": "container", "parent": "shop"}
//	  ],
//	  "relationships": [{"from": "customer", "to": "api"}]
//	}
package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// =============================================================================
// Document - Layout Input
// =============================================================================

// Document is a diagram to lay out.
type Document struct {
	Root          *model.Element       `json:"root,omitempty" toml:"root"`
	Elements      []model.FlatElement  `json:"elements,omitempty" toml:"elements"`
	Relationships []model.Relationship `json:"relationships,omitempty" toml:"relationships"`

	// Preset names the layout preset; command-line and request options win.
	Preset string `json:"preset,omitempty" toml:"preset"`
	View   View   `json:"view,omitempty" toml:"view"`
}

// View holds per-diagram presentation settings.
type View struct {
	Direction model.Direction `json:"direction,omitempty" toml:"direction"`
	Viewport  geom.Size       `json:"viewport,omitempty" toml:"viewport"`
	// Collapse and Hide name elements to draw without children or not at
	// all, on top of the element flags.
	Collapse []model.NodeID `json:"collapse,omitempty" toml:"collapse"`
	Hide     []model.NodeID `json:"hide,omitempty" toml:"hide"`
}

// Validate checks the document shape. Element-level problems such as
// duplicate ids are reported by the engine.
func (d *Document) Validate() error {
	if d.Root != nil && len(d.Elements) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document sets both root and elements")
	}
	if !d.View.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view direction %q", d.View.Direction)
	}
	for i, r := range d.Relationships {
		if r.From == "" || r.To == "" {
			return errors.New(errors.ErrCodeInvalidInput, "relationship %d has an empty endpoint", i)
		}
	}
	return nil
}

// Empty reports whether the document has no elements.
func (d *Document) Empty() bool {
	return d.Root == nil && len(d.Elements) == 0
}

// Graph converts the document to engine input. Kinds are normalized and the
// view's Collapse and Hide lists are applied; the document is not modified.
func (d *Document) Graph() layout.Graph {
	collapse := set(d.View.Collapse)
	hide := set(d.View.Hide)
	adjust := func(e *model.Element) {
		e.Kind = model.ParseKind(string(e.Kind))
		e.Collapsed = e.Collapsed || collapse[e.ID]
		e.Hidden = e.Hidden || hide[e.ID]
	}

	g := layout.Graph{Relationships: d.Relationships}
	if d.Root != nil {
		root := cloneTree(*d.Root, adjust)
		g.Root = &root
		return g
	}
	g.Elements = make([]model.FlatElement, len(d.Elements))
	for i, fe := range d.Elements {
		fe.Element = cloneTree(fe.Element, adjust)
		g.Elements[i] = fe
	}
	return g
}

// Options overlays the document's preset and view on base. Fields already
// set in base win.
func (d *Document) Options(base layout.Options) layout.Options {
	if base.Preset == "" {
		base.Preset = d.Preset
	}
	if base.Direction == "" {
		base.Direction = d.View.Direction
	}
	if !base.Viewport.Size.Valid() && d.View.Viewport.Valid() {
		base.Viewport.Size = d.View.Viewport
	}
	return base
}

func set(ids []model.NodeID) map[model.NodeID]bool {
	m := make(map[model.NodeID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// cloneTree deep-copies the children slices of e and applies fn to every
// element.
func cloneTree(e model.Element, fn func(*model.Element)) model.Element {
	fn(&e)
	if len(e.Children) == 0 {
		return e
	}
	children := make([]model.Element, len(e.Children))
	for i, c := range e.Children {
		children[i] = cloneTree(c, fn)
	}
	e.Children = children
	return e
}

// =============================================================================
// Reading documents
// =============================================================================

// ReadDocument decodes a document in the given format and validates it.
func ReadDocument(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json document")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml document")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be one of: json, toml)", format)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ParseDocument decodes a document from bytes.
func ParseDocument(data []byte, format string) (Document, error) {
	return ReadDocument(bytes.NewReader(data), format)
}

// ReadDocumentFile reads a document, choosing the format by extension:
// ".toml" is TOML, anything else JSON.
func ReadDocumentFile(path string) (Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadDocument(f, FormatFromPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// FormatFromPath returns the document format implied by a file name.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}
