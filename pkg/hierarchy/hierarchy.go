// Package hierarchy turns element models into an index-addressed tree.
//
// The tree is an arena: nodes live in one slice in pre-order, refer to their
// parent and children by index, and are looked up by id through a map. There
// are no pointer back-references, so a Tree can be copied, compared, and
// discarded freely.
//
// Construction walks the input depth-first with an explicit stack and fails
// on the first repeated id. A repeated id is a malformed model, not a layout
// condition, and no partial tree is returned.
package hierarchy

import (
	"slices"

	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Node is one element of a Tree.
type Node struct {
	ID model.NodeID
	// Element is the input element with Children cleared.
	Element model.Element
	// Level is the element's level, or the default level of its kind when
	// the element leaves it at L0.
	Level model.Level

	Parent   int   // index of the parent, -1 for roots
	Children []int // indices of the children in input order

	Depth        int // 0 for roots
	SubtreeSize  int // nodes in the subtree including this one
	SubtreeDepth int // height of the subtree, 0 for leaves
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is an arena of nodes in depth-first pre-order.
type Tree struct {
	Nodes []Node
	Roots []int
	index map[model.NodeID]int
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Lookup returns the index of the node with the given id.
func (t *Tree) Lookup(id model.NodeID) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Get returns the node with the given id, or nil.
func (t *Tree) Get(id model.NodeID) *Node {
	if i, ok := t.index[id]; ok {
		return &t.Nodes[i]
	}
	return nil
}

// IDs returns all ids in pre-order.
func (t *Tree) IDs() []model.NodeID {
	ids := make([]model.NodeID, len(t.Nodes))
	for i := range t.Nodes {
		ids[i] = t.Nodes[i].ID
	}
	return ids
}

// ChildIDs returns the ids of the node's children in input order.
func (t *Tree) ChildIDs(i int) []model.NodeID {
	ids := make([]model.NodeID, len(t.Nodes[i].Children))
	for k, c := range t.Nodes[i].Children {
		ids[k] = t.Nodes[c].ID
	}
	return ids
}

// Walk calls fn for every node in pre-order. Returning false from fn skips
// the node's subtree.
func (t *Tree) Walk(fn func(i int, n *Node) bool) {
	stack := slices.Clone(t.Roots)
	slices.Reverse(stack)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(i, &t.Nodes[i]) {
			continue
		}
		for k := len(t.Nodes[i].Children) - 1; k >= 0; k-- {
			stack = append(stack, t.Nodes[i].Children[k])
		}
	}
}

// PostOrder calls fn for every node after all of its descendants.
func (t *Tree) PostOrder(fn func(i int, n *Node)) {
	// reverse pre-order visits children before parents
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		fn(i, &t.Nodes[i])
	}
}

// MaxDepth returns the depth of the deepest node, or -1 for an empty tree.
func (t *Tree) MaxDepth() int {
	d := -1
	for i := range t.Nodes {
		d = max(d, t.Nodes[i].Depth)
	}
	return d
}

// Build constructs a tree rooted at root.
//
// It fails with [errors.ErrCodeDuplicateID] when an id occurs twice and with
// [errors.ErrCodeInvalidID] for ids that are empty or contain control
// characters.
func Build(root model.Element) (*Tree, error) {
	b := newBuilder(1)
	if err := b.add(root, -1, nil); err != nil {
		return nil, err
	}
	return b.finish(), nil
}

// BuildFlat constructs a forest from elements addressed by ParentID. Roots
// are the elements with an empty ParentID, in input order. Nested Children
// of a flat element precede its flat children.
//
// Besides the errors of [Build], it fails with [errors.ErrCodeUnknownNode]
// for a ParentID that names no element and with [errors.ErrCodeCycle] when
// parent links form a loop.
func BuildFlat(elems []model.FlatElement) (*Tree, error) {
	known := make(map[model.NodeID]bool, len(elems))
	for _, e := range elems {
		known[e.ID] = true
	}

	byParent := make(map[model.NodeID][]model.Element)
	var roots []model.Element
	for _, e := range elems {
		if e.ParentID == "" {
			roots = append(roots, e.Element)
			continue
		}
		if !known[e.ParentID] {
			return nil, errors.New(errors.ErrCodeUnknownNode, "element %q has unknown parent %q", e.ID, e.ParentID)
		}
		byParent[e.ParentID] = append(byParent[e.ParentID], e.Element)
	}

	b := newBuilder(len(elems))
	for _, r := range roots {
		if err := b.add(r, -1, byParent); err != nil {
			return nil, err
		}
	}
	for _, e := range elems {
		if _, ok := b.index[e.ID]; !ok {
			return nil, errors.New(errors.ErrCodeCycle, "element %q is part of a parent cycle", e.ID)
		}
	}
	return b.finish(), nil
}

type builder struct {
	nodes []Node
	roots []int
	index map[model.NodeID]int
}

func newBuilder(capacity int) *builder {
	return &builder{
		nodes: make([]Node, 0, capacity),
		index: make(map[model.NodeID]int, capacity),
	}
}

// add appends the subtree of e in pre-order. flat supplies additional
// children by parent id.
func (b *builder) add(e model.Element, parent int, flat map[model.NodeID][]model.Element) error {
	type item struct {
		elem   model.Element
		parent int
	}

	stack := []item{{elem: e, parent: parent}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := it.elem.ID
		if err := errors.ValidateNodeID(string(id)); err != nil {
			return err
		}
		if _, dup := b.index[id]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate element id %q", id)
		}

		children := it.elem.Children
		if extra := flat[id]; len(extra) > 0 {
			children = append(slices.Clone(children), extra...)
		}

		elem := it.elem
		elem.Children = nil
		level := elem.Level
		if level == model.L0 || !level.Valid() {
			level = model.DefaultLevel(elem.Kind)
		}

		idx := len(b.nodes)
		depth := 0
		if it.parent >= 0 {
			depth = b.nodes[it.parent].Depth + 1
			b.nodes[it.parent].Children = append(b.nodes[it.parent].Children, idx)
		} else {
			b.roots = append(b.roots, idx)
		}
		b.nodes = append(b.nodes, Node{ID: id, Element: elem, Level: level, Parent: it.parent, Depth: depth})
		b.index[id] = idx

		for k := len(children) - 1; k >= 0; k-- {
			stack = append(stack, item{elem: children[k], parent: idx})
		}
	}
	return nil
}

func (b *builder) finish() *Tree {
	t := &Tree{Nodes: b.nodes, Roots: b.roots, index: b.index}
	t.PostOrder(func(_ int, n *Node) {
		n.SubtreeSize = 1
		for _, c := range n.Children {
			n.SubtreeSize += t.Nodes[c].SubtreeSize
			n.SubtreeDepth = max(n.SubtreeDepth, t.Nodes[c].SubtreeDepth+1)
		}
	})
	return t
}
