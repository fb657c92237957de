package dag

import (
	"errors"
	"slices"

	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex in a relationship graph. Row holds the assigned layer
// once ranks have been computed.
type Node struct {
	ID  model.NodeID
	Row int
}

// Edge is a directed relationship. From precedes To in the layered flow.
type Edge struct {
	From model.NodeID
	To   model.NodeID
}

// DAG is a directed graph over layout nodes. Despite the name it tolerates
// cycles: rank assignment reports them instead of rejecting the graph.
//
// Every accessor returns nodes in insertion order so that algorithms built on
// top of it are deterministic. The zero value is not usable; call [New].
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[model.NodeID]*Node
	order    []model.NodeID
	outgoing map[model.NodeID][]model.NodeID
	incoming map[model.NodeID][]model.NodeID
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{
		nodes:    make(map[model.NodeID]*Node),
		outgoing: make(map[model.NodeID][]model.NodeID),
		incoming: make(map[model.NodeID][]model.NodeID),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if it is already present.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Self-loops and
// parallel edges are accepted; rank assignment treats a self-loop as a back
// edge.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// SetRows updates the row assignment of the listed nodes. Nodes missing from
// rows keep their current row.
func (d *DAG) SetRows(rows map[model.NodeID]int) {
	for id, r := range rows {
		if n, ok := d.nodes[id]; ok {
			n.Row = r
		}
	}
}

// IDs returns all node IDs in insertion order.
func (d *DAG) IDs() []model.NodeID { return slices.Clone(d.order) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// Children returns the targets of the node's outgoing edges in insertion
// order. The returned slice must not be modified.
func (d *DAG) Children(id model.NodeID) []model.NodeID { return d.outgoing[id] }

// Parents returns the sources of the node's incoming edges in insertion
// order. The returned slice must not be modified.
func (d *DAG) Parents(id model.NodeID) []model.NodeID { return d.incoming[id] }

// NodesInRow returns the nodes assigned to row, in insertion order.
func (d *DAG) NodesInRow(row int) []*Node {
	var out []*Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Row == row {
			out = append(out, n)
		}
	}
	return out
}

// RowIDs returns the distinct row indices in ascending order.
func (d *DAG) RowIDs() []int {
	seen := make(map[int]bool)
	var rows []int
	for _, id := range d.order {
		if r := d.nodes[id].Row; !seen[r] {
			seen[r] = true
			rows = append(rows, r)
		}
	}
	slices.Sort(rows)
	return rows
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []model.NodeID) map[model.NodeID]int {
	m := make(map[model.NodeID]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []*Node) []model.NodeID {
	ids := make([]model.NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
