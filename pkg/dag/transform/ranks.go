package transform

import (
	"github.com/sruja-ai/sruja-sub008/pkg/dag"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Ranking is the result of [AssignRanks].
type Ranking struct {
	// Ranks maps every node to its longest-path rank.
	Ranks map[model.NodeID]int
	// BackEdges lists edges that closed a cycle during the traversal, in
	// discovery order. Empty for acyclic graphs.
	BackEdges []dag.Edge
}

// Acyclic reports whether no back edges were found.
func (r Ranking) Acyclic() bool { return len(r.BackEdges) == 0 }

// IsBackEdge reports whether from→to was recorded as a back edge.
func (r Ranking) IsBackEdge(from, to model.NodeID) bool {
	for _, e := range r.BackEdges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// AssignRanks computes longest-path ranks for every node of g and writes
// them to the nodes' Row field.
//
// Nodes are visited in insertion order and predecessors in edge insertion
// order, so the result, including which edges are reported as back edges,
// is deterministic. See the package documentation for cycle handling.
func AssignRanks(g *dag.DAG) Ranking { return AssignRanksWithFloor(g, nil) }

// AssignRanksWithFloor is [AssignRanks] with a lower bound per node: a node
// listed in floor never gets a rank below its entry, and the bound propagates
// to its successors like any other rank.
func AssignRanksWithFloor(g *dag.DAG, floor map[model.NodeID]int) Ranking {
	const (
		unvisited = iota
		visiting
		done
	)

	type frame struct {
		id   model.NodeID
		next int // index of the next predecessor to inspect
		rank int
	}

	ranks := make(map[model.NodeID]int, g.NodeCount())
	state := make(map[model.NodeID]int, g.NodeCount())
	var back []dag.Edge

	for _, root := range g.IDs() {
		if state[root] != unvisited {
			continue
		}
		state[root] = visiting
		stack := []frame{{id: root, rank: max(0, floor[root])}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			preds := g.Parents(top.id)

			if top.next == len(preds) {
				ranks[top.id] = top.rank
				state[top.id] = done
				stack = stack[:len(stack)-1]
				if len(stack) > 0 {
					parent := &stack[len(stack)-1]
					parent.rank = max(parent.rank, top.rank+1)
				}
				continue
			}

			p := preds[top.next]
			top.next++
			switch state[p] {
			case done:
				top.rank = max(top.rank, ranks[p]+1)
			case visiting:
				// in-progress predecessor contributes rank 0
				top.rank = max(top.rank, 1)
				back = append(back, dag.Edge{From: p, To: top.id})
			default:
				state[p] = visiting
				stack = append(stack, frame{id: p, rank: max(0, floor[p])})
			}
		}
	}

	g.SetRows(ranks)
	return Ranking{Ranks: ranks, BackEdges: back}
}

// Layers groups the nodes of g by the Row that [AssignRanks] wrote. Layer i
// holds the nodes of the i-th smallest distinct row, each layer in insertion
// order. The returned map gives each node's layer index.
//
// For acyclic graphs ranks are already consecutive and layer equals rank;
// truncated cycles can leave gaps, which are closed here.
func Layers(g *dag.DAG) ([][]model.NodeID, map[model.NodeID]int) {
	rows := g.RowIDs()
	layers := make([][]model.NodeID, len(rows))
	layerOf := make(map[model.NodeID]int, g.NodeCount())
	for i, r := range rows {
		layers[i] = dag.NodeIDs(g.NodesInRow(r))
		for _, id := range layers[i] {
			layerOf[id] = i
		}
	}
	return layers, layerOf
}
