// Package dag provides the directed relationship graph used by the layered
// layout algorithms.
//
// # Overview
//
// Relationships between diagram elements ("web calls api", "api reads db")
// form a directed graph. The Sugiyama layout assigns each node a row
// (layer) so that edges flow top to bottom, then orders each row to reduce
// crossings. This package holds that graph and the crossing counter.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "web"})
//	g.AddNode(dag.Node{ID: "api"})
//	g.AddEdge(dag.Edge{From: "web", To: "api"})
//
// Query the structure with [DAG.Children] and [DAG.Parents]. Once ranks are
// assigned, [DAG.RowIDs] and [DAG.NodesInRow] read the layers back.
//
// # Determinism
//
// Nodes and adjacency lists are kept in insertion order, and every accessor
// returns them in that order. Identical input order therefore yields
// identical layouts.
//
// # Cycles
//
// Architecture models routinely contain cycles (a service and its callback
// consumer). The graph accepts them; the [transform] subpackage assigns
// ranks while reporting the edges that close a cycle.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a
// Fenwick tree in O(E log V) time.
//
// [transform]: github.com/sruja-ai/sruja-sub008/pkg/dag/transform
package dag
