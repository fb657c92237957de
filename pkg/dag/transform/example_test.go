package transform_test

import (
	"fmt"

	"github.com/sruja-ai/sruja-sub008/pkg/dag"
	"github.com/sruja-ai/sruja-sub008/pkg/dag/transform"
)

func ExampleAssignRanks() {
	// controller → service → repository, controller → audit
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "controller"})
	_ = g.AddNode(dag.Node{ID: "service"})
	_ = g.AddNode(dag.Node{ID: "repository"})
	_ = g.AddNode(dag.Node{ID: "audit"})
	_ = g.AddEdge(dag.Edge{From: "controller", To: "service"})
	_ = g.AddEdge(dag.Edge{From: "service", To: "repository"})
	_ = g.AddEdge(dag.Edge{From: "controller", To: "audit"})

	r := transform.AssignRanks(g)
	for _, id := range g.IDs() {
		fmt.Printf("%s: %d\n", id, r.Ranks[id])
	}
	fmt.Println("Acyclic:", r.Acyclic())
	// Output:
	// controller: 0
	// service: 1
	// repository: 2
	// audit: 1
	// Acyclic: true
}

func ExampleAssignRanks_cycle() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "orders"})
	_ = g.AddNode(dag.Node{ID: "billing"})
	_ = g.AddEdge(dag.Edge{From: "orders", To: "billing"})
	_ = g.AddEdge(dag.Edge{From: "billing", To: "orders"})

	r := transform.AssignRanks(g)
	for _, e := range r.BackEdges {
		fmt.Printf("back edge: %s -> %s\n", e.From, e.To)
	}
	// Output:
	// back edge: orders -> billing
}
