package transform

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sruja-ai/sruja-sub008/pkg/dag"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

func graph(ids []string, edges [][2]string) *dag.DAG {
	g := dag.New()
	for _, id := range ids {
		_ = g.AddNode(dag.Node{ID: model.NodeID(id)})
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: model.NodeID(e[0]), To: model.NodeID(e[1])})
	}
	return g
}

func TestAssignRanks(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  map[model.NodeID]int
	}{
		{
			name: "single",
			ids:  []string{"a"},
			want: map[model.NodeID]int{"a": 0},
		},
		{
			name:  "pair",
			ids:   []string{"a", "b"},
			edges: [][2]string{{"a", "b"}},
			want:  map[model.NodeID]int{"a": 0, "b": 1},
		},
		{
			name:  "chain with branch",
			ids:   []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}},
			want:  map[model.NodeID]int{"a": 0, "b": 1, "c": 2, "d": 1},
		},
		{
			name:  "longest path wins",
			ids:   []string{"a", "b", "c"},
			edges: [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}},
			want:  map[model.NodeID]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "reverse insertion order",
			ids:   []string{"c", "b", "a"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[model.NodeID]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "disconnected",
			ids:   []string{"a", "b", "x"},
			edges: [][2]string{{"a", "b"}},
			want:  map[model.NodeID]int{"a": 0, "b": 1, "x": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(tt.ids, tt.edges)
			r := AssignRanks(g)
			if diff := cmp.Diff(tt.want, r.Ranks); diff != "" {
				t.Errorf("ranks mismatch (-want +got):\n%s", diff)
			}
			if !r.Acyclic() {
				t.Errorf("unexpected back edges %v", r.BackEdges)
			}
			for _, e := range tt.edges {
				from, to := model.NodeID(e[0]), model.NodeID(e[1])
				if r.Ranks[to] <= r.Ranks[from] {
					t.Errorf("rank(%s)=%d not > rank(%s)=%d", to, r.Ranks[to], from, r.Ranks[from])
				}
			}
			// ranks are written back as rows and read by Layers
			_, layerOf := Layers(g)
			if diff := cmp.Diff(tt.want, layerOf); diff != "" {
				t.Errorf("layers from rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssignRanksCycles(t *testing.T) {
	t.Run("two cycle", func(t *testing.T) {
		g := graph([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
		r := AssignRanks(g)

		// a visits b; b sees a in progress and gets 1; a becomes 2
		want := map[model.NodeID]int{"a": 2, "b": 1}
		if diff := cmp.Diff(want, r.Ranks); diff != "" {
			t.Errorf("ranks mismatch (-want +got):\n%s", diff)
		}
		if len(r.BackEdges) != 1 || !r.IsBackEdge("a", "b") {
			t.Errorf("BackEdges = %v, want [a→b]", r.BackEdges)
		}
	})

	t.Run("self loop", func(t *testing.T) {
		g := graph([]string{"a"}, [][2]string{{"a", "a"}})
		r := AssignRanks(g)
		if r.Ranks["a"] != 1 || !r.IsBackEdge("a", "a") {
			t.Errorf("got ranks %v back %v", r.Ranks, r.BackEdges)
		}
	})

	t.Run("cycle hanging off a source", func(t *testing.T) {
		edges := [][2]string{{"s", "a"}, {"a", "b"}, {"b", "a"}}
		g := graph([]string{"s", "a", "b"}, edges)
		r := AssignRanks(g)
		if r.Acyclic() {
			t.Fatal("expected back edges")
		}
		if r.Ranks["s"] != 0 {
			t.Errorf("rank(s) = %d, want 0", r.Ranks["s"])
		}
		for _, e := range edges {
			from, to := model.NodeID(e[0]), model.NodeID(e[1])
			if r.IsBackEdge(from, to) {
				continue
			}
			if r.Ranks[to] <= r.Ranks[from] {
				t.Errorf("forward edge %s→%s not monotonic: %v", from, to, r.Ranks)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}}
		first := AssignRanks(graph([]string{"a", "b", "c", "d"}, edges))
		second := AssignRanks(graph([]string{"a", "b", "c", "d"}, edges))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("non-deterministic ranking:\n%s", diff)
		}
	})
}

func TestAssignRanksDeepChain(t *testing.T) {
	const n = 20000
	g := dag.New()
	prev := model.NodeID("")
	for i := range n {
		id := model.NodeID(fmt.Sprintf("n%d", i))
		_ = g.AddNode(dag.Node{ID: id})
		if prev != "" {
			_ = g.AddEdge(dag.Edge{From: prev, To: id})
		}
		prev = id
	}
	r := AssignRanks(g)
	if got := r.Ranks[prev]; got != n-1 {
		t.Errorf("rank(last) = %d, want %d", got, n-1)
	}
}

func TestLayers(t *testing.T) {
	g := graph([]string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}})
	AssignRanks(g)
	layers, layerOf := Layers(g)

	want := [][]model.NodeID{model.IDs("a"), model.IDs("b", "d"), model.IDs("c")}
	if diff := cmp.Diff(want, layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	if layerOf["d"] != 1 {
		t.Errorf("layerOf[d] = %d, want 1", layerOf["d"])
	}

	// a pure cycle has no rank-0 node; layers are compacted
	g = graph([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	AssignRanks(g)
	layers, layerOf = Layers(g)
	if len(layers) != 2 || layerOf["b"] != 0 || layerOf["a"] != 1 {
		t.Errorf("compacted layers = %v %v", layers, layerOf)
	}
}

func TestAssignRanksWithFloor(t *testing.T) {
	g := graph([]string{"a", "b", "c", "x"}, [][2]string{{"a", "b"}, {"b", "c"}})
	r := AssignRanksWithFloor(g, map[model.NodeID]int{"b": 3, "x": 2})

	want := map[model.NodeID]int{"a": 0, "b": 3, "c": 4, "x": 2}
	if diff := cmp.Diff(want, r.Ranks); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
}
