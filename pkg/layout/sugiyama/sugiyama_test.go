package sugiyama

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

func item(id string, w, h float64) model.Item {
	return model.Item{ID: model.NodeID(id), Size: geom.Size{W: w, H: h}}
}

func rel(from, to string) model.Relationship {
	return model.Relationship{From: model.NodeID(from), To: model.NodeID(to)}
}

var opts = Options{NodeSpacing: 20, RankSpacing: 40}

func TestSingleNode(t *testing.T) {
	res := Layout([]model.Item{item("a", 100, 50)}, nil, opts)

	if p := res.Positions["a"]; p != (geom.Point{}) {
		t.Errorf("position = %+v, want origin", p)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("size = %vx%v, want 100x50", res.Width, res.Height)
	}
}

func TestTwoNodes(t *testing.T) {
	res := Layout([]model.Item{item("a", 100, 50), item("b", 100, 50)}, []model.Relationship{rel("a", "b")}, opts)

	a, b := res.Positions["a"], res.Positions["b"]
	if b.Y <= a.Y+50 {
		t.Errorf("b.y = %v, want > a.y + a.height = %v", b.Y, a.Y+50)
	}
	if res.Layer["a"] != 0 || res.Layer["b"] != 1 {
		t.Errorf("layers = %v", res.Layer)
	}
	if res.Height != 140 {
		t.Errorf("height = %v, want 50+40+50", res.Height)
	}
}

func TestChainWithBranch(t *testing.T) {
	in := []model.Item{item("a", 80, 40), item("b", 80, 40), item("c", 80, 40), item("d", 80, 40)}
	res := Layout(in, []model.Relationship{rel("a", "b"), rel("b", "c"), rel("a", "d")}, opts)

	want := map[model.NodeID]int{"a": 0, "b": 1, "c": 2, "d": 1}
	if diff := cmp.Diff(want, res.Layer); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	if res.Positions["b"].Y != res.Positions["d"].Y {
		t.Errorf("siblings b,d at y=%v and y=%v", res.Positions["b"].Y, res.Positions["d"].Y)
	}
}

func TestVerticalCentering(t *testing.T) {
	in := []model.Item{item("a", 50, 100), item("b", 50, 300), item("c", 50, 100)}
	res := Layout(in, nil, opts)

	if y := res.Positions["b"].Y; y != 0 {
		t.Errorf("tall node y = %v, want 0", y)
	}
	ya, yc := res.Positions["a"].Y, res.Positions["c"].Y
	if ya != 100 || yc != 100 {
		t.Errorf("short nodes y = %v, %v, want 100, 100", ya, yc)
	}
	if res.Width != 190 || res.Height != 300 {
		t.Errorf("size = %vx%v, want 190x300", res.Width, res.Height)
	}
}

func TestLayerCentering(t *testing.T) {
	in := []model.Item{item("top", 40, 20), item("l", 100, 20), item("r", 100, 20)}
	res := Layout(in, []model.Relationship{rel("top", "l"), rel("top", "r")}, opts)

	// widest layer is 100+20+100
	if res.Width != 220 {
		t.Fatalf("width = %v, want 220", res.Width)
	}
	if x := res.Positions["top"].X; x != 90 {
		t.Errorf("top.x = %v, want centered at 90", x)
	}
}

func TestBarycenterRemovesCrossing(t *testing.T) {
	in := []model.Item{item("a", 10, 10), item("b", 10, 10), item("c", 10, 10), item("d", 10, 10)}
	res := Layout(in, []model.Relationship{rel("a", "d"), rel("b", "c")}, opts)

	if res.Crossings != 0 {
		t.Errorf("crossings = %d, want 0 (layers %v)", res.Crossings, res.Layers)
	}
	if diff := cmp.Diff([][]model.NodeID{model.IDs("a", "b"), model.IDs("d", "c")}, res.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

func TestUnscoredNodesSortLast(t *testing.T) {
	in := []model.Item{item("a", 10, 10), item("b", 10, 10), item("x", 10, 10), item("c", 10, 10), item("y", 10, 10)}
	// x and y are isolated: same layer as a,b but no neighbors
	res := Layout(in, []model.Relationship{rel("a", "c"), rel("b", "c")}, opts)

	if diff := cmp.Diff(model.IDs("a", "b", "x", "y"), res.Layers[0]); diff != "" {
		t.Errorf("layer 0 mismatch (-want +got):\n%s", diff)
	}
}

func TestRankMonotonicity(t *testing.T) {
	for seed := 0; seed < 20; seed++ {
		var in []model.Item
		for i := 0; i < 12; i++ {
			in = append(in, item(fmt.Sprint("n", i), 30, float64(10+(i*seed)%25)))
		}
		var edges []model.Relationship
		for i := 0; i < 12; i++ {
			for j := i + 1; j < 12; j++ {
				if (i*7+j*3+seed)%5 == 0 {
					edges = append(edges, rel(fmt.Sprint("n", i), fmt.Sprint("n", j)))
				}
			}
		}

		res := Layout(in, edges, opts)
		if len(res.BackEdges) != 0 {
			t.Fatalf("seed %d: back edges in acyclic input: %v", seed, res.BackEdges)
		}
		for _, e := range edges {
			if res.Layer[e.To] <= res.Layer[e.From] {
				t.Errorf("seed %d: layer(%s)=%d not > layer(%s)=%d", seed, e.To, res.Layer[e.To], e.From, res.Layer[e.From])
			}
			if res.Positions[e.To].Y <= res.Positions[e.From].Y {
				t.Errorf("seed %d: %s not below %s", seed, e.To, e.From)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	in := []model.Item{item("web", 120, 60), item("api", 120, 80), item("db", 100, 60), item("cache", 90, 50), item("queue", 90, 50)}
	edges := []model.Relationship{rel("web", "api"), rel("api", "db"), rel("api", "cache"), rel("api", "queue"), rel("queue", "db")}

	first := Layout(in, edges, opts)
	for range 5 {
		if diff := cmp.Diff(first, Layout(in, edges, opts)); diff != "" {
			t.Fatalf("non-deterministic layout:\n%s", diff)
		}
	}
}

func TestCycleIsReported(t *testing.T) {
	in := []model.Item{item("orders", 80, 40), item("billing", 80, 40)}
	res := Layout(in, []model.Relationship{rel("orders", "billing"), rel("billing", "orders")}, opts)

	if len(res.BackEdges) != 1 {
		t.Fatalf("BackEdges = %v, want one", res.BackEdges)
	}
	if len(res.Positions) != 2 || len(res.Layers) != 2 {
		t.Errorf("cyclic input not fully laid out: %+v", res)
	}
	if res.Layers[0][0] != "billing" {
		t.Errorf("layers = %v, want billing first", res.Layers)
	}
}

func TestIgnoresForeignEdges(t *testing.T) {
	res := Layout([]model.Item{item("a", 10, 10)}, []model.Relationship{rel("a", "zzz"), rel("zzz", "a")}, opts)
	if res.Layer["a"] != 0 || len(res.BackEdges) != 0 {
		t.Errorf("foreign edges affected layout: %+v", res)
	}
}

func TestEmpty(t *testing.T) {
	res := Layout(nil, nil, opts)
	if res.Width != 0 || res.Height != 0 || len(res.Positions) != 0 {
		t.Errorf("empty layout = %+v", res)
	}
}

func TestHorizontalDirections(t *testing.T) {
	in := []model.Item{item("a", 100, 50), item("b", 100, 50)}
	edges := []model.Relationship{rel("a", "b")}

	lr := Layout(in, edges, Options{NodeSpacing: 20, RankSpacing: 40, Direction: model.LeftRight})
	if lr.Positions["a"] != (geom.Point{}) || lr.Positions["b"] != (geom.Point{X: 140}) {
		t.Errorf("LR positions = %+v", lr.Positions)
	}
	if lr.Width != 240 || lr.Height != 50 {
		t.Errorf("LR size = %vx%v, want 240x50", lr.Width, lr.Height)
	}

	rl := Layout(in, edges, Options{NodeSpacing: 20, RankSpacing: 40, Direction: model.RightLeft})
	if rl.Positions["a"] != (geom.Point{X: 140}) || rl.Positions["b"] != (geom.Point{}) {
		t.Errorf("RL positions = %+v", rl.Positions)
	}
}

func TestMinRanks(t *testing.T) {
	in := []model.Item{item("ctrl", 10, 10), item("svc", 10, 10), item("util", 10, 10)}
	res := Layout(in, []model.Relationship{rel("ctrl", "svc")}, Options{MinRanks: map[model.NodeID]int{"util": 1}})

	if res.Layer["util"] != 1 || res.Layer["svc"] != 1 {
		t.Errorf("layers = %v, want util and svc in layer 1", res.Layer)
	}
}
