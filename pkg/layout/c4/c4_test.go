package c4

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

func rectOf(res Result, it model.Item) geom.Rect {
	return geom.RectAt(res.Positions[it.ID], it.Size)
}

func assertNoOverlap(t *testing.T, res Result, items []model.Item) {
	t.Helper()
	canvas := geom.Rect{W: res.Width, H: res.Height}
	for i := range items {
		ri := rectOf(res, items[i])
		if !canvas.Contains(ri) {
			t.Errorf("%s at %+v outside canvas %vx%v", items[i].ID, ri, res.Width, res.Height)
		}
		for j := i + 1; j < len(items); j++ {
			if ri.Intersects(rectOf(res, items[j])) {
				t.Errorf("%s overlaps %s", items[i].ID, items[j].ID)
			}
		}
	}
}

var opts = Options{NodeSpacing: 20, RankSpacing: 30, ExternalGap: 40, BoundaryPadding: 30, MaxColumns: 3}

func TestSystemContextCentersFocus(t *testing.T) {
	focus := item("bank", 200, 100)
	externals := []model.Item{item("customer", 100, 50), item("mail", 100, 50), item("mainframe", 100, 50), item("staff", 100, 50)}
	res := SystemContext(focus, externals, opts)

	if len(res.Positions) != 5 {
		t.Fatalf("positions = %d, want 5", len(res.Positions))
	}
	seen := map[geom.Point]bool{}
	for _, p := range res.Positions {
		seen[p] = true
	}
	if len(seen) != 5 {
		t.Errorf("positions not distinct: %v", res.Positions)
	}

	want := geom.Point{X: res.Width/2 - 100, Y: res.Height/2 - 50}
	if got := res.Positions["bank"]; got != want {
		t.Errorf("focus at %+v, want %+v", got, want)
	}

	wantExt := map[model.NodeID]geom.Point{
		"customer":  {X: 190, Y: 0},
		"mail":      {X: 380, Y: 115},
		"mainframe": {X: 190, Y: 230},
		"staff":     {X: 0, Y: 115},
	}
	for id, p := range wantExt {
		if res.Positions[id] != p {
			t.Errorf("%s at %+v, want %+v", id, res.Positions[id], p)
		}
	}
	if res.Width != 480 || res.Height != 280 {
		t.Errorf("canvas = %vx%v, want 480x280", res.Width, res.Height)
	}
	assertNoOverlap(t, res, append([]model.Item{focus}, externals...))
}

func TestSystemContextWraps(t *testing.T) {
	focus := item("core", 160, 80)
	var externals []model.Item
	for i := 0; i < 13; i++ {
		externals = append(externals, item(fmt.Sprint("ext", i), 90+float64(i%3)*20, 40+float64(i%2)*20))
	}
	o := opts
	o.MaxPerSide = 2
	res := SystemContext(focus, externals, o)

	assertNoOverlap(t, res, append([]model.Item{focus}, externals...))
	want := geom.Point{X: res.Width/2 - 80, Y: res.Height/2 - 40}
	if got := res.Positions["core"]; got != want {
		t.Errorf("focus at %+v, want %+v", got, want)
	}

	// four externals on top wrap into two rows
	topY := map[float64]bool{}
	for i := 0; i < 13; i += 4 {
		p := res.Positions[model.NodeID(fmt.Sprint("ext", i))]
		if p.Y >= res.Positions["core"].Y {
			t.Errorf("ext%d not above focus", i)
		}
		topY[p.Y] = true
	}
	if len(topY) < 2 {
		t.Errorf("top side did not wrap: %v", topY)
	}
}

func TestSystemContextAlone(t *testing.T) {
	res := SystemContext(item("solo", 120, 60), nil, opts)
	if res.Positions["solo"] != (geom.Point{}) || res.Width != 120 || res.Height != 60 {
		t.Errorf("lone focus = %+v", res)
	}
}

func TestContainers(t *testing.T) {
	internal := []model.Item{item("web", 100, 60), item("api", 100, 60), item("db", 100, 60), item("worker", 100, 60)}
	externals := []model.Item{item("user", 80, 80), item("email", 90, 50), item("payments", 90, 50), item("legacy", 90, 50)}
	rels := []model.Relationship{
		rel("user", "web"),
		rel("api", "email"),
		rel("api", "payments"), rel("payments", "api"),
		rel("web", "api"),
		rel("user", "legacy"),
	}
	res := Containers(internal, externals, rels, opts)

	b := res.Boundary
	// 3 columns x 2 rows of 100x60 plus padding
	if b.W != 3*100+2*20+60 || b.H != 2*60+30+60 {
		t.Errorf("boundary = %+v", b)
	}
	inner := b.Shrink(opts.BoundaryPadding)
	for _, it := range internal {
		if !inner.Contains(rectOf(res, it)) {
			t.Errorf("%s not inside boundary padding", it.ID)
		}
	}
	for _, it := range externals {
		if b.Intersects(rectOf(res, it)) {
			t.Errorf("external %s inside boundary", it.ID)
		}
	}

	side := func(id model.NodeID) string {
		r := geom.RectAt(res.Positions[id], geom.Size{W: 1, H: 1})
		switch {
		case r.Bottom() <= b.Top():
			return "top"
		case r.Top() >= b.Bottom():
			return "bottom"
		case r.Left() >= b.Right():
			return "right"
		case r.Right() <= b.Left():
			return "left"
		}
		return "inside"
	}
	want := map[model.NodeID]string{"user": "top", "email": "bottom", "payments": "right", "legacy": "left"}
	for id, s := range want {
		if got := side(id); got != s {
			t.Errorf("%s placed %s, want %s", id, got, s)
		}
	}

	assertNoOverlap(t, res, append(internal, externals...))
	if !(geom.Rect{W: res.Width, H: res.Height}).Contains(b) {
		t.Error("boundary outside canvas")
	}
}

func TestContainersEmpty(t *testing.T) {
	res := Containers(nil, nil, nil, opts)
	if res.Width != 0 || res.Height != 0 || len(res.Positions) != 0 {
		t.Errorf("empty containers = %+v", res)
	}
}

func TestContainersDeterministic(t *testing.T) {
	internal := []model.Item{item("a", 100, 60), item("b", 120, 70)}
	externals := []model.Item{item("x", 80, 40), item("y", 80, 40), item("z", 80, 40)}
	rels := []model.Relationship{rel("x", "a"), rel("b", "y")}
	first := Containers(internal, externals, rels, opts)
	if diff := cmp.Diff(first, Containers(internal, externals, rels, opts)); diff != "" {
		t.Errorf("non-deterministic:\n%s", diff)
	}
}

func TestComponents(t *testing.T) {
	items := []model.Item{item("controller", 120, 60), item("service", 120, 60), item("repository", 120, 60), item("audit", 80, 40)}
	rels := []model.Relationship{rel("controller", "service"), rel("service", "repository"), rel("service", "outside")}
	res := Components(items, rels, opts)

	want := map[model.NodeID]int{"controller": 0, "service": 1, "repository": 2, "audit": 0}
	if diff := cmp.Diff(want, res.Layer); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
	if res.Positions["audit"].Y >= res.Positions["service"].Y {
		t.Error("edge-free component not in the first lane")
	}
	if res.Boundary != (geom.Rect{W: res.Width, H: res.Height}) {
		t.Errorf("boundary = %+v", res.Boundary)
	}
}

func TestComponentsNoEdgesFormRow(t *testing.T) {
	items := []model.Item{item("a", 50, 40), item("b", 50, 40), item("c", 50, 40)}
	res := Components(items, nil, opts)

	for i, it := range items {
		if p := res.Positions[it.ID]; p.Y != 0 || p.X != float64(i)*70 {
			t.Errorf("%s at %+v", it.ID, p)
		}
	}
}

func TestComponentsLanes(t *testing.T) {
	items := []model.Item{item("a", 50, 40), item("b", 50, 40)}
	o := opts
	o.Lanes = map[model.NodeID]int{"b": 2}
	res := Components(items, nil, o)
	if res.Layer["b"] != 1 {
		t.Errorf("lane hint ignored: %v", res.Layer)
	}
}
