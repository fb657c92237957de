package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

func items(sizes ...geom.Size) []model.Item {
	out := make([]model.Item, len(sizes))
	for i, s := range sizes {
		out[i] = model.Item{ID: model.NodeID(rune('a' + i)), Size: s}
	}
	return out
}

func uniform(n int, w, h float64) []model.Item {
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = geom.Size{W: w, H: h}
	}
	return items(sizes...)
}

func TestGridShape(t *testing.T) {
	for n := 1; n <= 10; n++ {
		res := Grid(uniform(n, 10, 10), Options{MaxColumns: 3})
		wantCols := min(3, n)
		wantRows := (n + wantCols - 1) / wantCols
		if res.Columns != wantCols || res.Rows != wantRows {
			t.Errorf("n=%d: columns/rows = %d/%d, want %d/%d", n, res.Columns, res.Rows, wantCols, wantRows)
		}
	}
}

func TestGridPlacement(t *testing.T) {
	in := items(
		geom.Size{W: 100, H: 50}, geom.Size{W: 60, H: 80},
		geom.Size{W: 40, H: 20}, geom.Size{W: 120, H: 40},
	)
	res := Grid(in, Options{MaxColumns: 2, NodeSpacing: 10, RowSpacing: 5})

	// col widths 100, 120; row heights 80, 40
	want := map[model.NodeID]geom.Point{
		"a": {X: 0, Y: 15},
		"b": {X: 140, Y: 0},
		"c": {X: 30, Y: 95},
		"d": {X: 110, Y: 85},
	}
	if diff := cmp.Diff(want, res.Positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if res.Width != 230 || res.Height != 125 {
		t.Errorf("size = %vx%v, want 230x125", res.Width, res.Height)
	}
}

func TestGridCellMapping(t *testing.T) {
	in := uniform(7, 20, 10)
	res := Grid(in, Options{MaxColumns: 3, NodeSpacing: 5, RowSpacing: 5})
	for i, it := range in {
		p := res.Positions[it.ID]
		if wantX, wantY := float64(i%3)*25, float64(i/3)*15; p.X != wantX || p.Y != wantY {
			t.Errorf("item %d at %+v, want (%v,%v)", i, p, wantX, wantY)
		}
	}
}

func TestGridNoOverlap(t *testing.T) {
	in := items(
		geom.Size{W: 30, H: 90}, geom.Size{W: 70, H: 10}, geom.Size{W: 50, H: 50},
		geom.Size{W: 10, H: 10}, geom.Size{W: 90, H: 30},
	)
	res := Grid(in, Options{MaxColumns: 3, NodeSpacing: 1, RowSpacing: 1})
	bounds := geom.Rect{W: res.Width, H: res.Height}
	for i := range in {
		ri := res.Rect(in[i])
		if !bounds.Contains(ri) {
			t.Errorf("%s outside grid bounds", in[i].ID)
		}
		for j := i + 1; j < len(in); j++ {
			if ri.Intersects(res.Rect(in[j])) {
				t.Errorf("%s overlaps %s", in[i].ID, in[j].ID)
			}
		}
	}
}

func TestGridEdgeCases(t *testing.T) {
	res := Grid(nil, Options{MaxColumns: 3})
	if res.Width != 0 || res.Height != 0 || len(res.Positions) != 0 || res.Positions == nil {
		t.Errorf("empty grid = %+v", res)
	}

	res = Grid(uniform(4, 10, 10), Options{NodeSpacing: 2})
	if res.Columns != 4 || res.Rows != 1 || res.Width != 46 {
		t.Errorf("unbounded columns = %+v", res)
	}

	first := Grid(uniform(5, 10, 10), Options{MaxColumns: 2})
	second := Grid(uniform(5, 10, 10), Options{MaxColumns: 2})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("non-deterministic:\n%s", diff)
	}
}

func TestFlow(t *testing.T) {
	in := items(geom.Size{W: 100, H: 40}, geom.Size{W: 60, H: 20}, geom.Size{W: 80, H: 30})
	res := Flow(in, FlowOptions{Padding: 10, SpacingY: 5})

	want := map[model.NodeID]geom.Point{
		"a": {X: 10, Y: 0},
		"b": {X: 10, Y: 45},
		"c": {X: 10, Y: 70},
	}
	if diff := cmp.Diff(want, res.Positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	// padding widens the container but adds no height
	if res.Width != 120 || res.Height != 100 {
		t.Errorf("size = %vx%v, want 120x100", res.Width, res.Height)
	}

	if empty := Flow(nil, FlowOptions{Padding: 10}); empty.Width != 0 || empty.Height != 0 {
		t.Errorf("empty flow = %+v", empty)
	}
}

func TestFlowAlign(t *testing.T) {
	in := items(geom.Size{W: 100, H: 40}, geom.Size{W: 60, H: 20})
	tests := []struct {
		align Alignment
		wantX float64
	}{
		{"", 0},
		{AlignStart, 0},
		{AlignCenter, 20},
		{AlignEnd, 40},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			res := Flow(in, FlowOptions{Align: tt.align})
			if got := res.Positions["b"].X; got != tt.wantX {
				t.Errorf("b.x = %v, want %v", got, tt.wantX)
			}
			if got := res.Positions["a"].X; got != 0 {
				t.Errorf("a.x = %v, want 0", got)
			}
		})
	}
}
