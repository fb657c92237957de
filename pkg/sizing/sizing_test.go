package sizing

import (
	"math"
	"testing"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/hierarchy"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

func tree(t *testing.T, root model.Element) *hierarchy.Tree {
	t.Helper()
	tr, err := hierarchy.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestSize(t *testing.T) {
	rules := Rules{Default: Rule{Padding: 10, MaxLabelWidth: 100, MinSize: geom.Size{W: 50, H: 40}, MaxSize: geom.Size{W: 300, H: 200}}}
	s := Sizer{Measurer: measure.Heuristic{}, Rules: rules}

	root := model.Element{ID: "root", Kind: model.KindSystem, Children: []model.Element{
		{ID: "a", Kind: model.KindComponent, Label: "x"},
		{ID: "long", Kind: model.KindComponent, Label: "a label that certainly needs more than one line"},
		{ID: "fixed", Kind: model.KindComponent, Size: &geom.Size{W: 400, H: 10}},
		{ID: "bad", Kind: model.KindComponent, Size: &geom.Size{W: math.NaN(), H: 10}},
		{ID: "neg", Kind: model.KindComponent, Size: &geom.Size{W: -5, H: 10}},
	}}
	got := s.Size(tree(t, root))

	byID := map[model.NodeID]SizedNode{}
	for _, n := range got {
		byID[n.ID] = n
	}

	if n := byID["a"]; n.Size != (geom.Size{W: 50, H: 40}) {
		t.Errorf("short label Size = %+v, want MinSize", n.Size)
	}
	if n := byID["long"]; len(n.LabelLines) < 2 || n.LabelSize.W > 100 {
		t.Errorf("long label lines=%q width=%v", n.LabelLines, n.LabelSize.W)
	}
	if n := byID["long"]; n.ContentSize.W != n.LabelSize.W+20 || n.ContentSize.H != n.LabelSize.H+20 {
		t.Errorf("ContentSize = %+v, label %+v", n.ContentSize, n.LabelSize)
	}
	if n := byID["fixed"]; n.Size != (geom.Size{W: 400, H: 10}) {
		t.Errorf("supplied Size = %+v, want kept", n.Size)
	}
	for _, id := range []model.NodeID{"bad", "neg"} {
		if n := byID[id]; n.Size != rules.Default.MinSize {
			t.Errorf("%s Size = %+v, want MinSize fallback", id, n.Size)
		}
	}
	if byID["a"].Parent != 0 || byID["root"].Parent != -1 {
		t.Error("parent indices not propagated")
	}
}

func TestSizeInvariants(t *testing.T) {
	s := Sizer{Measurer: measure.Heuristic{}, Rules: DefaultRules()}
	root := model.Element{ID: "s", Kind: model.KindSystem, Label: "Internet Banking System"}
	for i, k := range model.Kinds {
		root.Children = append(root.Children, model.Element{
			ID:    model.NodeID(k),
			Kind:  k,
			Label: "Element number " + string(rune('A'+i)) + " with a moderately long description",
		})
	}
	for _, n := range s.Size(tree(t, root)) {
		if !n.Size.Valid() {
			t.Errorf("%s: invalid size %+v", n.ID, n.Size)
		}
		rule := DefaultRules().For(model.Kind(n.ID))
		if n.ID != "s" && (n.Size.W < rule.MinSize.W || n.Size.H < rule.MinSize.H) {
			t.Errorf("%s: size %+v below min %+v", n.ID, n.Size, rule.MinSize)
		}
	}
}

func TestRulesFor(t *testing.T) {
	r := DefaultRules()
	if r.For(model.KindComponent).MinSize.W != 140 {
		t.Error("component rule not applied")
	}
	if r.For(model.KindNode) != r.Default {
		t.Error("unknown kind should use Default")
	}
}
