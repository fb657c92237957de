package layout

import (
	"testing"

	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/sizing"
)

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Preset != PresetInteractive {
		t.Errorf("preset = %q, want %q", opts.Preset, PresetInteractive)
	}
	if opts.Direction != model.TopBottom {
		t.Errorf("direction = %q", opts.Direction)
	}
	if opts.NodeSpacing != 40 || opts.RankSpacing != 60 || opts.SafetyMargin != 8 {
		t.Errorf("spacing = %v/%v/%v", opts.NodeSpacing, opts.RankSpacing, opts.SafetyMargin)
	}
	if opts.LevelPadding.At(model.L2) != 24 {
		t.Errorf("L2 padding = %v, want 24", opts.LevelPadding.At(model.L2))
	}
	if opts.Theme.Name != "c4" || opts.Theme.Rules.For(model.KindSystem).MinSize.W == 0 {
		t.Errorf("theme not defaulted: %+v", opts.Theme)
	}

	again := opts
	again.SetDefaults()
	if again.NodeSpacing != opts.NodeSpacing || again.LevelPadding != opts.LevelPadding {
		t.Error("SetDefaults is not idempotent")
	}
}

func TestExplicitValuesWin(t *testing.T) {
	opts := Options{Preset: PresetCompact, NodeSpacing: 99, LevelPadding: LevelValues{L3: 1}}
	opts.SetDefaults()
	if opts.NodeSpacing != 99 {
		t.Errorf("node spacing = %v, want 99", opts.NodeSpacing)
	}
	if opts.LevelPadding.L3 != 1 || opts.LevelPadding.L2 != 12 {
		t.Errorf("level padding = %+v", opts.LevelPadding)
	}
}

func TestPresetsDifferInMagnitude(t *testing.T) {
	compact, err := Preset(PresetCompact)
	if err != nil {
		t.Fatal(err)
	}
	presentation, err := Preset(PresetPresentation)
	if err != nil {
		t.Fatal(err)
	}
	if compact.NodeSpacing >= presentation.NodeSpacing || compact.LevelPadding.L1 >= presentation.LevelPadding.L1 {
		t.Errorf("compact %+v not tighter than presentation %+v", compact.LevelPadding, presentation.LevelPadding)
	}
	if compact.Direction != presentation.Direction || compact.EdgeRouting != presentation.EdgeRouting {
		t.Error("presets differ beyond spacing and padding")
	}

	if _, err := Preset("poster"); !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("Preset(poster) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"all fields", Options{Preset: PresetPublication, Direction: model.RightLeft, Alignment: "center", EdgeRouting: RoutingSpline}, false},
		{"unknown preset", Options{Preset: "poster"}, true},
		{"bad direction", Options{Direction: "BT"}, true},
		{"bad alignment", Options{Alignment: "justify"}, true},
		{"bad routing", Options{EdgeRouting: "bezier"}, true},
		{"negative spacing", Options{NodeSpacing: -1}, true},
		{"negative padding", Options{LevelPadding: LevelValues{L2: -4}}, true},
		{"negative columns", Options{MaxColumns: -1}, true},
		{"min above max", Options{MinSize: geom.Size{W: 300, H: 10}, MaxSize: geom.Size{W: 200, H: 100}}, true},
		{"inverted aspect", Options{AspectRatio: AspectRatio{Min: 3, Max: 1}}, true},
		{"utilization above one", Options{Viewport: Viewport{TargetUtilization: 1.5}}, true},
		{"inverted expansion", Options{Viewport: Viewport{MinExpansion: 3, MaxExpansion: 2}}, true},
		{"negative snap", Options{Beautify: Beautify{SnapGrid: -5}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidOptions) {
				t.Errorf("error code = %v, want INVALID_OPTIONS", errors.GetCode(err))
			}
		})
	}
}

func TestRulesOverride(t *testing.T) {
	opts := Options{MinSize: geom.Size{W: 50, H: 20}}
	opts.SetDefaults()
	rules := opts.rules()
	for _, k := range model.Kinds {
		if got := rules.For(k).MinSize; got != opts.MinSize {
			t.Errorf("%s min size = %+v, want %+v", k, got, opts.MinSize)
		}
	}
	if rules.For(model.KindSystem).MaxSize != sizing.DefaultRules().For(model.KindSystem).MaxSize {
		t.Error("max size changed without override")
	}
}

func TestLoadOptionsFile(t *testing.T) {
	opts, err := LoadOptionsFile("testdata/presentation.toml")
	if err != nil {
		t.Fatalf("LoadOptionsFile() error = %v", err)
	}
	if opts.Direction != model.LeftRight || opts.EdgeRouting != RoutingSpline || opts.MaxColumns != 3 {
		t.Errorf("decoded = %+v", opts)
	}
	// unset fields stay zero until defaults are applied
	if opts.NodeSpacing != 0 || opts.LevelPadding.L1 != 0 || len(opts.Theme.Rules.ByKind) != 0 {
		t.Errorf("file options were defaulted: node spacing = %v, padding = %+v", opts.NodeSpacing, opts.LevelPadding)
	}
	if opts.MinSize != (geom.Size{W: 120, H: 60}) {
		t.Errorf("min size = %+v", opts.MinSize)
	}
	if opts.Viewport.Size != (geom.Size{W: 1920, H: 1080}) {
		t.Errorf("viewport = %+v", opts.Viewport)
	}

	// overrides win, the rest comes from the preset
	opts.SetDefaults()
	if opts.LevelPadding.L2 != 56 || opts.LevelPadding.L1 != 48 || opts.NodeSpacing != 80 {
		t.Errorf("level padding = %+v, node spacing = %v", opts.LevelPadding, opts.NodeSpacing)
	}
	if opts.Theme.Name != "slides" || len(opts.Theme.Rules.ByKind) == 0 {
		t.Errorf("theme = %+v", opts.Theme)
	}
}

func TestLoadOptionsFileErrors(t *testing.T) {
	tests := []struct {
		path string
		code errors.Code
	}{
		{"testdata/unknown.toml", errors.ErrCodeInvalidOptions},
		{"testdata/missing.toml", errors.ErrCodeInvalidFormat},
		{"", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := LoadOptionsFile(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
