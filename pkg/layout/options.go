package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/grid"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/viewport"
	"github.com/sruja-ai/sruja-sub008/pkg/measure"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/sizing"
)

// =============================================================================
// Presets
// =============================================================================

// Preset names.
const (
	PresetPublication  = "publication"
	PresetInteractive  = "interactive"
	PresetPresentation = "presentation"
	PresetCompact      = "compact"
)

// DefaultPreset is applied when Options.Preset is empty.
const DefaultPreset = PresetInteractive

// Edge routing intents. The engine only passes them through to EdgeHint.
const (
	RoutingOrthogonal = "orthogonal"
	RoutingSpline     = "spline"
	RoutingStraight   = "straight"
)

// ValidRoutings is the set of supported edge routing intents.
var ValidRoutings = map[string]bool{
	RoutingOrthogonal: true,
	RoutingSpline:     true,
	RoutingStraight:   true,
}

// Presets returns the preset names in a stable order.
func Presets() []string {
	return []string{PresetPublication, PresetInteractive, PresetPresentation, PresetCompact}
}

// presets differ only in spacing and padding magnitudes.
var presets = map[string]Options{
	PresetPublication: {
		NodeSpacing:  60,
		RankSpacing:  80,
		ExternalGap:  80,
		SafetyMargin: 10,
		LevelPadding: LevelValues{L0: 24, L1: 40, L2: 32, L3: 24},
	},
	PresetInteractive: {
		NodeSpacing:  40,
		RankSpacing:  60,
		ExternalGap:  60,
		SafetyMargin: 8,
		LevelPadding: LevelValues{L0: 16, L1: 32, L2: 24, L3: 16},
	},
	PresetPresentation: {
		NodeSpacing:  80,
		RankSpacing:  100,
		ExternalGap:  120,
		SafetyMargin: 12,
		LevelPadding: LevelValues{L0: 32, L1: 48, L2: 40, L3: 32},
	},
	PresetCompact: {
		NodeSpacing:  20,
		RankSpacing:  30,
		ExternalGap:  40,
		SafetyMargin: 4,
		LevelPadding: LevelValues{L0: 8, L1: 16, L2: 12, L3: 8},
	},
}

// Preset returns the named preset with defaults applied.
func Preset(name string) (Options, error) {
	if _, ok := presets[name]; !ok {
		return Options{}, errors.New(errors.ErrCodeInvalidOptions, "unknown preset %q (must be one of: %s)", name, strings.Join(Presets(), ", "))
	}
	opts := Options{Preset: name}
	opts.SetDefaults()
	return opts, nil
}

// =============================================================================
// Options
// =============================================================================

// LevelValues holds one value per C4 level. A zero entry means "not set".
type LevelValues struct {
	L0 float64 `json:"l0,omitempty" toml:"l0"`
	L1 float64 `json:"l1,omitempty" toml:"l1"`
	L2 float64 `json:"l2,omitempty" toml:"l2"`
	L3 float64 `json:"l3,omitempty" toml:"l3"`
}

// At returns the value for level.
func (v LevelValues) At(level model.Level) float64 {
	switch level {
	case model.L1:
		return v.L1
	case model.L2:
		return v.L2
	case model.L3:
		return v.L3
	default:
		return v.L0
	}
}

// Map returns the values keyed by level.
func (v LevelValues) Map() map[model.Level]float64 {
	return map[model.Level]float64{model.L0: v.L0, model.L1: v.L1, model.L2: v.L2, model.L3: v.L3}
}

func (v *LevelValues) fill(from LevelValues) {
	if v.L0 == 0 {
		v.L0 = from.L0
	}
	if v.L1 == 0 {
		v.L1 = from.L1
	}
	if v.L2 == 0 {
		v.L2 = from.L2
	}
	if v.L3 == 0 {
		v.L3 = from.L3
	}
}

func (v LevelValues) negative() bool {
	return v.L0 < 0 || v.L1 < 0 || v.L2 < 0 || v.L3 < 0
}

// AspectRatio bounds the width/height ratio of grid-packed groups. Zero
// bounds are open.
type AspectRatio struct {
	Min float64 `json:"min,omitempty" toml:"min"`
	Max float64 `json:"max,omitempty" toml:"max"`
}

// OverlapRemoval pushes apart sibling boxes that overlap after placement.
type OverlapRemoval struct {
	Enabled bool    `json:"enabled,omitempty" toml:"enabled"`
	Gap     float64 `json:"gap,omitempty" toml:"gap"`
	// MaxIterations bounds the separation sweeps; 0 means
	// DefaultOverlapIterations.
	MaxIterations int `json:"max_iterations,omitempty" toml:"max_iterations"`
}

// Beautify holds cosmetic post-placement adjustments.
type Beautify struct {
	// SnapGrid rounds sibling positions to multiples of this value.
	SnapGrid float64 `json:"snap_grid,omitempty" toml:"snap_grid"`
}

// Theme carries the per-kind sizing rules.
type Theme struct {
	Name  string       `json:"name,omitempty" toml:"name"`
	Rules sizing.Rules `json:"rules" toml:"rules"`
}

// DefaultTheme returns the built-in C4 theme.
func DefaultTheme() Theme {
	return Theme{Name: "c4", Rules: sizing.DefaultRules()}
}

// Viewport configures the optional post-layout expansion. A zero Size
// disables it.
type Viewport struct {
	Size              geom.Size `json:"size" toml:"size"`
	TargetUtilization float64   `json:"target_utilization,omitempty" toml:"target_utilization"`
	MinExpansion      float64   `json:"min_expansion,omitempty" toml:"min_expansion"`
	MaxExpansion      float64   `json:"max_expansion,omitempty" toml:"max_expansion"`
	PreserveAspect    bool      `json:"preserve_aspect,omitempty" toml:"preserve_aspect"`
}

func (v Viewport) options() viewport.Options {
	return viewport.Options{
		Viewport:          v.Size,
		TargetUtilization: v.TargetUtilization,
		MinExpansion:      v.MinExpansion,
		MaxExpansion:      v.MaxExpansion,
		PreserveAspect:    v.PreserveAspect,
	}
}

// Options configures the engine. The zero value plus SetDefaults is the
// interactive preset.
type Options struct {
	Preset    string          `json:"preset,omitempty" toml:"preset"`
	Direction model.Direction `json:"direction,omitempty" toml:"direction"`
	Alignment grid.Alignment  `json:"alignment,omitempty" toml:"alignment"`

	NodeSpacing float64 `json:"node_spacing,omitempty" toml:"node_spacing"`
	RankSpacing float64 `json:"rank_spacing,omitempty" toml:"rank_spacing"`
	ExternalGap float64 `json:"external_gap,omitempty" toml:"external_gap"`
	// LevelSpacing overrides NodeSpacing between siblings of a level.
	LevelSpacing LevelValues `json:"level_spacing" toml:"level_spacing"`
	// LevelPadding is the inset of a parent at each level.
	LevelPadding LevelValues `json:"level_padding" toml:"level_padding"`
	SafetyMargin float64     `json:"safety_margin,omitempty" toml:"safety_margin"`

	// MinSize and MaxSize override the theme's bounds for every kind.
	// MinSize is also the fallback for invalid supplied sizes.
	MinSize geom.Size `json:"min_size" toml:"min_size"`
	MaxSize geom.Size `json:"max_size" toml:"max_size"`

	MaxColumns  int         `json:"max_columns,omitempty" toml:"max_columns"`
	MaxPerSide  int         `json:"max_per_side,omitempty" toml:"max_per_side"`
	AspectRatio AspectRatio `json:"aspect_ratio" toml:"aspect_ratio"`

	EdgeRouting    string         `json:"edge_routing,omitempty" toml:"edge_routing"`
	OverlapRemoval OverlapRemoval `json:"overlap_removal" toml:"overlap_removal"`
	Beautify       Beautify       `json:"beautify" toml:"beautify"`

	// MaxIterations is the number of barycenter iterations.
	MaxIterations int `json:"max_iterations,omitempty" toml:"max_iterations"`
	// Tolerance is the smallest overlap worth resolving.
	Tolerance float64 `json:"tolerance,omitempty" toml:"tolerance"`

	Theme    Theme    `json:"theme" toml:"theme"`
	Viewport Viewport `json:"viewport" toml:"viewport"`

	// Measurer sizes labels. Nil uses a fresh cached font measurer per
	// engine.
	Measurer measure.Measurer `json:"-" toml:"-"`
}

// Default values not covered by presets.
const (
	DefaultMaxIterations     = 4
	DefaultOverlapIterations = 50
	DefaultTolerance         = 0.5
	DefaultAspectMin         = 0.5
	DefaultAspectMax         = 2.5
)

// SetDefaults fills zero fields from the preset and the package defaults.
// Explicit values win. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Preset == "" {
		o.Preset = DefaultPreset
	}
	p, ok := presets[o.Preset]
	if !ok {
		// Validate reports the unknown name.
		p = presets[DefaultPreset]
	}

	if o.Direction == "" {
		o.Direction = model.TopBottom
	}
	if o.Alignment == "" {
		o.Alignment = grid.AlignStart
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = p.NodeSpacing
	}
	if o.RankSpacing == 0 {
		o.RankSpacing = p.RankSpacing
	}
	if o.ExternalGap == 0 {
		o.ExternalGap = p.ExternalGap
	}
	if o.SafetyMargin == 0 {
		o.SafetyMargin = p.SafetyMargin
	}
	o.LevelPadding.fill(p.LevelPadding)
	if o.AspectRatio.Min == 0 {
		o.AspectRatio.Min = DefaultAspectMin
	}
	if o.AspectRatio.Max == 0 {
		o.AspectRatio.Max = DefaultAspectMax
	}
	if o.EdgeRouting == "" {
		o.EdgeRouting = RoutingOrthogonal
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.OverlapRemoval.MaxIterations == 0 {
		o.OverlapRemoval.MaxIterations = DefaultOverlapIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Theme.Rules.Default == (sizing.Rule{}) && len(o.Theme.Rules.ByKind) == 0 {
		name := o.Theme.Name
		o.Theme = DefaultTheme()
		if name != "" {
			o.Theme.Name = name
		}
	}
}

// Validate checks option values. It does not apply defaults.
func (o *Options) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidOptions, format, args...)
	}

	if o.Preset != "" {
		if _, ok := presets[o.Preset]; !ok {
			return invalid("unknown preset %q (must be one of: %s)", o.Preset, strings.Join(Presets(), ", "))
		}
	}
	if !o.Direction.Valid() {
		return invalid("invalid direction %q (must be one of: TB, LR, RL)", o.Direction)
	}
	if !slices.Contains([]grid.Alignment{"", grid.AlignStart, grid.AlignCenter, grid.AlignEnd}, o.Alignment) {
		return invalid("invalid alignment %q (must be one of: start, center, end)", o.Alignment)
	}
	if o.EdgeRouting != "" && !ValidRoutings[o.EdgeRouting] {
		return invalid("invalid edge_routing %q (must be one of: orthogonal, spline, straight)", o.EdgeRouting)
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"node_spacing", o.NodeSpacing},
		{"rank_spacing", o.RankSpacing},
		{"external_gap", o.ExternalGap},
		{"safety_margin", o.SafetyMargin},
		{"tolerance", o.Tolerance},
	} {
		if f.value < 0 {
			return invalid("%s must not be negative, got %v", f.name, f.value)
		}
	}
	if o.LevelPadding.negative() || o.LevelSpacing.negative() {
		return invalid("level spacing and padding must not be negative")
	}
	if o.MaxColumns < 0 || o.MaxPerSide < 0 || o.MaxIterations < 0 || o.OverlapRemoval.MaxIterations < 0 {
		return invalid("max_columns, max_per_side and max_iterations must not be negative")
	}
	if o.OverlapRemoval.Gap < 0 || o.Beautify.SnapGrid < 0 {
		return invalid("overlap gap and snap grid must not be negative")
	}
	if o.MinSize.W < 0 || o.MinSize.H < 0 || o.MaxSize.W < 0 || o.MaxSize.H < 0 {
		return invalid("min_size and max_size must not be negative")
	}
	if o.MaxSize.W > 0 && o.MinSize.W > o.MaxSize.W || o.MaxSize.H > 0 && o.MinSize.H > o.MaxSize.H {
		return invalid("min_size %vx%v exceeds max_size %vx%v", o.MinSize.W, o.MinSize.H, o.MaxSize.W, o.MaxSize.H)
	}
	if a := o.AspectRatio; a.Min < 0 || a.Max < 0 || a.Max > 0 && a.Min > a.Max {
		return invalid("invalid aspect_ratio [%v, %v]", a.Min, a.Max)
	}
	if v := o.Viewport; v.TargetUtilization < 0 || v.TargetUtilization > 1 {
		return invalid("viewport target_utilization must be within (0, 1], got %v", v.TargetUtilization)
	}
	if v := o.Viewport; v.MinExpansion < 0 || v.MaxExpansion < 0 || v.MaxExpansion > 0 && v.MinExpansion > v.MaxExpansion {
		return invalid("invalid viewport expansion range [%v, %v]", v.MinExpansion, v.MaxExpansion)
	}
	return nil
}

// ValidateAndSetDefaults validates o and then applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetDefaults()
	return nil
}

// rules returns the theme rules with the MinSize/MaxSize overrides applied.
func (o *Options) rules() sizing.Rules {
	apply := func(r sizing.Rule) sizing.Rule {
		if o.MinSize.Valid() {
			r.MinSize = o.MinSize
		}
		if o.MaxSize.Valid() {
			r.MaxSize = o.MaxSize
		}
		return r
	}
	rules := sizing.Rules{Default: apply(o.Theme.Rules.Default), ByKind: make(map[model.Kind]sizing.Rule, len(o.Theme.Rules.ByKind))}
	for k, r := range o.Theme.Rules.ByKind {
		rules.ByKind[k] = apply(r)
	}
	return rules
}

// spacing returns the gap between siblings at level.
func (o *Options) spacing(level model.Level) float64 {
	if s := o.LevelSpacing.At(level); s > 0 {
		return s
	}
	return o.NodeSpacing
}

// =============================================================================
// Option files
// =============================================================================

// LoadOptionsFile reads options from a TOML file. The file may name a preset
// and override any field:
//
//	preset = "presentation"
//	direction = "LR"
//
//	[level_padding]
//	l2 = 48
//
// The result is validated but not defaulted: unset fields stay zero so that
// later layers (a --preset flag, the document's preset and view) can still
// fill them before SetDefaults runs.
func LoadOptionsFile(path string) (Options, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Options{}, err
	}
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode options %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidOptions, "unknown option %q in %s", undecoded[0].String(), path)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}
