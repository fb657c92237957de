// Package viewport spreads a finished layout to fill a target viewport.
//
// [Expand] compares the diagram bounds against the viewport scaled by the
// target utilization and moves every node center away from the diagram
// center by the resulting factor. Node sizes are left alone so labels keep
// their measured extents; callers refit parents afterwards (see the
// containment package).
package viewport

import (
	"math"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Threshold is the smallest scale worth applying. Below it on both axes
// Expand does nothing.
const Threshold = 1.1

// Defaults used for zero option values.
const (
	DefaultTargetUtilization = 0.85
	DefaultMinExpansion      = 1.0
	DefaultMaxExpansion      = 3.0
)

// Options configures [Expand]. A zero Viewport disables expansion.
type Options struct {
	Viewport          geom.Size
	TargetUtilization float64
	MinExpansion      float64
	MaxExpansion      float64
	PreserveAspect    bool
}

func (o *Options) setDefaults() {
	if o.TargetUtilization <= 0 || o.TargetUtilization > 1 {
		o.TargetUtilization = DefaultTargetUtilization
	}
	if o.MinExpansion <= 0 {
		o.MinExpansion = DefaultMinExpansion
	}
	if o.MaxExpansion <= 0 {
		o.MaxExpansion = DefaultMaxExpansion
	}
	if o.MaxExpansion < o.MinExpansion {
		o.MaxExpansion = o.MinExpansion
	}
}

// Scale is the factor applied on each axis.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the scale of an untouched layout.
var Identity = Scale{X: 1, Y: 1}

// Applied reports whether s moved anything.
func (s Scale) Applied() bool { return s != Identity }

// Factors returns the clamped scale Expand would apply to a diagram with the
// given bounds, or Identity when the change is below [Threshold].
func Factors(bounds geom.Rect, opts Options) Scale {
	opts.setDefaults()
	if !opts.Viewport.Valid() || bounds.Empty() {
		return Identity
	}

	sx := opts.Viewport.W * opts.TargetUtilization / bounds.W
	sy := opts.Viewport.H * opts.TargetUtilization / bounds.H
	if opts.PreserveAspect {
		s := math.Min(sx, sy)
		sx, sy = s, s
	}
	if sx < Threshold && sy < Threshold {
		return Identity
	}
	return Scale{X: clamp(sx, opts.MinExpansion, opts.MaxExpansion), Y: clamp(sy, opts.MinExpansion, opts.MaxExpansion)}
}

// Expand re-projects every node around the center of the visible nodes'
// bounds and returns the applied scale. Hidden nodes move with the rest
// but do not contribute to the bounds.
func Expand(nodes map[model.NodeID]*model.PositionedNode, opts Options) Scale {
	var (
		bounds geom.Rect
		found  bool
	)
	for _, n := range nodes {
		if !n.Visible {
			continue
		}
		if !found {
			bounds, found = n.BBox, true
			continue
		}
		bounds = bounds.Union(n.BBox)
	}
	if !found {
		return Identity
	}

	s := Factors(bounds, opts)
	if !s.Applied() {
		return s
	}

	c := bounds.Center()
	for _, n := range nodes {
		at := n.BBox.Center()
		n.Translate((at.X-c.X)*(s.X-1), (at.Y-c.Y)*(s.Y-1))
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
