// Package geom provides the plain geometry primitives shared by every layout
// stage: sizes, points and axis-aligned rectangles.
//
// All coordinates are in abstract layout units (pixels at 1.0 scale) with the
// origin at the top-left corner and Y growing downward. Widths and heights are
// never negative: constructors and operations clamp them to zero.
package geom

import "math"

// Size is a width/height pair.
type Size struct {
	W float64 `json:"width" toml:"width"`
	H float64 `json:"height" toml:"height"`
}

// Valid reports whether both dimensions are finite and strictly positive.
func (s Size) Valid() bool {
	return finite(s.W) && finite(s.H) && s.W > 0 && s.H > 0
}

// Clamp returns s limited to the [lo, hi] range on each axis. A zero hi
// dimension means "unbounded" on that axis.
func (s Size) Clamp(lo, hi Size) Size {
	w, h := math.Max(s.W, lo.W), math.Max(s.H, lo.H)
	if hi.W > 0 {
		w = math.Min(w, hi.W)
	}
	if hi.H > 0 {
		h = math.Min(h, hi.H)
	}
	return Size{W: nonNeg(w), H: nonNeg(h)}
}

// Add returns s grown by dw and dh.
func (s Size) Add(dw, dh float64) Size {
	return Size{W: nonNeg(s.W + dw), H: nonNeg(s.H + dh)}
}

// Point is an (X, Y) coordinate.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns p offset by other.
func (p Point) Add(other Point) Point { return Point{X: p.X + other.X, Y: p.Y + other.Y} }

// Sub returns p with other subtracted.
func (p Point) Sub(other Point) Point { return Point{X: p.X - other.X, Y: p.Y - other.Y} }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	W float64 `json:"width" toml:"width"`
	H float64 `json:"height" toml:"height"`
}

// RectAt builds a rectangle from a top-left point and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: nonNeg(s.W), H: nonNeg(s.H)}
}

// Left returns the minimum X coordinate.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum X coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the minimum Y coordinate.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum Y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center returns the center point.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns W×H.
func (r Rect) Area() float64 { return r.W * r.H }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Expand returns r grown by m on every side. A negative m shrinks.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: nonNeg(r.W + 2*m), H: nonNeg(r.H + 2*m)}
}

// Shrink returns r reduced by m on every side, never below zero size.
// A rectangle that would collapse keeps its center.
func (r Rect) Shrink(m float64) Rect {
	w, h := r.W-2*m, r.H-2*m
	x, y := r.X+m, r.Y+m
	if w < 0 {
		x, w = r.CenterX(), 0
	}
	if h < 0 {
		y, h = r.CenterY(), 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether o lies entirely inside r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Bounds returns the union of all rectangles, or the zero Rect for none.
func Bounds(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func nonNeg(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
