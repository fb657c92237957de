package layout

import (
	"math"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// settle moves a group to the origin, applies snapping and overlap removal,
// and sets the group size to the extent of its members.
func (e *Engine) settle(a *arrangement, items []model.Item) {
	rects := make([]geom.Rect, len(items))
	for k, it := range items {
		rects[k] = geom.RectAt(a.pos[it.ID], it.Size)
	}

	toOrigin(rects)
	if g := e.opts.Beautify.SnapGrid; g > 0 {
		snap(rects, g)
	}
	if o := e.opts.OverlapRemoval; o.Enabled {
		separate(rects, o.Gap, e.opts.Tolerance, o.MaxIterations)
	}
	b := toOrigin(rects)

	a.pos = make(map[model.NodeID]geom.Point, len(items))
	for k, it := range items {
		a.pos[it.ID] = rects[k].Origin()
	}
	a.size = b.Size()
}

// toOrigin translates rects so their bounds start at (0, 0) and returns the
// new bounds.
func toOrigin(rects []geom.Rect) geom.Rect {
	b := geom.Bounds(rects...)
	for k := range rects {
		rects[k] = rects[k].Translate(-b.X, -b.Y)
	}
	return geom.Rect{W: b.W, H: b.H}
}

func snap(rects []geom.Rect, step float64) {
	for k := range rects {
		rects[k].X = math.Round(rects[k].X/step) * step
		rects[k].Y = math.Round(rects[k].Y/step) * step
	}
}

// separate pushes overlapping rectangles apart along the axis of least
// overlap until no pair overlaps by more than tol or maxIter sweeps ran.
// The later rectangle of a pair moves. It reports whether the result is
// overlap-free.
func separate(rects []geom.Rect, gap, tol float64, maxIter int) bool {
	for iter := 0; iter < maxIter; iter++ {
		moved := false
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				a, b := rects[i].Expand(gap/2), rects[j].Expand(gap/2)
				ox := math.Min(a.Right(), b.Right()) - math.Max(a.Left(), b.Left())
				oy := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Top(), b.Top())
				if ox <= tol || oy <= tol {
					continue
				}
				if ox <= oy {
					if rects[j].CenterX() >= rects[i].CenterX() {
						rects[j].X += ox
					} else {
						rects[j].X -= ox
					}
				} else {
					if rects[j].CenterY() >= rects[i].CenterY() {
						rects[j].Y += oy
					} else {
						rects[j].Y -= oy
					}
				}
				moved = true
			}
		}
		if !moved {
			return true
		}
	}
	return false
}
