package c4

import (
	"math"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// SystemContext places focus at the center of the canvas and distributes
// externals round-robin over the top, right, bottom and left sides. A side
// holding more than MaxPerSide externals wraps into further rows or columns
// away from the focus.
//
// The canvas is symmetric around the focus, so the focus sits at
// (Width/2 - w/2, Height/2 - h/2).
func SystemContext(focus model.Item, externals []model.Item, opts Options) Result {
	res := Result{Positions: make(map[model.NodeID]geom.Point, len(externals)+1)}

	core := geom.Rect{W: focus.Size.W, H: focus.Size.H}
	res.Positions[focus.ID] = core.Origin()
	res.Boundary = core

	var sides [4][]model.Item
	for i, ext := range externals {
		if ext.ID == focus.ID {
			continue
		}
		side := Side(i % 4)
		sides[side] = append(sides[side], ext)
	}
	rects := surround(core, sides, opts, res.Positions)

	// symmetric canvas around the focus center
	cx, cy := core.CenterX(), core.CenterY()
	halfW, halfH := core.W/2, core.H/2
	for _, r := range rects {
		halfW = math.Max(halfW, math.Max(cx-r.Left(), r.Right()-cx))
		halfH = math.Max(halfH, math.Max(cy-r.Top(), r.Bottom()-cy))
	}
	res.normalize(geom.Rect{X: cx - halfW, Y: cy - halfH, W: 2 * halfW, H: 2 * halfH})
	return res
}
