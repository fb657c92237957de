package layout

import (
	"context"
	"math"
	"time"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/c4"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/grid"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/sugiyama"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/observability"
)

// Strategy names the placement algorithm used for a group of siblings.
//
// The engine picks one per group. People and external elements are
// "peripheral"; the rest form the core:
//
//   - one core element and at least one peripheral: [StrategyContext] when
//     the core is a leaf, [StrategyContainers] when it is an expanded
//     boundary (its surroundings then follow relationship direction)
//   - otherwise by the highest core level: L3 uses [StrategyComponents],
//     L2 [StrategyContainers], L1 [StrategySugiyama], and L0 uses
//     [StrategyFlow] unless relationships connect the group
type Strategy string

// Strategies.
const (
	StrategyFlow       Strategy = "flow"
	StrategySugiyama   Strategy = "sugiyama"
	StrategyContext    Strategy = "c4-context"
	StrategyContainers Strategy = "c4-containers"
	StrategyComponents Strategy = "c4-components"
)

// arrangement is a group of siblings placed relative to the group origin.
type arrangement struct {
	strategy  Strategy
	size      geom.Size
	pos       map[model.NodeID]geom.Point
	layer     map[model.NodeID]int
	back      []model.Relationship
	crossings int
}

// arrange places the visible children of parent (or the roots).
func (e *Engine) arrange(ctx context.Context, s *scene, parent int) arrangement {
	members := s.members(parent)
	if len(members) == 0 {
		return arrangement{pos: map[model.NodeID]geom.Point{}}
	}

	var (
		items, core, peripheral []model.Item
		coreIdx                 []int
		lanes                   = make(map[model.NodeID]int)
		level                   = model.L0
		peripheralLevel         = model.L0
	)
	for _, i := range members {
		n := &s.tree.Nodes[i]
		it := model.Item{ID: n.ID, Size: s.size[i]}
		items = append(items, it)
		if n.Element.LaneHint > 0 {
			lanes[n.ID] = n.Element.LaneHint
		}
		if n.Element.External || n.Element.Kind == model.KindPerson {
			peripheral = append(peripheral, it)
			peripheralLevel = max(peripheralLevel, n.Level)
			continue
		}
		core = append(core, it)
		coreIdx = append(coreIdx, i)
		level = max(level, n.Level)
	}
	if len(core) == 0 {
		level = peripheralLevel
	}
	rels := s.rels[parent]

	c4opts := c4.Options{
		NodeSpacing: e.opts.spacing(level),
		RankSpacing: e.opts.RankSpacing,
		ExternalGap: e.opts.ExternalGap,
		MaxPerSide:  e.opts.MaxPerSide,
		Direction:   e.opts.Direction,
		Lanes:       lanes,
	}

	strategy := choose(core, peripheral, level, rels, len(coreIdx) == 1 && s.expanded[coreIdx[0]])
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, string(strategy), len(items))

	a := arrangement{strategy: strategy}
	switch strategy {
	case StrategyContext:
		r := c4.SystemContext(core[0], peripheral, c4opts)
		a.pos = r.Positions
	case StrategyContainers:
		c4opts.MaxColumns = e.columns(core, c4opts.NodeSpacing)
		r := c4.Containers(core, peripheral, rels, c4opts)
		a.pos = r.Positions
	case StrategyComponents:
		r := c4.Components(items, rels, c4opts)
		a.pos, a.layer, a.back, a.crossings = r.Positions, r.Layer, r.BackEdges, r.Crossings
	case StrategyFlow:
		r := grid.Flow(items, grid.FlowOptions{SpacingY: c4opts.NodeSpacing, Align: e.opts.Alignment})
		a.pos = r.Positions
	default:
		r := sugiyama.Layout(items, rels, sugiyama.Options{
			NodeSpacing: c4opts.NodeSpacing,
			RankSpacing: e.opts.RankSpacing,
			Iterations:  e.opts.MaxIterations,
			Direction:   e.opts.Direction,
			MinRanks:    lanes,
		})
		a.pos, a.layer, a.back, a.crossings = r.Positions, r.Layer, r.BackEdges, r.Crossings
	}
	e.settle(&a, items)

	observability.Layout().OnLayoutComplete(ctx, string(strategy), len(items), time.Since(start), nil)
	e.logger.Debug("arranged group",
		"parent", s.name(parent),
		"strategy", strategy,
		"members", len(items),
		"width", a.size.W,
		"height", a.size.H,
	)
	return a
}

func choose(core, peripheral []model.Item, level model.Level, rels []model.Relationship, coreExpanded bool) Strategy {
	switch {
	case len(core) == 1 && len(peripheral) > 0 && coreExpanded:
		return StrategyContainers
	case len(core) == 1 && len(peripheral) > 0:
		return StrategyContext
	case level == model.L3:
		return StrategyComponents
	case level == model.L2:
		return StrategyContainers
	case level == model.L0 && len(rels) == 0:
		return StrategyFlow
	default:
		return StrategySugiyama
	}
}

// columns picks the grid column count. An explicit MaxColumns wins;
// otherwise the count whose grid aspect ratio is inside the configured
// range and closest to its geometric middle.
func (e *Engine) columns(items []model.Item, spacing float64) int {
	if e.opts.MaxColumns > 0 {
		return e.opts.MaxColumns
	}
	if len(items) <= 1 {
		return 1
	}

	lo, hi := e.opts.AspectRatio.Min, e.opts.AspectRatio.Max
	target := math.Sqrt(lo * hi)
	best, bestOut, bestDist := 1, math.Inf(1), math.Inf(1)
	for c := 1; c <= len(items); c++ {
		g := grid.Grid(items, grid.Options{MaxColumns: c, NodeSpacing: spacing, RowSpacing: e.opts.RankSpacing})
		if g.Width <= 0 || g.Height <= 0 {
			continue
		}
		r := g.Width / g.Height
		out := 0.0
		switch {
		case r < lo:
			out = lo - r
		case r > hi:
			out = r - hi
		}
		dist := math.Abs(math.Log(r / target))
		if out < bestOut || out == bestOut && dist < bestDist {
			best, bestOut, bestDist = c, out, dist
		}
	}
	return best
}
