package c4

import (
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout/sugiyama"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Components orders items into dependency lanes: a controller → service →
// repository chain flows top to bottom. Only relationships between two of
// the items count; components without any share the first lane, packed in a
// row. Options.Lanes raises individual components to a later lane.
func Components(items []model.Item, rels []model.Relationship, opts Options) Result {
	s := sugiyama.Layout(items, rels, sugiyama.Options{
		NodeSpacing: opts.NodeSpacing,
		RankSpacing: opts.RankSpacing,
		Direction:   opts.Direction,
		MinRanks:    opts.Lanes,
	})
	return Result{
		Width:     s.Width,
		Height:    s.Height,
		Positions: s.Positions,
		Boundary:  geom.Rect{W: s.Width, H: s.Height},
		Layer:     s.Layer,
		BackEdges: s.BackEdges,
		Crossings: s.Crossings,
	}
}
