package measure

import (
	"github.com/mattn/go-runewidth"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Heuristic estimates text extents without font data:
//
//	width  = displayWidth(text) × fontSize × 0.55
//	height = lineHeight(kind, level)
//
// Display width counts East Asian wide runes as two cells. The zero value is
// ready to use.
type Heuristic struct{}

var _ Measurer = Heuristic{}

func (Heuristic) width(kind model.Kind, level model.Level) func(string) float64 {
	size, _ := Typography(kind, level)
	cw := size * charWidthRatio
	return func(s string) float64 { return float64(runewidth.StringWidth(s)) * cw }
}

// Measure implements [Measurer].
func (h Heuristic) Measure(text string, kind model.Kind, level model.Level, maxWidth float64) geom.Size {
	_, lh := Typography(kind, level)
	return single(h, text, kind, level, maxWidth, h.width(kind, level), lh)
}

// MeasureMultiline implements [Measurer].
func (h Heuristic) MeasureMultiline(text string, kind model.Kind, level model.Level, maxWidth float64) Text {
	_, lh := Typography(kind, level)
	return layout(text, maxWidth, lh, h.width(kind, level))
}
