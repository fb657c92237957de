// Package measure estimates the extent of element labels.
//
// A [Measurer] answers two questions: how large is a single line of text,
// and how does a label wrap inside a maximum width. Two backends exist:
//
//   - [Font] measures glyph advances of the embedded Go font.
//   - [Heuristic] multiplies display width by a per-size character width.
//     It needs no font data and never fails.
//
// [NewMeasurer] returns a Font and falls back to the heuristic when the font
// cannot be loaded. [Cached] memoizes either backend.
//
// # Wrapping
//
// Wrapping is greedy: words are appended to the current line while they
// fit. A word is never split, except after a hyphen it already contains. A
// word wider than the limit on its own keeps its own line and may exceed the
// limit.
package measure

import (
	"math"
	"strings"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Text is the result of a multi-line measurement.
type Text struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Lines  []string `json:"lines,omitempty"`
}

// Size returns the extent as a geom.Size.
func (t Text) Size() geom.Size { return geom.Size{W: t.Width, H: t.Height} }

// Measurer measures label text for an element kind and level.
//
// Measure returns the extent of text on one line. When maxWidth is positive
// and the line does not fit, the extent of the wrapped text is returned.
// MeasureMultiline always wraps at maxWidth; a non-positive maxWidth
// disables wrapping.
type Measurer interface {
	Measure(text string, kind model.Kind, level model.Level, maxWidth float64) geom.Size
	MeasureMultiline(text string, kind model.Kind, level model.Level, maxWidth float64) Text
}

const (
	lineHeightRatio = 1.4
	charWidthRatio  = 0.55
)

// Typography returns the font size and line height used for an element.
// Boundaries use bold titles two points larger than their level's body size.
func Typography(kind model.Kind, level model.Level) (fontSize, lineHeight float64) {
	switch level {
	case model.L0:
		fontSize = 18
	case model.L1:
		fontSize = 16
	case model.L2:
		fontSize = 14
	default:
		fontSize = 12
	}
	if kind == model.KindBoundary {
		fontSize += 2
	}
	return fontSize, math.Round(fontSize * lineHeightRatio)
}

// wrap greedily breaks text into lines no wider than maxWidth using width
// to measure candidate lines.
func wrap(text string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		for i, seg := range segments(w) {
			sep := ""
			if cur.Len() > 0 && i == 0 {
				sep = " "
			}
			candidate := cur.String() + sep + seg
			if cur.Len() == 0 || width(candidate) <= maxWidth {
				cur.Reset()
				cur.WriteString(candidate)
				continue
			}
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(seg)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// segments splits a word after each interior hyphen: "read-only-db" yields
// "read-", "only-", "db".
func segments(word string) []string {
	var out []string
	start := 0
	for i := 0; i < len(word)-1; i++ {
		if word[i] == '-' && i > start {
			out = append(out, word[start:i+1])
			start = i + 1
		}
	}
	return append(out, word[start:])
}

// layout measures wrapped text with the given line width function.
func layout(text string, maxWidth, lineHeight float64, width func(string) float64) Text {
	lines := wrap(text, maxWidth, width)
	t := Text{Lines: lines, Height: float64(len(lines)) * lineHeight}
	for _, l := range lines {
		t.Width = max(t.Width, width(l))
	}
	return t
}

// single measures text on one line, wrapping only when it overflows maxWidth.
func single(m Measurer, text string, kind model.Kind, level model.Level, maxWidth float64, width func(string) float64, lineHeight float64) geom.Size {
	if text = normalize(text); text == "" {
		return geom.Size{}
	}
	w := width(text)
	if maxWidth > 0 && w > maxWidth {
		return m.MeasureMultiline(text, kind, level, maxWidth).Size()
	}
	return geom.Size{W: w, H: lineHeight}
}

// normalize collapses runs of whitespace to single spaces.
func normalize(s string) string { return strings.Join(strings.Fields(s), " ") }
