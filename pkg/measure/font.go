package measure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/sruja-ai/sruja-sub008/pkg/fonts"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
)

// Font measures glyph advances of the embedded Go font at the size given by
// [Typography]. Faces are created lazily per size.
//
// font.Face values are not safe for concurrent use, so every measurement
// holds the measurer's lock.
type Font struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

var _ Measurer = (*Font)(nil)

// NewFont loads the embedded fonts.
func NewFont() (*Font, error) {
	regular, err := fonts.Load(fonts.WeightRegular)
	if err != nil {
		return nil, err
	}
	bold, err := fonts.Load(fonts.WeightBold)
	if err != nil {
		return nil, err
	}
	return &Font{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// NewMeasurer returns a Font measurer, or a Heuristic if the font cannot be
// loaded.
func NewMeasurer() Measurer {
	f, err := NewFont()
	if err != nil {
		return Heuristic{}
	}
	return f
}

func (f *Font) face(kind model.Kind, level model.Level) (font.Face, error) {
	size, _ := Typography(kind, level)
	key := faceKey{size: size, bold: kind == model.KindBoundary}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	src := f.regular
	if key.bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[key] = face
	return face, nil
}

// width returns a line measuring function. The caller must hold f.mu.
func (f *Font) width(kind model.Kind, level model.Level) func(string) float64 {
	face, err := f.face(kind, level)
	if err != nil {
		return Heuristic{}.width(kind, level)
	}
	return func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
}

// Measure implements [Measurer].
func (f *Font) Measure(text string, kind model.Kind, level model.Level, maxWidth float64) geom.Size {
	if text = normalize(text); text == "" {
		return geom.Size{}
	}
	_, lh := Typography(kind, level)

	f.mu.Lock()
	w := f.width(kind, level)(text)
	f.mu.Unlock()

	if maxWidth > 0 && w > maxWidth {
		return f.MeasureMultiline(text, kind, level, maxWidth).Size()
	}
	return geom.Size{W: w, H: lh}
}

// MeasureMultiline implements [Measurer].
func (f *Font) MeasureMultiline(text string, kind model.Kind, level model.Level, maxWidth float64) Text {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, lh := Typography(kind, level)
	return layout(text, maxWidth, lh, f.width(kind, level))
}
