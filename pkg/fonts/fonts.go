// Package fonts provides the parsed fonts used for text measurement.
//
// The Go font family ships inside golang.org/x/image, so measurement needs
// no system fonts and gives identical results on every host. Parsing happens
// once per process on first access.
package fonts

import (
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects a face of the embedded family.
type Weight int

const (
	// WeightRegular is used for body labels.
	WeightRegular Weight = iota
	// WeightBold is used for boundary and system titles.
	WeightBold
)

// FontFamily is the CSS font-family a renderer should use to match the
// measured extents.
const FontFamily = "Go"

// FallbackFontFamily lists fonts with similar metrics for renderers without
// the embedded family.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

type parsed struct {
	once sync.Once
	font *opentype.Font
	err  error
}

var (
	regular parsed
	bold    parsed
)

// Load returns the parsed font for the weight. The result is cached after
// the first call; a parse failure is cached too.
func Load(w Weight) (*opentype.Font, error) {
	p, data := &regular, goregular.TTF
	if w == WeightBold {
		p, data = &bold, gobold.TTF
	}
	p.once.Do(func() {
		p.font, p.err = opentype.Parse(data)
	})
	return p.font, p.err
}
