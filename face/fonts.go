package face

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts provides the regular and bold faces used on the card, cached by size.
// It is safe for concurrent use.
type Fonts struct {
	regular *text.FontSource
	bold    *text.FontSource

	mu    sync.Mutex
	faces map[faceKey]text.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewFonts creates Fonts from TTF/OTF data.
func NewFonts(regular, bold []byte) (*Fonts, error) {
	r, err := text.NewFontSource(regular)
	if err != nil {
		return nil, fmt.Errorf("face: regular font: %w", err)
	}
	b, err := text.NewFontSource(bold)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("face: bold font: %w", err)
	}
	return &Fonts{regular: r, bold: b, faces: make(map[faceKey]text.Face)}, nil
}

// DefaultFonts returns Fonts backed by the Go font family.
func DefaultFonts() (*Fonts, error) {
	return NewFonts(goregular.TTF, gobold.TTF)
}

// Face returns the face of the given pixel size.
func (f *Fonts) Face(size float64, bold bool) text.Face {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := faceKey{size: size, bold: bold}
	if fc, ok := f.faces[k]; ok {
		return fc
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	fc := src.Face(size)
	f.faces[k] = fc
	return fc
}

// Close releases the font sources.
func (f *Fonts) Close() error {
	errR := f.regular.Close()
	errB := f.bold.Close()
	if errR != nil {
		return errR
	}
	return errB
}
