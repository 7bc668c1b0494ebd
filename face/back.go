package face

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
)

const (
	watermarkSize  = 45.0
	watermarkAlpha = 0.5
)

// drawBack overlays the rotated watermark on the background.
func (r *Renderer) drawBack(dc *gg.Context, w, h float64, in Inputs) {
	With(dc, Opaque(), func() {
		dc.Translate(w/2, h/2)
		dc.Rotate(-math.Pi / 4)
		dc.SetFont(r.fonts.Face(watermarkSize, true))
		dc.SetRGBA(1, 1, 1, watermarkAlpha)
		dc.DrawStringAnchored(card.Watermark(in.Watermark), 0, 0, 0.5, 0.5)
	})
}
