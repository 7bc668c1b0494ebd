package face

import (
	"context"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
)

// Front face layout, in logical pixels.
const (
	cornerRadius = 12.0
	padding      = 12.0

	headerHeight = 32.0
	headerMid    = 16.0
	nameSize     = 14.0

	categoryHeight = 24.0
	categoryMid    = 44.0
	bodySize       = 12.0

	iconTop  = 60.0
	iconSize = 20.0
	iconStep = 24.0

	spriteTop        = 90.0
	spriteWidthRatio = 0.8

	footerGap     = 16.0 // from sprite bottom to the size line
	footerPad     = 12.0 // from band top to the size line
	footerLineOff = 16.0 // from card bottom to the stats line

	bandAlpha = 0.3
)

// Layout is the vertical placement of the front face footer, derived from
// the rendered sprite height.
type Layout struct {
	SpriteHeight float64
	SizeLineY    float64 // size/weight line, vertical middle
	BandTop      float64 // top edge of the footer band
	StatsLineY   float64 // stats and identifier line, vertical middle
}

// FrontLayout computes the footer placement for a sprite rendered spriteH
// tall on a card h tall. The band always reaches the card bottom.
func FrontLayout(h, spriteH float64) Layout {
	sizeY := spriteTop + spriteH + footerGap
	return Layout{
		SpriteHeight: spriteH,
		SizeLineY:    sizeY,
		BandTop:      sizeY - footerPad,
		StatsLineY:   h - footerLineOff,
	}
}

// drawFront clips paths and text to the rounded outline. DrawImageEx ignores
// the clip, so the icon row and the sprite are placed to stay clear of the
// corner arcs: icons sit below the top arcs and the sprite spans
// x in [0.1w, 0.9w], inside the side edges at any height.
func (r *Renderer) drawFront(ctx context.Context, dc *gg.Context, w, h float64, cfg *card.Config, in Inputs) {
	clipped := State{Opacity: 1, Blend: gg.BlendNormal, Clip: roundedRect(w, h, cornerRadius)}
	With(dc, clipped, func() {
		r.drawHeader(dc, w, cfg, in)
		r.drawTypes(ctx, dc, cfg)
		spriteH := r.drawSprite(ctx, dc, w, cfg)
		r.drawFooter(dc, w, h, cfg, FrontLayout(h, spriteH))
	})
}

func band(dc *gg.Context, y, w, h float64) {
	dc.SetRGBA(0, 0, 0, bandAlpha)
	dc.DrawRectangle(0, y, w, h)
	_ = dc.Fill()
}

func (r *Renderer) drawHeader(dc *gg.Context, w float64, cfg *card.Config, in Inputs) {
	band(dc, 0, w, headerHeight)

	dc.SetFont(r.fonts.Face(nameSize, true))
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(card.Title(cfg, in.CustomName), padding, headerMid, 0, 0.5)

	if hp := card.HPLabel(cfg); hp != "" {
		tw, _ := dc.MeasureString(hp)
		dc.DrawStringAnchored(hp, w-tw-padding, headerMid, 0, 0.5)
	}

	if cfg.Category == "" {
		return
	}
	band(dc, headerHeight, w, categoryHeight)
	dc.SetFont(r.fonts.Face(bodySize, false))
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(cfg.Category, padding, categoryMid, 0, 0.5)
}

// drawTypes draws the type icons left to right. A failed icon leaves its
// slot empty.
func (r *Renderer) drawTypes(ctx context.Context, dc *gg.Context, cfg *card.Config) {
	x := padding
	for _, t := range cfg.Types {
		if img := r.loadOptional(ctx, "type icon", t.IconURL); img != nil {
			dc.DrawImageEx(img, gg.DrawImageOptions{
				X:             x,
				Y:             iconTop,
				DstWidth:      iconSize,
				DstHeight:     iconSize,
				Interpolation: gg.InterpBilinear,
				Opacity:       1,
			})
		}
		x += iconStep
	}
}

// drawSprite draws the artwork at 80% of the card width, centered, and
// returns its rendered height (0 when there is no artwork).
func (r *Renderer) drawSprite(ctx context.Context, dc *gg.Context, w float64, cfg *card.Config) float64 {
	img := r.loadOptional(ctx, "sprite", cfg.SpriteURL)
	if img == nil {
		return 0
	}
	iw, ih := img.Bounds()
	if iw <= 0 || ih <= 0 {
		return 0
	}
	sw := w * spriteWidthRatio
	sh := float64(ih) * sw / float64(iw)
	dc.DrawImageEx(img, gg.DrawImageOptions{
		X:             (w - sw) / 2,
		Y:             spriteTop,
		DstWidth:      sw,
		DstHeight:     sh,
		Interpolation: gg.InterpBicubic,
		Opacity:       1,
	})
	return sh
}

func (r *Renderer) drawFooter(dc *gg.Context, w, h float64, cfg *card.Config, l Layout) {
	band(dc, l.BandTop, w, h-l.BandTop)

	dc.SetFont(r.fonts.Face(bodySize, false))
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(card.SizeLine(cfg), w/2, l.SizeLineY, 0.5, 0.5)

	if stats := card.StatsLine(cfg); stats != "" {
		dc.DrawStringAnchored(stats, padding, l.StatsLineY, 0, 0.5)
	}
	if id := card.DexLabel(cfg); id != "" {
		tw, _ := dc.MeasureString(id)
		dc.DrawStringAnchored(id, w-tw-padding, l.StatsLineY, 0, 0.5)
	}
}
