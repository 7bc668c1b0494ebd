// Package face composes one side of a card onto a gg drawing context.
//
// All layout is expressed in the logical card space (card.Width ×
// card.Height). Callers that want a larger raster apply a uniform scale to the
// context before drawing; nothing in here depends on the device resolution.
//
// Layers are composited strictly in this order: background, content bands and
// text, artwork, footer, sparkle overlay. Bands and text are clipped to the
// rounded outline; images are laid out inside it.
package face

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/sparkle"
)

// ErrNoConfig is returned when a face is drawn without a card configuration.
var ErrNoConfig = errors.New("face: no card configuration")

// fallbackFill replaces a background that cannot be loaded.
const fallbackFill = "#333333"

// ImageSource resolves an image by source id. An empty id resolves to
// (nil, nil). *asset.Loader satisfies it.
type ImageSource interface {
	Load(ctx context.Context, src string) (*gg.ImageBuf, error)
}

// Inputs are the live text and toggle values read at draw time.
type Inputs struct {
	CustomName string // overrides the catalog name when non-blank
	Watermark  string // back-face label override, cut to 8 runes
	Sparkles   bool   // draw the particle overlay
}

// Renderer draws card faces.
type Renderer struct {
	images  ImageSource
	fonts   *Fonts
	overlay *sparkle.Overlay
	log     *slog.Logger
}

// NewRenderer creates a Renderer. overlay may be nil, which disables sparkles
// regardless of Inputs.Sparkles. A nil log discards output.
func NewRenderer(images ImageSource, fonts *Fonts, overlay *sparkle.Overlay, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{images: images, fonts: fonts, overlay: overlay, log: log}
}

// Overlay returns the particle overlay, possibly nil.
func (r *Renderer) Overlay() *sparkle.Overlay {
	return r.overlay
}

// Draw renders side of cfg onto dc at logical size w×h, followed by the
// sparkle overlay when enabled.
//
// Asset failures never fail the draw: a missing background becomes a flat
// fill and missing icons or artwork are left out. Only a nil cfg or a done
// ctx are reported.
func (r *Renderer) Draw(ctx context.Context, dc *gg.Context, w, h float64, cfg *card.Config, side card.Side, in Inputs) error {
	if err := r.DrawBody(ctx, dc, w, h, cfg, side, in); err != nil {
		return err
	}
	r.DrawOverlay(dc, in)
	return nil
}

// DrawBody is Draw without the sparkle overlay.
func (r *Renderer) DrawBody(ctx context.Context, dc *gg.Context, w, h float64, cfg *card.Config, side card.Side, in Inputs) error {
	if cfg == nil {
		return ErrNoConfig
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.drawBackground(ctx, dc, w, h, cfg.BackgroundURL)

	switch side {
	case card.Back:
		r.drawBack(dc, w, h, in)
	default:
		r.drawFront(ctx, dc, w, h, cfg, in)
	}
	return ctx.Err()
}

// DrawOverlay ticks and draws the sparkle overlay when enabled.
func (r *Renderer) DrawOverlay(dc *gg.Context, in Inputs) {
	if !in.Sparkles || r.overlay == nil {
		return
	}
	r.overlay.Render(dc)
}

// drawBackground clears dc and fills it with the background image stretched
// to the logical bounds, or a flat dark fill when the image is unavailable.
func (r *Renderer) drawBackground(ctx context.Context, dc *gg.Context, w, h float64, src string) {
	dc.Clear()

	img, err := r.images.Load(ctx, src)
	if err != nil {
		r.log.Debug("background unavailable, using fallback fill", "src", src, "error", err)
	}
	if img == nil {
		With(dc, Opaque(), func() {
			dc.SetHexColor(fallbackFill)
			dc.DrawRectangle(0, 0, w, h)
			_ = dc.Fill()
		})
		return
	}
	dc.DrawImageEx(img, gg.DrawImageOptions{
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// loadOptional resolves an optional sub-asset, logging and dropping failures.
func (r *Renderer) loadOptional(ctx context.Context, kind, src string) *gg.ImageBuf {
	img, err := r.images.Load(ctx, src)
	if err != nil {
		r.log.Debug("asset unavailable, skipping", "kind", kind, "src", src, "error", err)
		return nil
	}
	return img
}
