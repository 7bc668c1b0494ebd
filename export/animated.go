package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/face"
)

// RenderAnimatedLoop renders both faces at one shared export scale and
// encodes them as a two-frame GIF that alternates forever, each frame held
// for the exporter's hold time.
func (e *Exporter) RenderAnimatedLoop(ctx context.Context, cfg *card.Config, in face.Inputs) ([]byte, error) {
	if cfg == nil {
		return nil, face.ErrNoConfig
	}
	sc := ComputeScale(ctx, e.images, cfg.BackgroundURL)

	sides := [2]card.Side{card.Front, card.Back}
	var surfaces [2]*gg.Context
	defer func() {
		for _, dc := range surfaces {
			if dc != nil {
				_ = dc.Close()
			}
		}
	}()
	for i, side := range sides {
		dc, err := e.renderSurface(ctx, cfg, side, in, sc.Factor)
		if err != nil {
			return nil, err
		}
		surfaces[i] = dc
	}

	frames, err := quantize(ctx, surfaces[0].Image(), surfaces[1].Image())
	if err != nil {
		return nil, err
	}

	out, err := EncodeLoop(frames, e.hold.Milliseconds()/10)
	if err != nil {
		return nil, err
	}
	e.log.Info("rendered animated loop",
		"width", surfaces[0].Width(), "height", surfaces[0].Height(), "dpi", sc.DPI, "bytes", len(out))
	return out, nil
}

// RenderAnimatedLoopAsync runs RenderAnimatedLoop in the background and
// delivers the outcome to done. It returns immediately.
func (e *Exporter) RenderAnimatedLoopAsync(ctx context.Context, cfg *card.Config, in face.Inputs, done func([]byte, error)) {
	go func() {
		done(e.RenderAnimatedLoop(ctx, cfg, in))
	}()
}

// quantize converts the frames to the Plan 9 palette with Floyd-Steinberg
// dithering, one worker per frame.
func quantize(ctx context.Context, imgs ...image.Image) ([]*image.Paletted, error) {
	out := make([]*image.Paletted, len(imgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, img := range imgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b := img.Bounds()
			p := image.NewPaletted(b, palette.Plan9)
			xdraw.FloydSteinberg.Draw(p, b, img, b.Min)
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeLoop encodes frames as an infinitely looping GIF with the given
// per-frame delay in hundredths of a second.
func EncodeLoop(frames []*image.Paletted, delay int64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrEncoding
	}
	anim := &gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, int(delay))
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("export: gif: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncoding
	}
	return buf.Bytes(), nil
}
