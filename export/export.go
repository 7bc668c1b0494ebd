// Package export re-renders card faces off-screen at print resolution and
// serializes them as PNG stills or a looping two-frame GIF.
//
// Export surfaces are independent of the on-screen surface. Each one gets a
// uniform scale transform and the face is drawn at logical size, so the
// composition is identical at every resolution.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/face"
)

// ErrEncoding is returned when serialization produced no output.
var ErrEncoding = errors.New("export: encoding produced no output")

// Resolution constants.
const (
	BaseDPI   = 96.0
	TargetDPI = 300.0

	// DefaultHold is how long each animated frame is shown.
	DefaultHold = 1500 * time.Millisecond
)

// ImageSource resolves an image by source id. *asset.Loader satisfies it.
type ImageSource = face.ImageSource

// Still is an encoded PNG and its pixel size.
type Still struct {
	PNG    []byte
	Width  int
	Height int
}

// Exporter renders export images.
type Exporter struct {
	renderer *face.Renderer
	images   ImageSource
	hold     time.Duration
	log      *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithHold sets the per-frame hold of animated exports.
func WithHold(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.hold = d
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Exporter. images is consulted for the background resolution
// when choosing the export scale and should be the renderer's own source.
func New(r *face.Renderer, images ImageSource, opts ...Option) *Exporter {
	e := &Exporter{
		renderer: r,
		images:   images,
		hold:     DefaultHold,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// surfaceSize returns the pixel size of a logical card at scale s.
func surfaceSize(s float64) (w, h int) {
	return int(math.Round(card.Width * s)), int(math.Round(card.Height * s))
}

// renderSurface draws side of cfg onto a fresh w×h surface scaled by s.
func (e *Exporter) renderSurface(ctx context.Context, cfg *card.Config, side card.Side, in face.Inputs, s float64) (*gg.Context, error) {
	w, h := surfaceSize(s)
	dc := gg.NewContext(w, h)
	dc.Scale(s, s)
	if err := e.renderer.Draw(ctx, dc, card.Width, card.Height, cfg, side, in); err != nil {
		_ = dc.Close()
		return nil, err
	}
	return dc, nil
}

// RenderHighRes renders one face at export scale and encodes it as PNG.
func (e *Exporter) RenderHighRes(ctx context.Context, cfg *card.Config, side card.Side, in face.Inputs) (Still, error) {
	if cfg == nil {
		return Still{}, face.ErrNoConfig
	}
	sc := ComputeScale(ctx, e.images, cfg.BackgroundURL)
	dc, err := e.renderSurface(ctx, cfg, side, in, sc.Factor)
	if err != nil {
		return Still{}, err
	}
	defer func() { _ = dc.Close() }()

	out, err := EncodePNG(dc)
	if err != nil {
		return Still{}, err
	}
	e.log.Info("rendered high-resolution still",
		"side", side, "width", dc.Width(), "height", dc.Height(), "dpi", sc.DPI, "bytes", len(out))
	return Still{PNG: out, Width: dc.Width(), Height: dc.Height()}, nil
}

// EncodePNG serializes dc as PNG.
func EncodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("export: png: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncoding
	}
	return buf.Bytes(), nil
}

// FileName is the download name of a high-resolution still.
func FileName(cfg *card.Config, w, h int) string {
	return fmt.Sprintf("%s-%dx%d.png", card.FileBase(cfg), w, h)
}

// Download names of the screen-size still and the animated loop.
const (
	StillFileName    = "pokemon-card.png"
	AnimatedFileName = "pokemon-card.gif"
)
