package export

import (
	"context"
	"math"

	"github.com/PokeGenX-com/pokegenx/card"
)

// Scale is an export scale factor and the DPI it corresponds to.
type Scale struct {
	Factor float64
	DPI    float64
}

// ComputeScale picks the export scale for a card on background bgURL.
//
// The target is 300 DPI over the 96 DPI logical baseline. When the
// background resolves, the scale is capped so the background is never
// upsampled beyond its native pixels; it never drops below 1. A background
// that fails to resolve leaves the target uncapped.
func ComputeScale(ctx context.Context, images ImageSource, bgURL string) Scale {
	target := TargetDPI / BaseDPI
	maxScale := math.Inf(1)

	if img, err := images.Load(ctx, bgURL); err == nil && img != nil {
		iw, ih := img.Bounds()
		maxScale = math.Min(float64(iw)/card.Width, float64(ih)/card.Height)
	}

	s := math.Max(1, math.Min(target, maxScale))
	return Scale{Factor: s, DPI: BaseDPI * s}
}
