package face

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/sparkle"
)

var errMissing = errors.New("missing")

// mapImages resolves sources from a fixed map; unknown sources fail.
type mapImages map[string]*gg.ImageBuf

func (m mapImages) Load(_ context.Context, src string) (*gg.ImageBuf, error) {
	if src == "" {
		return nil, nil
	}
	img, ok := m[src]
	if !ok {
		return nil, errMissing
	}
	return img, nil
}

func solid(w, h int, c color.RGBA) *gg.ImageBuf {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return gg.ImageBufFromImage(img)
}

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func newTestRenderer(t *testing.T, images ImageSource, overlay *sparkle.Overlay) *Renderer {
	t.Helper()
	fonts, err := DefaultFonts()
	if err != nil {
		t.Fatalf("DefaultFonts: %v", err)
	}
	t.Cleanup(func() { _ = fonts.Close() })
	return NewRenderer(images, fonts, overlay, nil)
}

func pixel(dc *gg.Context, x, y int) color.RGBA {
	r, g, b, a := dc.Image().At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func near(got color.RGBA, want color.RGBA, tol int) bool {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(got.R, want.R) <= tol && d(got.G, want.G) <= tol && d(got.B, want.B) <= tol
}

func draw(t *testing.T, r *Renderer, cfg *card.Config, side card.Side, in Inputs) *gg.Context {
	t.Helper()
	dc := gg.NewContext(card.Width, card.Height)
	if err := r.Draw(context.Background(), dc, card.Width, card.Height, cfg, side, in); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return dc
}

func TestDrawNilConfig(t *testing.T) {
	r := newTestRenderer(t, mapImages{}, nil)
	dc := gg.NewContext(card.Width, card.Height)

	err := r.Draw(context.Background(), dc, card.Width, card.Height, nil, card.Front, Inputs{})
	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("Draw(nil) error = %v, want ErrNoConfig", err)
	}
}

func TestBackgroundFallbackFill(t *testing.T) {
	r := newTestRenderer(t, mapImages{}, nil)
	cfg := &card.Config{BackgroundURL: "bg/404.jpg"}

	tests := []struct {
		side card.Side
		at   image.Point // a pixel no band or text covers
	}{
		{card.Front, image.Pt(0, 0)},
		{card.Back, image.Pt(5, 300)},
	}
	for _, tt := range tests {
		dc := draw(t, r, cfg, tt.side, Inputs{})
		if got := pixel(dc, tt.at.X, tt.at.Y); !near(got, color.RGBA{0x33, 0x33, 0x33, 255}, 2) {
			t.Errorf("%v: fallback pixel = %v, want #333", tt.side, got)
		}
	}
}

func TestBackgroundImageFillsBounds(t *testing.T) {
	r := newTestRenderer(t, mapImages{"bg.png": solid(26, 36, red)}, nil)
	dc := draw(t, r, &card.Config{BackgroundURL: "bg.png"}, card.Back, Inputs{})

	for _, p := range []image.Point{{1, 1}, {258, 1}, {1, 358}, {258, 358}} {
		if got := pixel(dc, p.X, p.Y); !near(got, red, 2) {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
}

func TestBackWatermarkDrawnAtCenter(t *testing.T) {
	r := newTestRenderer(t, mapImages{"bg.png": solid(4, 4, color.RGBA{0, 0, 0, 255})}, nil)
	dc := draw(t, r, &card.Config{BackgroundURL: "bg.png"}, card.Back, Inputs{})

	lit := 0
	for y := 130; y < 230; y++ {
		for x := 80; x < 180; x++ {
			if c := pixel(dc, x, y); c.R > 40 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("watermark produced no pixels near the card center")
	}
}

func TestFrontHeaderBandAndRoundedClip(t *testing.T) {
	r := newTestRenderer(t, mapImages{"bg.png": solid(4, 4, white)}, nil)
	dc := draw(t, r, &card.Config{BackgroundURL: "bg.png", Name: "x"}, card.Front, Inputs{})

	// Translucent black over white leaves roughly 70% brightness.
	if got := pixel(dc, 130, 3); got.R < 165 || got.R > 190 {
		t.Errorf("header band pixel = %v, want ~178", got)
	}
	// The band is clipped by the rounded corner.
	if got := pixel(dc, 0, 0); !near(got, white, 2) {
		t.Errorf("corner pixel = %v, want untouched background", got)
	}
}

func TestFrontSpriteScaledToCardWidth(t *testing.T) {
	images := mapImages{
		"bg.png":     solid(4, 4, white),
		"sprite.png": solid(10, 5, blue),
	}
	r := newTestRenderer(t, images, nil)
	cfg := &card.Config{BackgroundURL: "bg.png", SpriteURL: "sprite.png"}
	dc := draw(t, r, cfg, card.Front, Inputs{})

	// 10×5 at 80% of 260 = 208×104 at (26, 90).
	if got := pixel(dc, 130, 140); !near(got, blue, 8) {
		t.Errorf("sprite center = %v, want blue", got)
	}
	if got := pixel(dc, 20, 140); near(got, blue, 60) {
		t.Errorf("pixel left of sprite = %v, should not be sprite", got)
	}
	if got := pixel(dc, 130, 200); near(got, blue, 60) {
		t.Errorf("pixel below sprite = %v, should not be sprite", got)
	}
}

func TestFrontTallSpriteClearsCorners(t *testing.T) {
	images := mapImages{
		"bg.png":     solid(4, 4, white),
		"sprite.png": solid(10, 40, blue),
	}
	r := newTestRenderer(t, images, nil)
	cfg := &card.Config{BackgroundURL: "bg.png", SpriteURL: "sprite.png"}
	dc := draw(t, r, cfg, card.Front, Inputs{})

	// 208×832 from (26, 90): runs off the bottom edge between the arcs.
	if got := pixel(dc, 130, 358); !near(got, blue, 8) {
		t.Errorf("sprite at bottom edge = %v, want blue", got)
	}
	for _, p := range []image.Point{{1, 358}, {258, 358}, {20, 300}, {240, 300}} {
		if got := pixel(dc, p.X, p.Y); near(got, blue, 60) {
			t.Errorf("pixel %v = %v, sprite should stay inside the side edges", p, got)
		}
	}
}

func TestFrontSkipsFailedIcons(t *testing.T) {
	images := mapImages{
		"bg.png":    solid(4, 4, white),
		"grass.png": solid(4, 4, green),
	}
	r := newTestRenderer(t, images, nil)
	cfg := &card.Config{
		BackgroundURL: "bg.png",
		Types: []card.TypeBadge{
			{Label: "Fire", IconURL: "fire.png"}, // fails
			{Label: "Grass", IconURL: "grass.png"},
		},
	}
	dc := draw(t, r, cfg, card.Front, Inputs{})

	if got := pixel(dc, 22, 70); near(got, green, 60) {
		t.Errorf("failed icon slot = %v, should be empty", got)
	}
	if got := pixel(dc, 46, 70); !near(got, green, 8) {
		t.Errorf("second icon = %v, want green in the second slot", got)
	}
}

func TestFrontLayout(t *testing.T) {
	tests := []struct {
		name    string
		spriteH float64
		want    Layout
	}{
		{"no sprite", 0, Layout{SpriteHeight: 0, SizeLineY: 106, BandTop: 94, StatsLineY: 344}},
		{"square sprite", 208, Layout{SpriteHeight: 208, SizeLineY: 314, BandTop: 302, StatsLineY: 344}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrontLayout(card.Height, tt.spriteH); got != tt.want {
				t.Errorf("FrontLayout = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFooterBandReachesBottom(t *testing.T) {
	r := newTestRenderer(t, mapImages{"bg.png": solid(4, 4, white)}, nil)
	dc := draw(t, r, &card.Config{BackgroundURL: "bg.png"}, card.Front, Inputs{})

	// No sprite: band spans from y=94 to the bottom edge.
	if got := pixel(dc, 130, 356); got.R < 165 || got.R > 190 {
		t.Errorf("footer band pixel = %v, want ~178", got)
	}
	if got := pixel(dc, 130, 88); !near(got, white, 2) {
		t.Errorf("pixel above footer = %v, want background", got)
	}
}

func TestDrawScaleInvariant(t *testing.T) {
	images := mapImages{
		"bg.png":     solid(4, 4, white),
		"sprite.png": solid(10, 10, blue),
	}
	r := newTestRenderer(t, images, nil)
	cfg := &card.Config{BackgroundURL: "bg.png", SpriteURL: "sprite.png"}

	dc := gg.NewContext(card.Width*2, card.Height*2)
	dc.Scale(2, 2)
	if err := r.Draw(context.Background(), dc, card.Width, card.Height, cfg, card.Front, Inputs{}); err != nil {
		t.Fatal(err)
	}

	// Logical (130, 190) is inside the 208×208 sprite at (26, 90).
	if got := pixel(dc, 260, 380); !near(got, blue, 8) {
		t.Errorf("scaled sprite pixel = %v, want blue", got)
	}
}

func TestOverlayOnlyWhenEnabled(t *testing.T) {
	overlay := sparkle.New(5, card.Width, card.Height, nil)
	r := newTestRenderer(t, mapImages{}, overlay)
	cfg := &card.Config{}

	before := overlay.Particles()
	draw(t, r, cfg, card.Back, Inputs{Sparkles: false})
	if got := overlay.Particles(); got[0].Age != before[0].Age {
		t.Error("disabled sparkles should not advance the overlay")
	}

	draw(t, r, cfg, card.Back, Inputs{Sparkles: true})
	after := overlay.Particles()
	if after[0].Age == before[0].Age {
		t.Error("enabled sparkles should advance the overlay one tick")
	}
}

func TestWithRestoresTransformAndClip(t *testing.T) {
	dc := gg.NewContext(10, 10)
	before := dc.GetTransform()

	With(dc, State{Opacity: 0.5, Blend: gg.BlendNormal, Clip: roundedRect(10, 10, 2)}, func() {
		dc.Translate(3, 3)
	})

	if dc.GetTransform() != before {
		t.Error("With should restore the transform")
	}
	// Clip is lifted: a fill after With reaches the corner.
	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(0, 0, 10, 10)
	_ = dc.Fill()
	if got := pixel(dc, 0, 0); got.R < 250 {
		t.Errorf("corner after With = %v, clip was not lifted", got)
	}
}
