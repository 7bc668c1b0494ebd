package pokegenx

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/face"
)

const bgPattern = "bg://%d"

var errMissing = errors.New("missing")

type mapImages map[string]*gg.ImageBuf

func (m mapImages) Load(_ context.Context, src string) (*gg.ImageBuf, error) {
	if src == "" {
		return nil, nil
	}
	if img, ok := m[src]; ok {
		return img, nil
	}
	return nil, errMissing
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

type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memSaver) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = data
	return nil
}

func (m *memSaver) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for n := range m.files {
		out = append(out, n)
	}
	return out
}

type notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notices) Notify(msg string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, msg)
	n.mu.Unlock()
}

func (n *notices) list() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func testCatalog() card.Catalog {
	return card.Catalog{
		Records: []card.Record{
			{
				DexID:    25,
				Name:     card.Names{FR: "Pikachu", EN: "Pikachu"},
				Category: "Mouse",
				Stats:    card.Stats{HP: 35, Attack: 55, Speed: 90},
				Height:   "0.4 m",
				Weight:   "6.0 kg",
			},
			{
				DexID: 133,
				Name:  card.Names{FR: "Évoli"},
				Stats: card.Stats{HP: 55},
			},
		},
		Backgrounds: []string{"1.jpg", "2.jpg", "3.jpg"},
	}
}

type fixture struct {
	s       *Session
	saver   *memSaver
	notices *notices
}

func newFixture(t *testing.T, images face.ImageSource, opts ...Option) fixture {
	t.Helper()
	f := fixture{saver: &memSaver{}, notices: &notices{}}
	base := []Option{
		WithCatalog(testCatalog()),
		WithBackgroundPattern(bgPattern),
		WithSaver(f.saver),
		WithNotifier(f.notices),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	s, err := New(images, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	f.s = s
	return f
}

func pixel(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func blueImages() mapImages {
	blue := solid(card.Width, card.Height, color.RGBA{0, 0, 255, 255})
	return mapImages{"bg://1": blue, "bg://2": blue, "bg://3": blue, "placeholder": blue}
}

func TestGenerateDrawsFront(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()

	require.NoError(t, f.s.Generate(ctx, Selection{Creature: 0, Background: 0}))

	cfg := f.s.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, 35, cfg.HP)
	assert.Equal(t, "Pikachu", cfg.Name)
	assert.Equal(t, "bg://1", cfg.BackgroundURL)
	assert.Equal(t, card.Front, f.s.Side())

	// header band darkens the top, the gap above the footer does not
	top := pixel(f.s.Image(), 130, 4)
	assert.InDelta(t, 178, int(top.B), 6)
	mid := pixel(f.s.Image(), 200, 84)
	assert.Equal(t, uint8(255), mid.B)
}

func TestGenerateResetsSideToFront(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()
	require.NoError(t, f.s.Generate(ctx, Selection{}))
	f.s.SetSide(card.Back)

	require.NoError(t, f.s.Generate(ctx, Selection{Creature: 1, Background: 2}))
	assert.Equal(t, card.Front, f.s.Side())
	assert.Equal(t, 133, f.s.Config().DexID)
}

func TestGenerateInvalidSelection(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()

	for _, idx := range []int{-1, 2, 99} {
		err := f.s.Generate(ctx, Selection{Creature: idx})
		assert.ErrorIs(t, err, ErrInvalidSelection, "creature %d", idx)
	}
	assert.Nil(t, f.s.Config())
	assert.Equal(t, uint8(0), pixel(f.s.Image(), 130, 180).A, "nothing drawn")

	assert.NoError(t, f.s.Perform(ctx, ActionGenerate, Selection{Creature: 99}))
}

func TestShowPlaceholderLeavesSessionUngenerated(t *testing.T) {
	f := newFixture(t, blueImages())
	require.NoError(t, f.s.ShowPlaceholder(context.Background(), "placeholder"))

	assert.Nil(t, f.s.Config())
	assert.Equal(t, uint8(255), pixel(f.s.Image(), 5, 5).B)
	assert.False(t, f.s.Flip(context.Background()), "placeholder cannot flip")
}

func TestPixelRatioScalesSurface(t *testing.T) {
	f := newFixture(t, blueImages(), WithPixelRatio(2))
	require.NoError(t, f.s.Generate(context.Background(), Selection{}))

	b := f.s.Image().Bounds()
	assert.Equal(t, 520, b.Dx())
	assert.Equal(t, 720, b.Dy())
	assert.InDelta(t, 178, int(pixel(f.s.Image(), 260, 8).B), 6)
}

func TestFlipTogglesOnceAndRejectsReentry(t *testing.T) {
	f := newFixture(t, blueImages(), WithFlipDuration(time.Second))
	ctx := context.Background()

	assert.False(t, f.s.Flip(ctx), "no config")
	require.NoError(t, f.s.Generate(ctx, Selection{}))

	start := time.Now()
	require.True(t, f.s.Flip(ctx))
	assert.True(t, f.s.Flipping())
	assert.False(t, f.s.Flip(ctx), "re-entrant flip")

	f.s.Pump(start.Add(100 * time.Millisecond))
	assert.Equal(t, card.Front, f.s.Side())

	f.s.Pump(start.Add(2 * time.Second))
	assert.Equal(t, card.Back, f.s.Side())
	assert.False(t, f.s.Flipping())
	assert.Equal(t, 0, f.s.Pump(start.Add(3*time.Second)))

	// the back face has no header band
	assert.Equal(t, uint8(255), pixel(f.s.Image(), 130, 4).B)
}

func TestRandomizeStaysInCatalog(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		require.NoError(t, f.s.Randomize(ctx))
		sel := f.s.Selection()
		assert.GreaterOrEqual(t, sel.Creature, 0)
		assert.Less(t, sel.Creature, 2)
		assert.GreaterOrEqual(t, sel.Background, 0)
		assert.Less(t, sel.Background, 3)
	}
}

func TestRandomizeEmptyCatalog(t *testing.T) {
	f := newFixture(t, blueImages(), WithCatalog(card.Catalog{}))
	assert.ErrorIs(t, f.s.Randomize(context.Background()), ErrInvalidSelection)
}

func TestDownloadHDWithBrokenBackground(t *testing.T) {
	f := newFixture(t, mapImages{})
	ctx := context.Background()
	require.NoError(t, f.s.Generate(ctx, Selection{}))

	require.NoError(t, f.s.DownloadHD(ctx))

	data, ok := f.saver.files["Pikachu-813x1125.png"]
	require.True(t, ok, "saved %v", f.saver.names())
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 813, img.Bounds().Dx())
	assert.Equal(t, 1125, img.Bounds().Dy())
	assert.Empty(t, f.notices.list())
}

func TestDownloadHDWithoutCardIsSilent(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()

	assert.ErrorIs(t, f.s.DownloadHD(ctx), ErrNotGenerated)
	assert.NoError(t, f.s.Perform(ctx, ActionDownloadHD, Selection{}))
	assert.Empty(t, f.saver.names())
	assert.Empty(t, f.notices.list())
}

func TestDownloadAnimatedWithoutCardNotifies(t *testing.T) {
	f := newFixture(t, blueImages())

	assert.ErrorIs(t, f.s.DownloadAnimated(context.Background()), ErrNotGenerated)
	assert.Equal(t, []string{noticeGenerateFirst}, f.notices.list())
	assert.Empty(t, f.saver.names())
}

func TestDownloadAnimated(t *testing.T) {
	f := newFixture(t, blueImages(), WithHold(time.Second))
	ctx := context.Background()
	require.NoError(t, f.s.Generate(ctx, Selection{}))

	require.NoError(t, f.s.DownloadAnimated(ctx))

	data, ok := f.saver.files["pokemon-card.gif"]
	require.True(t, ok)
	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, []int{100, 100}, g.Delay)
	assert.Equal(t, card.Front, f.s.Side(), "export does not touch the live side")
}

func TestDownloadAnimatedAsync(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()
	require.NoError(t, f.s.Generate(ctx, Selection{}))

	done := make(chan error, 1)
	f.s.DownloadAnimatedAsync(ctx, func(err error) { done <- err })

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("animated export did not finish")
	}
	assert.Contains(t, f.saver.names(), "pokemon-card.gif")
}

// TestRandomizeDuringAnimatedExport runs Randomize while a sparkling
// animated export renders in the background; run with -race.
func TestRandomizeDuringAnimatedExport(t *testing.T) {
	f := newFixture(t, blueImages(), WithParticles(200))
	ctx := context.Background()
	f.s.SetSparkles(true)
	require.NoError(t, f.s.Generate(ctx, Selection{}))

	done := make(chan error, 1)
	f.s.DownloadAnimatedAsync(ctx, func(err error) { done <- err })

	deadline := time.After(30 * time.Second)
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Contains(t, f.saver.names(), "pokemon-card.gif")
			return
		case <-deadline:
			t.Fatal("animated export did not finish")
		default:
			require.NoError(t, f.s.Randomize(ctx))
		}
	}
}

func TestDownloadStillSavesLiveSurface(t *testing.T) {
	f := newFixture(t, blueImages(), WithPixelRatio(1.5))
	require.NoError(t, f.s.ShowPlaceholder(context.Background(), "placeholder"))

	require.NoError(t, f.s.DownloadStill(context.Background()))
	img, err := png.Decode(bytes.NewReader(f.saver.files["pokemon-card.png"]))
	require.NoError(t, err)
	assert.Equal(t, 390, img.Bounds().Dx())
	assert.Equal(t, 540, img.Bounds().Dy())
}

func TestSparkleToggleChangesDraw(t *testing.T) {
	black := solid(card.Width, card.Height, color.RGBA{0, 0, 0, 255})
	f := newFixture(t, mapImages{"bg://1": black}, WithParticles(200))
	ctx := context.Background()

	require.NoError(t, f.s.Generate(ctx, Selection{}))
	plain := bytes.Clone(f.s.Surface().Image().(*image.RGBA).Pix)

	f.s.SetSparkles(true)
	require.NoError(t, f.s.Redraw(ctx))
	assert.True(t, f.s.Inputs().Sparkles)
	assert.NotEqual(t, plain, f.s.Surface().Image().(*image.RGBA).Pix)
}

func TestPerformDispatch(t *testing.T) {
	f := newFixture(t, blueImages())
	ctx := context.Background()

	require.NoError(t, f.s.Perform(ctx, ActionNone, Selection{}))
	assert.Nil(t, f.s.Config())

	require.NoError(t, f.s.Perform(ctx, ActionGenerate, Selection{Creature: 1}))
	assert.Equal(t, 133, f.s.Config().DexID)

	require.NoError(t, f.s.Perform(ctx, ActionRandomize, Selection{}))
	require.NoError(t, f.s.Perform(ctx, ActionDownloadStill, Selection{}))
	assert.Contains(t, f.saver.names(), "pokemon-card.png")

	assert.Error(t, f.s.Perform(ctx, Action(42), Selection{}))
}

func TestActionNames(t *testing.T) {
	for a := ActionNone; a <= ActionDownloadAnimated; a++ {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("print")
	assert.Error(t, err)
	assert.Equal(t, "Action(9)", Action(9).String())
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := DirSaver(dir)

	require.NoError(t, s.Save("card.png", []byte("x")))
	got, err := os.ReadFile(filepath.Join(dir, "card.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	assert.Error(t, s.Save("../card.png", nil))
}
