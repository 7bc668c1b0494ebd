// Command cardview shows a card in a window.
//
// Controls: click flips the card, Left/Right pick the creature, Up/Down pick
// the background, Enter generates, R randomizes, S toggles sparkles,
// Y toggles shiny, P/H/A download the still, HD and animated exports.
// User notices are shown in the top-left corner for a few seconds.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/PokeGenX-com/pokegenx"
	"github.com/PokeGenX-com/pokegenx/asset"
	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/internal/catalog"
	"github.com/PokeGenX-com/pokegenx/internal/config"
)

type Viewer struct {
	ctx    context.Context
	log    *slog.Logger
	width  int
	height int

	// mu serializes session drawing between Update and background actions.
	mu      sync.Mutex
	session *pokegenx.Session
	frame   *ebiten.Image

	notice atomic.Pointer[toast]
}

const noticeTTL = 3 * time.Second

type toast struct {
	msg   string
	until time.Time
}

// Notify implements pokegenx.Notifier.
func (v *Viewer) Notify(msg string) {
	v.notice.Store(&toast{msg: msg, until: time.Now().Add(noticeTTL)})
}

func (v *Viewer) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.withSession(func(s *pokegenx.Session) { s.Flip(v.ctx) })
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.step(1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.step(-1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		v.step(0, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		v.step(0, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		sel := v.session.Selection()
		sel.Shiny = !sel.Shiny
		v.perform(pokegenx.ActionGenerate, sel)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		v.perform(pokegenx.ActionGenerate, v.session.Selection())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.perform(pokegenx.ActionRandomize, pokegenx.Selection{})
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.perform(pokegenx.ActionDownloadStill, pokegenx.Selection{})
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		v.perform(pokegenx.ActionDownloadHD, pokegenx.Selection{})
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		v.perform(pokegenx.ActionDownloadAnimated, pokegenx.Selection{})
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.withSession(func(s *pokegenx.Session) {
			s.SetSparkles(!s.Inputs().Sparkles)
		})
	}

	v.withSession(func(s *pokegenx.Session) {
		if s.Pump(time.Now()) > 0 || s.Flipping() {
			return
		}
		if s.Inputs().Sparkles {
			if err := s.Redraw(v.ctx); err != nil {
				v.log.Warn("redraw failed", "error", err)
			}
		}
	})
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.mu.TryLock() {
		if img, ok := v.session.Image().(*image.RGBA); ok {
			v.frame.WritePixels(img.Pix)
		}
		v.mu.Unlock()
	}
	screen.DrawImage(v.frame, nil)

	if n := v.notice.Load(); n != nil && time.Now().Before(n.until) {
		ebitenutil.DebugPrint(screen, n.msg)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// withSession runs fn when no background action holds the session.
func (v *Viewer) withSession(fn func(s *pokegenx.Session)) {
	if !v.mu.TryLock() {
		return
	}
	defer v.mu.Unlock()
	fn(v.session)
}

// step moves the selection and regenerates.
func (v *Viewer) step(dc, db int) {
	cat := v.session.Catalog()
	sel := v.session.Selection()
	if n := len(cat.Records); n > 0 {
		sel.Creature = (sel.Creature + dc + n) % n
	}
	if m := len(cat.Backgrounds); m > 0 {
		sel.Background = (sel.Background + db + m) % m
	}
	v.perform(pokegenx.ActionGenerate, sel)
}

// perform runs a off the game loop; image loads may block on the network.
func (v *Viewer) perform(a pokegenx.Action, sel pokegenx.Selection) {
	if !v.mu.TryLock() {
		return
	}
	go func() {
		defer v.mu.Unlock()
		if err := v.session.Perform(v.ctx, a, sel); err != nil {
			v.log.Warn("action failed", "action", a, "error", err)
			return
		}
		ebiten.SetWindowTitle(title(v.session))
	}()
}

func title(s *pokegenx.Session) string {
	cfg := s.Config()
	if cfg == nil {
		return "PokeGenX"
	}
	return fmt.Sprintf("PokeGenX - No. %d %s", cfg.DexID, cfg.Name)
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr)
	pokegenx.SetLogger(logger)
	ctx := context.Background()

	fetcher := asset.MuxFetcher{Remote: asset.NewHTTPFetcher(&http.Client{Timeout: cfg.HTTP.Timeout})}
	if cfg.Catalog.AssetsDir != "" {
		fetcher.Local = asset.FSFetcher{FS: os.DirFS(cfg.Catalog.AssetsDir)}
	}

	cat, err := catalog.Fetch(ctx, fetcher, catalog.Source{
		RecordsURL:     cfg.Catalog.RecordsURL,
		BackgroundsURL: cfg.Catalog.BackgroundsURL,
	}, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	// the session is created before the viewer it reports to
	var viewer atomic.Pointer[Viewer]
	loader := asset.NewLoader(fetcher, asset.WithTimeout(cfg.HTTP.Timeout), asset.WithLogger(logger))
	s, err := pokegenx.New(loader,
		pokegenx.WithCatalog(cat),
		pokegenx.WithBackgroundPattern(cfg.Catalog.BackgroundPattern),
		pokegenx.WithParticles(*cfg.Render.Particles),
		pokegenx.WithPixelRatio(cfg.Render.PixelRatio),
		pokegenx.WithHold(cfg.Render.Hold),
		pokegenx.WithFlipDuration(cfg.Render.FlipDuration),
		pokegenx.WithSaver(pokegenx.DirSaver(cfg.Output.Dir)),
		pokegenx.WithNotifier(pokegenx.NotifierFunc(func(msg string) {
			logger.Warn(msg)
			if v := viewer.Load(); v != nil {
				v.Notify(msg)
			}
		})),
	)
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer func() { _ = s.Close() }()

	if err := s.ShowPlaceholder(ctx, cfg.Catalog.PlaceholderURL); err != nil {
		logger.Warn("placeholder draw failed", "error", err)
	}

	b := s.Image().Bounds()
	v := &Viewer{
		ctx:     ctx,
		log:     logger,
		width:   b.Dx(),
		height:  b.Dy(),
		session: s,
		frame:   ebiten.NewImage(b.Dx(), b.Dy()),
	}
	viewer.Store(v)

	ebiten.SetWindowSize(int(card.Width*2), int(card.Height*2))
	ebiten.SetWindowTitle(title(s))
	if err := ebiten.RunGame(v); err != nil {
		logger.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}
