package pokegenx

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/export"
	"github.com/PokeGenX-com/pokegenx/face"
	"github.com/PokeGenX-com/pokegenx/flip"
	"github.com/PokeGenX-com/pokegenx/sparkle"
)

// Selection identifies the card to generate: a 0-based creature index into
// the catalog, a 0-based background index and the shiny toggle.
type Selection struct {
	Creature   int
	Background int
	Shiny      bool
}

// Session is the single render state of an interactive card view.
// It satisfies flip.Card.
type Session struct {
	images   face.ImageSource
	fonts    *face.Fonts
	ownFonts bool
	overlay  *sparkle.Overlay
	renderer *face.Renderer
	exporter *export.Exporter
	flipper  *flip.Controller
	queue    *flip.FrameQueue
	dc       *gg.Context
	ratio    float64
	saver    Saver
	notifier Notifier
	rng      *rand.Rand
	flipDur  time.Duration
	pattern  string
	log      *slog.Logger

	mu        sync.Mutex
	catalog   card.Catalog
	cfg       *card.Config
	side      card.Side
	inputs    face.Inputs
	selection Selection
}

// New creates a Session loading images through images (usually an
// *asset.Loader).
func New(images face.ImageSource, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := Logger()
	s := &Session{
		images:   images,
		fonts:    o.fonts,
		ratio:    o.pixelRatio,
		saver:    o.saver,
		notifier: o.notifier,
		rng:      o.rng,
		flipDur:  o.flipDuration,
		pattern:  o.pattern,
		catalog:  o.catalog,
		log:      log,
	}
	if s.fonts == nil {
		f, err := face.DefaultFonts()
		if err != nil {
			return nil, fmt.Errorf("pokegenx: fonts: %w", err)
		}
		s.fonts, s.ownFonts = f, true
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.saver == nil {
		s.saver = DiscardSaver{}
	}
	if s.notifier == nil {
		s.notifier = logNotifier{log: log}
	}
	if o.particles > 0 {
		// export goroutines animate the overlay, so it does not share s.rng
		src := rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
		s.overlay = sparkle.New(o.particles, card.Width, card.Height, src)
	}

	w := int(math.Round(card.Width * s.ratio))
	h := int(math.Round(card.Height * s.ratio))
	s.dc = gg.NewContext(w, h)
	s.dc.Scale(s.ratio, s.ratio)

	s.renderer = face.NewRenderer(images, s.fonts, s.overlay, log)
	s.exporter = export.New(s.renderer, images, export.WithHold(o.hold), export.WithLogger(log))

	sched := o.scheduler
	if sched == nil {
		s.queue = &flip.FrameQueue{}
		sched = s.queue
	}
	s.flipper = flip.New(s, s.renderer, s.dc, card.Width, card.Height, sched, flip.WithLogger(log))
	return s, nil
}

// Close releases the live surface and the fonts the session created.
func (s *Session) Close() error {
	err := s.dc.Close()
	if s.ownFonts {
		if ferr := s.fonts.Close(); err == nil {
			err = ferr
		}
	}
	return err
}

// Config returns the generated card configuration, nil before the first
// generation.
func (s *Session) Config() *card.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Side returns the visible side.
func (s *Session) Side() card.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side
}

// SetSide sets the visible side without redrawing.
func (s *Session) SetSide(side card.Side) {
	s.mu.Lock()
	s.side = side
	s.mu.Unlock()
}

// Inputs returns the live user inputs.
func (s *Session) Inputs() face.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// SetInputs replaces the live user inputs. They are read at the next draw.
func (s *Session) SetInputs(in face.Inputs) {
	s.mu.Lock()
	s.inputs = in
	s.mu.Unlock()
}

// SetSparkles toggles the sparkle overlay for subsequent draws.
func (s *Session) SetSparkles(on bool) {
	s.mu.Lock()
	s.inputs.Sparkles = on
	s.mu.Unlock()
}

// Catalog returns the selectable content.
func (s *Session) Catalog() card.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// SetCatalog replaces the selectable content.
func (s *Session) SetCatalog(c card.Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
}

// Selection returns the last selection passed to Generate.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Surface returns the live drawing context.
func (s *Session) Surface() *gg.Context {
	return s.dc
}

// Image returns the live surface pixels.
func (s *Session) Image() image.Image {
	return s.dc.Image()
}

// PixelRatio returns the live surface device pixel ratio.
func (s *Session) PixelRatio() float64 {
	return s.ratio
}

// Flipping reports whether a flip is running.
func (s *Session) Flipping() bool {
	return s.flipper.State() == flip.Flipping
}

// ShowPlaceholder draws a back face on backgroundURL without loading a card.
// The session stays ungenerated.
func (s *Session) ShowPlaceholder(ctx context.Context, backgroundURL string) error {
	return s.draw(ctx, card.Placeholder(backgroundURL), card.Back)
}

// Generate builds the card for sel, shows its front and redraws.
// An out-of-range creature returns ErrInvalidSelection and draws nothing.
func (s *Session) Generate(ctx context.Context, sel Selection) error {
	s.mu.Lock()
	rec, ok := s.catalog.Record(sel.Creature)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: creature %d of %d", ErrInvalidSelection, sel.Creature, len(s.catalog.Records))
	}
	cfg := card.Build(rec, card.BackgroundURL(s.pattern, sel.Background), sel.Shiny)
	s.cfg = cfg
	s.side = card.Front
	s.selection = sel
	s.mu.Unlock()

	s.log.Info("generated card", "dex", cfg.DexID, "name", cfg.Name, "background", sel.Background, "shiny", sel.Shiny)
	return s.draw(ctx, cfg, card.Front)
}

// Randomize picks a random creature and background, keeping the shiny
// toggle of the last selection, and generates.
func (s *Session) Randomize(ctx context.Context) error {
	s.mu.Lock()
	if s.catalog.Empty() {
		s.mu.Unlock()
		return fmt.Errorf("%w: empty catalog", ErrInvalidSelection)
	}
	sel := s.selection
	sel.Creature = s.rng.IntN(len(s.catalog.Records))
	sel.Background = 0
	if m := len(s.catalog.Backgrounds); m > 0 {
		sel.Background = s.rng.IntN(m)
	}
	s.mu.Unlock()

	return s.Generate(ctx, sel)
}

// Flip starts a flip of the generated card. It reports false when there is
// nothing to flip or a flip is already running.
func (s *Session) Flip(ctx context.Context) bool {
	return s.flipper.Flip(ctx, s.flipDur)
}

// Pump runs the frames requested before the call. It returns how many ran
// and does nothing when an external scheduler was configured.
func (s *Session) Pump(now time.Time) int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Pump(now)
}

// Redraw repaints the visible side, including the overlay. Before the first
// generation it does nothing.
func (s *Session) Redraw(ctx context.Context) error {
	cfg := s.Config()
	if cfg == nil {
		return nil
	}
	return s.draw(ctx, cfg, s.Side())
}

func (s *Session) draw(ctx context.Context, cfg *card.Config, side card.Side) error {
	s.dc.Clear()
	return s.renderer.Draw(ctx, s.dc, card.Width, card.Height, cfg, side, s.Inputs())
}
