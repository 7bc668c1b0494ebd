// Package flip animates a card turning over by cross-fading its two faces.
//
// The controller is a two-state machine (Idle, Flipping). A flip fades the
// visible face out over the first half of the duration, switches the card's
// side exactly once when progress crosses the midpoint, then fades the other
// face in. The switch is gated on elapsed time, not on frame count, so frame
// jitter cannot move it.
package flip

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/easing"
	"github.com/PokeGenX-com/pokegenx/face"
)

// Durations.
const (
	DefaultDuration = 2 * time.Second
	ClickDuration   = 150 * time.Millisecond
)

// State is the controller state.
type State uint8

const (
	// Idle accepts a new flip.
	Idle State = iota
	// Flipping rejects clicks until the pending face swap has run.
	Flipping
)

func (s State) String() string {
	if s == Flipping {
		return "flipping"
	}
	return "idle"
}

// Card is the render state a flip reads and toggles.
type Card interface {
	Config() *card.Config
	Inputs() face.Inputs
	Side() card.Side
	SetSide(card.Side)
}

// Frame describes one drawn animation frame.
type Frame struct {
	Progress float64   // normalized time in [0, 1]
	Opacity  float64   // opacity the face was drawn with
	Side     card.Side // side drawn
	Final    bool      // the settled full-opacity draw ending the flip
}

// Controller drives flips on one surface.
type Controller struct {
	card     Card
	renderer *face.Renderer
	dc       *gg.Context
	w, h     float64
	sched    Scheduler
	now      func() time.Time
	onFrame  func(Frame)
	log      *slog.Logger

	mu    sync.Mutex
	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now as the flip start clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithFrameHook registers fn to observe every drawn frame.
func WithFrameHook(fn func(Frame)) Option {
	return func(c *Controller) {
		c.onFrame = fn
	}
}

// WithLogger sets the logger for draw failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Controller drawing c's faces onto dc at logical size w×h.
func New(c Card, r *face.Renderer, dc *gg.Context, w, h float64, sched Scheduler, opts ...Option) *Controller {
	ctrl := &Controller{
		card:     c,
		renderer: r,
		dc:       dc,
		w:        w,
		h:        h,
		sched:    sched,
		now:      time.Now,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Flip starts a flip lasting d. It reports false, doing nothing, when no
// configuration is loaded or a flip is already running; requests are never
// queued. The flip cannot be cancelled once started.
func (c *Controller) Flip(ctx context.Context, d time.Duration) bool {
	if c.card.Config() == nil {
		return false
	}

	c.mu.Lock()
	if c.state == Flipping {
		c.mu.Unlock()
		return false
	}
	c.state = Flipping
	c.mu.Unlock()

	f := &flight{ctx: context.WithoutCancel(ctx), start: c.now(), dur: d}
	c.sched.RequestFrame(func(now time.Time) { c.step(f, now) })
	return true
}

// flight is the bookkeeping of one running flip.
type flight struct {
	ctx     context.Context
	start   time.Time
	dur     time.Duration
	swapped bool
}

// Progress returns normalized time clamped to [0, 1].
func Progress(start, now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	t := float64(now.Sub(start)) / float64(d)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Opacity is the face opacity at progress t: fading out before the midpoint,
// fading in from it.
func Opacity(t float64) float64 {
	if t < 0.5 {
		return 1 - easing.InOutCubic(t/0.5)
	}
	return easing.InOutCubic((t - 0.5) / 0.5)
}

func (c *Controller) step(f *flight, now time.Time) {
	t := Progress(f.start, now, f.dur)

	if t >= 0.5 && !f.swapped {
		c.card.SetSide(c.card.Side().Other())
		f.swapped = true
	}

	alpha := Opacity(t)
	c.drawFrame(f.ctx, alpha)
	c.emit(Frame{Progress: t, Opacity: alpha, Side: c.card.Side()})

	if t < 1 {
		c.sched.RequestFrame(func(now time.Time) { c.step(f, now) })
		return
	}

	c.drawFrame(f.ctx, 1)
	c.emit(Frame{Progress: 1, Opacity: 1, Side: c.card.Side(), Final: true})

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
}

// drawFrame redraws the current side at the given opacity, then the sparkle
// overlay at full strength.
func (c *Controller) drawFrame(ctx context.Context, alpha float64) {
	cfg, side, in := c.card.Config(), c.card.Side(), c.card.Inputs()

	c.dc.Clear()
	face.With(c.dc, face.Faded(alpha), func() {
		if err := c.renderer.DrawBody(ctx, c.dc, c.w, c.h, cfg, side, in); err != nil {
			c.log.Warn("flip frame draw failed", "side", side, "error", err)
		}
	})
	c.renderer.DrawOverlay(c.dc, in)
}

func (c *Controller) emit(f Frame) {
	if c.onFrame != nil {
		c.onFrame(f)
	}
}
