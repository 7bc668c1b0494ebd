package pokegenx

import (
	"math/rand/v2"
	"time"

	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/face"
	"github.com/PokeGenX-com/pokegenx/flip"
	"github.com/PokeGenX-com/pokegenx/sparkle"
)

// Option configures a Session during creation.
//
// Example:
//
//	s, err := pokegenx.New(loader,
//	    pokegenx.WithPixelRatio(2),
//	    pokegenx.WithSaver(pokegenx.DirSaver("out")),
//	)
type Option func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	particles    int
	pixelRatio   float64
	scheduler    flip.Scheduler
	saver        Saver
	notifier     Notifier
	rng          *rand.Rand
	hold         time.Duration
	flipDuration time.Duration
	fonts        *face.Fonts
	catalog      card.Catalog
	pattern      string
}

func defaultOptions() sessionOptions {
	return sessionOptions{
		particles:    sparkle.DefaultCount,
		pixelRatio:   1,
		flipDuration: flip.ClickDuration,
		pattern:      card.DefaultBackgroundPattern,
	}
}

// WithParticles sets the sparkle pool size. Zero disables the overlay.
func WithParticles(n int) Option {
	return func(o *sessionOptions) {
		if n >= 0 {
			o.particles = n
		}
	}
}

// WithPixelRatio sets the device pixel ratio of the live surface.
func WithPixelRatio(r float64) Option {
	return func(o *sessionOptions) {
		if r > 0 {
			o.pixelRatio = r
		}
	}
}

// WithScheduler drives flip frames from s instead of the session's own
// FrameQueue. Session.Pump is then a no-op.
func WithScheduler(s flip.Scheduler) Option {
	return func(o *sessionOptions) {
		o.scheduler = s
	}
}

// WithSaver sets where downloads go.
func WithSaver(s Saver) Option {
	return func(o *sessionOptions) {
		o.saver = s
	}
}

// WithNotifier sets the sink for user notices.
func WithNotifier(n Notifier) Option {
	return func(o *sessionOptions) {
		o.notifier = n
	}
}

// WithRand sets the random source used by Randomize and the overlay.
func WithRand(r *rand.Rand) Option {
	return func(o *sessionOptions) {
		o.rng = r
	}
}

// WithHold sets how long each frame of an animated export is shown.
func WithHold(d time.Duration) Option {
	return func(o *sessionOptions) {
		if d > 0 {
			o.hold = d
		}
	}
}

// WithFlipDuration sets the duration of Flip.
func WithFlipDuration(d time.Duration) Option {
	return func(o *sessionOptions) {
		if d > 0 {
			o.flipDuration = d
		}
	}
}

// WithFonts sets the fonts used for card text. The session does not take
// ownership; the caller closes them.
func WithFonts(f *face.Fonts) Option {
	return func(o *sessionOptions) {
		o.fonts = f
	}
}

// WithCatalog sets the initial catalog.
func WithCatalog(c card.Catalog) Option {
	return func(o *sessionOptions) {
		o.catalog = c
	}
}

// WithBackgroundPattern sets the printf pattern mapping a 1-based background
// number to its URL.
func WithBackgroundPattern(p string) Option {
	return func(o *sessionOptions) {
		if p != "" {
			o.pattern = p
		}
	}
}
