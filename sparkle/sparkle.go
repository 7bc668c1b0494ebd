// Package sparkle draws the ambient glitter overlay on top of a card face.
//
// An Overlay owns a fixed pool of particles. Each particle fades in, holds,
// fades out and is then respawned in its own slot, so the pool never shrinks
// or grows.
package sparkle

import (
	"math/rand/v2"
	"sync"

	"github.com/gogpu/gg"
)

// Pool and particle tuning.
const (
	DefaultCount = 60

	fadeInRatio  = 0.1
	fadeOutRatio = 0.1

	minRadius    = 1.0
	radiusJitter = 2.0
	minTTL       = 30.0
	ttlJitter    = 30.0

	// dimming applies on top of each particle's own opacity.
	dimming = 0.6
)

// Rand is the randomness an Overlay draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Particle is one sparkle. Age and TTL are measured in update ticks.
type Particle struct {
	X, Y   float64
	Radius float64
	Alpha  float64
	Age    float64
	TTL    float64
}

// Overlay is a fixed-size particle pool over a w×h logical surface.
// It is safe for concurrent use.
type Overlay struct {
	mu        sync.Mutex
	rng       Rand
	w, h      float64
	particles []Particle
}

// New creates an overlay of n particles (DefaultCount when n <= 0).
// The initial pool starts at staggered ages so particles do not pulse in
// unison. A nil rng uses a randomly seeded PCG source.
func New(n int, w, h float64, rng Rand) *Overlay {
	if n <= 0 {
		n = DefaultCount
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	o := &Overlay{
		rng:       rng,
		w:         w,
		h:         h,
		particles: make([]Particle, n),
	}
	for i := range o.particles {
		p := o.spawn()
		p.Age = o.rng.Float64() * p.TTL
		p.Alpha = Opacity(p.Age, p.TTL)
		o.particles[i] = p
	}
	return o
}

// Spawn returns a fresh particle: random position inside the surface, random
// radius, age 0 and a random time-to-live.
func (o *Overlay) Spawn() Particle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.spawn()
}

func (o *Overlay) spawn() Particle {
	return Particle{
		X:      o.rng.Float64() * o.w,
		Y:      o.rng.Float64() * o.h,
		Radius: minRadius + o.rng.Float64()*radiusJitter,
		TTL:    minTTL + o.rng.Float64()*ttlJitter,
	}
}

// Opacity is the three-segment life envelope: linear fade-in over the first
// 10% of ttl, fully opaque through 90%, linear fade-out to 0 at ttl.
func Opacity(age, ttl float64) float64 {
	if ttl <= 0 {
		return 0
	}
	fadeInEnd := ttl * fadeInRatio
	fadeOutStart := ttl * (1 - fadeOutRatio)

	switch {
	case age <= 0:
		return 0
	case age >= ttl:
		return 0
	case age < fadeInEnd:
		return age / fadeInEnd
	case age > fadeOutStart:
		return 1 - (age-fadeOutStart)/(ttl*fadeOutRatio)
	default:
		return 1
	}
}

// Update advances every particle by one tick and respawns, in place, those
// that reached their time-to-live.
func (o *Overlay) Update() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.particles {
		p := &o.particles[i]
		p.Age++
		p.Alpha = Opacity(p.Age, p.TTL)
		if p.Age >= p.TTL {
			*p = o.spawn()
		}
	}
}

// Len returns the pool size.
func (o *Overlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.particles)
}

// Particles returns a copy of the pool.
func (o *Overlay) Particles() []Particle {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Particle, len(o.particles))
	copy(out, o.particles)
	return out
}

// Draw renders each particle as a small white plus mark in the logical
// coordinate space of dc. Marks are gathered in one layer composited with
// Screen blending, so sparkles brighten the face instead of covering it.
func (o *Overlay) Draw(dc *gg.Context) {
	ps := o.Particles()

	dc.Push()
	defer dc.Pop()

	dc.PushLayer(gg.BlendScreen, 1)
	defer dc.PopLayer()

	dc.SetLineWidth(1)
	for _, p := range ps {
		a := p.Alpha * dimming
		if a <= 0 {
			continue
		}
		dc.SetRGBA(1, 1, 1, a)
		dc.MoveTo(p.X, p.Y-p.Radius)
		dc.LineTo(p.X, p.Y+p.Radius)
		dc.MoveTo(p.X-p.Radius, p.Y)
		dc.LineTo(p.X+p.Radius, p.Y)
		_ = dc.Stroke()
	}
}

// Render advances the pool one tick and draws it.
func (o *Overlay) Render(dc *gg.Context) {
	o.Update()
	o.Draw(dc)
}
