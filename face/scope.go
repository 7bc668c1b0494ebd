package face

import (
	"github.com/gogpu/gg"
)

// State is the drawing state a block of drawing runs under.
// It replaces implicit canvas save/restore: With applies it and undoes it on
// every exit path.
type State struct {
	// Opacity of the whole block, composited as one layer. 1 is opaque.
	Opacity float64
	// Blend composites the block onto what is already drawn.
	Blend gg.BlendMode
	// Clip, when set, builds a path that bounds the block.
	Clip func(dc *gg.Context)
}

// Opaque is the identity state.
func Opaque() State {
	return State{Opacity: 1, Blend: gg.BlendNormal}
}

// Faded returns an opaque state with the given opacity.
func Faded(opacity float64) State {
	return State{Opacity: opacity, Blend: gg.BlendNormal}
}

func (s State) layered() bool {
	return s.Opacity < 1 || s.Blend != gg.BlendNormal
}

// With runs fn under st. Transform and clip are saved before and restored
// after; an opacity or blend other than the identity isolates fn in a layer.
func With(dc *gg.Context, st State, fn func()) {
	dc.Push()
	defer dc.Pop()

	if st.Clip != nil {
		st.Clip(dc)
		dc.Clip()
	}
	if st.layered() {
		dc.PushLayer(st.Blend, st.Opacity)
		defer dc.PopLayer()
	}
	fn()
}

// roundedRect traces a w×h rectangle with quadratic corners of radius r.
// Points go through the current transform, so the outline scales with it.
func roundedRect(w, h, r float64) func(dc *gg.Context) {
	return func(dc *gg.Context) {
		dc.MoveTo(r, 0)
		dc.LineTo(w-r, 0)
		dc.QuadraticTo(w, 0, w, r)
		dc.LineTo(w, h-r)
		dc.QuadraticTo(w, h, w-r, h)
		dc.LineTo(r, h)
		dc.QuadraticTo(0, h, 0, h-r)
		dc.LineTo(0, r)
		dc.QuadraticTo(0, 0, r, 0)
		dc.ClosePath()
	}
}
