// Package easing provides progress curves for animations.
package easing

// InOutCubic maps normalized time t in [0, 1] to progress in [0, 1],
// accelerating until t = 0.5 and decelerating symmetrically after it.
// Inputs outside [0, 1] are clamped.
func InOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}
