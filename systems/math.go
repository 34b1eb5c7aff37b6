package systems

import "math"

// Vector types. Field and sampler math runs in float64; bulk per-particle
// storage is float32.

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Clamp functions for common value ranges

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01f is the float32 form used by the per-particle channel loops.
func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Interpolation and easing

// Lerp blends a toward b. Endpoint exact: t=0 yields a, t>=1 yields b, and
// a==b yields a for any t. The sampler's boundary and plateau contracts
// depend on all three.
func Lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

// Smoothstep is the cubic 3t^2-2t^3 ease: zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

func smoothstepf(t float32) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// EaseInOutCubic accelerates through the first half and decelerates through
// the second, steeper around the middle than Smoothstep.
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// fract returns the fractional part of x in [0, 1), for negative x too.
func fract(x float64) float64 {
	x -= math.Floor(x)
	// rounding can land exactly on 1.0 for tiny negative inputs
	if x >= 1 {
		x = 0
	}
	return x
}

// Distance functions

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}
