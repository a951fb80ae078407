package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1, 0 or 1. Unlike math.Copysign it maps 0 to 0.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// ClampAbs limits |v| to limit while keeping the sign of v.
func ClampAbs(v, limit float64) float64 {
	return math.Min(math.Abs(v), limit) * Sign(v)
}

// Approach moves val toward target by at most step.
func Approach(val, target, step float64) float64 {
	if val < target {
		return math.Min(val+step, target)
	}
	return math.Max(val-step, target)
}

// Angle returns the screen-space angle of v in radians (y grows downward).
func Angle(v mgl64.Vec2) float64 {
	return math.Atan2(v.Y(), v.X())
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	if v.Len() == 0 {
		return mgl64.Vec2{}
	}
	return v.Normalize()
}

// CubeInOut is the cubic ease used for short carry transitions.
func CubeInOut(t float64) float64 {
	if t <= 0.5 {
		return 4 * t * t * t
	}
	u := 1 - t
	return 1 - 4*u*u*u
}
