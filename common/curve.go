package common

import "github.com/go-gl/mathgl/mgl64"

// Curve is a quadratic Bezier from Begin to End bent toward Control.
type Curve struct {
	Begin, Control, End mgl64.Vec2
}

// Point samples the curve at t in [0, 1].
func (c Curve) Point(t float64) mgl64.Vec2 {
	u := 1 - t
	return c.Begin.Mul(u * u).Add(c.Control.Mul(2 * u * t)).Add(c.End.Mul(t * t))
}
