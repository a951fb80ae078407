package common

import "github.com/go-gl/mathgl/mgl64"

// Rect is an axis aligned box anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() mgl64.Vec2 {
	return mgl64.Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Offset returns r translated by d.
func (r Rect) Offset(d mgl64.Vec2) Rect {
	r.X += d.X()
	r.Y += d.Y()
	return r
}

// Overlaps reports strict overlap; boxes that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}
