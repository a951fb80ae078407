package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
)

// Body is the physics state the host owns for the player (and for carried
// entities). Position is the top-left corner of the hitbox.
type Body struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Width    float64
	Height   float64

	// Facing is -1 (left) or 1 (right).
	Facing    int
	State     PrimaryState
	Ducking   bool
	CanUnDuck bool
	OnGround  bool
	DashDir   mgl64.Vec2

	// LiftSpeed is the velocity of the platform the body last rode.
	LiftSpeed mgl64.Vec2
}

// Hitbox returns the body's box at its current position.
func (b *Body) Hitbox() common.Rect {
	return b.HitboxAt(b.Position)
}

// HitboxAt returns the body's box as if it stood at pos.
func (b *Body) HitboxAt(pos mgl64.Vec2) common.Rect {
	return common.Rect{X: pos.X(), Y: pos.Y(), Width: b.Width, Height: b.Height}
}

func (b *Body) Center() mgl64.Vec2 {
	return b.Hitbox().Center()
}

func (b *Body) TopCenter() mgl64.Vec2 {
	return mgl64.Vec2{b.Position.X() + b.Width/2, b.Position.Y()}
}

var BodyComponent = NewComponent[Body]()
