package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Effect payloads are pushed onto the world event queue and drained by the
// host. Emission is fire-and-forget.

type SoundRequest struct {
	Event string
	At    mgl64.Vec2
}

type BurstKind int

const (
	BurstSlash BurstKind = iota
	BurstDust
	BurstDream
)

func (k BurstKind) String() string {
	switch k {
	case BurstDust:
		return "dust"
	case BurstDream:
		return "dream"
	}
	return "slash"
}

type BurstRequest struct {
	Kind  BurstKind
	At    mgl64.Vec2
	Angle float64
	Color color.Color
}

type TrailRequest struct {
	At    mgl64.Vec2
	Scale mgl64.Vec2
	Color color.Color
}

type RumbleRequest struct {
	Strength float64
	Duration float64
}

type RippleRequest struct {
	Solid uint64
	At    mgl64.Vec2
}

type AnimationRequest struct {
	Name string
}
