package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame input state for an entity. Pressed flags double as
// the host's input buffers; consuming a buffer clears the flag and records
// that it was consumed this frame.
type Input struct {
	MoveX int
	MoveY int
	Aim   mgl64.Vec2

	Jump                 bool
	JumpPressed          bool
	DashPressed          bool
	Grab                 bool
	CompanionDashPressed bool

	JumpConsumed bool
	DashConsumed bool
}

func (in *Input) ConsumeJumpBuffer() {
	if in == nil {
		return
	}
	in.JumpPressed = false
	in.JumpConsumed = true
}

func (in *Input) ConsumeDashBuffer() {
	if in == nil {
		return
	}
	in.DashPressed = false
	in.DashConsumed = true
}

// Neutral reports whether no direction is held.
func (in *Input) Neutral() bool {
	return in == nil || (in.MoveX == 0 && in.MoveY == 0)
}

var InputComponent = NewComponent[Input]()
