package component

import "github.com/go-gl/mathgl/mgl64"

// Holder marks an entity that can carry one holdable at a time. Holding is
// the carried entity (an ecs.Entity) or zero when empty.
type Holder struct {
	Holding uint64
}

func (h *Holder) Carrying() bool {
	return h != nil && h.Holding != 0
}

var HolderComponent = NewComponent[Holder]()

// Holdable is anything the player can pick up and throw.
type Holdable struct {
	// SlowFall items (gliders, companions) float while carried.
	SlowFall        bool
	CannotHoldTimer float64

	Released   bool
	ReleaseDir mgl64.Vec2
}

var HoldableComponent = NewComponent[Holdable]()

// Companion is a carryable entity with its own momentum and dash state. It is
// owned by the level; the player only references it while carrying.
type Companion struct {
	// BoostSpeed is the velocity handed to the player when it is picked up
	// while BoostTimer is running.
	BoostSpeed mgl64.Vec2
	BoostDir   mgl64.Vec2
	BoostTimer float64

	DashAttackTimer float64
	DashDir         mgl64.Vec2
	Dashes          int
	MaxDashes       int
	DashBuffered    bool

	SoulBound       bool
	MatchPlayerDash bool
	Active          bool
	Destroyed       bool
}

// RefillDash restores the companion's own dash charges.
func (c *Companion) RefillDash() {
	if c == nil || c.Destroyed {
		return
	}
	c.Dashes = c.MaxDashes
}

// BufferDash asks the companion to dash on its next update.
func (c *Companion) BufferDash() {
	if c == nil || c.Destroyed {
		return
	}
	c.DashBuffered = true
}

// Die destroys the companion. Callers must re-check Destroyed before use.
func (c *Companion) Die() {
	if c == nil {
		return
	}
	c.Destroyed = true
	c.Active = false
	c.BoostTimer = 0
	c.DashAttackTimer = 0
}

var CompanionComponent = NewComponent[Companion]()
