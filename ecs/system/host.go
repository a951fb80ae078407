package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// Baseline is the host's own movement logic. Overrides call it to fall
// through, or to reuse a shared sub-step before replacing the result.
//
// Implementations must not call back into BounceMode from these methods;
// re-entry into intercepted events is BounceMode's job.
type Baseline interface {
	Jump(w *ecs.World, player ecs.Entity, particles, playSfx bool)
	WallJump(w *ecs.World, player ecs.Entity, dir int)
	SuperJump(w *ecs.World, player ecs.Entity)
	SuperWallJump(w *ecs.World, player ecs.Entity, dir int)
	ClimbJump(w *ecs.World, player ecs.Entity)
	HiccupJump(w *ecs.World, player ecs.Entity)

	// StartDash begins a dash and returns the next primary state.
	StartDash(w *ecs.World, player ecs.Entity) component.PrimaryState
	DreamDashBegin(w *ecs.World, player ecs.Entity)
	DreamDashEnd(w *ecs.World, player ecs.Entity)
	RefillDash(w *ecs.World, player ecs.Entity) bool

	Throw(w *ecs.World, player ecs.Entity)
	Drop(w *ecs.World, player ecs.Entity)
	// Release lets go of item with a throw direction.
	Release(w *ecs.World, item ecs.Entity, dir mgl64.Vec2)
	// Pickup runs the host's own grab sequence.
	Pickup(w *ecs.World, player ecs.Entity)

	ClimbCheck(w *ecs.World, player ecs.Entity, dir, yAdd int) bool
	IsRiding(w *ecs.World, player, solid ecs.Entity) bool
	EnforceBounds(w *ecs.World, player ecs.Entity)
}

// playerRefs bundles the components every override reads. Missing optional
// components are nil; callers treat nil as absent.
type playerRefs struct {
	e         ecs.Entity
	body      *component.Body
	input     *component.Input
	inventory *component.Inventory
	timers    *component.Timers
	bounce    *component.Bounce
	holder    *component.Holder
}

func lookupPlayer(w *ecs.World, e ecs.Entity) (playerRefs, bool) {
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return playerRefs{}, false
	}
	p := playerRefs{e: e, body: body}
	p.input, _ = ecs.Get(w, e, component.InputComponent.Kind())
	p.inventory, _ = ecs.Get(w, e, component.InventoryComponent.Kind())
	p.holder, _ = ecs.Get(w, e, component.HolderComponent.Kind())

	timers, ok := ecs.Get(w, e, component.TimersComponent.Kind())
	if !ok {
		timers = component.NewTimers()
		_ = ecs.Add(w, e, component.TimersComponent.Kind(), timers)
	}
	p.timers = timers

	b, ok := ecs.Get(w, e, component.BounceComponent.Kind())
	if !ok {
		b = &component.Bounce{}
		_ = ecs.Add(w, e, component.BounceComponent.Kind(), b)
	}
	p.bounce = b
	return p, true
}

// held returns the carried entity if it is still alive.
func (p playerRefs) held(w *ecs.World) (ecs.Entity, bool) {
	if !p.holder.Carrying() {
		return ecs.None, false
	}
	e := ecs.Entity(p.holder.Holding)
	if !w.IsAlive(e) {
		return ecs.None, false
	}
	return e, true
}

// heldCompanion returns the carried companion if it is alive and not
// destroyed.
func (p playerRefs) heldCompanion(w *ecs.World) (ecs.Entity, *component.Companion, bool) {
	e, ok := p.held(w)
	if !ok {
		return ecs.None, nil, false
	}
	c, ok := ecs.Get(w, e, component.CompanionComponent.Kind())
	if !ok || c.Destroyed {
		return ecs.None, nil, false
	}
	return e, c, true
}

func (p playerRefs) heldHoldable(w *ecs.World) (*component.Holdable, bool) {
	e, ok := p.held(w)
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.HoldableComponent.Kind())
}

func (p playerRefs) jumpPressed() bool {
	return p.input != nil && p.input.JumpPressed
}

func (p playerRefs) moveX() int {
	if p.input == nil {
		return 0
	}
	return p.input.MoveX
}

func (p playerRefs) moveY() int {
	if p.input == nil {
		return 0
	}
	return p.input.MoveY
}
