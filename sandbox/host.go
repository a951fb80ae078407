package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/ecs/system"
)

// Host-owned countdowns kept next to the shared keys in each player's
// timer store.
const (
	keyDashTimer         = "dashTimer"
	keyDashCooldownTimer = "dashCooldownTimer"
)

// Sound events the host plays itself.
const (
	sfxJump          = "event:/char/madeline/jump"
	sfxWallJump      = "event:/char/madeline/jump_wall_right"
	sfxSuperJump     = "event:/char/madeline/jump_super"
	sfxSuperWall     = "event:/char/madeline/jump_superwall"
	sfxHiccup        = "event:/new_content/char/madeline/hiccup_ducking"
	sfxDash          = "event:/char/madeline/dash_red_right"
	sfxDreamEnter    = "event:/char/madeline/dreamblock_enter"
	sfxDreamExit     = "event:/char/madeline/dreamblock_exit"
	sfxLift          = "event:/char/madeline/crystaltheo_lift"
	sfxThrow         = "event:/char/madeline/crystaltheo_throw"
	sfxDeath         = "event:/char/madeline/death"
	sfxCompanionDash = "event:/char/badeline/boost"
)

// Lift boost caps applied to jumps off moving solids.
const (
	liftXCap = 250
	liftYCap = 130
)

// Hooks is the set of intercepted movement events the player system calls.
// BounceMode satisfies it by overriding, Host by running its own movement.
type Hooks interface {
	Jump(w *ecs.World, player ecs.Entity, particles, playSfx bool)
	WallJump(w *ecs.World, player ecs.Entity, dir int)
	SuperJump(w *ecs.World, player ecs.Entity)
	SuperWallJump(w *ecs.World, player ecs.Entity, dir int)
	ClimbJump(w *ecs.World, player ecs.Entity)
	StartDash(w *ecs.World, player ecs.Entity) component.PrimaryState
	DreamDashBegin(w *ecs.World, player ecs.Entity)
	DreamDashEnd(w *ecs.World, player ecs.Entity)
	RefillDash(w *ecs.World, player ecs.Entity) bool
	Throw(w *ecs.World, player ecs.Entity)
	Pickup(w *ecs.World, player ecs.Entity)
	ClimbCheck(w *ecs.World, player ecs.Entity, dir, yAdd int) bool
	IsRiding(w *ecs.World, player, solid ecs.Entity) bool
	EnforceBounds(w *ecs.World, player ecs.Entity)
}

var (
	_ system.Baseline = (*Host)(nil)
	_ Hooks           = (*Host)(nil)
	_ Hooks           = (*system.BounceMode)(nil)
)

// Host is the sandbox's own movement. It implements the baseline every
// bounce override falls through to, and routes its state machine's events
// through Bounce when one is installed.
type Host struct {
	Move     Movement
	Solids   *system.SolidIndex
	Registry *system.SolidRegistry
	Bounce   *system.BounceMode
}

func NewHost(move Movement, solids *system.SolidIndex, registry *system.SolidRegistry) *Host {
	if solids == nil {
		solids = system.NewSolidIndex()
	}
	return &Host{Move: move, Solids: solids, Registry: registry}
}

func (h *Host) hooks() Hooks {
	if h.Bounce != nil {
		return h.Bounce
	}
	return h
}

func (h *Host) registry() *system.SolidRegistry {
	if h.Bounce != nil && h.Bounce.Tuning != nil && h.Bounce.Tuning.Solids != nil {
		return h.Bounce.Tuning.Solids
	}
	return h.Registry
}

// actor bundles a player's components. Input and inventory fall back to
// zero values that are not stored.
type actor struct {
	e         ecs.Entity
	body      *component.Body
	input     *component.Input
	inventory *component.Inventory
	timers    *component.Timers
	holder    *component.Holder
}

func (h *Host) actor(w *ecs.World, e ecs.Entity) (actor, bool) {
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return actor{}, false
	}
	a := actor{e: e, body: body}
	if a.input, ok = ecs.Get(w, e, component.InputComponent.Kind()); !ok {
		a.input = &component.Input{}
	}
	if a.inventory, ok = ecs.Get(w, e, component.InventoryComponent.Kind()); !ok {
		a.inventory = &component.Inventory{}
	}
	if a.timers, ok = ecs.Get(w, e, component.TimersComponent.Kind()); !ok {
		a.timers = component.NewTimers()
		_ = ecs.Add(w, e, component.TimersComponent.Kind(), a.timers)
	}
	if a.holder, ok = ecs.Get(w, e, component.HolderComponent.Kind()); !ok {
		a.holder = &component.Holder{}
	}
	return a, true
}

func (a actor) moveX() int {
	if a.timers.Active(component.KeyForceMoveXTimer) {
		return a.timers.Int(component.KeyForceMoveX)
	}
	return a.input.MoveX
}

func (a actor) held(w *ecs.World) (ecs.Entity, bool) {
	if !a.holder.Carrying() {
		return ecs.None, false
	}
	e := ecs.Entity(a.holder.Holding)
	return e, w.IsAlive(e)
}

func (a actor) heldHoldable(w *ecs.World) (*component.Holdable, bool) {
	e, ok := a.held(w)
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.HoldableComponent.Kind())
}

func sound(w *ecs.World, e ecs.Entity, event string, at mgl64.Vec2) {
	w.Events().Push(ecs.Event{Type: system.EventSound, Entity: e, Data: component.SoundRequest{Event: event, At: at}})
}

func liftBoost(lift mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		common.ClampAbs(lift.X(), liftXCap),
		math.Max(math.Min(lift.Y(), 0), -liftYCap),
	}
}

// launch writes the shared jump bookkeeping and a new velocity.
func (h *Host) launch(a actor, v mgl64.Vec2, varTime float64) {
	a.input.ConsumeJumpBuffer()
	a.timers.SetTimer(component.KeyJumpGraceTimer, 0)
	a.timers.SetTimer(component.KeyDashAttackTimer, 0)
	a.timers.SetBool(component.KeyAutoJump, false)
	a.body.Velocity = v
	a.timers.SetVarJump(v.Y(), varTime)
}

func (h *Host) Jump(w *ecs.World, player ecs.Entity, _, playSfx bool) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	m := h.Move
	lift := liftBoost(a.body.LiftSpeed)
	v := mgl64.Vec2{
		a.body.Velocity.X() + m.JumpHBoost*float64(a.moveX()) + lift.X(),
		m.JumpSpeed + lift.Y(),
	}
	h.launch(a, v, m.VarJumpTime)
	if playSfx {
		sound(w, player, sfxJump, a.body.Position)
	}
}

func (h *Host) WallJump(w *ecs.World, player ecs.Entity, dir int) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	m := h.Move
	a.body.Ducking = false
	if a.moveX() != 0 {
		a.timers.SetForceMoveX(dir, m.WallJumpForceTime)
	}
	lift := liftBoost(a.body.LiftSpeed)
	h.launch(a, mgl64.Vec2{m.WallJumpHSpeed*float64(dir) + lift.X(), m.JumpSpeed + lift.Y()}, m.VarJumpTime)
	a.body.Facing = dir
	sound(w, player, sfxWallJump, a.body.Position)
}

func (h *Host) SuperJump(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	m := h.Move
	v := mgl64.Vec2{m.SuperJumpH * float64(a.body.Facing), m.JumpSpeed}
	if a.body.Ducking {
		a.body.Ducking = false
		v = mgl64.Vec2{v.X() * m.DuckSuperJumpXMult, v.Y() * m.DuckSuperJumpYMult}
	}
	h.launch(a, v.Add(liftBoost(a.body.LiftSpeed)), m.VarJumpTime)
	sound(w, player, sfxSuperJump, a.body.Position)
}

func (h *Host) SuperWallJump(w *ecs.World, player ecs.Entity, dir int) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	m := h.Move
	a.body.Ducking = false
	v := mgl64.Vec2{m.SuperWallJumpH * float64(dir), m.SuperWallJumpSpeed}
	h.launch(a, v.Add(liftBoost(a.body.LiftSpeed)), m.SuperWallJumpVarTime)
	a.body.Facing = dir
	sound(w, player, sfxSuperWall, a.body.Position)
}

// ClimbJump jumps straight off the wall; pushing away from it turns into a
// wall jump.
func (h *Host) ClimbJump(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	if a.moveX() == -a.body.Facing {
		h.WallJump(w, player, -a.body.Facing)
		return
	}
	h.Jump(w, player, false, true)
}

func (h *Host) HiccupJump(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	a.body.Ducking = false
	a.timers.SetTimer(component.KeyVarJumpTimer, 0)
	a.body.Velocity[1] = math.Min(a.body.Velocity.Y(), h.Move.HiccupSpeed)
	sound(w, player, sfxHiccup, a.body.Position)
}

// StartDash spends a charge and launches along the last aim.
func (h *Host) StartDash(w *ecs.World, player ecs.Entity) component.PrimaryState {
	a, ok := h.actor(w, player)
	if !ok {
		return component.StateNormal
	}
	if a.inventory.Dashes <= 0 {
		return a.body.State
	}
	m := h.Move
	a.inventory.Spend()
	a.input.ConsumeDashBuffer()

	dir := common.Normalize(a.timers.Vec(component.KeyLastAim))
	if dir == (mgl64.Vec2{}) {
		dir = mgl64.Vec2{float64(a.body.Facing), 0}
	}
	a.timers.SetVec(component.KeyBeforeDashSpeed, a.body.Velocity)
	a.body.DashDir = dir
	a.body.Velocity = dir.Mul(m.DashSpeed)
	if dir.X() != 0 {
		a.body.Facing = int(common.Sign(dir.X()))
	}
	a.body.Ducking = dir.Y() > 0 && dir.X() != 0 && a.body.OnGround

	a.timers.SetTimer(keyDashTimer, m.DashTime)
	a.timers.SetTimer(keyDashCooldownTimer, m.DashCooldown)
	a.timers.SetTimer(component.KeyDashRefillCooldownTimer, m.DashRefillCooldown)
	a.timers.SetTimer(component.KeyDashAttackTimer, m.DashAttackTime)
	a.timers.SetTimer(component.KeyVarJumpTimer, 0)
	sound(w, player, sfxDash, a.body.Position)
	return component.StateDash
}

func (h *Host) DreamDashBegin(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	a.body.State = component.StateDreamDash
	a.body.Velocity = a.body.DashDir.Mul(h.Move.DashSpeed)
	a.timers.SetBool(component.KeyDreamJump, false)
	sound(w, player, sfxDreamEnter, a.body.Position)
}

func (h *Host) DreamDashEnd(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok {
		return
	}
	a.body.State = component.StateNormal
	a.inventory.Refill()
	a.timers.SetTimer(component.KeyJumpGraceTimer, h.Move.JumpGraceTime)
	a.timers.SetBool(component.KeyDreamJump, true)
	sound(w, player, sfxDreamExit, a.body.Position)
}

func (h *Host) RefillDash(w *ecs.World, player ecs.Entity) bool {
	inv, ok := ecs.Get(w, player, component.InventoryComponent.Kind())
	return ok && inv.Refill()
}

// Throw releases the carried item forward, or drops it while holding down.
func (h *Host) Throw(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok || !a.holder.Carrying() {
		return
	}
	if a.input.MoveY == 1 {
		h.Drop(w, player)
		return
	}
	if item, alive := a.held(w); alive {
		h.Release(w, item, mgl64.Vec2{float64(a.body.Facing), 0})
		sound(w, player, sfxThrow, a.body.Position)
	}
	a.holder.Holding = 0
}

func (h *Host) Drop(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok || !a.holder.Carrying() {
		return
	}
	if item, alive := a.held(w); alive {
		h.Release(w, item, mgl64.Vec2{})
	}
	a.holder.Holding = 0
}

// Release hands item its own velocity. Level throws get a small lift.
func (h *Host) Release(w *ecs.World, item ecs.Entity, dir mgl64.Vec2) {
	body, ok := ecs.Get(w, item, component.BodyComponent.Kind())
	if !ok {
		return
	}
	force := dir
	if force.X() != 0 && force.Y() == 0 {
		force[1] = h.Move.ThrowLift
	}
	body.Velocity = force.Mul(h.Move.ThrowSpeed)
	if hold, ok := ecs.Get(w, item, component.HoldableComponent.Kind()); ok {
		hold.Released = true
		hold.ReleaseDir = dir
	}
}

// Pickup snaps the item into its carry slot and holds on to it for a
// while.
func (h *Host) Pickup(w *ecs.World, player ecs.Entity) {
	a, ok := h.actor(w, player)
	if !ok || !a.holder.Carrying() {
		return
	}
	a.timers.SetVec(component.KeyCarryOffset, a.timers.Vec(component.KeyCarryOffsetTarget))
	a.timers.SetTimer(component.KeyMinHoldTimer, h.Move.BaselineHoldTime)
	a.body.State = component.StateNormal
	sound(w, player, sfxLift, a.body.Position)
}

func (h *Host) ClimbCheck(w *ecs.World, player ecs.Entity, dir, yAdd int) bool {
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return false
	}
	offset := mgl64.Vec2{float64(dir) * h.Move.ClimbCheckDist, float64(yAdd)}
	_, hit := h.solidAt(w, body.Hitbox().Offset(offset), false)
	return hit
}

// IsRiding reports whether the player stands on solid.
func (h *Host) IsRiding(w *ecs.World, player, solid ecs.Entity) bool {
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok || body.Velocity.Y() < 0 {
		return false
	}
	s, ok := ecs.Get(w, solid, component.SolidComponent.Kind())
	return ok && s.Bounds.Overlaps(body.Hitbox().Offset(mgl64.Vec2{0, 1}))
}

// EnforceBounds keeps the player between the room's side walls.
func (h *Host) EnforceBounds(w *ecs.World, player ecs.Entity) {
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return
	}
	boundsEnt, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	lb, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())
	if body.Position.X() < lb.Bounds.Left() {
		body.Position[0] = lb.Bounds.Left()
		body.Velocity[0] = math.Max(body.Velocity.X(), 0)
	}
	if right := lb.Bounds.Right() - body.Width; body.Position.X() > right {
		body.Position[0] = right
		body.Velocity[0] = math.Min(body.Velocity.X(), 0)
	}
}
