package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/sirupsen/logrus"
)

// playerState runs one primary state for a frame. Transitions are written
// straight to the body; the hooks may change it too.
type playerState interface {
	Name() string
	Update(s *PlayerSystem, w *ecs.World, a actor)
}

// Player state singletons.
var playerStates = map[component.PrimaryState]playerState{
	component.StateNormal:    normalState{},
	component.StateClimb:     climbState{},
	component.StateDash:      dashState{},
	component.StateDreamDash: dreamDashState{},
}

type normalState struct{}

type climbState struct{}

type dashState struct{}

type dreamDashState struct{}

// PlayerSystem drives the player's state machine and moves it through the
// room. Every intercepted event goes through the installed hooks.
type PlayerSystem struct {
	Host  *Host
	DT    float64
	Spawn mgl64.Vec2
}

func (s *PlayerSystem) Update(w *ecs.World) {
	if s == nil || s.Host == nil || w == nil {
		return
	}
	e, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	a, ok := s.Host.actor(w, e)
	if !ok {
		return
	}

	s.preUpdate(w, a)

	before := a.body.State
	if st, ok := playerStates[a.body.State]; ok {
		st.Update(s, w, a)
	}
	if a.body.State != before {
		log().WithFields(logrus.Fields{
			"from": before,
			"to":   a.body.State,
		}).Debug("player state")
	}

	// Carry and throw run after the state's jump and dash events.
	s.updateCarry(w, a)
	s.move(w, a)
	s.Host.hooks().EnforceBounds(w, e)
	if s.fellOut(w, a) {
		s.die(w, a)
	}
	if b := s.Host.Bounce; b != nil {
		b.AfterUpdate(w, e)
	}
}

// preUpdate refreshes ground contact, facing and aim.
func (s *PlayerSystem) preUpdate(w *ecs.World, a actor) {
	h := s.Host
	m := h.Move

	a.body.OnGround = h.onGround(w, a.body)
	a.body.LiftSpeed = mgl64.Vec2{}
	if a.body.OnGround {
		a.timers.SetTimer(component.KeyJumpGraceTimer, m.JumpGraceTime)
		a.timers.SetBool(component.KeyDreamJump, false)
		if riding, ok := h.solidAt(w, a.body.Hitbox().Offset(mgl64.Vec2{0, 1}), false); ok {
			if solid, ok := ecs.Get(w, riding, component.SolidComponent.Kind()); ok {
				a.body.LiftSpeed = solid.LiftSpeed
			}
		}
		if a.body.State != component.StateDash && !a.timers.Active(component.KeyDashRefillCooldownTimer) {
			h.hooks().RefillDash(w, a.e)
		}
	}

	moveX := a.moveX()
	a.timers.SetInt(component.KeyMoveX, moveX)
	if moveX != 0 && a.body.State != component.StateDash && a.body.State != component.StateClimb {
		a.body.Facing = moveX
	}
	if a.body.Facing == 0 {
		a.body.Facing = 1
	}

	aim := common.Normalize(a.input.Aim)
	if aim == (mgl64.Vec2{}) {
		aim = mgl64.Vec2{float64(a.body.Facing), 0}
	}
	a.timers.SetVec(component.KeyLastAim, aim)

	if a.input.MoveY != 1 {
		a.timers.SetBool(component.KeyHoldCannotDuck, false)
	}
	if a.body.OnGround && a.body.State == component.StateNormal {
		a.body.Ducking = a.input.MoveY == 1 && !a.timers.Bool(component.KeyHoldCannotDuck)
	}
}

// updateCarry grabs items in reach while grab is held and throws the
// carried one when grab is let go.
func (s *PlayerSystem) updateCarry(w *ecs.World, a actor) {
	h := s.Host
	if a.holder.Carrying() {
		if _, alive := a.held(w); !alive {
			a.holder.Holding = 0
			return
		}
		if !a.input.Grab && !a.timers.Active(component.KeyMinHoldTimer) {
			h.hooks().Throw(w, a.e)
		}
		return
	}
	if !a.input.Grab || (a.body.State != component.StateNormal && a.body.State != component.StateDash) {
		return
	}
	item, itemBody, ok := h.grabbable(w, a)
	if !ok {
		return
	}
	a.holder.Holding = uint64(item)
	a.timers.SetVec(component.KeyCarryOffsetTarget, mgl64.Vec2{
		(a.body.Width - itemBody.Width) / 2,
		-itemBody.Height,
	})
	h.hooks().Pickup(w, a.e)
}

// grabbable returns the first loose item within grab range.
func (h *Host) grabbable(w *ecs.World, a actor) (ecs.Entity, *component.Body, bool) {
	reach := a.body.Hitbox()
	reach.X -= h.Move.GrabRange
	reach.Y -= h.Move.GrabRange
	reach.Width += 2 * h.Move.GrabRange
	reach.Height += 2 * h.Move.GrabRange

	found := ecs.None
	var foundBody *component.Body
	ecs.ForEach2(w, component.HoldableComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, hold *component.Holdable, body *component.Body) {
		if found != ecs.None || hold.CannotHoldTimer > 0 || !body.Hitbox().Overlaps(reach) {
			return
		}
		if c, ok := ecs.Get(w, e, component.CompanionComponent.Kind()); ok && c.Destroyed {
			return
		}
		found = e
		foundBody = body
	})
	return found, foundBody, found != ecs.None
}

func (normalState) Name() string { return "normal" }
func (normalState) Update(s *PlayerSystem, w *ecs.World, a actor) {
	h := s.Host
	hooks := h.hooks()
	m := h.Move
	dt := s.DT

	if a.input.DashPressed && a.inventory.Dashes > 0 && !a.timers.Active(keyDashCooldownTimer) {
		a.body.State = hooks.StartDash(w, a.e)
		if a.body.State == component.StateDash {
			s.dashBegan(w, a)
		}
		return
	}
	if a.input.Grab && !a.holder.Carrying() && hooks.ClimbCheck(w, a.e, a.body.Facing, 0) {
		a.body.State = component.StateClimb
		a.body.Velocity = mgl64.Vec2{}
		return
	}

	moveX := a.moveX()
	mult := 1.0
	if !a.body.OnGround {
		mult = m.AirMult
	}
	vx := a.body.Velocity.X()
	target := float64(moveX) * m.MaxRun
	if math.Abs(vx) > m.MaxRun && common.Sign(vx) == float64(moveX) {
		vx = common.Approach(vx, target, m.RunReduce*mult*dt)
	} else {
		vx = common.Approach(vx, target, m.RunAccel*mult*dt)
	}

	vy := a.body.Velocity.Y()
	if !a.body.OnGround || vy < 0 {
		g := m.Gravity
		if math.Abs(vy) < m.HalfGravThreshold && a.input.Jump {
			g *= 0.5
		}
		vy = common.Approach(vy, s.maxFall(w, a), g*dt)
	}
	if a.timers.Active(component.KeyVarJumpTimer) {
		if a.input.Jump || a.timers.Bool(component.KeyAutoJump) {
			vy = math.Min(vy, a.timers.Float(component.KeyVarJumpSpeed))
		} else {
			a.timers.SetTimer(component.KeyVarJumpTimer, 0)
		}
	} else {
		a.timers.SetBool(component.KeyAutoJump, false)
	}
	a.body.Velocity = mgl64.Vec2{vx, vy}

	if a.input.JumpPressed {
		switch {
		case a.timers.Active(component.KeyJumpGraceTimer):
			hooks.Jump(w, a.e, true, true)
		case h.wallJumpCheck(w, a.body, 1):
			hooks.WallJump(w, a.e, -1)
		case h.wallJumpCheck(w, a.body, -1):
			hooks.WallJump(w, a.e, 1)
		}
	}

	if b := h.Bounce; b != nil {
		a.body.State = b.AfterNormalUpdate(w, a.e, a.body.State)
	}
}

// dashBegan runs the post-dash-start hooks in the order the host fires its
// dash events.
func (s *PlayerSystem) dashBegan(w *ecs.World, a actor) {
	if b := s.Host.Bounce; b != nil {
		b.AfterDashBegin(w, a.e)
		b.AfterDashEvents(w, a.e)
	}
}

func (s *PlayerSystem) maxFall(w *ecs.World, a actor) float64 {
	h := s.Host
	m := h.Move
	fallMult, slowMult := 1.0, 1.0
	if h.Bounce != nil {
		fallMult = h.Bounce.FallSpeedMultiplier()
		slowMult = h.Bounce.SlowFallMultiplier()
	}
	if hold, ok := a.heldHoldable(w); ok && hold.SlowFall {
		if a.input.MoveY == 1 {
			return m.MaxFall * fallMult
		}
		return m.SlowFall * slowMult
	}
	if a.input.MoveY == 1 {
		return m.FastMaxFall
	}
	return m.MaxFall
}

func (climbState) Name() string { return "climb" }
func (climbState) Update(s *PlayerSystem, w *ecs.World, a actor) {
	hooks := s.Host.hooks()
	a.body.Velocity = mgl64.Vec2{}
	if a.input.JumpPressed {
		hooks.ClimbJump(w, a.e)
		a.body.State = component.StateNormal
		return
	}
	if !a.input.Grab || !hooks.ClimbCheck(w, a.e, a.body.Facing, 0) {
		a.body.State = component.StateNormal
		return
	}
	a.body.Velocity[1] = float64(a.input.MoveY) * s.Host.Move.MaxRun * 0.5
}

func (dashState) Name() string { return "dash" }
func (dashState) Update(s *PlayerSystem, w *ecs.World, a actor) {
	h := s.Host
	hooks := h.hooks()
	m := h.Move
	dir := a.body.DashDir

	if a.input.JumpPressed {
		switch {
		case dir.Y() >= 0 && dir.X() != 0 && a.timers.Active(component.KeyJumpGraceTimer):
			hooks.SuperJump(w, a.e)
			a.body.State = component.StateNormal
		case dir.X() == 0 && dir.Y() < 0 && h.wallJumpCheck(w, a.body, 1):
			hooks.SuperWallJump(w, a.e, -1)
			a.body.State = component.StateNormal
		case dir.X() == 0 && dir.Y() < 0 && h.wallJumpCheck(w, a.body, -1):
			hooks.SuperWallJump(w, a.e, 1)
			a.body.State = component.StateNormal
		case h.wallJumpCheck(w, a.body, 1):
			hooks.WallJump(w, a.e, -1)
			a.body.State = component.StateNormal
		case h.wallJumpCheck(w, a.body, -1):
			hooks.WallJump(w, a.e, 1)
			a.body.State = component.StateNormal
		}
	}

	if a.body.State == component.StateDash && !a.timers.Active(keyDashTimer) {
		a.body.State = component.StateNormal
		if dir.Y() <= 0 {
			v := dir.Mul(m.EndDashSpeed)
			if dir.Y() < 0 {
				v[1] *= m.EndDashUpMult
			}
			a.body.Velocity = v
		}
	}

	if b := h.Bounce; b != nil {
		a.body.State = b.AfterDashUpdate(w, a.e, a.body.State)
	}
}

func (dreamDashState) Name() string { return "dream_dash" }
func (dreamDashState) Update(s *PlayerSystem, w *ecs.World, a actor) {}

// move steps the player along each axis and resolves the solids it runs
// into. A dash that turns into a dream dash keeps its remaining travel.
func (s *PlayerSystem) move(w *ecs.World, a actor) {
	h := s.Host
	v := a.body.Velocity.Mul(s.DT)
	for axis := 0; axis < 2; axis++ {
		amount := v[axis]
		for amount != 0 {
			before := a.body.State
			hit, rest, blocked := h.moveAxis(w, a.body, axis, amount, before == component.StateDreamDash)
			if !blocked {
				break
			}
			s.onCollide(w, a, hit, axis)
			if before != component.StateDash || a.body.State != component.StateDreamDash {
				break
			}
			amount = rest
		}
	}
	if a.body.State == component.StateDreamDash && !h.insidePorous(w, a.body.Hitbox()) {
		h.hooks().DreamDashEnd(w, a.e)
	}
}

func (s *PlayerSystem) onCollide(w *ecs.World, a actor, hit ecs.Entity, axis int) {
	h := s.Host
	hooks := h.hooks()
	if a.body.State == component.StateDash && a.inventory.DreamDash && h.isPorous(w, hit) {
		hooks.DreamDashBegin(w, a.e)
		if a.body.State != component.StateDreamDash {
			// Entered and left within the same event.
			hooks.DreamDashEnd(w, a.e)
		}
		return
	}
	if a.body.State == component.StateDreamDash {
		hooks.DreamDashEnd(w, a.e)
	}
	a.body.Velocity[axis] = 0
}

func (s *PlayerSystem) fellOut(w *ecs.World, a actor) bool {
	boundsEnt, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return false
	}
	lb, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())
	return a.body.Position.Y() > lb.Bounds.Bottom()+s.Host.Move.DeathMargin
}

// die drops whatever the player holds and respawns it at the room's spawn
// point.
func (s *PlayerSystem) die(w *ecs.World, a actor) {
	h := s.Host
	sound(w, a.e, sfxDeath, a.body.Position)
	if a.holder.Carrying() {
		h.Drop(w, a.e)
	}
	if b := h.Bounce; b != nil {
		b.AfterDie(w, a.e, mgl64.Vec2{0, -1})
	}
	log().WithField("at", a.body.Position).Info("player died")

	a.body.Position = s.Spawn
	a.body.Velocity = mgl64.Vec2{}
	a.body.State = component.StateNormal
	a.body.Ducking = false
	a.inventory.Refill()
}
