package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// Throw releases the carried item along the last recorded aim. Neutral aim,
// or a downward aim while grounded, drops it instead. Downward throws kick
// the player up.
func (m *BounceMode) Throw(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() || m.Mode.UseBaselineThrow() {
		m.Baseline.Throw(w, player)
		return
	}
	p, ok := lookupPlayer(w, player)
	if !ok || !p.holder.Carrying() {
		misuse(ErrNotCarrying)
		return
	}
	defer func() {
		p.holder.Holding = 0
		p.timers.SetTimer(component.KeyBounceTimer, 0)
	}()

	item, alive := p.held(w)
	if !alive {
		return
	}
	if comp, ok := ecs.Get(w, item, component.CompanionComponent.Kind()); ok && comp.Destroyed {
		return
	}
	c := m.Tuning.C
	hold, _ := ecs.Get(w, item, component.HoldableComponent.Kind())
	slowFall := hold != nil && hold.SlowFall

	dir := p.timers.Vec(component.KeyLastAim)
	if p.input.Neutral() || (p.body.OnGround && dir.Y() > 0) {
		m.Baseline.Drop(w, player)
		return
	}

	if dir.Y() > 0 {
		v := p.body.Velocity
		p.body.Velocity = mgl64.Vec2{v.X(), math.Min(v.Y(), dir.Y()*c.DownwardThrowRecoil)}
		p.timers.SetVarJump(p.body.Velocity.Y(), c.VarJumpTime)
		p.timers.SetBool(component.KeyAutoJump, true)
		dir = mgl64.Vec2{dir.X() * 0.5, dir.Y() * 2}
	}
	if !slowFall {
		if dir.Y() < 0 {
			dir[1] *= c.ThrowUpAttenuation
		} else {
			dir[1] *= c.ThrowDownAttenuation
		}
	}

	rumble(w, player, rumbleStrong, rumbleShort)
	m.Baseline.Release(w, item, dir)
	playSound(w, player, m.Tuning.Sounds.Throw, p.body.Position)
	emit(w, player, EventAnimation, component.AnimationRequest{Name: "throw"})

	if !slowFall && dir.Y() > 0 && hold != nil {
		hold.CannotHoldTimer = c.CannotHoldTime
	}
}

// Pickup replaces the host's grab delay with a short eased glide of the
// carried item into place, and hands any live boost from the item or from a
// recent bounce to the player.
func (m *BounceMode) Pickup(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() || m.Mode.UseBaselinePickup() {
		m.Baseline.Pickup(w, player)
		return
	}
	p, ok := lookupPlayer(w, player)
	if !ok {
		misuse(ErrNoPlayer)
		return
	}
	item, alive := p.held(w)
	if !alive {
		misuse(ErrNotCarrying)
		return
	}
	c := m.Tuning.C

	playSound(w, player, m.Tuning.Sounds.Lift, p.body.Position)
	rumble(w, player, rumbleMedium, rumbleShort)

	var begin mgl64.Vec2
	if itemBody, ok := ecs.Get(w, item, component.BodyComponent.Kind()); ok {
		begin = itemBody.Position.Sub(p.body.Position)
	}
	target := p.timers.Vec(component.KeyCarryOffsetTarget)
	curve := common.Curve{
		Begin:   begin,
		Control: mgl64.Vec2{begin.X() + common.Sign(begin.X())*2, target.Y() - 2},
		End:     target,
	}
	p.timers.SetVec(component.KeyCarryOffset, begin)
	_ = ecs.Add(w, player, component.PickupTransitionComponent.Kind(), &component.PickupTransition{
		Phase:    component.PickupGliding,
		Target:   uint64(item),
		Duration: c.PickupTime,
		Curve:    curve,
	})
	p.body.State = component.StateNormal

	if hold, ok := ecs.Get(w, item, component.HoldableComponent.Kind()); ok && hold.SlowFall {
		m.transferBoost(w, p, item)
	}

	p.timers.SetTimer(component.KeyMinHoldTimer, c.PickupTime+c.PickupTimeIncrement)
	p.timers.SetTimer(component.KeyForceMoveXTimer, p.timers.Timer(component.KeyBounceWallJumpForceTimer))
}

func (m *BounceMode) transferBoost(w *ecs.World, p playerRefs, item ecs.Entity) {
	c := m.Tuning.C
	companion, ok := ecs.Get(w, item, component.CompanionComponent.Kind())
	isCompanion := ok && !companion.Destroyed

	gliderTimer := p.timers.Timer(component.KeyGliderBoostTimer)
	gliderDir := p.timers.Vec(component.KeyGliderBoostDir)

	boostSound := false
	switch {
	case gliderTimer > 0:
		boostSound = true
		if isCompanion && companion.BoostTimer > gliderTimer {
			gliderDir = m.adoptCompanionBoost(p, companion)
		} else {
			p.timers.SetVec(component.KeyBounceDir, gliderDir)
		}
		m.clampLaunch(p, gliderDir)
	case isCompanion && companion.BoostTimer > 0:
		boostSound = true
		m.clampLaunch(p, m.adoptCompanionBoost(p, companion))
	default:
		v := p.body.Velocity
		boostSound = v.Len() > c.PickupBoostSoundSpeed && v.Y() < 0
	}

	if boostSound {
		playSound(w, p.e, m.Tuning.Sounds.PickupBoost, p.body.Position)
	}
	if p.body.OnGround && p.moveY() == 1 {
		p.timers.SetBool(component.KeyHoldCannotDuck, true)
	}
	if isCompanion && companion.DashAttackTimer > p.timers.Timer(component.KeyDashAttackTimer) {
		p.timers.SetTimer(component.KeyDashAttackTimer, companion.DashAttackTimer)
		p.body.DashDir = companion.DashDir
	}
}

// adoptCompanionBoost moves the companion's stored boost onto the player
// and returns the boost direction.
func (m *BounceMode) adoptCompanionBoost(p playerRefs, companion *component.Companion) mgl64.Vec2 {
	companion.BoostTimer = 0
	p.body.Velocity = companion.BoostSpeed
	p.timers.SetBounceWindow(companion.BoostDir, companion.DashAttackTimer)
	return companion.BoostDir
}

// clampLaunch enforces a minimum upward speed for a boost heading up or
// sideways.
func (m *BounceMode) clampLaunch(p playerRefs, dir mgl64.Vec2) {
	c := m.Tuning.C
	v := p.body.Velocity
	switch {
	case dir.Y() < 0:
		p.body.Velocity = mgl64.Vec2{v.X(), math.Min(v.Y(), -c.DashSpeed*math.Abs(dir.Y()))}
	case dir.Y() == 0:
		p.body.Velocity = mgl64.Vec2{v.X(), math.Min(v.Y(), c.JumpSpeed)}
	}
}

// StepPickup advances a player's pickup glide by dt and writes the eased
// carry offset. A transition whose target is no longer carried, alive, or
// intact is cancelled without touching the offset.
func StepPickup(w *ecs.World, player ecs.Entity, dt float64) (component.PickupPhase, error) {
	tr, ok := ecs.Get(w, player, component.PickupTransitionComponent.Kind())
	if !ok {
		return component.PickupIdle, ErrNoTransition
	}
	if !tr.Running() {
		return tr.Phase, nil
	}

	target := ecs.Entity(tr.Target)
	holder, _ := ecs.Get(w, player, component.HolderComponent.Kind())
	if holder == nil || holder.Holding != tr.Target || !w.IsAlive(target) {
		tr.Phase = component.PickupCancelled
		return tr.Phase, nil
	}
	if companion, ok := ecs.Get(w, target, component.CompanionComponent.Kind()); ok && companion.Destroyed {
		tr.Phase = component.PickupCancelled
		return tr.Phase, nil
	}

	tr.Elapsed += dt
	t := 1.0
	if tr.Duration > 0 {
		t = math.Min(tr.Elapsed/tr.Duration, 1)
	}
	if timers, ok := ecs.Get(w, player, component.TimersComponent.Kind()); ok {
		timers.SetVec(component.KeyCarryOffset, tr.Curve.Point(common.CubeInOut(t)))
	}
	if t >= 1 {
		tr.Phase = component.PickupDone
	}
	return tr.Phase, nil
}

// PickupSystem polls every running pickup glide once per frame.
type PickupSystem struct {
	DT float64
}

func NewPickupSystem(dt float64) *PickupSystem {
	return &PickupSystem{DT: dt}
}

func (s *PickupSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.PickupTransitionComponent.Kind(), func(e ecs.Entity, tr *component.PickupTransition) {
		if !tr.Running() {
			return
		}
		if _, err := StepPickup(w, e, s.DT); err != nil {
			misuse(err)
		}
	})
}
