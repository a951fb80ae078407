package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/sirupsen/logrus"
)

var (
	vecUp   = mgl64.Vec2{0, -1}
	vecDown = mgl64.Vec2{0, 1}
)

// canBounce reports whether the companion bounce window is open: a dash
// direction was recorded recently and a live companion is carried.
func (m *BounceMode) canBounce(w *ecs.World, p playerRefs) bool {
	if p.timers.Timer(component.KeyBounceTimer) <= 0 {
		return false
	}
	_, _, ok := p.heldCompanion(w)
	return ok
}

func (m *BounceMode) probe(p playerRefs, offset mgl64.Vec2) common.Rect {
	return p.body.HitboxAt(p.body.Position.Add(offset))
}

// WallJump turns dash wall jumps into sideways or diagonal bounces and
// disables neutral wall jumps.
func (m *BounceMode) WallJump(w *ecs.World, player ecs.Entity, dir int) {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok {
		m.Baseline.WallJump(w, player, dir)
		return
	}
	c := m.Tuning.C

	companionBounce := m.canBounce(w, p)
	if companionBounce {
		p.body.DashDir = p.timers.Vec(component.KeyBounceDir)
		// A red dash super wall jump comes back here as a wall jump.
		if p.body.DashDir == vecUp && p.body.State != component.StateRedDash {
			m.SuperWallJump(w, player, dir)
			return
		}
	}

	m.Baseline.WallJump(w, player, dir)

	if p.body.State == component.StateDash || p.bounce.DreamBounced || companionBounce {
		class, strength := ClassDiagonal, StrengthDiagonal
		dash := p.body.DashDir
		if dash.X() == 0 || dash.Y() == 0 {
			class, strength = ClassSideways, StrengthPerpendicular
			if dash == vecDown && p.body.OnGround {
				p.bounce.CornerBounced = true
			}
		}
		playSound(w, player, m.Tuning.Sound(class), p.body.Position)

		base := m.Tuning.Speed(class)
		base[0] *= float64(dir)
		m.bounce(w, p, BounceParams{
			Base:     base,
			Strength: strength,
			Surface:  mgl64.Vec2{float64(-dir), 0},
		})
	} else {
		m.activateAt(w, p, m.probe(p, mgl64.Vec2{float64(-dir) * c.WallJumpCheckDist, 0}))
		p.timers.SetTimer(component.KeyBounceWallJumpForceTimer, c.GliderWallJumpForceTime)
	}

	if p.bounce.HoleBounced {
		p.timers.SetTimer(component.KeyForceMoveXTimer, 0)
		p.bounce.HoleBounced = false
		return
	}
	force := c.WallJumpForceTime
	if hold, ok := p.heldHoldable(w); ok && hold.SlowFall {
		force = c.GliderWallJumpForceTime
	}
	p.timers.SetForceMoveX(dir, force)
}

// activateAt starts every activator overlapping region the player may
// trigger.
func (m *BounceMode) activateAt(w *ecs.World, p playerRefs, region common.Rect) {
	_, _, carrying := p.heldCompanion(w)
	for _, e := range m.Solids.Overlapping(w, region) {
		solid, ok := ecs.Get(w, e, component.SolidComponent.Kind())
		if !ok || !m.Tuning.Solids.Capabilities(solid).Has(component.CapActivator) {
			continue
		}
		if act, ok := ecs.Get(w, e, component.ActivatorComponent.Kind()); ok && (!act.Special || carrying) {
			act.Activate()
		}
	}
}

// AfterDashUpdate runs after the host's dash update and turns a jump
// pressed during a vertical dash into a floor or ceiling bounce. It returns
// the state the host should switch to.
func (m *BounceMode) AfterDashUpdate(w *ecs.World, player ecs.Entity, state component.PrimaryState) component.PrimaryState {
	if !m.Enabled() {
		return state
	}
	p, ok := lookupPlayer(w, player)
	if !ok || !p.jumpPressed() || !(state == component.StateDash || p.bounce.CornerBounced) {
		return state
	}

	switch {
	case p.body.DashDir == vecDown && (p.timers.Timer(component.KeyJumpGraceTimer) > 0 || p.bounce.CornerBounced):
		m.downwardBounce(w, p, true)
	case p.body.DashDir == vecUp && CollideCheck(m.Solids, w, m.probe(p, vecUp)):
		m.ceilingBounce(w, p)
	default:
		return state
	}
	p.timers.SetTimer(component.KeyBounceTimer, 0)
	return component.StateNormal
}

// DreamDashBegin bounces off a porous surface instead of entering it when
// jump is pressed.
func (m *BounceMode) DreamDashBegin(w *ecs.World, player ecs.Entity) {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok || !p.jumpPressed() {
		m.Baseline.DreamDashBegin(w, player)
		return
	}
	p.input.ConsumeJumpBuffer()
	p.bounce.DreamBounced = true

	dash := p.body.DashDir
	dx := common.Sign(dash.X())
	switch {
	case dash.X() == 0:
		if dash.Y() > 0 {
			m.downwardBounce(w, p, true)
		} else {
			m.ceilingBounce(w, p)
		}
		p.body.State = component.StateNormal
	case dash.Y() == 0 || m.porousAt(w, m.probe(p, SurfaceNormal(mgl64.Vec2{dx, 0}))):
		m.WallJump(w, player, int(-dx))
		p.body.State = component.StateNormal
	case dash.Y() > 0:
		p.body.Ducking = true
		m.SuperJump(w, player)
		p.body.State = component.StateNormal
		m.refillIfAllowed(w, p)
	default:
		// No diagonal ceiling bounce.
		m.Baseline.DreamDashBegin(w, player)
	}
}

func (m *BounceMode) porousAt(w *ecs.World, region common.Rect) bool {
	for _, e := range m.Solids.Overlapping(w, region) {
		if solid, ok := ecs.Get(w, e, component.SolidComponent.Kind()); ok && m.Tuning.Solids.Capabilities(solid).Has(component.CapPorous) {
			return true
		}
	}
	return false
}

// DreamDashEnd swallows the end of a dream dash that was turned into a
// bounce. Otherwise a carried companion gets its dash back.
func (m *BounceMode) DreamDashEnd(w *ecs.World, player ecs.Entity) {
	p, ok := lookupPlayer(w, player)
	if ok && p.bounce.DreamBounced {
		p.bounce.DreamBounced = false
		return
	}
	m.Baseline.DreamDashEnd(w, player)
	if !m.Enabled() || !ok {
		return
	}
	if _, c, ok := p.heldCompanion(w); ok {
		c.RefillDash()
	}
}

// SuperJump turns a super jump into a sideways floor bounce, or a diagonal
// one when ducking.
func (m *BounceMode) SuperJump(w *ecs.World, player ecs.Entity) {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok {
		m.Baseline.SuperJump(w, player)
		return
	}
	if p.body.State == component.StateRedDash {
		m.Jump(w, player, true, true)
		return
	}
	c := m.Tuning.C

	diagonal := p.body.Ducking
	// The host's sound follows the duck flag; the bounce swaps the velocities.
	p.body.Ducking = !p.body.Ducking
	m.Baseline.SuperJump(w, player)

	class, strength := ClassSideways, StrengthParallel
	if diagonal {
		class, strength = ClassDiagonal, StrengthDiagonal
	}
	facing := float64(p.body.Facing)
	base := m.Tuning.Speed(class)
	base[0] *= facing

	surface, dist := vecDown, c.WallJumpCheckDist
	if p.timers.Bool(component.KeyDreamJump) {
		surface, dist = mgl64.Vec2{-facing, 0}, c.DreamJumpCheckDist
	}
	m.bounce(w, p, BounceParams{Base: base, Strength: strength, Surface: surface, Ripple: true, Distance: dist})
}

// SuperWallJump turns a super wall jump into an upward wall bounce.
func (m *BounceMode) SuperWallJump(w *ecs.World, player ecs.Entity, dir int) {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok {
		m.Baseline.SuperWallJump(w, player, dir)
		return
	}
	if p.body.State == component.StateRedDash {
		m.WallJump(w, player, dir)
		return
	}
	m.Baseline.SuperWallJump(w, player, dir)

	base := m.Tuning.Speed(ClassUpwards)
	base[0] *= float64(dir)
	m.bounce(w, p, BounceParams{
		Base:     base,
		Strength: StrengthParallel,
		Surface:  mgl64.Vec2{float64(-dir), 0},
		Ripple:   true,
		Distance: m.Tuning.C.SuperWallJumpCheckDist,
	})
}

// Jump turns a jump inside the companion bounce window into the bounce the
// recorded dash direction calls for.
func (m *BounceMode) Jump(w *ecs.World, player ecs.Entity, particles, playSfx bool) {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok || !m.canBounce(w, p) {
		m.Baseline.Jump(w, player, particles, playSfx)
		return
	}

	dir := p.timers.Vec(component.KeyBounceDir)
	if dir == vecDown {
		check := m.Tuning.C.WallJumpCheckDist
		right := CollideCheck(m.Solids, w, m.probe(p, mgl64.Vec2{check, 0}))
		left := CollideCheck(m.Solids, w, m.probe(p, mgl64.Vec2{-check, 0}))
		switch {
		case right && !left:
			m.WallJump(w, player, -1)
		case left && !right:
			m.WallJump(w, player, 1)
		}
		m.downwardBounce(w, p, false)
		return
	}
	if dir.Y() > 0 {
		p.body.Ducking = true
	}
	m.SuperJump(w, player)
}

// AfterNormalUpdate allows ceiling bounces from the companion bounce window
// and keeps carried items from being ducked into the floor mid-air.
func (m *BounceMode) AfterNormalUpdate(w *ecs.World, player ecs.Entity, state component.PrimaryState) component.PrimaryState {
	if !m.Enabled() {
		return state
	}
	p, ok := lookupPlayer(w, player)
	if !ok {
		return state
	}
	if state == component.StateNormal && p.jumpPressed() && m.canBounce(w, p) && CollideCheck(m.Solids, w, m.probe(p, vecUp)) {
		m.ceilingBounce(w, p)
	}
	if !p.body.OnGround && p.holder.Carrying() {
		p.timers.SetBool(component.KeyHoldCannotDuck, p.moveY() == 1)
	}
	return state
}

// AfterUpdate kicks the player out of the climb state.
func (m *BounceMode) AfterUpdate(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() {
		return
	}
	if body, ok := ecs.Get(w, player, component.BodyComponent.Kind()); ok && body.State == component.StateClimb {
		body.State = component.StateNormal
	}
}

// StartDash applies the dash direction policy to the last recorded aim and
// returns the state the host should switch to.
func (m *BounceMode) StartDash(w *ecs.World, player ecs.Entity) component.PrimaryState {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok {
		return m.Baseline.StartDash(w, player)
	}
	current := p.body.State
	aim := p.timers.Vec(component.KeyLastAim)
	bucket := Classify(aim)
	result := m.Tuning.Policy.Decide(bucket)

	Log().WithFields(logrus.Fields{
		"bucket": BucketName(bucket),
		"result": result,
	}).Debug("start dash")

	switch result {
	case DashAllowed:
		p.timers.SetBounceWindow(aim, m.Tuning.C.DashAttackTime)
		return m.Baseline.StartDash(w, player)
	case DashHiccup:
		if current == component.StateNormal {
			m.Baseline.HiccupJump(w, player)
			boost := m.Tuning.C.HiccupBoost.Vec()
			moveX := float64(p.timers.Int(component.KeyMoveX))
			p.body.Velocity = p.body.Velocity.Add(mgl64.Vec2{boost.X() * moveX, boost.Y()})
			p.inventory.Spend()
		}
	}
	p.input.ConsumeDashBuffer()

	ecs.ForEach(w, component.CompanionComponent.Kind(), func(_ ecs.Entity, c *component.Companion) {
		if c.MatchPlayerDash {
			c.BufferDash()
		}
	})
	return current
}

// AfterDashBegin drops any variable jump left over from a bounce the dash
// cancelled.
func (m *BounceMode) AfterDashBegin(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() {
		return
	}
	if timers, ok := ecs.Get(w, player, component.TimersComponent.Kind()); ok {
		timers.SetTimer(component.KeyVarJumpTimer, 0)
	}
}

// AfterDashEvents restores horizontal speed on a straight down dash and
// records the pre-bounce speed.
func (m *BounceMode) AfterDashEvents(w *ecs.World, player ecs.Entity) {
	p, ok := lookupPlayer(w, player)
	if !ok {
		return
	}
	if m.Enabled() && p.body.DashDir == vecDown && p.body.State == component.StateDash {
		before := p.timers.Vec(component.KeyBeforeDashSpeed)
		p.body.Velocity = mgl64.Vec2{before.X(), p.body.Velocity.Y()}
	}
	p.bounce.PreBounceSpeed = p.body.Velocity.Len()
}

// IsRiding lets a player pressing into a moving bounce solid ride it.
func (m *BounceMode) IsRiding(w *ecs.World, player, solid ecs.Entity) bool {
	p, ok := lookupPlayer(w, player)
	if !m.Enabled() || !ok {
		return m.Baseline.IsRiding(w, player, solid)
	}
	p.timers.SetInt(component.KeyClimbTriggerDir, 0)

	attach := false
	if p.body.Velocity.Y() >= 0 && collidesWith(w, solid, m.probe(p, mgl64.Vec2{common.Sign(float64(p.moveX())), 0})) {
		s, _ := ecs.Get(w, solid, component.SolidComponent.Kind())
		caps := m.Tuning.Solids.Capabilities(s)
		if caps.Has(component.CapActivator) {
			if act, ok := ecs.Get(w, solid, component.ActivatorComponent.Kind()); ok {
				attach = act.Triggered
			}
		}
		if caps.Has(component.CapImpulse) {
			if imp, ok := ecs.Get(w, solid, component.ImpulseComponent.Kind()); ok {
				attach = imp.Triggered
			}
		}
		if caps.Has(component.CapToggle) || caps.Has(component.CapPorous) {
			attach = true
		}
	}
	return attach || m.Baseline.IsRiding(w, player, solid)
}

// ClimbCheck disables climbing.
func (m *BounceMode) ClimbCheck(w *ecs.World, player ecs.Entity, dir, yAdd int) bool {
	if m.Enabled() {
		return false
	}
	return m.Baseline.ClimbCheck(w, player, dir, yAdd)
}

// ClimbJump becomes a wall jump away from the wall.
func (m *BounceMode) ClimbJump(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() {
		m.Baseline.ClimbJump(w, player)
		return
	}
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return
	}
	m.WallJump(w, player, -body.Facing)
}

// FallSpeedMultiplier scales the host's max fall speed while carrying a
// slow-fall item.
func (m *BounceMode) FallSpeedMultiplier() float64 {
	if m.Enabled() {
		return m.Tuning.C.MaxFallMult
	}
	return 1
}

// SlowFallMultiplier scales the host's slow-fall speed.
func (m *BounceMode) SlowFallMultiplier() float64 {
	if m.Enabled() {
		return m.Tuning.C.SlowFallMult
	}
	return 1
}
