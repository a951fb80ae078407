package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// DispatchContext describes the bounce a set of solids is reacting to.
type DispatchContext struct {
	// Surface points from the player into the bounced surface.
	Surface  mgl64.Vec2
	Strength Strength
	Ripple   bool
}

// DispatchResult reports which one-shot reactions fired.
type DispatchResult struct {
	Porous    bool
	Impulse   bool
	Activated int
	Toggled   int
	Triggered int
}

// Dispatch applies every solid's reactions to the player in discovery
// order. Porous and impulse velocity changes apply once per call; all other
// reactions apply to each matching solid.
func (m *BounceMode) Dispatch(w *ecs.World, player ecs.Entity, solids []ecs.Entity, ctx DispatchContext) DispatchResult {
	p, ok := lookupPlayer(w, player)
	if !ok {
		return DispatchResult{}
	}
	return m.dispatch(w, p, solids, ctx)
}

func (m *BounceMode) dispatch(w *ecs.World, p playerRefs, solids []ecs.Entity, ctx DispatchContext) DispatchResult {
	var res DispatchResult
	_, companion, carryingCompanion := p.heldCompanion(w)
	strength := m.Tuning.Strength(ctx.Strength)

	for _, e := range solids {
		solid, ok := ecs.Get(w, e, component.SolidComponent.Kind())
		if !ok {
			continue
		}
		caps := m.Tuning.Solids.Capabilities(solid)

		if caps.Has(component.CapPorous) && p.inventory != nil && p.inventory.DreamDash {
			if !res.Porous {
				m.porousBounce(w, p, ctx)
				res.Porous = true
			}
			if ctx.Ripple {
				at := p.body.Position.Add(ctx.Surface.Mul(m.Tuning.C.WallJumpCheckDist))
				if porous, ok := ecs.Get(w, e, component.PorousComponent.Kind()); ok {
					porous.Ripple(at)
				}
				emit(w, p.e, EventRipple, component.RippleRequest{Solid: uint64(e), At: at})
			}
		}

		if caps.Has(component.CapActivator) {
			if act, ok := ecs.Get(w, e, component.ActivatorComponent.Kind()); ok {
				if (!act.Special || carryingCompanion) && act.Activate() {
					res.Activated++
				}
			}
		}

		if caps.Has(component.CapImpulse) {
			if imp, ok := ecs.Get(w, e, component.ImpulseComponent.Kind()); ok {
				mult := imp.Impact(ctx.Surface, strength)
				if !res.Impulse {
					v := p.body.Velocity
					if ctx.Surface.X() == 0 {
						p.body.Velocity = mgl64.Vec2{v.X(), v.Y() * mult}
					} else {
						p.body.Velocity = mgl64.Vec2{v.X() * mult, v.Y()}
					}
					res.Impulse = true
				}
			}
		}

		if caps.Has(component.CapToggle) {
			if tog, ok := ecs.Get(w, e, component.ToggleComponent.Kind()); ok {
				angle := common.Angle(p.body.Velocity)
				if tog.Special {
					if carryingCompanion && tog.OnBounce(angle) {
						companion.RefillDash()
						res.Toggled++
					}
				} else if tog.OnBounce(angle) {
					m.RefillDash(w, p.e)
					res.Toggled++
				}
			}
		}

		if caps.Has(component.CapTrigger) {
			if trig, ok := ecs.Get(w, e, component.TriggerComponent.Kind()); ok {
				trig.Fire()
				res.Triggered++
			}
		}
	}
	return res
}

func (m *BounceMode) porousBounce(w *ecs.World, p playerRefs, ctx DispatchContext) {
	p.body.Velocity = p.body.Velocity.Mul(m.Tuning.C.DreamBounceSpeedMult)

	at := p.body.Position
	playSound(w, p.e, m.Tuning.Sounds.DreamExit, at)
	playSound(w, p.e, m.Tuning.Sounds.DreamJump, at)
	playSound(w, p.e, m.Tuning.Sounds.DreamBounce, at)

	burstAt := p.body.Center().Add(ctx.Surface.Mul(4))
	angle := common.Angle(p.body.Velocity)
	for _, c := range m.Tuning.DreamColors {
		emit(w, p.e, EventBurst, component.BurstRequest{Kind: component.BurstDream, At: burstAt, Angle: angle, Color: c})
	}
}
