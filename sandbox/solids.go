package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// SolidMotionSystem moves pushed impulse blocks and fired falling blocks,
// carrying the player when it rides or is pushed.
type SolidMotionSystem struct {
	Host *Host
	DT   float64
}

func (s *SolidMotionSystem) Update(w *ecs.World) {
	if s == nil || s.Host == nil || w == nil {
		return
	}
	m := s.Host.Move
	dt := s.DT

	ecs.ForEach2(w, component.ImpulseComponent.Kind(), component.SolidComponent.Kind(), func(e ecs.Entity, imp *component.Impulse, solid *component.Solid) {
		if imp.Speed <= 0 {
			solid.LiftSpeed = mgl64.Vec2{}
			return
		}
		if !s.moveSolid(w, e, solid, imp.Direction.Mul(imp.Speed*dt)) {
			imp.Speed = 0
			solid.LiftSpeed = mgl64.Vec2{}
			return
		}
		solid.LiftSpeed = imp.Direction.Mul(imp.Speed)
		imp.Speed = common.Approach(imp.Speed, 0, m.ImpulseFriction*dt)
	})

	ecs.ForEach2(w, component.TriggerComponent.Kind(), component.SolidComponent.Kind(), func(e ecs.Entity, trig *component.Trigger, solid *component.Solid) {
		if !trig.Fired {
			return
		}
		v := mgl64.Vec2{0, m.FallingBlockSpeed}
		if !s.moveSolid(w, e, solid, v.Mul(dt)) {
			solid.LiftSpeed = mgl64.Vec2{}
			return
		}
		solid.LiftSpeed = v
	})
}

// moveSolid shifts solid by delta unless another solid is in the way. A
// player riding it or standing in its path moves along.
func (s *SolidMotionSystem) moveSolid(w *ecs.World, e ecs.Entity, solid *component.Solid, delta mgl64.Vec2) bool {
	h := s.Host
	next := solid.Bounds.Offset(delta)
	for _, other := range h.Solids.Overlapping(w, next) {
		if other != e {
			return false
		}
	}

	var a actor
	carry, riding := false, false
	if p, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		if a, ok = h.actor(w, p); ok {
			riding = h.hooks().IsRiding(w, p, e)
			carry = riding || next.Overlaps(a.body.Hitbox())
		}
	}

	after := riding && delta.Y() > 0
	if carry && !after {
		s.carry(w, a, delta)
	}
	solid.Bounds = next
	if carry && after {
		s.carry(w, a, delta)
	}
	return true
}

func (s *SolidMotionSystem) carry(w *ecs.World, a actor, delta mgl64.Vec2) {
	h := s.Host
	h.moveAxis(w, a.body, 0, delta.X(), false)
	h.moveAxis(w, a.body, 1, delta.Y(), false)
	if s.DT > 0 {
		a.body.LiftSpeed = delta.Mul(1 / s.DT)
	}
}
