package system

import (
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// DefaultDT is one frame at 60 FPS.
const DefaultDT = 1.0 / 60

// TimerSystem decays every countdown by DT: the players' timer stores,
// companion boost and dash-attack windows, holdable re-grab lockouts and
// toggle lockouts. It runs last each frame whether or not bounce mode is
// enabled.
type TimerSystem struct {
	DT float64
}

func NewTimerSystem(dt float64) *TimerSystem {
	return &TimerSystem{DT: dt}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.DT

	ecs.ForEach(w, component.TimersComponent.Kind(), func(_ ecs.Entity, t *component.Timers) {
		t.Decay(dt)
	})
	ecs.ForEach(w, component.CompanionComponent.Kind(), func(_ ecs.Entity, c *component.Companion) {
		c.BoostTimer = decay(c.BoostTimer, dt)
		c.DashAttackTimer = decay(c.DashAttackTimer, dt)
	})
	ecs.ForEach(w, component.HoldableComponent.Kind(), func(_ ecs.Entity, h *component.Holdable) {
		h.CannotHoldTimer = decay(h.CannotHoldTimer, dt)
	})
	ecs.ForEach(w, component.ToggleComponent.Kind(), func(_ ecs.Entity, t *component.Toggle) {
		t.Lockout = decay(t.Lockout, dt)
	})
}

func decay(v, dt float64) float64 {
	if v <= dt {
		return 0
	}
	return v - dt
}
