package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// ItemSystem pins the carried item to its holder, lets loose items fall and
// runs buffered companion dashes.
type ItemSystem struct {
	Host *Host
	DT   float64
}

func (s *ItemSystem) Update(w *ecs.World) {
	if s == nil || s.Host == nil || w == nil {
		return
	}
	var a actor
	hasPlayer := false
	if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
		a, hasPlayer = s.Host.actor(w, e)
	}
	carried := ecs.None
	if hasPlayer {
		if e, ok := a.held(w); ok {
			carried = e
		}
	}

	ecs.ForEach2(w, component.HoldableComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, hold *component.Holdable, body *component.Body) {
		if e == carried {
			body.Position = a.body.Position.Add(a.timers.Vec(component.KeyCarryOffset))
			body.Velocity = a.body.Velocity
			hold.Released = false
			return
		}
		s.fall(w, e, hold, body)
	})

	ecs.ForEach2(w, component.CompanionComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, c *component.Companion, body *component.Body) {
		if c.Destroyed {
			return
		}
		if e != carried && body.OnGround {
			c.RefillDash()
		}
		if !c.DashBuffered {
			return
		}
		c.DashBuffered = false
		if c.Dashes <= 0 {
			return
		}
		s.companionDash(w, e, c, body, a, hasPlayer, e == carried)
	})
}

func (s *ItemSystem) fall(w *ecs.World, e ecs.Entity, hold *component.Holdable, body *component.Body) {
	h := s.Host
	m := h.Move
	dt := s.DT

	boosting := false
	if c, ok := ecs.Get(w, e, component.CompanionComponent.Kind()); ok {
		boosting = c.BoostTimer > 0
	}

	body.OnGround = h.onGround(w, body)
	if !boosting && (!body.OnGround || body.Velocity.Y() < 0) {
		maxFall := m.MaxFall
		if hold.SlowFall {
			maxFall = m.SlowFall
		}
		body.Velocity[1] = common.Approach(body.Velocity.Y(), maxFall, m.Gravity*dt)
	}
	if body.OnGround {
		body.Velocity[0] = common.Approach(body.Velocity.X(), 0, m.ItemFriction*dt)
		hold.Released = false
	}

	step := body.Velocity.Mul(dt)
	for axis := 0; axis < 2; axis++ {
		if _, _, hit := h.moveAxis(w, body, axis, step[axis], false); hit {
			body.Velocity[axis] = 0
		}
	}
}

// companionDash launches a companion along the player's aim. A carried
// companion drags the player along and opens the bounce window instead of
// moving itself.
func (s *ItemSystem) companionDash(w *ecs.World, e ecs.Entity, c *component.Companion, body *component.Body, a actor, hasPlayer, carried bool) {
	m := s.Host.Move
	dir := mgl64.Vec2{1, 0}
	if hasPlayer {
		if aim := common.Normalize(a.timers.Vec(component.KeyLastAim)); aim != (mgl64.Vec2{}) {
			dir = aim
		}
	}
	c.Dashes--
	c.DashDir = dir
	c.DashAttackTimer = m.DashAttackTime

	if carried {
		a.body.Velocity = dir.Mul(m.DashSpeed)
		a.body.DashDir = dir
		a.timers.SetBounceWindow(dir, m.DashAttackTime)
	} else {
		body.Velocity = dir.Mul(m.DashSpeed)
		c.BoostSpeed = body.Velocity
		c.BoostDir = dir
		c.BoostTimer = m.DashAttackTime
	}
	sound(w, e, sfxCompanionDash, body.Position)
}
