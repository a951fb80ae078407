package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// AfterDie takes a soul-bound companion down with the player.
func (m *BounceMode) AfterDie(w *ecs.World, player ecs.Entity, direction mgl64.Vec2) {
	if !m.Enabled() {
		return
	}
	e, ok := w.First(component.CompanionComponent.Kind())
	if !ok {
		return
	}
	c, _ := ecs.Get(w, e, component.CompanionComponent.Kind())
	if c == nil || c.Destroyed || !c.SoulBound {
		return
	}
	c.Die()
	if direction != (mgl64.Vec2{}) {
		var at mgl64.Vec2
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			at = body.Position
		}
		playSound(w, e, m.Tuning.Sounds.CompanionDeath, at)
	}
}

// RefillDash also refills a carried companion while the player is
// grounded.
func (m *BounceMode) RefillDash(w *ecs.World, player ecs.Entity) bool {
	if m.Enabled() {
		if p, ok := lookupPlayer(w, player); ok && p.body.OnGround {
			if _, c, ok := p.heldCompanion(w); ok {
				c.RefillDash()
			}
		}
	}
	return m.Baseline.RefillDash(w, player)
}

// AfterSpringCollide refills a carried companion.
func (m *BounceMode) AfterSpringCollide(w *ecs.World, player ecs.Entity) {
	if !m.Enabled() {
		return
	}
	if p, ok := lookupPlayer(w, player); ok {
		if _, c, ok := p.heldCompanion(w); ok {
			c.RefillDash()
		}
	}
}

// EnforceBounds keeps the player inside the room's left, right and top
// edges while a soul-bound companion is left behind. The bottom stays open.
func (m *BounceMode) EnforceBounds(w *ecs.World, player ecs.Entity) {
	if m.Enabled() {
		m.pinToRoom(w, player)
	}
	m.Baseline.EnforceBounds(w, player)
}

func (m *BounceMode) pinToRoom(w *ecs.World, player ecs.Entity) {
	e, ok := w.First(component.CompanionComponent.Kind())
	if !ok {
		return
	}
	c, _ := ecs.Get(w, e, component.CompanionComponent.Kind())
	if c == nil || c.Destroyed || !c.SoulBound {
		return
	}
	p, ok := lookupPlayer(w, player)
	if !ok || p.holder.Carrying() {
		return
	}
	boundsEnt, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	lb, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())
	bounds := lb.Bounds

	hb := p.body.Hitbox()
	if hb.Right() > bounds.Right()-1 {
		p.body.Position[0] = bounds.Right() - 1 - hb.Width
	}
	if hb.Left() < bounds.Left()-1 {
		p.body.Position[0] = bounds.Left() - 1
	}
	if hb.Top() < bounds.Top()-1 {
		p.body.Position[1] = bounds.Top() - 1
	}
}

// CompanionDashSystem buffers a dash on every active companion that does
// not mirror the player's dashes when the companion dash input is pressed.
type CompanionDashSystem struct{}

func NewCompanionDashSystem() *CompanionDashSystem {
	return &CompanionDashSystem{}
}

func (s *CompanionDashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pressed := false
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		pressed = pressed || in.CompanionDashPressed
	})
	if !pressed {
		return
	}
	ecs.ForEach(w, component.CompanionComponent.Kind(), func(_ ecs.Entity, c *component.Companion) {
		if c.Active && !c.MatchPlayerDash {
			c.BufferDash()
		}
	})
}
