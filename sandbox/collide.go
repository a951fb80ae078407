package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// solidAt returns the first solid overlapping region. Porous solids are
// skipped when passPorous is set.
func (h *Host) solidAt(w *ecs.World, region common.Rect, passPorous bool) (ecs.Entity, bool) {
	for _, e := range h.Solids.Overlapping(w, region) {
		if passPorous && h.isPorous(w, e) {
			continue
		}
		return e, true
	}
	return ecs.None, false
}

func (h *Host) isPorous(w *ecs.World, e ecs.Entity) bool {
	s, ok := ecs.Get(w, e, component.SolidComponent.Kind())
	return ok && h.registry().Capabilities(s).Has(component.CapPorous)
}

// insidePorous reports whether region overlaps any porous solid.
func (h *Host) insidePorous(w *ecs.World, region common.Rect) bool {
	for _, e := range h.Solids.Overlapping(w, region) {
		if h.isPorous(w, e) {
			return true
		}
	}
	return false
}

func (h *Host) onGround(w *ecs.World, body *component.Body) bool {
	if body.Velocity.Y() < 0 {
		return false
	}
	_, hit := h.solidAt(w, body.Hitbox().Offset(mgl64.Vec2{0, 1}), false)
	return hit
}

// moveAxis moves body along axis (0 for x, 1 for y) one pixel at a time and
// stops flush against the first solid, which it returns with the distance
// left to travel.
func (h *Host) moveAxis(w *ecs.World, body *component.Body, axis int, amount float64, passPorous bool) (ecs.Entity, float64, bool) {
	for amount != 0 {
		step := math.Copysign(math.Min(1, math.Abs(amount)), amount)
		next := body.Position
		next[axis] += step
		hit, blocked := h.solidAt(w, body.HitboxAt(next), passPorous)
		if !blocked {
			body.Position = next
			amount -= step
			continue
		}
		if s, ok := ecs.Get(w, hit, component.SolidComponent.Kind()); ok {
			flush := body.Position
			flush[axis] = flushCoord(body, s.Bounds, axis, step)
			moved := flush[axis] - body.Position[axis]
			if moved*step > 0 && math.Abs(moved) < math.Abs(step) {
				if _, inside := h.solidAt(w, body.HitboxAt(flush), passPorous); !inside {
					body.Position = flush
					amount -= moved
				}
			}
		}
		return hit, amount, true
	}
	return ecs.None, 0, false
}

// flushCoord is the position coordinate that puts body flush against solid
// when moving along axis in the direction of step.
func flushCoord(body *component.Body, solid common.Rect, axis int, step float64) float64 {
	switch {
	case axis == 0 && step > 0:
		return solid.Left() - body.Width
	case axis == 0:
		return solid.Right()
	case step > 0:
		return solid.Top() - body.Height
	default:
		return solid.Bottom()
	}
}

// wallJumpCheck reports whether a wall sits within jumping distance on side
// dir.
func (h *Host) wallJumpCheck(w *ecs.World, body *component.Body, dir int) bool {
	offset := mgl64.Vec2{float64(dir) * h.Move.WallJumpCheckDist, 0}
	_, hit := h.solidAt(w, body.Hitbox().Offset(offset), false)
	return hit
}
