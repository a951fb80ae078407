package ecs

import (
	"fmt"

	"github.com/milk9111/bouncehelper/ecs/component"
)

// Add stores value as e's component of the given kind, replacing any previous one.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return fmt.Errorf("add %T: %w", value, component.ErrNilComponent)
	}
	return w.add(e, kind.ID(), value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

// Get returns e's component of the given kind. The pointer aliases the stored
// value, so mutations are visible to later readers without re-adding.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	value := w.store(kind.ID(), false).Get(e)
	if value == nil {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}
