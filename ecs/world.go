package ecs

import (
	"fmt"

	"github.com/milk9111/bouncehelper/ecs/component"
)

// World owns entities, their component stores, and the frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return None
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

func (w *World) CreateEntity() Entity        { return CreateEntity(w) }
func (w *World) DestroyEntity(e Entity) bool { return DestroyEntity(w, e) }
func (w *World) IsAlive(e Entity) bool       { return IsAlive(w, e) }

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

func (w *World) add(e Entity, id component.ComponentID, value any) error {
	if w == nil {
		return fmt.Errorf("add component: %w", component.ErrEntityNotAlive)
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("add component to %s: %w", e, component.ErrEntityNotAlive)
	}
	w.store(id, true).Set(e, value)
	return nil
}

// Query returns live entities that have every one of the given kinds,
// ordered by the first kind's storage.
func (w *World) Query(kinds ...component.AnyKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		stores = append(stores, s)
	}
	out := make([]Entity, 0, stores[0].Len())
	for _, e := range stores[0].Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		match := true
		for _, s := range stores[1:] {
			if !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// First returns the lowest-slot live entity carrying kind.
func (w *World) First(kind component.AnyKind) (Entity, bool) {
	if w == nil {
		return None, false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return None, false
	}
	best := None
	for _, e := range s.Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		if best == None || e.id() < best.id() {
			best = e
		}
	}
	return best, best != None
}
