package ecs

import "github.com/milk9111/bouncehelper/ecs/component"

// ForEach calls fn for every live entity with kind a.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range w.Query(a) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 calls fn for every live entity having both kinds.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(a, b) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		if !okA || !okB {
			continue
		}
		fn(e, va, vb)
	}
}

// ForEach3 calls fn for every live entity having all three kinds.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(a, b, c) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, va, vb, vc)
	}
}
