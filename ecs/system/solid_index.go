package system

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// SolidRegistry maps solid kinds to their capabilities.
type SolidRegistry struct {
	kinds map[string]component.Capability
}

func NewSolidRegistry(kinds map[string][]string) (*SolidRegistry, error) {
	r := &SolidRegistry{kinds: make(map[string]component.Capability, len(kinds))}
	for kind, names := range kinds {
		caps, err := component.ParseCapability(names)
		if err != nil {
			return nil, fmt.Errorf("solid kind %q: %w", kind, err)
		}
		r.kinds[kind] = caps
	}
	return r, nil
}

// Register adds or replaces a solid kind.
func (r *SolidRegistry) Register(kind string, caps component.Capability) {
	if r.kinds == nil {
		r.kinds = make(map[string]component.Capability)
	}
	r.kinds[kind] = caps
}

func (r *SolidRegistry) Known(kind string) bool {
	if r == nil {
		return false
	}
	_, ok := r.kinds[kind]
	return ok
}

// Capabilities resolves a solid's capability set. Explicit Caps win over
// the kind mapping.
func (r *SolidRegistry) Capabilities(s *component.Solid) component.Capability {
	if s == nil {
		return 0
	}
	if s.Caps != 0 || r == nil {
		return s.Caps
	}
	return r.kinds[s.Kind]
}

// SolidQuery is the spatial overlap query bounce mode probes with. Results
// are in discovery order, which is stable across calls.
type SolidQuery interface {
	Overlapping(w *ecs.World, region common.Rect) []ecs.Entity
	First(w *ecs.World, region common.Rect) (ecs.Entity, bool)
}

// overlapEpsilon shrinks query boxes so touching edges do not count.
const overlapEpsilon = 1e-6

// SolidIndex keeps every Solid as a static box in a chipmunk space and
// answers overlap queries with BBQuery.
type SolidIndex struct {
	space  *cp.Space
	solids map[ecs.Entity]*indexedSolid
}

type indexedSolid struct {
	shape  *cp.Shape
	bounds common.Rect
}

func NewSolidIndex() *SolidIndex {
	return &SolidIndex{
		space:  cp.NewSpace(),
		solids: make(map[ecs.Entity]*indexedSolid),
	}
}

// Update syncs the index with the world's solids.
func (si *SolidIndex) Update(w *ecs.World) {
	if si == nil || w == nil {
		return
	}
	si.sync(w)
}

func (si *SolidIndex) sync(w *ecs.World) {
	if si.space == nil {
		si.space = cp.NewSpace()
	}
	if si.solids == nil {
		si.solids = make(map[ecs.Entity]*indexedSolid)
	}

	seen := make(map[ecs.Entity]struct{}, len(si.solids))
	ecs.ForEach(w, component.SolidComponent.Kind(), func(e ecs.Entity, solid *component.Solid) {
		seen[e] = struct{}{}
		info, ok := si.solids[e]
		if ok && info.bounds == solid.Bounds {
			return
		}
		if ok {
			si.space.RemoveShape(info.shape)
		}
		si.solids[e] = si.addShape(e, solid.Bounds)
	})

	for e, info := range si.solids {
		if _, ok := seen[e]; ok {
			continue
		}
		si.space.RemoveShape(info.shape)
		delete(si.solids, e)
	}
}

func (si *SolidIndex) addShape(e ecs.Entity, bounds common.Rect) *indexedSolid {
	bb := cp.BB{L: bounds.Left(), B: bounds.Top(), R: bounds.Right(), T: bounds.Bottom()}
	shape := cp.NewBox2(si.space.StaticBody, bb, 0)
	shape.UserData = e
	si.space.AddShape(shape)
	return &indexedSolid{shape: shape, bounds: bounds}
}

// Overlapping returns the solids whose boxes strictly overlap region,
// ordered by entity slot.
func (si *SolidIndex) Overlapping(w *ecs.World, region common.Rect) []ecs.Entity {
	if si == nil || w == nil || region.Width <= 0 || region.Height <= 0 {
		return nil
	}
	si.sync(w)

	bb := cp.BB{
		L: region.Left() + overlapEpsilon,
		B: region.Top() + overlapEpsilon,
		R: region.Right() - overlapEpsilon,
		T: region.Bottom() - overlapEpsilon,
	}
	var hits []ecs.Entity
	si.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(ecs.Entity)
		if !ok {
			return
		}
		solid, ok := ecs.Get(w, e, component.SolidComponent.Kind())
		if !ok || !solid.Bounds.Overlaps(region) {
			return
		}
		hits = append(hits, e)
	}, nil)

	sort.Slice(hits, func(i, j int) bool { return hits[i].Slot() < hits[j].Slot() })
	return hits
}

func (si *SolidIndex) First(w *ecs.World, region common.Rect) (ecs.Entity, bool) {
	hits := si.Overlapping(w, region)
	if len(hits) == 0 {
		return ecs.None, false
	}
	return hits[0], true
}

// CollideCheck reports whether any solid overlaps region.
func CollideCheck(q SolidQuery, w *ecs.World, region common.Rect) bool {
	if q == nil {
		return false
	}
	_, ok := q.First(w, region)
	return ok
}

// collidesWith reports whether one specific solid overlaps region.
func collidesWith(w *ecs.World, solid ecs.Entity, region common.Rect) bool {
	s, ok := ecs.Get(w, solid, component.SolidComponent.Kind())
	return ok && s.Bounds.Overlaps(region)
}

// Len returns the number of indexed solids.
func (si *SolidIndex) Len() int {
	if si == nil {
		return 0
	}
	return len(si.solids)
}
