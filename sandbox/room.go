package sandbox

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/ecs/system"
	"github.com/milk9111/bouncehelper/prefabs"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyRoom        = errors.New("sandbox: room has no bounds")
	ErrUnknownSolidKind = errors.New("sandbox: unknown solid kind")
)

// Default player box when the room leaves the collider out.
const (
	defaultPlayerWidth  = 8
	defaultPlayerHeight = 11
)

// Room is a loaded sandbox room.
type Room struct {
	Name       string
	Bounds     common.Rect
	Spawn      mgl64.Vec2
	Player     ecs.Entity
	Solids     []ecs.Entity
	Companions []ecs.Entity
	Holdables  []ecs.Entity
}

func rectFromSpec(r prefabs.RectSpec) common.Rect {
	return common.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// LoadRoom populates w from spec. Solid kinds must be known to registry.
func LoadRoom(w *ecs.World, spec *prefabs.RoomSpec, registry *system.SolidRegistry) (*Room, error) {
	if spec == nil || spec.Bounds.Width <= 0 || spec.Bounds.Height <= 0 {
		return nil, ErrEmptyRoom
	}
	room := &Room{
		Name:   spec.Name,
		Bounds: rectFromSpec(spec.Bounds),
		Spawn:  mgl64.Vec2{spec.Player.Transform.X, spec.Player.Transform.Y},
	}

	boundsEnt := w.CreateEntity()
	if err := ecs.Add(w, boundsEnt, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Bounds: room.Bounds}); err != nil {
		return nil, err
	}

	player, err := addPlayer(w, spec.Player)
	if err != nil {
		return nil, fmt.Errorf("sandbox: player: %w", err)
	}
	room.Player = player

	for i, s := range spec.Solids {
		e, err := addSolid(w, s, registry)
		if err != nil {
			return nil, fmt.Errorf("sandbox: solid %d: %w", i, err)
		}
		room.Solids = append(room.Solids, e)
	}
	for i, c := range spec.Companions {
		e, err := addCompanion(w, c)
		if err != nil {
			return nil, fmt.Errorf("sandbox: companion %d: %w", i, err)
		}
		room.Companions = append(room.Companions, e)
	}
	for i, hs := range spec.Holdables {
		e, err := addHoldable(w, hs)
		if err != nil {
			return nil, fmt.Errorf("sandbox: holdable %d: %w", i, err)
		}
		room.Holdables = append(room.Holdables, e)
	}

	log().WithFields(logrus.Fields{
		"room":       room.Name,
		"solids":     len(room.Solids),
		"companions": len(room.Companions),
		"holdables":  len(room.Holdables),
	}).Info("room loaded")
	return room, nil
}

func addPlayer(w *ecs.World, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	width, height := spec.Collider.Width, spec.Collider.Height
	if width <= 0 || height <= 0 {
		width, height = defaultPlayerWidth, defaultPlayerHeight
	}
	e := w.CreateEntity()
	adds := []error{
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
			Position:  mgl64.Vec2{spec.Transform.X, spec.Transform.Y},
			Width:     width,
			Height:    height,
			Facing:    1,
			CanUnDuck: true,
		}),
		ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}),
		ecs.Add(w, e, component.InventoryComponent.Kind(), &component.Inventory{
			Dashes:    spec.MaxDashes,
			MaxDashes: spec.MaxDashes,
			DreamDash: spec.DreamDash,
		}),
		ecs.Add(w, e, component.HolderComponent.Kind(), &component.Holder{}),
		ecs.Add(w, e, component.TimersComponent.Kind(), component.NewTimers()),
		ecs.Add(w, e, component.BounceComponent.Kind(), &component.Bounce{}),
	}
	return e, errors.Join(adds...)
}

func addSolid(w *ecs.World, spec prefabs.SolidSpec, registry *system.SolidRegistry) (ecs.Entity, error) {
	if !registry.Known(spec.Kind) {
		return ecs.None, fmt.Errorf("%w: %q", ErrUnknownSolidKind, spec.Kind)
	}
	solid := &component.Solid{
		Kind:      spec.Kind,
		Bounds:    rectFromSpec(spec.Rect),
		LiftSpeed: spec.LiftSpeed.Vec(),
	}
	caps := registry.Capabilities(solid)

	e := w.CreateEntity()
	adds := []error{ecs.Add(w, e, component.SolidComponent.Kind(), solid)}
	if caps.Has(component.CapPorous) {
		adds = append(adds, ecs.Add(w, e, component.PorousComponent.Kind(), &component.Porous{}))
	}
	if caps.Has(component.CapActivator) {
		adds = append(adds, ecs.Add(w, e, component.ActivatorComponent.Kind(), &component.Activator{Special: spec.Special}))
	}
	if caps.Has(component.CapImpulse) {
		adds = append(adds, ecs.Add(w, e, component.ImpulseComponent.Kind(), &component.Impulse{
			Direction:       common.Normalize(spec.Direction.Vec()),
			PushPerStrength: spec.PushPerStrength,
			MaxSpeed:        spec.MaxSpeed,
			Multiplier:      spec.Multiplier,
		}))
	}
	if caps.Has(component.CapToggle) {
		adds = append(adds, ecs.Add(w, e, component.ToggleComponent.Kind(), &component.Toggle{
			Special:     spec.Special,
			LockoutTime: spec.LockoutTime,
		}))
	}
	if caps.Has(component.CapTrigger) {
		adds = append(adds, ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{}))
	}
	return e, errors.Join(adds...)
}

func addCompanion(w *ecs.World, spec prefabs.CompanionSpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	err := errors.Join(
		ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
			Position: mgl64.Vec2{spec.Transform.X, spec.Transform.Y},
			Width:    spec.Collider.Width,
			Height:   spec.Collider.Height,
			Facing:   1,
		}),
		ecs.Add(w, e, component.HoldableComponent.Kind(), &component.Holdable{SlowFall: true}),
		ecs.Add(w, e, component.CompanionComponent.Kind(), &component.Companion{
			Dashes:          spec.MaxDashes,
			MaxDashes:       spec.MaxDashes,
			SoulBound:       spec.SoulBound,
			MatchPlayerDash: spec.MatchPlayerDash,
			Active:          true,
		}),
	)
	return e, err
}

func addHoldable(w *ecs.World, spec prefabs.HoldableSpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	err := errors.Join(
		ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
			Position: mgl64.Vec2{spec.Transform.X, spec.Transform.Y},
			Width:    spec.Collider.Width,
			Height:   spec.Collider.Height,
			Facing:   1,
		}),
		ecs.Add(w, e, component.HoldableComponent.Kind(), &component.Holdable{SlowFall: spec.SlowFall}),
	)
	return e, err
}
