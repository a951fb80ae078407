// Package sandbox is a small platformer host for bounce mode: its own
// movement, items and moving solids, with every intercepted event routed
// through the installed BounceMode.
package sandbox

import (
	"fmt"

	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/ecs/system"
	"github.com/milk9111/bouncehelper/prefabs"
	"github.com/sirupsen/logrus"
)

func log() *logrus.Entry {
	return system.Log().WithField("host", "sandbox")
}

// Options configure New. Zero values pick the defaults.
type Options struct {
	DT       float64
	Movement *Movement
	Tuning   *system.Tuning
	// Flags is the session flag store; bounce mode reads its enable flag
	// from here.
	Flags system.Flags
	// Input runs first every frame.
	Input ecs.System
}

// Sandbox is one loaded room and the frame pipeline over it.
type Sandbox struct {
	World  *ecs.World
	Room   *Room
	Host   *Host
	Bounce *system.BounceMode
	Flags  system.Flags
	DT     float64

	pipeline *ecs.Scheduler
	frame    int
}

func New(spec *prefabs.RoomSpec, opts Options) (*Sandbox, error) {
	dt := opts.DT
	if dt <= 0 {
		dt = system.DefaultDT
	}
	tuning := opts.Tuning
	if tuning == nil {
		tuning = system.DefaultTuning()
	}
	move := DefaultMovement()
	if opts.Movement != nil {
		move = *opts.Movement
	}
	flags := opts.Flags
	if flags == nil {
		flags = system.Flags{}
	}

	w := ecs.NewWorld()
	room, err := LoadRoom(w, spec, tuning.Solids)
	if err != nil {
		return nil, fmt.Errorf("sandbox: load room: %w", err)
	}

	solids := system.NewSolidIndex()
	host := NewHost(move, solids, tuning.Solids)
	host.Bounce = system.NewBounceMode(tuning, host, solids, flags)

	var systems []ecs.System
	if opts.Input != nil {
		systems = append(systems, opts.Input)
	}
	systems = append(systems,
		solids,
		&PlayerSystem{Host: host, DT: dt, Spawn: room.Spawn},
		&SolidMotionSystem{Host: host, DT: dt},
		&ItemSystem{Host: host, DT: dt},
	)

	return &Sandbox{
		World:    w,
		Room:     room,
		Host:     host,
		Bounce:   host.Bounce,
		Flags:    flags,
		DT:       dt,
		pipeline: system.NewPipeline(dt, systems...),
	}, nil
}

// Step runs one frame.
func (s *Sandbox) Step() {
	s.pipeline.Update(s.World)
	s.frame++
}

func (s *Sandbox) Frame() int {
	return s.frame
}

// SetFlag writes a session flag.
func (s *Sandbox) SetFlag(name string, v bool) {
	s.Flags[name] = v
}

// SetTuning swaps reloaded tunables into bounce mode and the host.
func (s *Sandbox) SetTuning(t *system.Tuning) {
	if t == nil {
		return
	}
	s.Bounce.SetTuning(t)
	s.Host.Registry = t.Solids
	log().Info("tuning reloaded")
}

func (s *Sandbox) Player() *component.Body {
	body, _ := ecs.Get(s.World, s.Room.Player, component.BodyComponent.Kind())
	return body
}

func (s *Sandbox) Input() *component.Input {
	in, _ := ecs.Get(s.World, s.Room.Player, component.InputComponent.Kind())
	return in
}

func (s *Sandbox) Timers() *component.Timers {
	t, _ := ecs.Get(s.World, s.Room.Player, component.TimersComponent.Kind())
	return t
}

func (s *Sandbox) Inventory() *component.Inventory {
	inv, _ := ecs.Get(s.World, s.Room.Player, component.InventoryComponent.Kind())
	return inv
}

func (s *Sandbox) Holder() *component.Holder {
	h, _ := ecs.Get(s.World, s.Room.Player, component.HolderComponent.Kind())
	return h
}
