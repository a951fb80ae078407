package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// fakeBaseline records which baseline primitives ran.
type fakeBaseline struct {
	calls     []string
	dashState component.PrimaryState
	riding    bool
	climb     bool
	released  []mgl64.Vec2
}

func (b *fakeBaseline) record(name string) { b.calls = append(b.calls, name) }

func (b *fakeBaseline) called(name string) int {
	n := 0
	for _, c := range b.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (b *fakeBaseline) Jump(*ecs.World, ecs.Entity, bool, bool) { b.record("Jump") }
func (b *fakeBaseline) WallJump(*ecs.World, ecs.Entity, int) { b.record("WallJump") }
func (b *fakeBaseline) SuperJump(*ecs.World, ecs.Entity) { b.record("SuperJump") }
func (b *fakeBaseline) SuperWallJump(*ecs.World, ecs.Entity, int) { b.record("SuperWallJump") }
func (b *fakeBaseline) ClimbJump(*ecs.World, ecs.Entity) { b.record("ClimbJump") }
func (b *fakeBaseline) HiccupJump(*ecs.World, ecs.Entity) { b.record("HiccupJump") }
func (b *fakeBaseline) DreamDashBegin(*ecs.World, ecs.Entity) { b.record("DreamDashBegin") }
func (b *fakeBaseline) DreamDashEnd(*ecs.World, ecs.Entity) { b.record("DreamDashEnd") }
func (b *fakeBaseline) Throw(*ecs.World, ecs.Entity) { b.record("Throw") }
func (b *fakeBaseline) Pickup(*ecs.World, ecs.Entity) { b.record("Pickup") }
func (b *fakeBaseline) EnforceBounds(*ecs.World, ecs.Entity) { b.record("EnforceBounds") }
func (b *fakeBaseline) IsRiding(*ecs.World, ecs.Entity, ecs.Entity) bool {
	b.record("IsRiding")
	return b.riding
}

func (b *fakeBaseline) StartDash(*ecs.World, ecs.Entity) component.PrimaryState {
	b.record("StartDash")
	return b.dashState
}

func (b *fakeBaseline) RefillDash(w *ecs.World, e ecs.Entity) bool {
	b.record("RefillDash")
	inv, ok := ecs.Get(w, e, component.InventoryComponent.Kind())
	return ok && inv.Refill()
}

func (b *fakeBaseline) Drop(w *ecs.World, e ecs.Entity) {
	b.record("Drop")
}

func (b *fakeBaseline) Release(_ *ecs.World, _ ecs.Entity, dir mgl64.Vec2) {
	b.record("Release")
	b.released = append(b.released, dir)
}

func (b *fakeBaseline) ClimbCheck(*ecs.World, ecs.Entity, int, int) bool {
	b.record("ClimbCheck")
	return b.climb
}

type fixture struct {
	t      *testing.T
	w      *ecs.World
	player ecs.Entity
	base   *fakeBaseline
	mode   *BounceMode
	flags  Flags
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	base := &fakeBaseline{dashState: component.StateDash}
	flags := Flags{"bounceModeEnabled": true}
	f := &fixture{
		t:     t,
		w:     w,
		base:  base,
		flags: flags,
		mode:  NewBounceMode(DefaultTuning(), base, NewSolidIndex(), flags),
	}

	f.player = w.CreateEntity()
	f.must(ecs.Add(w, f.player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	f.must(ecs.Add(w, f.player, component.BodyComponent.Kind(), &component.Body{
		Position:  mgl64.Vec2{100, 100},
		Width:     8,
		Height:    11,
		Facing:    1,
		CanUnDuck: true,
	}))
	f.must(ecs.Add(w, f.player, component.InputComponent.Kind(), &component.Input{}))
	f.must(ecs.Add(w, f.player, component.InventoryComponent.Kind(), &component.Inventory{Dashes: 0, MaxDashes: 1}))
	f.must(ecs.Add(w, f.player, component.HolderComponent.Kind(), &component.Holder{}))
	f.must(ecs.Add(w, f.player, component.TimersComponent.Kind(), component.NewTimers()))
	f.must(ecs.Add(w, f.player, component.BounceComponent.Kind(), &component.Bounce{}))
	return f
}

func (f *fixture) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) body() *component.Body {
	b, _ := ecs.Get(f.w, f.player, component.BodyComponent.Kind())
	return b
}

func (f *fixture) input() *component.Input {
	in, _ := ecs.Get(f.w, f.player, component.InputComponent.Kind())
	return in
}

func (f *fixture) inventory() *component.Inventory {
	inv, _ := ecs.Get(f.w, f.player, component.InventoryComponent.Kind())
	return inv
}

func (f *fixture) timers() *component.Timers {
	t, _ := ecs.Get(f.w, f.player, component.TimersComponent.Kind())
	return t
}

func (f *fixture) bounce() *component.Bounce {
	b, _ := ecs.Get(f.w, f.player, component.BounceComponent.Kind())
	return b
}

func (f *fixture) holder() *component.Holder {
	h, _ := ecs.Get(f.w, f.player, component.HolderComponent.Kind())
	return h
}

func (f *fixture) disable() {
	f.flags["bounceModeEnabled"] = false
}

// addSolid creates a solid of a registered kind with default data for each
// of its capabilities.
func (f *fixture) addSolid(kind string, r common.Rect) ecs.Entity {
	f.t.Helper()
	e := f.w.CreateEntity()
	solid := &component.Solid{Kind: kind, Bounds: r}
	f.must(ecs.Add(f.w, e, component.SolidComponent.Kind(), solid))

	caps := f.mode.Tuning.Solids.Capabilities(solid)
	if caps.Has(component.CapPorous) {
		f.must(ecs.Add(f.w, e, component.PorousComponent.Kind(), &component.Porous{}))
	}
	if caps.Has(component.CapActivator) {
		f.must(ecs.Add(f.w, e, component.ActivatorComponent.Kind(), &component.Activator{}))
	}
	if caps.Has(component.CapImpulse) {
		f.must(ecs.Add(f.w, e, component.ImpulseComponent.Kind(), &component.Impulse{
			Direction:       mgl64.Vec2{0, 1},
			PushPerStrength: 10,
			MaxSpeed:        100,
			Multiplier:      1.5,
		}))
	}
	if caps.Has(component.CapToggle) {
		f.must(ecs.Add(f.w, e, component.ToggleComponent.Kind(), &component.Toggle{LockoutTime: 0.2}))
	}
	if caps.Has(component.CapTrigger) {
		f.must(ecs.Add(f.w, e, component.TriggerComponent.Kind(), &component.Trigger{}))
	}
	return e
}

// floor places a solid of the given kind right under the player.
func (f *fixture) floor(kind string) ecs.Entity {
	b := f.body()
	return f.addSolid(kind, common.Rect{X: b.Position.X() - 20, Y: b.Position.Y() + b.Height, Width: 48, Height: 8})
}

// wall places a solid touching the player on side dir (-1 left, 1 right).
func (f *fixture) wall(kind string, dir int) ecs.Entity {
	b := f.body()
	x := b.Position.X() + b.Width
	if dir < 0 {
		x = b.Position.X() - 8
	}
	return f.addSolid(kind, common.Rect{X: x, Y: b.Position.Y() - 20, Width: 8, Height: 48})
}

func (f *fixture) ceiling(kind string) ecs.Entity {
	b := f.body()
	return f.addSolid(kind, common.Rect{X: b.Position.X() - 20, Y: b.Position.Y() - 8, Width: 48, Height: 8})
}

func (f *fixture) addCompanion(c component.Companion) ecs.Entity {
	f.t.Helper()
	e := f.w.CreateEntity()
	if c.MaxDashes == 0 {
		c.MaxDashes = 1
	}
	c.Active = true
	f.must(ecs.Add(f.w, e, component.CompanionComponent.Kind(), &c))
	f.must(ecs.Add(f.w, e, component.HoldableComponent.Kind(), &component.Holdable{SlowFall: true}))
	f.must(ecs.Add(f.w, e, component.BodyComponent.Kind(), &component.Body{
		Position: f.body().Position.Add(mgl64.Vec2{10, 2}),
		Width:    8,
		Height:   8,
	}))
	return e
}

func (f *fixture) carry(item ecs.Entity) {
	f.holder().Holding = uint64(item)
}

func (f *fixture) companion(e ecs.Entity) *component.Companion {
	c, _ := ecs.Get(f.w, e, component.CompanionComponent.Kind())
	return c
}

func (f *fixture) sounds() []string {
	var out []string
	for _, evt := range f.w.Events().Filter(EventSound) {
		out = append(out, evt.Data.(component.SoundRequest).Event)
	}
	return out
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func approxVec(a, b mgl64.Vec2) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}
