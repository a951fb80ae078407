package system

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

func (f *fixture) holdable(e ecs.Entity) *component.Holdable {
	h, _ := ecs.Get(f.w, e, component.HoldableComponent.Kind())
	return h
}

// addItem creates a plain holdable next to the player.
func (f *fixture) addItem(slowFall bool) ecs.Entity {
	f.t.Helper()
	e := f.w.CreateEntity()
	f.must(ecs.Add(f.w, e, component.HoldableComponent.Kind(), &component.Holdable{SlowFall: slowFall}))
	f.must(ecs.Add(f.w, e, component.BodyComponent.Kind(), &component.Body{
		Position: f.body().Position.Add(mgl64.Vec2{-8, 0}),
		Width:    8,
		Height:   8,
	}))
	return e
}

func TestPickupAdoptsCompanionBoost(t *testing.T) {
	f := newFixture(t)
	boostDir := common.Normalize(mgl64.Vec2{150, -300})
	comp := f.addCompanion(component.Companion{
		BoostSpeed:      mgl64.Vec2{150, -300},
		BoostDir:        boostDir,
		BoostTimer:      0.2,
		DashAttackTimer: 0.25,
		DashDir:         boostDir,
	})
	f.carry(comp)
	f.timers().SetVec(component.KeyCarryOffsetTarget, mgl64.Vec2{0, -12})

	f.mode.Pickup(f.w, f.player)

	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{150, -300}) {
		t.Fatalf("velocity = %v, want (150,-300)", got)
	}
	if f.companion(comp).BoostTimer != 0 {
		t.Fatalf("companion boost must be used up")
	}
	timers := f.timers()
	if timers.Vec(component.KeyBounceDir) != boostDir || timers.Timer(component.KeyBounceTimer) != 0.25 {
		t.Fatalf("bounce window should follow the companion boost")
	}
	if timers.Timer(component.KeyDashAttackTimer) != 0.25 || f.body().DashDir != boostDir {
		t.Fatalf("dash attack should transfer from the companion")
	}
	if got := timers.Timer(component.KeyMinHoldTimer); math.Abs(got-0.167) > 1e-9 {
		t.Fatalf("min hold timer = %v", got)
	}
	sounds := f.sounds()
	if !hasString(sounds, f.mode.Tuning.Sounds.Lift) || !hasString(sounds, f.mode.Tuning.Sounds.PickupBoost) {
		t.Fatalf("sounds = %v", sounds)
	}
	if n := len(f.w.Events().Filter(EventRumble)); n != 1 {
		t.Fatalf("expected one rumble, got %d", n)
	}

	tr, ok := ecs.Get(f.w, f.player, component.PickupTransitionComponent.Kind())
	if !ok || !tr.Running() || tr.Target != uint64(comp) {
		t.Fatalf("pickup transition not started: %+v", tr)
	}
	if tr.Curve.Begin != (mgl64.Vec2{10, 2}) || tr.Curve.End != (mgl64.Vec2{0, -12}) {
		t.Fatalf("curve = %+v", tr.Curve)
	}
	if tr.Curve.Control != (mgl64.Vec2{12, -14}) {
		t.Fatalf("control = %v", tr.Curve.Control)
	}
	if f.body().State != component.StateNormal {
		t.Fatalf("pickup leaves the player in normal state")
	}
}

func TestPickupGliderBoost(t *testing.T) {
	tests := []struct {
		name       string
		gliderDir  mgl64.Vec2
		companionT float64
		startVel   mgl64.Vec2
		wantVel    mgl64.Vec2
		wantBounce mgl64.Vec2
	}{
		{"sideways_lifts_to_jump_speed", mgl64.Vec2{1, 0}, 0, mgl64.Vec2{100, 0}, mgl64.Vec2{100, -105}, mgl64.Vec2{1, 0}},
		{"upward_lifts_to_dash_speed", mgl64.Vec2{0, -1}, 0, mgl64.Vec2{0, -50}, mgl64.Vec2{0, -240}, mgl64.Vec2{0, -1}},
		{"downward_keeps_speed", mgl64.Vec2{0, 1}, 0, mgl64.Vec2{0, 80}, mgl64.Vec2{0, 80}, mgl64.Vec2{0, 1}},
		{"fresher_companion_wins", mgl64.Vec2{1, 0}, 0.5, mgl64.Vec2{100, 0}, mgl64.Vec2{-200, -300}, mgl64.Vec2{-1, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			comp := f.addCompanion(component.Companion{
				BoostSpeed: mgl64.Vec2{-200, -300},
				BoostDir:   mgl64.Vec2{-1, 0},
				BoostTimer: tc.companionT,
			})
			f.carry(comp)
			f.body().Velocity = tc.startVel
			f.timers().SetTimer(component.KeyGliderBoostTimer, 0.3)
			f.timers().SetVec(component.KeyGliderBoostDir, tc.gliderDir)

			f.mode.Pickup(f.w, f.player)

			if got := f.body().Velocity; !approxVec(got, tc.wantVel) {
				t.Fatalf("velocity = %v, want %v", got, tc.wantVel)
			}
			if got := f.timers().Vec(component.KeyBounceDir); got != tc.wantBounce {
				t.Fatalf("bounce dir = %v, want %v", got, tc.wantBounce)
			}
			if !hasString(f.sounds(), f.mode.Tuning.Sounds.PickupBoost) {
				t.Fatalf("glider boost pickups play the boost sound")
			}
		})
	}
}

func TestPickupBoostSoundWithoutBoost(t *testing.T) {
	tests := []struct {
		name string
		vel  mgl64.Vec2
		want bool
	}{
		{"fast_rising", mgl64.Vec2{0, -200}, true},
		{"slow_rising", mgl64.Vec2{0, -100}, false},
		{"fast_falling", mgl64.Vec2{0, 200}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.carry(f.addCompanion(component.Companion{}))
			f.body().Velocity = tc.vel

			f.mode.Pickup(f.w, f.player)

			if got := hasString(f.sounds(), f.mode.Tuning.Sounds.PickupBoost); got != tc.want {
				t.Fatalf("boost sound = %v, want %v", got, tc.want)
			}
			if f.body().Velocity != tc.vel {
				t.Fatalf("velocity changed to %v", f.body().Velocity)
			}
		})
	}
}

func TestPickupHeavyItemSkipsBoost(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addItem(false))
	f.timers().SetTimer(component.KeyGliderBoostTimer, 0.3)
	f.timers().SetVec(component.KeyGliderBoostDir, mgl64.Vec2{1, 0})
	f.timers().SetTimer(component.KeyBounceWallJumpForceTimer, 0.1)

	f.mode.Pickup(f.w, f.player)

	if f.body().Velocity != (mgl64.Vec2{}) {
		t.Fatalf("heavy items carry no boost, velocity = %v", f.body().Velocity)
	}
	if got := f.timers().Timer(component.KeyForceMoveXTimer); got != 0.1 {
		t.Fatalf("force move timer = %v, want the bounce wall jump force time", got)
	}
	if _, ok := ecs.Get(f.w, f.player, component.PickupTransitionComponent.Kind()); !ok {
		t.Fatalf("heavy items still glide into place")
	}
}

func TestPickupGroundedHoldingDownBlocksDuck(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addCompanion(component.Companion{}))
	f.body().OnGround = true
	f.input().MoveY = 1
	f.mode.Pickup(f.w, f.player)
	if !f.timers().Bool(component.KeyHoldCannotDuck) {
		t.Fatalf("grounded pickup holding down must not duck")
	}
}

func TestPickupBaselineFlag(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addCompanion(component.Companion{}))
	f.flags["bounceModeUseVanillaPickupBehaviour"] = true
	f.mode.Pickup(f.w, f.player)
	if f.base.called("Pickup") != 1 {
		t.Fatalf("baseline pickup expected, calls = %v", f.base.calls)
	}
	if _, ok := ecs.Get(f.w, f.player, component.PickupTransitionComponent.Kind()); ok {
		t.Fatalf("baseline pickup must not start a glide")
	}
}

func TestPickupWithoutItemIsIgnored(t *testing.T) {
	if debugBuild {
		t.Skip("misuse panics in debug builds")
	}
	f := newFixture(t)
	f.mode.Pickup(f.w, f.player)
	if f.w.Events().Len() != 0 || len(f.base.calls) != 0 {
		t.Fatalf("pickup with nothing carried must do nothing")
	}
}

func TestThrow(t *testing.T) {
	tests := []struct {
		name       string
		slowFall   bool
		aim        mgl64.Vec2
		moveY      int
		onGround   bool
		wantDrop   bool
		wantDir    mgl64.Vec2
		wantVY     float64
		wantNoHold bool
	}{
		{"glider_down_in_air", true, mgl64.Vec2{0, 1}, 1, false, false, mgl64.Vec2{0, 2}, -105, false},
		{"heavy_down_in_air", false, mgl64.Vec2{0, 1}, 1, false, false, mgl64.Vec2{0, 0.8}, -105, true},
		{"heavy_up", false, mgl64.Vec2{0, -1}, -1, false, false, mgl64.Vec2{0, -0.8}, 0, false},
		{"glider_up", true, mgl64.Vec2{0, -1}, -1, false, false, mgl64.Vec2{0, -1}, 0, false},
		{"sideways", false, mgl64.Vec2{1, 0}, 0, true, false, mgl64.Vec2{1, 0}, 0, false},
		{"grounded_down_drops", true, mgl64.Vec2{0, 1}, 1, true, true, mgl64.Vec2{}, 0, false},
		{"neutral_drops", true, mgl64.Vec2{1, 0}, 0, false, true, mgl64.Vec2{}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			item := f.addItem(tc.slowFall)
			f.carry(item)
			f.timers().SetVec(component.KeyLastAim, tc.aim)
			f.timers().SetBounceWindow(tc.aim, 0.3)
			f.input().MoveY = tc.moveY
			if tc.aim.X() != 0 && !tc.wantDrop {
				f.input().MoveX = int(tc.aim.X())
			}
			f.body().OnGround = tc.onGround

			f.mode.Throw(f.w, f.player)

			if f.holder().Carrying() {
				t.Fatalf("throw must always let go")
			}
			if f.timers().Timer(component.KeyBounceTimer) != 0 {
				t.Fatalf("throw closes the bounce window")
			}
			if tc.wantDrop {
				if f.base.called("Drop") != 1 || f.base.called("Release") != 0 {
					t.Fatalf("calls = %v", f.base.calls)
				}
				return
			}
			if len(f.base.released) != 1 || !approxVec(f.base.released[0], tc.wantDir) {
				t.Fatalf("released %v, want %v", f.base.released, tc.wantDir)
			}
			if got := f.body().Velocity.Y(); got != tc.wantVY {
				t.Fatalf("vy = %v, want %v", got, tc.wantVY)
			}
			if got := f.holdable(item).CannotHoldTimer > 0; got != tc.wantNoHold {
				t.Fatalf("cannot hold = %v, want %v", got, tc.wantNoHold)
			}
			if !hasString(f.sounds(), f.mode.Tuning.Sounds.Throw) {
				t.Fatalf("missing throw sound")
			}
			if n := len(f.w.Events().Filter(EventAnimation)); n != 1 {
				t.Fatalf("expected one throw animation, got %d", n)
			}
		})
	}
}

func TestDownwardThrowRecoil(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addCompanion(component.Companion{}))
	f.body().Velocity = mgl64.Vec2{30, 120}
	f.timers().SetVec(component.KeyLastAim, mgl64.Vec2{0, 1})
	f.input().MoveY = 1

	f.mode.Throw(f.w, f.player)

	if vy := f.body().Velocity.Y(); vy > -105 {
		t.Fatalf("downward throw must kick the player up, vy = %v", vy)
	}
	timers := f.timers()
	if timers.Timer(component.KeyVarJumpTimer) != 0.2 || timers.Float(component.KeyVarJumpSpeed) != -105 {
		t.Fatalf("var jump not armed")
	}
	if !timers.Bool(component.KeyAutoJump) {
		t.Fatalf("auto jump not set")
	}
	if f.released()[0].Y() != 2 {
		t.Fatalf("release dir = %v", f.released()[0])
	}
}

func (f *fixture) released() []mgl64.Vec2 {
	return f.base.released
}

func TestThrowBaselineFlag(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addItem(true))
	f.flags["bounceModeUseVanillaThrowBehaviour"] = true
	f.mode.Throw(f.w, f.player)
	if f.base.called("Throw") != 1 || len(f.base.released) != 0 {
		t.Fatalf("calls = %v", f.base.calls)
	}
}

func TestThrowDestroyedCompanionLetsGo(t *testing.T) {
	f := newFixture(t)
	comp := f.addCompanion(component.Companion{})
	f.carry(comp)
	c, _ := ecs.Get(f.w, comp, component.CompanionComponent.Kind())
	c.Die()
	f.timers().SetVec(component.KeyLastAim, mgl64.Vec2{1, 0})
	f.input().MoveX = 1

	f.mode.Throw(f.w, f.player)

	if f.holder().Carrying() {
		t.Fatalf("carry reference must be cleared")
	}
	if len(f.base.calls) != 0 {
		t.Fatalf("destroyed companion must not be released, calls = %v", f.base.calls)
	}
}

func TestThrowWithoutItemIsIgnored(t *testing.T) {
	if debugBuild {
		t.Skip("misuse panics in debug builds")
	}
	f := newFixture(t)
	f.mode.Throw(f.w, f.player)
	if len(f.base.calls) != 0 || f.w.Events().Len() != 0 {
		t.Fatalf("throwing nothing must do nothing")
	}
}

func TestStepPickup(t *testing.T) {
	f := newFixture(t)
	comp := f.addCompanion(component.Companion{})
	f.carry(comp)
	target := mgl64.Vec2{0, -12}
	f.timers().SetVec(component.KeyCarryOffsetTarget, target)
	f.mode.Pickup(f.w, f.player)

	phase, err := StepPickup(f.w, f.player, 0.08)
	if err != nil || phase != component.PickupGliding {
		t.Fatalf("phase = %v err = %v", phase, err)
	}
	mid := f.timers().Vec(component.KeyCarryOffset)
	if mid == (mgl64.Vec2{10, 2}) || mid == target {
		t.Fatalf("offset should be between begin and target, got %v", mid)
	}

	phase, _ = StepPickup(f.w, f.player, 0.1)
	if phase != component.PickupDone {
		t.Fatalf("phase = %v, want done", phase)
	}
	if got := f.timers().Vec(component.KeyCarryOffset); !approxVec(got, target) {
		t.Fatalf("offset = %v, want %v", got, target)
	}

	phase, err = StepPickup(f.w, f.player, 0.1)
	if err != nil || phase != component.PickupDone {
		t.Fatalf("finished transitions stay done, got %v %v", phase, err)
	}
}

func TestStepPickupCancels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, comp ecs.Entity)
	}{
		{"dropped", func(f *fixture, _ ecs.Entity) { f.holder().Holding = 0 }},
		{"destroyed_companion", func(f *fixture, comp ecs.Entity) { f.companion(comp).Die() }},
		{"removed_entity", func(f *fixture, comp ecs.Entity) { f.w.DestroyEntity(comp) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			comp := f.addCompanion(component.Companion{})
			f.carry(comp)
			f.mode.Pickup(f.w, f.player)
			before := f.timers().Vec(component.KeyCarryOffset)

			tc.mutate(f, comp)
			phase, err := StepPickup(f.w, f.player, DefaultDT)

			if err != nil || phase != component.PickupCancelled {
				t.Fatalf("phase = %v err = %v", phase, err)
			}
			if f.timers().Vec(component.KeyCarryOffset) != before {
				t.Fatalf("cancelled glide must not move the item")
			}
		})
	}
}

func TestStepPickupWithoutTransition(t *testing.T) {
	f := newFixture(t)
	if _, err := StepPickup(f.w, f.player, DefaultDT); !errors.Is(err, ErrNoTransition) {
		t.Fatalf("expected ErrNoTransition, got %v", err)
	}
}

func TestPickupSystemFinishesGlide(t *testing.T) {
	f := newFixture(t)
	f.carry(f.addCompanion(component.Companion{}))
	f.mode.Pickup(f.w, f.player)

	sys := NewPickupSystem(DefaultDT)
	for i := 0; i < 20; i++ {
		sys.Update(f.w)
	}
	tr, _ := ecs.Get(f.w, f.player, component.PickupTransitionComponent.Kind())
	if tr.Phase != component.PickupDone {
		t.Fatalf("phase after 20 frames = %v", tr.Phase)
	}
}
