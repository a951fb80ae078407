package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

func TestCombineLift(t *testing.T) {
	tests := []struct {
		name       string
		base, lift float64
		want       float64
	}{
		{"zero_base_takes_lift", 0, 30, 30},
		{"zero_both", 0, 0, 0},
		{"lift_with_motion_adds", -210, -50, -260},
		{"lift_against_motion_ignored", -210, 50, -210},
		{"lift_flipping_sign_ignored", 320, -400, 320},
		{"positive_adds", 200, 25, 225},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := combineLift(tc.base, tc.lift); got != tc.want {
				t.Fatalf("combineLift(%v, %v) = %v, want %v", tc.base, tc.lift, got, tc.want)
			}
		})
	}
}

func TestCombineLiftNeverSlowsDown(t *testing.T) {
	for base := -300.0; base <= 300; base += 37 {
		for lift := -300.0; lift <= 300; lift += 41 {
			got := combineLift(base, lift)
			if base != 0 && (math.Abs(got) < math.Abs(base) || common.Sign(got) != common.Sign(base)) {
				t.Fatalf("combineLift(%v, %v) = %v lost speed or flipped", base, lift, got)
			}
		}
	}
}

func TestDownwardBounceFromDash(t *testing.T) {
	f := newFixture(t)
	f.floor("solid")
	body := f.body()
	body.State = component.StateDash
	body.DashDir = vecDown
	f.input().JumpPressed = true
	f.timers().SetTimer(component.KeyJumpGraceTimer, 0.1)
	f.timers().SetBounceWindow(vecDown, 0.3)

	next := f.mode.AfterDashUpdate(f.w, f.player, component.StateDash)

	if next != component.StateNormal {
		t.Fatalf("expected normal state, got %v", next)
	}
	if !approxVec(body.Velocity, mgl64.Vec2{0, -210}) {
		t.Fatalf("velocity = %v, want (0,-210)", body.Velocity)
	}
	timers := f.timers()
	if timers.Timer(component.KeyVarJumpTimer) != 0.25 || timers.Float(component.KeyVarJumpSpeed) != -210 {
		t.Fatalf("var jump not armed: timer=%v speed=%v", timers.Timer(component.KeyVarJumpTimer), timers.Float(component.KeyVarJumpSpeed))
	}
	if !timers.Bool(component.KeyLaunched) {
		t.Fatalf("launched flag not set")
	}
	if timers.Timer(component.KeyBounceTimer) != 0 {
		t.Fatalf("bounce window should close")
	}
	if f.base.called("Jump") != 1 {
		t.Fatalf("host jump should run once, calls=%v", f.base.calls)
	}
	if f.inventory().Dashes != 1 {
		t.Fatalf("dashes should be refilled, got %d", f.inventory().Dashes)
	}
	if !hasString(f.sounds(), f.mode.Tuning.Sounds.Vertical) {
		t.Fatalf("missing vertical bounce sound, got %v", f.sounds())
	}
	if n := len(f.w.Events().Filter(EventTrail)); n != 1 {
		t.Fatalf("expected one trail, got %d", n)
	}
}

func TestDownwardBounceConservesHorizontalSpeed(t *testing.T) {
	tests := []struct {
		name      string
		vx        float64
		moveX     int
		wantVX    float64
		wantForce bool
	}{
		{"fast_keeps_momentum", 200, 0, 240, true},
		{"fast_left", -200, 1, -240, true},
		{"slow_follows_input", 100, -1, 60, false},
		{"still", 0, 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.floor("solid")
			body := f.body()
			body.State = component.StateDash
			body.DashDir = vecDown
			body.Velocity = mgl64.Vec2{tc.vx, 240}
			f.input().JumpPressed = true
			f.input().MoveX = tc.moveX
			f.timers().SetTimer(component.KeyJumpGraceTimer, 0.1)

			f.mode.AfterDashUpdate(f.w, f.player, component.StateDash)

			if body.Velocity.X() != tc.wantVX {
				t.Fatalf("vx = %v, want %v", body.Velocity.X(), tc.wantVX)
			}
			if f.bounce().ConservedHSpeed != 0 {
				t.Fatalf("conserved speed must be cleared after use")
			}
			forced := f.timers().Timer(component.KeyForceMoveXTimer) > 0
			if forced != tc.wantForce {
				t.Fatalf("force move = %v, want %v", forced, tc.wantForce)
			}
		})
	}
}

func TestRefillCooldownBlocksDownwardRefill(t *testing.T) {
	f := newFixture(t)
	f.floor("solid")
	f.body().State = component.StateDash
	f.body().DashDir = vecDown
	f.input().JumpPressed = true
	f.timers().SetTimer(component.KeyJumpGraceTimer, 0.1)
	f.timers().SetTimer(component.KeyDashRefillCooldownTimer, 0.1)

	f.mode.AfterDashUpdate(f.w, f.player, component.StateDash)
	if f.inventory().Dashes != 0 || f.base.called("RefillDash") != 0 {
		t.Fatalf("refill must wait for the cooldown")
	}
}

func TestCeilingBounceFromDash(t *testing.T) {
	f := newFixture(t)
	f.ceiling("solid")
	body := f.body()
	body.State = component.StateDash
	body.DashDir = vecUp
	f.input().JumpPressed = true

	if next := f.mode.AfterDashUpdate(f.w, f.player, component.StateDash); next != component.StateNormal {
		t.Fatalf("expected normal, got %v", next)
	}
	if !approxVec(body.Velocity, mgl64.Vec2{0, 200}) {
		t.Fatalf("velocity = %v", body.Velocity)
	}
	if !f.input().JumpConsumed {
		t.Fatalf("jump buffer should be consumed")
	}
	var dust int
	for _, evt := range f.w.Events().Filter(EventBurst) {
		if evt.Data.(component.BurstRequest).Kind == component.BurstDust {
			dust++
		}
	}
	if dust != 1 {
		t.Fatalf("expected one dust burst, got %d", dust)
	}
}

func TestAfterDashUpdateWithoutSurface(t *testing.T) {
	f := newFixture(t)
	body := f.body()
	body.State = component.StateDash
	body.DashDir = vecUp
	body.Velocity = mgl64.Vec2{0, -240}
	f.input().JumpPressed = true

	if next := f.mode.AfterDashUpdate(f.w, f.player, component.StateDash); next != component.StateDash {
		t.Fatalf("no ceiling means no bounce, got %v", next)
	}
	if body.Velocity != (mgl64.Vec2{0, -240}) {
		t.Fatalf("velocity changed to %v", body.Velocity)
	}
}

func TestBounceConservedSpeedAppliedOnce(t *testing.T) {
	f := newFixture(t)
	f.floor("solid")
	f.bounce().ConservedHSpeed = 100

	params := BounceParams{Base: mgl64.Vec2{0, -210}, Strength: StrengthPerpendicular, Surface: vecDown}
	f.mode.Bounce(f.w, f.player, params)
	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{100, -210}) {
		t.Fatalf("first bounce = %v", got)
	}
	f.mode.Bounce(f.w, f.player, params)
	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{0, -210}) {
		t.Fatalf("second bounce must not reuse conserved speed, got %v", got)
	}

	f.bounce().ConservedHSpeed = 100
	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{320, -55}, Surface: vecDown})
	if got := f.body().Velocity.X(); got != 320 {
		t.Fatalf("faster base keeps its speed, got %v", got)
	}
	if f.bounce().ConservedHSpeed != 0 {
		t.Fatalf("conserved speed must be cleared")
	}
}

func TestBounceLiftFromSolid(t *testing.T) {
	tests := []struct {
		name      string
		solidLift mgl64.Vec2
		bodyLift  mgl64.Vec2
		want      mgl64.Vec2
	}{
		{"capped_platform_lift", mgl64.Vec2{300, -200}, mgl64.Vec2{}, mgl64.Vec2{250, -340}},
		{"small_lift", mgl64.Vec2{-20, -10}, mgl64.Vec2{}, mgl64.Vec2{-20, -220}},
		{"falls_back_to_body", mgl64.Vec2{}, mgl64.Vec2{15, 0}, mgl64.Vec2{15, -210}},
		{"downward_lift_ignored", mgl64.Vec2{0, 90}, mgl64.Vec2{}, mgl64.Vec2{0, -210}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			floor := f.floor("solid")
			s, _ := ecs.Get(f.w, floor, component.SolidComponent.Kind())
			s.LiftSpeed = tc.solidLift
			f.body().LiftSpeed = tc.bodyLift

			f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
			if got := f.body().Velocity; !approxVec(got, tc.want) {
				t.Fatalf("velocity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBouncePorousAppliesOnce(t *testing.T) {
	f := newFixture(t)
	f.inventory().DreamDash = true
	a := f.floor("dream_block")
	b := f.floor("dream_block")

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown, Ripple: true})

	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{0, -252}) {
		t.Fatalf("porous speed boost must apply once, got %v", got)
	}
	var dream int
	for _, evt := range f.w.Events().Filter(EventBurst) {
		if evt.Data.(component.BurstRequest).Kind == component.BurstDream {
			dream++
		}
	}
	if dream != len(f.mode.Tuning.DreamColors) {
		t.Fatalf("expected %d dream bursts, got %d", len(f.mode.Tuning.DreamColors), dream)
	}
	exits := 0
	for _, s := range f.sounds() {
		if s == f.mode.Tuning.Sounds.DreamExit {
			exits++
		}
	}
	if exits != 1 {
		t.Fatalf("expected one dream exit sound, got %d", exits)
	}
	for _, e := range []ecs.Entity{a, b} {
		p, _ := ecs.Get(f.w, e, component.PorousComponent.Kind())
		if p.Ripples != 1 {
			t.Fatalf("each porous surface ripples once, got %d", p.Ripples)
		}
	}
	if n := len(f.w.Events().Filter(EventRipple)); n != 2 {
		t.Fatalf("expected 2 ripple events, got %d", n)
	}
}

func TestBouncePorousNeedsDreamDash(t *testing.T) {
	f := newFixture(t)
	f.floor("dream_block")
	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown, Ripple: true})
	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{0, -210}) {
		t.Fatalf("no dream dash means plain bounce, got %v", got)
	}
	if n := len(f.w.Events().Filter(EventRipple)); n != 0 {
		t.Fatalf("unexpected ripples: %d", n)
	}
}

func TestBounceImpulseMultipliesOnce(t *testing.T) {
	f := newFixture(t)
	a := f.ceiling("move_block")
	b := f.ceiling("move_block")

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, 200}, Strength: StrengthPerpendicular, Surface: vecUp})

	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{0, 300}) {
		t.Fatalf("impulse multiplier must apply once, got %v", got)
	}
	for _, e := range []ecs.Entity{a, b} {
		imp, _ := ecs.Get(f.w, e, component.ImpulseComponent.Kind())
		if imp.Impacts != 1 || !imp.Triggered || imp.Speed != 40 {
			t.Fatalf("each block is pushed once: %+v", imp)
		}
	}
}

func TestBounceImpulseHorizontalAxis(t *testing.T) {
	f := newFixture(t)
	wall := f.wall("move_block", 1)
	imp, _ := ecs.Get(f.w, wall, component.ImpulseComponent.Kind())
	imp.Direction = mgl64.Vec2{-1, 0}

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{-320, -55}, Strength: StrengthPerpendicular, Surface: mgl64.Vec2{1, 0}})
	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{-480, -55}) {
		t.Fatalf("velocity = %v", got)
	}
}

func TestBounceActivators(t *testing.T) {
	tests := []struct {
		name     string
		special  bool
		carrying bool
		want     bool
	}{
		{"plain", false, false, true},
		{"special_needs_companion", true, false, false},
		{"special_with_companion", true, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			e := f.floor("zip_mover")
			act, _ := ecs.Get(f.w, e, component.ActivatorComponent.Kind())
			act.Special = tc.special
			if tc.carrying {
				f.carry(f.addCompanion(component.Companion{}))
			}
			f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
			if act.Triggered != tc.want {
				t.Fatalf("triggered = %v, want %v", act.Triggered, tc.want)
			}
		})
	}
}

func TestDispatchCountsReactions(t *testing.T) {
	f := newFixture(t)
	zip := f.floor("zip_mover")
	trig := f.floor("falling_block")
	f.floor("solid")

	region := f.body().HitboxAt(f.body().Position.Add(mgl64.Vec2{0, 3}))
	hits := f.mode.Solids.Overlapping(f.w, region)
	if len(hits) != 3 {
		t.Fatalf("expected 3 solids under the probe, got %v", hits)
	}

	res := f.mode.Dispatch(f.w, f.player, hits, DispatchContext{Surface: vecDown, Strength: StrengthPerpendicular})
	if res.Activated != 1 || res.Triggered != 1 || res.Porous || res.Impulse {
		t.Fatalf("unexpected result %+v", res)
	}
	again := f.mode.Dispatch(f.w, f.player, hits, DispatchContext{Surface: vecDown})
	if again.Activated != 0 || again.Triggered != 1 {
		t.Fatalf("activators fire once, triggers are idempotent: %+v", again)
	}
	if tr, _ := ecs.Get(f.w, trig, component.TriggerComponent.Kind()); !tr.Fired {
		t.Fatalf("trigger not fired")
	}
	if act, _ := ecs.Get(f.w, zip, component.ActivatorComponent.Kind()); !act.Triggered {
		t.Fatalf("activator not triggered")
	}
}

func TestBounceToggleRefills(t *testing.T) {
	f := newFixture(t)
	e := f.floor("swap_block")
	tog, _ := ecs.Get(f.w, e, component.ToggleComponent.Kind())

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
	if !tog.Toggled || tog.Lockout != 0.2 {
		t.Fatalf("toggle should flip and lock out: %+v", tog)
	}
	if f.inventory().Dashes != 1 {
		t.Fatalf("toggle should refill dashes")
	}

	f.inventory().Dashes = 0
	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
	if !tog.Toggled || f.inventory().Dashes != 0 {
		t.Fatalf("locked out toggle must not flip or refill")
	}
}

func TestBounceSpecialToggleRefillsCompanion(t *testing.T) {
	f := newFixture(t)
	e := f.floor("swap_block")
	tog, _ := ecs.Get(f.w, e, component.ToggleComponent.Kind())
	tog.Special = true

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
	if tog.Toggled {
		t.Fatalf("special toggle ignores a player without a companion")
	}

	comp := f.addCompanion(component.Companion{MaxDashes: 2})
	f.carry(comp)
	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
	if !tog.Toggled {
		t.Fatalf("special toggle should flip")
	}
	if got := f.companion(comp).Dashes; got != 2 {
		t.Fatalf("companion dashes = %d, want 2", got)
	}
	if f.inventory().Dashes != 0 {
		t.Fatalf("player must not be refilled by a special toggle")
	}
}

func TestBounceHoleCheck(t *testing.T) {
	f := newFixture(t)
	f.wall("solid", -1)
	f.wall("solid", 1)
	f.bounce().CornerBounced = true

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{-320, -55}, Surface: mgl64.Vec2{1, 0}})

	if got := f.body().Velocity; got.X() != 0 || got.Y() != -55 {
		t.Fatalf("hole bounce keeps only vertical speed, got %v", got)
	}
	if !f.bounce().HoleBounced {
		t.Fatalf("hole bounce flag not set")
	}
	if n := len(f.w.Events().Filter(EventTrail)); n != 0 {
		t.Fatalf("corner bounces draw no trail, got %d", n)
	}
}

func TestBounceCornerWithoutHole(t *testing.T) {
	f := newFixture(t)
	f.wall("solid", 1)
	f.bounce().CornerBounced = true

	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{-320, -55}, Surface: mgl64.Vec2{1, 0}})
	if got := f.body().Velocity; !approxVec(got, mgl64.Vec2{-320, -55}) {
		t.Fatalf("velocity = %v", got)
	}
	if f.bounce().HoleBounced {
		t.Fatalf("no opposite wall, no hole bounce")
	}
}

func TestBounceSetsGliderBoost(t *testing.T) {
	f := newFixture(t)
	f.mode.Bounce(f.w, f.player, BounceParams{Base: mgl64.Vec2{230, -170}, Surface: vecDown})
	timers := f.timers()
	if timers.Timer(component.KeyGliderBoostTimer) != f.mode.Tuning.C.DashGliderBoostTime {
		t.Fatalf("glider boost timer not armed")
	}
	want := common.Normalize(mgl64.Vec2{230, -170})
	if !approxVec(timers.Vec(component.KeyGliderBoostDir), want) {
		t.Fatalf("glider dir = %v, want %v", timers.Vec(component.KeyGliderBoostDir), want)
	}
}

func TestBounceWithoutBodyIsNoop(t *testing.T) {
	f := newFixture(t)
	ghost := f.w.CreateEntity()
	f.mode.Bounce(f.w, ghost, BounceParams{Base: mgl64.Vec2{0, -210}, Surface: vecDown})
	if f.w.Events().Len() != 0 {
		t.Fatalf("no body, no events")
	}
}
