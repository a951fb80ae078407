package component

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTimersDecayClampsAtZero(t *testing.T) {
	timers := NewTimers()
	timers.SetTimer(KeyVarJumpTimer, 0.25)
	timers.SetTimer(KeyForceMoveXTimer, 0.01)

	timers.Decay(1.0 / 60)

	if got := timers.Timer(KeyForceMoveXTimer); got != 0 {
		t.Fatalf("expected expired timer to clamp at 0, got %v", got)
	}
	if got := timers.Timer(KeyVarJumpTimer); got <= 0 || got >= 0.25 {
		t.Fatalf("expected running timer to decrease, got %v", got)
	}

	for i := 0; i < 100; i++ {
		timers.Decay(1.0 / 60)
	}
	for _, key := range timers.TimerKeys() {
		if v := timers.Timer(key); v < 0 {
			t.Fatalf("timer %s went negative: %v", key, v)
		}
	}
}

func TestTimersSetNegativeStoresZero(t *testing.T) {
	timers := NewTimers()
	timers.SetTimer(KeyBounceTimer, -3)
	if timers.Active(KeyBounceTimer) || timers.Timer(KeyBounceTimer) != 0 {
		t.Fatalf("negative arm must be stored as 0")
	}
}

func TestTimersZeroValueIsUsable(t *testing.T) {
	var timers Timers
	if timers.Timer("missing") != 0 || timers.Bool("missing") {
		t.Fatalf("zero value must read as empty")
	}
	timers.SetForceMoveX(-1, 0.16)
	if timers.Int(KeyForceMoveX) != -1 || timers.Timer(KeyForceMoveXTimer) != 0.16 {
		t.Fatalf("force move pair not stored")
	}
	timers.SetBounceWindow(mgl64.Vec2{0, 1}, 0.3)
	if timers.Vec(KeyBounceDir) != (mgl64.Vec2{0, 1}) || !timers.Active(KeyBounceTimer) {
		t.Fatalf("bounce window pair not stored")
	}
}

func TestTimerKeysKeepArmOrder(t *testing.T) {
	timers := NewTimers()
	timers.SetTimer("b", 1)
	timers.SetTimer("a", 1)
	timers.SetTimer("b", 2)
	keys := timers.TimerKeys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("expected [b a], got %v", keys)
	}
}
