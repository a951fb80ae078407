package sandbox

import (
	"testing"

	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/ecs/system"
)

func scriptedSandbox(t *testing.T, script *ScriptedInput, bounce bool) *Sandbox {
	t.Helper()
	sb, err := New(flatRoom(), Options{
		Flags: system.Flags{"bounceModeEnabled": bounce},
		Input: script,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sb
}

func TestScriptedDownBounce(t *testing.T) {
	tests := []struct {
		name      string
		bounce    bool
		wantState component.PrimaryState
		wantVY    float64
	}{
		{"bounce_mode", true, component.StateNormal, -210},
		{"baseline", false, component.StateDash, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script, err := LoadScriptedInput("down_bounce.tengo")
			if err != nil {
				t.Fatalf("LoadScriptedInput: %v", err)
			}
			sb := scriptedSandbox(t, script, tc.bounce)
			sb.steps(7)

			if script.Failed() {
				t.Fatalf("script failed")
			}
			body := sb.Player()
			if body.State != tc.wantState {
				t.Fatalf("expected state %v, got %v", tc.wantState, body.State)
			}
			if !near(body.Velocity.Y(), tc.wantVY) {
				t.Fatalf("expected vy %v, got %v", tc.wantVY, body.Velocity.Y())
			}
		})
	}
}

func TestScriptedInputWalksAndReadsPlayer(t *testing.T) {
	script, err := NewScriptedInput([]byte(`
update := func(engine, state) {
	engine.move(1, 0)
	if engine.player().on_ground {
		state.grounded = true
	}
}
`))
	if err != nil {
		t.Fatalf("NewScriptedInput: %v", err)
	}
	sb := scriptedSandbox(t, script, true)
	startX := sb.Player().Position.X()
	sb.steps(10)

	if got := sb.Input().MoveX; got != 1 {
		t.Fatalf("expected MoveX 1, got %d", got)
	}
	if sb.Player().Position.X() <= startX {
		t.Fatalf("expected the player to walk right from %v, got %v", startX, sb.Player().Position.X())
	}
	if v, ok := script.stateData.Value["grounded"]; !ok || v.IsFalsy() {
		t.Fatalf("expected script state to persist grounded flag")
	}
	if script.Frame() != 10 {
		t.Fatalf("expected 10 frames, got %d", script.Frame())
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		compileErr bool
	}{
		{"syntax", "update := func(engine, state) {", true},
		{"missing_update", "x := 1", true},
		{"runtime", "update := func(engine, state) { engine.nope() }", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script, err := NewScriptedInput([]byte(tc.src))
			if tc.compileErr {
				if err == nil {
					t.Fatalf("expected compile error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewScriptedInput: %v", err)
			}
			sb := scriptedSandbox(t, script, true)
			sb.steps(2)
			if !script.Failed() {
				t.Fatalf("expected the script to stop on a runtime error")
			}
		})
	}
}
