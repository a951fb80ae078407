package sandbox

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/prefabs"
)

const scriptDispatch = `
update(__engine, __state)
`

// ScriptedInput drives the player's Input from a tengo script. The script
// defines update(engine, state); state persists between frames.
type ScriptedInput struct {
	Path string

	compiled  *tengo.Compiled
	stateData *tengo.Map
	frame     int
	failed    bool
}

// LoadScriptedInput compiles the named script from prefabs/scripts.
func LoadScriptedInput(name string) (*ScriptedInput, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load script %q: %w", name, err)
	}
	s, err := NewScriptedInput(src)
	if err != nil {
		return nil, fmt.Errorf("compile script %q: %w", name, err)
	}
	s.Path = name
	return s, nil
}

func NewScriptedInput(src []byte) (*ScriptedInput, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &ScriptedInput{
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (s *ScriptedInput) Update(w *ecs.World) {
	if s == nil || s.compiled == nil || s.failed {
		return
	}
	defer func() { s.frame++ }()

	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok {
		return
	}
	in.JumpPressed = false
	in.DashPressed = false
	in.CompanionDashPressed = false
	in.JumpConsumed = false
	in.DashConsumed = false

	body, _ := ecs.Get(w, player, component.BodyComponent.Kind())
	inv, _ := ecs.Get(w, player, component.InventoryComponent.Kind())
	holder, _ := ecs.Get(w, player, component.HolderComponent.Kind())

	engine := s.engine(in, body, inv, holder)
	if err := s.compiled.Set("__engine", engine); err != nil {
		s.fail(err)
		return
	}
	if err := s.compiled.Set("__state", s.stateData); err != nil {
		s.fail(err)
		return
	}
	if err := s.compiled.Run(); err != nil {
		s.fail(err)
	}
}

// Frame is the number of frames the script has seen.
func (s *ScriptedInput) Frame() int {
	return s.frame
}

// Failed reports whether a runtime error stopped the script.
func (s *ScriptedInput) Failed() bool {
	return s.failed
}

func (s *ScriptedInput) fail(err error) {
	s.failed = true
	log().WithError(err).WithField("script", s.Path).Error("input script stopped")
}

func (s *ScriptedInput) engine(in *component.Input, body *component.Body, inv *component.Inventory, holder *component.Holder) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.frame)}, nil
	}}

	values["player"] = &tengo.UserFunction{Name: "player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		out := map[string]tengo.Object{}
		if body != nil {
			out["x"] = &tengo.Float{Value: body.Position.X()}
			out["y"] = &tengo.Float{Value: body.Position.Y()}
			out["vx"] = &tengo.Float{Value: body.Velocity.X()}
			out["vy"] = &tengo.Float{Value: body.Velocity.Y()}
			out["state"] = &tengo.String{Value: body.State.String()}
			out["on_ground"] = boolObject(body.OnGround)
		}
		if inv != nil {
			out["dashes"] = &tengo.Int{Value: int64(inv.Dashes)}
		}
		out["carrying"] = boolObject(holder != nil && holder.Carrying())
		return &tengo.ImmutableMap{Value: out}, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		in.MoveX = axisValue(args[0])
		in.MoveY = axisValue(args[1])
		return tengo.TrueValue, nil
	}}

	values["aim"] = &tengo.UserFunction{Name: "aim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, _ := tengo.ToFloat64(args[0])
		y, _ := tengo.ToFloat64(args[1])
		in.Aim = mgl64.Vec2{x, y}
		return tengo.TrueValue, nil
	}}

	values["press"] = &tengo.UserFunction{Name: "press", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		switch buttonName(args[0]) {
		case "jump":
			in.JumpPressed = true
		case "dash":
			in.DashPressed = true
		case "companion_dash":
			in.CompanionDashPressed = true
		default:
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["hold"] = &tengo.UserFunction{Name: "hold", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		held := !args[1].IsFalsy()
		switch buttonName(args[0]) {
		case "jump":
			in.Jump = held
		case "grab":
			in.Grab = held
		default:
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func buttonName(obj tengo.Object) string {
	s, _ := tengo.ToString(obj)
	return strings.ToLower(strings.TrimSpace(s))
}

func axisValue(obj tengo.Object) int {
	v, ok := tengo.ToFloat64(obj)
	if !ok {
		return 0
	}
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
