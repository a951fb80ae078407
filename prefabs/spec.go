package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrPolicyLength   = errors.New("prefabs: dash policy must have 8 entries")
	ErrUnknownOutcome = errors.New("prefabs: unknown dash outcome")
	ErrNegativeValue  = errors.New("prefabs: value must not be negative")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2Spec) Vec() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

// BounceSpec holds every tunable of bounce mode.
type BounceSpec struct {
	Speeds     BounceSpeedsSpec    `yaml:"speeds"`
	Sounds     BounceSoundsSpec    `yaml:"sounds"`
	Strengths  BounceStrengthsSpec `yaml:"strengths"`
	Constants  BounceConstantsSpec `yaml:"constants"`
	DashPolicy []string            `yaml:"dash_policy"`
	SolidKinds map[string][]string `yaml:"solid_kinds"`
	Colors     BounceColorsSpec    `yaml:"colors"`
	Settings   SettingsSpec        `yaml:"settings"`
}

type BounceSpeedsSpec struct {
	Sideways  Vec2Spec `yaml:"sideways"`
	Diagonal  Vec2Spec `yaml:"diagonal"`
	Upwards   Vec2Spec `yaml:"upwards"`
	Downwards Vec2Spec `yaml:"downwards"`
	Ceiling   Vec2Spec `yaml:"ceiling"`
}

type BounceSoundsSpec struct {
	Horizontal     string `yaml:"horizontal"`
	Diagonal       string `yaml:"diagonal"`
	Vertical       string `yaml:"vertical"`
	DreamExit      string `yaml:"dream_exit"`
	DreamJump      string `yaml:"dream_jump"`
	DreamBounce    string `yaml:"dream_bounce"`
	Throw          string `yaml:"throw"`
	Lift           string `yaml:"lift"`
	PickupBoost    string `yaml:"pickup_boost"`
	CompanionDeath string `yaml:"companion_death"`
}

type BounceStrengthsSpec struct {
	Parallel      int `yaml:"parallel"`
	Diagonal      int `yaml:"diagonal"`
	Perpendicular int `yaml:"perpendicular"`
}

type BounceConstantsSpec struct {
	DashSpeed               float64  `yaml:"dash_speed"`
	DashAttackTime          float64  `yaml:"dash_attack_time"`
	JumpSpeed               float64  `yaml:"jump_speed"`
	JumpHBoost              float64  `yaml:"jump_h_boost"`
	VarJumpTime             float64  `yaml:"var_jump_time"`
	SuperWallJumpVarTime    float64  `yaml:"super_wall_jump_var_time"`
	WallJumpCheckDist       float64  `yaml:"wall_jump_check_dist"`
	SuperWallJumpCheckDist  float64  `yaml:"super_wall_jump_check_dist"`
	DreamJumpCheckDist      float64  `yaml:"dream_jump_check_dist"`
	WallJumpForceTime       float64  `yaml:"wall_jump_force_time"`
	GliderWallJumpForceTime float64  `yaml:"glider_wall_jump_force_time"`
	DashGliderBoostTime     float64  `yaml:"dash_glider_boost_time"`
	LiftXCap                float64  `yaml:"lift_x_cap"`
	LiftYCap                float64  `yaml:"lift_y_cap"`
	PickupTime              float64  `yaml:"pickup_time"`
	PickupTimeIncrement     float64  `yaml:"pickup_time_increment"`
	DreamBounceSpeedMult    float64  `yaml:"dream_bounce_speed_mult"`
	DownwardThrowRecoil     float64  `yaml:"downward_throw_recoil"`
	ThrowUpAttenuation      float64  `yaml:"throw_up_attenuation"`
	ThrowDownAttenuation    float64  `yaml:"throw_down_attenuation"`
	CannotHoldTime          float64  `yaml:"cannot_hold_time"`
	MaxFallMult             float64  `yaml:"max_fall_mult"`
	SlowFallMult            float64  `yaml:"slow_fall_mult"`
	HiccupBoost             Vec2Spec `yaml:"hiccup_boost"`
	FastHorizontalSpeed     float64  `yaml:"fast_horizontal_speed"`
	PickupBoostSoundSpeed   float64  `yaml:"pickup_boost_sound_speed"`
}

type BounceColorsSpec struct {
	Trail YAMLColor   `yaml:"trail"`
	Dream []YAMLColor `yaml:"dream"`
}

// SettingsSpec mirrors the host-exposed toggles. Flags are the session flag
// names read through the flag source.
type SettingsSpec struct {
	ForceBounceMode bool         `yaml:"force_bounce_mode"`
	Flags           FlagNameSpec `yaml:"flags"`
}

type FlagNameSpec struct {
	Enabled           string `yaml:"enabled"`
	UseBaselineThrow  string `yaml:"use_baseline_throw"`
	UseBaselinePickup string `yaml:"use_baseline_pickup"`
}

var dashOutcomes = map[string]struct{}{
	"dash":    {},
	"hiccup":  {},
	"no_dash": {},
}

// Validate checks the parts of the spec the engine indexes or divides by.
func (s *BounceSpec) Validate() error {
	if len(s.DashPolicy) != 8 {
		return fmt.Errorf("%w: got %d", ErrPolicyLength, len(s.DashPolicy))
	}
	for i, outcome := range s.DashPolicy {
		if _, ok := dashOutcomes[strings.ToLower(outcome)]; !ok {
			return fmt.Errorf("%w: bucket %d is %q", ErrUnknownOutcome, i, outcome)
		}
	}

	c := s.Constants
	for name, v := range map[string]float64{
		"dash_attack_time":            c.DashAttackTime,
		"var_jump_time":               c.VarJumpTime,
		"super_wall_jump_var_time":    c.SuperWallJumpVarTime,
		"wall_jump_force_time":        c.WallJumpForceTime,
		"glider_wall_jump_force_time": c.GliderWallJumpForceTime,
		"dash_glider_boost_time":      c.DashGliderBoostTime,
		"pickup_time":                 c.PickupTime,
		"cannot_hold_time":            c.CannotHoldTime,
		"lift_x_cap":                  c.LiftXCap,
		"lift_y_cap":                  c.LiftYCap,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNegativeValue, name, v)
		}
	}
	return nil
}

func LoadBounceSpec() (*BounceSpec, error) {
	data, err := Load("bounce.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load bounce.yaml: %w", err)
	}
	return parseBounceSpec("bounce.yaml", data)
}

// LoadBounceSpecFile reads a bounce spec from an arbitrary path on disk.
func LoadBounceSpecFile(path string) (*BounceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return parseBounceSpec(path, data)
}

func parseBounceSpec(name string, data []byte) (*BounceSpec, error) {
	var spec BounceSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: validate %s: %w", name, err)
	}
	return &spec, nil
}

// DefaultBounceSpec returns the embedded defaults. It panics only if the
// embedded file itself is broken.
func DefaultBounceSpec() *BounceSpec {
	data, err := PrefabsFS.ReadFile("bounce.yaml")
	if err != nil {
		panic(err)
	}
	spec, err := parseBounceSpec("bounce.yaml", data)
	if err != nil {
		panic(err)
	}
	return spec
}

// RoomSpec describes a sandbox room.
type RoomSpec struct {
	Name       string          `yaml:"name"`
	Bounds     RectSpec        `yaml:"bounds"`
	Player     PlayerSpec      `yaml:"player"`
	Solids     []SolidSpec     `yaml:"solids"`
	Companions []CompanionSpec `yaml:"companions"`
	Holdables  []HoldableSpec  `yaml:"holdables"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PlayerSpec struct {
	Transform TransformSpec `yaml:"transform"`
	Collider  ColliderSpec  `yaml:"collider"`
	MaxDashes int           `yaml:"max_dashes"`
	DreamDash bool          `yaml:"dream_dash"`
}

type SolidSpec struct {
	Kind      string   `yaml:"kind"`
	Rect      RectSpec `yaml:"rect"`
	LiftSpeed Vec2Spec `yaml:"lift_speed"`
	Special   bool     `yaml:"special"`
	// Impulse solids only.
	Direction       Vec2Spec `yaml:"direction"`
	PushPerStrength float64  `yaml:"push_per_strength"`
	MaxSpeed        float64  `yaml:"max_speed"`
	Multiplier      float64  `yaml:"multiplier"`
	// Toggle solids only.
	LockoutTime float64 `yaml:"lockout_time"`
}

type CompanionSpec struct {
	Transform       TransformSpec `yaml:"transform"`
	Collider        ColliderSpec  `yaml:"collider"`
	MaxDashes       int           `yaml:"max_dashes"`
	SoulBound       bool          `yaml:"soul_bound"`
	MatchPlayerDash bool          `yaml:"match_player_dash"`
}

type HoldableSpec struct {
	Transform TransformSpec `yaml:"transform"`
	Collider  ColliderSpec  `yaml:"collider"`
	SlowFall  bool          `yaml:"slow_fall"`
}

func LoadRoomSpec(name string) (*RoomSpec, error) {
	spec, err := LoadSpec[RoomSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
