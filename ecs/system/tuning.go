package system

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/prefabs"
)

// Strength classifies how squarely a bounce hits a surface. Impulse solids
// scale their reaction by it.
type Strength int

const (
	StrengthParallel Strength = iota
	StrengthDiagonal
	StrengthPerpendicular
)

func (s Strength) String() string {
	switch s {
	case StrengthDiagonal:
		return "diagonal"
	case StrengthPerpendicular:
		return "perpendicular"
	}
	return "parallel"
}

// BounceClass indexes the bounce speed table.
type BounceClass int

const (
	ClassSideways BounceClass = iota
	ClassDiagonal
	ClassUpwards
	ClassDownwards
	ClassCeiling
)

func (c BounceClass) String() string {
	switch c {
	case ClassDiagonal:
		return "diagonal"
	case ClassUpwards:
		return "upwards"
	case ClassDownwards:
		return "downwards"
	case ClassCeiling:
		return "ceiling"
	}
	return "sideways"
}

// Tuning is the read-only runtime form of a BounceSpec.
type Tuning struct {
	speeds    [5]mgl64.Vec2
	strengths [3]int

	Sounds      prefabs.BounceSoundsSpec
	C           prefabs.BounceConstantsSpec
	Policy      DashPolicy
	Solids      *SolidRegistry
	TrailColor  color.Color
	DreamColors []color.Color
	Settings    Settings
}

func NewTuning(spec *prefabs.BounceSpec) (*Tuning, error) {
	if spec == nil {
		return nil, fmt.Errorf("tuning: nil spec")
	}
	policy, err := ParseDashPolicy(spec.DashPolicy)
	if err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}
	registry, err := NewSolidRegistry(spec.SolidKinds)
	if err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	t := &Tuning{
		speeds: [5]mgl64.Vec2{
			ClassSideways:  spec.Speeds.Sideways.Vec(),
			ClassDiagonal:  spec.Speeds.Diagonal.Vec(),
			ClassUpwards:   spec.Speeds.Upwards.Vec(),
			ClassDownwards: spec.Speeds.Downwards.Vec(),
			ClassCeiling:   spec.Speeds.Ceiling.Vec(),
		},
		strengths: [3]int{
			StrengthParallel:      spec.Strengths.Parallel,
			StrengthDiagonal:      spec.Strengths.Diagonal,
			StrengthPerpendicular: spec.Strengths.Perpendicular,
		},
		Sounds:     spec.Sounds,
		C:          spec.Constants,
		Policy:     policy,
		Solids:     registry,
		TrailColor: spec.Colors.Trail.Color,
		Settings:   SettingsFromSpec(spec.Settings),
	}
	for _, c := range spec.Colors.Dream {
		if c.Color != nil {
			t.DreamColors = append(t.DreamColors, c.Color)
		}
	}
	return t, nil
}

// DefaultTuning builds tuning from the embedded bounce spec.
func DefaultTuning() *Tuning {
	t, err := NewTuning(prefabs.DefaultBounceSpec())
	if err != nil {
		panic(err)
	}
	return t
}

// Speed returns the nominal bounce velocity of a class.
func (t *Tuning) Speed(c BounceClass) mgl64.Vec2 {
	if c < 0 || int(c) >= len(t.speeds) {
		return mgl64.Vec2{}
	}
	return t.speeds[c]
}

// Sound returns the bounce sound of a class.
func (t *Tuning) Sound(c BounceClass) string {
	switch c {
	case ClassSideways:
		return t.Sounds.Horizontal
	case ClassDiagonal:
		return t.Sounds.Diagonal
	}
	return t.Sounds.Vertical
}

// Strength returns the impulse weight of a strength class.
func (t *Tuning) Strength(s Strength) int {
	if s < 0 || int(s) >= len(t.strengths) {
		return 0
	}
	return t.strengths[s]
}
