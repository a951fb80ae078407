package component

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Keys shared with the host's own per-player data. Overrides that fall
// through to baseline behaviour must leave these consistent, so the names
// match what the host reads.
const (
	KeyForceMoveX              = "forceMoveX"
	KeyForceMoveXTimer         = "forceMoveXTimer"
	KeyLastAim                 = "lastAim"
	KeyMoveX                   = "moveX"
	KeyVarJumpSpeed            = "varJumpSpeed"
	KeyVarJumpTimer            = "varJumpTimer"
	KeyAutoJump                = "autoJump"
	KeyLaunched                = "launched"
	KeyGliderBoostTimer        = "gliderBoostTimer"
	KeyGliderBoostDir          = "gliderBoostDir"
	KeyDashAttackTimer         = "dashAttackTimer"
	KeyDashRefillCooldownTimer = "dashRefillCooldownTimer"
	KeyJumpGraceTimer          = "jumpGraceTimer"
	KeyHoldCannotDuck          = "holdCannotDuck"
	KeyMinHoldTimer            = "minHoldTimer"
	KeyCarryOffset             = "carryOffset"
	KeyCarryOffsetTarget       = "carryOffsetTarget"
	KeyDreamJump               = "dreamJump"
	KeyBeforeDashSpeed         = "beforeDashSpeed"
	KeyClimbTriggerDir         = "climbTriggerDir"
)

// Keys owned by the bounce layer.
const (
	KeyBounceTimer              = "bounceTimer"
	KeyBounceDir                = "bounceDir"
	KeyBounceWallJumpForceTimer = "bounceWallJumpForceTimer"
)

// Timers is the per-player named scalar store. Countdowns decay every frame
// and never go below zero; the typed scalars do not decay and are written
// alongside the countdown that gates them.
type Timers struct {
	countdowns *orderedmap.OrderedMap[string, float64]
	floats     map[string]float64
	ints       map[string]int
	bools      map[string]bool
	vecs       map[string]mgl64.Vec2
}

func NewTimers() *Timers {
	t := &Timers{}
	t.init()
	return t
}

func (t *Timers) init() {
	if t.countdowns == nil {
		t.countdowns = orderedmap.NewOrderedMap[string, float64]()
	}
	if t.floats == nil {
		t.floats = make(map[string]float64)
	}
	if t.ints == nil {
		t.ints = make(map[string]int)
	}
	if t.bools == nil {
		t.bools = make(map[string]bool)
	}
	if t.vecs == nil {
		t.vecs = make(map[string]mgl64.Vec2)
	}
}

// Timer returns the remaining seconds of a countdown; unknown keys are 0.
func (t *Timers) Timer(key string) float64 {
	if t == nil || t.countdowns == nil {
		return 0
	}
	v, _ := t.countdowns.Get(key)
	return v
}

// SetTimer arms a countdown. Negative values are stored as 0.
func (t *Timers) SetTimer(key string, seconds float64) {
	if t == nil {
		return
	}
	t.init()
	if seconds < 0 {
		seconds = 0
	}
	t.countdowns.Set(key, seconds)
}

// Active reports whether a countdown is still running.
func (t *Timers) Active(key string) bool {
	return t.Timer(key) > 0
}

// Decay subtracts dt from every countdown, clamping at zero.
func (t *Timers) Decay(dt float64) {
	if t == nil || t.countdowns == nil || dt <= 0 {
		return
	}
	for el := t.countdowns.Front(); el != nil; el = el.Next() {
		if el.Value <= 0 {
			continue
		}
		el.Value -= dt
		if el.Value < 0 {
			el.Value = 0
		}
	}
}

// TimerKeys lists countdown keys in first-armed order.
func (t *Timers) TimerKeys() []string {
	if t == nil || t.countdowns == nil {
		return nil
	}
	keys := make([]string, 0, t.countdowns.Len())
	for el := t.countdowns.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

func (t *Timers) Float(key string) float64 {
	if t == nil {
		return 0
	}
	return t.floats[key]
}

func (t *Timers) SetFloat(key string, v float64) {
	if t == nil {
		return
	}
	t.init()
	t.floats[key] = v
}

func (t *Timers) Int(key string) int {
	if t == nil {
		return 0
	}
	return t.ints[key]
}

func (t *Timers) SetInt(key string, v int) {
	if t == nil {
		return
	}
	t.init()
	t.ints[key] = v
}

func (t *Timers) Bool(key string) bool {
	if t == nil {
		return false
	}
	return t.bools[key]
}

func (t *Timers) SetBool(key string, v bool) {
	if t == nil {
		return
	}
	t.init()
	t.bools[key] = v
}

func (t *Timers) Vec(key string) mgl64.Vec2 {
	if t == nil {
		return mgl64.Vec2{}
	}
	return t.vecs[key]
}

func (t *Timers) SetVec(key string, v mgl64.Vec2) {
	if t == nil {
		return
	}
	t.init()
	t.vecs[key] = v
}

// SetForceMoveX forces horizontal input to dir for the given duration.
func (t *Timers) SetForceMoveX(dir int, seconds float64) {
	t.SetInt(KeyForceMoveX, dir)
	t.SetTimer(KeyForceMoveXTimer, seconds)
}

// SetVarJump snapshots the vertical speed a held jump may sustain.
func (t *Timers) SetVarJump(speed, seconds float64) {
	t.SetFloat(KeyVarJumpSpeed, speed)
	t.SetTimer(KeyVarJumpTimer, seconds)
}

// SetBounceWindow opens the companion bounce window in direction dir.
func (t *Timers) SetBounceWindow(dir mgl64.Vec2, seconds float64) {
	t.SetVec(KeyBounceDir, dir)
	t.SetTimer(KeyBounceTimer, seconds)
}

var TimersComponent = NewComponent[Timers]()
