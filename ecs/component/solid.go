package component

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
)

// Capability tags what a solid does when the player bounces off it. A solid
// may carry several.
type Capability uint8

const (
	CapPorous Capability = 1 << iota
	CapActivator
	CapImpulse
	CapToggle
	CapTrigger
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapPorous, "porous"},
	{CapActivator, "activator"},
	{CapImpulse, "impulse"},
	{CapToggle, "toggle"},
	{CapTrigger, "trigger"},
}

func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

// Count returns how many capabilities are set.
func (c Capability) Count() int {
	return bits.OnesCount8(uint8(c))
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	parts := make([]string, 0, c.Count())
	for _, n := range capabilityNames {
		if c.Has(n.cap) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCapability folds capability names into a set.
func ParseCapability(names []string) (Capability, error) {
	var out Capability
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, n := range capabilityNames {
			if n.name == name {
				out |= n.cap
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown solid capability %q", raw)
		}
	}
	return out, nil
}

// Solid is a collidable box. Kind names the level object; its capabilities
// come from the solid registry unless Caps is set explicitly.
type Solid struct {
	Kind      string
	Caps      Capability
	Bounds    common.Rect
	LiftSpeed mgl64.Vec2
}

var SolidComponent = NewComponent[Solid]()

// Porous solids are phased through while dream dashing and make bounces off
// them faster.
type Porous struct {
	Ripples    int
	LastRipple mgl64.Vec2
}

// Ripple records a footstep-style ripple at pos.
func (p *Porous) Ripple(pos mgl64.Vec2) {
	if p == nil {
		return
	}
	p.Ripples++
	p.LastRipple = pos
}

var PorousComponent = NewComponent[Porous]()

// Activator is a mover that starts travelling when bounced off. Special
// activators only respond while the player carries a companion.
type Activator struct {
	Special   bool
	Triggered bool
}

// Activate reports whether the call started the activator.
func (a *Activator) Activate() bool {
	if a == nil || a.Triggered {
		return false
	}
	a.Triggered = true
	return true
}

var ActivatorComponent = NewComponent[Activator]()

// Impulse is a pushable block. Bounces push it along its travel axis and
// return a multiplier for the player's rebound on the probed axis.
type Impulse struct {
	// Direction is the block's unit travel direction.
	Direction       mgl64.Vec2
	Speed           float64
	PushPerStrength float64
	MaxSpeed        float64
	// Multiplier scales the rebound when the block travels into the player.
	Multiplier float64
	Triggered  bool
	Impacts    int
}

// Impact applies a bounce of the given strength coming from surfaceDir (the
// direction from the player into the block) and returns the player's rebound
// multiplier.
func (i *Impulse) Impact(surfaceDir mgl64.Vec2, strength int) float64 {
	if i == nil {
		return 1
	}
	i.Impacts++
	i.Triggered = true

	along := surfaceDir.Dot(i.Direction)
	if along == 0 {
		return 1
	}
	i.Speed += i.PushPerStrength * float64(strength)
	if i.MaxSpeed > 0 && i.Speed > i.MaxSpeed {
		i.Speed = i.MaxSpeed
	}
	if along < 0 && i.Multiplier > 0 {
		return i.Multiplier
	}
	return 1
}

var ImpulseComponent = NewComponent[Impulse]()

// Toggle is a two-position swap mechanism flipped by bounces. Special
// toggles only respond while the player carries a companion, and refill the
// companion instead of the player.
type Toggle struct {
	Special     bool
	Toggled     bool
	LastAngle   float64
	Lockout     float64
	LockoutTime float64
}

// OnBounce flips the toggle unless it is locked out and reports whether it
// flipped.
func (t *Toggle) OnBounce(angle float64) bool {
	if t == nil || t.Lockout > 0 {
		return false
	}
	t.Toggled = !t.Toggled
	t.LastAngle = angle
	t.Lockout = t.LockoutTime
	return true
}

var ToggleComponent = NewComponent[Toggle]()

// Trigger is a one-shot solid such as a collapsing platform.
type Trigger struct {
	Fired bool
}

// Fire is idempotent.
func (t *Trigger) Fire() {
	if t == nil {
		return
	}
	t.Fired = true
}

var TriggerComponent = NewComponent[Trigger]()
