package component

import "github.com/milk9111/bouncehelper/common"

type PickupPhase int

const (
	PickupIdle PickupPhase = iota
	PickupGliding
	PickupDone
	PickupCancelled
)

func (p PickupPhase) String() string {
	switch p {
	case PickupGliding:
		return "gliding"
	case PickupDone:
		return "done"
	case PickupCancelled:
		return "cancelled"
	}
	return "idle"
}

// PickupTransition is the resumable step state of a carry glide: the carried
// entity's offset follows Curve over Duration seconds, eased, and is written
// to the carry offset each poll.
type PickupTransition struct {
	Phase    PickupPhase
	Target   uint64
	Elapsed  float64
	Duration float64
	Curve    common.Curve
}

// Running reports whether the transition still needs polling.
func (p *PickupTransition) Running() bool {
	return p != nil && p.Phase == PickupGliding
}

var PickupTransitionComponent = NewComponent[PickupTransition]()
