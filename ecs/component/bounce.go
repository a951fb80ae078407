package component

// Bounce is the per-player context owned by the bounce engine. The pending
// flags live for one bounce resolution plus the next wall-jump or normal
// update call that consumes them.
type Bounce struct {
	// CornerBounced is set when a straight-down dash turns into a wall
	// bounce while grounded; the next downward bounce consumes it.
	CornerBounced bool
	// HoleBounced is set when a corner bounce lands inside a one tile gap;
	// the wall jump that produced it consumes it.
	HoleBounced bool
	// DreamBounced is set when a dream dash start was turned into a bounce;
	// the matching dream dash end consumes it.
	DreamBounced bool

	// ConservedHSpeed is added once into the next bounce's horizontal speed.
	ConservedHSpeed float64
	// PreBounceSpeed is the speed magnitude recorded when dash events fired.
	PreBounceSpeed float64
}

var BounceComponent = NewComponent[Bounce]()
