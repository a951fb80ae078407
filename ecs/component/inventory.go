package component

// Inventory holds the player's dash charges and the abilities that gate
// bounce interactions.
type Inventory struct {
	Dashes    int
	MaxDashes int
	DreamDash bool
	NoRefills bool
}

// Refill restores dash charges; it reports whether anything changed.
func (inv *Inventory) Refill() bool {
	if inv == nil || inv.Dashes >= inv.MaxDashes {
		return false
	}
	inv.Dashes = inv.MaxDashes
	return true
}

// Spend consumes one charge without going below zero.
func (inv *Inventory) Spend() {
	if inv == nil || inv.Dashes <= 0 {
		return
	}
	inv.Dashes--
}

var InventoryComponent = NewComponent[Inventory]()
