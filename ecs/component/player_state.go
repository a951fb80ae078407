package component

// PrimaryState labels the host's primary character state machine. The
// override layer reads it to decide per event whether to run its own logic;
// the values mirror the host's state ids.
type PrimaryState int

const (
	StateNormal PrimaryState = iota
	StateClimb
	StateDash
	StateSwim
	StateBoost
	StateRedDash
	StateHitSquash
	StateLaunch
	StatePickup
	StateDreamDash
)

var primaryStateNames = map[PrimaryState]string{
	StateNormal:    "normal",
	StateClimb:     "climb",
	StateDash:      "dash",
	StateSwim:      "swim",
	StateBoost:     "boost",
	StateRedDash:   "red_dash",
	StateHitSquash: "hit_squash",
	StateLaunch:    "launch",
	StatePickup:    "pickup",
	StateDreamDash: "dream_dash",
}

func (s PrimaryState) String() string {
	if name, ok := primaryStateNames[s]; ok {
		return name
	}
	return "unknown"
}
