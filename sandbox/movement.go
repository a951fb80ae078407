package sandbox

// Movement holds the host's own movement constants for an 8x11 character
// at 60 FPS. Speeds are pixels per second.
type Movement struct {
	MaxRun    float64
	RunAccel  float64
	RunReduce float64
	AirMult   float64

	Gravity           float64
	HalfGravThreshold float64
	MaxFall           float64
	FastMaxFall       float64
	SlowFall          float64

	JumpSpeed     float64
	JumpHBoost    float64
	VarJumpTime   float64
	JumpGraceTime float64
	HiccupSpeed   float64

	WallJumpHSpeed       float64
	WallJumpCheckDist    float64
	WallJumpForceTime    float64
	SuperJumpH           float64
	DuckSuperJumpXMult   float64
	DuckSuperJumpYMult   float64
	SuperWallJumpH       float64
	SuperWallJumpSpeed   float64
	SuperWallJumpVarTime float64

	DashSpeed          float64
	EndDashSpeed       float64
	EndDashUpMult      float64
	DashTime           float64
	DashCooldown       float64
	DashRefillCooldown float64
	DashAttackTime     float64

	ClimbCheckDist   float64
	GrabRange        float64
	BaselineHoldTime float64
	ThrowSpeed       float64
	ThrowLift        float64
	ItemFriction     float64

	ImpulseFriction   float64
	FallingBlockSpeed float64
	DeathMargin       float64
}

func DefaultMovement() Movement {
	return Movement{
		MaxRun:    90,
		RunAccel:  1000,
		RunReduce: 400,
		AirMult:   0.65,

		Gravity:           900,
		HalfGravThreshold: 40,
		MaxFall:           160,
		FastMaxFall:       240,
		SlowFall:          24,

		JumpSpeed:     -105,
		JumpHBoost:    40,
		VarJumpTime:   0.2,
		JumpGraceTime: 0.1,
		HiccupSpeed:   -60,

		WallJumpHSpeed:       130,
		WallJumpCheckDist:    3,
		WallJumpForceTime:    0.16,
		SuperJumpH:           260,
		DuckSuperJumpXMult:   1.25,
		DuckSuperJumpYMult:   0.5,
		SuperWallJumpH:       170,
		SuperWallJumpSpeed:   -160,
		SuperWallJumpVarTime: 0.25,

		DashSpeed:          240,
		EndDashSpeed:       160,
		EndDashUpMult:      0.75,
		DashTime:           0.15,
		DashCooldown:       0.2,
		DashRefillCooldown: 0.1,
		DashAttackTime:     0.3,

		ClimbCheckDist:   2,
		GrabRange:        6,
		BaselineHoldTime: 0.35,
		ThrowSpeed:       200,
		ThrowLift:        -0.4,
		ItemFriction:     350,

		ImpulseFriction:   120,
		FallingBlockSpeed: 160,
		DeathMargin:       16,
	}
}
