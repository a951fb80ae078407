package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/sirupsen/logrus"
)

// BounceMode is the override layer installed on the host's movement
// events. Every exported hook falls through to Baseline while the mode is
// disabled.
type BounceMode struct {
	Mode     *Mode
	Tuning   *Tuning
	Baseline Baseline
	Solids   SolidQuery
}

func NewBounceMode(tuning *Tuning, baseline Baseline, solids SolidQuery, session FlagSource) *BounceMode {
	if tuning == nil {
		tuning = DefaultTuning()
	}
	return &BounceMode{
		Mode:     &Mode{Settings: tuning.Settings, Session: session},
		Tuning:   tuning,
		Baseline: baseline,
		Solids:   solids,
	}
}

// SetTuning swaps in reloaded tunables. The session is kept.
func (m *BounceMode) SetTuning(t *Tuning) {
	if m == nil || t == nil {
		return
	}
	m.Tuning = t
	if m.Mode == nil {
		m.Mode = &Mode{}
	}
	m.Mode.Settings = t.Settings
}

func (m *BounceMode) Enabled() bool {
	return m != nil && m.Mode.Enabled()
}

// BounceParams are the inputs of a single bounce.
type BounceParams struct {
	Base     mgl64.Vec2
	Strength Strength
	// Surface points from the player into the surface bounced off.
	Surface mgl64.Vec2
	Ripple  bool
	// Distance is how far the probe box is pushed along Surface. Zero
	// means the wall jump check distance.
	Distance float64
}

// Bounce replaces the player's velocity with params.Base adjusted for the
// bounced solid's motion and any conserved horizontal speed, then lets the
// solids under the probe react.
func (m *BounceMode) Bounce(w *ecs.World, player ecs.Entity, params BounceParams) {
	p, ok := lookupPlayer(w, player)
	if !ok {
		return
	}
	m.bounce(w, p, params)
}

func (m *BounceMode) bounce(w *ecs.World, p playerRefs, params BounceParams) {
	c := m.Tuning.C
	dist := params.Distance
	if dist == 0 {
		dist = c.WallJumpCheckDist
	}
	probe := p.body.HitboxAt(p.body.Position.Add(params.Surface.Mul(dist)))

	lift := p.body.LiftSpeed
	if first, ok := m.Solids.First(w, probe); ok {
		if s, ok := ecs.Get(w, first, component.SolidComponent.Kind()); ok && s.LiftSpeed != (mgl64.Vec2{}) {
			lift = s.LiftSpeed
		}
	}
	lift = mgl64.Vec2{common.ClampAbs(lift.X(), c.LiftXCap), common.ClampAbs(lift.Y(), c.LiftYCap)}

	v := mgl64.Vec2{combineLift(params.Base.X(), lift.X()), combineLift(params.Base.Y(), lift.Y())}

	if conserved := p.bounce.ConservedHSpeed; conserved != 0 {
		if math.Abs(v.X()) < math.Abs(conserved) {
			v[0] += conserved
		}
		p.bounce.ConservedHSpeed = 0
	}
	p.body.Velocity = v

	res := m.dispatch(w, p, m.Solids.Overlapping(w, probe), DispatchContext{
		Surface:  params.Surface,
		Strength: params.Strength,
		Ripple:   params.Ripple,
	})

	v = p.body.Velocity
	p.timers.SetVarJump(v.Y(), c.SuperWallJumpVarTime)
	p.timers.SetBool(component.KeyLaunched, true)
	p.timers.SetTimer(component.KeyGliderBoostTimer, c.DashGliderBoostTime)
	p.timers.SetVec(component.KeyGliderBoostDir, common.Normalize(v))

	if !p.bounce.CornerBounced {
		dir := common.Normalize(v)
		emit(w, p.e, EventBurst, component.BurstRequest{
			Kind:  component.BurstSlash,
			At:    p.body.Center().Add(dir.Mul(12)),
			Angle: common.Angle(v),
		})
		emit(w, p.e, EventTrail, component.TrailRequest{
			At:    p.body.Position,
			Scale: mgl64.Vec2{1, 1},
			Color: m.Tuning.TrailColor,
		})
	} else if CollideCheck(m.Solids, w, p.body.HitboxAt(p.body.Position.Sub(params.Surface))) {
		p.body.Velocity = mgl64.Vec2{0, p.body.Velocity.Y()}
		p.bounce.HoleBounced = true
	}

	Log().WithFields(logrus.Fields{
		"velocity": p.body.Velocity,
		"surface":  params.Surface,
		"strength": params.Strength,
		"porous":   res.Porous,
		"impulse":  res.Impulse,
	}).Debug("bounce")
}

// combineLift merges one axis of the nominal bounce with the platform's
// speed. Lift can only add to a non-zero nominal speed.
func combineLift(base, lift float64) float64 {
	if base == 0 {
		return lift
	}
	return common.Sign(base) * math.Max(math.Abs(base+lift), math.Abs(base))
}

// downwardBounce kicks the player up off the floor after a downward dash.
// jump selects whether the host's jump runs first or the jump buffer is
// only consumed.
func (m *BounceMode) downwardBounce(w *ecs.World, p playerRefs, jump bool) {
	c := m.Tuning.C
	vx := p.body.Velocity.X()
	fast := math.Abs(vx) > c.FastHorizontalSpeed
	signSource := float64(p.moveX())
	if fast {
		signSource = vx
	}
	p.bounce.ConservedHSpeed = vx + common.Sign(signSource)*c.JumpHBoost

	if jump {
		m.Baseline.Jump(w, p.e, true, true)
	} else {
		p.input.ConsumeJumpBuffer()
	}

	cornerBounced := p.bounce.CornerBounced
	p.bounce.CornerBounced = false
	m.bounce(w, p, BounceParams{
		Base:     m.Tuning.Speed(ClassDownwards),
		Strength: StrengthPerpendicular,
		Surface:  mgl64.Vec2{0, 1},
		Ripple:   true,
	})
	playSound(w, p.e, m.Tuning.Sound(ClassDownwards), p.body.Position)

	if p.body.CanUnDuck {
		p.body.Ducking = false
	}
	m.refillIfAllowed(w, p)

	if !cornerBounced && fast {
		p.timers.SetForceMoveX(p.body.Facing, c.WallJumpForceTime)
	}
}

func (m *BounceMode) ceilingBounce(w *ecs.World, p playerRefs) {
	m.bounce(w, p, BounceParams{
		Base:     m.Tuning.Speed(ClassCeiling),
		Strength: StrengthPerpendicular,
		Surface:  mgl64.Vec2{0, -1},
		Ripple:   true,
	})
	playSound(w, p.e, m.Tuning.Sound(ClassCeiling), p.body.Position)
	p.input.ConsumeJumpBuffer()
	emit(w, p.e, EventBurst, component.BurstRequest{
		Kind:  component.BurstDust,
		At:    p.body.TopCenter(),
		Angle: math.Pi / 2,
	})
}

// refillIfAllowed refills dashes unless the refill cooldown is running or
// the inventory forbids refills.
func (m *BounceMode) refillIfAllowed(w *ecs.World, p playerRefs) {
	if p.timers.Timer(component.KeyDashRefillCooldownTimer) > 0 {
		return
	}
	if p.inventory != nil && p.inventory.NoRefills {
		return
	}
	m.RefillDash(w, p.e)
}
