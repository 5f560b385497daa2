package accuracy

import (
	"math"

	"github.com/cory-johannsen/ballistics/internal/game/geom"
	"github.com/cory-johannsen/ballistics/internal/game/weapon"
)

// State is the per-shooter accuracy record. It is mutated only by its
// owning firing controller: OnShot on every shot, Recover on every tick
// without one.
//
// Invariant: 0 <= CurrentBloom <= MaxSpread.
type State struct {
	// CurrentBloom is the accumulated transient spread penalty in degrees.
	CurrentBloom float64
	// BloomPerShot is added to CurrentBloom on every shot.
	BloomPerShot float64
	// MaxSpread caps CurrentBloom.
	MaxSpread float64
	// RecoveryRate is the linear bloom decay in degrees per second.
	RecoveryRate float64
	// MovementModifier scales total spread while the shooter moves (1 = neutral).
	MovementModifier float64
	// AimModifier scales total spread while aiming down sights (1 = neutral).
	AimModifier float64
}

// NewState returns a State with neutral movement/aim modifiers.
func NewState(bloomPerShot, maxSpread, recoveryRate float64) *State {
	return &State{
		BloomPerShot:     bloomPerShot,
		MaxSpread:        maxSpread,
		RecoveryRate:     recoveryRate,
		MovementModifier: 1,
		AimModifier:      1,
	}
}

// OnShot accumulates bloom for one fired shot.
//
// Postcondition: CurrentBloom increases by BloomPerShot, clamped to MaxSpread.
func (s *State) OnShot() {
	s.CurrentBloom = math.Min(s.CurrentBloom+s.BloomPerShot, s.MaxSpread)
}

// Recover decays bloom linearly over dt seconds. Called on ticks where
// no shot was fired.
//
// Postcondition: CurrentBloom decreases by RecoveryRate*dt, floored at 0.
func (s *State) Recover(dt float64) {
	s.CurrentBloom = math.Max(0, s.CurrentBloom-s.RecoveryRate*dt)
}

// TotalSpread returns the effective spread cone angle in degrees for w
// under this accuracy state.
func (s *State) TotalSpread(w *weapon.Weapon) float64 {
	return (w.Spread + s.CurrentBloom) * s.MovementModifier * s.AimModifier
}

// centerBias shapes a uniform draw v in [-1, 1] into v*|v|, biasing
// samples toward zero while preserving sign. Gives the dispersion its
// tight center with rare wide outliers.
func centerBias(v float64) float64 {
	return v * math.Abs(v)
}

// SpreadRotation samples a random dispersion rotation for a shot with
// the given total spread angle (degrees). The two deflection axes are
// drawn independently, center-biased, and composed as small rotations
// about the local X and Y axes.
//
// Precondition: src must be non-nil (panics otherwise).
func SpreadRotation(spreadDeg float64, src Source) geom.Quat {
	if src == nil {
		panic("accuracy: SpreadRotation: src must not be nil")
	}
	if spreadDeg <= 0 {
		return geom.Identity()
	}
	half := spreadDeg / 2 * math.Pi / 180
	pitch := centerBias(unit(src)) * half
	yaw := centerBias(unit(src)) * half
	return geom.AxisAngle(geom.Right, pitch).Mul(geom.AxisAngle(geom.Up, yaw))
}

// ZeroingAngle returns the fixed pitch-up compensation in radians that
// makes the point of impact meet the point of aim at w.ZeroingDistance,
// assuming straight-line flight at w.ProjectileSpeed under gravityMag.
//
// Postcondition: returns 0 for hitscan weapons or a non-positive zeroing
// distance.
func ZeroingAngle(w *weapon.Weapon, gravityMag float64) float64 {
	if w.ProjectileSpeed <= 0 || w.ZeroingDistance <= 0 {
		return 0
	}
	timeToZero := w.ZeroingDistance / w.ProjectileSpeed
	drop := 0.5 * gravityMag * timeToZero * timeToZero
	return math.Atan2(drop, w.ZeroingDistance)
}

// ShotDirection computes the final unit direction of a shot:
// base orientation ∘ zeroing rotation ∘ spread rotation ∘ forward axis.
//
// Precondition: src must be non-nil.
// Postcondition: returns a unit vector; falls back to the rotated
// forward axis if the composition degenerates.
func ShotDirection(base geom.Quat, w *weapon.Weapon, s *State, gravityMag float64, src Source) geom.Vec3 {
	zeroing := geom.AxisAngle(geom.Right, -ZeroingAngle(w, gravityMag))
	spread := SpreadRotation(s.TotalSpread(w), src)
	dir := base.Mul(zeroing).Mul(spread).Rotate(geom.Forward)
	if dir.IsZero() {
		return base.Rotate(geom.Forward)
	}
	return dir.Normalize()
}
