package ballistics

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// SpawnRequest carries everything needed to launch one projectile. It is
// the boundary type a firing controller hands to the Pipeline.
type SpawnRequest struct {
	Position geom.Vec3
	Velocity geom.Vec3
	// Owner is excluded from the projectile's ray sweeps and recorded as
	// the source of any damage it deals.
	Owner uuid.UUID
	// Damage is the amount delivered when the projectile stops in a target.
	Damage float64
	// Lifetime is the remaining flight time budget in seconds.
	Lifetime float64

	Mass             float64
	DragCoeff        float64
	ReferenceArea    float64
	PenetrationPower float64

	UseGravity       bool
	RotateToVelocity bool
}

// Projectile is a transient entity owned exclusively by the ballistics
// pipeline from spawn to despawn.
type Projectile struct {
	ID    uuid.UUID
	Owner uuid.UUID

	Position geom.Vec3
	Velocity geom.Vec3

	// Lifetime is decremented by dt each tick; the projectile despawns
	// at <= 0.
	Lifetime float64
	Damage   float64

	Mass             float64
	DragCoeff        float64
	ReferenceArea    float64
	PenetrationPower float64

	UseGravity       bool
	RotateToVelocity bool

	// DistanceTraveled accumulates committed flight distance in meters.
	DistanceTraveled float64

	dead bool
}

// NewProjectile builds a live Projectile from req with a fresh ID.
//
// Precondition: req.Mass must be > 0 (panics otherwise); the drag model
// divides by it.
func NewProjectile(req SpawnRequest) *Projectile {
	if req.Mass <= 0 {
		panic("ballistics: NewProjectile: mass must be > 0")
	}
	return &Projectile{
		ID:               uuid.New(),
		Owner:            req.Owner,
		Position:         req.Position,
		Velocity:         req.Velocity,
		Lifetime:         req.Lifetime,
		Damage:           req.Damage,
		Mass:             req.Mass,
		DragCoeff:        req.DragCoeff,
		ReferenceArea:    req.ReferenceArea,
		PenetrationPower: req.PenetrationPower,
		UseGravity:       req.UseGravity,
		RotateToVelocity: req.RotateToVelocity,
	}
}

// Alive reports whether the projectile is still simulated.
func (p *Projectile) Alive() bool {
	return !p.dead
}

// destroy marks the projectile for removal at the end of the tick.
func (p *Projectile) destroy() {
	p.dead = true
}
