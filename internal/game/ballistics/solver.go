package ballistics

import (
	"math"

	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// Solver advances projectiles through an Environment using classical
// 4-stage Runge-Kutta integration.
type Solver struct {
	// Env is the ambient state read each step.
	Env Environment
	// MaxStepTravel caps the distance covered by a single RK4 step; a
	// tick whose projected travel exceeds it is split into equal
	// sub-steps. 0 disables sub-stepping. Mitigates tunneling through
	// thin geometry at high speed or low tick rate.
	MaxStepTravel float64
}

// NewSolver returns a Solver for env with sub-stepping at maxStepTravel.
func NewSolver(env Environment, maxStepTravel float64) *Solver {
	return &Solver{Env: env, MaxStepTravel: maxStepTravel}
}

// acceleration evaluates a(p, v) = gravity + drag(v)/m for the
// projectile. The drag force is quadratic in the wind-relative speed and
// opposes the wind-relative motion; a near-zero relative speed
// contributes no drag rather than dividing by ~0.
func (s *Solver) acceleration(p *Projectile, vel geom.Vec3) geom.Vec3 {
	var acc geom.Vec3
	if p.UseGravity {
		acc = s.Env.Gravity
	}
	if p.DragCoeff <= 0 || p.ReferenceArea <= 0 {
		return acc
	}
	rel := vel.Sub(s.Env.Wind)
	speed := rel.Len()
	if speed < geom.Epsilon {
		return acc
	}
	// |F| = 0.5 * ρ * |v_rel|² * Cd * A, along -v_rel.
	mag := 0.5 * s.Env.AirDensity * speed * speed * p.DragCoeff * p.ReferenceArea
	drag := rel.Scale(-mag / speed)
	return acc.Add(drag.Scale(1 / p.Mass))
}

// rk4 performs one Runge-Kutta step of length dt and returns the
// candidate position and velocity. Weights (1,2,2,1)/6 combine the four
// velocity evaluations for the position update and the four acceleration
// evaluations for the velocity update.
func (s *Solver) rk4(p *Projectile, dt float64) (geom.Vec3, geom.Vec3) {
	pos, vel := p.Position, p.Velocity

	k1v := vel
	k1a := s.acceleration(p, vel)

	// Acceleration depends only on velocity, so a zero first stage means
	// every stage is zero and the motion is uniform. Taking the direct
	// path keeps the force-free step exactly pos + vel*dt instead of
	// accumulating a rounding ulp through the stage weights.
	if k1a == (geom.Vec3{}) {
		return pos.Add(vel.Scale(dt)), vel
	}

	k2v := vel.Add(k1a.Scale(dt / 2))
	k2a := s.acceleration(p, k2v)

	k3v := vel.Add(k2a.Scale(dt / 2))
	k3a := s.acceleration(p, k3v)

	k4v := vel.Add(k3a.Scale(dt))
	k4a := s.acceleration(p, k4v)

	dPos := k1v.Add(k2v.Scale(2)).Add(k3v.Scale(2)).Add(k4v).Scale(dt / 6)
	dVel := k1a.Add(k2a.Scale(2)).Add(k3a.Scale(2)).Add(k4a).Scale(dt / 6)

	return pos.Add(dPos), vel.Add(dVel)
}

// Step integrates p over dt and returns the candidate end-of-tick
// position and velocity. The caller commits them after impact
// resolution; Step itself never mutates p.
//
// Precondition: dt > 0.
// Postcondition: with DragCoeff == 0 and gravity disabled the result is
// exactly (Position + Velocity*dt, Velocity).
func (s *Solver) Step(p *Projectile, dt float64) (geom.Vec3, geom.Vec3) {
	steps := 1
	if s.MaxStepTravel > 0 {
		projected := p.Velocity.Len() * dt
		if projected > s.MaxStepTravel {
			steps = int(math.Ceil(projected / s.MaxStepTravel))
		}
	}

	if steps == 1 {
		return s.rk4(p, dt)
	}

	sub := dt / float64(steps)
	// Integrate through a scratch copy so p stays untouched.
	scratch := *p
	for i := 0; i < steps; i++ {
		scratch.Position, scratch.Velocity = s.rk4(&scratch, sub)
	}
	return scratch.Position, scratch.Velocity
}
