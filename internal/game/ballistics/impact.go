package ballistics

import (
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// RayHit is the result of a successful ray cast.
type RayHit struct {
	// Entity is the struck entity, or uuid.Nil when the surface has no
	// damageable record (world geometry).
	Entity uuid.UUID
	// Distance is the distance from the ray origin to the hit point.
	Distance float64
	// Material names the struck surface for resistance lookup and
	// effect spawning. Empty selects the default resistance.
	Material string
}

// Raycaster is the external physics-engine primitive this subsystem
// consumes. It is treated as a pure, non-blocking query.
type Raycaster interface {
	// Cast sweeps a ray and returns the nearest hit within maxDist,
	// excluding the entity identified by exclude.
	Cast(origin, dir geom.Vec3, maxDist float64, solid bool, exclude uuid.UUID) (RayHit, bool)
}

// ResistanceLookup resolves a surface material name to its penetration
// resistance. The second return is false for unknown materials.
type ResistanceLookup interface {
	Resistance(material string) (float64, bool)
}

// hitNudge is how far past a penetrated surface the projectile is
// advanced so the next sweep does not re-hit the same face.
const hitNudge = 0.01

// Resolver applies the penetration-energy model to ray sweeps.
type Resolver struct {
	// Rays is the external cast primitive.
	Rays Raycaster
	// Materials resolves surface resistance; nil disables lookup.
	Materials ResistanceLookup
	// EnergyLossPerMeter is the penetration energy spent per meter of
	// flight before the hit. Tunable; materially changes balance.
	EnergyLossPerMeter float64
	// PenetrationDamping scales velocity after passing through a surface.
	PenetrationDamping float64
	// DefaultResistance is used when Materials is nil or misses.
	DefaultResistance float64
}

// resistance returns the penetration resistance of material.
func (r *Resolver) resistance(material string) float64 {
	if r.Materials != nil {
		if res, ok := r.Materials.Resistance(material); ok {
			return res
		}
	}
	return r.DefaultResistance
}

// Outcome classifies one resolution step.
type Outcome int

const (
	// OutcomeMiss means the sweep hit nothing; the candidate position
	// was committed.
	OutcomeMiss Outcome = iota
	// OutcomePenetrated means the projectile passed through the surface
	// and keeps flying with reduced energy and velocity.
	OutcomePenetrated
	// OutcomeStopped means the projectile stopped; it has been
	// destroyed, and a damage event was emitted if the surface had a
	// damageable entity.
	OutcomeStopped
)

// Resolve sweeps from p.Position to the candidate (newPos, newVel) and
// applies the penetration model.
//
// Precondition: p must be alive; sink must be non-nil.
// Postcondition: p's committed position never lies beyond an unpenetrated
// surface; at most one damage event is emitted, and only for OutcomeStopped.
func (r *Resolver) Resolve(p *Projectile, newPos, newVel geom.Vec3, sink EventSink) Outcome {
	delta := newPos.Sub(p.Position)
	dist := delta.Len()
	if dist < geom.Epsilon {
		p.Velocity = newVel
		return OutcomeMiss
	}
	dir := delta.Scale(1 / dist)

	hit, ok := r.Rays.Cast(p.Position, dir, dist, true, p.Owner)
	if !ok {
		p.Position = newPos
		p.Velocity = newVel
		p.DistanceTraveled += dist
		// Flight itself spends penetration energy, so distance covered on
		// earlier ticks is already paid for when a later sweep hits.
		p.PenetrationPower = math.Max(0, p.PenetrationPower-dist*r.EnergyLossPerMeter)
		return OutcomeMiss
	}

	hitPoint := p.Position.Add(dir.Scale(hit.Distance))
	remaining := p.PenetrationPower - hit.Distance*r.EnergyLossPerMeter
	resistance := r.resistance(hit.Material)

	if remaining > resistance {
		p.PenetrationPower = remaining - resistance
		p.Velocity = newVel.Scale(r.PenetrationDamping)
		p.Position = hitPoint.Add(dir.Scale(hitNudge))
		p.DistanceTraveled += hit.Distance + hitNudge
		sink.OnImpact(ImpactEvent{
			Kind:      ImpactPenetrated,
			Entity:    hit.Entity,
			Position:  hitPoint,
			Direction: dir,
			Material:  hit.Material,
		})
		return OutcomePenetrated
	}

	p.Position = hitPoint
	p.DistanceTraveled += hit.Distance
	p.destroy()
	sink.OnImpact(ImpactEvent{
		Kind:      ImpactStopped,
		Entity:    hit.Entity,
		Position:  hitPoint,
		Direction: dir,
		Material:  hit.Material,
	})
	// World geometry carries no damageable record; the event is simply
	// not emitted.
	if hit.Entity != uuid.Nil {
		sink.OnDamage(DamageEvent{
			Amount:    p.Damage,
			Type:      DamageRanged,
			Source:    p.Owner,
			Target:    hit.Entity,
			Position:  hitPoint,
			Direction: dir,
		})
	}
	return OutcomeStopped
}

// maxHitscanSurfaces bounds the surfaces one instant shot can chew
// through, keeping degenerate content from looping.
const maxHitscanSurfaces = 8

// ResolveHitscan resolves an instant shot: repeated sweeps from origin
// along dir, penetrating surfaces while the energy model allows and
// stopping (with at most one damage event) when it does not.
//
// Precondition: dir must be a unit vector; sink must be non-nil.
// Postcondition: returns the final Outcome; OutcomeMiss when the shot
// exhausts maxDist without striking anything, OutcomePenetrated when the
// surface cap cuts the shot off mid-flight.
func (r *Resolver) ResolveHitscan(origin, dir geom.Vec3, maxDist, damage, power float64, owner uuid.UUID, sink EventSink) Outcome {
	pos := origin
	budget := maxDist

	for i := 0; i < maxHitscanSurfaces; i++ {
		if budget <= 0 {
			return OutcomeMiss
		}
		hit, ok := r.Rays.Cast(pos, dir, budget, true, owner)
		if !ok {
			return OutcomeMiss
		}

		hitPoint := pos.Add(dir.Scale(hit.Distance))
		remaining := power - hit.Distance*r.EnergyLossPerMeter
		resistance := r.resistance(hit.Material)

		if remaining > resistance {
			power = remaining - resistance
			pos = hitPoint.Add(dir.Scale(hitNudge))
			budget -= hit.Distance + hitNudge
			sink.OnImpact(ImpactEvent{
				Kind:      ImpactPenetrated,
				Entity:    hit.Entity,
				Position:  hitPoint,
				Direction: dir,
				Material:  hit.Material,
			})
			continue
		}

		sink.OnImpact(ImpactEvent{
			Kind:      ImpactStopped,
			Entity:    hit.Entity,
			Position:  hitPoint,
			Direction: dir,
			Material:  hit.Material,
		})
		if hit.Entity != uuid.Nil {
			sink.OnDamage(DamageEvent{
				Amount:    damage,
				Type:      DamageRanged,
				Source:    owner,
				Target:    hit.Entity,
				Position:  hitPoint,
				Direction: dir,
			})
		}
		return OutcomeStopped
	}
	// Surface cap reached: every resolved surface was a penetration, so
	// report that rather than a stop that emitted no event.
	return OutcomePenetrated
}
