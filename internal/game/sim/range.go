// Package sim assembles the subsystem into a runnable tick simulation:
// per-tick ordering of firing controllers and the projectile pipeline, a
// static target range implementing the ray-cast primitive, and a
// stand-in reload subsystem so scenarios run end to end.
package sim

import (
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// Panel is a static rectangular target surface.
type Panel struct {
	// Entity is the damageable entity behind this panel, or uuid.Nil
	// for plain geometry.
	Entity uuid.UUID
	// Material names the panel's surface for resistance lookup.
	Material string
	// Center is the panel's center position.
	Center geom.Vec3
	// Normal is the panel's facing direction (unit vector).
	Normal geom.Vec3
	// HalfWidth and HalfHeight are the panel extents from Center along
	// the two in-plane axes.
	HalfWidth  float64
	HalfHeight float64
}

// Range is a set of static panels implementing the external ray-cast
// primitive for headless runs and tests.
type Range struct {
	panels []Panel
}

// NewRange builds a Range over the given panels.
//
// Precondition: every panel Normal must be non-zero (panics otherwise).
func NewRange(panels ...Panel) *Range {
	for i := range panels {
		n := panels[i].Normal.Normalize()
		if n.IsZero() {
			panic("sim: NewRange: panel normal must be non-zero")
		}
		panels[i].Normal = n
	}
	return &Range{panels: panels}
}

// Cast sweeps a ray against every panel and returns the nearest hit
// within maxDist. The exclude ID is accepted for interface parity; the
// panels themselves never move or shoot.
func (r *Range) Cast(origin, dir geom.Vec3, maxDist float64, _ bool, exclude uuid.UUID) (ballistics.RayHit, bool) {
	best := ballistics.RayHit{Distance: math.Inf(1)}
	found := false

	for _, p := range r.panels {
		if p.Entity != uuid.Nil && p.Entity == exclude {
			continue
		}
		dist, ok := intersectPanel(origin, dir, p)
		if !ok || dist > maxDist || dist >= best.Distance {
			continue
		}
		best = ballistics.RayHit{Entity: p.Entity, Distance: dist, Material: p.Material}
		found = true
	}
	if !found {
		return ballistics.RayHit{}, false
	}
	return best, true
}

// intersectPanel returns the ray distance to p, or false when the ray is
// parallel, behind the origin, or outside the panel extents.
func intersectPanel(origin, dir geom.Vec3, p Panel) (float64, bool) {
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < geom.Epsilon {
		return 0, false
	}
	t := p.Center.Sub(origin).Dot(p.Normal) / denom
	if t < geom.Epsilon {
		return 0, false
	}

	hit := origin.Add(dir.Scale(t))
	offset := hit.Sub(p.Center)

	// In-plane axes: pick a reference axis not parallel to the normal.
	ref := geom.Up
	if math.Abs(p.Normal.Dot(geom.Up)) > 0.99 {
		ref = geom.Right
	}
	u := ref.Cross(p.Normal).Normalize()
	v := p.Normal.Cross(u)

	if math.Abs(offset.Dot(u)) > p.HalfWidth || math.Abs(offset.Dot(v)) > p.HalfHeight {
		return 0, false
	}
	return t, true
}
