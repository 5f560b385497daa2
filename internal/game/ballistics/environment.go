// Package ballistics simulates projectile flight and impact: an RK4
// trajectory integrator under gravity, quadratic drag and wind, and a
// penetration-energy impact resolver over an external ray-cast
// primitive. The Pipeline owns every live projectile from spawn to
// despawn.
package ballistics

import "github.com/cory-johannsen/ballistics/internal/game/geom"

// Environment is the shared, read-only-per-tick ambient state every
// projectile flies through.
type Environment struct {
	// Gravity is the gravitational acceleration vector in m/s².
	Gravity geom.Vec3
	// Wind is the ambient wind velocity in m/s.
	Wind geom.Vec3
	// AirDensity is the air density in kg/m³.
	AirDensity float64
}

// StandardEnvironment returns sea-level conditions with gravity along -Y
// and no wind.
func StandardEnvironment() Environment {
	return Environment{
		Gravity:    geom.Vec3{Y: -9.81},
		AirDensity: 1.225,
	}
}
