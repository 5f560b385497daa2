package ballistics

import (
	"go.uber.org/zap"
)

// Pipeline owns every live projectile and advances them once per tick:
// integrate, resolve impacts, expire lifetimes. Projectiles spawned
// during a tick join the live set at the end of that tick, so they are
// first advanced on the next one.
//
// Pipeline is single-writer: only the owning simulation loop may call
// its methods, and never concurrently.
type Pipeline struct {
	solver   *Solver
	resolver *Resolver
	logger   *zap.Logger

	live    []*Projectile
	pending []*Projectile
}

// NewPipeline returns an empty Pipeline.
//
// Precondition: solver, resolver, and logger must be non-nil.
func NewPipeline(solver *Solver, resolver *Resolver, logger *zap.Logger) *Pipeline {
	if solver == nil || resolver == nil || logger == nil {
		panic("ballistics: NewPipeline: solver, resolver, and logger must not be nil")
	}
	return &Pipeline{
		solver:   solver,
		resolver: resolver,
		logger:   logger,
	}
}

// Spawn launches a projectile from req. The projectile is not advanced
// until the next Tick.
//
// Postcondition: returns the live Projectile; Count() includes it.
func (pl *Pipeline) Spawn(req SpawnRequest) *Projectile {
	p := NewProjectile(req)
	pl.pending = append(pl.pending, p)
	pl.logger.Debug("projectile spawned",
		zap.String("projectile_id", p.ID.String()),
		zap.String("owner_id", p.Owner.String()),
		zap.Float64("speed", p.Velocity.Len()),
		zap.Float64("lifetime", p.Lifetime),
	)
	return p
}

// Tick advances all projectiles that existed at the start of the tick,
// resolves their impacts, expires lifetimes, and then admits pending
// spawns into the live set.
//
// Precondition: dt > 0; sink must be non-nil.
func (pl *Pipeline) Tick(dt float64, sink EventSink) {
	for _, p := range pl.live {
		if !p.Alive() {
			continue
		}

		newPos, newVel := pl.solver.Step(p, dt)
		outcome := pl.resolver.Resolve(p, newPos, newVel, sink)
		if outcome == OutcomeStopped {
			pl.logger.Debug("projectile stopped",
				zap.String("projectile_id", p.ID.String()),
				zap.Float64("distance", p.DistanceTraveled),
			)
			continue
		}

		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			p.destroy()
			pl.logger.Debug("projectile expired",
				zap.String("projectile_id", p.ID.String()),
				zap.Float64("distance", p.DistanceTraveled),
			)
		}
	}

	alive := pl.live[:0]
	for _, p := range pl.live {
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	pl.live = append(alive, pl.pending...)
	pl.pending = pl.pending[:0]
}

// Count returns the number of owned projectiles, including ones spawned
// this tick.
func (pl *Pipeline) Count() int {
	return len(pl.live) + len(pl.pending)
}

// Live returns the projectiles that will be advanced next Tick. The
// returned slice is owned by the pipeline; callers must not mutate it.
func (pl *Pipeline) Live() []*Projectile {
	return pl.live
}
