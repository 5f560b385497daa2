package sim

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
	"github.com/cory-johannsen/ballistics/internal/game/firing"
	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// Shooter couples a firing controller with its pose and the stand-in
// reload subsystem state. The real game owns reloading elsewhere; the
// controller only ever sees the boolean gate.
type Shooter struct {
	ID         uuid.UUID
	Controller *firing.Controller

	// Aim orients the weapon; Origin is the muzzle position.
	Aim    geom.Quat
	Origin geom.Vec3

	reloadTimer  float64
	reloadActive bool
}

// Session runs the fixed per-tick order: every shooter's controller
// first (which may spawn projectiles or resolve hitscan shots), then the
// projectile pipeline (which only advances projectiles that existed at
// tick start).
//
// Session is single-threaded; all state it touches is single-writer.
type Session struct {
	shooters []*Shooter
	pipeline *ballistics.Pipeline
	sink     ballistics.EventSink
	logger   *zap.Logger

	tick uint64
}

// NewSession creates a Session over the given pipeline and sink.
//
// Precondition: pipeline, sink, and logger must be non-nil.
func NewSession(pipeline *ballistics.Pipeline, sink ballistics.EventSink, logger *zap.Logger) *Session {
	if pipeline == nil || sink == nil || logger == nil {
		panic("sim: NewSession: pipeline, sink, and logger must not be nil")
	}
	return &Session{
		pipeline: pipeline,
		sink:     sink,
		logger:   logger,
	}
}

// AddShooter registers a shooter.
//
// Precondition: s must be non-nil with a non-nil Controller.
func (se *Session) AddShooter(s *Shooter) {
	if s == nil || s.Controller == nil {
		panic("sim: Session.AddShooter: shooter and controller must not be nil")
	}
	se.shooters = append(se.shooters, s)
}

// Tick advances the whole simulation by dt under the given per-shooter
// inputs (indexed in AddShooter order; missing entries read as no input).
//
// Precondition: dt > 0.
func (se *Session) Tick(dt float64, inputs []firing.Input) {
	se.tick++

	for i, s := range se.shooters {
		var in firing.Input
		if i < len(inputs) {
			in = inputs[i]
		}
		se.updateReload(s, dt)
		s.Controller.Tick(dt, in, s.Aim, s.Origin, se.sink)
	}

	se.pipeline.Tick(dt, se.sink)
}

// updateReload is the stand-in reload subsystem: it times a requested
// reload and refills the magazine when it completes. It drives the same
// boolean gate an external game would.
func (se *Session) updateReload(s *Shooter, dt float64) {
	if !s.Controller.IsReloading() {
		s.reloadActive = false
		return
	}
	if !s.reloadActive {
		s.reloadActive = true
		s.reloadTimer = s.Controller.Weapon().ReloadTime
		se.logger.Debug("reload started",
			zap.String("shooter_id", s.ID.String()),
			zap.Float64("duration", s.reloadTimer),
		)
	}
	s.reloadTimer -= dt
	// Repeated dt subtractions leave residue of rounding order 1e-16, so
	// the timer compares against an epsilon or the final tick never fires.
	if s.reloadTimer <= geom.Epsilon {
		s.Controller.Weapon().Refill()
		s.Controller.SetReloading(false)
		s.reloadActive = false
		se.logger.Debug("reload complete",
			zap.String("shooter_id", s.ID.String()),
			zap.Int("ammo", s.Controller.Weapon().CurrentAmmo),
		)
	}
}

// TickCount returns the number of completed ticks.
func (se *Session) TickCount() uint64 {
	return se.tick
}
