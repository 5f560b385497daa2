// Package main provides the rangesim binary: a deterministic headless
// firing-range run that exercises the full subsystem — content loading,
// firing modes, accuracy, projectile flight, and penetration — and
// reports the results.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/config"
	"github.com/cory-johannsen/ballistics/internal/game/accuracy"
	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
	"github.com/cory-johannsen/ballistics/internal/game/firing"
	"github.com/cory-johannsen/ballistics/internal/game/geom"
	"github.com/cory-johannsen/ballistics/internal/game/sim"
	"github.com/cory-johannsen/ballistics/internal/game/weapon"
	"github.com/cory-johannsen/ballistics/internal/observability"
	"github.com/cory-johannsen/ballistics/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	weaponID := flag.String("weapon", "rifle-556", "weapon definition ID to fire")
	attachmentID := flag.String("attachment", "", "optional attachment definition ID to mount")
	seed := flag.Int64("seed", 1, "spread sampler seed")
	duration := flag.Float64("duration", 10, "simulated seconds to run")
	targetDistance := flag.Float64("target-distance", 50, "target panel distance in meters")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	registry := weapon.NewRegistry()
	if err := registry.LoadAll(cfg.Content.WeaponsDir, cfg.Content.AttachmentsDir); err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	materials := scripting.NewMaterialLibrary(logger)
	if err := materials.LoadDir(cfg.Content.MaterialsDir, cfg.Simulation.ScriptInstructionLimit); err != nil {
		logger.Fatal("loading materials", zap.Error(err))
	}

	def := registry.Weapon(*weaponID)
	if def == nil {
		logger.Fatal("unknown weapon", zap.String("weapon_id", *weaponID))
	}
	w := weapon.New(def)

	rack := weapon.NewRack()
	if *attachmentID != "" {
		mod := registry.Attachment(*attachmentID)
		if mod == nil {
			logger.Fatal("unknown attachment", zap.String("attachment_id", *attachmentID))
		}
		if err := rack.Select(w, mod); err != nil {
			logger.Fatal("mounting attachment", zap.Error(err))
		}
		logger.Info("attachment mounted",
			zap.String("attachment_id", mod.ID),
			zap.String("mount", string(mod.Mount)),
		)
	}

	env := ballistics.Environment{
		Gravity:    geom.Vec3{Y: cfg.Simulation.GravityY},
		Wind:       geom.Vec3{X: cfg.Simulation.WindX, Y: cfg.Simulation.WindY, Z: cfg.Simulation.WindZ},
		AirDensity: cfg.Simulation.AirDensity,
	}

	targetID := uuid.New()
	targetRange := sim.NewRange(
		sim.Panel{
			Material:   "plywood",
			Center:     geom.Vec3{Z: *targetDistance * 0.6},
			Normal:     geom.Vec3{Z: -1},
			HalfWidth:  2,
			HalfHeight: 2,
		},
		sim.Panel{
			Entity:     targetID,
			Material:   "flesh",
			Center:     geom.Vec3{Z: *targetDistance},
			Normal:     geom.Vec3{Z: -1},
			HalfWidth:  2,
			HalfHeight: 2,
		},
	)

	solver := ballistics.NewSolver(env, cfg.Simulation.MaxStepTravel)
	resolver := &ballistics.Resolver{
		Rays:               targetRange,
		Materials:          materials,
		EnergyLossPerMeter: cfg.Simulation.EnergyLossPerMeter,
		PenetrationDamping: cfg.Simulation.PenetrationDamping,
		DefaultResistance:  cfg.Simulation.DefaultSurfaceResistance,
	}
	pipeline := ballistics.NewPipeline(solver, resolver, logger)
	sink := sim.NewLoggingSink(logger)

	shooterID := uuid.New()
	shooter := &sim.Shooter{
		ID:  shooterID,
		Aim: geom.Identity(),
		Controller: firing.NewController(
			shooterID,
			w,
			accuracy.NewState(0.15, 4, 2),
			accuracy.NewSeededSource(*seed),
			pipeline,
			resolver,
			env,
			logger,
		),
	}

	session := sim.NewSession(pipeline, sink, logger)
	session.AddShooter(shooter)

	logger.Info("starting range run",
		zap.String("weapon_id", w.ID),
		zap.String("mode", w.ModeName()),
		zap.Int64("seed", *seed),
		zap.Float64("target_distance", *targetDistance),
	)

	dt := cfg.Simulation.Dt()
	ticks := int(*duration / dt)
	wasHeld := false
	shots := 0
	prevAmmo := w.CurrentAmmo
	for i := 0; i < ticks; i++ {
		// Hold the trigger in one-second pulls with half-second pauses,
		// reloading whenever the magazine runs dry.
		hold := int(float64(i)*dt*2)%3 != 2
		in := firing.Input{
			TriggerHeld:        hold,
			TriggerJustPressed: hold && !wasHeld,
			ReloadRequested:    w.CurrentAmmo == 0 && !shooter.Controller.IsReloading(),
		}
		wasHeld = hold
		session.Tick(dt, []firing.Input{in})
		if w.CurrentAmmo < prevAmmo {
			shots += prevAmmo - w.CurrentAmmo
		}
		prevAmmo = w.CurrentAmmo
	}

	logger.Info("range run complete",
		zap.Uint64("ticks", session.TickCount()),
		zap.Int("shots_fired", shots),
		zap.Int("hits", len(sink.Damage)),
		zap.Int("penetrations", sink.Penetrations),
		zap.Int("stops", sink.Stops),
		zap.Int("projectiles_in_flight", pipeline.Count()),
		zap.Int("ammo_remaining", w.CurrentAmmo),
		zap.Duration("elapsed", time.Since(start)),
	)
}
