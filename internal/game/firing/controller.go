package firing

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/game/accuracy"
	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
	"github.com/cory-johannsen/ballistics/internal/game/geom"
	"github.com/cory-johannsen/ballistics/internal/game/weapon"
)

// State is the observable firing state of a controller.
type State int

const (
	// StateIdle means the weapon can fire as soon as a qualifying
	// trigger signal arrives.
	StateIdle State = iota
	// StateCooldown means the fire timer has not yet elapsed.
	StateCooldown
	// StateBursting means a burst sequence is in progress.
	StateBursting
)

// Controller owns the firing state for one weapon-carrying entity. It is
// the only mutator of its Weapon/AccuracyState pair, and must be ticked
// by exactly one simulation loop.
type Controller struct {
	shooter  uuid.UUID
	weapon   *weapon.Weapon
	acc      *accuracy.State
	sampler  accuracy.Source
	pipeline *ballistics.Pipeline
	resolver *ballistics.Resolver
	env      ballistics.Environment
	logger   *zap.Logger

	fireTimer float64
	reloading bool
}

// NewController wires a controller for shooter.
//
// Precondition: every argument must be non-nil (panics otherwise);
// resolver is the hitscan path, pipeline the projectile path.
func NewController(
	shooter uuid.UUID,
	w *weapon.Weapon,
	acc *accuracy.State,
	sampler accuracy.Source,
	pipeline *ballistics.Pipeline,
	resolver *ballistics.Resolver,
	env ballistics.Environment,
	logger *zap.Logger,
) *Controller {
	if w == nil || acc == nil || sampler == nil || pipeline == nil || resolver == nil || logger == nil {
		panic("firing: NewController: all collaborators must be non-nil")
	}
	return &Controller{
		shooter:  shooter,
		weapon:   w,
		acc:      acc,
		sampler:  sampler,
		pipeline: pipeline,
		resolver: resolver,
		env:      env,
		logger:   logger,
	}
}

// Weapon returns the controlled weapon.
func (c *Controller) Weapon() *weapon.Weapon { return c.weapon }

// Accuracy returns the controlled accuracy state.
func (c *Controller) Accuracy() *accuracy.State { return c.acc }

// IsReloading reports whether the reload gate is closed.
func (c *Controller) IsReloading() bool { return c.reloading }

// SetReloading opens or closes the reload gate. The reload itself is
// owned by an external subsystem; the controller only consumes the flag.
//
// Postcondition: closing the gate (true) cancels any burst in progress.
func (c *Controller) SetReloading(v bool) {
	c.reloading = v
	if v {
		c.cancelBurst()
	}
}

// State returns the observable firing state.
func (c *Controller) State() State {
	if b, ok := c.weapon.Mode.(*weapon.Burst); ok && b.Active {
		return StateBursting
	}
	if c.fireTimer > 0 {
		return StateCooldown
	}
	return StateIdle
}

// Tick advances the controller by dt under the given input, with the
// weapon aimed along aim from origin. It may spawn one projectile or
// resolve one hitscan shot per firing opportunity, emitting events to
// sink.
//
// Precondition: dt > 0; sink must be non-nil.
func (c *Controller) Tick(dt float64, in Input, aim geom.Quat, origin geom.Vec3, sink ballistics.EventSink) {
	c.fireTimer -= dt

	if in.ReloadRequested && !c.reloading {
		c.SetReloading(true)
		c.logger.Debug("reload requested",
			zap.String("shooter_id", c.shooter.String()),
			zap.String("weapon_id", c.weapon.ID),
		)
	}

	fired := false
	if !c.reloading {
		fired = c.step(in, aim, origin, sink)
	}
	if !fired && !c.triggerEngaged(in) {
		c.acc.Recover(dt)
	}
}

// triggerEngaged reports whether the input still demands fire this tick.
// Bloom must not recover on rate-limited ticks of a sustained sequence,
// only once the shooter actually lets off.
func (c *Controller) triggerEngaged(in Input) bool {
	if c.reloading {
		return false
	}
	switch m := c.weapon.Mode.(type) {
	case weapon.SemiAuto:
		return in.TriggerJustPressed
	case weapon.FullAuto:
		return in.TriggerHeld
	case *weapon.Burst:
		return m.Active || in.TriggerJustPressed
	default:
		return false
	}
}

// step evaluates the firing mode semantics for one tick and returns
// whether a shot was produced.
func (c *Controller) step(in Input, aim geom.Quat, origin geom.Vec3, sink ballistics.EventSink) bool {
	switch m := c.weapon.Mode.(type) {
	case weapon.SemiAuto:
		if in.TriggerJustPressed && c.fireTimer <= 0 {
			return c.fire(c.weapon.FireRate, aim, origin, sink)
		}
	case weapon.FullAuto:
		if in.TriggerHeld && c.fireTimer <= 0 {
			return c.fire(c.weapon.FireRate, aim, origin, sink)
		}
	case *weapon.Burst:
		return c.stepBurst(m, in, aim, origin, sink)
	default:
		panic("firing: Controller.step: unknown firing mode")
	}
	return false
}

// stepBurst handles the burst sequence: a press starts it, the fire
// timer paces it, ammo exhaustion or completion ends it.
func (c *Controller) stepBurst(b *weapon.Burst, in Input, aim geom.Quat, origin geom.Vec3, sink ballistics.EventSink) bool {
	if b.Active {
		if c.fireTimer > 0 {
			return false
		}
		if !c.fire(b.FireRate, aim, origin, sink) {
			// Out of ammo mid-burst: cancel silently.
			c.cancelBurst()
			return false
		}
		b.CurrentCount++
		if b.CurrentCount >= b.Amount {
			c.cancelBurst()
		}
		return true
	}

	if in.TriggerJustPressed && c.fireTimer <= 0 {
		if !c.fire(b.FireRate, aim, origin, sink) {
			return false
		}
		b.Active = true
		b.CurrentCount = 1
		if b.CurrentCount >= b.Amount {
			c.cancelBurst()
		}
		return true
	}
	return false
}

// cancelBurst clears any burst sequence state.
func (c *Controller) cancelBurst() {
	if b, ok := c.weapon.Mode.(*weapon.Burst); ok {
		b.Active = false
		b.CurrentCount = 0
	}
}

// fire attempts one shot at the given rate. Returns false (a silent
// no-op) when the magazine is empty.
//
// Postcondition: on success CurrentAmmo decreases by 1, the fire timer
// resets to 1/rate, bloom accumulates, and either a hitscan resolution
// or a projectile spawn occurs.
func (c *Controller) fire(rate float64, aim geom.Quat, origin geom.Vec3, sink ballistics.EventSink) bool {
	if !c.weapon.Consume() {
		return false
	}
	c.fireTimer = 1 / rate

	dir := accuracy.ShotDirection(aim, c.weapon, c.acc, c.env.Gravity.Len(), c.sampler)
	c.acc.OnShot()

	if c.weapon.IsHitscan() {
		c.resolver.ResolveHitscan(origin, dir, c.weapon.Range, c.weapon.Damage, c.weapon.PenetrationPower, c.shooter, sink)
	} else {
		c.pipeline.Spawn(ballistics.SpawnRequest{
			Position:         origin,
			Velocity:         dir.Scale(c.weapon.ProjectileSpeed),
			Owner:            c.shooter,
			Damage:           c.weapon.Damage,
			Lifetime:         c.weapon.ProjectileLifetime,
			Mass:             c.weapon.ProjectileMass,
			DragCoeff:        c.weapon.DragCoeff,
			ReferenceArea:    c.weapon.ReferenceArea,
			PenetrationPower: c.weapon.PenetrationPower,
			UseGravity:       c.weapon.UseGravity,
			RotateToVelocity: c.weapon.RotateToVelocity,
		})
	}

	c.logger.Debug("shot fired",
		zap.String("shooter_id", c.shooter.String()),
		zap.String("weapon_id", c.weapon.ID),
		zap.String("mode", c.weapon.ModeName()),
		zap.Int("ammo_left", c.weapon.CurrentAmmo),
	)
	return true
}
