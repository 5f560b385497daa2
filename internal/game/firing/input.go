// Package firing drives the per-weapon firing state machine: trigger
// semantics for each firing mode, fire-timer cooldown, burst sequencing,
// ammo consumption, and reload gating. It connects the accuracy model to
// either an instant-hit resolution or a projectile spawn.
package firing

// Input is the per-tick trigger and reload signal set supplied by the
// external input layer.
type Input struct {
	// TriggerHeld is the level signal: the trigger is down this tick.
	TriggerHeld bool
	// TriggerJustPressed is the edge signal: the trigger went down this
	// tick.
	TriggerJustPressed bool
	// ReloadRequested asks for a reload this tick.
	ReloadRequested bool
}
