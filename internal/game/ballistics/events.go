package ballistics

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/ballistics/internal/game/geom"
)

// DamageType classifies a damage event.
type DamageType string

// DamageRanged is the damage type for all weapon fire in this subsystem.
const DamageRanged DamageType = "ranged"

// DamageEvent reports damage dealt by a shot that stopped in a target.
// Exactly one is emitted per stopping hit on a damageable entity.
type DamageEvent struct {
	Amount    float64
	Type      DamageType
	Source    uuid.UUID
	Target    uuid.UUID
	Position  geom.Vec3
	Direction geom.Vec3
}

// ImpactKind distinguishes surface outcomes for effect spawning.
type ImpactKind string

const (
	// ImpactPenetrated marks a surface the shot passed through.
	ImpactPenetrated ImpactKind = "penetrated"
	// ImpactStopped marks the surface the shot stopped in.
	ImpactStopped ImpactKind = "stopped"
)

// ImpactEvent is a fire-and-forget notification for external visual
// effect spawning.
type ImpactEvent struct {
	Kind      ImpactKind
	Entity    uuid.UUID
	Position  geom.Vec3
	Direction geom.Vec3
	Material  string
}

// EventSink receives the events this subsystem produces. Implementations
// must not call back into the pipeline.
type EventSink interface {
	OnDamage(DamageEvent)
	OnImpact(ImpactEvent)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnDamage(DamageEvent) {}
func (NopSink) OnImpact(ImpactEvent) {}
