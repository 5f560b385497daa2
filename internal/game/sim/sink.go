package sim

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
)

// LoggingSink records event tallies and logs each event at debug level.
// It is the default sink for headless runs.
type LoggingSink struct {
	logger *zap.Logger

	// Damage collects every damage event in emission order.
	Damage []ballistics.DamageEvent
	// Penetrations counts surfaces passed through.
	Penetrations int
	// Stops counts terminal impacts.
	Stops int
}

// NewLoggingSink creates a LoggingSink.
//
// Precondition: logger must be non-nil.
func NewLoggingSink(logger *zap.Logger) *LoggingSink {
	if logger == nil {
		panic("sim: NewLoggingSink: logger must not be nil")
	}
	return &LoggingSink{logger: logger}
}

func (s *LoggingSink) OnDamage(e ballistics.DamageEvent) {
	s.Damage = append(s.Damage, e)
	s.logger.Debug("damage dealt",
		zap.Float64("amount", e.Amount),
		zap.String("type", string(e.Type)),
		zap.String("source", e.Source.String()),
		zap.String("target", e.Target.String()),
	)
}

func (s *LoggingSink) OnImpact(e ballistics.ImpactEvent) {
	switch e.Kind {
	case ballistics.ImpactPenetrated:
		s.Penetrations++
	case ballistics.ImpactStopped:
		s.Stops++
	}
	s.logger.Debug("impact",
		zap.String("kind", string(e.Kind)),
		zap.String("material", e.Material),
	)
}
