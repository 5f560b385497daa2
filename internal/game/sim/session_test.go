package sim_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/game/accuracy"
	"github.com/cory-johannsen/ballistics/internal/game/ballistics"
	"github.com/cory-johannsen/ballistics/internal/game/firing"
	"github.com/cory-johannsen/ballistics/internal/game/geom"
	"github.com/cory-johannsen/ballistics/internal/game/sim"
	"github.com/cory-johannsen/ballistics/internal/game/weapon"
)

func targetPanel(entity uuid.UUID, z float64, material string) sim.Panel {
	return sim.Panel{
		Entity:     entity,
		Material:   material,
		Center:     geom.Vec3{Z: z},
		Normal:     geom.Vec3{Z: -1},
		HalfWidth:  50,
		HalfHeight: 50,
	}
}

func projectileRifleDef() *weapon.Def {
	return &weapon.Def{
		ID: "range-rifle", Name: "Range Rifle", Damage: 25, Range: 400, FireRate: 10,
		Spread: 0, ReloadTime: 0.2, AmmoCapacity: 30, Mode: weapon.ModeAuto,
		ProjectileSpeed: 100, ProjectileMass: 0.01, ProjectileLifetime: 10,
		PenetrationPower: 50,
	}
}

type sessionHarness struct {
	session  *sim.Session
	shooter  *sim.Shooter
	sink     *sim.LoggingSink
	pl       *ballistics.Pipeline
	resolver *ballistics.Resolver
}

func newSessionHarness(t *testing.T, def *weapon.Def, panels ...sim.Panel) *sessionHarness {
	t.Helper()
	require.NoError(t, def.Validate())

	rng := sim.NewRange(panels...)
	solver := ballistics.NewSolver(ballistics.Environment{}, 0)
	resolver := &ballistics.Resolver{
		Rays:               rng,
		EnergyLossPerMeter: 0.1,
		PenetrationDamping: 0.6,
		DefaultResistance:  100,
	}
	pl := ballistics.NewPipeline(solver, resolver, zap.NewNop())
	sink := sim.NewLoggingSink(zap.NewNop())

	id := uuid.New()
	shooter := &sim.Shooter{
		ID:  id,
		Aim: geom.Identity(),
		Controller: firing.NewController(
			id,
			weapon.New(def),
			accuracy.NewState(0, 1, 1),
			accuracy.NewSeededSource(5),
			pl,
			resolver,
			ballistics.Environment{},
			zap.NewNop(),
		),
	}

	session := sim.NewSession(pl, sink, zap.NewNop())
	session.AddShooter(shooter)
	return &sessionHarness{session: session, shooter: shooter, sink: sink, pl: pl, resolver: resolver}
}

var pressTick = []firing.Input{{TriggerHeld: true, TriggerJustPressed: true}}
var noInput = []firing.Input{}

// TestSession_TickOrdering_SpawnAdvancesNextTick verifies the fixed
// execution order: a projectile spawned by the controller in tick N is
// first advanced in tick N+1.
func TestSession_TickOrdering_SpawnAdvancesNextTick(t *testing.T) {
	h := newSessionHarness(t, projectileRifleDef())

	h.session.Tick(0.05, pressTick)
	require.Equal(t, 1, h.pl.Count())
	p := h.pl.Live()[0]
	assert.Equal(t, geom.Vec3{}, p.Position, "spawn tick must not move the projectile")

	h.session.Tick(0.05, noInput)
	assert.InDelta(t, 5, p.Position.Z, 1e-9)
}

// TestSession_EndToEnd_ProjectileHitsTarget verifies a full flight: fire
// at a panel 20 m downrange, watch the projectile stop in it, and see
// exactly one damage event.
func TestSession_EndToEnd_ProjectileHitsTarget(t *testing.T) {
	target := uuid.New()
	h := newSessionHarness(t, projectileRifleDef(), targetPanel(target, 20, "flesh"))

	h.session.Tick(0.05, pressTick)
	for i := 0; i < 10 && len(h.sink.Damage) == 0; i++ {
		h.session.Tick(0.05, noInput)
	}

	require.Len(t, h.sink.Damage, 1)
	assert.Equal(t, target, h.sink.Damage[0].Target)
	assert.Equal(t, 25.0, h.sink.Damage[0].Amount)
	assert.Equal(t, 1, h.sink.Stops)
	assert.Equal(t, 0, h.pl.Count(), "stopped projectile must despawn")
}

// TestSession_EndToEnd_PenetratesWeakPanel verifies that a weak panel in
// front of the target is penetrated and only the stopping hit deals
// damage.
func TestSession_EndToEnd_PenetratesWeakPanel(t *testing.T) {
	target := uuid.New()
	h := newSessionHarness(t, projectileRifleDef(),
		targetPanel(uuid.Nil, 10, "drywall"),
		targetPanel(target, 20, "flesh"),
	)
	// drywall resistance 5 via scripted-style lookup stand-in.
	h.setResistances(map[string]float64{"drywall": 5, "flesh": 500})

	h.session.Tick(0.05, pressTick)
	for i := 0; i < 20 && len(h.sink.Damage) == 0; i++ {
		h.session.Tick(0.05, noInput)
	}

	assert.Equal(t, 1, h.sink.Penetrations)
	require.Len(t, h.sink.Damage, 1)
	assert.Equal(t, target, h.sink.Damage[0].Target)
}

// TestSession_Reload_RefillsAndReopensFire verifies the stand-in reload
// subsystem: request, gate closed for ReloadTime, magazine refilled.
func TestSession_Reload_RefillsAndReopensFire(t *testing.T) {
	h := newSessionHarness(t, projectileRifleDef())
	h.shooter.Controller.Weapon().CurrentAmmo = 1

	h.session.Tick(0.05, pressTick)
	assert.Equal(t, 0, h.shooter.Controller.Weapon().CurrentAmmo)

	h.session.Tick(0.05, []firing.Input{{ReloadRequested: true}})
	require.True(t, h.shooter.Controller.IsReloading())

	// ReloadTime 0.2 s at 0.05 s ticks: the gate must reopen on the 4th
	// tick even though the repeated subtractions leave float residue.
	for i := 0; i < 3; i++ {
		h.session.Tick(0.05, noInput)
		require.True(t, h.shooter.Controller.IsReloading(), "reload finished early at tick %d", i)
	}
	h.session.Tick(0.05, noInput)
	assert.False(t, h.shooter.Controller.IsReloading())
	assert.Equal(t, 30, h.shooter.Controller.Weapon().CurrentAmmo)
}

// TestRange_Cast_NearestPanelWins verifies that the closest intersected
// panel is reported.
func TestRange_Cast_NearestPanelWins(t *testing.T) {
	near := uuid.New()
	far := uuid.New()
	rng := sim.NewRange(
		targetPanel(far, 30, "steel"),
		targetPanel(near, 10, "wood"),
	)

	hit, ok := rng.Cast(geom.Vec3{}, geom.Forward, 100, true, uuid.Nil)
	require.True(t, ok)
	assert.Equal(t, near, hit.Entity)
	assert.InDelta(t, 10, hit.Distance, 1e-9)
}

// TestRange_Cast_MissesOutsideExtents verifies the panel bounds check.
func TestRange_Cast_MissesOutsideExtents(t *testing.T) {
	p := targetPanel(uuid.New(), 10, "wood")
	p.HalfWidth = 0.5
	p.HalfHeight = 0.5
	rng := sim.NewRange(p)

	_, ok := rng.Cast(geom.Vec3{X: 2}, geom.Forward, 100, true, uuid.Nil)
	assert.False(t, ok)

	_, ok = rng.Cast(geom.Vec3{}, geom.Forward, 100, true, uuid.Nil)
	assert.True(t, ok)
}

// TestRange_Cast_ExcludesOwnerEntity verifies the exclusion set.
func TestRange_Cast_ExcludesOwnerEntity(t *testing.T) {
	owner := uuid.New()
	rng := sim.NewRange(targetPanel(owner, 10, "wood"))

	_, ok := rng.Cast(geom.Vec3{}, geom.Forward, 100, true, owner)
	assert.False(t, ok)
}

// setResistances swaps the harness resolver's material table.
func (h *sessionHarness) setResistances(table map[string]float64) {
	h.resolver.Materials = mapLookup(table)
}

type mapLookup map[string]float64

func (m mapLookup) Resistance(name string) (float64, bool) {
	r, ok := m[name]
	return r, ok
}
