// Package weapon provides the runtime weapon record, its firing-mode
// variants, YAML definition loading, and the attachment modifier stack.
package weapon

import "fmt"

// FiringMode is a closed set of firing behaviours. Exactly three types
// implement it: SemiAuto, FullAuto, and *Burst. Callers switch
// exhaustively on the concrete type.
type FiringMode interface {
	firingMode()
}

// SemiAuto fires one shot per discrete trigger press.
type SemiAuto struct{}

func (SemiAuto) firingMode() {}

// FullAuto fires continuously while the trigger is held, limited by the
// weapon's fire rate.
type FullAuto struct{}

func (FullAuto) firingMode() {}

// Burst fires a fixed-count sequence of shots from a single trigger
// press. The sequence counters live here, not on the weapon, so they
// exist only for weapons that actually burst.
type Burst struct {
	// Amount is the number of shots per burst.
	Amount int
	// FireRate is the intra-burst rate in shots per second.
	FireRate float64
	// CurrentCount is the number of shots fired in the active sequence.
	CurrentCount int
	// Active is true while a burst sequence is in progress.
	Active bool
}

func (*Burst) firingMode() {}

// Weapon is the mutable runtime record for one weapon instance. The
// Base* fields mirror the pristine definition values and are used to
// verify that attachment removal restores them.
//
// Invariant: 0 <= CurrentAmmo <= AmmoCapacity.
type Weapon struct {
	// ID is the definition identifier this instance was built from.
	ID string
	// Name is the display name.
	Name string

	Damage     float64
	Range      float64
	FireRate   float64
	Spread     float64 // degrees, before bloom
	ReloadTime float64 // seconds

	AmmoCapacity int
	CurrentAmmo  int

	BaseDamage       float64
	BaseRange        float64
	BaseFireRate     float64
	BaseSpread       float64
	BaseReloadTime   float64
	BaseAmmoCapacity int

	// Mode is the active firing mode variant.
	Mode FiringMode

	// ProjectileSpeed is the muzzle velocity in m/s; 0 selects the
	// instant-hit path.
	ProjectileSpeed    float64
	ProjectileMass     float64
	DragCoeff          float64
	ReferenceArea      float64
	PenetrationPower   float64
	ProjectileLifetime float64
	ZeroingDistance    float64
	UseGravity         bool
	RotateToVelocity   bool
}

// New instantiates a runtime Weapon from def with a full magazine.
//
// Precondition: def must have passed Validate (panics on nil def).
// Postcondition: CurrentAmmo == AmmoCapacity; Base* mirror the stat fields.
func New(def *Def) *Weapon {
	if def == nil {
		panic("weapon: New: def must not be nil")
	}
	w := &Weapon{
		ID:         def.ID,
		Name:       def.Name,
		Damage:     def.Damage,
		Range:      def.Range,
		FireRate:   def.FireRate,
		Spread:     def.Spread,
		ReloadTime: def.ReloadTime,

		AmmoCapacity: def.AmmoCapacity,
		CurrentAmmo:  def.AmmoCapacity,

		BaseDamage:       def.Damage,
		BaseRange:        def.Range,
		BaseFireRate:     def.FireRate,
		BaseSpread:       def.Spread,
		BaseReloadTime:   def.ReloadTime,
		BaseAmmoCapacity: def.AmmoCapacity,

		Mode: def.firingMode(),

		ProjectileSpeed:    def.ProjectileSpeed,
		ProjectileMass:     def.ProjectileMass,
		DragCoeff:          def.DragCoeff,
		ReferenceArea:      def.ReferenceArea,
		PenetrationPower:   def.PenetrationPower,
		ProjectileLifetime: def.ProjectileLifetime,
		ZeroingDistance:    def.ZeroingDistance,
		UseGravity:         def.UseGravity,
		RotateToVelocity:   def.RotateToVelocity,
	}
	return w
}

// IsHitscan reports whether shots resolve instantly (ProjectileSpeed == 0).
func (w *Weapon) IsHitscan() bool {
	return w.ProjectileSpeed == 0
}

// Consume removes one round from the magazine.
//
// Postcondition: returns false and leaves CurrentAmmo untouched when the
// magazine is empty; otherwise CurrentAmmo decreases by 1.
func (w *Weapon) Consume() bool {
	if w.CurrentAmmo <= 0 {
		return false
	}
	w.CurrentAmmo--
	return true
}

// Refill restores CurrentAmmo to AmmoCapacity.
//
// Postcondition: CurrentAmmo == AmmoCapacity.
func (w *Weapon) Refill() {
	w.CurrentAmmo = w.AmmoCapacity
}

// clampAmmo restores the magazine invariant after a capacity change.
func (w *Weapon) clampAmmo() {
	if w.CurrentAmmo > w.AmmoCapacity {
		w.CurrentAmmo = w.AmmoCapacity
	}
	if w.CurrentAmmo < 0 {
		w.CurrentAmmo = 0
	}
}

// ModeName returns a short identifier for the active firing mode.
func (w *Weapon) ModeName() string {
	switch w.Mode.(type) {
	case SemiAuto:
		return "semi"
	case FullAuto:
		return "auto"
	case *Burst:
		return "burst"
	default:
		panic(fmt.Sprintf("weapon: ModeName: unknown firing mode %T", w.Mode))
	}
}
