package weapon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MountPoint identifies an attachment mount on a weapon.
type MountPoint string

const (
	// MountScope is the optic mount.
	MountScope MountPoint = "scope"
	// MountMuzzle is the muzzle-device mount.
	MountMuzzle MountPoint = "muzzle"
	// MountMagazine is the magazine mount.
	MountMagazine MountPoint = "magazine"
	// MountUnderbarrel is the underbarrel mount.
	MountUnderbarrel MountPoint = "underbarrel"
)

// MountPoints lists every valid mount in a fixed order.
var MountPoints = []MountPoint{MountScope, MountMuzzle, MountMagazine, MountUnderbarrel}

// ValidMount reports whether p names a known mount point.
func ValidMount(p MountPoint) bool {
	for _, m := range MountPoints {
		if m == p {
			return true
		}
	}
	return false
}

// AttachmentModifier is a static bundle of stat modifiers created at
// content-definition time. Applying it mutates a Weapon's live stats;
// Remove exactly inverts Apply.
type AttachmentModifier struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Mount MountPoint `yaml:"mount"`

	DamageMultiplier      float64 `yaml:"damage_multiplier"`
	ExtraDamage           float64 `yaml:"extra_damage"`
	SpreadMultiplier      float64 `yaml:"spread_multiplier"`
	FireRateMultiplier    float64 `yaml:"fire_rate_multiplier"`
	ReloadSpeedMultiplier float64 `yaml:"reload_speed_multiplier"`
	RangeMultiplier       float64 `yaml:"range_multiplier"`
	MagazineSizeModifier  int     `yaml:"magazine_size_modifier"`
}

// normalize replaces omitted (zero) multipliers with the neutral 1 so a
// sparse YAML definition only has to name the stats it changes.
func (a *AttachmentModifier) normalize() {
	if a.DamageMultiplier == 0 {
		a.DamageMultiplier = 1
	}
	if a.SpreadMultiplier == 0 {
		a.SpreadMultiplier = 1
	}
	if a.FireRateMultiplier == 0 {
		a.FireRateMultiplier = 1
	}
	if a.ReloadSpeedMultiplier == 0 {
		a.ReloadSpeedMultiplier = 1
	}
	if a.RangeMultiplier == 0 {
		a.RangeMultiplier = 1
	}
}

// Validate checks that the AttachmentModifier satisfies its invariants.
//
// Postcondition: returns nil iff the modifier is well formed.
func (a *AttachmentModifier) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !ValidMount(a.Mount) {
		errs = append(errs, fmt.Errorf("mount must be one of %v, got %q", MountPoints, a.Mount))
	}
	for name, v := range map[string]float64{
		"damage_multiplier":       a.DamageMultiplier,
		"spread_multiplier":       a.SpreadMultiplier,
		"fire_rate_multiplier":    a.FireRateMultiplier,
		"reload_speed_multiplier": a.ReloadSpeedMultiplier,
		"range_multiplier":        a.RangeMultiplier,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("attachment validation failed: %v", errs)
	}
	return nil
}

// apply composes the modifier onto w's live stats.
func (a *AttachmentModifier) apply(w *Weapon) {
	w.Damage = w.Damage*a.DamageMultiplier + a.ExtraDamage
	w.Spread *= a.SpreadMultiplier
	w.FireRate *= a.FireRateMultiplier
	if a.ReloadSpeedMultiplier != 0 {
		w.ReloadTime /= a.ReloadSpeedMultiplier
	}
	w.Range *= a.RangeMultiplier
	w.AmmoCapacity += a.MagazineSizeModifier
	w.clampAmmo()
}

// remove inverts apply. Divisions by a zero multiplier are skipped
// rather than faulting; the additive terms are always subtracted.
func (a *AttachmentModifier) remove(w *Weapon) {
	w.Damage -= a.ExtraDamage
	if a.DamageMultiplier != 0 {
		w.Damage /= a.DamageMultiplier
	}
	if a.SpreadMultiplier != 0 {
		w.Spread /= a.SpreadMultiplier
	}
	if a.FireRateMultiplier != 0 {
		w.FireRate /= a.FireRateMultiplier
	}
	if a.ReloadSpeedMultiplier != 0 {
		w.ReloadTime *= a.ReloadSpeedMultiplier
	}
	if a.RangeMultiplier != 0 {
		w.Range /= a.RangeMultiplier
	}
	w.AmmoCapacity -= a.MagazineSizeModifier
	w.clampAmmo()
}

// Rack holds the attachment state for one weapon: at most one active
// modifier per mount point.
type Rack struct {
	active map[MountPoint]*AttachmentModifier
}

// NewRack returns an empty Rack.
//
// Postcondition: Active(p) is nil for every mount point p.
func NewRack() *Rack {
	return &Rack{active: make(map[MountPoint]*AttachmentModifier)}
}

// Active returns the modifier currently mounted at p, or nil.
func (r *Rack) Active(p MountPoint) *AttachmentModifier {
	return r.active[p]
}

// Select mounts mod on w at mod.Mount. Any modifier already active at
// that mount is fully removed first, so repeated swaps never stack.
//
// Precondition: mod must be non-nil with a valid Mount.
// Postcondition: Active(mod.Mount) == mod; w reflects exactly one
// application of mod at that mount.
func (r *Rack) Select(w *Weapon, mod *AttachmentModifier) error {
	if mod == nil {
		panic("weapon: Rack.Select: mod must not be nil")
	}
	if !ValidMount(mod.Mount) {
		return fmt.Errorf("weapon: Rack.Select: invalid mount point %q", mod.Mount)
	}
	if prev := r.active[mod.Mount]; prev != nil {
		prev.remove(w)
	}
	mod.apply(w)
	r.active[mod.Mount] = mod
	return nil
}

// Clear removes the modifier at p from w. A vacant mount is a no-op.
//
// Postcondition: Active(p) == nil; w's stats have the modifier's
// application inverted.
func (r *Rack) Clear(w *Weapon, p MountPoint) {
	mod := r.active[p]
	if mod == nil {
		return
	}
	mod.remove(w)
	delete(r.active, p)
}

// LoadAttachments reads all *.yaml files from dir, parses each as an
// AttachmentModifier, normalizes omitted multipliers to 1, validates,
// and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid modifiers or the first encountered error.
func LoadAttachments(dir string) ([]*AttachmentModifier, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("weapon: LoadAttachments: cannot read directory %q: %w", dir, err)
	}

	var mods []*AttachmentModifier
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("weapon: LoadAttachments: cannot read file %q: %w", path, err)
		}
		var a AttachmentModifier
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("weapon: LoadAttachments: cannot parse file %q: %w", path, err)
		}
		a.normalize()
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("weapon: LoadAttachments: invalid attachment in %q: %w", path, err)
		}
		mods = append(mods, &a)
	}
	return mods, nil
}
