package weapon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode identifier strings accepted in weapon definition files.
const (
	ModeSemi  = "semi"
	ModeAuto  = "auto"
	ModeBurst = "burst"
)

// BurstDef holds the burst-mode parameters of a weapon definition.
type BurstDef struct {
	// Amount is the number of shots per burst.
	Amount int `yaml:"amount"`
	// FireRate is the intra-burst rate in shots per second.
	FireRate float64 `yaml:"fire_rate"`
}

// Def defines the static properties of a weapon loaded from YAML.
type Def struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	Damage     float64 `yaml:"damage"`
	Range      float64 `yaml:"range"`
	FireRate   float64 `yaml:"fire_rate"`
	Spread     float64 `yaml:"spread"`
	ReloadTime float64 `yaml:"reload_time"`

	AmmoCapacity int `yaml:"ammo_capacity"`

	// Mode is one of "semi", "auto", or "burst".
	Mode string `yaml:"mode"`
	// Burst must be present iff Mode == "burst".
	Burst *BurstDef `yaml:"burst"`

	ProjectileSpeed    float64 `yaml:"projectile_speed"` // 0 = hitscan
	ProjectileMass     float64 `yaml:"projectile_mass"`
	DragCoeff          float64 `yaml:"drag_coeff"`
	ReferenceArea      float64 `yaml:"reference_area"`
	PenetrationPower   float64 `yaml:"penetration_power"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
	ZeroingDistance    float64 `yaml:"zeroing_distance"`
	UseGravity         bool    `yaml:"use_gravity"`
	RotateToVelocity   bool    `yaml:"rotate_to_velocity"`
}

// firingMode builds the runtime FiringMode variant for this definition.
//
// Precondition: the Def has passed Validate.
func (d *Def) firingMode() FiringMode {
	switch d.Mode {
	case ModeAuto:
		return FullAuto{}
	case ModeBurst:
		return &Burst{Amount: d.Burst.Amount, FireRate: d.Burst.FireRate}
	default:
		return SemiAuto{}
	}
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Damage < 0 {
		errs = append(errs, errors.New("damage must not be negative"))
	}
	if d.FireRate <= 0 {
		errs = append(errs, errors.New("fire_rate must be > 0"))
	}
	if d.AmmoCapacity <= 0 {
		errs = append(errs, errors.New("ammo_capacity must be > 0"))
	}
	if d.Spread < 0 {
		errs = append(errs, errors.New("spread must not be negative"))
	}
	switch d.Mode {
	case ModeSemi, ModeAuto:
		if d.Burst != nil {
			errs = append(errs, fmt.Errorf("mode %q must not define burst settings", d.Mode))
		}
	case ModeBurst:
		if d.Burst == nil {
			errs = append(errs, errors.New("mode burst requires burst settings"))
		} else {
			if d.Burst.Amount < 2 {
				errs = append(errs, errors.New("burst.amount must be >= 2"))
			}
			if d.Burst.FireRate <= 0 {
				errs = append(errs, errors.New("burst.fire_rate must be > 0"))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("mode must be one of [semi, auto, burst], got %q", d.Mode))
	}
	if d.ProjectileSpeed < 0 {
		errs = append(errs, errors.New("projectile_speed must not be negative"))
	}
	if d.ProjectileSpeed > 0 {
		if d.ProjectileMass <= 0 {
			errs = append(errs, errors.New("projectile_mass must be > 0 for projectile weapons"))
		}
		if d.ProjectileLifetime <= 0 {
			errs = append(errs, errors.New("projectile_lifetime must be > 0 for projectile weapons"))
		}
		if d.DragCoeff < 0 {
			errs = append(errs, errors.New("drag_coeff must not be negative"))
		}
		if d.ReferenceArea < 0 {
			errs = append(errs, errors.New("reference_area must not be negative"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadDefs reads all *.yaml files from dir, parses each as a Def,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("weapon: LoadDefs: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("weapon: LoadDefs: cannot read file %q: %w", path, err)
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("weapon: LoadDefs: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("weapon: LoadDefs: invalid weapon in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}
