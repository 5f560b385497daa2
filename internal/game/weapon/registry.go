package weapon

import "fmt"

// Registry holds all loaded weapon and attachment definitions indexed by ID.
type Registry struct {
	weapons     map[string]*Def
	attachments map[string]*AttachmentModifier
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:     make(map[string]*Def),
		attachments: make(map[string]*AttachmentModifier),
	}
}

// RegisterWeapon adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Weapon(d.ID) returns d; returns error if d.ID already registered.
func (r *Registry) RegisterWeapon(d *Def) error {
	if _, exists := r.weapons[d.ID]; exists {
		return fmt.Errorf("weapon: Registry.RegisterWeapon: weapon ID %q already registered", d.ID)
	}
	r.weapons[d.ID] = d
	return nil
}

// RegisterAttachment adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Attachment(a.ID) returns a; returns error if a.ID already registered.
func (r *Registry) RegisterAttachment(a *AttachmentModifier) error {
	if _, exists := r.attachments[a.ID]; exists {
		return fmt.Errorf("weapon: Registry.RegisterAttachment: attachment ID %q already registered", a.ID)
	}
	r.attachments[a.ID] = a
	return nil
}

// Weapon returns the Def for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *Def {
	return r.weapons[id]
}

// Attachment returns the AttachmentModifier for the given id, or nil if not found.
func (r *Registry) Attachment(id string) *AttachmentModifier {
	return r.attachments[id]
}

// LoadAll populates the registry from the weapon and attachment content
// directories. Either directory may be empty ("" skips that kind).
//
// Postcondition: every definition in the given directories is registered,
// or the first load/registration error is returned.
func (r *Registry) LoadAll(weaponsDir, attachmentsDir string) error {
	if weaponsDir != "" {
		defs, err := LoadDefs(weaponsDir)
		if err != nil {
			return err
		}
		for _, d := range defs {
			if err := r.RegisterWeapon(d); err != nil {
				return err
			}
		}
	}
	if attachmentsDir != "" {
		mods, err := LoadAttachments(attachmentsDir)
		if err != nil {
			return err
		}
		for _, a := range mods {
			if err := r.RegisterAttachment(a); err != nil {
				return err
			}
		}
	}
	return nil
}
