package weapon_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/ballistics/internal/game/weapon"
)

func suppressor() *weapon.AttachmentModifier {
	return &weapon.AttachmentModifier{
		ID:                    "suppressor",
		Name:                  "Suppressor",
		Mount:                 weapon.MountMuzzle,
		DamageMultiplier:      0.9,
		ExtraDamage:           0,
		SpreadMultiplier:      0.8,
		FireRateMultiplier:    1,
		ReloadSpeedMultiplier: 1,
		RangeMultiplier:       1.1,
		MagazineSizeModifier:  0,
	}
}

func extendedMag() *weapon.AttachmentModifier {
	return &weapon.AttachmentModifier{
		ID:                    "ext-mag",
		Name:                  "Extended Magazine",
		Mount:                 weapon.MountMagazine,
		DamageMultiplier:      1,
		SpreadMultiplier:      1,
		FireRateMultiplier:    1,
		ReloadSpeedMultiplier: 0.85,
		RangeMultiplier:       1,
		MagazineSizeModifier:  10,
	}
}

// relClose reports whether a and b agree within 1e-4 relative tolerance.
func relClose(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		scale = 1
	}
	return math.Abs(a-b)/scale <= 1e-4
}

// TestRack_SelectThenClear_RestoresStats verifies that applying a
// modifier and immediately removing it restores every stat field to its
// pre-application value within 1e-4 relative tolerance.
func TestRack_SelectThenClear_RestoresStats(t *testing.T) {
	w := weapon.New(rifleDef())
	rack := weapon.NewRack()

	before := *w
	require.NoError(t, rack.Select(w, suppressor()))
	rack.Clear(w, weapon.MountMuzzle)

	assert.True(t, relClose(before.Damage, w.Damage), "damage %v -> %v", before.Damage, w.Damage)
	assert.True(t, relClose(before.Spread, w.Spread))
	assert.True(t, relClose(before.FireRate, w.FireRate))
	assert.True(t, relClose(before.ReloadTime, w.ReloadTime))
	assert.True(t, relClose(before.Range, w.Range))
	assert.Equal(t, before.AmmoCapacity, w.AmmoCapacity)
}

// TestRack_ApplyRemove_InverseProperty verifies the apply/remove inverse
// for arbitrary modifier values.
func TestRack_ApplyRemove_InverseProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mod := &weapon.AttachmentModifier{
			ID:                    "gen",
			Name:                  "Generated",
			Mount:                 weapon.MountScope,
			DamageMultiplier:      rapid.Float64Range(0.1, 4).Draw(t, "dmgMult"),
			ExtraDamage:           rapid.Float64Range(-10, 50).Draw(t, "extraDmg"),
			SpreadMultiplier:      rapid.Float64Range(0.1, 4).Draw(t, "spreadMult"),
			FireRateMultiplier:    rapid.Float64Range(0.1, 4).Draw(t, "rateMult"),
			ReloadSpeedMultiplier: rapid.Float64Range(0.1, 4).Draw(t, "reloadMult"),
			RangeMultiplier:       rapid.Float64Range(0.1, 4).Draw(t, "rangeMult"),
			MagazineSizeModifier:  rapid.IntRange(-10, 40).Draw(t, "magMod"),
		}

		w := weapon.New(rifleDef())
		before := *w
		rack := weapon.NewRack()
		if err := rack.Select(w, mod); err != nil {
			t.Fatalf("select: %v", err)
		}
		rack.Clear(w, weapon.MountScope)

		if !relClose(before.Damage, w.Damage) {
			t.Fatalf("damage not restored: %v -> %v", before.Damage, w.Damage)
		}
		if !relClose(before.Spread, w.Spread) {
			t.Fatalf("spread not restored: %v -> %v", before.Spread, w.Spread)
		}
		if !relClose(before.FireRate, w.FireRate) {
			t.Fatalf("fire rate not restored: %v -> %v", before.FireRate, w.FireRate)
		}
		if !relClose(before.ReloadTime, w.ReloadTime) {
			t.Fatalf("reload time not restored: %v -> %v", before.ReloadTime, w.ReloadTime)
		}
		if !relClose(before.Range, w.Range) {
			t.Fatalf("range not restored: %v -> %v", before.Range, w.Range)
		}
		if before.AmmoCapacity != w.AmmoCapacity {
			t.Fatalf("capacity not restored: %v -> %v", before.AmmoCapacity, w.AmmoCapacity)
		}
	})
}

// TestRack_Select_ReplacesExistingAtMount verifies that selecting a new
// modifier at an occupied mount removes the old one first, so repeated
// swaps never stack.
func TestRack_Select_ReplacesExistingAtMount(t *testing.T) {
	w := weapon.New(rifleDef())
	rack := weapon.NewRack()

	first := suppressor()
	second := suppressor()
	second.ID = "heavy-suppressor"
	second.DamageMultiplier = 0.8

	require.NoError(t, rack.Select(w, first))
	afterFirst := w.Damage

	for i := 0; i < 50; i++ {
		require.NoError(t, rack.Select(w, second))
		require.NoError(t, rack.Select(w, first))
	}
	assert.True(t, relClose(afterFirst, w.Damage), "swaps accumulated error: %v -> %v", afterFirst, w.Damage)
	assert.Equal(t, first, rack.Active(weapon.MountMuzzle))
}

// TestRack_Clear_VacantMountIsNoOp verifies that clearing an empty mount
// changes nothing.
func TestRack_Clear_VacantMountIsNoOp(t *testing.T) {
	w := weapon.New(rifleDef())
	before := *w
	weapon.NewRack().Clear(w, weapon.MountUnderbarrel)
	assert.Equal(t, before, *w)
}

// TestRack_Select_MagazineCapacityDelta verifies that a magazine modifier
// shifts AmmoCapacity and that removal clamps CurrentAmmo back into range.
func TestRack_Select_MagazineCapacityDelta(t *testing.T) {
	w := weapon.New(rifleDef())
	rack := weapon.NewRack()

	require.NoError(t, rack.Select(w, extendedMag()))
	assert.Equal(t, 40, w.AmmoCapacity)

	w.Refill()
	rack.Clear(w, weapon.MountMagazine)
	assert.Equal(t, 30, w.AmmoCapacity)
	assert.Equal(t, 30, w.CurrentAmmo, "ammo must be clamped to restored capacity")
}

// TestAttachmentModifier_ZeroMultiplierRemovalGuard verifies that
// removing a modifier whose stored multiplier is zero skips the division
// instead of faulting.
func TestAttachmentModifier_ZeroMultiplierRemovalGuard(t *testing.T) {
	w := weapon.New(rifleDef())
	rack := weapon.NewRack()

	mod := suppressor()
	mod.DamageMultiplier = 0      // degenerate content values
	mod.ReloadSpeedMultiplier = 0 // apply skips the division, remove must skip the multiply
	before := *w
	require.NoError(t, rack.Select(w, mod))
	assert.NotPanics(t, func() { rack.Clear(w, weapon.MountMuzzle) })
	assert.False(t, math.IsInf(w.Damage, 0))
	assert.False(t, math.IsNaN(w.Damage))
	assert.Equal(t, before.ReloadTime, w.ReloadTime, "skipped stat must survive apply-then-remove untouched")
}

// TestLoadAttachments_NormalizesOmittedMultipliers verifies YAML loading
// with sparse definitions: omitted multipliers default to the neutral 1.
func TestLoadAttachments_NormalizesOmittedMultipliers(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: cheek-riser\nname: Cheek Riser\nmount: scope\nspread_multiplier: 0.9\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "riser.yaml"), data, 0o644))

	mods, err := weapon.LoadAttachments(dir)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, 0.9, mods[0].SpreadMultiplier)
	assert.Equal(t, 1.0, mods[0].DamageMultiplier)
	assert.Equal(t, 1.0, mods[0].ReloadSpeedMultiplier)
}

// TestLoadAttachments_RejectsUnknownMount verifies that an invalid mount
// point fails validation at load time.
func TestLoadAttachments_RejectsUnknownMount(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: bad\nname: Bad\nmount: stock\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), data, 0o644))

	_, err := weapon.LoadAttachments(dir)
	assert.Error(t, err)
}
