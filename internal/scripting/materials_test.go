package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/ballistics/internal/scripting"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// TestMaterialLibrary_LoadDir_DefinesMaterials verifies that scripts can
// define materials resolvable through Resistance.
func TestMaterialLibrary_LoadDir_DefinesMaterials(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "basic.lua", `
material.define{name = "drywall", resistance = 20}
material.define{name = "concrete", resistance = 120}
`)

	lib := scripting.NewMaterialLibrary(zap.NewNop())
	require.NoError(t, lib.LoadDir(dir, 0))

	r, ok := lib.Resistance("concrete")
	require.True(t, ok)
	assert.Equal(t, 120.0, r)
	assert.Equal(t, 2, lib.Count())
}

// TestMaterialLibrary_Resistance_UnknownMisses verifies the miss path
// used by the resolver's default fallback.
func TestMaterialLibrary_Resistance_UnknownMisses(t *testing.T) {
	lib := scripting.NewMaterialLibrary(zap.NewNop())
	_, ok := lib.Resistance("unobtainium")
	assert.False(t, ok)
}

// TestMaterialLibrary_LoadDir_ScriptsCanCompute verifies that the math
// stdlib is available to scripts deriving resistance values.
func TestMaterialLibrary_LoadDir_ScriptsCanCompute(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "derived.lua", `
local base = 50
material.define{name = "double-brick", resistance = base * 2}
`)

	lib := scripting.NewMaterialLibrary(zap.NewNop())
	require.NoError(t, lib.LoadDir(dir, 0))

	r, ok := lib.Resistance("double-brick")
	require.True(t, ok)
	assert.Equal(t, 100.0, r)
}

// TestMaterialLibrary_LoadDir_RejectsInvalidDefinition verifies that a
// negative resistance fails the load.
func TestMaterialLibrary_LoadDir_RejectsInvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `material.define{name = "void", resistance = -1}`)

	lib := scripting.NewMaterialLibrary(zap.NewNop())
	assert.Error(t, lib.LoadDir(dir, 0))
}

// TestMaterialLibrary_LoadDir_InstructionLimit verifies that a runaway
// script is terminated by the opcode limit instead of hanging the load.
func TestMaterialLibrary_LoadDir_InstructionLimit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "loop.lua", `while true do end`)

	lib := scripting.NewMaterialLibrary(zap.NewNop())
	assert.Error(t, lib.LoadDir(dir, 1000))
}

// TestMaterialLibrary_LoadDir_SandboxStripsDangerousGlobals verifies
// that file-loading globals are unavailable to scripts.
func TestMaterialLibrary_LoadDir_SandboxStripsDangerousGlobals(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "escape.lua", `dofile("/etc/passwd")`)

	lib := scripting.NewMaterialLibrary(zap.NewNop())
	assert.Error(t, lib.LoadDir(dir, 0))
}
