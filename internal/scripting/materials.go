package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// MaterialLibrary holds the surface-material resistance table defined by
// content scripts. It implements the ballistics resolver's
// ResistanceLookup interface.
//
// MaterialLibrary is safe for concurrent Resistance calls after LoadDir
// completes.
type MaterialLibrary struct {
	mu          sync.RWMutex
	resistances map[string]float64
	logger      *zap.Logger
}

// NewMaterialLibrary creates an empty MaterialLibrary.
//
// Precondition: logger must be non-nil.
// Postcondition: Resistance misses for every name.
func NewMaterialLibrary(logger *zap.Logger) *MaterialLibrary {
	if logger == nil {
		panic("scripting: NewMaterialLibrary: logger must not be nil")
	}
	return &MaterialLibrary{
		resistances: make(map[string]float64),
		logger:      logger,
	}
}

// registerModule installs the material.* module into L. Scripts call
// material.define{name = "...", resistance = <number>}.
func (m *MaterialLibrary) registerModule(L *lua.LState) {
	mod := L.NewTable()
	L.SetGlobal("material", mod)

	L.SetField(mod, "define", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		name := lua.LVAsString(L.GetField(tbl, "name"))
		resistance := L.GetField(tbl, "resistance")
		if name == "" {
			L.RaiseError("material.define: name must not be empty")
			return 0
		}
		num, ok := resistance.(lua.LNumber)
		if !ok || float64(num) < 0 {
			L.RaiseError("material.define: resistance must be a non-negative number")
			return 0
		}

		m.mu.Lock()
		m.resistances[name] = float64(num)
		m.mu.Unlock()

		m.logger.Debug("material defined",
			zap.String("material", name),
			zap.Float64("resistance", float64(num)),
		)
		return 0
	}))
}

// LoadDir executes every *.lua file in dir, in lexicographic order, in a
// fresh sandboxed VM with the material module registered.
//
// Precondition: dir must be a readable directory.
// Postcondition: every material defined by the scripts is resolvable, or
// the first Lua/IO error is returned.
func (m *MaterialLibrary) LoadDir(dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: MaterialLibrary.LoadDir: reading %q: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	defer L.Close()
	m.registerModule(L)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("scripting: MaterialLibrary.LoadDir: executing %q: %w", path, err)
		}
	}

	m.logger.Info("materials loaded",
		zap.String("dir", dir),
		zap.Int("count", m.Count()),
	)
	return nil
}

// Resistance returns the scripted resistance for material, or false for
// unknown names.
func (m *MaterialLibrary) Resistance(material string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resistances[material]
	return r, ok
}

// Count returns the number of defined materials.
func (m *MaterialLibrary) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resistances)
}
