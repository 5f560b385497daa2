package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Simulation: SimulationConfig{
			TickRate:                 60,
			GravityY:                 -9.81,
			AirDensity:               1.225,
			EnergyLossPerMeter:       1.0,
			PenetrationDamping:       0.6,
			DefaultSurfaceResistance: 100,
		},
		Content: ContentConfig{
			WeaponsDir:     "content/weapons",
			AttachmentsDir: "content/attachments",
			MaterialsDir:   "content/materials",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestSimulationDt(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.TickRate = 50
	assert.InDelta(t, 0.02, cfg.Simulation.Dt(), 1e-12)
}

func TestValidate_RejectsBadLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsZeroTickRate(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.TickRate = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsDampingOutOfRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.PenetrationDamping = rapid.OneOf(
			rapid.Float64Range(-10, -0.001),
			rapid.Float64Range(1.001, 10),
		).Draw(t, "damping")
		if cfg.Validate() == nil {
			t.Fatalf("damping %v must be rejected", cfg.Simulation.PenetrationDamping)
		}
	})
}

func TestValidate_AcceptsDampingInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.PenetrationDamping = rapid.Float64Range(0, 1).Draw(t, "damping")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("damping %v must be accepted: %v", cfg.Simulation.PenetrationDamping, err)
		}
	})
}

func TestValidate_RejectsNegativeEnergyLoss(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.EnergyLossPerMeter = -1
	assert.Error(t, cfg.Validate())
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	data := []byte(`
logging:
  level: debug
  format: console
simulation:
  tick_rate: 120
  energy_loss_per_meter: 2.5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 120, cfg.Simulation.TickRate)
	assert.Equal(t, 2.5, cfg.Simulation.EnergyLossPerMeter)
	// Defaults fill the rest.
	assert.Equal(t, -9.81, cfg.Simulation.GravityY)
	assert.Equal(t, "content/weapons", cfg.Content.WeaponsDir)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesFailValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	data := []byte(`
simulation:
  tick_rate: 0
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
