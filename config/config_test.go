package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
pool:
  water_capacity: 20000
  workers: 12
pricing:
  water_per_liter: 0.08
negotiation:
  session_ttl_minutes: 60
metrics:
  prometheus_enabled: true
  prometheus_port: ":9100"
sweep:
  interval_seconds: 30
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 20000.0, cfg.Pool.WaterCapacity)
	assert.Equal(t, 12, cfg.Pool.Workers)
	assert.Equal(t, 0.08, cfg.Pricing.WaterPerLiter)
	assert.Equal(t, 60, cfg.Negotiation.SessionTTLMin)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusPort)
	assert.Equal(t, 30, cfg.Sweep.IntervalSeconds)

	// Unset sections fall back to defaults.
	assert.Equal(t, 4, cfg.Pool.WaterMaxConcurrent)
	assert.Equal(t, 1.3, cfg.Negotiation.CompetitiveOpen)
	assert.Equal(t, 2.5, cfg.Pricing.FertilizerPerKg)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{"pool": {"workers": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pool.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ALLOCD_POOL__WORKERS", "5")
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pool.Workers)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "workers = 5"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
