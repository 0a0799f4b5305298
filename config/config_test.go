package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault_Validates(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Turkey", cfg.Rule.TrackedCountry)
	assert.Equal(t, 183, cfg.Rule.LimitDays)
	assert.Equal(t, 365, cfg.Rule.WindowDays)
	assert.Equal(t, 12, cfg.Defaults.BufferDays)
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
}

func TestRuleConfig_LimitCannotExceedWindow(t *testing.T) {
	cfg := NewDefault()
	cfg.Rule.LimitDays = 400
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit_days")
}

func TestRuleConfig_RequiresCountries(t *testing.T) {
	cfg := NewDefault()
	cfg.Rule.TrackedCountry = ""
	assert.Error(t, cfg.Validate())
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := NewDefault()
	cfg.App.HTTP.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.App.HTTP.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/test-residence.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  http:
    port: 9090
sqlite:
  path: ${TEST_DB_PATH}
rule:
  tracked_country: Spain
  home_country: France
  window_days: 180
  limit_days: 90
defaults:
  buffer_days: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewDefault()
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, 9090, cfg.App.HTTP.Port)
	assert.Equal(t, "/tmp/test-residence.db", cfg.SQLite.Path)
	assert.Equal(t, "Spain", cfg.Rule.TrackedCountry)
	assert.Equal(t, 90, cfg.Rule.Rule().LimitDays)
	assert.Equal(t, 5, cfg.Defaults.BufferDays)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := NewDefault()
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), cfg))
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rule:
  window_days: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewDefault()
	err := Load(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
