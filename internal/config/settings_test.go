package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, 10000, s.MonteCarlo.Trials)
	assert.InDelta(t, 0.18, s.MonteCarlo.Volatility, 1e-12)
	assert.Zero(t, s.MonteCarlo.Seed)
	assert.Equal(t, 5*time.Minute, s.MonteCarlo.Timeout)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Log.Encoding)
	assert.Equal(t, "console", s.Output.Format)
	assert.Equal(t, "CAD", s.Output.Currency)
	assert.Empty(t, s.Warnings())
}

func TestLoadSettings_File(t *testing.T) {
	s, err := LoadSettings(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2000, s.MonteCarlo.Trials)
	assert.InDelta(t, 0.15, s.MonteCarlo.Volatility, 1e-12)
	assert.Equal(t, int64(42), s.MonteCarlo.Seed)
	assert.Equal(t, 30*time.Second, s.MonteCarlo.Timeout)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "markdown", s.Output.Format)
	assert.Equal(t, "CAD", s.Output.Currency, "unset keys keep defaults")
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("NESTEGG_MONTECARLO_TRIALS", "500")
	t.Setenv("NESTEGG_OUTPUT_CURRENCY", "USD")

	s, err := LoadSettings(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 500, s.MonteCarlo.Trials)
	assert.Equal(t, "USD", s.Output.Currency)
	assert.Len(t, s.Warnings(), 1)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("montecarlo:\n  trials: -1\n  volatility: 0\n"), 0o644))
	_, err = LoadSettings(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "montecarlo.trials")
	assert.Contains(t, err.Error(), "montecarlo.volatility")
}

func TestSettings_Warnings(t *testing.T) {
	s := Settings{MonteCarlo: MonteCarloSettings{Trials: 100000, Volatility: 0.05}}
	warnings := s.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "100000 trials")
	assert.Contains(t, warnings[1], "volatility 0.05")
}

func TestMonteCarloSettings_Simulation(t *testing.T) {
	s, err := LoadSettings(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)

	cfg := s.MonteCarlo.Simulation()
	assert.Equal(t, 2000, cfg.Trials)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.InDelta(t, 0.15, cfg.Volatility, 1e-12)
	assert.NoError(t, cfg.Validate())
}
