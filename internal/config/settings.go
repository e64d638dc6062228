package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rgehrsitz/nestegg/internal/calculation"
)

// Settings are the application-level options that apply to every scenario.
type Settings struct {
	MonteCarlo MonteCarloSettings `mapstructure:"montecarlo"`
	Log        LogConfig          `mapstructure:"log"`
	Output     OutputSettings     `mapstructure:"output"`
}

type MonteCarloSettings struct {
	Trials     int           `mapstructure:"trials"`
	Volatility float64       `mapstructure:"volatility"`
	Seed       int64         `mapstructure:"seed"`
	Workers    int           `mapstructure:"workers"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type OutputSettings struct {
	Format   string `mapstructure:"format"`
	Currency string `mapstructure:"currency"`
}

// EnvPrefix prefixes environment overrides, e.g. NESTEGG_MONTECARLO_TRIALS.
const EnvPrefix = "NESTEGG"

// LoadSettings reads settings from path, layered over the defaults and under
// NESTEGG_* environment variables. An empty path uses defaults and the
// environment only; a named file that does not exist is an error.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("montecarlo.trials", 10000)
	v.SetDefault("montecarlo.volatility", 0.18)
	v.SetDefault("montecarlo.seed", 0)
	v.SetDefault("montecarlo.workers", 0)
	v.SetDefault("montecarlo.timeout", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("output.format", "console")
	v.SetDefault("output.currency", "CAD")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the engines cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.MonteCarlo.Trials <= 0 {
		errs = append(errs, &ValidationError{Field: "montecarlo.trials", Message: "must be positive"})
	}
	if s.MonteCarlo.Volatility <= 0 {
		errs = append(errs, &ValidationError{Field: "montecarlo.volatility", Message: "must be positive"})
	}
	if s.MonteCarlo.Workers < 0 {
		errs = append(errs, &ValidationError{Field: "montecarlo.workers", Message: "cannot be negative"})
	}
	if s.MonteCarlo.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "montecarlo.timeout", Message: "cannot be negative"})
	}
	return errors.Join(errs...)
}

// RecommendedTrials and RecommendedVolatility bound the values the CLI
// accepts without a warning.
var (
	RecommendedTrials     = [2]int{1000, 50000}
	RecommendedVolatility = [2]float64{0.10, 0.30}
)

// Warnings lists settings outside the recommended ranges. They are advisory.
func (s Settings) Warnings() []string {
	var out []string
	if t := s.MonteCarlo.Trials; t < RecommendedTrials[0] || t > RecommendedTrials[1] {
		out = append(out, fmt.Sprintf("%d trials is outside the recommended range %d-%d",
			t, RecommendedTrials[0], RecommendedTrials[1]))
	}
	if v := s.MonteCarlo.Volatility; v < RecommendedVolatility[0] || v > RecommendedVolatility[1] {
		out = append(out, fmt.Sprintf("volatility %.2f is outside the recommended range %.2f-%.2f",
			v, RecommendedVolatility[0], RecommendedVolatility[1]))
	}
	return out
}

// Simulation converts the Monte Carlo settings into an engine configuration.
func (m MonteCarloSettings) Simulation() calculation.MonteCarloConfig {
	return calculation.MonteCarloConfig{
		Trials:     m.Trials,
		Seed:       m.Seed,
		Volatility: m.Volatility,
		Workers:    m.Workers,
	}
}
