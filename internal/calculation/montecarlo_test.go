package calculation

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSampler float64

func (s fixedSampler) Sample(*rand.Rand) float64 { return float64(s) }

func TestMonteCarloConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MonteCarloConfig
		wantErr string
	}{
		{"defaults", DefaultMonteCarloConfig(), ""},
		{"zero trials", MonteCarloConfig{Trials: 0, Volatility: 0.18}, "trial count"},
		{"negative trials", MonteCarloConfig{Trials: -5, Volatility: 0.18}, "trial count"},
		{"zero volatility", MonteCarloConfig{Trials: 10, Volatility: 0}, "volatility"},
		{"negative volatility", MonteCarloConfig{Trials: 10, Volatility: -0.1}, "volatility"},
		{"NaN volatility", MonteCarloConfig{Trials: 10, Volatility: math.NaN()}, "volatility"},
		{"negative workers", MonteCarloConfig{Trials: 10, Volatility: 0.18, Workers: -1}, "worker count"},
		{"custom sampler ignores volatility", MonteCarloConfig{Trials: 10, Sampler: fixedSampler(0.05)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunMonteCarlo_RejectsInvalidConfig(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), retireeInput(), MonteCarloConfig{Trials: 0, Volatility: 0.18})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid monte carlo configuration")

	_, err = RunMonteCarlo(context.Background(), nil, MonteCarloConfig{Trials: 10, Volatility: 0.18, Seed: 1})
	assert.Error(t, err)
}

func TestRunMonteCarlo_ReproducibleAcrossWorkerCounts(t *testing.T) {
	input := accumulatorInput()

	serial, err := RunMonteCarlo(context.Background(), input,
		MonteCarloConfig{Trials: 500, Seed: 12345, Volatility: 0.18, Workers: 1})
	require.NoError(t, err)
	parallel, err := RunMonteCarlo(context.Background(), input,
		MonteCarloConfig{Trials: 500, Seed: 12345, Volatility: 0.18, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)

	other, err := RunMonteCarlo(context.Background(), input,
		MonteCarloConfig{Trials: 500, Seed: 54321, Volatility: 0.18, Workers: 4})
	require.NoError(t, err)
	require.NotEmpty(t, other.Percentiles)
	assert.False(t, serial.Percentiles[0].P50.Equal(other.Percentiles[0].P50), "a different seed draws different returns")
	assert.False(t, serial.BestFinalBalance.Equal(other.BestFinalBalance))
}

func TestRunMonteCarlo_ZeroSeedUsesSeedSource(t *testing.T) {
	restore := SetSeedFunc(func() int64 { return 42 })
	defer restore()

	input := retireeInput()
	auto, err := RunMonteCarlo(context.Background(), input, MonteCarloConfig{Trials: 100, Volatility: 0.18})
	require.NoError(t, err)
	assert.Equal(t, int64(42), auto.Seed)

	explicit, err := RunMonteCarlo(context.Background(), input, MonteCarloConfig{Trials: 100, Seed: 42, Volatility: 0.18})
	require.NoError(t, err)
	assert.Equal(t, explicit, auto)
}

func TestRunMonteCarlo_ConvergesToProjection(t *testing.T) {
	input := retireeInput()
	proj, err := Project(input)
	require.NoError(t, err)

	result, err := RunMonteCarlo(context.Background(), input,
		MonteCarloConfig{Trials: 50, Seed: 3, Volatility: 1e-9})
	require.NoError(t, err)

	assert.True(t, result.SuccessRate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "Excellent", result.Interpretation.Level)
	assert.InDelta(t, proj.Summary.FinalBalance.InexactFloat64(), result.MedianFinalBalance.InexactFloat64(), 1.0)
}

func TestRunTrials_ConstantSamplerMatchesProjection(t *testing.T) {
	input := accumulatorInput()
	proj, err := Project(input)
	require.NoError(t, err)

	trials, err := NewMonteCarloEngine().RunTrials(context.Background(), input,
		MonteCarloConfig{Trials: 3, Seed: 1, Sampler: fixedSampler(0.06)})
	require.NoError(t, err)
	require.Len(t, trials, 3)

	for _, trial := range trials {
		require.Len(t, trial.Balances, len(proj.Records))
		for i, r := range proj.Records {
			assert.InDelta(t, r.BalanceEnd.InexactFloat64(), trial.Balances[i], 0.005, "age %d", r.Age)
		}
	}
}

func TestRunTrials_FailureFlooredAndTracked(t *testing.T) {
	input := retireeInput()
	input.RequiredIncome.Monthly = decimal.NewFromInt(20000)

	trials, err := NewMonteCarloEngine().RunTrials(context.Background(), input,
		MonteCarloConfig{Trials: 20, Seed: 9, Volatility: 0.05})
	require.NoError(t, err)

	for _, trial := range trials {
		require.Len(t, trial.Balances, 36, "uniform series length")
		require.True(t, trial.Failed)
		assert.GreaterOrEqual(t, trial.FailureAge, input.RetirementAge)

		idx := trial.FailureAge - input.CurrentAge
		for _, b := range trial.Balances[idx:] {
			assert.Zero(t, b, "balance stays floored after failure")
		}
		assert.Zero(t, trial.FinalBalance)
	}

	result := Aggregate(trials, input.CurrentAge)
	assert.Equal(t, 20, result.Failures)
	assert.True(t, result.SuccessRate.IsZero())
	assert.Len(t, result.FailureAges, 20)
	assert.Equal(t, "High Risk", result.Interpretation.Level)
}

func TestRunTrials_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMonteCarloEngine().RunTrials(ctx, retireeInput(),
		MonteCarloConfig{Trials: 1000, Seed: 1, Volatility: 0.18})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTrials_Progress(t *testing.T) {
	var calls atomic.Int64
	var mu sync.Mutex
	maxDone := 0

	cfg := MonteCarloConfig{
		Trials:     250,
		Seed:       5,
		Volatility: 0.18,
		Workers:    4,
		Progress: func(done, total int) {
			calls.Add(1)
			mu.Lock()
			defer mu.Unlock()
			maxDone = max(maxDone, done)
			assert.Equal(t, 250, total)
		},
	}

	_, err := NewMonteCarloEngine().RunTrials(context.Background(), retireeInput(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(250), calls.Load())
	assert.Equal(t, 250, maxDone)
}

func TestMonteCarloEngine_LogsSummary(t *testing.T) {
	engine := NewMonteCarloEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	_, err := engine.Run(context.Background(), retireeInput(), MonteCarloConfig{Trials: 10, Seed: 1, Volatility: 0.18})
	require.NoError(t, err)
	assert.Contains(t, logger.messages, "INFO: monte carlo: %d trials, seed %d, success rate %s%%")
}

func TestRunTrials_MoreWorkersThanTrials(t *testing.T) {
	trials, err := NewMonteCarloEngine().RunTrials(context.Background(), retireeInput(),
		MonteCarloConfig{Trials: 3, Seed: 2, Volatility: 0.18, Workers: 16})
	require.NoError(t, err)
	for i, trial := range trials {
		assert.Equal(t, i, trial.Index)
		assert.Len(t, trial.Balances, 36)
	}
}
