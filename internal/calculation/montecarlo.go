package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTrials is the number of Monte Carlo trials when none is configured.
	DefaultTrials = 10000
	// DefaultVolatility is the annual return standard deviation.
	DefaultVolatility = 0.18
)

// ReturnSampler draws one annual return.
type ReturnSampler interface {
	Sample(rng *rand.Rand) float64
}

// NormalSampler draws independent normally distributed annual returns.
type NormalSampler struct {
	Mean   float64
	StdDev float64
}

// Sample implements ReturnSampler.
func (s NormalSampler) Sample(rng *rand.Rand) float64 {
	return s.Mean + s.StdDev*rng.NormFloat64()
}

// MonteCarloConfig controls a simulation run.
type MonteCarloConfig struct {
	Trials     int     `json:"trials" yaml:"trials"`
	Seed       int64   `json:"seed" yaml:"seed"`             // 0 picks a time-based seed
	Volatility float64 `json:"volatility" yaml:"volatility"` // annual standard deviation
	Workers    int     `json:"workers" yaml:"workers"`       // 0 uses runtime.NumCPU()

	// Sampler overrides the normal sampler built from the input's return rate
	// and Volatility.
	Sampler ReturnSampler `json:"-" yaml:"-"`

	// Progress, when set, is called after each completed trial from worker
	// goroutines; it must be safe for concurrent use.
	Progress func(done, total int) `json:"-" yaml:"-"`
}

// DefaultMonteCarloConfig returns the standard simulation settings.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		Trials:     DefaultTrials,
		Volatility: DefaultVolatility,
	}
}

// Validate rejects configurations that cannot produce a meaningful aggregate.
func (c MonteCarloConfig) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trial count must be positive, got %d", c.Trials)
	}
	if c.Sampler == nil && (math.IsNaN(c.Volatility) || c.Volatility <= 0) {
		return fmt.Errorf("volatility must be positive, got %v", c.Volatility)
	}
	if c.Workers < 0 {
		return fmt.Errorf("worker count cannot be negative, got %d", c.Workers)
	}
	return nil
}

// MonteCarloEngine runs the projection's cash-flow step across many trials
// with sampled returns.
type MonteCarloEngine struct {
	Logger Logger
}

// NewMonteCarloEngine creates an engine with a no-op logger.
func NewMonteCarloEngine() *MonteCarloEngine {
	return &MonteCarloEngine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil restores the no-op logger.
func (e *MonteCarloEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// RunMonteCarlo simulates input with a new engine and aggregates the trials.
func RunMonteCarlo(ctx context.Context, input *domain.InputModel, cfg MonteCarloConfig) (*domain.AggregateResult, error) {
	return NewMonteCarloEngine().Run(ctx, input, cfg)
}

// Run simulates input and aggregates the trials. The effective seed is
// reported so any run can be reproduced.
func (e *MonteCarloEngine) Run(ctx context.Context, input *domain.InputModel, cfg MonteCarloConfig) (*domain.AggregateResult, error) {
	if cfg.Seed == 0 {
		cfg.Seed = seedFunc()
	}
	trials, err := e.RunTrials(ctx, input, cfg)
	if err != nil {
		return nil, err
	}

	result := Aggregate(trials, input.CurrentAge)
	result.Seed = cfg.Seed
	result.Volatility = decimal.NewFromFloat(cfg.Volatility)
	result.MeanReturn = input.ReturnRate
	e.Logger.Infof("monte carlo: %d trials, seed %d, success rate %s%%",
		result.Trials, result.Seed, result.SuccessPercent().StringFixed(1))
	return result, nil
}

// RunTrials executes cfg.Trials independent trials in parallel. Trial i draws
// from a PCG stream seeded with (cfg.Seed, i), so a fixed seed reproduces the
// run exactly regardless of worker count. Cancelling ctx aborts outstanding
// trials and returns ctx.Err().
func (e *MonteCarloEngine) RunTrials(ctx context.Context, input *domain.InputModel, cfg MonteCarloConfig) ([]domain.SimulationTrial, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monte carlo configuration: %w", err)
	}
	p, err := newPlan(input)
	if err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = seedFunc()
	}

	sampler := cfg.Sampler
	if sampler == nil {
		sampler = NormalSampler{Mean: p.returnRate, StdDev: cfg.Volatility}
	}

	n := cfg.Trials
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, n)

	// One buffer for every trial's balance series; trial i owns
	// buf[i*years : (i+1)*years].
	years := p.years
	buf := make([]float64, n*years)
	trials := make([]domain.SimulationTrial, n)

	e.Logger.Debugf("monte carlo: %d trials on %d workers, %d years each", n, workers, years)

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(i)))
				trials[i] = p.runTrial(i, rng, sampler, buf[i*years:(i+1)*years:(i+1)*years])
				if cfg.Progress != nil {
					cfg.Progress(int(done.Add(1)), n)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return trials, nil
}

// runTrial walks one trial from current age to MaxAge, writing the end-of-year
// balance for each age into balances. Failure is the first retirement-phase
// age whose balance is exhausted; the balance stays floored and the trial
// continues so every series has the same length.
func (p *plan) runTrial(index int, rng *rand.Rand, sampler ReturnSampler, balances []float64) domain.SimulationTrial {
	trial := domain.SimulationTrial{Index: index, Balances: balances}
	var st runState
	balance := p.startBalance
	for i := range balances {
		age := p.currentAge + i
		f := p.step(age, balance, sampler.Sample(rng), &st, false)
		balance = f.balanceEnd
		balances[i] = balance
		if f.retired && !trial.Failed && balance <= 0 {
			trial.Failed = true
			trial.FailureAge = age
		}
	}
	trial.FinalBalance = balance
	return trial
}
