package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// CalculationEngine runs projections and simulations for named scenarios.
type CalculationEngine struct {
	MonteCarlo *MonteCarloEngine
	Logger     Logger
	Debug      bool // log per-year detail
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		MonteCarlo: NewMonteCarloEngine(),
		Logger:     NopLogger{},
	}
}

// SetLogger sets the logger for the engine and its simulator; nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.MonteCarlo.SetLogger(l)
}

// RunProjection runs the deterministic projection for input.
func (ce *CalculationEngine) RunProjection(ctx context.Context, input *domain.InputModel) (*domain.Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proj, err := Project(input)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	if ce.Debug {
		for _, r := range proj.Records {
			ce.Logger.Debugf("age %d [%s]: start %s, withdrawal %s/mo, clawback %s/mo, end %s",
				r.Age, r.Phase, r.BalanceStart.StringFixed(2), r.Withdrawal.StringFixed(2),
				r.Clawback.StringFixed(2), r.BalanceEnd.StringFixed(2))
		}
	}
	if proj.Summary.Depleted() {
		ce.Logger.Warnf("portfolio depleted at age %d", proj.Summary.DepletionAge)
	}
	return proj, nil
}

// RunMonteCarlo simulates input with the engine's simulator.
func (ce *CalculationEngine) RunMonteCarlo(ctx context.Context, input *domain.InputModel, cfg MonteCarloConfig) (*domain.AggregateResult, error) {
	return ce.MonteCarlo.Run(ctx, input, cfg)
}

// RunScenario projects input and, when mc is non-nil, simulates it too.
func (ce *CalculationEngine) RunScenario(ctx context.Context, name string, input *domain.InputModel, mc *MonteCarloConfig) (*domain.ScenarioResult, error) {
	proj, err := ce.RunProjection(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}
	result := &domain.ScenarioResult{
		Name:       name,
		Input:      input,
		Projection: proj,
	}
	if mc != nil {
		agg, err := ce.RunMonteCarlo(ctx, input, *mc)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		result.MonteCarlo = agg
	}
	return result, nil
}
