package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/transform"
	"github.com/shopspring/decimal"
)

// maxIncomeSearch caps the doubling search for an upper income bound.
var maxIncomeSearch = decimal.NewFromInt(100_000_000)

// Solver finds the limits of a plan: the most it can spend and the
// earliest it can retire while staying funded to MaxAge.
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// evaluation is the outcome of one candidate input.
type evaluation struct {
	ok         bool
	projection *domain.Projection
	monteCarlo *domain.AggregateResult
}

// search carries the per-solve settings shared by every candidate.
type search struct {
	constraints Constraints
	mc          *calculation.MonteCarloConfig
}

func (s *Solver) newSearch(c Constraints) *search {
	sr := &search{constraints: c}
	if s.Options.MonteCarlo != nil && c.TargetSuccessRate > 0 {
		mc := *s.Options.MonteCarlo
		if mc.Seed == 0 {
			mc.Seed = calculation.NewSeed()
		}
		mc.Progress = nil
		sr.mc = &mc
	}
	return sr
}

// evaluate projects input and checks it against the constraints. A plan is
// sustainable when it never depletes and ends above the required estate.
func (s *Solver) evaluate(ctx context.Context, sr *search, input *domain.InputModel) (evaluation, error) {
	if err := ctx.Err(); err != nil {
		return evaluation{}, err
	}

	proj, err := calculation.Project(input)
	if err != nil {
		return evaluation{}, err
	}
	sum := proj.Summary
	ev := evaluation{
		projection: proj,
		ok: !sum.Depleted() &&
			sum.FinalBalance.IsPositive() &&
			sum.FinalBalance.GreaterThanOrEqual(sr.constraints.MinFinalBalance),
	}
	if !ev.ok || sr.mc == nil {
		return ev, nil
	}

	agg, err := s.CalcEngine.MonteCarlo.Run(ctx, input, *sr.mc)
	if err != nil {
		return evaluation{}, err
	}
	ev.monteCarlo = agg
	ev.ok = agg.SuccessRate.InexactFloat64() >= sr.constraints.TargetSuccessRate
	return ev, nil
}

// MaxSustainableIncome bisects the monthly income requirement (today's
// dollars) for the largest value that keeps the plan sustainable.
func (s *Solver) MaxSustainableIncome(ctx context.Context, base *domain.InputModel, c Constraints) (*SolverResult, error) {
	if base == nil {
		return nil, &SolverError{Operation: "max_income", Message: "base input cannot be nil"}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sr := s.newSearch(c)
	tol := s.Options.Tolerance
	if !tol.IsPositive() {
		tol = DefaultSolverOptions().Tolerance
	}
	maxIter := s.Options.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultSolverOptions().MaxIterations
	}

	result := &SolverResult{
		Target:            TargetIncome,
		BaseMonthlyIncome: base.RequiredIncome.Monthly,
		BaseRetirementAge: base.RetirementAge,
	}

	try := func(income decimal.Decimal) (evaluation, error) {
		result.Iterations++
		input, err := (&transform.SetRequiredIncome{Monthly: income}).Apply(base)
		if err != nil {
			return evaluation{}, err
		}
		ev, err := s.evaluate(ctx, sr, input)
		if err != nil {
			return evaluation{}, wrapSolve("max_income", err)
		}
		return ev, nil
	}

	lo := decimal.Zero
	if c.MinIncome != nil {
		lo = *c.MinIncome
	}
	best, err := try(lo)
	if err != nil {
		return nil, err
	}
	if !best.ok {
		return nil, &SolverError{
			Operation: "max_income",
			Message:   fmt.Sprintf("plan is not sustainable even at $%s/month", lo.StringFixed(2)),
		}
	}

	var hi decimal.Decimal
	if c.MaxIncome != nil {
		hi = *c.MaxIncome
		ev, err := try(hi)
		if err != nil {
			return nil, err
		}
		if ev.ok {
			result.Success = true
			result.ConvergenceInfo = "maximum income constraint is sustainable"
			s.fill(result, hi, base.RetirementAge, ev)
			return result, nil
		}
	} else {
		hi = decimal.Max(base.RequiredIncome.Monthly, decimal.NewFromInt(1000), lo.Mul(decimal.NewFromInt(2)))
		for {
			ev, err := try(hi)
			if err != nil {
				return nil, err
			}
			if !ev.ok {
				break
			}
			lo, best = hi, ev
			hi = hi.Mul(decimal.NewFromInt(2))
			if hi.GreaterThan(maxIncomeSearch) {
				return nil, &SolverError{Operation: "max_income", Message: "no upper bound found for sustainable income"}
			}
		}
	}

	two := decimal.NewFromInt(2)
	for step := 0; step < maxIter && hi.Sub(lo).GreaterThan(tol); step++ {
		mid := lo.Add(hi).Div(two).Round(2)
		ev, err := try(mid)
		if err != nil {
			return nil, err
		}
		if ev.ok {
			lo, best = mid, ev
		} else {
			hi = mid
		}
	}

	result.Success = hi.Sub(lo).LessThanOrEqual(tol)
	if result.Success {
		result.ConvergenceInfo = fmt.Sprintf("Bisection converged within $%s/month", tol.StringFixed(2))
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", maxIter)
	}
	s.fill(result, lo, base.RetirementAge, best)
	return result, nil
}

// EarliestRetirementAge scans retirement ages upward and returns the first
// sustainable one. Contributions continue through the year before retirement.
func (s *Solver) EarliestRetirementAge(ctx context.Context, base *domain.InputModel, c Constraints) (*SolverResult, error) {
	if base == nil {
		return nil, &SolverError{Operation: "earliest_retirement", Message: "base input cannot be nil"}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sr := s.newSearch(c)

	from := base.CurrentAge
	if c.MinRetirementAge != nil {
		from = max(from, *c.MinRetirementAge)
	}
	to := domain.MaxAge
	if c.MaxRetirementAge != nil {
		to = *c.MaxRetirementAge
	}

	result := &SolverResult{
		Target:            TargetRetirementAge,
		BaseMonthlyIncome: base.RequiredIncome.Monthly,
		BaseRetirementAge: base.RetirementAge,
	}

	for age := from; age <= to; age++ {
		result.Iterations++
		input, err := (&transform.SetRetirementAge{Age: age, AlignContributions: true}).Apply(base)
		if err != nil {
			return nil, wrapSolve("earliest_retirement", err)
		}
		ev, err := s.evaluate(ctx, sr, input)
		if err != nil {
			return nil, wrapSolve("earliest_retirement", err)
		}
		if ev.ok {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("first sustainable age after %d candidates", result.Iterations)
			s.fill(result, base.RequiredIncome.Monthly, age, ev)
			return result, nil
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("no sustainable retirement age between %d and %d", from, to)
	return result, nil
}

// Solve runs one target, or both for TargetAll.
func (s *Solver) Solve(ctx context.Context, base *domain.InputModel, c Constraints, target OptimizationTarget) (*MultiResult, error) {
	var targets []OptimizationTarget
	switch target {
	case TargetIncome, TargetRetirementAge:
		targets = []OptimizationTarget{target}
	case TargetAll, "":
		targets = []OptimizationTarget{TargetIncome, TargetRetirementAge}
	default:
		return nil, &SolverError{Operation: "solve", Message: fmt.Sprintf("unsupported target: %s", target)}
	}

	out := &MultiResult{}
	for _, t := range targets {
		var (
			res *SolverResult
			err error
		)
		if t == TargetIncome {
			res, err = s.MaxSustainableIncome(ctx, base, c)
		} else {
			res, err = s.EarliestRetirementAge(ctx, base, c)
		}
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, *res)
	}
	out.Recommendations = recommendations(out.Results)
	return out, nil
}

func (s *Solver) fill(r *SolverResult, income decimal.Decimal, age int, ev evaluation) {
	switch r.Target {
	case TargetIncome:
		r.MonthlyIncome = &income
		r.IncomeDiffFromBase = income.Sub(r.BaseMonthlyIncome)
	case TargetRetirementAge:
		r.RetirementAge = &age
		r.YearsDiffFromBase = age - r.BaseRetirementAge
	}
	r.Projection = ev.projection
	r.MonteCarlo = ev.monteCarlo
	if ev.projection != nil {
		r.FinalBalance = ev.projection.Summary.FinalBalance
	}
	if ev.monteCarlo != nil {
		rate := ev.monteCarlo.SuccessRate
		r.SuccessRate = &rate
	}
}

func recommendations(results []SolverResult) []string {
	var recs []string
	for _, r := range results {
		switch {
		case r.Target == TargetIncome && r.MonthlyIncome != nil:
			if r.IncomeDiffFromBase.IsNegative() {
				recs = append(recs, fmt.Sprintf("Reduce spending to $%s/month to stay funded to age %d",
					r.MonthlyIncome.StringFixed(0), domain.MaxAge))
			} else {
				recs = append(recs, fmt.Sprintf("You could spend up to $%s/month ($%s more than planned)",
					r.MonthlyIncome.StringFixed(0), r.IncomeDiffFromBase.StringFixed(0)))
			}
		case r.Target == TargetRetirementAge && r.RetirementAge != nil:
			switch {
			case r.YearsDiffFromBase > 0:
				recs = append(recs, fmt.Sprintf("Retire at %d or later (%d years after the plan)", *r.RetirementAge, r.YearsDiffFromBase))
			case r.YearsDiffFromBase < 0:
				recs = append(recs, fmt.Sprintf("Retiring as early as %d keeps the plan funded", *r.RetirementAge))
			default:
				recs = append(recs, fmt.Sprintf("The planned retirement age %d is the earliest sustainable one", *r.RetirementAge))
			}
		case r.Target == TargetRetirementAge:
			recs = append(recs, "No retirement age keeps this spending level funded; reduce spending first")
		}
	}
	return recs
}

func wrapSolve(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &SolverError{Operation: op, Message: "evaluation failed", Cause: err}
}
