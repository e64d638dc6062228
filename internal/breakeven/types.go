package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	TargetIncome        OptimizationTarget = "income"         // maximum sustainable monthly income
	TargetRetirementAge OptimizationTarget = "retirement_age" // earliest sustainable retirement age
	TargetAll           OptimizationTarget = "all"
)

// ParseTarget maps a CLI name to a target.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch OptimizationTarget(s) {
	case TargetIncome, TargetRetirementAge, TargetAll:
		return OptimizationTarget(s), nil
	case "":
		return TargetAll, nil
	}
	return "", &SolverError{Operation: "parse_target", Message: fmt.Sprintf("unknown target %q", s)}
}

// Constraints define bounds for the search
type Constraints struct {
	// Monthly income search range (today's dollars)
	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`

	// Retirement age search range
	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// MinFinalBalance is the estate the plan must still hold at MaxAge.
	MinFinalBalance decimal.Decimal `json:"min_final_balance"`

	// TargetSuccessRate, when positive and the solver has a Monte Carlo
	// configuration, additionally requires this simulated success fraction.
	TargetSuccessRate float64 `json:"target_success_rate,omitempty"`
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinIncome != nil && c.MinIncome.IsNegative() {
		return &SolverError{Operation: "validate_constraints", Message: "min_income cannot be negative"}
	}
	if c.MinIncome != nil && c.MaxIncome != nil && c.MinIncome.GreaterThan(*c.MaxIncome) {
		return &SolverError{Operation: "validate_constraints", Message: "min_income cannot be greater than max_income"}
	}

	if c.MinRetirementAge != nil && (*c.MinRetirementAge < 0 || *c.MinRetirementAge > domain.MaxAge) {
		return &SolverError{Operation: "validate_constraints", Message: fmt.Sprintf("min_retirement_age must be between 0 and %d", domain.MaxAge)}
	}
	if c.MaxRetirementAge != nil && (*c.MaxRetirementAge < 0 || *c.MaxRetirementAge > domain.MaxAge) {
		return &SolverError{Operation: "validate_constraints", Message: fmt.Sprintf("max_retirement_age must be between 0 and %d", domain.MaxAge)}
	}
	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MinRetirementAge > *c.MaxRetirementAge {
		return &SolverError{Operation: "validate_constraints", Message: "min_retirement_age cannot be greater than max_retirement_age"}
	}

	if c.MinFinalBalance.IsNegative() {
		return &SolverError{Operation: "validate_constraints", Message: "min_final_balance cannot be negative"}
	}
	if c.TargetSuccessRate < 0 || c.TargetSuccessRate > 1 {
		return &SolverError{Operation: "validate_constraints", Message: "target_success_rate must be between 0 and 1"}
	}
	return nil
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Income convergence tolerance, monthly dollars
	MaxIterations int             // Maximum bisection steps

	// MonteCarlo enables the success-rate criterion. A zero seed is fixed
	// once per solve so every candidate sees the same return sequences.
	MonteCarlo *calculation.MonteCarloConfig
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // $1/month
		MaxIterations: 60,
	}
}

// SolverResult contains the outcome of one solve
type SolverResult struct {
	Target          OptimizationTarget `json:"target"`
	Success         bool               `json:"success"`
	Iterations      int                `json:"iterations"`
	ConvergenceInfo string             `json:"convergence_info"`

	// Solved parameter
	MonthlyIncome *decimal.Decimal `json:"monthly_income,omitempty"`
	RetirementAge *int             `json:"retirement_age,omitempty"`

	// Results at the solved parameter
	Projection   *domain.Projection      `json:"-"`
	MonteCarlo   *domain.AggregateResult `json:"-"`
	FinalBalance decimal.Decimal         `json:"final_balance"`
	SuccessRate  *decimal.Decimal        `json:"success_rate,omitempty"`

	// Comparison to base
	BaseMonthlyIncome  decimal.Decimal `json:"base_monthly_income"`
	BaseRetirementAge  int             `json:"base_retirement_age"`
	IncomeDiffFromBase decimal.Decimal `json:"income_diff_from_base"`
	YearsDiffFromBase  int             `json:"years_diff_from_base"`
}

// MultiResult contains results when solving for every target
type MultiResult struct {
	Results         []SolverResult `json:"results"`
	Recommendations []string       `json:"recommendations"`
}

// SolverError represents errors from the solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
