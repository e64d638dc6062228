// Package tuimsg defines the messages exchanged between the root model and
// its scenes.
package tuimsg

import (
	"github.com/rgehrsitz/nestegg/internal/breakeven"
	"github.com/rgehrsitz/nestegg/internal/compare"
	"github.com/rgehrsitz/nestegg/internal/domain"
)

// InputLoadedMsg carries the plan read from disk.
type InputLoadedMsg struct {
	Path  string
	Name  string
	Input *domain.InputModel
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// RecalculateMsg asks the root model to project an edited plan.
type RecalculateMsg struct {
	Input   *domain.InputModel
	Changes []string // human-readable edits, for the status bar
}

// ResetInputMsg restores the plan as loaded.
type ResetInputMsg struct{}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Result *domain.ScenarioResult
	Err    error
}

// SimulationStartedMsg asks the root model to run Monte Carlo on the
// current plan.
type SimulationStartedMsg struct {
	Trials int
	Seed   int64 // 0 picks a fresh seed
}

// SimulationProgressMsg reports completed trials while a simulation runs.
type SimulationProgressMsg struct {
	Done  int
	Total int
}

// SimulationCancelMsg aborts a running simulation.
type SimulationCancelMsg struct{}

// SimulationCompleteMsg signals a simulation has finished
type SimulationCompleteMsg struct {
	Result *domain.AggregateResult
	Err    error
}

// ComparisonStartedMsg asks for the current plan to be compared with the
// named templates.
type ComparisonStartedMsg struct {
	Templates []string
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// SolveStartedMsg asks the solver to optimize the current plan.
type SolveStartedMsg struct {
	Target      breakeven.OptimizationTarget
	Constraints breakeven.Constraints
}

// SolveCompleteMsg signals the solver has finished
type SolveCompleteMsg struct {
	Result *breakeven.MultiResult
	Err    error
}

// ApplySolutionMsg replaces the working plan's income or retirement age with
// a solver result.
type ApplySolutionMsg struct {
	Result breakeven.SolverResult
}

// SaveScenarioMsg signals a request to save the edited plan
type SaveScenarioMsg struct{}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}
