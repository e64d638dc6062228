package compare

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxScenarios bounds a comparison set, base included.
const MaxScenarios = 10

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description,omitempty"`
	Result       *domain.ScenarioResult `json:"-"`

	// Key Metrics
	RetirementAge       int              `json:"retirementAge"`
	BalanceAtRetirement decimal.Decimal  `json:"balanceAtRetirement"`
	FinalBalance        decimal.Decimal  `json:"finalBalance"`
	PeakBalance         decimal.Decimal  `json:"peakBalance"`
	DepletionAge        int              `json:"depletionAge,omitempty"`
	Longevity           int              `json:"longevity"` // funded retirement years, through MaxAge
	TotalWithdrawals    decimal.Decimal  `json:"totalWithdrawals"`
	TotalPension        decimal.Decimal  `json:"totalPension"`
	TotalClawback       decimal.Decimal  `json:"totalClawback"`
	YearsWithShortfall  int              `json:"yearsWithShortfall"`
	FirstYearWithdrawal decimal.Decimal  `json:"firstYearWithdrawal"`
	SuccessRate         *decimal.Decimal `json:"successRate,omitempty"`

	// Comparison to Base
	FinalBalanceDiff decimal.Decimal  `json:"finalBalanceDiff"`
	FinalBalancePct  decimal.Decimal  `json:"finalBalancePct"`
	LongevityDiff    int              `json:"longevityDiff"`
	ClawbackDiff     decimal.Decimal  `json:"clawbackDiff"`
	SuccessRateDiff  *decimal.Decimal `json:"successRateDiff,omitempty"`
}

// Depleted reports whether the portfolio ran out before MaxAge.
func (r *ComparisonResult) Depleted() bool {
	return r.DepletionAge > 0
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source,omitempty"`
}

// All returns the base followed by the alternatives.
func (cs *ComparisonSet) All() []*ComparisonResult {
	out := make([]*ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, cs.BaseResult)
	}
	for i := range cs.AlternativeResults {
		out = append(out, &cs.AlternativeResults[i])
	}
	return out
}

// MetricsCalculator extracts key metrics from scenario results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario result
func (mc *MetricsCalculator) CalculateMetrics(result *domain.ScenarioResult) ComparisonResult {
	proj := result.Projection
	s := proj.Summary
	metrics := ComparisonResult{
		ScenarioName:        result.Name,
		Result:              result,
		RetirementAge:       proj.RetirementAge,
		BalanceAtRetirement: s.BalanceAtRetirement,
		FinalBalance:        s.FinalBalance,
		PeakBalance:         s.PeakBalance,
		DepletionAge:        s.DepletionAge,
		Longevity:           longevity(proj),
		TotalWithdrawals:    s.TotalWithdrawals,
		TotalPension:        s.TotalPension,
		TotalClawback:       s.TotalClawback,
		YearsWithShortfall:  s.YearsWithShortfall,
		FirstYearWithdrawal: s.FirstYearWithdrawal,
	}

	if result.MonteCarlo != nil {
		rate := result.MonteCarlo.SuccessRate
		metrics.SuccessRate = &rate
	}
	return metrics
}

// longevity counts retirement years with money left, treating a portfolio
// that lasts to MaxAge as funded through MaxAge.
func longevity(proj *domain.Projection) int {
	retired := proj.RetirementRecords()
	if len(retired) == 0 {
		return 0
	}
	first := retired[0].Age
	if proj.Summary.Depleted() {
		return proj.Summary.DepletionAge - first
	}
	return domain.MaxAge - first + 1
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FinalBalanceDiff = scenario.FinalBalance.Sub(base.FinalBalance)

	if !base.FinalBalance.IsZero() {
		scenario.FinalBalancePct = scenario.FinalBalanceDiff.
			Div(base.FinalBalance).
			Mul(decimal.NewFromInt(100))
	}

	scenario.LongevityDiff = scenario.Longevity - base.Longevity
	scenario.ClawbackDiff = scenario.TotalClawback.Sub(base.TotalClawback)

	if scenario.SuccessRate != nil && base.SuccessRate != nil {
		diff := scenario.SuccessRate.Sub(*base.SuccessRate)
		scenario.SuccessRateDiff = &diff
	}

	return scenario
}

// GenerateRecommendations highlights the alternatives that beat the base
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	bestBalance := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalBalance.GreaterThan(bestBalance.FinalBalance) {
			bestBalance = alt
		}
	}
	if bestBalance != base {
		diff := bestBalance.FinalBalance.Sub(base.FinalBalance)
		recommendations = append(recommendations,
			"Largest Estate: "+bestBalance.ScenarioName+" leaves $"+diff.StringFixed(0)+
				" more at age 100 than the base scenario")
	}

	bestLongevity := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Longevity > bestLongevity.Longevity {
			bestLongevity = alt
		}
	}
	if bestLongevity != base {
		recommendations = append(recommendations,
			"Best Longevity: "+bestLongevity.ScenarioName+" extends the portfolio by "+
				fmt.Sprintf("%d years", bestLongevity.Longevity-base.Longevity))
	}

	if base.SuccessRate != nil {
		bestSuccess := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.SuccessRate != nil && alt.SuccessRate.GreaterThan(*bestSuccess.SuccessRate) {
				bestSuccess = alt
			}
		}
		if bestSuccess != base {
			gain := bestSuccess.SuccessRate.Sub(*base.SuccessRate).Mul(decimal.NewFromInt(100))
			recommendations = append(recommendations,
				"Most Robust: "+bestSuccess.ScenarioName+" raises the success rate by "+
					gain.StringFixed(1)+" points")
		}
	}

	lowestClawback := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalClawback.LessThan(lowestClawback.TotalClawback) {
			lowestClawback = alt
		}
	}
	if lowestClawback != base {
		savings := base.TotalClawback.Sub(lowestClawback.TotalClawback)
		recommendations = append(recommendations,
			"Lowest Clawback: "+lowestClawback.ScenarioName+" keeps $"+savings.StringFixed(0)+
				" more of the clawback-eligible benefit")
	}

	return recommendations
}
