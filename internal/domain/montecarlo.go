package domain

import (
	"github.com/shopspring/decimal"
)

// SimulationTrial is the outcome of one Monte Carlo run. Balances holds the
// end-of-year balance for every age from the projection start age to MaxAge.
type SimulationTrial struct {
	Index        int       `json:"index"`
	Balances     []float64 `json:"-"`
	FinalBalance float64   `json:"finalBalance"`
	Failed       bool      `json:"failed"`
	FailureAge   int       `json:"failureAge,omitempty"`
}

// AgePercentiles holds the cross-trial balance distribution at one age.
type AgePercentiles struct {
	Age int             `json:"age"`
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// Interpretation classifies a success rate into a risk band.
type Interpretation struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AggregateResult summarizes a set of Monte Carlo trials.
type AggregateResult struct {
	Trials     int             `json:"trials"`
	Seed       int64           `json:"seed"`
	Volatility decimal.Decimal `json:"volatility"`
	MeanReturn decimal.Decimal `json:"meanReturn"`

	Successes   int             `json:"successes"`
	Failures    int             `json:"failures"`
	SuccessRate decimal.Decimal `json:"successRate"` // fraction of trials, 0..1

	Percentiles    []AgePercentiles `json:"percentiles"`
	FailureAges    []int            `json:"failureAges"`
	MeanFailureAge decimal.Decimal  `json:"meanFailureAge"`

	MedianFinalBalance decimal.Decimal `json:"medianFinalBalance"`
	BestFinalBalance   decimal.Decimal `json:"bestFinalBalance"`
	WorstFinalBalance  decimal.Decimal `json:"worstFinalBalance"`

	Interpretation Interpretation `json:"interpretation"`
}

// SuccessPercent returns the success rate as a percentage.
func (r *AggregateResult) SuccessPercent() decimal.Decimal {
	return r.SuccessRate.Mul(decimal.NewFromInt(100))
}

// ByAge returns the percentile row for age.
func (r *AggregateResult) ByAge(age int) (AgePercentiles, bool) {
	if len(r.Percentiles) == 0 {
		return AgePercentiles{}, false
	}
	idx := age - r.Percentiles[0].Age
	if idx < 0 || idx >= len(r.Percentiles) {
		return AgePercentiles{}, false
	}
	return r.Percentiles[idx], true
}

// HasFailures reports whether any trial depleted the portfolio.
func (r *AggregateResult) HasFailures() bool {
	return len(r.FailureAges) > 0
}

// InterpretSuccessRate maps a success percentage (0-100) to a risk band.
func InterpretSuccessRate(percent float64) Interpretation {
	switch {
	case percent >= 90:
		return Interpretation{Level: "Excellent", Message: "The plan is very robust and likely to succeed even in poor market conditions."}
	case percent >= 80:
		return Interpretation{Level: "Good", Message: "The plan is robust with a high probability of success."}
	case percent >= 70:
		return Interpretation{Level: "Moderate", Message: "The plan has reasonable success; consider reducing expenses or increasing savings."}
	case percent >= 60:
		return Interpretation{Level: "Concerning", Message: "The plan carries significant risk; consider major adjustments."}
	default:
		return Interpretation{Level: "High Risk", Message: "The plan is unlikely to succeed without significant changes."}
	}
}

// ScenarioResult bundles everything computed for one named input.
type ScenarioResult struct {
	Name       string           `json:"name"`
	Input      *InputModel      `json:"input"`
	Projection *Projection      `json:"projection"`
	MonteCarlo *AggregateResult `json:"monteCarlo,omitempty"`
}
