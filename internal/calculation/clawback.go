package calculation

import "math"

// ClawbackParams are the inputs for one year's clawback.
type ClawbackParams struct {
	Age                    int
	CurrentAge             int
	AnnualIncome           float64 // other income plus pass-1 withdrawal, annualized
	EligibleBenefitMonthly float64 // the designated benefit this year
	ThresholdBase          float64 // threshold in current-age dollars
	Rate                   float64
	InflationRate          float64
	Enabled                bool
}

// ComputeClawback returns the monthly reduction of the designated benefit.
// The threshold is indexed from current age; the reduction never exceeds the
// benefit's annual value and never goes negative.
func ComputeClawback(cp ClawbackParams) float64 {
	if !cp.Enabled || cp.EligibleBenefitMonthly <= 0 {
		return 0
	}
	threshold := cp.ThresholdBase * math.Pow(1+cp.InflationRate, float64(cp.Age-cp.CurrentAge))
	return clawbackAgainst(threshold, cp.AnnualIncome, cp.EligibleBenefitMonthly, cp.Rate)
}

func clawbackAgainst(threshold, annualIncome, eligibleMonthly, rate float64) float64 {
	if annualIncome <= threshold {
		return 0
	}
	annual := (annualIncome - threshold) * rate
	annual = math.Min(annual, eligibleMonthly*12)
	return math.Max(0, annual/12)
}

// clawback is the in-loop form of ComputeClawback using the plan's
// precomputed inflation table.
func (p *plan) clawback(age int, annualIncome, eligibleMonthly float64) float64 {
	if !p.clawbackEnabled || eligibleMonthly <= 0 {
		return 0
	}
	threshold := p.clawbackThreshold * p.inflationFactor(age-p.currentAge)
	return clawbackAgainst(threshold, annualIncome, eligibleMonthly, p.clawbackRate)
}
