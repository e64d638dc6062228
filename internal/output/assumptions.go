package output

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// Assumptions lists the key modeling assumptions of input, rendered in the
// detailed reports.
func Assumptions(input *domain.InputModel, currency string) []string {
	if input == nil {
		return nil
	}
	in := input.Normalize()

	out := []string{
		fmt.Sprintf("Investment return: %s annually, applied to the year-start balance", FormatPercent(in.ReturnRate, 1)),
		fmt.Sprintf("Inflation: %s annually", FormatPercent(in.InflationRate, 1)),
	}
	if in.RequiredIncome.InflationIndexed {
		out = append(out, "Required income rises with inflation from the current age")
	} else {
		out = append(out, "Required income is fixed in nominal dollars")
	}
	for _, r := range in.RequiredIncome.Reductions {
		if r.Enabled && r.Percent.IsPositive() {
			out = append(out, fmt.Sprintf("Spending drops %s from age %d", FormatPercent(r.Percent, 0), r.Age))
		}
	}
	if in.Clawback.Disabled {
		out = append(out, "Benefit clawback disabled")
	} else if _, ok := in.DesignatedBenefit(); ok {
		out = append(out, fmt.Sprintf("Benefit clawback: %s of income above %s (threshold indexed)",
			FormatPercent(in.Clawback.Rate, 0), FormatWholeMoney(in.Clawback.Threshold, currency)))
	}
	if in.ReinvestSurplus {
		out = append(out, "Income surplus is reinvested into the portfolio")
	}
	out = append(out, fmt.Sprintf("4%% rule baseline shown for comparison only; projection runs to age %d", domain.MaxAge))
	return out
}
