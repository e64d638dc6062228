package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Balance At Retirement",
		"Final Balance",
		"Depletion Age",
		"Longevity (Years)",
		"Total Withdrawals",
		"Total Pension",
		"Total Clawback",
		"Success Rate",
		"Final Balance Diff",
		"Final Balance % Change",
		"Longevity Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	depletion := ""
	if result.Depleted() {
		depletion = strconv.Itoa(result.DepletionAge)
	}
	success := ""
	if result.SuccessRate != nil {
		success = result.SuccessRate.StringFixed(4)
	}

	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		result.BalanceAtRetirement.StringFixed(2),
		result.FinalBalance.StringFixed(2),
		depletion,
		strconv.Itoa(result.Longevity),
		result.TotalWithdrawals.StringFixed(2),
		result.TotalPension.StringFixed(2),
		result.TotalClawback.StringFixed(2),
		success,
		result.FinalBalanceDiff.StringFixed(2),
		result.FinalBalancePct.StringFixed(2),
		strconv.Itoa(result.LongevityDiff),
	}
}
