package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	Currency string
}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n", compSet.Source))
	}
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "At Retirement",
		numWidth, "At Age 100",
		numWidth, "Funded Until",
		numWidth, "Success"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Balance at 100:   %s (%s%%)\n",
				output.FormatSignedMoney(alt.FinalBalanceDiff, tf.Currency),
				alt.FinalBalancePct.StringFixed(1)))

			if alt.LongevityDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Longevity:        %+d years\n", alt.LongevityDiff))
			}

			if !alt.ClawbackDiff.IsZero() {
				sb.WriteString(fmt.Sprintf("  Clawback:         %s\n",
					output.FormatSignedMoney(alt.ClawbackDiff, tf.Currency)))
			}

			if alt.SuccessRateDiff != nil {
				sb.WriteString(fmt.Sprintf("  Success Rate:     %s points\n",
					tf.signed(alt.SuccessRateDiff.Mul(decimal.NewFromInt(100)))))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	funded := "100+"
	if result.Depleted() {
		funded = fmt.Sprintf("age %d", result.DepletionAge)
	}

	success := "-"
	if result.SuccessRate != nil {
		success = output.FormatPercent(*result.SuccessRate, 1)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+output.FormatCompact(result.BalanceAtRetirement),
		numWidth, "$"+output.FormatCompact(result.FinalBalance),
		numWidth, funded,
		numWidth, success)
}

func (tf *TableFormatter) signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(1)
	}
	return d.StringFixed(1)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.FinalBalanceDiff.IsPositive() {
			change = "+$" + output.FormatCompact(alt.FinalBalanceDiff)
		} else if alt.FinalBalanceDiff.IsNegative() {
			change = "-$" + output.FormatCompact(alt.FinalBalanceDiff.Abs())
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
