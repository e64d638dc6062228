package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/output"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct {
	Currency string
}

// Format renders a single solve.
func (tf *TableFormatter) Format(result *SolverResult) string {
	var sb strings.Builder

	sb.WriteString("SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	tf.writeResult(&sb, result)
	return sb.String()
}

// FormatMulti renders every solve followed by the recommendations.
func (tf *TableFormatter) FormatMulti(result *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for i := range result.Results {
		tf.writeResult(&sb, &result.Results[i])
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (tf *TableFormatter) writeResult(sb *strings.Builder, r *SolverResult) {
	sb.WriteString(fmt.Sprintf("Target:        %s\n", targetLabel(r.Target)))
	sb.WriteString(fmt.Sprintf("Status:        %s\n", tf.formatStatus(r.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:    %d\n", r.Iterations))
	if r.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:   %s\n", r.ConvergenceInfo))
	}
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	switch {
	case r.MonthlyIncome != nil:
		sb.WriteString(fmt.Sprintf("Monthly Income:  %s (plan: %s, %s)\n",
			output.FormatMoney(*r.MonthlyIncome, tf.Currency),
			output.FormatMoney(r.BaseMonthlyIncome, tf.Currency),
			output.FormatSignedMoney(r.IncomeDiffFromBase, tf.Currency)))
	case r.RetirementAge != nil:
		sb.WriteString(fmt.Sprintf("Retirement Age:  %d (plan: %d, %+d years)\n",
			*r.RetirementAge, r.BaseRetirementAge, r.YearsDiffFromBase))
	default:
		sb.WriteString("No sustainable value found\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("Balance at %d:  %s\n", domain.MaxAge, output.FormatMoney(r.FinalBalance, tf.Currency)))
	if r.SuccessRate != nil {
		sb.WriteString(fmt.Sprintf("Success Rate:    %s\n", output.FormatPercent(*r.SuccessRate, 1)))
	}
	sb.WriteString("\n")
}

func targetLabel(t OptimizationTarget) string {
	switch t {
	case TargetIncome:
		return "Maximum sustainable monthly income"
	case TargetRetirementAge:
		return "Earliest sustainable retirement age"
	}
	return string(t)
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for a single solve.
func (jf *JSONFormatter) Format(result *SolverResult) (string, error) {
	return jf.marshal(result)
}

// FormatMulti generates JSON output for every solve.
func (jf *JSONFormatter) FormatMulti(result *MultiResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
