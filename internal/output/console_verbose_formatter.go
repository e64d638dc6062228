package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// ConsoleFormatter renders the headline figures only.
type ConsoleFormatter struct {
	Currency string
}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT PROJECTION SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	writeSummary(&buf, result, c.Currency)
	if result.MonteCarlo != nil {
		fmt.Fprintln(&buf)
		writeMonteCarloSummary(&buf, result.MonteCarlo, c.Currency)
	}
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter renders the assumptions, summary, the year-by-year
// projection and, when present, the Monte Carlo distribution.
type ConsoleVerboseFormatter struct {
	Currency string
}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf, "DETAILED RETIREMENT PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf)

	if assumptions := Assumptions(result.Input, c.Currency); len(assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	writeSummary(&buf, result, c.Currency)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "YEAR-BY-YEAR PROJECTION (monthly figures in nominal dollars)")
	fmt.Fprintln(&buf, strings.Repeat("-", 100))
	fmt.Fprintf(&buf, "%-4s %-5s %14s %11s %11s %11s %10s %11s %14s\n",
		"Age", "Phase", "Start", "Required", "Pension", "Withdrawal", "Clawback", "Shortfall", "End")
	fmt.Fprintln(&buf, strings.Repeat("-", 100))
	for i := range result.Projection.Records {
		r := &result.Projection.Records[i]
		phase := "work"
		if r.IsRetired() {
			phase = "ret"
		}
		fmt.Fprintf(&buf, "%-4d %-5s %14s %11s %11s %11s %10s %11s %14s\n",
			r.Age, phase,
			FormatWholeMoney(r.BalanceStart, c.Currency),
			FormatWholeMoney(r.RequiredIncome, c.Currency),
			FormatWholeMoney(r.MonthlyPension, c.Currency),
			FormatWholeMoney(r.Withdrawal, c.Currency),
			FormatWholeMoney(r.Clawback, c.Currency),
			FormatWholeMoney(r.MonthlyShortfall, c.Currency),
			FormatWholeMoney(r.BalanceEnd, c.Currency))
	}
	fmt.Fprintln(&buf)

	if mc := result.MonteCarlo; mc != nil {
		writeMonteCarloSummary(&buf, mc, c.Currency)
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "BALANCE PERCENTILES BY AGE (every 5 years)")
		fmt.Fprintln(&buf, strings.Repeat("-", 80))
		fmt.Fprintf(&buf, "%-4s %14s %14s %14s %14s %14s\n", "Age", "P10", "P25", "Median", "P75", "P90")
		for _, p := range mc.Percentiles {
			if p.Age%5 != 0 && p.Age != domain.MaxAge {
				continue
			}
			fmt.Fprintf(&buf, "%-4d %14s %14s %14s %14s %14s\n", p.Age,
				FormatWholeMoney(p.P10, c.Currency), FormatWholeMoney(p.P25, c.Currency),
				FormatWholeMoney(p.P50, c.Currency), FormatWholeMoney(p.P75, c.Currency),
				FormatWholeMoney(p.P90, c.Currency))
		}
	}
	return buf.Bytes(), nil
}

func writeSummary(w io.Writer, result *domain.ScenarioResult, currency string) {
	p := result.Projection
	s := p.Summary

	fmt.Fprintf(w, "Scenario:               %s\n", scenarioName(result))
	fmt.Fprintf(w, "Ages:                   %d to %d, retiring at %d\n", p.StartAge, domain.MaxAge, p.RetirementAge)
	fmt.Fprintf(w, "Balance at Retirement:  %s\n", FormatMoney(s.BalanceAtRetirement, currency))
	fmt.Fprintf(w, "Peak Balance:           %s\n", FormatMoney(s.PeakBalance, currency))
	fmt.Fprintf(w, "Balance at %d:         %s\n", domain.MaxAge, FormatMoney(s.FinalBalance, currency))
	if s.Depleted() {
		fmt.Fprintf(w, "Portfolio Depleted:     age %d\n", s.DepletionAge)
	} else {
		fmt.Fprintf(w, "Portfolio Depleted:     never\n")
	}
	fmt.Fprintf(w, "First-Year Withdrawal:  %s/month\n", FormatMoney(s.FirstYearWithdrawal, currency))
	fmt.Fprintf(w, "4%% Rule Baseline:       %s/year\n", FormatMoney(s.FourPercentBaseline, currency))
	fmt.Fprintf(w, "Total Withdrawals:      %s\n", FormatMoney(s.TotalWithdrawals, currency))
	fmt.Fprintf(w, "Total Pension Income:   %s\n", FormatMoney(s.TotalPension, currency))
	if s.TotalClawback.IsPositive() {
		fmt.Fprintf(w, "Total Clawback:         %s\n", FormatMoney(s.TotalClawback, currency))
	}
	if s.YearsWithShortfall > 0 {
		fmt.Fprintf(w, "Years with Shortfall:   %d\n", s.YearsWithShortfall)
	}
}

func writeMonteCarloSummary(w io.Writer, mc *domain.AggregateResult, currency string) {
	fmt.Fprintf(w, "MONTE CARLO (%d trials, %s volatility, seed %d)\n",
		mc.Trials, FormatPercent(mc.Volatility, 0), mc.Seed)
	fmt.Fprintf(w, "Success Rate:           %s (%s)\n", FormatPercent(mc.SuccessRate, 1), mc.Interpretation.Level)
	fmt.Fprintf(w, "                        %s\n", mc.Interpretation.Message)
	fmt.Fprintf(w, "Median Balance at %d:  %s\n", domain.MaxAge, FormatMoney(mc.MedianFinalBalance, currency))
	fmt.Fprintf(w, "Best / Worst at %d:    %s / %s\n", domain.MaxAge,
		FormatMoney(mc.BestFinalBalance, currency), FormatMoney(mc.WorstFinalBalance, currency))
	if mc.HasFailures() {
		fmt.Fprintf(w, "Mean Failure Age:       %s\n", mc.MeanFailureAge.StringFixed(1))
	}
}
