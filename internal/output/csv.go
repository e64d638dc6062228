package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// CSVFormatter writes one row per projected year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

var projectionHeader = []string{
	"Age", "Phase", "BalanceStart", "LumpSum", "LumpSumWithdrawal", "MonthlyContribution",
	"YearlyReturn", "RequiredIncome", "PartTimeIncome", "MonthlyPension", "Withdrawal",
	"WithdrawalPass2", "Clawback", "TotalMonthlyIncome", "MonthlyShortfall", "MonthlySurplus",
	"SurplusReinvested", "IncomeTodaysDollars", "FourPercentAmount", "PercentOverFourPercent", "BalanceEnd",
}

func projectionRow(r *domain.YearRecord) []string {
	return []string{
		strconv.Itoa(r.Age),
		string(r.Phase),
		r.BalanceStart.StringFixed(2),
		r.LumpSum.StringFixed(2),
		r.LumpSumWithdrawal.StringFixed(2),
		r.MonthlyContribution.StringFixed(2),
		r.YearlyReturn.StringFixed(2),
		r.RequiredIncome.StringFixed(2),
		r.PartTimeIncome.StringFixed(2),
		r.MonthlyPension.StringFixed(2),
		r.Withdrawal.StringFixed(2),
		r.WithdrawalPass2.StringFixed(2),
		r.Clawback.StringFixed(2),
		r.TotalMonthlyIncome.StringFixed(2),
		r.MonthlyShortfall.StringFixed(2),
		r.MonthlySurplus.StringFixed(2),
		r.SurplusReinvested.StringFixed(2),
		r.IncomeTodaysDollars.StringFixed(2),
		r.FourPercentAmount.StringFixed(2),
		r.PercentOverFourPercent.StringFixed(2),
		r.BalanceEnd.StringFixed(2),
	}
}

func (c CSVFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(projectionHeader); err != nil {
		return nil, err
	}
	for i := range result.Projection.Records {
		if err := w.Write(projectionRow(&result.Projection.Records[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// PercentilesCSVFormatter writes the Monte Carlo balance percentiles, one
// row per age.
type PercentilesCSVFormatter struct{}

func (c PercentilesCSVFormatter) Name() string { return "percentiles-csv" }

var percentileHeader = []string{"Age", "P10", "P25", "P50", "P75", "P90"}

func percentileRow(p domain.AgePercentiles) []string {
	return []string{
		strconv.Itoa(p.Age),
		p.P10.StringFixed(2),
		p.P25.StringFixed(2),
		p.P50.StringFixed(2),
		p.P75.StringFixed(2),
		p.P90.StringFixed(2),
	}
}

func (c PercentilesCSVFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(percentileHeader); err != nil {
		return nil, err
	}
	if result != nil && result.MonteCarlo != nil {
		for _, p := range result.MonteCarlo.Percentiles {
			if err := w.Write(percentileRow(p)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// JSONFormatter writes the full scenario result.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
