package output

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names written by XLSXFormatter.
const (
	SheetSummary    = "Summary"
	SheetProjection = "Projection"
	SheetMonteCarlo = "Monte Carlo"
)

// XLSXFormatter writes a workbook with summary, projection and (when
// simulated) Monte Carlo percentile sheets. Money cells are numeric.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, result, headerStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetProjection); err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(result.Projection.Records))
	for i := range result.Projection.Records {
		rows = append(rows, projectionCells(&result.Projection.Records[i]))
	}
	if err := writeTable(f, SheetProjection, projectionHeader, rows, headerStyle, moneyStyle); err != nil {
		return nil, err
	}

	if mc := result.MonteCarlo; mc != nil {
		if _, err := f.NewSheet(SheetMonteCarlo); err != nil {
			return nil, err
		}
		rows := make([][]any, 0, len(mc.Percentiles))
		for _, p := range mc.Percentiles {
			rows = append(rows, []any{p.Age,
				p.P10.InexactFloat64(), p.P25.InexactFloat64(), p.P50.InexactFloat64(),
				p.P75.InexactFloat64(), p.P90.InexactFloat64()})
		}
		if err := writeTable(f, SheetMonteCarlo, percentileHeader, rows, headerStyle, moneyStyle); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, result *domain.ScenarioResult, headerStyle int) error {
	s := result.Projection.Summary
	data := [][]any{
		{"Metric", "Value"},
		{"Scenario", scenarioName(result)},
		{"Retirement Age", result.Projection.RetirementAge},
		{"Balance at Retirement", s.BalanceAtRetirement.InexactFloat64()},
		{"Peak Balance", s.PeakBalance.InexactFloat64()},
		{fmt.Sprintf("Balance at %d", domain.MaxAge), s.FinalBalance.InexactFloat64()},
		{"Depletion Age", s.DepletionAge},
		{"Total Withdrawals", s.TotalWithdrawals.InexactFloat64()},
		{"Total Pension", s.TotalPension.InexactFloat64()},
		{"Total Clawback", s.TotalClawback.InexactFloat64()},
		{"4% Rule Baseline", s.FourPercentBaseline.InexactFloat64()},
	}
	if mc := result.MonteCarlo; mc != nil {
		data = append(data,
			[]any{"Trials", mc.Trials},
			[]any{"Success Rate", mc.SuccessRate.InexactFloat64()},
			[]any{"Risk Level", mc.Interpretation.Level},
			[]any{"Median Final Balance", mc.MedianFinalBalance.InexactFloat64()},
		)
	}
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(SheetSummary, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 24)
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle, moneyStyle int) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(2, 2)
		last, _ := excelize.CoordinatesToCellName(len(header), len(rows)+1)
		if err := f.SetCellStyle(sheet, first, last, moneyStyle); err != nil {
			return err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", last, 16)
}

// projectionCells mirrors projectionHeader with numeric money cells.
func projectionCells(r *domain.YearRecord) []any {
	return []any{
		r.Age,
		string(r.Phase),
		r.BalanceStart.InexactFloat64(),
		r.LumpSum.InexactFloat64(),
		r.LumpSumWithdrawal.InexactFloat64(),
		r.MonthlyContribution.InexactFloat64(),
		r.YearlyReturn.InexactFloat64(),
		r.RequiredIncome.InexactFloat64(),
		r.PartTimeIncome.InexactFloat64(),
		r.MonthlyPension.InexactFloat64(),
		r.Withdrawal.InexactFloat64(),
		r.WithdrawalPass2.InexactFloat64(),
		r.Clawback.InexactFloat64(),
		r.TotalMonthlyIncome.InexactFloat64(),
		r.MonthlyShortfall.InexactFloat64(),
		r.MonthlySurplus.InexactFloat64(),
		r.SurplusReinvested.InexactFloat64(),
		r.IncomeTodaysDollars.InexactFloat64(),
		r.FourPercentAmount.InexactFloat64(),
		r.PercentOverFourPercent.InexactFloat64(),
		r.BalanceEnd.InexactFloat64(),
	}
}
