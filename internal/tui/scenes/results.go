package scenes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// ResultsModel shows the deterministic projection: headline cards, a balance
// chart and a scrollable year-by-year table.
type ResultsModel struct {
	result    *domain.ScenarioResult
	table     table.Model
	showChart bool
	width     int
	height    int
}

var resultColumns = []table.Column{
	{Title: "Age", Width: 4},
	{Title: "Phase", Width: 5},
	{Title: "Start", Width: 11},
	{Title: "Return", Width: 10},
	{Title: "Lump", Width: 9},
	{Title: "Need/mo", Width: 8},
	{Title: "Pension/mo", Width: 10},
	{Title: "Draw/mo", Width: 8},
	{Title: "Clawback", Width: 8},
	{Title: "End", Width: 11},
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	t := table.New(
		table.WithColumns(resultColumns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(tuistyles.ColorBorder).
		BorderBottom(true).
		Foreground(tuistyles.ColorPrimary).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(tuistyles.ColorAccent).
		Bold(true)
	t.SetStyles(styles)

	return &ResultsModel{table: t, showChart: true}
}

// SetResult updates the projection on display.
func (m *ResultsModel) SetResult(result *domain.ScenarioResult) {
	m.result = result
	if result == nil || result.Projection == nil {
		m.table.SetRows(nil)
		return
	}
	m.table.SetRows(projectionRows(result.Projection))
	m.table.GotoTop()
	if rec, ok := result.Projection.RecordAt(result.Projection.RetirementAge); ok {
		m.table.SetCursor(rec.Age - result.Projection.StartAge)
	}
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.resizeTable()
}

func (m *ResultsModel) resizeTable() {
	reserved := 12 // title, cards, help
	if m.showChart {
		reserved += 16
	}
	m.table.SetHeight(max(m.height-reserved, 5))
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, key.NewBinding(key.WithKeys("g"))) {
		m.showChart = !m.showChart
		m.resizeTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil || m.result.Projection == nil {
		return tuistyles.BorderStyle.Render("No projection yet.\n\nLoad a plan or press Enter on the Parameters screen.")
	}

	sections := []string{
		tuistyles.TitleStyle.Render("Projection: " + m.result.Name),
		renderKeyMetrics(m.result.Projection.Summary),
	}
	if m.showChart {
		sections = append(sections, balanceChart(m.result, m.width))
	}
	sections = append(sections,
		tuistyles.BorderStyle.Padding(0, 1).Render(m.table.View()),
		tuistyles.HelpDescStyle.Render("↑/↓ scroll • g toggle chart • m monte carlo • p parameters • ESC back"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderKeyMetrics(s domain.ProjectionSummary) string {
	cards := []*components.MetricCard{
		components.NewMoneyCard("Balance at Retirement", s.BalanceAtRetirement),
		components.NewMoneyCard("First-Year Draw /mo", s.FirstYearWithdrawal).
			WithDescription("4% rule: " + tuistyles.FormatCurrency(s.FourPercentBaseline.Div(decimal.NewFromInt(12))) + "/mo"),
		components.NewMoneyCard("Final Balance", s.FinalBalance),
	}
	if s.Depleted() {
		cards = append(cards, components.NewMetricCard("Depleted", fmt.Sprintf("age %d", s.DepletionAge)).
			WithTrend(false, fmt.Sprintf("%d short year%s", s.YearsWithShortfall, pluralS(s.YearsWithShortfall))))
	} else {
		cards = append(cards, components.NewMoneyCard("Total Clawback", s.TotalClawback))
	}
	return components.MetricGrid(cards, 4)
}

// balanceChart plots year-end balance by age, with the Monte Carlo median
// and 10th percentile when a simulation has run.
func balanceChart(result *domain.ScenarioResult, width int) string {
	proj := result.Projection
	labels := make([]string, len(proj.Records))
	balances := make([]decimal.Decimal, len(proj.Records))
	for i, r := range proj.Records {
		labels[i] = fmt.Sprintf("%d", r.Age)
		balances[i] = r.BalanceEnd
	}

	chart := components.NewASCIIChart("").
		WithSize(max(min(width-4, 100), 40), 12).
		WithLabels(labels).
		WithXAxisLabel("age").
		AddDecimalSeries("projection", balances, tuistyles.ColorChartLine1)

	if mc := result.MonteCarlo; mc != nil && len(mc.Percentiles) == len(balances) {
		p50 := make([]decimal.Decimal, len(mc.Percentiles))
		p10 := make([]decimal.Decimal, len(mc.Percentiles))
		for i, p := range mc.Percentiles {
			p50[i] = p.P50
			p10[i] = p.P10
		}
		chart.AddDecimalSeries("median", p50, tuistyles.ColorChartLine2).
			AddDecimalSeries("10th pct", p10, tuistyles.ColorChartLine4)
	}
	return chart.Render()
}

func projectionRows(proj *domain.Projection) []table.Row {
	rows := make([]table.Row, 0, len(proj.Records))
	for _, r := range proj.Records {
		phase := "work"
		if r.IsRetired() {
			phase = "ret"
		}
		lump := r.LumpSum.Sub(r.LumpSumWithdrawal)
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Age),
			phase,
			tuistyles.FormatCurrency(r.BalanceStart),
			tuistyles.FormatCurrency(r.YearlyReturn),
			blankIfZero(lump),
			blankIfZero(r.RequiredIncome),
			blankIfZero(r.MonthlyPension),
			blankIfZero(r.Withdrawal),
			blankIfZero(r.Clawback),
			tuistyles.FormatCurrency(r.BalanceEnd),
		})
	}
	return rows
}

func blankIfZero(d decimal.Decimal) string {
	if d.Round(0).IsZero() {
		return ""
	}
	return tuistyles.FormatCurrency(d)
}
