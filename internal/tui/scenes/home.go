package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// HomeModel is the dashboard: the loaded plan and its headline results.
type HomeModel struct {
	name   string
	input  *domain.InputModel
	result *domain.ScenarioResult
	width  int
	height int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetInput updates the plan shown on the dashboard.
func (m *HomeModel) SetInput(name string, input *domain.InputModel) {
	m.name = name
	m.input = input
}

// SetResult updates the headline results.
func (m *HomeModel) SetResult(result *domain.ScenarioResult) {
	m.result = result
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	if m.input == nil {
		return tuistyles.BorderStyle.Render(
			tuistyles.TitleStyle.Render("Nest Egg Retirement Planner") + "\n\n" +
				tuistyles.SubtitleStyle.Render("Loading plan..."))
	}

	sections := []string{
		tuistyles.TitleStyle.Render("Plan: " + m.name),
		"",
		m.renderPlanOverview(),
	}
	if m.result != nil {
		sections = append(sections, "", m.renderHeadlines())
	}
	sections = append(sections, "", renderQuickActions())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *HomeModel) renderPlanOverview() string {
	in := m.input
	var content strings.Builder

	content.WriteString(sectionTitle("Plan Overview"))
	content.WriteString("\n")

	row := func(label, value string) {
		content.WriteString(tuistyles.MetricLabelStyle.Render(fmt.Sprintf("  %-22s", label)))
		content.WriteString(tuistyles.UnselectedItemStyle.Render(value))
		content.WriteString("\n")
	}

	row("Current age", fmt.Sprintf("%d", in.CurrentAge))
	row("Retirement age", fmt.Sprintf("%d", in.RetirementAge))
	row("Starting balance", tuistyles.FormatCurrency(in.StartingBalance()))
	if in.MonthlyContribution.IsPositive() {
		row("Monthly contribution", tuistyles.FormatCurrency(in.MonthlyContribution))
	}
	income := tuistyles.FormatCurrency(in.RequiredIncome.Monthly) + "/mo"
	if in.RequiredIncome.InflationIndexed {
		income += " (indexed)"
	}
	row("Required income", income)
	row("Return / inflation", output.FormatPercent(in.ReturnRate, 1)+" / "+output.FormatPercent(in.InflationRate, 1))

	for _, p := range in.Persons {
		var streams []string
		for _, s := range p.Pensions {
			streams = append(streams, fmt.Sprintf("%s %s at %d", s.Name, tuistyles.FormatCurrency(s.Monthly), s.StartAge))
		}
		if len(streams) == 0 {
			streams = append(streams, "no pensions")
		}
		name := p.Name
		if name == "" {
			name = "person"
		}
		row(name, strings.Join(streams, ", "))
	}

	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}

func (m *HomeModel) renderHeadlines() string {
	s := m.result.Projection.Summary

	cards := []*components.MetricCard{
		components.NewMoneyCard("Balance at Retirement", s.BalanceAtRetirement),
		components.NewMoneyCard("Final Balance (100)", s.FinalBalance),
	}
	if s.Depleted() {
		cards = append(cards, components.NewMetricCard("Depletion", fmt.Sprintf("age %d", s.DepletionAge)).
			WithTrend(false, "runs out"))
	} else {
		cards = append(cards, components.NewMetricCard("Depletion", "never"))
	}
	if mc := m.result.MonteCarlo; mc != nil {
		cards = append(cards, components.NewMetricCard("Success Rate", output.FormatPercent(mc.SuccessRate, 1)).
			WithDescription(mc.Interpretation.Level))
	}
	return components.MetricGrid(cards, 4)
}

func renderQuickActions() string {
	actions := []struct {
		key  string
		desc string
	}{
		{"p", "Edit plan parameters"},
		{"r", "Year-by-year projection"},
		{"m", "Run a Monte Carlo simulation"},
		{"c", "Compare what-if templates"},
		{"o", "Solve for income or retirement age"},
		{"?", "Show help"},
	}

	var content strings.Builder
	content.WriteString(sectionTitle("Quick Actions"))
	content.WriteString("\n")
	for _, a := range actions {
		content.WriteString("  ")
		content.WriteString(tuistyles.HelpKeyStyle.Render(a.key))
		content.WriteString(tuistyles.HelpDescStyle.Render("  " + a.desc))
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}

func sectionTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary).Render(title)
}

func pluralS(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
