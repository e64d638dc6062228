package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestegg/internal/breakeven"
	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// SolveMode is the step the solve scene is on.
type SolveMode int

const (
	ModeSelectTarget SolveMode = iota
	ModeSetConstraints
	ModeSolving
	ModeShowResults
)

var solveTargets = []struct {
	target breakeven.OptimizationTarget
	desc   string
}{
	{breakeven.TargetIncome, "Maximum sustainable monthly income at the planned retirement age"},
	{breakeven.TargetRetirementAge, "Earliest retirement age that sustains the required income"},
	{breakeven.TargetAll, "Both of the above"},
}

// SolveModel runs the break-even solver against the current plan.
type SolveModel struct {
	mode        SolveMode
	cursor      int
	inputs      []textinput.Model // min final balance, target success %
	inputFocus  int
	inputErr    string
	constraints breakeven.Constraints
	result      *breakeven.MultiResult
	resultIdx   int
	width       int
	height      int
}

// NewSolveModel creates a new solve scene model
func NewSolveModel() *SolveModel {
	balance := textinput.New()
	balance.Placeholder = "0"
	balance.CharLimit = 12
	balance.Width = 14

	rate := textinput.New()
	rate.Placeholder = "off"
	rate.CharLimit = 5
	rate.Width = 6

	return &SolveModel{inputs: []textinput.Model{balance, rate}}
}

// SetResult shows the solver output.
func (m *SolveModel) SetResult(result *breakeven.MultiResult) {
	m.result = result
	m.resultIdx = 0
	m.mode = ModeShowResults
}

// Fail returns to constraint entry after a solver error.
func (m *SolveModel) Fail() {
	m.mode = ModeSetConstraints
}

// SetSize updates the model dimensions
func (m *SolveModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the solve scene
func (m *SolveModel) Update(msg tea.Msg) (*SolveModel, tea.Cmd) {
	switch m.mode {
	case ModeSelectTarget:
		return m.updateTargetSelection(msg)
	case ModeSetConstraints:
		return m.updateConstraints(msg)
	case ModeShowResults:
		return m.updateResults(msg)
	}
	return m, nil
}

func (m *SolveModel) updateTargetSelection(msg tea.Msg) (*SolveModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(solveTargets)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		m.mode = ModeSetConstraints
		m.inputFocus = 0
		m.inputs[0].Focus()
		m.inputs[1].Blur()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *SolveModel) updateConstraints(msg tea.Msg) (*SolveModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.inputs[m.inputFocus].Blur()
			m.inputFocus = (m.inputFocus + 1) % len(m.inputs)
			m.inputs[m.inputFocus].Focus()
			return m, textinput.Blink
		case tea.KeyBackspace:
			if m.inputs[m.inputFocus].Value() == "" {
				m.mode = ModeSelectTarget
				return m, nil
			}
		case tea.KeyEnter:
			c, err := m.parseConstraints()
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.inputErr = ""
			m.constraints = c
			m.mode = ModeSolving
			target := solveTargets[m.cursor].target
			return m, func() tea.Msg {
				return tuimsg.SolveStartedMsg{Target: target, Constraints: c}
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	return m, cmd
}

func (m *SolveModel) parseConstraints() (breakeven.Constraints, error) {
	var c breakeven.Constraints

	if s := strings.TrimSpace(strings.ReplaceAll(m.inputs[0].Value(), ",", "")); s != "" {
		bal, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
		if err != nil || bal.IsNegative() {
			return c, fmt.Errorf("minimum final balance must be a non-negative amount")
		}
		c.MinFinalBalance = bal
	}

	if s := strings.TrimSpace(strings.TrimSuffix(m.inputs[1].Value(), "%")); s != "" {
		pct, err := strconv.ParseFloat(s, 64)
		if err != nil || pct < 0 || pct > 100 {
			return c, fmt.Errorf("target success rate must be between 0 and 100")
		}
		c.TargetSuccessRate = pct / 100
	}
	return c, c.Validate()
}

func (m *SolveModel) updateResults(msg tea.Msg) (*SolveModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.result == nil {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.resultIdx > 0 {
			m.resultIdx--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.resultIdx < len(m.result.Results)-1 {
			m.resultIdx++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("a"))):
		if m.resultIdx < len(m.result.Results) && m.result.Results[m.resultIdx].Success {
			chosen := m.result.Results[m.resultIdx]
			return m, func() tea.Msg { return tuimsg.ApplySolutionMsg{Result: chosen} }
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("n", "backspace"))):
		m.result = nil
		m.mode = ModeSelectTarget
	}
	return m, nil
}

// View renders the solve scene
func (m *SolveModel) View() string {
	switch m.mode {
	case ModeSetConstraints:
		return m.renderConstraints()
	case ModeSolving:
		return tuistyles.BorderStyle.Render(tuistyles.InfoStyle.Render(
			fmt.Sprintf("Solving for %s...", solveTargets[m.cursor].target)))
	case ModeShowResults:
		return m.renderResults()
	default:
		return m.renderTargetSelection()
	}
}

func (m *SolveModel) renderTargetSelection() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Break-Even Solver"))
	content.WriteString("\n\n")
	content.WriteString(sectionTitle("What should be solved for?"))
	content.WriteString("\n")
	for i, t := range solveTargets {
		line := fmt.Sprintf("%-15s %s", t.target, t.desc)
		if i == m.cursor {
			content.WriteString(tuistyles.SelectedItemStyle.Render("▶ " + line))
		} else {
			content.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n")),
		tuistyles.HelpDescStyle.Render("↑/↓ move • Enter select • ESC back"),
	)
}

func (m *SolveModel) renderConstraints() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Constraints: " + string(solveTargets[m.cursor].target)))
	content.WriteString("\n\n")

	labels := []string{"Minimum final balance ", "Target success rate % "}
	for i, in := range m.inputs {
		label := tuistyles.MetricLabelStyle
		if i == m.inputFocus {
			label = label.Foreground(tuistyles.ColorPrimary)
		}
		content.WriteString(label.Render(labels[i]))
		content.WriteString(in.View())
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("A success rate runs a Monte Carlo simulation for every candidate."))
	if m.inputErr != "" {
		content.WriteString("\n\n")
		content.WriteString(tuistyles.ErrorStyle.Render(m.inputErr))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.BorderStyle.Render(content.String()),
		tuistyles.HelpDescStyle.Render("Tab next field • Enter solve • Backspace (empty) back • ESC home"),
	)
}

func (m *SolveModel) renderResults() string {
	if m.result == nil || len(m.result.Results) == 0 {
		return tuistyles.BorderStyle.Render("No solver results.")
	}

	var cards []string
	for i, r := range m.result.Results {
		cards = append(cards, m.renderSolverResult(&r, i == m.resultIdx))
	}

	sections := []string{
		tuistyles.TitleStyle.Render("Solver Results"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	}
	if len(m.result.Recommendations) > 0 {
		var rec strings.Builder
		rec.WriteString(sectionTitle("Recommendations"))
		for _, r := range m.result.Recommendations {
			rec.WriteString("\n  • ")
			rec.WriteString(r)
		}
		sections = append(sections, tuistyles.BorderStyle.Render(rec.String()))
	}
	sections = append(sections, tuistyles.HelpDescStyle.Render("↑/↓ choose • a apply to plan • n new solve • ESC back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *SolveModel) renderSolverResult(r *breakeven.SolverResult, selected bool) string {
	var content strings.Builder

	title := "Max Sustainable Income"
	if r.Target == breakeven.TargetRetirementAge {
		title = "Earliest Retirement Age"
	}
	content.WriteString(tuistyles.TitleStyle.Render(title))
	content.WriteString("\n")

	if !r.Success {
		content.WriteString(tuistyles.ErrorStyle.Render("No solution"))
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(r.ConvergenceInfo))
	} else {
		var card *components.MetricCard
		switch {
		case r.MonthlyIncome != nil:
			card = components.NewMoneyCard("Monthly income", *r.MonthlyIncome).
				WithMoneyChange(r.IncomeDiffFromBase)
		case r.RetirementAge != nil:
			card = components.NewMetricCard("Retirement age", strconv.Itoa(*r.RetirementAge))
			if r.YearsDiffFromBase != 0 {
				card.WithTrend(r.YearsDiffFromBase < 0, fmt.Sprintf("%+d yrs", r.YearsDiffFromBase))
			}
		}
		if card != nil {
			content.WriteString(card.RenderCompact())
			content.WriteString("\n")
		}
		content.WriteString(tuistyles.MetricLabelStyle.Render("Final balance  "))
		content.WriteString(tuistyles.FormatCurrency(r.FinalBalance))
		if r.SuccessRate != nil {
			content.WriteString("\n")
			content.WriteString(tuistyles.MetricLabelStyle.Render("Success rate   "))
			content.WriteString(output.FormatPercent(*r.SuccessRate, 1))
		}
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d iterations", r.Iterations)))
	}

	style := tuistyles.BorderStyle.Width(44)
	if selected {
		style = tuistyles.ActiveBorderStyle.Width(44)
	}
	return style.Render(content.String())
}
