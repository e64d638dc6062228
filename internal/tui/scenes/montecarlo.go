package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// MonteCarloModel configures and runs a simulation of the current plan and
// shows its success rate and balance percentiles.
type MonteCarloModel struct {
	trialsInput textinput.Model
	seedInput   textinput.Model
	focus       int
	volatility  float64

	running  bool
	progress *components.ProgressBar
	result   *domain.AggregateResult
	inputErr string

	width  int
	height int
}

// NewMonteCarloModel creates the scene with the configured defaults.
func NewMonteCarloModel(trials int, seed int64, volatility float64) *MonteCarloModel {
	ti := textinput.New()
	ti.Placeholder = "10000"
	ti.CharLimit = 7
	ti.Width = 10
	ti.SetValue(strconv.Itoa(trials))
	ti.Focus()

	si := textinput.New()
	si.Placeholder = "random"
	si.CharLimit = 19
	si.Width = 20
	if seed != 0 {
		si.SetValue(strconv.FormatInt(seed, 10))
	}

	return &MonteCarloModel{
		trialsInput: ti,
		seedInput:   si,
		volatility:  volatility,
		progress:    components.NewProgressBar(0, trials).WithWidth(40),
	}
}

// SetResult shows a finished simulation.
func (m *MonteCarloModel) SetResult(result *domain.AggregateResult) {
	m.running = false
	m.result = result
	if result != nil {
		m.progress.Update(result.Trials)
	}
}

// SetProgress updates the running simulation's progress.
func (m *MonteCarloModel) SetProgress(done, total int) {
	m.progress.Total = total
	m.progress.Update(done)
}

// Stop clears the running state after a failed or cancelled run.
func (m *MonteCarloModel) Stop() {
	m.running = false
}

// Running reports whether a simulation is in progress.
func (m *MonteCarloModel) Running() bool {
	return m.running
}

// SetSize updates the scene dimensions
func (m *MonteCarloModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the Monte Carlo scene
func (m *MonteCarloModel) Update(msg tea.Msg) (*MonteCarloModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.running {
		if isKey && key.Matches(keyMsg, key.NewBinding(key.WithKeys("esc", "x"))) {
			return m, func() tea.Msg { return tuimsg.SimulationCancelMsg{} }
		}
		return m, nil
	}

	if isKey {
		switch keyMsg.Type {
		case tea.KeyTab, tea.KeyShiftTab:
			m.toggleFocus()
			return m, textinput.Blink
		case tea.KeyEnter:
			return m, m.start()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.trialsInput, cmd = m.trialsInput.Update(msg)
	} else {
		m.seedInput, cmd = m.seedInput.Update(msg)
	}
	return m, cmd
}

func (m *MonteCarloModel) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.trialsInput.Blur()
		m.seedInput.Focus()
		return
	}
	m.focus = 0
	m.seedInput.Blur()
	m.trialsInput.Focus()
}

func (m *MonteCarloModel) start() tea.Cmd {
	trials, err := strconv.Atoi(strings.TrimSpace(m.trialsInput.Value()))
	if err != nil || trials <= 0 {
		m.inputErr = "trials must be a positive whole number"
		return nil
	}
	var seed int64
	if s := strings.TrimSpace(m.seedInput.Value()); s != "" {
		seed, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			m.inputErr = "seed must be a whole number or blank"
			return nil
		}
	}

	m.inputErr = ""
	m.running = true
	m.result = nil
	m.progress = components.NewProgressBar(0, trials).WithWidth(40).WithLabel("Simulating...").Start()
	return func() tea.Msg {
		return tuimsg.SimulationStartedMsg{Trials: trials, Seed: seed}
	}
}

// View renders the Monte Carlo scene
func (m *MonteCarloModel) View() string {
	sections := []string{
		tuistyles.TitleStyle.Render("Monte Carlo Simulation"),
		m.renderSettings(),
	}

	switch {
	case m.running:
		sections = append(sections, tuistyles.BorderStyle.Render(m.progress.Render()),
			tuistyles.HelpDescStyle.Render("ESC cancel"))
	case m.result != nil:
		sections = append(sections, m.renderResult(),
			tuistyles.HelpDescStyle.Render("Enter run again • Tab switch field • r projection • ESC back"))
	default:
		sections = append(sections, tuistyles.HelpDescStyle.Render("Enter run • Tab switch field • ESC back"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *MonteCarloModel) renderSettings() string {
	var b strings.Builder
	b.WriteString(tuistyles.MetricLabelStyle.Render("Trials      "))
	b.WriteString(m.trialsInput.View())
	b.WriteString("\n")
	b.WriteString(tuistyles.MetricLabelStyle.Render("Seed        "))
	b.WriteString(m.seedInput.View())
	b.WriteString("\n")
	b.WriteString(tuistyles.MetricLabelStyle.Render("Volatility  "))
	b.WriteString(tuistyles.UnselectedItemStyle.Render(fmt.Sprintf("%.1f%% annual standard deviation", m.volatility*100)))
	if m.inputErr != "" {
		b.WriteString("\n\n")
		b.WriteString(tuistyles.ErrorStyle.Render(m.inputErr))
	}
	return tuistyles.BorderStyle.Render(b.String())
}

func (m *MonteCarloModel) renderResult() string {
	r := m.result

	rateCard := components.NewMetricCard("Success Rate", output.FormatPercent(r.SuccessRate, 1)).
		WithDescription(r.Interpretation.Level)
	failCard := components.NewMetricCard("Failed Trials", fmt.Sprintf("%d of %d", r.Failures, r.Trials))
	if r.HasFailures() {
		failCard.WithDescription("mean failure age " + r.MeanFailureAge.StringFixed(1))
	}
	cards := components.MetricGrid([]*components.MetricCard{
		rateCard,
		failCard,
		components.NewMoneyCard("Median Final", r.MedianFinalBalance),
		components.NewMoneyCard("Worst Final", r.WorstFinalBalance),
	}, 4)

	interp := lipgloss.NewStyle().Foreground(interpretationColor(r.Interpretation.Level)).
		Render(r.Interpretation.Message)

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		interp,
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("seed %d • reproduce with the same seed and trial count", r.Seed)),
		"",
		renderPercentileTable(r),
	)
}

func interpretationColor(level string) lipgloss.Color {
	switch level {
	case "Excellent", "Good":
		return tuistyles.ColorSuccess
	case "Moderate":
		return tuistyles.ColorAccent
	default:
		return tuistyles.ColorDanger
	}
}

// renderPercentileTable lists balance percentiles every five years of age.
func renderPercentileTable(r *domain.AggregateResult) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-5s %12s %12s %12s %12s %12s",
		"Age", "10th", "25th", "Median", "75th", "90th")))
	b.WriteString("\n")
	for i, p := range r.Percentiles {
		if p.Age%5 != 0 && i != 0 && i != len(r.Percentiles)-1 {
			continue
		}
		b.WriteString(tuistyles.TableCellStyle.Render(fmt.Sprintf("%-5d %12s %12s %12s %12s %12s",
			p.Age,
			output.FormatCompact(p.P10),
			output.FormatCompact(p.P25),
			output.FormatCompact(p.P50),
			output.FormatCompact(p.P75),
			output.FormatCompact(p.P90))))
		b.WriteString("\n")
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}
