package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/transform"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// Slider keys. Pension sliders use pensionKeyPrefix + stream name.
const (
	paramRetirementAge = "retirement_age"
	paramIncome        = "income"
	paramContribution  = "contribution"
	paramReturn        = "return"
	paramInflation     = "inflation"
	pensionKeyPrefix   = "pension:"
)

var parameterKeys = struct {
	Up, Down, Left, Right, BigLeft, BigRight, Calculate, Reset, Save key.Binding
}{
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Left:      key.NewBinding(key.WithKeys("left", "-")),
	Right:     key.NewBinding(key.WithKeys("right", "+", "=")),
	BigLeft:   key.NewBinding(key.WithKeys("shift+left", "[")),
	BigRight:  key.NewBinding(key.WithKeys("shift+right", "]")),
	Calculate: key.NewBinding(key.WithKeys("enter")),
	Reset:     key.NewBinding(key.WithKeys("x")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s")),
}

// ParametersModel edits the plan through sliders. Each modified slider
// becomes a transform applied to the plan as loaded.
type ParametersModel struct {
	base          *domain.InputModel
	sliders       []*components.ParameterSlider
	focusedSlider int
	width         int
	height        int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetInput rebuilds the sliders around input.
func (m *ParametersModel) SetInput(input *domain.InputModel) {
	m.base = input
	m.buildSliders()
}

func (m *ParametersModel) buildSliders() {
	m.sliders = nil
	m.focusedSlider = 0
	if m.base == nil {
		return
	}
	in := m.base

	income := in.RequiredIncome.Monthly.InexactFloat64()
	contribution := in.MonthlyContribution.InexactFloat64()

	m.sliders = append(m.sliders,
		components.NewParameterSlider(paramRetirementAge, "Retirement Age", float64(in.RetirementAge),
			float64(in.CurrentAge), float64(domain.MaxAge-1), 1).
			WithUnit(" yrs").
			WithDescription("Contributions stop the year before retirement"),
		components.NewParameterSlider(paramIncome, "Required Income", income,
			0, max(20000, income*2), 100).
			WithPrefix("$").WithUnit("/mo").
			WithDescription("First retirement year, in that year's dollars"),
		components.NewParameterSlider(paramContribution, "Monthly Contribution", contribution,
			0, max(5000, contribution*2), 50).
			WithPrefix("$").WithUnit("/mo"),
		components.NewParameterSlider(paramReturn, "Expected Return", in.ReturnRate.InexactFloat64()*100,
			-5, 15, 0.25).
			WithFormat("%.2f").WithUnit("%").
			WithDescription("Applied to each year's starting balance"),
		components.NewParameterSlider(paramInflation, "Inflation", in.InflationRate.InexactFloat64()*100,
			0, 10, 0.1).
			WithFormat("%.1f").WithUnit("%"),
	)

	seen := map[string]bool{}
	for _, p := range in.Persons {
		for _, s := range p.Pensions {
			if seen[s.Name] || s.StartAge >= domain.SentinelAge {
				continue
			}
			seen[s.Name] = true
			m.sliders = append(m.sliders,
				components.NewParameterSlider(pensionKeyPrefix+s.Name, strings.ToUpper(s.Name)+" Start Age",
					float64(s.StartAge), 55, 75, 1).
					WithUnit(" yrs").
					WithDescription("Applies to every person's "+s.Name+" stream"))
		}
	}

	for _, s := range m.sliders {
		s.WithWidth(36)
	}
	m.sliders[0].SetFocused(true)
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.sliders) == 0 {
		return m, nil
	}

	focused := m.sliders[m.focusedSlider]
	switch {
	case key.Matches(keyMsg, parameterKeys.Up):
		m.moveFocus(-1)
	case key.Matches(keyMsg, parameterKeys.Down):
		m.moveFocus(1)
	case key.Matches(keyMsg, parameterKeys.Left):
		focused.Decrement()
	case key.Matches(keyMsg, parameterKeys.Right):
		focused.Increment()
	case key.Matches(keyMsg, parameterKeys.BigLeft):
		focused.SetValue(focused.Value - 10*focused.Step)
	case key.Matches(keyMsg, parameterKeys.BigRight):
		focused.SetValue(focused.Value + 10*focused.Step)
	case key.Matches(keyMsg, parameterKeys.Calculate):
		return m, m.recalculate()
	case key.Matches(keyMsg, parameterKeys.Reset):
		for _, s := range m.sliders {
			s.Reset()
		}
		return m, func() tea.Msg { return tuimsg.ResetInputMsg{} }
	case key.Matches(keyMsg, parameterKeys.Save):
		return m, func() tea.Msg { return tuimsg.SaveScenarioMsg{} }
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[next].SetFocused(true)
}

// Transforms converts the modified sliders into transforms, in slider order.
func (m *ParametersModel) Transforms() []transform.ScenarioTransform {
	var out []transform.ScenarioTransform
	for _, s := range m.sliders {
		if !s.IsModified() {
			continue
		}
		switch {
		case s.Key == paramRetirementAge:
			out = append(out, &transform.SetRetirementAge{Age: int(s.Value), AlignContributions: true})
		case s.Key == paramIncome:
			out = append(out, &transform.SetRequiredIncome{Monthly: decimal.NewFromFloat(s.Value)})
		case s.Key == paramContribution:
			out = append(out, &transform.SetContribution{Monthly: decimal.NewFromFloat(s.Value)})
		case s.Key == paramReturn:
			out = append(out, &transform.SetReturnRate{Rate: percentToFraction(s.Value)})
		case s.Key == paramInflation:
			out = append(out, &transform.ModifyInflation{NewRate: percentToFraction(s.Value)})
		case strings.HasPrefix(s.Key, pensionKeyPrefix):
			out = append(out, &transform.DelayPension{
				Stream: strings.TrimPrefix(s.Key, pensionKeyPrefix),
				Age:    int(s.Value),
			})
		}
	}
	return out
}

func percentToFraction(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
}

func (m *ParametersModel) recalculate() tea.Cmd {
	if m.base == nil {
		return nil
	}
	transforms := m.Transforms()
	modified, err := transform.ApplyTransforms(m.base, transforms)
	if err != nil {
		return func() tea.Msg { return tuimsg.ErrorMsg{Err: err} }
	}

	changes := make([]string, len(transforms))
	for i, t := range transforms {
		changes[i] = t.Description()
	}
	return func() tea.Msg {
		return tuimsg.RecalculateMsg{Input: modified, Changes: changes}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if m.base == nil || len(m.sliders) == 0 {
		return tuistyles.BorderStyle.Render("No plan loaded.")
	}

	rendered := make([]string, len(m.sliders))
	for i, s := range m.sliders {
		rendered[i] = s.Render()
	}
	sliders := tuistyles.BorderStyle.Render(strings.Join(rendered, "\n\n"))

	sections := []string{
		tuistyles.TitleStyle.Render("Edit Parameters"),
		sliders,
	}
	if n := len(m.Transforms()); n > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Bold(true).
			Render(fmt.Sprintf("⚠ %d change%s - Enter to recalculate, x to reset", n, pluralS(n))))
	}
	sections = append(sections, tuistyles.HelpDescStyle.Render(
		"↑/↓ select • ←/→ adjust • [ ] adjust ×10 • Enter recalculate • x reset • Ctrl+S save • ESC back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
