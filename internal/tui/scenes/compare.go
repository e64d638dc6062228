package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestegg/internal/compare"
	"github.com/rgehrsitz/nestegg/internal/transform"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// CompareModel picks built-in what-if templates and shows how each one
// changes the current plan.
type CompareModel struct {
	registry  *transform.TemplateRegistry
	templates []transform.Template
	selected  map[int]bool
	cursor    int
	comparing bool
	set       *compare.ComparisonSet
	width     int
	height    int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel(registry *transform.TemplateRegistry) *CompareModel {
	m := &CompareModel{
		registry: registry,
		selected: make(map[int]bool),
	}
	for _, name := range registry.List() {
		if t, ok := registry.Get(name); ok {
			m.templates = append(m.templates, t)
		}
	}
	return m
}

// SetResult shows a finished comparison. A nil set returns to selection.
func (m *CompareModel) SetResult(set *compare.ComparisonSet) {
	m.comparing = false
	m.set = set
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.comparing {
		return m, nil
	}

	if m.set != nil {
		if key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace", "n"))) {
			m.set = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.templates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "x"))):
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else if len(m.selected) < compare.MaxScenarios-1 {
			m.selected[m.cursor] = true
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace"))):
		m.selected = make(map[int]bool)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		names := m.selectedNames()
		if len(names) == 0 {
			return m, nil
		}
		m.comparing = true
		return m, func() tea.Msg { return tuimsg.ComparisonStartedMsg{Templates: names} }
	}
	return m, nil
}

// Fail clears the in-progress state after a comparison error.
func (m *CompareModel) Fail() {
	m.comparing = false
}

// selectedNames returns the selected template names in list order.
func (m *CompareModel) selectedNames() []string {
	var names []string
	for i, t := range m.templates {
		if m.selected[i] {
			names = append(names, t.Name)
		}
	}
	return names
}

// View renders the compare scene
func (m *CompareModel) View() string {
	switch {
	case m.comparing:
		return tuistyles.BorderStyle.Render(tuistyles.InfoStyle.Render(
			fmt.Sprintf("Comparing %d scenario%s against the plan...", len(m.selected), pluralS(len(m.selected)))))
	case m.set != nil:
		return m.renderComparison()
	default:
		return m.renderSelection()
	}
}

func (m *CompareModel) renderSelection() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Compare What-If Templates"))
	content.WriteString("\n\n")

	if len(m.templates) == 0 {
		content.WriteString(tuistyles.ErrorStyle.Render("No templates available"))
		return tuistyles.BorderStyle.Render(content.String())
	}

	category := ""
	for i, t := range m.templates {
		if t.Category != category {
			category = t.Category
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(sectionTitle(category))
			content.WriteString("\n")
		}

		box := "[ ]"
		if m.selected[i] {
			box = "[✓]"
		}
		line := fmt.Sprintf("%s %-28s %s", box, t.Name, t.Description)
		if i == m.cursor {
			content.WriteString(tuistyles.SelectedItemStyle.Render("▶ " + line))
		} else {
			content.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	n := len(m.selected)
	status := fmt.Sprintf("%d selected (max %d)", n, compare.MaxScenarios-1)
	help := "↑/↓ move • Space select • Backspace clear • Enter compare • ESC back"

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n")),
		tuistyles.InfoStyle.Render(status),
		tuistyles.HelpDescStyle.Render(help),
	)
}

func (m *CompareModel) renderComparison() string {
	results := m.set.All()
	cards := make([]*components.ScenarioCard, len(results))
	for i, r := range results {
		cards[i] = components.NewComparisonCard(r, i == 0 && m.set.BaseResult != nil)
	}

	columns := 3
	if m.width > 0 && m.width < 110 {
		columns = 2
	}

	sections := []string{
		tuistyles.TitleStyle.Render("Comparison: " + m.set.BaseScenarioName),
		components.ScenarioGrid(cards, columns),
	}

	if len(m.set.Recommendations) > 0 {
		var rec strings.Builder
		rec.WriteString(sectionTitle("Recommendations"))
		for _, r := range m.set.Recommendations {
			rec.WriteString("\n  • ")
			rec.WriteString(r)
		}
		sections = append(sections, tuistyles.BorderStyle.Render(rec.String()))
	}

	sections = append(sections, tuistyles.HelpDescStyle.Render("n new comparison • ESC back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
