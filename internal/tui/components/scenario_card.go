package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestegg/internal/compare"
	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// ScenarioCard displays one scenario of a comparison.
type ScenarioCard struct {
	Name        string
	Description string
	Highlights  []string
	IsBase      bool
	IsSelected  bool
	Width       int
}

// NewScenarioCard creates a new scenario card
func NewScenarioCard(name string) *ScenarioCard {
	return &ScenarioCard{Name: name, Width: 38}
}

// NewComparisonCard summarizes a comparison result. Alternatives show their
// differences from the base.
func NewComparisonCard(r *compare.ComparisonResult, isBase bool) *ScenarioCard {
	card := NewScenarioCard(r.ScenarioName).WithDescription(r.Description)
	card.IsBase = isBase

	card.AddHighlight(fmt.Sprintf("Retires at %d", r.RetirementAge))
	final := "Final balance " + tuistyles.FormatCurrency(r.FinalBalance)
	if !isBase && !r.FinalBalanceDiff.IsZero() {
		final += fmt.Sprintf(" (%s)", output.FormatSignedMoney(r.FinalBalanceDiff.Round(0), tuistyles.Currency))
	}
	card.AddHighlight(final)

	if r.Depleted() {
		card.AddHighlight(fmt.Sprintf("Depleted at %d", r.DepletionAge))
	} else {
		card.AddHighlight(fmt.Sprintf("Funded %d retirement years", r.Longevity))
	}
	if r.SuccessRate != nil {
		success := "Success " + output.FormatPercent(*r.SuccessRate, 1)
		if !isBase && r.SuccessRateDiff != nil && !r.SuccessRateDiff.IsZero() {
			pts := r.SuccessRateDiff.Mul(decimal.NewFromInt(100)).StringFixed(1)
			if r.SuccessRateDiff.IsPositive() {
				pts = "+" + pts
			}
			success += fmt.Sprintf(" (%s pts)", pts)
		}
		card.AddHighlight(success)
	}
	if r.TotalClawback.IsPositive() {
		card.AddHighlight("Clawback " + tuistyles.FormatCurrency(r.TotalClawback))
	}
	return card
}

// WithDescription adds a description
func (s *ScenarioCard) WithDescription(desc string) *ScenarioCard {
	s.Description = desc
	return s
}

// AddHighlight adds a key metric or parameter
func (s *ScenarioCard) AddHighlight(highlight string) *ScenarioCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	title := s.Name
	if s.IsBase {
		title += " (base)"
	}
	content.WriteString(tuistyles.TitleStyle.Render(title))
	content.WriteString("\n")

	if s.Description != "" {
		content.WriteString(tuistyles.SubtitleStyle.Render(s.Description))
		content.WriteString("\n")
	}

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		for _, h := range s.Highlights {
			content.WriteString(tuistyles.UnselectedItemStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (s *ScenarioCard) RenderCompact() string {
	parts := []string{tuistyles.TitleStyle.Render(s.Name)}
	if len(s.Highlights) > 0 {
		parts = append(parts, tuistyles.HelpDescStyle.Render("• "+s.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// ScenarioGrid lays cards out in rows of the given number of columns.
func ScenarioGrid(cards []*ScenarioCard, columns int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios to show")
	}
	columns = max(columns, 1)

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, c.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ScenarioListCompact renders a compact list for selection menus
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios to show")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix, style := "  ", tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix, style = "▸ ", tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}
