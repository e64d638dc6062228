package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.loading {
		return m.renderApp(m.renderLoading())
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneMonteCarlo:
		content = m.monteCarloModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneSolve:
		content = m.solveModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-4, 1) // title (2) + status (1) + padding (1)

	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().MaxHeight(contentHeight).Height(contentHeight).Render(content),
		m.renderStatusBar(),
	))
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	crumbs := []string{m.currentScene.String()}
	if m.name != "" {
		plan := m.name
		if len(m.changes) > 0 {
			plan += " (edited)"
		}
		crumbs = append(crumbs, plan)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("Nest Egg Retirement Planner"),
		SubtitleStyle.Render(strings.Join(crumbs, " / ")),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("m", "monte carlo"),
		formatShortcut("c", "compare"),
		formatShortcut("o", "solve"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		status := SubtitleStyle.Render(m.status)
		gap := m.width - lipgloss.Width(statusText) - lipgloss.Width(status) - 4
		if gap > 0 {
			statusText += strings.Repeat(" ", gap) + status
		}
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return BorderStyle.Render(m.spinner.WithMessage(message).Render())
}

func (m Model) renderError() string {
	return BorderStyle.Render(ErrorStyle.Render(
		fmt.Sprintf("Error: %v\n\nPress any key to continue...", m.err)))
}

func renderHelp() string {
	const helpText = `Nest Egg projects a retirement portfolio year by year to age 100 and
stress-tests it with Monte Carlo simulation.

KEYBOARD SHORTCUTS:
  h        Home dashboard
  p        Edit plan parameters
  r        Year-by-year projection
  m        Monte Carlo simulation
  c        Compare what-if templates
  o        Break-even solver
  ?        Show this help
  ESC      Back
  q/Ctrl+C Quit

PARAMETERS:
  ↑/↓      Select a parameter
  ←/→      Adjust by one step ([ ] for ten)
  Enter    Recalculate with the changes
  x        Reset to the plan as loaded
  Ctrl+S   Save the edited plan beside the original

RESULTS:
  g        Toggle the balance chart`

	return BorderStyle.Render(TitleStyle.Render("Help") + "\n\n" + helpText)
}
