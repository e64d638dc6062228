package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneParameters
	SceneResults
	SceneMonteCarlo
	SceneCompare
	SceneSolve
	SceneHelp
)

// String returns the scene's breadcrumb label.
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneMonteCarlo:
		return "Monte Carlo"
	case SceneCompare:
		return "Compare"
	case SceneSolve:
		return "Solve"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// tickMsg drives the spinner and simulation progress polling.
type tickMsg time.Time

const tickInterval = 120 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
