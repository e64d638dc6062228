package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/transform"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := max(m.height-4, 10)
		m.homeModel.SetSize(m.width, contentHeight)
		m.parametersModel.SetSize(m.width, contentHeight)
		m.resultsModel.SetSize(m.width, contentHeight)
		m.monteCarloModel.SetSize(m.width, contentHeight)
		m.compareModel.SetSize(m.width, contentHeight)
		m.solveModel.SetSize(m.width, contentHeight)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tickMsg:
		m.spinner.Next()
		if m.sim != nil {
			m.monteCarloModel.SetProgress(int(m.sim.done.Load()), m.sim.total)
		}
		return m, tick()

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.InputLoadedMsg:
		m.inputPath = msg.Path
		m.name = msg.Name
		m.loaded = msg.Input
		m.working = msg.Input.DeepCopy()
		m.changes = nil
		m.homeModel.SetInput(m.name, m.working)
		m.parametersModel.SetInput(m.loaded)
		return m.startCalculation()

	case tuimsg.RecalculateMsg:
		m.working = msg.Input
		m.changes = msg.Changes
		m.homeModel.SetInput(m.name, m.working)
		return m.startCalculation()

	case tuimsg.ResetInputMsg:
		if m.loaded == nil {
			return m, nil
		}
		m.working = m.loaded.DeepCopy()
		m.changes = nil
		m.homeModel.SetInput(m.name, m.working)
		m.parametersModel.SetInput(m.loaded)
		m.status = "Plan reset to " + m.inputPath
		return m.startCalculation()

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.setResult(msg.Result)
		if len(m.changes) > 0 {
			m.status = "Recalculated: " + strings.Join(m.changes, "; ")
		}
		return m, nil

	case tuimsg.SimulationStartedMsg:
		return m.startSimulation(msg)

	case tuimsg.SimulationCancelMsg:
		if m.sim != nil {
			m.sim.cancel()
			m.status = "Cancelling simulation..."
		}
		return m, nil

	case tuimsg.SimulationCompleteMsg:
		if m.sim != nil {
			m.sim.cancel()
			m.sim = nil
		}
		if msg.Err != nil {
			m.monteCarloModel.Stop()
			if errors.Is(msg.Err, context.Canceled) {
				m.status = "Simulation cancelled"
			} else {
				m.err = msg.Err
			}
			return m, nil
		}
		m.monteCarloModel.SetResult(msg.Result)
		if m.result != nil {
			withMC := *m.result
			withMC.MonteCarlo = msg.Result
			m.setResult(&withMC)
		}
		m.status = fmt.Sprintf("Simulated %d trials (seed %d)", msg.Result.Trials, msg.Result.Seed)
		return m, nil

	case tuimsg.ComparisonStartedMsg:
		if m.working == nil {
			m.compareModel.Fail()
			return m, nil
		}
		m.status = fmt.Sprintf("Comparing %d template%s...", len(msg.Templates), plural(len(msg.Templates)))
		return m, m.compareCmd(msg.Templates)

	case tuimsg.ComparisonCompleteMsg:
		if msg.Err != nil {
			m.compareModel.Fail()
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetResult(msg.Set)
		m.status = ""
		return m, nil

	case tuimsg.SolveStartedMsg:
		if m.working == nil {
			m.solveModel.Fail()
			return m, nil
		}
		return m, m.solveCmd(msg.Target, msg.Constraints)

	case tuimsg.SolveCompleteMsg:
		if msg.Err != nil {
			m.solveModel.Fail()
			m.err = msg.Err
			return m, nil
		}
		m.solveModel.SetResult(msg.Result)
		return m, nil

	case tuimsg.ApplySolutionMsg:
		return m.applySolution(msg)

	case tuimsg.SaveScenarioMsg:
		if m.working == nil {
			return m, nil
		}
		return m, saveCmd(m.inputPath, m.name, m.working)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = "Saved " + msg.Filename
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

func (m Model) startCalculation() (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = "Calculating projection..."
	return m, calculateCmd(m.calcEngine, m.name, m.working)
}

// setResult shows a new result everywhere it is displayed.
func (m *Model) setResult(result *domain.ScenarioResult) {
	m.result = result
	m.homeModel.SetResult(result)
	m.resultsModel.SetResult(result)
}

func (m Model) startSimulation(msg tuimsg.SimulationStartedMsg) (tea.Model, tea.Cmd) {
	if m.working == nil || m.sim != nil {
		m.monteCarloModel.Stop()
		return m, nil
	}

	cfg := m.settings.MonteCarlo.Simulation()
	cfg.Trials = msg.Trials
	cfg.Seed = msg.Seed
	if cfg.Seed == 0 {
		cfg.Seed = calculation.NewSeed()
	}

	ctx, cancel := m.withTimeout(context.Background())
	sim := &simulation{total: cfg.Trials, cancel: cancel}
	cfg.Progress = sim.record
	m.sim = sim
	m.status = fmt.Sprintf("Running %d trials...", cfg.Trials)
	return m, simulateCmd(ctx, m.calcEngine, m.working, cfg)
}

// applySolution moves a solver result into the working plan and recalculates.
func (m Model) applySolution(msg tuimsg.ApplySolutionMsg) (tea.Model, tea.Cmd) {
	if m.working == nil {
		return m, nil
	}

	var t transform.ScenarioTransform
	switch {
	case msg.Result.MonthlyIncome != nil:
		t = &transform.SetRequiredIncome{Monthly: *msg.Result.MonthlyIncome}
	case msg.Result.RetirementAge != nil:
		t = &transform.SetRetirementAge{Age: *msg.Result.RetirementAge, AlignContributions: true}
	default:
		return m, nil
	}

	modified, err := transform.ApplyTransforms(m.working, []transform.ScenarioTransform{t})
	if err != nil {
		m.err = err
		return m, nil
	}
	m.working = modified
	m.changes = append(m.changes, t.Description())
	m.homeModel.SetInput(m.name, m.working)
	m.parametersModel.SetInput(m.working)

	next, cmd := m.startCalculation()
	return next, tea.Batch(cmd, navigate(SceneResults))
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.sim != nil {
			m.sim.cancel()
		}
		return m, tea.Quit
	}

	// Any key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	// A running simulation owns esc so it can be cancelled.
	if m.currentScene == SceneMonteCarlo && m.monteCarloModel.Running() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		return m, navigate(SceneHelp)
	case "esc":
		if m.currentScene == SceneHelp {
			return m, navigate(m.previousScene)
		}
		return m, navigate(SceneHome)
	case "h":
		return m, navigate(SceneHome)
	case "p":
		return m, navigate(SceneParameters)
	case "r":
		return m, navigate(SceneResults)
	case "m":
		return m, navigate(SceneMonteCarlo)
	case "c":
		return m, navigate(SceneCompare)
	case "o":
		return m, navigate(SceneSolve)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneMonteCarlo:
		m.monteCarloModel, cmd = m.monteCarloModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneSolve:
		m.solveModel, cmd = m.solveModel.Update(msg)
	}
	return m, cmd
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
