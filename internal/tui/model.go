package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/nestegg/internal/breakeven"
	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/compare"
	"github.com/rgehrsitz/nestegg/internal/config"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/scenario"
	"github.com/rgehrsitz/nestegg/internal/transform"
	"github.com/rgehrsitz/nestegg/internal/tui/components"
	"github.com/rgehrsitz/nestegg/internal/tui/scenes"
	"github.com/rgehrsitz/nestegg/internal/tui/tuimsg"
)

// solverTrials caps the simulation run for each solver candidate.
const solverTrials = 2000

// Options configures a new Model.
type Options struct {
	InputPath string
	Settings  config.Settings
	Logger    calculation.Logger // nil discards engine logs
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Plan data. loaded is the plan as read from disk; working carries the
	// edits and solver results applied since.
	inputPath string
	name      string
	loaded    *domain.InputModel
	working   *domain.InputModel
	changes   []string
	result    *domain.ScenarioResult

	settings      config.Settings
	calcEngine    *calculation.CalculationEngine
	compareEngine *compare.CompareEngine

	sim     *simulation
	spinner *components.Spinner

	// Scene models
	homeModel       *scenes.HomeModel
	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel
	monteCarloModel *scenes.MonteCarloModel
	compareModel    *scenes.CompareModel
	solveModel      *scenes.SolveModel

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
	status         string
}

// simulation tracks a running Monte Carlo job. Worker goroutines report
// completed trials out of order, so done only ever moves forward.
type simulation struct {
	done   atomic.Int64
	total  int
	cancel context.CancelFunc
}

func (s *simulation) record(done, _ int) {
	for {
		cur := s.done.Load()
		if int64(done) <= cur || s.done.CompareAndSwap(cur, int64(done)) {
			return
		}
	}
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	calc := calculation.NewCalculationEngine()
	if opts.Logger != nil {
		calc.SetLogger(opts.Logger)
	}
	templates := transform.CreateBuiltInTemplates()
	mc := opts.Settings.MonteCarlo

	return Model{
		currentScene:    SceneHome,
		inputPath:       opts.InputPath,
		settings:        opts.Settings,
		calcEngine:      calc,
		compareEngine:   compare.NewCompareEngine(calc),
		spinner:         components.NewSpinner(),
		homeModel:       scenes.NewHomeModel(),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		monteCarloModel: scenes.NewMonteCarloModel(mc.Trials, mc.Seed, mc.Volatility),
		compareModel:    scenes.NewCompareModel(templates),
		solveModel:      scenes.NewSolveModel(),
		loading:         true,
		loadingMessage:  "Loading " + filepath.Base(opts.InputPath) + "...",
		width:           80,
		height:          24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadInputCmd(m.inputPath), tick())
}

// withTimeout bounds long-running work by the configured timeout.
func (m Model) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if d := m.settings.MonteCarlo.Timeout; d > 0 {
		return context.WithTimeout(parent, d)
	}
	return context.WithCancel(parent)
}

// loadInputCmd returns a command that reads the plan file
func loadInputCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := scenario.Load(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		name := doc.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return tuimsg.InputLoadedMsg{Path: path, Name: name, Input: doc.Input()}
	}
}

// calculateCmd returns a command that projects input
func calculateCmd(engine *calculation.CalculationEngine, name string, input *domain.InputModel) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.RunScenario(context.Background(), name, input, nil)
		return tuimsg.CalculationCompleteMsg{Result: result, Err: err}
	}
}

func simulateCmd(ctx context.Context, engine *calculation.CalculationEngine, input *domain.InputModel, cfg calculation.MonteCarloConfig) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.RunMonteCarlo(ctx, input, cfg)
		return tuimsg.SimulationCompleteMsg{Result: result, Err: err}
	}
}

func (m Model) compareCmd(templates []string) tea.Cmd {
	engine, name, input := m.compareEngine, m.name, m.working
	opts := compare.CompareOptions{BaseScenarioName: name, Templates: templates}
	// Simulate alternatives only once the plan itself has been simulated.
	if m.result != nil && m.result.MonteCarlo != nil {
		cfg := m.settings.MonteCarlo.Simulation()
		cfg.Trials = m.result.MonteCarlo.Trials
		opts.MonteCarlo = &cfg
	}
	ctx, cancel := m.withTimeout(context.Background())
	return func() tea.Msg {
		defer cancel()
		set, err := engine.Compare(ctx, input, opts)
		return tuimsg.ComparisonCompleteMsg{Set: set, Err: err}
	}
}

func (m Model) solveCmd(target breakeven.OptimizationTarget, c breakeven.Constraints) tea.Cmd {
	options := breakeven.DefaultSolverOptions()
	if c.TargetSuccessRate > 0 {
		cfg := m.settings.MonteCarlo.Simulation()
		cfg.Trials = min(cfg.Trials, solverTrials)
		options.MonteCarlo = &cfg
	}
	solver := breakeven.NewSolver(m.calcEngine, options)
	input := m.working
	ctx, cancel := m.withTimeout(context.Background())
	return func() tea.Msg {
		defer cancel()
		result, err := solver.Solve(ctx, input, c, target)
		return tuimsg.SolveCompleteMsg{Result: result, Err: err}
	}
}

// saveCmd writes the working plan next to the original with an "-edited"
// suffix; the loaded file is never overwritten.
func saveCmd(path, name string, input *domain.InputModel) tea.Cmd {
	return func() tea.Msg {
		out := editedPath(path)
		err := scenario.Save(out, scenario.New(name, input))
		return tuimsg.SaveCompleteMsg{Filename: out, Err: err}
	}
}

func editedPath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".yaml"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "-edited" + ext
}
