package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// ProgressBar shows how many Monte Carlo trials have completed and, once
// started, an estimate of the time left.
type ProgressBar struct {
	Current int
	Total   int
	Width   int
	Label   string
	Started time.Time
}

var now = time.Now

// NewProgressBar creates a new progress bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{Current: current, Total: total, Width: 40}
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Start records the time the run began, enabling the estimate.
func (p *ProgressBar) Start() *ProgressBar {
	p.Started = now()
	return p
}

func (p *ProgressBar) Update(current int) {
	p.Current = current
}

// Percentage returns completion in the range 0..100.
func (p *ProgressBar) Percentage() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Current)/float64(p.Total)*100, 0), 100)
}

func (p *ProgressBar) IsComplete() bool {
	return p.Total > 0 && p.Current >= p.Total
}

// Remaining extrapolates the time left from the rate so far. It is zero
// until the run has started and completed at least one trial.
func (p *ProgressBar) Remaining() time.Duration {
	if p.Started.IsZero() || p.Current <= 0 || p.IsComplete() {
		return 0
	}
	elapsed := now().Sub(p.Started)
	perTrial := elapsed / time.Duration(p.Current)
	return (perTrial * time.Duration(p.Total-p.Current)).Round(time.Second)
}

func (p *ProgressBar) Render() string {
	pct := p.Percentage()
	filled := int(float64(p.Width) * pct / 100)

	bar := "[" +
		lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)) +
		"]"

	stats := []string{
		tuistyles.SelectedItemStyle.Render(fmt.Sprintf("%.1f%%", pct)),
		tuistyles.HelpDescStyle.Render(fmt.Sprintf("%d/%d trials", p.Current, p.Total)),
	}
	if left := p.Remaining(); left > 0 {
		stats = append(stats, tuistyles.HelpDescStyle.Render("~"+left.String()+" left"))
	}
	line := bar + " " + strings.Join(stats, " • ")

	if p.Label == "" {
		return line
	}
	return tuistyles.ParameterLabelStyle.Render(p.Label) + "\n" + line
}

// Spinner is a frame-based loading indicator advanced by tick messages.
type Spinner struct {
	Frame   int
	Message string
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the spinner message
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render returns the current spinner frame
func (s *Spinner) Render() string {
	rendered := tuistyles.SelectedItemStyle.Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Message != "" {
		rendered += " " + tuistyles.UnselectedItemStyle.Render(s.Message)
	}
	return rendered
}
