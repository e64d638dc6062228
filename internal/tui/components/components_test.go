package components

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

func TestParameterSlider_StepsAndClamps(t *testing.T) {
	s := NewParameterSlider("return", "Expected Return", 3.333, 0, 10, 0.25)
	assert.InDelta(t, 3.333, s.Value, 1e-9, "initial value keeps its precision")
	assert.False(t, s.IsModified())

	s.Increment()
	assert.InDelta(t, 3.5, s.Value, 1e-9, "steps land on the grid")
	assert.True(t, s.IsModified())

	s.SetValue(50)
	assert.InDelta(t, 10, s.Value, 1e-9)
	s.SetValue(-3)
	assert.InDelta(t, 0, s.Value, 1e-9)
	s.Decrement()
	assert.InDelta(t, 0, s.Value, 1e-9)

	s.Reset()
	assert.InDelta(t, 3.333, s.Value, 1e-9)
	assert.False(t, s.IsModified())
}

func TestParameterSlider_FloatNoise(t *testing.T) {
	s := NewParameterSlider("inflation", "Inflation", 2.0, 0, 10, 0.1)
	for range 3 {
		s.Increment()
	}
	assert.Equal(t, 2.3, s.Value)
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider("age", "Retirement Age", 65, 50, 99, 1).WithUnit(" yrs")
	assert.NotContains(t, s.Render(), "(was")

	s.Increment()
	out := s.Render()
	assert.Contains(t, out, "Retirement Age")
	assert.Contains(t, out, "66 yrs")
	assert.Contains(t, out, "(was 65 yrs)")
	assert.Contains(t, s.RenderCompact(), "66 yrs")
}

func TestParameterSlider_ZeroRange(t *testing.T) {
	s := NewParameterSlider("x", "Zero Range", 5, 5, 5, 1)
	assert.Equal(t, 0.0, s.Percentage())
	assert.NotPanics(t, func() { _ = s.Render() })
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar(0, 0)
	assert.Equal(t, 0.0, p.Percentage())
	assert.False(t, p.IsComplete())

	p = NewProgressBar(250, 1000).WithWidth(20)
	assert.InDelta(t, 25, p.Percentage(), 1e-9)
	out := p.Render()
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "250/1000 trials")
	assert.Equal(t, 5, strings.Count(out, "█"))

	p.Update(1200)
	assert.Equal(t, 100.0, p.Percentage())
	assert.True(t, p.IsComplete())
}

func TestProgressBar_Remaining(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return start }
	t.Cleanup(func() { now = time.Now })

	p := NewProgressBar(0, 1000).Start()
	assert.Zero(t, p.Remaining(), "no estimate before the first trial")

	now = func() time.Time { return start.Add(10 * time.Second) }
	p.Update(250)
	assert.Equal(t, 30*time.Second, p.Remaining())
	assert.Contains(t, p.Render(), "~30s left")

	p.Update(1000)
	assert.Zero(t, p.Remaining())
}

func TestSpinner(t *testing.T) {
	s := NewSpinner().WithMessage("Calculating")
	first := s.Render()
	s.Next()
	assert.NotEqual(t, first, s.Render())
	assert.Contains(t, s.Render(), "Calculating")

	for range len(spinnerFrames) - 1 {
		s.Next()
	}
	assert.Equal(t, first, s.Render(), "frames wrap around")
}

func TestMetricCard(t *testing.T) {
	tuistyles.Currency = "USD"
	t.Cleanup(func() { tuistyles.Currency = "CAD" })

	card := NewMoneyCard("Final Balance", decimal.NewFromInt(1234567)).
		WithMoneyChange(decimal.NewFromInt(-5000))
	out := card.RenderCompact()
	assert.Contains(t, out, "Final Balance:")
	assert.Contains(t, out, "$1,234,567")
	assert.Contains(t, out, tuistyles.TrendIndicator(false))

	unchanged := NewMoneyCard("Clawback", decimal.Zero).WithMoneyChange(decimal.Zero)
	assert.Nil(t, unchanged.Trend)
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 3))

	cards := []*MetricCard{
		NewMetricCard("A", "1"),
		NewMetricCard("B", "2"),
		NewMetricCard("C", "3"),
	}
	one := MetricGrid(cards[:1], 2)
	grid := MetricGrid(cards, 2)
	assert.Greater(t, strings.Count(grid, "\n"), strings.Count(one, "\n"), "third card wraps to a second row")
	for _, label := range []string{"A", "B", "C"} {
		assert.Contains(t, grid, label)
	}
}

func TestASCIIChart(t *testing.T) {
	empty := NewASCIIChart("Balance")
	assert.Contains(t, empty.Render(), "No data to display")

	balances := []decimal.Decimal{
		decimal.NewFromInt(500000),
		decimal.NewFromInt(750000),
		decimal.NewFromInt(400000),
		decimal.Zero,
	}
	chart := NewASCIIChart("Balance").
		WithSize(40, 8).
		WithLabels([]string{"60", "70", "80", "90"}).
		WithXAxisLabel("age").
		AddDecimalSeries("projection", balances, tuistyles.ColorChartLine1).
		AddSeries("median", []float64{500000, 600000, 650000, 700000}, tuistyles.ColorChartLine2)

	out := chart.Render()
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "■")
	assert.Contains(t, out, "projection")
	assert.Contains(t, out, "median")
	assert.Contains(t, out, "age")

	lo, hi := chart.bounds()
	assert.Equal(t, 0.0, lo, "non-negative data is anchored at zero")
	assert.Greater(t, hi, 750000.0)
}

func TestASCIIChart_NarrowWidthDoesNotPanic(t *testing.T) {
	chart := NewASCIIChart("").
		WithSize(5, 1).
		WithLabels([]string{"60", "61", "62"}).
		AddSeries("flat", []float64{1, 1, 1}, tuistyles.ColorChartLine1)
	assert.NotPanics(t, func() { _ = chart.Render() })
}
