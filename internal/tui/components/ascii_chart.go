package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// DataSeries is one line on a chart.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws balance lines against age on a character grid.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string

	// FormatValue renders Y-axis ticks; defaults to compact money.
	FormatValue func(float64) string
}

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:       title,
		Width:       60,
		Height:      15,
		ShowLegend:  true,
		FormatValue: formatChartValue,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// AddDecimalSeries adds a series of money values.
func (c *ASCIIChart) AddDecimalSeries(name string, values []decimal.Decimal, color lipgloss.Color) *ASCIIChart {
	points := make([]float64, len(values))
	for i, v := range values {
		points[i] = v.InexactFloat64()
	}
	return c.AddSeries(name, points, color)
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithXAxisLabel sets the caption under the X axis.
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if !c.hasPoints() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(c.XAxisLabel))
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

func (c *ASCIIChart) hasPoints() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// bounds returns the padded value range across all series. Balances never go
// below zero, so a non-negative minimum stays anchored at zero.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if lo >= 0 {
		lo = 0
	}
	if hi == lo {
		hi = lo + 1
	}
	hi += (hi - lo) * 0.05
	return lo, hi
}

func (c *ASCIIChart) plotWidth() int {
	return max(c.Width-yAxisWidth-3, 2)
}

const yAxisWidth = 10

// renderGrid plots every series and prefixes each row with its Y value.
func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	width := c.plotWidth()
	height := max(c.Height, 2)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	toRow := func(v float64) int {
		return height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
	}

	for idx, s := range c.Series {
		n := len(s.Points)
		if n == 0 {
			continue
		}
		char := seriesChar(idx)
		prevX, prevY := -1, -1
		for i, p := range s.Points {
			x := 0
			if n > 1 {
				x = i * (width - 1) / (n - 1)
			}
			y := toRow(p)
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, char)
			} else if y >= 0 && y < height {
				grid[y][x] = char
			}
			prevX, prevY = x, y
		}
	}

	axis := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(yAxisWidth).
		Align(lipgloss.Right)

	var out strings.Builder
	for i, row := range grid {
		v := hi - float64(i)/float64(height-1)*(hi-lo)
		label := ""
		// Label every third row to keep the axis readable.
		if i%3 == 0 || i == height-1 {
			label = c.FormatValue(v)
		}
		out.WriteString(axis.Render(label))
		out.WriteString(" │ ")
		out.WriteString(c.colorRow(row))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └─")
	out.WriteString(strings.Repeat("─", width))
	out.WriteString("\n")

	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels(width))
	}
	return out.String()
}

// colorRow paints each plotted rune in its series color.
func (c *ASCIIChart) colorRow(row []rune) string {
	var sb strings.Builder
	for _, r := range row {
		if r == ' ' {
			sb.WriteRune(r)
			continue
		}
		color := tuistyles.ColorForeground
		for idx, s := range c.Series {
			if seriesChar(idx) == r {
				color = s.Color
				break
			}
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
	}
	return sb.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two grid points using Bresenham's algorithm without
// overwriting points already plotted.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) && grid[y0][x0] == ' ' {
			grid[y0][x0] = char
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// renderXAxisLabels places up to six labels at their point positions.
func (c *ASCIIChart) renderXAxisLabels(width int) string {
	n := len(c.Labels)
	line := []rune(strings.Repeat(" ", width+8))
	step := max(1, (n+5)/6)

	for i := 0; i < n; i += step {
		x := 0
		if n > 1 {
			x = i * (width - 1) / (n - 1)
		}
		label := []rune(c.Labels[i])
		if x+len(label) > len(line) {
			continue
		}
		// Skip labels that would overlap the previous one.
		if x > 0 && line[x-1] != ' ' {
			continue
		}
		copy(line[x:], label)
	}

	return strings.Repeat(" ", yAxisWidth+3) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	var items []string
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, s.Name))
	}
	return tuistyles.HelpDescStyle.Render("Legend: ") + strings.Join(items, "  ")
}

func formatChartValue(value float64) string {
	return output.FormatCompact(decimal.NewFromFloat(value))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
