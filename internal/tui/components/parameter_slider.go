package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

// ParameterSlider is an adjustable numeric plan parameter. Original keeps
// the loaded value so edits can be shown and reset.
type ParameterSlider struct {
	Key         string // identifies the parameter to the owning scene
	Label       string
	Value       float64
	Original    float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // suffix, e.g. "%" or " yrs"
	Prefix      string // e.g. "$"
	Format      string // e.g. "%.1f"
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider clamped to [min, max]. The initial
// value is not snapped to the step grid.
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Key:    key,
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.0f",
		Width:  30,
	}
	p.Value = math.Max(min, math.Min(max, value))
	p.Original = p.Value
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPrefix sets the value prefix.
func (p *ParameterSlider) WithPrefix(prefix string) *ParameterSlider {
	p.Prefix = prefix
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment increases the value by step
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement decreases the value by step
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue clamps value to the range and snaps it to the step grid.
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
		// Trim float noise from repeated steps such as 0.1.
		value = math.Round(value*1e6) / 1e6
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Reset restores the loaded value.
func (p *ParameterSlider) Reset() {
	p.Value = p.Original
}

// IsModified reports whether the value differs from the loaded one.
func (p *ParameterSlider) IsModified() bool {
	return math.Abs(p.Value-p.Original) > 1e-9
}

// Percentage returns the value's position in the range, 0..1.
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) formatValue(v float64) string {
	return p.Prefix + fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.formatValue(p.Value)))
	if p.IsModified() {
		content.WriteString(tuistyles.HelpDescStyle.Render(" (was " + p.formatValue(p.Original) + ")"))
	}
	content.WriteString("\n")

	content.WriteString(p.renderSliderBar())
	content.WriteString(" ")
	content.WriteString(tuistyles.HelpDescStyle.Render(p.formatValue(p.Min) + " ─ " + p.formatValue(p.Max)))

	if p.Description != "" && p.IsFocused {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(p.Description))
	}

	return content.String()
}

func (p *ParameterSlider) renderSliderBar() string {
	width := max(p.Width, 2)
	thumb := int(math.Round(float64(width-1) * math.Max(0, math.Min(1, p.Percentage()))))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(thumbStyle.Render(strings.Repeat("━", thumb) + "●"))
	bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", width-1-thumb)))
	bar.WriteString("]")
	return bar.String()
}

// RenderCompact returns a compact single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
	}
	return labelStyle.Render(p.Label+":") + " " + tuistyles.ParameterValueStyle.Render(p.formatValue(p.Value))
}
