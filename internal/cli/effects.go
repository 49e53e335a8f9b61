package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/audiofx/dsp/effectchain"
	"github.com/cwbudde/audiofx/dsp/effects"
	"github.com/cwbudde/audiofx/dsp/param"
)

// RenderEffectList writes one line per registered effect.
func RenderEffectList(w io.Writer, reg *effectchain.Registry) {
	names := reg.Names()

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	nameCol := NameStyle.Width(width + 2)

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Available effects"))
	sb.WriteString("\n")
	for _, name := range names {
		d, _ := reg.Lookup(name)
		sb.WriteString("  ")
		sb.WriteString(nameCol.Render(name))
		sb.WriteString(d.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(KeyStyle.Render("Use 'audiofx info <effect>' to see its parameters."))
	sb.WriteString("\n")

	fmt.Fprint(w, sb.String())
}

// RenderEffectInfo writes the parameter table of d and an example command.
func RenderEffectInfo(w io.Writer, d effects.Descriptor) {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(d.Name))
	sb.WriteString("\n")
	sb.WriteString(d.Description)
	sb.WriteString("\n")

	sb.WriteString(SectionStyle.Render("Parameters:"))
	sb.WriteString("\n")
	if len(d.Params) == 0 {
		sb.WriteString("  This effect has no configurable parameters.\n")
	}

	rows := make([][]string, 0, len(d.Params))
	for _, s := range d.Params {
		rows = append(rows, []string{s.Name, formatRange(s), formatValue(s, s.Default), s.Description})
	}
	sb.WriteString(renderTable([]string{"name", "range", "default", "description"}, rows))

	sb.WriteString(SectionStyle.Render("Example:"))
	sb.WriteString("\n  ")
	sb.WriteString(ExampleCommand(d))
	sb.WriteString("\n")

	fmt.Fprint(w, sb.String())
}

// ExampleCommand returns an apply command line that sets every parameter to
// its default.
func ExampleCommand(d effects.Descriptor) string {
	parts := []string{"audiofx apply -e", d.Name}
	for _, s := range d.Params {
		parts = append(parts, "-p", d.Name+"."+s.Name+"="+strconv.FormatFloat(s.Default, 'g', -1, 64))
	}
	parts = append(parts, "input.wav output.wav")
	return strings.Join(parts, " ")
}

func formatRange(s param.Spec) string {
	r := fmt.Sprintf("%g..%g", s.Min, s.Max)
	if s.Unit != param.Unitless && s.Unit != param.Selector {
		r += " " + s.Unit.String()
	}
	if len(s.Choices) > 0 {
		labels := make([]string, len(s.Choices))
		for i, c := range s.Choices {
			labels[i] = fmt.Sprintf("%g=%s", s.Min+float64(i), c)
		}
		r += " (" + strings.Join(labels, ", ") + ")"
	}
	return r
}

func formatValue(s param.Spec, v float64) string {
	if c := s.Choice(v); c != "" {
		return fmt.Sprintf("%g (%s)", v, c)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderTable pads every column to its widest cell.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		sb.WriteString(" ")
		for i, cell := range cells {
			sb.WriteString(" ")
			if i == len(cells)-1 {
				sb.WriteString(style.Render(cell))
				continue
			}
			sb.WriteString(style.Width(widths[i] + 1).Render(cell))
		}
		sb.WriteString("\n")
	}

	writeRow(header, KeyStyle)
	for _, row := range rows {
		writeRow(row, lipgloss.NewStyle())
	}
	return sb.String()
}
