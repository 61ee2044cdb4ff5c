package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"abacus/internal/calculator"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	tierStyles = map[calculator.RiskLevel]lipgloss.Style{
		calculator.RiskLow:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")), // green
		calculator.RiskMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")), // yellow
		calculator.RiskHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),  // red
	}
)

func renderList(w io.Writer, descs []calculator.Descriptor) {
	width := 0
	for _, d := range descs {
		width = max(width, len(d.ID))
	}
	current := ""
	for _, d := range descs {
		if d.Category != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			current = d.Category
			fmt.Fprintln(w, headerStyle.Render(current))
		}
		fmt.Fprintf(w, "  %-*s  %s\n", width, d.ID, dimStyle.Render(d.Name))
	}
}

func renderDescriptor(w io.Writer, d calculator.Descriptor) {
	fmt.Fprintf(w, "%s (%s)\n", headerStyle.Render(d.Name), d.ID)
	fmt.Fprintf(w, "%s\n\n", d.Description)
	fmt.Fprintf(w, "Category: %s\n", d.Category)
	if d.Unit != "" {
		fmt.Fprintf(w, "Unit:     %s\n", d.Unit)
	}
	fmt.Fprintln(w, "Fields:")
	for _, f := range d.Fields {
		line := "  " + f.Name
		if f.Unit != "" {
			line += " [" + f.Unit + "]"
		}
		line += "  " + f.Label
		if !f.Required {
			line += dimStyle.Render(" (optional)")
		}
		if len(f.Choices) > 0 {
			line += dimStyle.Render(" one of: " + strings.Join(f.Choices, ", "))
		}
		fmt.Fprintln(w, line)
	}
}

func renderResult(w io.Writer, r *calculator.Result) {
	value := formatFloat(r.Value)
	if r.Unit != "" {
		value += " " + r.Unit
	}
	fmt.Fprintf(w, "%s  %s\n", headerStyle.Render(value), tierStyles[r.Analysis.RiskLevel].Render(string(r.Analysis.RiskLevel)))
	for _, f := range r.Breakdown {
		fmt.Fprintf(w, "  %s: %s\n", f.Name, formatFloat(f.Value))
	}
	fmt.Fprintln(w, r.Analysis.Recommendation)
	for _, warn := range r.Warnings {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("warning: %s: %s", warn.Field, warn.Message)))
	}
}

func renderFieldErrors(w io.Writer, err error) {
	for _, fe := range fieldErrors(err) {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("  %s: %s", fe.Field, fe.Message)))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(calculator.Round(v, 2), 'f', -1, 64)
}
