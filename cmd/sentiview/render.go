package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

const barCells = 30

type textStyles struct {
	positive lipgloss.Style
	negative lipgloss.Style
	dim      lipgloss.Style
	summary  lipgloss.Style
}

// newRenderer builds the styles for w. mode is auto, always or never.
func newRenderer(w io.Writer, mode string) textStyles {
	r := lipgloss.NewRenderer(w)
	switch strings.ToLower(mode) {
	case "never":
		r.SetColorProfile(termenv.Ascii)
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	default:
		if os.Getenv("NO_COLOR") != "" {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return textStyles{
		positive: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}).Bold(true),
		negative: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}).Bold(true),
		dim:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		summary:  r.NewStyle().Bold(true),
	}
}

func (s textStyles) label(l sentiment.Label) lipgloss.Style {
	if l == sentiment.Positive {
		return s.positive
	}
	return s.negative
}

// renderText prints the per-sentence listing, the summary line and a bar
// per label scaled to the larger count.
func renderText(w io.Writer, report sentiment.Report, st textStyles) error {
	var b strings.Builder
	for i, res := range report.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", st.dim.Render("Sentence:"), res.Utterance)
		fmt.Fprintf(&b, "%s %s\n", st.dim.Render("Analysis:"), st.label(res.Label).Render(res.Label.Icon()))
	}
	b.WriteString("\n")
	b.WriteString(st.summary.Render(report.Summary()))
	b.WriteString("\n\n")
	b.WriteString(bars(report.Counts, st))
	_, err := io.WriteString(w, b.String())
	return err
}

func bars(c sentiment.Counts, st textStyles) string {
	rows := []struct {
		label sentiment.Label
		n     int
	}{
		{sentiment.Positive, c.Positive},
		{sentiment.Negative, c.Negative},
	}
	top := max(c.Positive, c.Negative)
	var b strings.Builder
	for _, row := range rows {
		cells := 0
		if top > 0 {
			cells = (row.n*barCells + top - 1) / top
		}
		name := fmt.Sprintf("%-8s", row.label.String())
		fmt.Fprintf(&b, "%s %s %d\n", name, st.label(row.label).Render(strings.Repeat("█", cells)), row.n)
	}
	return b.String()
}
