package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/bryanwahyu/triagedesk/internal/i18n"
)

// TerminalOptions controls the CLI rendering.
type TerminalOptions struct {
	Width int
	Style string // glamour standard style: dark, light, notty, ascii
}

var terminalColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("#22c55e"),
	"lime":   lipgloss.Color("#84cc16"),
	"yellow": lipgloss.Color("#eab308"),
	"orange": lipgloss.Color("#f97316"),
	"red":    lipgloss.Color("#ef4444"),
	"gray":   lipgloss.Color("#6b7280"),
}

const barCells = 20

// Terminal renders a view for a terminal. Network text is stripped of control
// characters before it reaches the terminal.
func Terminal(v View, loc i18n.Localizer, opts TerminalOptions) (string, error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}

	heading := lipgloss.NewStyle().Bold(true)
	label := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	if v.Pathology != nil {
		p := v.Pathology
		badge := lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).
			Background(terminalColors[p.Badge.Color])

		fmt.Fprintf(&b, "%s  %s\n\n",
			heading.Render(loc.T(i18n.ResultPrediagnosis)),
			badge.Render(loc.T(i18n.SeverityTitle)+" "+p.SeverityLabel))
		fmt.Fprintf(&b, "%s\n", heading.Render(StripControl(p.Name)))
		if p.Urgency != "" {
			fmt.Fprintf(&b, "%s\n", StripControl(p.Urgency))
		}
		fmt.Fprintf(&b, "\n%s %s %s\n", label.Render(loc.T(i18n.ResultConfidence)), p.ConfidenceLabel, bar(p.Confidence))
		if p.Specialist != "" {
			fmt.Fprintf(&b, "%s %s\n", label.Render(loc.T(i18n.ResultSpecialist)), StripControl(p.Specialist))
		}
		if p.Advice != "" {
			fmt.Fprintf(&b, "%s %s\n", label.Render(loc.T(i18n.ResultAdvice)), StripControl(p.Advice))
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", heading.Render(loc.T(i18n.ResultIncomplete)))
	}

	if text := StripControl(v.AnalysisText); text != "" {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(opts.Style),
			glamour.WithWordWrap(opts.Width),
		)
		if err != nil {
			return "", fmt.Errorf("terminal renderer: %w", err)
		}
		out, err := r.Render(text)
		if err != nil {
			return "", fmt.Errorf("render analysis: %w", err)
		}
		b.WriteString(out)
	}

	if len(v.Sources) > 0 {
		fmt.Fprintf(&b, "%s\n", heading.Render(loc.T(i18n.ResultSources)))
		for i, s := range v.Sources {
			fmt.Fprintf(&b, "%2d. %s (%s %s)", i+1, StripControl(s.Label), loc.T(i18n.ResultSimilarity), s.SimilarityLabel)
			if s.Description != "" {
				fmt.Fprintf(&b, " - %s", StripControl(s.Description))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s %s\n", label.Render(loc.T(i18n.ResultDisclaimer)), StripControl(v.Disclaimer))
	return b.String(), nil
}

func bar(score float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, score)) * barCells))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barCells-filled) + "]"
}

// StripControl removes control characters (escape sequences included) but keeps newlines and tabs.
func StripControl(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || (r >= 32 && r != 0x7f && !(r >= 0x80 && r < 0xa0)) {
			out.WriteRune(r)
		}
	}
	return strings.TrimSpace(out.String())
}
