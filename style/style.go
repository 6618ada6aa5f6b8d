package style

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/webperf-tools/vitaltop/model"
)

var (
	// Colors
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")

	Title    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	Label    = lipgloss.NewStyle().Foreground(colorGray)
	Value    = lipgloss.NewStyle().Foreground(colorWhite)
	Dim      = lipgloss.NewStyle().Foreground(colorGray)
	OK       = lipgloss.NewStyle().Foreground(colorGreen)
	Warn     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	Crit     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1)
)

// Severity maps a measurement severity to its style.
func Severity(sev model.Severity) lipgloss.Style {
	switch sev {
	case model.SeverityHigh:
		return Crit
	case model.SeverityMedium:
		return Warn
	default:
		return OK
	}
}

// Rating maps a vitals rating to its style.
func Rating(r model.Rating) lipgloss.Style {
	switch r {
	case model.RatingPoor:
		return Crit
	case model.RatingNeedsImprovement:
		return Warn
	default:
		return OK
	}
}

// Duration renders a duration colored by its severity.
func Duration(d time.Duration) string {
	return Severity(model.DurationSeverity(d)).Render(fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000))
}

// Score renders a single shift score colored by its severity.
func Score(score float64) string {
	return Severity(model.ShiftSeverity(score)).Render(fmt.Sprintf("%.4f", score))
}

// MetricValue renders a vitals value with its unit, colored by rating.
func MetricValue(m model.Metric) string {
	s := Rating(m.Rating)
	if m.Name == model.MetricCLS {
		return s.Render(fmt.Sprintf("%.4f", m.Value))
	}
	return s.Render(fmt.Sprintf("%.0fms", m.Value))
}
