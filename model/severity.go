package model

import "time"

// Severity grades a single measurement for log coloring.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DurationSeverity grades an interval duration: ≤50ms low, ≤100ms medium,
// above that high.
func DurationSeverity(d time.Duration) Severity {
	switch {
	case d <= 50*time.Millisecond:
		return SeverityLow
	case d <= 100*time.Millisecond:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// ShiftSeverity grades a single layout-shift score.
func ShiftSeverity(score float64) Severity {
	switch {
	case score < 0.01:
		return SeverityLow
	case score < 0.1:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// WindowRating grades a cumulative windowed shift score on the CLS scale.
func WindowRating(total float64) Rating {
	switch {
	case total > 0.25:
		return RatingPoor
	case total > 0.1:
		return RatingNeedsImprovement
	default:
		return RatingGood
	}
}
