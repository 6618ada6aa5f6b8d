package model

import "time"

// MetricName identifies a core web vital.
type MetricName string

const (
	MetricFCP  MetricName = "FCP"
	MetricTTFB MetricName = "TTFB"
	MetricLCP  MetricName = "LCP"
	MetricFID  MetricName = "FID"
	MetricCLS  MetricName = "CLS"
)

// Rating buckets a metric value against its published thresholds.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// Metric is one classified vitals measurement. A name can be recorded many
// times; only the most recent per name is "current" for reporting.
type Metric struct {
	Name      MetricName `json:"name"`
	Value     float64    `json:"value"`
	Rating    Rating     `json:"rating"`
	Timestamp time.Time  `json:"timestamp"`
}
