package vitals

import "github.com/webperf-tools/vitaltop/model"

// Published good / needs-improvement upper bounds per metric. The lower
// bound of each tier is inclusive: an LCP of exactly 2500ms is still good.
var thresholds = map[model.MetricName][2]float64{
	model.MetricLCP:  {2500, 4000},
	model.MetricFID:  {100, 300},
	model.MetricCLS:  {0.1, 0.25},
	model.MetricFCP:  {1800, 3000},
	model.MetricTTFB: {800, 1800},
}

// Rate classifies a metric value against its thresholds. Unknown names
// rate as good so a new metric can never alarm by accident.
func Rate(name model.MetricName, value float64) model.Rating {
	t, ok := thresholds[name]
	if !ok {
		return model.RatingGood
	}
	switch {
	case value <= t[0]:
		return model.RatingGood
	case value <= t[1]:
		return model.RatingNeedsImprovement
	default:
		return model.RatingPoor
	}
}
