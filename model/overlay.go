package model

import "time"

// ElementEntry pairs a selector with its accumulated shift stats.
type ElementEntry struct {
	Selector string       `json:"selector"`
	Stats    ElementStats `json:"stats"`
}

// Overlay is the structured snapshot the reporting facade hands to the UI
// overlay and the one-shot JSON output. The facade owns no collector state;
// it assembles this from accessor calls at snapshot time.
type Overlay struct {
	Timestamp     time.Time      `json:"timestamp"`
	Vitals        []Metric       `json:"vitals"`
	ShiftScore    float64        `json:"shiftScore"`
	ShiftRating   Rating         `json:"shiftRating"`
	ShiftCount    int            `json:"shiftCount"`
	TopElements   []ElementEntry `json:"topElements,omitempty"`
	SlowIntervals []Interval     `json:"slowIntervals,omitempty"`
}
