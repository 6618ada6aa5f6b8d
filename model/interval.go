package model

import "time"

// Interval is a named start/end timing measurement. Identity is the name:
// re-starting a name overwrites its prior unterminated record.
type Interval struct {
	Name      string         `json:"name"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Done      bool           `json:"done"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
