package model

// EntryKind discriminates decoded observation entries.
type EntryKind string

const (
	KindPaint       EntryKind = "paint"
	KindFirstInput  EntryKind = "first-input"
	KindLayoutShift EntryKind = "layout-shift"
	KindNavigation  EntryKind = "navigation"
)

// Entry is a performance observation entry, decoded once at the capture
// boundary into a concrete variant and dispatched by kind.
type Entry interface {
	Kind() EntryKind
}

// PaintEntry reports a paint timing mark ("first-paint" or
// "first-contentful-paint"). Times are milliseconds since navigation start.
type PaintEntry struct {
	Name      string  `json:"name"`
	StartTime float64 `json:"startTime"`
}

func (PaintEntry) Kind() EntryKind { return KindPaint }

// FirstInputEntry reports the first user input and when its handler ran.
type FirstInputEntry struct {
	StartTime       float64 `json:"startTime"`
	ProcessingStart float64 `json:"processingStart"`
}

func (FirstInputEntry) Kind() EntryKind { return KindFirstInput }

// LayoutShiftEntry reports one layout movement with the elements involved.
type LayoutShiftEntry struct {
	Value          float64       `json:"value"`
	HadRecentInput bool          `json:"hadRecentInput"`
	Sources        []ShiftSource `json:"sources,omitempty"`
}

func (LayoutShiftEntry) Kind() EntryKind { return KindLayoutShift }

// NavigationEntry carries the request/response timing of the page load.
type NavigationEntry struct {
	RequestStart  float64 `json:"requestStart"`
	ResponseStart float64 `json:"responseStart"`
	LoadEventEnd  float64 `json:"loadEventEnd,omitempty"`
}

func (NavigationEntry) Kind() EntryKind { return KindNavigation }
