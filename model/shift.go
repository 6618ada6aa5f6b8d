package model

import "time"

// Rect is a bounding rectangle in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a lightweight reference to a DOM node, enough to derive a
// diagnostic selector. Parent is nil for the document root's children.
type Element struct {
	Tag     string   `json:"tag"`
	ID      string   `json:"id,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Parent  *Element `json:"parent,omitempty"`
}

// ShiftSource attributes part of a layout shift to one element.
type ShiftSource struct {
	Element      *Element `json:"element,omitempty"`
	PreviousRect Rect     `json:"previousRect"`
	CurrentRect  Rect     `json:"currentRect"`
}

// Shift is one recorded unexpected layout movement. Entries that had
// recent input never become a Shift.
type Shift struct {
	Score     float64       `json:"score"`
	Timestamp time.Time     `json:"timestamp"`
	Sources   []ShiftSource `json:"sources,omitempty"`
}

// ElementStats accumulates shift attribution for a single selector.
type ElementStats struct {
	Count      int     `json:"count"`
	TotalScore float64 `json:"totalScore"`
	AvgScore   float64 `json:"avgScore"`
}
