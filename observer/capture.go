package observer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/webperf-tools/vitaltop/model"
)

// captureLine is one raw observation entry as captured from the browser:
// a JSON object per line with a type discriminant and a millisecond offset
// from the start of the capture.
type captureLine struct {
	Type            string              `json:"type"`
	Offset          float64             `json:"offset,omitempty"`
	Name            string              `json:"name,omitempty"`
	StartTime       float64             `json:"startTime,omitempty"`
	ProcessingStart float64             `json:"processingStart,omitempty"`
	Value           float64             `json:"value,omitempty"`
	HadRecentInput  bool                `json:"hadRecentInput,omitempty"`
	Sources         []model.ShiftSource `json:"sources,omitempty"`
	RequestStart    float64             `json:"requestStart,omitempty"`
	ResponseStart   float64             `json:"responseStart,omitempty"`
	LoadEventEnd    float64             `json:"loadEventEnd,omitempty"`
}

// decode turns a raw line into its tagged entry variant. This is the one
// place raw type strings are interpreted; everything downstream dispatches
// on the concrete type.
func (l captureLine) decode() (model.Entry, error) {
	switch model.EntryKind(l.Type) {
	case model.KindPaint:
		return model.PaintEntry{Name: l.Name, StartTime: l.StartTime}, nil
	case model.KindFirstInput:
		return model.FirstInputEntry{StartTime: l.StartTime, ProcessingStart: l.ProcessingStart}, nil
	case model.KindLayoutShift:
		return model.LayoutShiftEntry{Value: l.Value, HadRecentInput: l.HadRecentInput, Sources: l.Sources}, nil
	case model.KindNavigation:
		return model.NavigationEntry{RequestStart: l.RequestStart, ResponseStart: l.ResponseStart, LoadEventEnd: l.LoadEventEnd}, nil
	default:
		return nil, fmt.Errorf("unknown entry type %q", l.Type)
	}
}

func encodeLine(e model.Entry, offset float64) captureLine {
	switch v := e.(type) {
	case model.PaintEntry:
		return captureLine{Type: string(model.KindPaint), Offset: offset, Name: v.Name, StartTime: v.StartTime}
	case model.FirstInputEntry:
		return captureLine{Type: string(model.KindFirstInput), Offset: offset, StartTime: v.StartTime, ProcessingStart: v.ProcessingStart}
	case model.LayoutShiftEntry:
		return captureLine{Type: string(model.KindLayoutShift), Offset: offset, Value: v.Value, HadRecentInput: v.HadRecentInput, Sources: v.Sources}
	case model.NavigationEntry:
		return captureLine{Type: string(model.KindNavigation), Offset: offset, RequestStart: v.RequestStart, ResponseStart: v.ResponseStart, LoadEventEnd: v.LoadEventEnd}
	default:
		return captureLine{}
	}
}

// frame is one decoded capture entry with its offset.
type frame struct {
	offset time.Duration
	entry  model.Entry
}

// Capture holds a decoded observation capture for replay.
type Capture struct {
	frames []frame
}

// NewCapture reads a JSONL capture. Malformed or unknown lines are skipped
// so a truncated capture still replays.
func NewCapture(r io.Reader) (*Capture, error) {
	c := &Capture{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var line captureLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		e, err := line.decode()
		if err != nil {
			continue
		}
		c.frames = append(c.frames, frame{
			offset: time.Duration(line.Offset * float64(time.Millisecond)),
			entry:  e,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	return c, nil
}

// Len returns the number of replayable entries.
func (c *Capture) Len() int { return len(c.frames) }

// Replay publishes every entry immediately, in capture order.
func (c *Capture) Replay(bus *Bus) {
	for _, f := range c.frames {
		bus.Publish(f.entry)
	}
}

// ReplayPaced publishes entries with the recorded inter-entry spacing,
// until done or ctx is cancelled.
func (c *Capture) ReplayPaced(ctx context.Context, bus *Bus) error {
	var elapsed time.Duration
	for _, f := range c.frames {
		if wait := f.offset - elapsed; wait > 0 {
			select {
			case <-time.After(wait):
				elapsed = f.offset
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		bus.Publish(f.entry)
	}
	return nil
}

// FeedStream decodes JSONL entries from r and publishes them as they
// arrive, until EOF or ctx is cancelled. Used for live stdin feeds.
// Malformed lines are skipped, matching capture replay.
func FeedStream(ctx context.Context, r io.Reader, bus *Bus) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var line captureLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if e, err := line.decode(); err == nil {
			bus.Publish(e)
		}
	}
	return scanner.Err()
}
