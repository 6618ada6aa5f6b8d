package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/webperf-tools/vitaltop/model"
)

const sampleCapture = `{"type":"navigation","requestStart":10,"responseStart":420}
{"type":"paint","offset":900,"name":"first-contentful-paint","startTime":900}
this line is garbage
{"type":"wibble","offset":950}
{"type":"layout-shift","offset":1200,"value":0.05,"hadRecentInput":false}
{"type":"first-input","offset":3000,"startTime":3000,"processingStart":3040}
`

func TestCaptureSkipsMalformedLines(t *testing.T) {
	capture, err := NewCapture(strings.NewReader(sampleCapture))
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if capture.Len() != 4 {
		t.Errorf("Len = %d, want 4 (garbage and unknown types skipped)", capture.Len())
	}
}

func TestCaptureReplayPublishesDecodedEntries(t *testing.T) {
	capture, err := NewCapture(strings.NewReader(sampleCapture))
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}

	bus := NewBus()
	var kinds []model.EntryKind
	_, err = bus.Subscribe(func(e model.Entry) { kinds = append(kinds, e.Kind()) },
		model.KindPaint, model.KindFirstInput, model.KindLayoutShift, model.KindNavigation)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	capture.Replay(bus)

	want := []model.EntryKind{model.KindNavigation, model.KindPaint, model.KindLayoutShift, model.KindFirstInput}
	if len(kinds) != len(want) {
		t.Fatalf("replayed %d entries, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("entry %d kind = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	src := NewBus()
	var buf bytes.Buffer
	rec, err := NewRecorder(src, &buf)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	src.Publish(model.PaintEntry{Name: "first-contentful-paint", StartTime: 1100})
	src.Publish(model.LayoutShiftEntry{
		Value: 0.07,
		Sources: []model.ShiftSource{{
			Element:     &model.Element{Tag: "img", ID: "cover"},
			CurrentRect: model.Rect{Y: 50, Width: 100, Height: 100},
		}},
	})
	rec.Close()
	rec.Close() // idempotent

	src.Publish(model.PaintEntry{Name: "first-paint"}) // after Close, not recorded

	capture, err := NewCapture(&buf)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if capture.Len() != 2 {
		t.Fatalf("recorded %d entries, want 2", capture.Len())
	}

	dst := NewBus()
	var shifts []model.LayoutShiftEntry
	if _, err := dst.Subscribe(func(e model.Entry) {
		if ls, ok := e.(model.LayoutShiftEntry); ok {
			shifts = append(shifts, ls)
		}
	}, model.KindLayoutShift); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	capture.Replay(dst)

	if len(shifts) != 1 {
		t.Fatalf("replayed %d shifts, want 1", len(shifts))
	}
	if shifts[0].Value != 0.07 {
		t.Errorf("shift value = %v, want 0.07", shifts[0].Value)
	}
	if len(shifts[0].Sources) != 1 || shifts[0].Sources[0].Element.ID != "cover" {
		t.Errorf("shift sources did not survive the round trip: %+v", shifts[0].Sources)
	}
}

func TestFeedStream(t *testing.T) {
	bus := NewBus()
	count := 0
	if _, err := bus.Subscribe(func(model.Entry) { count++ },
		model.KindPaint, model.KindLayoutShift); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	input := `{"type":"paint","name":"first-paint","startTime":100}
{"type":"layout-shift","value":0.01}
`
	if err := FeedStream(context.Background(), strings.NewReader(input), bus); err != nil {
		t.Fatalf("FeedStream: %v", err)
	}
	if count != 2 {
		t.Errorf("delivered %d entries, want 2", count)
	}
}
