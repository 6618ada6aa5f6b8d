package engine

import (
	"testing"
	"time"

	"github.com/webperf-tools/vitaltop/model"
)

func snapAt(sec int) model.Overlay {
	return model.Overlay{Timestamp: time.Unix(int64(sec), 0)}
}

func TestHistoryRingBuffer(t *testing.T) {
	h := NewHistory(3)
	if h.Len() != 0 || h.Latest() != nil {
		t.Fatal("fresh history not empty")
	}

	for i := 1; i <= 5; i++ {
		h.Push(snapAt(i))
	}

	if h.Len() != 3 {
		t.Errorf("Len = %d, want capacity 3", h.Len())
	}
	if got := h.Latest(); got == nil || got.Timestamp != time.Unix(5, 0) {
		t.Errorf("Latest = %+v, want the t=5 snapshot", got)
	}
	if got := h.Get(0); got == nil || got.Timestamp != time.Unix(3, 0) {
		t.Errorf("Get(0) = %+v, want the oldest retained snapshot (t=3)", got)
	}
	if got := h.Get(3); got != nil {
		t.Errorf("Get(3) = %+v, want nil out of range", got)
	}
}
