package observer

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/webperf-tools/vitaltop/model"
)

// Recorder tees every entry published on a bus back out as JSONL, with
// offsets relative to when recording started, for later replay.
type Recorder struct {
	enc   *json.Encoder
	start time.Time
	sub   *Subscription
	mu    sync.Mutex
}

// NewRecorder subscribes to all entry kinds on bus and writes JSON lines
// to w. Call Close to detach.
func NewRecorder(bus *Bus, w io.Writer) (*Recorder, error) {
	r := &Recorder{enc: json.NewEncoder(w), start: time.Now()}
	sub, err := bus.Subscribe(r.record,
		model.KindPaint, model.KindFirstInput, model.KindLayoutShift, model.KindNavigation)
	if err != nil {
		return nil, err
	}
	r.sub = sub
	return r, nil
}

func (r *Recorder) record(e model.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offset := float64(time.Since(r.start)) / float64(time.Millisecond)
	// Encode errors are swallowed; recording must never break observation.
	_ = r.enc.Encode(encodeLine(e, offset))
}

// Close detaches the recorder from the bus. Idempotent.
func (r *Recorder) Close() {
	r.sub.Unsubscribe()
}
