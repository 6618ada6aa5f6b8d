package tracker

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/style"
	"github.com/webperf-tools/vitaltop/util"
)

// Tracker is a named start/end timer for ad-hoc operation measurement.
// A disabled tracker (any mode but development) is a complete no-op:
// wrapped functions still run, nothing is recorded or logged.
type Tracker struct {
	mu        sync.Mutex
	enabled   bool
	now       func() time.Time
	log       *zap.SugaredLogger
	out       io.Writer
	pending   map[string]*model.Interval
	completed []model.Interval
}

// New creates a tracker. log may be nil.
func New(enabled bool, log *zap.SugaredLogger) *Tracker {
	if log == nil {
		log = util.NopLogger()
	}
	return &Tracker{
		enabled: enabled,
		now:     time.Now,
		log:     log,
		out:     os.Stdout,
		pending: map[string]*model.Interval{},
	}
}

// SetClock injects the time source. Tests use a fake clock.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// SetOutput redirects PrintReport and completion lines.
func (t *Tracker) SetOutput(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = w
}

// Enabled reports whether the tracker records anything.
func (t *Tracker) Enabled() bool { return t.enabled }

// Start records the current time under name, overwriting any previous
// unterminated interval of the same name (last start wins, metadata
// replaced, no stacking).
func (t *Tracker) Start(name string, metadata map[string]any) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	t.pending[name] = &model.Interval{
		Name:      name,
		StartTime: t.now(),
		Metadata:  cloneMeta(metadata),
	}
	t.mu.Unlock()
	t.log.Debugf("interval %q started", name)
}

// End completes the interval for name and returns its duration. Ending a
// name that was never started is a warning, not an error: it returns
// (0, false) and records nothing.
func (t *Tracker) End(name string, metadata map[string]any) (time.Duration, bool) {
	if !t.enabled {
		return 0, false
	}
	t.mu.Lock()
	rec, ok := t.pending[name]
	if !ok {
		t.mu.Unlock()
		t.log.Warnf("interval %q ended without a matching start", name)
		return 0, false
	}
	delete(t.pending, name)
	rec.EndTime = t.now()
	rec.Duration = rec.EndTime.Sub(rec.StartTime)
	rec.Done = true
	if len(metadata) > 0 {
		if rec.Metadata == nil {
			rec.Metadata = map[string]any{}
		}
		for k, v := range metadata {
			rec.Metadata[k] = v
		}
	}
	t.completed = append(t.completed, *rec)
	out := t.out
	t.mu.Unlock()

	fmt.Fprintf(out, "%s %s %s\n",
		style.Dim.Render("interval"), name, style.Duration(rec.Duration))
	return rec.Duration, true
}

// Measure times a synchronous operation. If fn fails or panics the
// interval is still closed with error metadata before the failure reaches
// the caller unchanged.
func (t *Tracker) Measure(name string, fn func() error, metadata map[string]any) error {
	if !t.enabled {
		return fn()
	}
	t.Start(name, metadata)
	defer func() {
		if r := recover(); r != nil {
			t.End(name, map[string]any{"error": fmt.Sprint(r)})
			panic(r)
		}
	}()
	if err := fn(); err != nil {
		t.End(name, map[string]any{"error": err.Error()})
		return err
	}
	t.End(name, nil)
	return nil
}

// MeasureAsync times an operation that completes on its own goroutine.
// The interval is closed only once fn settles; failures are captured into
// the interval's metadata and also delivered on the returned channel.
// Callers that do not care about the result may drop the channel.
func (t *Tracker) MeasureAsync(name string, fn func() error, metadata map[string]any) <-chan error {
	done := make(chan error, 1)
	if !t.enabled {
		go func() { done <- fn() }()
		return done
	}
	t.Start(name, metadata)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.End(name, map[string]any{"error": fmt.Sprint(r)})
				done <- fmt.Errorf("measured operation panicked: %v", r)
			}
		}()
		err := fn()
		if err != nil {
			t.End(name, map[string]any{"error": err.Error()})
		} else {
			t.End(name, nil)
		}
		done <- err
	}()
	return done
}

// Report returns a copy of all completed intervals.
func (t *Tracker) Report() []model.Interval {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Interval, len(t.completed))
	copy(out, t.completed)
	return out
}

// PrintReport writes completed intervals sorted by descending duration.
func (t *Tracker) PrintReport() {
	if !t.enabled {
		return
	}
	recs := t.Report()
	sort.Slice(recs, func(i, j int) bool { return recs[i].Duration > recs[j].Duration })

	t.mu.Lock()
	out := t.out
	t.mu.Unlock()

	fmt.Fprintln(out, style.Title.Render("── Custom Metrics ──"))
	if len(recs) == 0 {
		fmt.Fprintln(out, style.Dim.Render("  no completed intervals"))
		return
	}
	for _, r := range recs {
		fmt.Fprintf(out, "  %-32s %s\n", r.Name, style.Duration(r.Duration))
		if errv, ok := r.Metadata["error"]; ok {
			fmt.Fprintf(out, "    %s %v\n", style.Crit.Render("error:"), errv)
		}
	}
}

// Clear empties all pending and completed records.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = map[string]*model.Interval{}
	t.completed = nil
}

func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
