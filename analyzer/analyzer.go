package analyzer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/observer"
	"github.com/webperf-tools/vitaltop/style"
	"github.com/webperf-tools/vitaltop/util"
)

// DefaultWindow is the trailing window TotalScore sums over.
const DefaultWindow = 5 * time.Second

// Analyzer classifies and aggregates unexpected layout movement. It keeps
// every non-input shift for the session; only the live score is windowed.
// History is emptied solely by Clear.
type Analyzer struct {
	mu     sync.Mutex
	shifts []model.Shift
	sub    *observer.Subscription
	now    func() time.Time
	window time.Duration
	log    *zap.SugaredLogger
	out    io.Writer
}

// New creates an analyzer and, when enabled (development mode), subscribes
// to the layout-shift stream. A failed subscription leaves the analyzer in
// a degraded, non-observing state.
func New(bus *observer.Bus, enabled bool, log *zap.SugaredLogger) *Analyzer {
	if log == nil {
		log = util.NopLogger()
	}
	a := &Analyzer{
		now:    time.Now,
		window: DefaultWindow,
		log:    log,
		out:    os.Stdout,
	}
	if !enabled {
		return a
	}
	sub, err := bus.Subscribe(a.handle, model.KindLayoutShift)
	if err != nil {
		log.Warnf("layout-shift observation unavailable: %v", err)
		return a
	}
	a.sub = sub
	return a
}

// SetClock injects the time source.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// SetWindow overrides the trailing score window.
func (a *Analyzer) SetWindow(w time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.window = w
}

// SetOutput redirects PrintReport.
func (a *Analyzer) SetOutput(w io.Writer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out = w
}

func (a *Analyzer) handle(e model.Entry) {
	ls, ok := e.(model.LayoutShiftEntry)
	if !ok {
		return
	}
	// Input-driven movement is expected, not instability.
	if ls.HadRecentInput {
		return
	}
	a.mu.Lock()
	shift := model.Shift{Score: ls.Value, Timestamp: a.now(), Sources: ls.Sources}
	a.shifts = append(a.shifts, shift)
	a.mu.Unlock()
	a.logShift(shift)
}

func (a *Analyzer) logShift(s model.Shift) {
	a.log.Debugf("layout shift score=%.4f severity=%s sources=%d",
		s.Score, model.ShiftSeverity(s.Score), len(s.Sources))
	for _, src := range s.Sources {
		prev, curr := src.PreviousRect, src.CurrentRect
		a.log.Debugf("  %s moved (%.0f,%.0f %gx%g) -> (%.0f,%.0f %gx%g) d=(%+.0f,%+.0f %+g x %+g)",
			Selector(src.Element),
			prev.X, prev.Y, prev.Width, prev.Height,
			curr.X, curr.Y, curr.Width, curr.Height,
			curr.X-prev.X, curr.Y-prev.Y, curr.Width-prev.Width, curr.Height-prev.Height)
	}
}

// Count returns the number of recorded shifts.
func (a *Analyzer) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.shifts)
}

// Shifts returns a copy of the full shift history.
func (a *Analyzer) Shifts() []model.Shift {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Shift, len(a.shifts))
	copy(out, a.shifts)
	return out
}

// TotalScore sums the scores of shifts within the trailing window of now.
// The window is recomputed per call; history is not pruned.
func (a *Analyzer) TotalScore() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	cutoff := a.now().Add(-a.window)
	var total float64
	for _, s := range a.shifts {
		if !s.Timestamp.Before(cutoff) {
			total += s.Score
		}
	}
	return total
}

// ShiftsByElement groups all historical shift sources by selector.
func (a *Analyzer) ShiftsByElement() map[string]model.ElementStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := map[string]model.ElementStats{}
	for _, s := range a.shifts {
		for _, src := range s.Sources {
			sel := Selector(src.Element)
			st := out[sel]
			st.Count++
			st.TotalScore += s.Score
			out[sel] = st
		}
	}
	for sel, st := range out {
		st.AvgScore = st.TotalScore / float64(st.Count)
		out[sel] = st
	}
	return out
}

// TopElements returns up to n selectors sorted by descending total score.
func (a *Analyzer) TopElements(n int) []model.ElementEntry {
	byEl := a.ShiftsByElement()
	entries := make([]model.ElementEntry, 0, len(byEl))
	for sel, st := range byEl {
		entries = append(entries, model.ElementEntry{Selector: sel, Stats: st})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Stats.TotalScore != entries[j].Stats.TotalScore {
			return entries[i].Stats.TotalScore > entries[j].Stats.TotalScore
		}
		return entries[i].Selector < entries[j].Selector
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// PrintReport writes the windowed total and the top-10 shifted elements.
func (a *Analyzer) PrintReport() {
	total := a.TotalScore()
	top := a.TopElements(10)

	a.mu.Lock()
	out := a.out
	window := a.window
	a.mu.Unlock()

	fmt.Fprintln(out, style.Title.Render("── Layout Shifts ──"))
	rating := model.WindowRating(total)
	fmt.Fprintf(out, "  windowed score (%s): %s (%s)\n",
		window, style.Rating(rating).Render(fmt.Sprintf("%.4f", total)), rating)
	if len(top) == 0 {
		fmt.Fprintln(out, style.Dim.Render("  no shifts recorded"))
		return
	}
	for _, e := range top {
		sev := model.ShiftSeverity(e.Stats.AvgScore)
		fmt.Fprintf(out, "  %-48s x%-3d total=%.4f avg=%s\n",
			e.Selector, e.Stats.Count, e.Stats.TotalScore,
			style.Severity(sev).Render(fmt.Sprintf("%.4f", e.Stats.AvgScore)))
	}
}

// Clear empties the shift history.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shifts = nil
}

// Destroy detaches the observation subscription. Idempotent.
func (a *Analyzer) Destroy() {
	a.sub.Unsubscribe()
}
