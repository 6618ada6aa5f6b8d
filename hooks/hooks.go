// Package hooks adapts the UI framework's render and effect lifecycle to
// the interval tracker. All adapters are inert when the tracker is
// disabled: wrapped work still runs, nothing is measured.
package hooks

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/webperf-tools/vitaltop/tracker"
)

// RenderTimer measures one component's render cycles: from the start of an
// update to the point its post-render effects run. The start marker resets
// after each measurement so consecutive renders measure independently.
type RenderTimer struct {
	name    string
	tracker *tracker.Tracker
	started bool
	cycles  int
}

// NewRenderTimer creates a timer for the named component.
func NewRenderTimer(name string, tr *tracker.Tracker) *RenderTimer {
	return &RenderTimer{name: name, tracker: tr}
}

// RenderStart marks the beginning of a render cycle. Two updates before a
// view re-arm the interval on the newest one.
func (r *RenderTimer) RenderStart() {
	r.started = true
	r.tracker.Start(r.name, nil)
}

// EffectsDone closes the cycle begun by the last RenderStart, if any.
func (r *RenderTimer) EffectsDone() {
	if !r.started {
		return
	}
	r.started = false
	r.cycles++
	r.tracker.End(r.name, map[string]any{"cycle": r.cycles})
}

// Effect wraps a synchronous side effect with a measured interval.
func Effect(tr *tracker.Tracker, name string, fn func() error) error {
	return tr.Measure(name, fn, nil)
}

// AsyncEffect wraps an asynchronous side effect with a measured interval
// and discards the result. Failures still land in the interval's error
// metadata before being dropped.
func AsyncEffect(tr *tracker.Tracker, name string, fn func() error) {
	_ = tr.MeasureAsync(name, fn, nil)
}

// TimedUpdate measures a state mutation until the next event-loop turn,
// approximating "until the next render" rather than the call itself.
func TimedUpdate(tr *tracker.Tracker, sched Scheduler, name string, apply func()) {
	tr.Start(name, nil)
	apply()
	sched.Defer(func() { tr.End(name, nil) })
}

// Instrumented wraps a bubbletea model so every Update→View cycle is
// measured through a RenderTimer.
type Instrumented struct {
	inner tea.Model
	timer *RenderTimer
}

// Instrument wraps m; name labels its intervals in reports.
func Instrument(m tea.Model, name string, tr *tracker.Tracker) Instrumented {
	return Instrumented{inner: m, timer: NewRenderTimer(name, tr)}
}

func (m Instrumented) Init() tea.Cmd { return m.inner.Init() }

func (m Instrumented) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.timer.RenderStart()
	inner, cmd := m.inner.Update(msg)
	m.inner = inner
	return m, cmd
}

func (m Instrumented) View() string {
	s := m.inner.View()
	m.timer.EffectsDone()
	return s
}
