package hooks

import "time"

// Scheduler defers work to the next turn of the event loop. TimedUpdate
// uses it so a measured state change runs to roughly the next render, not
// just the synchronous call.
type Scheduler interface {
	Defer(fn func())
}

// nextTurn schedules on a zero-delay timer, the closest equivalent of "run
// after the current turn finishes".
type nextTurn struct{}

func (nextTurn) Defer(fn func()) { time.AfterFunc(0, fn) }

// NextTurn returns the default scheduler.
func NextTurn() Scheduler { return nextTurn{} }

// Manual queues deferred work until Flush; tests use it to control when
// "the next turn" happens.
type Manual struct {
	queued []func()
}

func (m *Manual) Defer(fn func()) { m.queued = append(m.queued, fn) }

// Flush runs and drops everything queued so far.
func (m *Manual) Flush() {
	q := m.queued
	m.queued = nil
	for _, fn := range q {
		fn()
	}
}
