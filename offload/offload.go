// Package offload runs heavyweight work (chart encoding, image
// processing) off the UI loop via message passing. Every submitted task
// carries a correlation key and is guaranteed to settle: success, explicit
// error, or timeout-forced failure. A worker that never replies cannot
// leak a pending entry.
package offload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds how long a task may stay pending.
const DefaultTimeout = 10 * time.Second

var (
	// ErrTimeout settles a task whose worker never replied in time.
	ErrTimeout = errors.New("offload: task timed out")
	// ErrClosed rejects submissions and pending tasks after Close.
	ErrClosed = errors.New("offload: pool closed")
)

// Worker processes one payload.
type Worker func(ctx context.Context, payload any) (any, error)

// Result is a settled task outcome.
type Result struct {
	Value any
	Err   error
}

// Task is a pending offloaded operation.
type Task struct {
	ID   uuid.UUID
	done chan Result
}

// Wait blocks until the task settles or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) (any, error) {
	select {
	case res := <-t.done:
		return res.Value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type job struct {
	id      uuid.UUID
	payload any
}

// Pool is a fixed-size worker pool with a pending-task registry keyed by
// correlation ID.
type Pool struct {
	worker  Worker
	timeout time.Duration
	jobs    chan job

	mu      sync.Mutex
	pending map[uuid.UUID]*Task
	closed  bool
	wg      sync.WaitGroup
}

// NewPool starts size workers. timeout <= 0 uses DefaultTimeout.
func NewPool(size int, timeout time.Duration, worker Worker) *Pool {
	if size < 1 {
		size = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Pool{
		worker:  worker,
		timeout: timeout,
		jobs:    make(chan job, size*2),
		pending: map[uuid.UUID]*Task{},
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		value, err := p.worker(ctx, j.payload)
		cancel()
		p.settle(j.id, Result{Value: value, Err: err})
	}
}

// Submit enqueues payload and returns its task handle. The enqueue happens
// under the pool mutex so a concurrent Close cannot close the job channel
// mid-send.
func (p *Pool) Submit(payload any) (*Task, error) {
	t := &Task{ID: uuid.New(), done: make(chan Result, 1)}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.pending[t.ID] = t
	var queued bool
	select {
	case p.jobs <- job{id: t.ID, payload: payload}:
		queued = true
	default:
	}
	p.mu.Unlock()

	// Forced settlement: even if the worker hangs past its context, the
	// pending entry is released.
	time.AfterFunc(p.timeout, func() {
		p.settle(t.ID, Result{Err: ErrTimeout})
	})

	if !queued {
		p.settle(t.ID, Result{Err: errors.New("offload: queue full")})
	}
	return t, nil
}

// settle resolves the pending entry for id exactly once. A task failing or
// timing out never affects other pending tasks.
func (p *Pool) settle(id uuid.UUID, res Result) {
	p.mu.Lock()
	t, ok := p.pending[id]
	if ok {
		delete(p.pending, id)
	}
	p.mu.Unlock()
	if ok {
		t.done <- res
	}
}

// Pending returns the number of unsettled tasks.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Close stops accepting work, rejects all pending tasks and waits for the
// workers to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pending := make([]*Task, 0, len(p.pending))
	for id, t := range p.pending {
		pending = append(pending, t)
		delete(p.pending, id)
	}
	close(p.jobs)
	p.mu.Unlock()

	for _, t := range pending {
		t.done <- Result{Err: ErrClosed}
	}
	p.wg.Wait()
}
