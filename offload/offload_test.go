package offload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSubmitAndWait(t *testing.T) {
	pool := NewPool(2, time.Second, func(ctx context.Context, payload any) (any, error) {
		return payload.(int) * 2, nil
	})
	defer pool.Close()

	task, err := pool.Submit(21)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := task.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %v, want 42", got)
	}
	if pool.Pending() != 0 {
		t.Errorf("Pending = %d after settlement, want 0", pool.Pending())
	}
}

func TestWorkerErrorSettlesOnlyThatTask(t *testing.T) {
	sentinel := errors.New("encode failed")
	pool := NewPool(2, time.Second, func(ctx context.Context, payload any) (any, error) {
		if payload == "bad" {
			return nil, sentinel
		}
		return "ok", nil
	})
	defer pool.Close()

	bad, _ := pool.Submit("bad")
	good, _ := pool.Submit("good")

	if _, err := bad.Wait(context.Background()); !errors.Is(err, sentinel) {
		t.Errorf("bad task error = %v, want the worker error", err)
	}
	if got, err := good.Wait(context.Background()); err != nil || got != "ok" {
		t.Errorf("good task = (%v, %v), want (ok, nil): failures must stay local", got, err)
	}
}

func TestTimeoutForcesSettlement(t *testing.T) {
	block := make(chan struct{})
	pool := NewPool(1, 50*time.Millisecond, func(ctx context.Context, payload any) (any, error) {
		<-block // worker never replies
		return nil, nil
	})

	task, err := pool.Submit("stuck")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := task.Wait(context.Background()); !errors.Is(err, ErrTimeout) {
		t.Errorf("Wait = %v, want ErrTimeout", err)
	}
	if pool.Pending() != 0 {
		t.Errorf("Pending = %d after timeout, want 0: entries must not leak", pool.Pending())
	}

	// Unblock the worker before Close waits for the pool to drain.
	close(block)
	pool.Close()
}

func TestCloseRejectsPendingAndNewWork(t *testing.T) {
	block := make(chan struct{})
	pool := NewPool(1, time.Minute, func(ctx context.Context, payload any) (any, error) {
		<-block
		return nil, nil
	})

	stuck, _ := pool.Submit("a")
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(block)
	}()
	pool.Close()

	if _, err := stuck.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("pending task after Close = %v, want ErrClosed", err)
	}
	if _, err := pool.Submit("b"); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close = %v, want ErrClosed", err)
	}
}

func TestSubmitDuringCloseSettlesCleanly(t *testing.T) {
	// Submitters race Close; a submit must either be rejected with
	// ErrClosed or produce a task that settles, never crash the pool.
	for i := 0; i < 100; i++ {
		pool := NewPool(1, 50*time.Millisecond, func(ctx context.Context, payload any) (any, error) {
			return payload, nil
		})

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 8; k++ {
					task, err := pool.Submit(k)
					if err != nil {
						if !errors.Is(err, ErrClosed) {
							t.Errorf("Submit = %v, want ErrClosed or a task", err)
						}
						return
					}
					ctx, cancel := context.WithTimeout(context.Background(), time.Second)
					_, _ = task.Wait(ctx)
					cancel()
				}
			}()
		}
		pool.Close()
		wg.Wait()

		if pool.Pending() != 0 {
			t.Fatalf("Pending = %d after Close, want 0", pool.Pending())
		}
	}
}

func TestWaitHonorsContext(t *testing.T) {
	block := make(chan struct{})
	pool := NewPool(1, time.Minute, func(ctx context.Context, payload any) (any, error) {
		<-block
		return nil, nil
	})

	task, _ := pool.Submit("slow")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want context deadline", err)
	}

	close(block)
	pool.Close()
}
