package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calmly/calmly-backend/internal/platform/logger"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewDispatcher(log)
}

func TestDispatcherCoalescesSameKey(t *testing.T) {
	d := newTestDispatcher(t)

	var runs int32
	gate := make(chan struct{})
	task := func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		<-gate
		return nil
	}

	d.Submit("insights:user-1", task)
	// Give the first submission a moment to enter the group before the
	// duplicate arrives.
	time.Sleep(50 * time.Millisecond)
	d.Submit("insights:user-1", task)
	time.Sleep(50 * time.Millisecond)

	close(gate)
	d.Shutdown()

	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("duplicate key must coalesce: want 1 run, got %d", got)
	}
}

func TestDispatcherDistinctKeysRunIndependently(t *testing.T) {
	d := newTestDispatcher(t)

	var runs int32
	task := func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}

	d.Submit("insights:user-1", task)
	d.Submit("insights:user-2", task)
	d.Shutdown()

	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Fatalf("distinct keys: want 2 runs, got %d", got)
	}
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := newTestDispatcher(t)

	d.Submit("boom", func(ctx context.Context) error {
		panic("task blew up")
	})
	// Shutdown returning at all proves the panic was contained.
	d.Shutdown()
}

func TestDispatcherShutdownCancelsTaskContext(t *testing.T) {
	d := newTestDispatcher(t)

	started := make(chan struct{})
	var sawCancel int32
	d.Submit("slow", func(ctx context.Context) error {
		close(started)
		select {
		case <-ctx.Done():
			atomic.StoreInt32(&sawCancel, 1)
		case <-time.After(5 * time.Second):
		}
		return nil
	})

	<-started
	d.Shutdown()
	if atomic.LoadInt32(&sawCancel) != 1 {
		t.Fatalf("task context was not cancelled on shutdown")
	}
}
