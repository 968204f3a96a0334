package jobs

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/calmly/calmly-backend/internal/platform/logger"
)

// Task is one unit of detached background work.
type Task func(ctx context.Context) error

// Dispatcher runs fire-and-forget tasks on their own goroutines, decoupled
// from any request/response cycle. Submissions sharing a key are collapsed
// into a single in-flight execution, so two racing stale reads for the same
// user trigger one generation, not two.
//
// There is no durable queue behind this: Submit is at-most-once-attempted,
// and a process crash loses in-flight work. The next read re-triggers it.
type Dispatcher struct {
	log     *logger.Logger
	group   singleflight.Group
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(baseLog *logger.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		log:     baseLog.With("component", "Dispatcher"),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Submit schedules the task and returns immediately. The task runs on the
// dispatcher's own context, never the caller's: the originating request has
// usually completed by the time the task executes.
func (d *Dispatcher) Submit(key string, task Task) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_, err, shared := d.group.Do(key, func() (_ any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("task panic: %v", r)
				}
			}()
			return nil, task(d.baseCtx)
		})
		if shared {
			d.log.Debug("Task coalesced with in-flight execution", "key", key)
		}
		if err != nil {
			// Nothing upstream is watching; log and drop.
			d.log.Error("Background task failed", "key", key, "error", err)
		}
	}()
}

// Shutdown cancels the task context and waits for in-flight work to return.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}
