package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/varmine/varmine/metrics"
)

// worker repeatedly dequeues the next input item, applies the transform and
// publishes the outcome to the emitter's events channel. A transform error
// or panic is contained: the outcome is published without a value and the
// worker keeps going.
type worker[I, O any] struct {
	transform func(context.Context, I) (O, error)
	queue     *queue[item[I]]
	events    chan<- outcome[O]
	window    *semaphore.Weighted // nil when backpressure is disabled
	failed    metrics.Counter
}

// run executes the worker loop until the input queue is closed and drained,
// or the context is cancelled while waiting on the result window.
//
// The window token is acquired before dequeuing, so the tokens outstanding at
// any moment belong to the oldest not-yet-emitted items. That keeps the item
// the emitter is waiting for inside the window and makes the bound
// deadlock-free.
func (w *worker[I, O]) run(ctx context.Context) {
	for {
		if w.window != nil {
			if err := w.window.Acquire(ctx, 1); err != nil {
				return
			}
		}
		it, ok := w.queue.pop()
		if !ok {
			if w.window != nil {
				w.window.Release(1)
			}
			return
		}
		w.events <- w.process(ctx, it)
	}
}

func (w *worker[I, O]) process(ctx context.Context, it item[I]) (out outcome[O]) {
	out.seq = it.seq

	defer func() {
		if ePanic := recover(); ePanic != nil {
			out.present = false
			w.failed.Add(1)
		}
	}()

	v, err := w.transform(ctx, it.input)
	if err != nil {
		w.failed.Add(1)
		return out
	}

	out.val = v
	out.present = true
	return out
}
