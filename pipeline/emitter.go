package pipeline

import (
	"golang.org/x/sync/semaphore"

	"github.com/varmine/varmine/metrics"
)

// emitter is the single component that enforces result delivery order.
// It consumes outcomes published by the workers and invokes the consumer
// strictly in submission-sequence order, regardless of completion order.
//
// The emitter runs in one goroutine via run() and never closes the events
// channel; shutdown is coordinated by the owner, which closes events once
// every worker has exited.
//
// Failed outcomes advance the cursor without a consumer call. A consumer
// error or panic drops that single result and the emitter keeps advancing.
type emitter[O any] struct {
	events  <-chan outcome[O]
	consume func(O) error
	window  *semaphore.Weighted // nil when backpressure is disabled

	emitted      metrics.Counter
	consumerFail metrics.Counter
}

// run executes the coordinator loop until the events channel is closed.
// It maintains an in-order cursor and small in-memory buffers for
// out-of-order completions and failed-item markers.
func (e *emitter[O]) run() {
	next := uint64(0)
	buf := make(map[uint64]O)
	skipped := make(map[uint64]struct{})

	for ev := range e.events {
		if ev.present {
			buf[ev.seq] = ev.val
		} else {
			skipped[ev.seq] = struct{}{}
		}
		// Flush contiguous from the current cursor.
		next = e.flushContiguous(next, buf, skipped)
	}

	// Final flush of the contiguous tail after events closed.
	e.flushContiguous(next, buf, skipped)
}

// flushContiguous delivers consecutive results starting from next, skipping
// failed-item markers, and returns the advanced cursor value. Each advance
// returns one result-window token to the workers.
func (e *emitter[O]) flushContiguous(next uint64, buf map[uint64]O, skipped map[uint64]struct{}) uint64 {
	for {
		if v, ok := buf[next]; ok {
			e.deliver(v)
			delete(buf, next)
			e.release()
			next++
			continue
		}
		if _, ok := skipped[next]; ok {
			delete(skipped, next)
			e.release()
			next++
			continue
		}
		break
	}
	return next
}

// deliver invokes the consumer for one result, containing any error or panic.
func (e *emitter[O]) deliver(v O) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			e.consumerFail.Add(1)
		}
	}()

	if err := e.consume(v); err != nil {
		e.consumerFail.Add(1)
		return
	}
	e.emitted.Add(1)
}

func (e *emitter[O]) release() {
	if e.window != nil {
		e.window.Release(1)
	}
}
