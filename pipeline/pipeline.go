package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pipeline applies a transform to submitted inputs on a fixed set of workers
// and delivers the results to a consumer strictly in submission order.
//
// The zero value is not usable; construct instances with New.
type Pipeline[I, O any] struct {
	queue  *queue[item[I]]
	events chan outcome[O]
	window *semaphore.Weighted

	mu    sync.Mutex
	seq   uint64
	ended bool

	done chan struct{}
}

// New creates a Pipeline and starts its workers and emitter.
//
// transform is applied to every submitted input; consume receives the
// results in submission order on a single dedicated goroutine. ctx is passed
// to transform and ends a worker that is waiting for a result-window slot;
// with backpressure disabled, workers keep draining the queue after
// cancellation. Cancellation carries no per-item guarantees.
func New[I, O any](
	ctx context.Context,
	transform func(context.Context, I) (O, error),
	consume func(O) error,
	opts ...Option,
) (*Pipeline[I, O], error) {
	if transform == nil {
		return nil, ErrNilTransform
	}
	if consume == nil {
		return nil, ErrNilConsumer
	}

	cfg := applyOptions(opts)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	p := &Pipeline[I, O]{
		queue:  newQueue[item[I]](),
		events: make(chan outcome[O], cfg.Workers),
		done:   make(chan struct{}),
	}
	if cfg.ResultWindow > 0 {
		p.window = semaphore.NewWeighted(int64(cfg.ResultWindow))
	}

	failed := cfg.Metrics.Counter(MetricItemsFailed)

	var workers sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		w := &worker[I, O]{
			transform: transform,
			queue:     p.queue,
			events:    p.events,
			window:    p.window,
			failed:    failed,
		}
		workers.Add(1)
		go func() {
			defer workers.Done()
			w.run(ctx)
		}()
	}

	e := &emitter[O]{
		events:       p.events,
		consume:      consume,
		window:       p.window,
		emitted:      cfg.Metrics.Counter(MetricItemsEmitted),
		consumerFail: cfg.Metrics.Counter(MetricConsumerFailed),
	}
	go func() {
		e.run()
		close(p.done)
	}()

	// Close the events channel once every worker has exited, so the emitter
	// performs its final flush and terminates.
	go func() {
		workers.Wait()
		close(p.events)
	}()

	return p, nil
}

// Add submits one input. It assigns the item a strictly increasing sequence
// number and never blocks the caller. Add fails with ErrPipelineEnded once
// End has been called.
func (p *Pipeline[I, O]) Add(input I) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return ErrPipelineEnded
	}
	p.queue.push(item[I]{seq: p.seq, input: input})
	p.seq++
	return nil
}

// End signals that no further items will be added. Idempotent.
func (p *Pipeline[I, O]) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return
	}
	p.ended = true
	p.queue.close()
}

// Join blocks until every accepted item has been processed and the emitter
// has quiesced. Call it after End; once Join returns, no further consumer
// invocation occurs.
func (p *Pipeline[I, O]) Join() {
	<-p.done
}
