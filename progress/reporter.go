package progress

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reporter aggregates trackers and periodically emits one progress line per
// live tracker through its sink.
type Reporter struct {
	interval time.Duration
	sink     func(string)

	mu       sync.Mutex
	trackers []*Tracker // registration order

	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewReporter creates a Reporter. It does not start ticking until Start is
// called.
func NewReporter(opts ...Option) *Reporter {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("nil progress option")
		}
		opt(&cfg)
	}

	return &Reporter{
		interval: cfg.interval,
		sink:     cfg.sink,
		stop:     make(chan struct{}),
	}
}

var (
	defaultReporter *Reporter
	defaultOnce     sync.Once
)

// Default returns the process-wide reporter, creating and starting it on
// first use. It emits through the global zap logger and is never stopped;
// the goroutine does not keep the process alive.
func Default() *Reporter {
	defaultOnce.Do(func() {
		defaultReporter = NewReporter()
		defaultReporter.Start()
	})
	return defaultReporter
}

// Track registers a tracker for a named task. total is the estimated item
// count; pass UnknownTotal when no estimate exists.
func (r *Reporter) Track(name string, total int64) *Tracker {
	t := &Tracker{name: name, total: total}
	r.mu.Lock()
	r.trackers = append(r.trackers, t)
	r.mu.Unlock()
	return t
}

// Start launches the background tick loop. Idempotent.
func (r *Reporter) Start() {
	r.startOnce.Do(func() {
		go r.loop()
	})
}

// Stop halts the tick loop. Idempotent. Pending trackers emit no further
// lines after Stop.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

func (r *Reporter) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick snapshots the live trackers, emits one line per tracker, and drops
// the trackers whose final line has now been emitted. The trackers mutex is
// held only for the snapshot and the removal, never while emitting.
func (r *Reporter) tick() {
	r.mu.Lock()
	snapshot := make([]*Tracker, len(r.trackers))
	copy(snapshot, r.trackers)
	r.mu.Unlock()

	done := make(map[*Tracker]struct{})
	for _, t := range snapshot {
		finished := t.Finished()
		r.emit(t.line(finished))
		if finished {
			done[t] = struct{}{}
		}
	}
	if len(done) == 0 {
		return
	}

	r.mu.Lock()
	kept := r.trackers[:0]
	for _, t := range r.trackers {
		if _, ok := done[t]; !ok {
			kept = append(kept, t)
		}
	}
	r.trackers = kept
	r.mu.Unlock()
}

// emit publishes a single line, containing any sink failure so that the
// remaining trackers still get their lines in the same tick.
func (r *Reporter) emit(line string) {
	defer func() {
		_ = recover()
	}()
	r.sink(line)
}

func globalSink(line string) {
	zap.L().Info(line)
}
