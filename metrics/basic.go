package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider is a simple in-memory implementation of Provider.
// It is concurrency-safe and suitable for tests, examples, and lightweight
// apps. Instruments are created on demand by name and reused for the same
// name.
type BasicProvider struct {
	mu       sync.RWMutex
	counters map[string]*BasicCounter
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{counters: make(map[string]*BasicCounter)}
}

// Counter returns the monotonic counter instrument for the given name
// (created once).
func (p *BasicProvider) Counter(name string) Counter {
	p.mu.RLock()
	c, ok := p.counters[name]
	if ok {
		p.mu.RUnlock()
		return c
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	// re-check after acquiring write lock
	if c, ok = p.counters[name]; ok {
		return c
	}
	c = &BasicCounter{}
	p.counters[name] = c
	return c
}

// Value returns the current value of the named counter, or zero if the
// instrument has not been created.
func (p *BasicProvider) Value(name string) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.counters[name]; ok {
		return c.Value()
	}
	return 0
}

// BasicCounter is an atomic monotonic counter.
type BasicCounter struct {
	v int64
}

// Add increments the counter by delta.
func (c *BasicCounter) Add(delta int64) {
	atomic.AddInt64(&c.v, delta)
}

// Value returns the current counter value.
func (c *BasicCounter) Value() int64 {
	return atomic.LoadInt64(&c.v)
}
