package progress

import (
	"fmt"
	"sync/atomic"
)

// UnknownTotal marks a tracked task whose item count cannot be estimated.
const UnknownTotal = int64(-1)

// Tracker is a per-task counter registered with a Reporter. All methods are
// safe for concurrent use from arbitrary goroutines.
type Tracker struct {
	name  string
	total int64

	completed int64
	finished  int32
}

// OneDone records the completion of a single item.
func (t *Tracker) OneDone() {
	t.Done(1)
}

// Done records the completion of n items.
func (t *Tracker) Done(n int64) {
	atomic.AddInt64(&t.completed, n)
}

// Close marks the task finished. Idempotent. The reporter emits one final
// line for this tracker on its next tick and then forgets it.
func (t *Tracker) Close() {
	atomic.StoreInt32(&t.finished, 1)
}

// Completed returns the number of items recorded so far.
func (t *Tracker) Completed() int64 {
	return atomic.LoadInt64(&t.completed)
}

// Finished reports whether Close has been called.
func (t *Tracker) Finished() bool {
	return atomic.LoadInt32(&t.finished) == 1
}

// line renders the tracker's progress line for one tick. finished is latched
// by the caller so that the emitted suffix and the removal decision agree.
func (t *Tracker) line(finished bool) string {
	completed := t.Completed()

	var s string
	if t.total >= 0 {
		pct := int64(100)
		if t.total > 0 {
			pct = completed * 100 / t.total
		}
		s = fmt.Sprintf("%s finished %d of %d (%d%%) items", t.name, completed, t.total, pct)
	} else {
		s = fmt.Sprintf("%s finished %d items", t.name, completed)
	}
	if finished {
		s += " and is done"
	}
	return s
}
