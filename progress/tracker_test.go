package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_CountsSumOfDoneCalls(t *testing.T) {
	tr := &Tracker{name: "extract", total: 100}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				tr.OneDone()
			}
			tr.Done(5)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(80), tr.Completed())
}

func TestTracker_CloseIdempotent(t *testing.T) {
	tr := &Tracker{name: "extract", total: 10}
	require.False(t, tr.Finished())

	tr.Close()
	tr.Close()
	require.True(t, tr.Finished())
}

func TestTracker_Line_KnownTotal(t *testing.T) {
	tr := &Tracker{name: "extract", total: 8}
	tr.Done(3)

	require.Equal(t, "extract finished 3 of 8 (37%) items", tr.line(false))
	require.Equal(t, "extract finished 3 of 8 (37%) items and is done", tr.line(true))
}

func TestTracker_Line_UnknownTotal(t *testing.T) {
	tr := &Tracker{name: "scan", total: UnknownTotal}
	tr.Done(12)

	require.Equal(t, "scan finished 12 items", tr.line(false))
	require.Equal(t, "scan finished 12 items and is done", tr.line(true))
}

func TestTracker_Line_ZeroTotal(t *testing.T) {
	tr := &Tracker{name: "noop", total: 0}
	require.Equal(t, "noop finished 0 of 0 (100%) items and is done", tr.line(true))
}
