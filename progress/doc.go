// Package progress publishes periodic, aggregated progress of long-running
// tasks without blocking them.
//
// A Reporter runs one background goroutine that, on every tick, emits a
// single line per live tracker. Callers obtain a Tracker for a named task
// via Track and report against it with OneDone, Done and Close; the counters
// are atomic and need no external locking. A closed tracker receives one
// final line on the next tick and is then forgotten.
//
// The reporter is best-effort telemetry: any failure while formatting or
// publishing a line is swallowed, and the remaining trackers still get their
// lines in the same tick.
//
// Default returns a lazily started process-wide reporter that emits through
// the global zap logger and runs for the rest of the process.
package progress
