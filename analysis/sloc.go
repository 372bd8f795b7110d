// Package analysis contains the analysis tasks the infrastructure ships
// with. Tasks implement comm.Handler, so they plug into the server as-is,
// and run their per-item work through the ordered pipeline with progress
// tracking.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/varmine/varmine/pipeline"
	"github.com/varmine/varmine/progress"
)

type lineClass int

const (
	classCode lineClass = iota
	classComment
	classBlank
)

// SLOC classifies the lines of a message payload into code, comment and
// blank, fanning the classification out over a pipeline and accounting
// progress against a tracker. It implements comm.Handler.
type SLOC struct {
	workers  int
	reporter *progress.Reporter

	mu      sync.Mutex
	summary string
}

// NewSLOC creates the task with the given pipeline worker count (clamped to
// at least 1) and progress reporter.
func NewSLOC(workers int, reporter *progress.Reporter) *SLOC {
	if workers < 1 {
		workers = 1
	}
	return &SLOC{workers: workers, reporter: reporter}
}

// Execute analyzes one payload. It never panics outward; any internal
// failure is encoded into the summary.
func (a *SLOC) Execute(message string) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			a.setSummary(fmt.Sprintf("analysis failed: %v", ePanic))
		}
	}()

	lines := strings.Split(message, "\n")
	tracker := a.reporter.Track("sloc", int64(len(lines)))
	defer tracker.Close()

	var code, comment, blank int64
	p, err := pipeline.New(
		context.Background(),
		func(_ context.Context, line string) (lineClass, error) {
			defer tracker.OneDone()
			return classify(line), nil
		},
		func(c lineClass) error {
			switch c {
			case classCode:
				code++
			case classComment:
				comment++
			case classBlank:
				blank++
			}
			return nil
		},
		pipeline.WithWorkers(a.workers),
	)
	if err != nil {
		a.setSummary(fmt.Sprintf("analysis failed: %v", err))
		return
	}

	for _, line := range lines {
		_ = p.Add(line)
	}
	p.End()
	p.Join()

	a.setSummary(fmt.Sprintf(
		"analyzed %d lines: %d code, %d comment, %d blank",
		len(lines), code, comment, blank,
	))
}

// Summary returns the result of the most recent Execute.
func (a *SLOC) Summary() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

func (a *SLOC) setSummary(s string) {
	a.mu.Lock()
	a.summary = s
	a.mu.Unlock()
}

func classify(line string) lineClass {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return classBlank
	case strings.HasPrefix(trimmed, "//"),
		strings.HasPrefix(trimmed, "/*"),
		strings.HasPrefix(trimmed, "*"),
		strings.HasPrefix(trimmed, "#"):
		return classComment
	default:
		return classCode
	}
}
