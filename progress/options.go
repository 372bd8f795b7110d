package progress

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the tick period used when no override is given.
const DefaultInterval = 30 * time.Second

type config struct {
	interval time.Duration
	sink     func(string)
}

func defaultConfig() config {
	return config{
		interval: DefaultInterval,
		sink:     globalSink,
	}
}

// Option configures a Reporter.
type Option func(*config)

// WithInterval overrides the tick period (must be positive).
func WithInterval(d time.Duration) Option {
	return func(cfg *config) {
		if d <= 0 {
			panic("progress interval must be positive")
		}
		cfg.interval = d
	}
}

// WithLogger emits progress lines at info level on the given logger instead
// of the global one.
func WithLogger(log *zap.Logger) Option {
	return func(cfg *config) {
		if log == nil {
			panic("nil progress logger")
		}
		cfg.sink = func(line string) { log.Info(line) }
	}
}

// WithSink replaces the line sink entirely. Intended for tests and for
// embedding progress lines into an existing output stream.
func WithSink(sink func(string)) Option {
	return func(cfg *config) {
		if sink == nil {
			panic("nil progress sink")
		}
		cfg.sink = sink
	}
}
