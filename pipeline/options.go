package pipeline

import "github.com/varmine/varmine/metrics"

// Option configures a Pipeline. Options are applied by New.
type Option func(*config)

// WithWorkers sets the number of concurrent transform workers (must be >= 1;
// validated by New).
func WithWorkers(n int) Option {
	return func(cfg *config) { cfg.Workers = n }
}

// WithResultWindow caps how many items may be processed ahead of the emission
// cursor (default 1024). Zero disables backpressure.
func WithResultWindow(n int) Option {
	return func(cfg *config) { cfg.ResultWindow = n }
}

// WithMetrics injects a metrics provider receiving the pipeline's counters.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) {
		if p == nil {
			panic("nil metrics provider")
		}
		cfg.Metrics = p
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("nil pipeline option")
		}
		opt(&cfg)
	}
	return cfg
}
