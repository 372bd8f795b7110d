package pipeline

import "github.com/varmine/varmine/metrics"

// config holds Pipeline configuration.
type config struct {
	// Workers defines the number of concurrent transform workers.
	// Must be at least 1.
	// Default: 1
	Workers int

	// ResultWindow caps how many items may be processed ahead of the
	// emission cursor. When the window is full, workers block until the
	// emitter advances, so a slow consumer cannot cause unbounded memory
	// growth. Zero disables backpressure.
	// Default: 1024
	ResultWindow int

	// Metrics receives drop and emission counters.
	// Default: no-op provider
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
// These defaults are the options builder base used by New.
func defaultConfig() config {
	return config{
		Workers:      1,
		ResultWindow: 1024,
		Metrics:      metrics.NewNoop(),
	}
}

// validateConfig performs invariants checks on an assembled config.
func validateConfig(cfg *config) error {
	if cfg.Workers < 1 {
		return ErrInvalidWorkerCount
	}
	if cfg.ResultWindow < 0 {
		return ErrInvalidResultWindow
	}
	return nil
}
