package pipeline

import (
	"testing"

	"github.com/varmine/varmine/metrics"
)

func TestOptions_Apply(t *testing.T) {
	provider := metrics.NewBasicProvider()
	cfg := applyOptions([]Option{
		WithWorkers(8),
		WithResultWindow(16),
		WithMetrics(provider),
	})

	if cfg.Workers != 8 {
		t.Fatalf("Workers = %d; want 8", cfg.Workers)
	}
	if cfg.ResultWindow != 16 {
		t.Fatalf("ResultWindow = %d; want 16", cfg.ResultWindow)
	}
	if cfg.Metrics != metrics.Provider(provider) {
		t.Fatal("Metrics provider was not applied")
	}
}

func TestOptions_NilOptionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil option")
		}
	}()
	applyOptions([]Option{nil})
}

func TestOptions_NilMetricsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil metrics provider")
		}
	}()
	applyOptions([]Option{WithMetrics(nil)})
}
