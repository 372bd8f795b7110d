package pipeline

import "testing"

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Workers != 1 {
		t.Fatalf("Workers default = %d; want 1", cfg.Workers)
	}
	if cfg.ResultWindow != 1024 {
		t.Fatalf("ResultWindow default = %d; want 1024", cfg.ResultWindow)
	}
	if cfg.Metrics == nil {
		t.Fatal("Metrics default is nil; want no-op provider")
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := defaultConfig()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validateConfig returned error for defaults: %v", err)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	cfg := defaultConfig()
	cfg.Workers = 0
	if err := validateConfig(&cfg); err != ErrInvalidWorkerCount {
		t.Fatalf("validateConfig = %v; want ErrInvalidWorkerCount", err)
	}

	cfg = defaultConfig()
	cfg.ResultWindow = -1
	if err := validateConfig(&cfg); err != ErrInvalidResultWindow {
		t.Fatalf("validateConfig = %v; want ErrInvalidResultWindow", err)
	}
}
