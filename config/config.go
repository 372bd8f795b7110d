// Package config loads the infrastructure's Java-style .properties
// configuration and exposes typed accessors with defaults. The concurrency
// core never reads configuration itself; values are handed to it at wiring
// time.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/magiconair/properties"

	"github.com/varmine/varmine/comm"
)

// Property keys recognized in the configuration file.
const (
	KeyAnalysisThreads  = "analysis.threads"
	KeyServerAddress    = "server.address"
	KeyLogLevel         = "log.level"
	KeyProgressInterval = "progress.interval"
	KeySourceTree       = "source_tree"
)

// Settings is a loaded configuration file.
type Settings struct {
	p *properties.Properties
}

// Load reads a .properties file. A missing or unreadable file is an error;
// missing individual keys fall back to defaults in the accessors.
func Load(path string) (*Settings, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return &Settings{p: p}, nil
}

// AnalysisThreads returns the configured pipeline worker count, defaulting
// to the number of CPUs and never less than 1.
func (s *Settings) AnalysisThreads() int {
	n := s.p.GetInt(KeyAnalysisThreads, runtime.NumCPU())
	if n < 1 {
		return 1
	}
	return n
}

// ServerAddress returns the host::port the server mode listens on.
func (s *Settings) ServerAddress() string {
	return s.p.GetString(KeyServerAddress, comm.DefaultAddress)
}

// LogLevel returns the configured log level name.
func (s *Settings) LogLevel() string {
	return s.p.GetString(KeyLogLevel, "info")
}

// ProgressInterval returns the progress reporter tick period.
func (s *Settings) ProgressInterval() time.Duration {
	return s.p.GetParsedDuration(KeyProgressInterval, 30*time.Second)
}

// SourceTree returns the root directory analyzed in batch mode.
func (s *Settings) SourceTree() string {
	return s.p.GetString(KeySourceTree, ".")
}
