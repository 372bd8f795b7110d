// Command varmine runs the analysis infrastructure in one of three modes:
//
//	varmine <config.properties> [--archive]      batch analysis
//	varmine --server[=host::port] <config.properties>
//	varmine --client=host::port <payload>
//
// The process exits 0 on success and 1 on setup failure.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/varmine/varmine/analysis"
	"github.com/varmine/varmine/comm"
	"github.com/varmine/varmine/config"
	"github.com/varmine/varmine/progress"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type invocation struct {
	serverMode bool
	serverAddr string
	clientAddr string
	archive    bool
	positional []string
}

func parseArgs(args []string) (invocation, error) {
	var inv invocation
	for _, arg := range args {
		switch {
		case arg == "--server":
			inv.serverMode = true
		case strings.HasPrefix(arg, "--server="):
			inv.serverMode = true
			inv.serverAddr = strings.TrimPrefix(arg, "--server=")
		case strings.HasPrefix(arg, "--client="):
			inv.clientAddr = strings.TrimPrefix(arg, "--client=")
		case arg == "--archive":
			inv.archive = true
		case strings.HasPrefix(arg, "--"):
			return inv, fmt.Errorf("unknown option %s", arg)
		default:
			inv.positional = append(inv.positional, arg)
		}
	}
	if inv.serverMode && inv.clientAddr != "" {
		return inv, fmt.Errorf("--server and --client are mutually exclusive")
	}
	if len(inv.positional) != 1 {
		if inv.clientAddr != "" {
			return inv, fmt.Errorf("client mode requires exactly one payload argument")
		}
		return inv, fmt.Errorf("exactly one configuration file argument is required")
	}
	return inv, nil
}

func run(args []string) int {
	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if inv.clientAddr != "" {
		return runClient(inv.clientAddr, inv.positional[0])
	}

	settings, err := config.Load(inv.positional[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := buildLogger(settings.LogLevel())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	reporter := progress.NewReporter(
		progress.WithInterval(settings.ProgressInterval()),
		progress.WithLogger(logger),
	)
	reporter.Start()

	if inv.serverMode {
		return runServer(inv.serverAddr, settings, reporter, logger)
	}
	return runBatch(settings, reporter, inv.archive)
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func runClient(addr, payload string) int {
	client, err := comm.NewClient(addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer client.Close()

	reply, err := client.Send(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(reply)
	return 0
}

func runServer(addr string, settings *config.Settings, reporter *progress.Reporter, logger *zap.Logger) int {
	if addr == "" {
		addr = settings.ServerAddress()
	}
	handler := analysis.NewSLOC(settings.AnalysisThreads(), reporter)

	srv, err := comm.StartServer(addr, handler, comm.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	srv.Wait()
	return 0
}

func runBatch(settings *config.Settings, reporter *progress.Reporter, archive bool) int {
	payload, err := collectSources(settings.SourceTree())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	task := analysis.NewSLOC(settings.AnalysisThreads(), reporter)
	task.Execute(payload)
	summary := task.Summary()
	fmt.Println(summary)

	if archive {
		name := filepath.Join(
			settings.SourceTree(),
			fmt.Sprintf("analysis-%s.txt", time.Now().Format("20060102-150405")),
		)
		if err := os.WriteFile(name, []byte(summary+"\n"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

// collectSources concatenates the regular files under root into one payload.
func collectSources(root string) (string, error) {
	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		b.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			b.WriteByte('\n')
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read source tree %s: %w", root, err)
	}
	return b.String(), nil
}
