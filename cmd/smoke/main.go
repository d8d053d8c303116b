package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/remonster/internal/smoke"
)

// Default configuration constants.
const (
	defaultSessions     = 50
	defaultBlankEvery   = 10
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultSmokeTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions   = flag.Int("sessions", defaultSessions, "Number of sessions to drive")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		blankEvery = flag.Int("blank-every", defaultBlankEvery, "Submit blank text on every Nth session, 0 disables")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", smoke.DefaultSettleTimeout, "How long one analysis may stay loading")
		outputFile = flag.String("output", "", "Output file for the run report (default: smoke_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for smoke output (default: smoke_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	closer, err := smoke.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSmokeTimeout)

	cfg := &smoke.Config{
		BaseURL:       *baseURL,
		NumSessions:   *sessions,
		Workers:       *workers,
		BlankEvery:    *blankEvery,
		Timeout:       *timeout,
		SettleTimeout: *settle,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	err = smoke.Run(ctx, cfg)
	cancel()
	_ = closer.Close()
	if err != nil {
		_, _ = os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
