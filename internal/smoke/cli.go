package smoke

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/remonster/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both console and file. If logFile is
// empty, a timestamped filename is generated. The returned closer releases
// the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}

	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`remonster smoke tool
====================

Drives concurrent sessions through a running remonster service and checks
every phase transition and both visualizations.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to drive (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -blank-every int
        Submit blank text on every Nth session, 0 disables (default 10)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        How long one analysis may stay loading (default 15s)
  -output string
        Output file for the run report (default: smoke_report_TIMESTAMP.json)
  -log string
        Log file for smoke output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke with default settings
  go run ./cmd/smoke

  # Heavier run against another instance
  go run ./cmd/smoke -sessions 500 -workers 32 -url http://localhost:8080
`)
}
