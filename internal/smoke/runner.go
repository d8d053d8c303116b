package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// Run executes the complete smoke run.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = DefaultSettleTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	logger.Get().Info(ctx, "starting remonster smoke run",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.NumSessions),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Duration("settleTimeout", cfg.SettleTimeout),
		logger.Bool("verbose", cfg.Verbose))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate jobs
	jobs := generateJobs(ctx, cfg, stats)
	if len(jobs) == 0 {
		return ErrNoJobs
	}

	// Step 3: Drive sessions concurrently
	outcomes := runJobs(ctx, cfg, client, jobs)

	// Step 4: Save report
	if err := saveReport(ctx, cfg, &Report{
		RunID:    stats.RunID,
		BaseURL:  cfg.BaseURL,
		Started:  stats.StartTime,
		Outcomes: outcomes,
	}); err != nil {
		logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
	}

	// Step 5: Verify
	verifyErr := verifyResults(ctx, cfg, outcomes, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return fmt.Errorf("result verification failed: %w", verifyErr)
	}
	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.health(ctx); err != nil {
		return err
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runJobs drives every job through a worker pool and returns outcomes in
// job order.
func runJobs(ctx context.Context, cfg *Config, client *HTTPClient, jobs []Job) []Outcome {
	logger.Get().Info(ctx, "driving sessions", logger.Int("jobs", len(jobs)), logger.Int("workers", cfg.Workers))

	outcomes := make([]Outcome, len(jobs))
	var done, failed int64

	jobChan := make(chan Job, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				o := runJob(ctx, cfg, client, job)
				outcomes[job.Index] = o

				n := atomic.AddInt64(&done, 1)
				if o.Failed() {
					atomic.AddInt64(&failed, 1)
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "progress",
						logger.Int64("done", n),
						logger.Int("total", len(jobs)),
						logger.Int64("failed", atomic.LoadInt64(&failed)))
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()

	// Jobs never handed to a worker keep a zero outcome.
	for i := range outcomes {
		if outcomes[i].Job != jobs[i] {
			outcomes[i] = Outcome{Job: jobs[i], Err: ctx.Err().Error()}
		}
	}
	return outcomes
}

// runJob walks one session through create, submit, settle, both
// visualizations and delete.
func runJob(ctx context.Context, cfg *Config, client *HTTPClient, job Job) Outcome {
	out := Outcome{Job: job}
	if err := ctx.Err(); err != nil {
		out.Err = err.Error()
		return out
	}

	start := time.Now()
	err := driveSession(ctx, cfg, client, job, &out)
	out.LatencyMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		out.Err = err.Error()
	}

	if out.SessionID != "" {
		if err := client.endSession(ctx, out.SessionID); err != nil && out.Err == "" {
			out.Err = err.Error()
		}
	}
	return out
}

func driveSession(ctx context.Context, cfg *Config, client *HTTPClient, job Job, out *Outcome) error {
	sess, err := client.createSession(ctx)
	if err != nil {
		return err
	}
	out.SessionID = sess.SessionID
	if sess.State.Phase != model.PhaseIdle || sess.State.ColorSpace != model.ColorSpaceLAB {
		return fmt.Errorf("%w: new session is %s/%s", ErrUnexpectedState, sess.State.Phase, sess.State.ColorSpace)
	}

	st, code, err := client.submit(ctx, sess.SessionID, job.Text)
	if err != nil {
		return err
	}
	if err := expect("submit", code, http.StatusOK, http.StatusAccepted); err != nil {
		return err
	}

	if job.ExpectError {
		out.Phase = st.Phase.String()
		if err := verifyRejected(st); err != nil {
			return err
		}
		_, code, err := client.visualization(ctx, sess.SessionID)
		if err != nil {
			return err
		}
		return expect("visualization without result", code, http.StatusConflict)
	}

	st, err = waitSettled(ctx, cfg, client, sess.SessionID)
	out.Phase = st.Phase.String()
	if err != nil {
		return err
	}
	if st.Phase != model.PhaseSuccess {
		return fmt.Errorf("%w: phase %s: %s", ErrUnexpectedState, st.Phase, st.ErrorMessage)
	}

	for _, cs := range []model.ColorSpace{model.ColorSpaceLAB, model.ColorSpaceCMYK} {
		if cs != model.ColorSpaceLAB {
			toggled, err := client.toggle(ctx, sess.SessionID)
			if err != nil {
				return err
			}
			if toggled.ColorSpace != cs {
				return fmt.Errorf("%w: toggled to %s, want %s", ErrUnexpectedState, toggled.ColorSpace, cs)
			}
		}
		vis, code, err := client.visualization(ctx, sess.SessionID)
		if err != nil {
			return err
		}
		if err := expect("visualization", code, http.StatusOK); err != nil {
			return err
		}
		if err := verifyVisualization(vis, cs); err != nil {
			return err
		}
		out.Visualizations++
	}
	return nil
}

// waitSettled polls the session until it leaves Loading.
func waitSettled(ctx context.Context, cfg *Config, client *HTTPClient, id string) (sessionState, error) {
	deadline := time.Now().Add(cfg.SettleTimeout)
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		st, code, err := client.state(ctx, id)
		if err != nil {
			return st, err
		}
		if err := expect("state", code, http.StatusOK); err != nil {
			return st, err
		}
		if st.Phase != model.PhaseLoading {
			return st, nil
		}
		if time.Now().After(deadline) {
			return st, fmt.Errorf("%w after %s", ErrSettleTimeout, cfg.SettleTimeout)
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ticker.C:
		}
	}
}

// saveReport writes the run report as indented JSON.
func saveReport(ctx context.Context, cfg *Config, report *Report) error {
	filename := cfg.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "smoke_report_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, sessionsPerSecond float64

	if stats.JobsGenerated > 0 {
		ok := stats.JobsGenerated - stats.JobsFailed
		successRate = float64(ok) / float64(stats.JobsGenerated) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsCreated) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("jobsGenerated", stats.JobsGenerated),
		logger.Int("sessionsCreated", stats.SessionsCreated),
		logger.Int("analysesSucceeded", stats.AnalysesSucceeded),
		logger.Int("errorsAsExpected", stats.ErrorsAsExpected),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Int("visualizationsVerified", stats.VisualizationsVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("sessionsPerSecond", sessionsPerSecond))
}
