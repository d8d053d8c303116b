package smoke

import (
	"time"

	"github.com/okian/remonster/internal/domain/types"
)

// Config holds configuration for a smoke run
type Config struct {
	BaseURL       string        // Base URL of the service
	NumSessions   int           // Number of sessions to drive
	Workers       int           // Number of concurrent workers
	BlankEvery    int           // Every Nth job submits blank text; 0 disables
	Timeout       time.Duration // HTTP request timeout
	SettleTimeout time.Duration // How long a single analysis may stay loading
	PollInterval  time.Duration // Delay between state polls
	OutputFile    string        // Output file for the run report
	LogFile       string        // Log file for smoke output
	Verbose       bool          // Enable verbose logging
}

// Job is one scripted session: a text to submit and whether the service
// should reject it.
type Job struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	ExpectError bool   `json:"expect_error"`
}

// Outcome records what happened to one job
type Outcome struct {
	Job
	SessionID      string  `json:"session_id,omitempty"`
	Phase          string  `json:"phase,omitempty"`
	LatencyMS      float64 `json:"latency_ms"`
	Visualizations int     `json:"visualizations"`
	Err            string  `json:"error,omitempty"`
}

// Failed reports whether the job did not behave as expected.
func (o Outcome) Failed() bool { return o.Err != "" }

// Report is the document written to the output file
type Report struct {
	RunID    string    `json:"run_id"`
	BaseURL  string    `json:"base_url"`
	Started  time.Time `json:"started"`
	Outcomes []Outcome `json:"outcomes"`
}

// Stats holds run statistics
type Stats struct {
	RunID                  string
	JobsGenerated          int
	SessionsCreated        int
	AnalysesSucceeded      int
	ErrorsAsExpected       int
	JobsFailed             int
	VisualizationsVerified int
	StartTime              time.Time
	EndTime                time.Time
	Duration               time.Duration
}

// sessionState aliases the service's state view for decoding.
type sessionState = types.StateView
