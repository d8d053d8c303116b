package smoke

import (
	"context"
	"fmt"

	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/types"
	"github.com/okian/remonster/internal/domain/workflow"
	"github.com/okian/remonster/pkg/logger"
)

// verifyVisualization checks the grid size and reference rings of one plot.
func verifyVisualization(vis types.Visualization, want model.ColorSpace) error {
	if vis.ColorSpace != want {
		return fmt.Errorf("%w: color space %s, want %s", ErrVerification, vis.ColorSpace, want)
	}

	wantCells, wantRings := ExpectedLabCells, ExpectedLabRings
	if want == model.ColorSpaceCMYK {
		wantCells, wantRings = ExpectedCMYKCells, 0
	}
	if len(vis.Cells) != wantCells {
		return fmt.Errorf("%w: %s has %d cells, want %d", ErrVerification, want, len(vis.Cells), wantCells)
	}
	if len(vis.Rings) != wantRings {
		return fmt.Errorf("%w: %s has %d rings, want %d", ErrVerification, want, len(vis.Rings), wantRings)
	}
	if vis.Marker.Color == "" {
		return fmt.Errorf("%w: %s marker has no color", ErrVerification, want)
	}
	return nil
}

// verifyRejected checks the state a blank submission must settle in.
func verifyRejected(st sessionState) error {
	if st.Phase != model.PhaseError {
		return fmt.Errorf("%w: phase %s, want error", ErrUnexpectedState, st.Phase)
	}
	if st.ErrorMessage != workflow.MsgEmptyInput {
		return fmt.Errorf("%w: message %q, want %q", ErrUnexpectedState, st.ErrorMessage, workflow.MsgEmptyInput)
	}
	return nil
}

// verifyResults tallies outcomes into stats and fails when any job failed.
func verifyResults(ctx context.Context, cfg *Config, outcomes []Outcome, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")

	if len(outcomes) == 0 {
		return ErrNoJobs
	}

	for _, o := range outcomes {
		switch {
		case o.Failed():
			stats.JobsFailed++
			logger.Get().Warn(ctx, "job failed",
				logger.Int("job", o.Index),
				logger.String("session", o.SessionID),
				logger.String("error", o.Err))
		case o.ExpectError:
			stats.ErrorsAsExpected++
		default:
			stats.AnalysesSucceeded++
		}
		if o.SessionID != "" {
			stats.SessionsCreated++
		}
		stats.VisualizationsVerified += o.Visualizations
		if cfg.Verbose {
			logger.Get().Debug(ctx, "job outcome",
				logger.Int("job", o.Index),
				logger.String("phase", o.Phase),
				logger.Float64("latencyMs", o.LatencyMS))
		}
	}

	if stats.JobsFailed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrJobsFailed, stats.JobsFailed, len(outcomes))
	}

	logger.Get().Info(ctx, "result verification completed")
	return nil
}
