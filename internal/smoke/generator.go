package smoke

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/okian/remonster/pkg/logger"
)

// blankText is whitespace only, which the service treats as empty input.
const blankText = " \t\n"

// corpus holds the texts submitted by generated jobs.
var corpus = []string{
	"Wat een prachtige dag, ik voel me geweldig!",
	"Ik ben erg blij met het resultaat.",
	"Dit is echt teleurstellend en frustrerend.",
	"Ik maak me zorgen over de deadline van morgen.",
	"De vergadering was saai maar wel nuttig.",
	"I am thrilled about the launch next week.",
	"The delay makes me angry and tired.",
	"Quietly hopeful that things will turn around.",
	"Wat een verrassing, dat had ik nooit verwacht!",
	"Ik mis mijn vrienden en voel me een beetje eenzaam.",
	"The team did great work under pressure.",
	"Nothing special happened today.",
}

// randomIndex returns a uniform index in [0, n) using crypto/rand.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateJobs creates cfg.NumSessions jobs. Every cfg.BlankEvery-th job
// submits blank text and expects the service to reject it.
func generateJobs(ctx context.Context, cfg *Config, stats *Stats) []Job {
	logger.Get().Info(ctx, "generating smoke jobs",
		logger.Int("sessions", cfg.NumSessions),
		logger.Int("blankEvery", cfg.BlankEvery))

	jobs := make([]Job, cfg.NumSessions)
	for i := range jobs {
		jobs[i] = Job{Index: i, Text: corpus[randomIndex(len(corpus))]}
		if cfg.BlankEvery > 0 && (i+1)%cfg.BlankEvery == 0 {
			jobs[i].Text = blankText
			jobs[i].ExpectError = true
		}
	}

	stats.JobsGenerated = len(jobs)
	return jobs
}
