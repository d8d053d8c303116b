package smoke

import "time"

// Expected sampler output for a successful analysis.
const (
	ExpectedLabCells  = 41 * 41
	ExpectedCMYKCells = 11 * 11
	ExpectedLabRings  = 3
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultSettleTimeout = 15 * time.Second
	DefaultPollInterval  = 25 * time.Millisecond
	PercentageMultiplier = 100
)
