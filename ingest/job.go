package ingest

import (
	"context"
	"time"
)

// Job is a single periodic job
type Job interface {
	// Name returns the human-readable name of the job
	Name() string

	// Interval returns the interval at which the job should be run
	Interval() time.Duration

	// Run is the job's main routine. Errors are logged,
	// they never cancel the job's schedule
	Run(context.Context) error
}
