package ingest

import (
	"context"
	"time"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	runDelegate      func(context.Context) error
)

type mockJob struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	runFn      runDelegate
}

func (m *mockJob) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockJob) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockJob) Run(ctx context.Context) error {
	if m.runFn != nil {
		return m.runFn(ctx)
	}

	return nil
}

// newMockJob creates a named job with the given interval and run routine
func newMockJob(name string, interval time.Duration, run runDelegate) *mockJob {
	return &mockJob{
		nameFn: func() string {
			return name
		},
		intervalFn: func() time.Duration {
			return interval
		},
		runFn: run,
	}
}
