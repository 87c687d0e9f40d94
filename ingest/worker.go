package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// scheduledRun is a single scheduled Job run
type scheduledRun struct {
	due   time.Time
	job   Job
	jobID xid.ID
}

// Less is utilized to sort scheduled runs by their due-time (earliest == first)
func (a scheduledRun) Less(b scheduledRun) bool {
	return a.due.Before(b.due)
}

// workerInfo is the work context for the job routine
type workerInfo struct {
	job   Job
	resCh chan<- *workerResponse
	due   time.Time
	jobID xid.ID
}

// workerResponse is the job routine response
type workerResponse struct {
	error    error         // encountered error, if any
	due      time.Time     // the scheduled due time of the run
	duration time.Duration // how long the run took
	jobID    xid.ID        // the job ID
}

// handleJob runs the job, recovering from any job defect
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	var (
		start = time.Now()
		err   error
	)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", errJobPanic, r)
			}
		}()

		err = info.job.Run(ctx)
	}()

	response := &workerResponse{
		error:    err,
		due:      info.due,
		duration: time.Since(start),
		jobID:    info.jobID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
