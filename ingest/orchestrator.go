package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
	errJobPanic        = errors.New("job panicked")
)

// Orchestrator is the main scheduler for registered jobs.
// Jobs run immediately on start, and then at a fixed wall-clock cadence:
// the next run is due one interval after the previous due time, regardless
// of how long the previous run took
type Orchestrator struct {
	logger *slog.Logger
	now    func() time.Time

	registeredJobs sync.Map

	q             iq.Queue[scheduledRun]
	queryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		q:             iq.NewQueue[scheduledRun](),
		queryInterval: time.Second, // every second
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new job with the orchestrator.
// The job is immediately queued up for execution
func (o *Orchestrator) Register(j Job) error {
	if j == nil || j.Name() == "" {
		return errInvalidJob
	}

	if j.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the job
	id := xid.New()
	o.registeredJobs.Store(id, j)

	o.logger.Info(
		"registered new job",
		"name", j.Name(),
		"interval", j.Interval().String(),
	)

	// Schedule the first run
	o.scheduleRun(
		o.now().UTC(),
		id,
		j,
	)

	return nil
}

// Start starts the job orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleDue dispatches all runs that are due, and schedules
	// their next run right away to keep the cadence
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextRun()
				if next == nil {
					return // nothing is due
				}

				o.logger.Debug(
					"dispatching job run",
					"name", next.job.Name(),
					"due", next.due.String(),
				)

				o.scheduleRun(
					o.nextDue(next.due, next.job),
					next.jobID,
					next.job,
				)

				// Spawn worker
				info := &workerInfo{
					job:   next.job,
					jobID: next.jobID,
					due:   next.due,
					resCh: collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Dispatch the first set of due runs (on boot)
	handleDue()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")

			return nil
		case <-ticker.C:
			handleDue()
		case response := <-collectorCh:
			jRaw, ok := o.registeredJobs.Load(response.jobID)
			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			j, _ := jRaw.(Job)

			if response.error != nil {
				o.logger.Error(
					"job run failed",
					"name", j.Name(),
					"id", response.jobID.String(),
					"duration", response.duration.String(),
					"err", response.error,
				)

				continue
			}

			o.logger.Debug(
				"job run completed",
				"name", j.Name(),
				"id", response.jobID.String(),
				"duration", response.duration.String(),
			)
		}
	}
}

// nextDue returns the due time of the run following the one due at prev.
// Slots that already passed are skipped, not run back to back
func (o *Orchestrator) nextDue(prev time.Time, j Job) time.Time {
	var (
		interval = j.Interval()
		now      = o.now().UTC()
		next     = prev.Add(interval)
	)

	if !next.After(now) {
		missed := now.Sub(next)/interval + 1
		next = next.Add(missed * interval)

		o.logger.Warn(
			"job fell behind schedule, skipping missed runs",
			"name", j.Name(),
			"missed", int64(missed),
		)
	}

	return next
}

// scheduleRun schedules a new job run
func (o *Orchestrator) scheduleRun(
	at time.Time,
	jobID xid.ID,
	job Job,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledRun{
		due:   at,
		jobID: jobID,
		job:   job,
	})
}

// nextRun fetches the next due run, as of the moment of calling
func (o *Orchestrator) nextRun() *scheduledRun {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := o.now().UTC()

	// Check if anything needs to be run
	if o.q.Len() == 0 {
		return nil
	}

	// Check if the top element is due
	if o.q.Index(0).due.After(now) {
		return nil // the earliest run is in the future
	}

	return o.q.PopFront()
}
