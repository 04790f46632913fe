// Package monitor implements the job-completion polling state machine.
//
// A job's lifecycle is inferred from periodic scheduler queries even
// though the scheduler reports inconsistently: a finished job may still
// show state C, or may have been purged from the queue entirely. The
// only safe signal that "disappeared" means "finished" is a prior
// confirmed sighting of the job in the queue.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"mqsub/internal/notify"
	"mqsub/internal/pbs"
)

// State of the monitored job as derived from scheduler queries.
type State int

const (
	// StateNotEnqueued means the job was never observed in the queue;
	// the monitor exits without notifying.
	StateNotEnqueued State = iota
	// StatePending means the job has been confirmed queued or running.
	StatePending
	// StateTerminal means the job finished, either reported as
	// completed or inferred from its disappearance.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateNotEnqueued:
		return "not-enqueued"
	case StatePending:
		return "pending"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Queryer is the scheduler query surface the monitor polls.
// *pbs.Client satisfies it; tests substitute scripted fakes.
type Queryer interface {
	Status(ctx context.Context, jobID string) (pbs.JobStatus, error)
	ExitStatus(ctx context.Context, jobID string) (string, bool)
}

// Notifier delivers the single completion notification.
type Notifier interface {
	Notify(ctx context.Context, m notify.Message) error
}

// Result is what one monitor run observed.
type Result struct {
	State      State
	JobName    string
	ExitStatus string
	Notified   bool
}

// Monitor polls one job until a terminal condition, then sends exactly
// one notification. It is single-threaded and runs to natural
// completion; there is no cancellation surface beyond the context.
type Monitor struct {
	Jobs     Queryer
	Notifier Notifier
	Logger   *slog.Logger
	Interval time.Duration
}

// Run polls jobID until it reaches a terminal condition.
//
// Transition rules, evaluated every poll:
//   - Confirmed absent before any confirmed sighting: the job never
//     entered the queue observably. Exit without notifying; a
//     submission racing the first poll is a non-event, not an error.
//   - Query error before any confirmed sighting: absorbed, poll again.
//     A query hiccup must never be mistaken for completion.
//   - Once confirmed pending: state C, confirmed absence (schedulers
//     purge finished jobs) and query error all mean terminal.
//
// On the terminal transition the exit code is looked up once via the
// trace query, then one notification is attempted regardless of the
// lookup's outcome. The send result is logged but never retried.
func (m *Monitor) Run(ctx context.Context, jobID string) Result {
	enqueued := false
	var jobName string

	for {
		st, err := m.Jobs.Status(ctx, jobID)
		switch {
		case err != nil:
			if enqueued {
				m.Logger.Warn("status query failed for enqueued job, treating as finished",
					"job_id", jobID, "error", err)
				return m.finish(ctx, jobID, jobName)
			}
			m.Logger.Warn("status query failed before job was sighted, will retry",
				"job_id", jobID, "error", err)

		case !st.Found:
			if enqueued {
				m.Logger.Info("job no longer in queue", "job_id", jobID)
				return m.finish(ctx, jobID, jobName)
			}
			m.Logger.Info("job not found in queue, exiting monitor", "job_id", jobID)
			return Result{State: StateNotEnqueued}

		default:
			if !enqueued {
				enqueued = true
				m.Logger.Info("monitoring job", "job_id", jobID, "name", st.Name, "state", st.State)
			}
			if st.Name != "" {
				jobName = st.Name
			}
			if st.State == pbs.StateCompleted {
				m.Logger.Info("job reported completed", "job_id", jobID)
				return m.finish(ctx, jobID, jobName)
			}
		}

		select {
		case <-ctx.Done():
			m.Logger.Warn("monitor cancelled before job finished", "job_id", jobID)
			if enqueued {
				return Result{State: StatePending, JobName: jobName}
			}
			return Result{State: StateNotEnqueued}
		case <-time.After(m.Interval):
		}
	}
}

func (m *Monitor) finish(ctx context.Context, jobID, jobName string) Result {
	exitStatus, ok := m.Jobs.ExitStatus(ctx, jobID)
	if !ok {
		m.Logger.Info("exit status unavailable", "job_id", jobID)
		exitStatus = ""
	}

	res := Result{State: StateTerminal, JobName: jobName, ExitStatus: exitStatus}
	err := m.Notifier.Notify(ctx, notify.Message{
		JobID:      jobID,
		JobName:    jobName,
		ExitStatus: exitStatus,
	})
	if err != nil {
		m.Logger.Error("failed to send notification", "job_id", jobID, "error", err)
		return res
	}
	m.Logger.Info("notification sent", "job_id", jobID)
	res.Notified = true
	return res
}
