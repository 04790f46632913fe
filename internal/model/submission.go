package model

import "time"

// Submission is one locally recorded qsub submission. NotifiedAt is nil
// until the monitor for this job reports a successful notification.
type Submission struct {
	JobID       string
	Command     string
	Submitter   string
	SubmittedAt time.Time
	MonitorPID  int
	NotifiedAt  *time.Time
}
