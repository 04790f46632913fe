package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mqsub/internal/model"
)

// Record inserts or refreshes the history row for one submission.
func (s *Store) Record(ctx context.Context, sub model.Submission) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO submissions (job_id, command, submitter, submitted_at, monitor_pid, notified_at)
VALUES (?, ?, ?, ?, ?, NULL)
ON CONFLICT(job_id) DO UPDATE SET
  command=excluded.command,
  submitter=excluded.submitter,
  submitted_at=excluded.submitted_at,
  monitor_pid=excluded.monitor_pid
`, sub.JobID, sub.Command, sub.Submitter,
		sub.SubmittedAt.Format(time.RFC3339Nano), sub.MonitorPID)

	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// List returns all recorded submissions, newest first.
func (s *Store) List(ctx context.Context) ([]model.Submission, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT job_id, command, submitter, submitted_at, monitor_pid, notified_at
		FROM submissions
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Submission
	for rows.Next() {
		var sub model.Submission
		var submittedAtStr string
		var notifiedAtStr sql.NullString

		if err := rows.Scan(
			&sub.JobID, &sub.Command, &sub.Submitter,
			&submittedAtStr, &sub.MonitorPID, &notifiedAtStr,
		); err != nil {
			return nil, err
		}

		sub.SubmittedAt, _ = time.Parse(time.RFC3339Nano, submittedAtStr)
		if notifiedAtStr.Valid {
			t, err := time.Parse(time.RFC3339Nano, notifiedAtStr.String)
			if err == nil {
				sub.NotifiedAt = &t
			}
		}

		result = append(result, sub)
	}
	return result, rows.Err()
}

// MarkNotified stamps the row after the monitor's notification went
// out.
func (s *Store) MarkNotified(ctx context.Context, jobID string, now time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE submissions SET notified_at=? WHERE job_id=?
	`, now.Format(time.RFC3339Nano), jobID)
	return err
}
