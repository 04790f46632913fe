// Package pbs wraps the PBS/Torque command line tools: qsub for
// submission, qstat for live status and tracejob for exit codes.
package pbs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// StateCompleted is the scheduler's job_state code for a finished job.
const StateCompleted = "C"

const defaultQueryTimeout = 30 * time.Second

// JobStatus is one live status observation. Found is false when the
// scheduler executed the query but had no record of the job; that is a
// confirmed absence, distinct from a query error.
type JobStatus struct {
	Found bool
	Name  string
	State string
}

// Client runs the scheduler commands. The command names are fields so
// tests can substitute fakes.
type Client struct {
	SubmitCmd string
	StatusCmd string
	TraceCmd  string
	Timeout   time.Duration
}

func NewClient() *Client {
	return &Client{
		SubmitCmd: "qsub",
		StatusCmd: "qstat",
		TraceCmd:  "tracejob",
		Timeout:   defaultQueryTimeout,
	}
}

// Submit runs qsub with the pass-through arguments. Stdin is inherited
// so PBS can prompt for a password; stdout is returned for job-id
// parsing. A non-zero exit reports the captured stderr text.
func (c *Client) Submit(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, c.SubmitCmd, args...)
	cmd.Stdin = os.Stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s command not found, PBS/Torque may not be installed", c.SubmitCmd)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s submission failed: %s", c.SubmitCmd, msg)
	}
	return stdout.String(), nil
}

// Status queries the job's live queue entry via `qstat -f`. A non-zero
// qstat exit or output without a job_state line is a confirmed absence
// (Found false, nil error); a spawn failure or timeout is returned as
// an error and says nothing about the job.
func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	out, err := exec.CommandContext(ctx, c.StatusCmd, "-f", jobID).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			// qstat ran and rejected the job id
			return JobStatus{}, nil
		}
		return JobStatus{}, fmt.Errorf("query job %s: %w", jobID, err)
	}

	state := ParseJobState(string(out))
	if state == "" {
		return JobStatus{}, nil
	}
	return JobStatus{
		Found: true,
		Name:  ParseJobName(string(out)),
		State: state,
	}, nil
}

// ExitStatus recovers a finished job's exit code from the scheduler's
// trace log. ok is false when the trace query fails or records no
// Exit_status; that never blocks notification.
func (c *Client) ExitStatus(ctx context.Context, jobID string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	out, err := exec.CommandContext(ctx, c.TraceCmd, "-n", "1", jobID).Output()
	if err != nil {
		return "", false
	}
	return ParseExitStatus(string(out))
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultQueryTimeout
}
