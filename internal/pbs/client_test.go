package pbs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops a fake scheduler command into dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestStatusFound(t *testing.T) {
	dir := t.TempDir()
	qstat := writeScript(t, dir, "qstat", `cat <<'EOF'
Job Id: 12345.server1
    Job_Name = "run_sim"
    job_state = R
EOF`)

	c := &Client{StatusCmd: qstat, Timeout: 5 * time.Second}
	st, err := c.Status(context.Background(), "12345")
	require.NoError(t, err)
	assert.True(t, st.Found)
	assert.Equal(t, "R", st.State)
	assert.Equal(t, "run_sim", st.Name)
}

func TestStatusConfirmedAbsent(t *testing.T) {
	dir := t.TempDir()
	qstat := writeScript(t, dir, "qstat", `echo "qstat: Unknown Job Id 12345.server1" >&2
exit 153`)

	c := &Client{StatusCmd: qstat, Timeout: 5 * time.Second}
	st, err := c.Status(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, st.Found)
}

func TestStatusNoStateLineIsAbsent(t *testing.T) {
	dir := t.TempDir()
	qstat := writeScript(t, dir, "qstat", `echo "Job Id: 12345.server1"`)

	c := &Client{StatusCmd: qstat, Timeout: 5 * time.Second}
	st, err := c.Status(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, st.Found)
}

func TestStatusSpawnFailureIsError(t *testing.T) {
	c := &Client{
		StatusCmd: filepath.Join(t.TempDir(), "no-such-qstat"),
		Timeout:   5 * time.Second,
	}
	_, err := c.Status(context.Background(), "12345")
	require.Error(t, err)
}

func TestExitStatus(t *testing.T) {
	dir := t.TempDir()
	trace := writeScript(t, dir, "tracejob", `echo "    Exit_status = 0"`)

	c := &Client{TraceCmd: trace, Timeout: 5 * time.Second}
	got, ok := c.ExitStatus(context.Background(), "12345")
	require.True(t, ok)
	assert.Equal(t, "0", got)
}

func TestExitStatusQueryFailure(t *testing.T) {
	dir := t.TempDir()
	trace := writeScript(t, dir, "tracejob", `exit 1`)

	c := &Client{TraceCmd: trace, Timeout: 5 * time.Second}
	_, ok := c.ExitStatus(context.Background(), "12345")
	assert.False(t, ok)
}

func TestSubmitCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	qsub := writeScript(t, dir, "qsub", `echo "12345.server1"`)

	c := &Client{SubmitCmd: qsub}
	out, err := c.Submit(context.Background(), []string{"run.sh"})
	require.NoError(t, err)

	id, err := ParseJobID(out)
	require.NoError(t, err)
	assert.Equal(t, "12345", id)
}

func TestSubmitFailureReportsStderr(t *testing.T) {
	dir := t.TempDir()
	qsub := writeScript(t, dir, "qsub", `echo "qsub: script not found" >&2
exit 1`)

	c := &Client{SubmitCmd: qsub}
	_, err := c.Submit(context.Background(), []string{"run.sh"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script not found")
}
