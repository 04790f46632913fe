package pbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qstatOutput = `Job Id: 12345.server1
    Job_Name = "run_sim"
    Job_Owner = zpzheng@server1
    job_state = R
    queue = share
    server = server1
`

func TestParseJobID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "site suffixed", input: "12345.server1", want: "12345"},
		{name: "bare numeric", input: "12345", want: "12345"},
		{name: "trailing newline", input: "12345.server1\n", want: "12345"},
		{name: "extra lines after first", input: "12345.server1\nsome banner text\n", want: "12345"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "  \n\t", wantErr: true},
		{name: "leading dot", input: ".server1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJobID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobState(t *testing.T) {
	assert.Equal(t, "R", ParseJobState(qstatOutput))
	assert.Equal(t, "", ParseJobState("qstat: Unknown Job Id 99999.server1"))
	assert.Equal(t, "", ParseJobState(""))
}

func TestParseJobName(t *testing.T) {
	assert.Equal(t, "run_sim", ParseJobName(qstatOutput))
	assert.Equal(t, "", ParseJobName("Job Id: 12345.server1\n    job_state = Q\n"))
}

func TestParseJobNameUnquoted(t *testing.T) {
	out := "Job Id: 7.server1\n    Job_Name = plain_name\n    job_state = Q\n"
	assert.Equal(t, "plain_name", ParseJobName(out))
}

func TestParseFieldFirstMatchWins(t *testing.T) {
	out := "job_state = Q\njob_state = C\n"
	assert.Equal(t, "Q", ParseJobState(out))
}

func TestParseExitStatus(t *testing.T) {
	trace := `Job: 12345.server1

    dequeuing from share, state COMPLETE
    Exit_status = 0
`
	got, ok := ParseExitStatus(trace)
	require.True(t, ok)
	assert.Equal(t, "0", got)
}

func TestParseExitStatusNonZero(t *testing.T) {
	got, ok := ParseExitStatus("Exit_status = 271\n")
	require.True(t, ok)
	assert.Equal(t, "271", got)
}

func TestParseExitStatusAbsent(t *testing.T) {
	_, ok := ParseExitStatus("Job: 12345.server1\nno matching records\n")
	assert.False(t, ok)

	// a matching line with fewer than three fields yields nothing
	_, ok = ParseExitStatus("Exit_status\n")
	assert.False(t, ok)
}
