package pbs

import (
	"errors"
	"strings"
)

// ParseJobID extracts the job identifier from qsub output. PBS prints
// either a bare id ("12345") or a site-suffixed one ("12345.server");
// the suffix after the first '.' is stripped.
func ParseJobID(output string) (string, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return "", errors.New("qsub output is empty")
	}
	line := output
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	id, _, _ := strings.Cut(line, ".")
	if id == "" {
		return "", errors.New("no job id in qsub output")
	}
	return id, nil
}

// ParseJobState returns the job_state code from qstat -f output, or ""
// when no job_state line exists.
func ParseJobState(output string) string {
	return strings.Trim(parseField(output, "job_state"), `"`)
}

// ParseJobName returns the Job_Name from qstat -f output with
// surrounding quotes stripped, or "" when no Job_Name line exists.
func ParseJobName(output string) string {
	return strings.Trim(parseField(output, "Job_Name"), `"`)
}

// parseField finds the first `key = value` line. Absence of the key is
// not an error, just an empty value.
func parseField(output, key string) string {
	prefix := key + " = "
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}

// ParseExitStatus scans tracejob output for a line containing
// Exit_status and returns its third whitespace-delimited field. ok is
// false when no such line exists.
func ParseExitStatus(output string) (exitStatus string, ok bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Exit_status") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			return fields[2], true
		}
	}
	return "", false
}
