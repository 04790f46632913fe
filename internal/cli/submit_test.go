package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSubmitArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig string
		wantQsub   []string
		wantHelp   bool
		wantErr    bool
	}{
		{
			name:       "passthrough only",
			args:       []string{"run.sh", "-l", "nodes=1:ppn=4", "-q", "share"},
			wantConfig: "config.json",
			wantQsub:   []string{"run.sh", "-l", "nodes=1:ppn=4", "-q", "share"},
		},
		{
			name:       "config before script",
			args:       []string{"-c", "/etc/mqsub.json", "run.sh"},
			wantConfig: "/etc/mqsub.json",
			wantQsub:   []string{"run.sh"},
		},
		{
			name:       "long config after qsub args",
			args:       []string{"run.sh", "-N", "myjob", "--config", "alt.json"},
			wantConfig: "alt.json",
			wantQsub:   []string{"run.sh", "-N", "myjob"},
		},
		{
			name:    "config missing value",
			args:    []string{"run.sh", "--config"},
			wantErr: true,
		},
		{
			name:       "help flag",
			args:       []string{"-h"},
			wantConfig: "config.json",
			wantHelp:   true,
		},
		{
			name:       "no args at all",
			args:       nil,
			wantConfig: "config.json",
			wantQsub:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath, qsubArgs, help, err := splitSubmitArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, configPath)
			assert.Equal(t, tt.wantQsub, qsubArgs)
			assert.Equal(t, tt.wantHelp, help)
		})
	}
}
