package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mqsub/internal/pbs"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job_id>",
		Short: "Show the scheduler's current state for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]

			st, err := pbs.NewClient().Status(cmd.Context(), jobID)
			if err != nil {
				return fmt.Errorf("status query failed: %w", err)
			}
			if !st.Found {
				fmt.Printf("Job %s not found in queue.\n", jobID)
				return nil
			}

			name := st.Name
			if name == "" {
				name = "Unknown"
			}
			fmt.Printf("%s | %-20s | state=%s\n", jobID, name, st.State)
			return nil
		},
	}
}
