package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mqsub",
		Short:        "Submit PBS jobs and get an email when they finish",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		NewSubmitCmd(),
		NewMonitorCmd(),
		NewStatusCmd(),
		NewListCmd(),
		NewConfigRootCmd(),
	)
	return cmd
}
