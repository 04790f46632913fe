package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mqsub/internal/config"
)

func NewConfigRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(NewConfigShowCmd())
	return cmd
}

func NewConfigShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			fmt.Printf("smtp_server     = %s\n", cfg.SMTPServer)
			fmt.Printf("smtp_port       = %d\n", cfg.SMTPPort)
			fmt.Printf("smtp_user       = %s\n", cfg.SMTPUser)
			fmt.Printf("smtp_password   = (redacted)\n")
			fmt.Printf("recipient_email = %s\n", cfg.RecipientEmail)
			fmt.Printf("pbs_username    = %s\n", cfg.PBSUsername)
			fmt.Printf("poll_interval   = %ds\n", cfg.PollInterval)
			fmt.Printf("history_db      = %s\n", cfg.HistoryDB)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to configuration file")
	return cmd
}
