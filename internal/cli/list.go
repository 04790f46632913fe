package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mqsub/internal/config"
	"mqsub/internal/store"
)

func NewListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locally recorded submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			st, err := store.NewStore(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer st.DB.Close()

			subs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("No submissions recorded.")
				return nil
			}

			for _, s := range subs {
				notified := "awaiting completion"
				if s.NotifiedAt != nil {
					notified = "notified " + humanize.Time(*s.NotifiedAt)
				}
				fmt.Printf("%s | submitted %s by %s | %s | %s\n",
					s.JobID, humanize.Time(s.SubmittedAt), s.Submitter, notified, s.Command)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to configuration file")
	return cmd
}
