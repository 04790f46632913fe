package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mqsub/internal/config"
	"mqsub/internal/logging"
	"mqsub/internal/monitor"
	"mqsub/internal/notify"
	"mqsub/internal/pbs"
	"mqsub/internal/store"
)

// NewMonitorCmd is the detached spawn target of `mqsub submit`. It
// runs one notification cycle and exits silently, or exits immediately
// if the job was never enqueued.
func NewMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "monitor <job_id> [config_path]",
		Short:  "Poll a submitted job until completion and send the notification",
		Hidden: true,
		Args:   cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.DefaultPath
			if len(args) == 2 {
				configPath = args[1]
			}
			return runMonitor(cmd.Context(), args[0], configPath)
		},
	}
}

func runMonitor(ctx context.Context, jobID, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := logging.New("monitor")
	if err != nil {
		return err
	}
	logger = logger.With("job_id", jobID, "run_id", uuid.NewString())

	notifier, err := notify.NewEmail(notify.SMTPConfig{
		Server:    cfg.SMTPServer,
		Port:      cfg.SMTPPort,
		User:      cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		Recipient: cfg.RecipientEmail,
	}, logger)
	if err != nil {
		return err
	}

	mon := &monitor.Monitor{
		Jobs:     pbs.NewClient(),
		Notifier: notifier,
		Logger:   logger,
		Interval: cfg.PollDuration(),
	}
	res := mon.Run(ctx, jobID)

	if res.Notified {
		markNotified(ctx, cfg, jobID)
	}
	return nil
}

// markNotified stamps the history row. The history db may not exist
// where the detached monitor runs, so errors are ignored.
func markNotified(ctx context.Context, cfg config.Config, jobID string) {
	st, err := store.NewStore(cfg.HistoryDB)
	if err != nil {
		return
	}
	defer st.DB.Close()
	_ = st.MarkNotified(ctx, jobID, time.Now().UTC())
}
