package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mqsub/internal/config"
	"mqsub/internal/model"
	"mqsub/internal/pbs"
	"mqsub/internal/store"
)

func NewSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <script> [qsub options...]",
		Short: "Submit a job via qsub and start a completion monitor",
		// qsub owns every flag except -c/--config, so cobra must not
		// touch the argument vector.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, qsubArgs, help, err := splitSubmitArgs(args)
			if err != nil {
				return err
			}
			if help {
				return cmd.Help()
			}
			if len(qsubArgs) == 0 {
				return errors.New("no script specified, usage: mqsub submit <script> [qsub options...]")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			return runSubmit(cmd.Context(), cfg, configPath, qsubArgs)
		},
	}
	return cmd
}

// splitSubmitArgs extracts mqsub's own -c/--config and -h/--help from
// the raw argument vector; everything else passes through to qsub
// untouched and in order.
func splitSubmitArgs(args []string) (configPath string, qsubArgs []string, help bool, err error) {
	configPath = config.DefaultPath
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "--config":
			if i+1 >= len(args) {
				return "", nil, false, errors.New("--config requires a value")
			}
			configPath = args[i+1]
			i++
		case "-h", "--help":
			help = true
		default:
			qsubArgs = append(qsubArgs, args[i])
		}
	}
	return configPath, qsubArgs, help, nil
}

func runSubmit(ctx context.Context, cfg config.Config, configPath string, qsubArgs []string) error {
	client := pbs.NewClient()

	fmt.Printf("Submitting job: %s %s\n", client.SubmitCmd, strings.Join(qsubArgs, " "))
	fmt.Println("If PBS requires authentication, you may be prompted for a password below.")

	out, err := client.Submit(ctx, qsubArgs)
	if err != nil {
		return err
	}

	jobID, err := pbs.ParseJobID(out)
	if err != nil {
		return fmt.Errorf("failed to parse job id from qsub output %q: %w", strings.TrimSpace(out), err)
	}
	fmt.Printf("Job submitted successfully. Job ID: %s\n", jobID)

	pid, err := spawnMonitor(jobID, configPath)
	if err != nil {
		// the job was submitted; only monitoring is degraded
		fmt.Fprintf(os.Stderr, "Warning: failed to start monitor: %v\n", err)
		fmt.Fprintln(os.Stderr, "Job was submitted but monitoring is not active.")
	} else {
		fmt.Printf("Monitor started. You will receive an email when job %s completes.\n", jobID)
		fmt.Println("The monitor keeps running even if you close this terminal.")
	}

	recordSubmission(ctx, cfg, jobID, qsubArgs, pid)
	return nil
}

// spawnMonitor re-execs this binary as `mqsub monitor` in a new
// session with all standard streams on the null device, so it survives
// the submitter's exit and the terminal closing. Fire-and-forget: the
// parent only learns whether the process started, never its outcome.
func spawnMonitor(jobID, configPath string) (int, error) {
	self, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("locate own executable: %w", err)
	}

	cmd := exec.Command(self, "monitor", jobID, configPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start monitor process: %w", err)
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

// recordSubmission writes the history row. History is best-effort: a
// failure here warns and the submission still counts as successful.
func recordSubmission(ctx context.Context, cfg config.Config, jobID string, qsubArgs []string, pid int) {
	st, err := store.NewStore(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: submission history unavailable: %v\n", err)
		return
	}
	defer st.DB.Close()

	err = st.Record(ctx, model.Submission{
		JobID:       jobID,
		Command:     strings.Join(qsubArgs, " "),
		Submitter:   cfg.PBSUsername,
		SubmittedAt: time.Now().UTC(),
		MonitorPID:  pid,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record submission: %v\n", err)
	}
}
