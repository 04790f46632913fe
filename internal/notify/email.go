// Package notify sends the job-completion email.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// Message is the one-shot payload describing a finished job.
type Message struct {
	JobID      string
	JobName    string // empty when the scheduler never reported one
	ExitStatus string // empty when unresolved
}

const unknownName = "Unknown"

// Subject renders the email subject line.
func (m Message) Subject() string {
	return fmt.Sprintf("PBS Job Completed: %s (Job ID: %s)", m.name(), m.JobID)
}

// Body renders the plain-text email body. The completion timestamp is
// taken at send time, not job-completion time.
func (m Message) Body(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job ID: %s\n", m.JobID)
	fmt.Fprintf(&b, "Job Name: %s\n", m.name())
	fmt.Fprintf(&b, "Completion Time: %s\n", now.Format("2006-01-02 15:04:05"))
	if m.ExitStatus != "" {
		fmt.Fprintf(&b, "Exit Status: %s\n", m.ExitStatus)
	}
	return b.String()
}

func (m Message) name() string {
	if m.JobName == "" {
		return unknownName
	}
	return m.JobName
}

// SMTPConfig holds the relay coordinates for the email notifier.
type SMTPConfig struct {
	Server    string
	Port      int
	User      string
	Password  string
	Recipient string
}

// EmailNotifier delivers Messages over an authenticated STARTTLS
// session to the configured relay.
type EmailNotifier struct {
	client    *mail.Client
	from      string
	recipient string
	logger    *slog.Logger
	now       func() time.Time
}

func NewEmail(cfg SMTPConfig, logger *slog.Logger) (*EmailNotifier, error) {
	client, err := mail.NewClient(cfg.Server,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &EmailNotifier{
		client:    client,
		from:      cfg.User,
		recipient: cfg.Recipient,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Notify builds and sends one email. Transport failures come back as
// errors for the caller to log; they never panic.
func (n *EmailNotifier) Notify(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(n.recipient); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(m.Subject())
	msg.SetBodyString(mail.TypeTextPlain, m.Body(n.now()))

	n.logger.Info("sending notification email", "job_id", m.JobID, "recipient", n.recipient)
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
