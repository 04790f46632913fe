// Package config loads the mqsub configuration: a JSON file merged with
// defaults and overridden by MQSUB_-prefixed environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultPath is where the config file is looked up when no
// -c/--config override is given.
const DefaultPath = "config.json"

const (
	defaultPBSUsername  = "zpzheng"
	defaultPollInterval = 60
	defaultHistoryDB    = "mqsub.db"
)

// Config holds the full process configuration. It is loaded once and
// never mutated afterwards.
type Config struct {
	SMTPServer     string `json:"smtp_server" env:"SMTP_SERVER"`
	SMTPPort       int    `json:"smtp_port" env:"SMTP_PORT"`
	SMTPUser       string `json:"smtp_user" env:"SMTP_USER"`
	SMTPPassword   string `json:"smtp_password" env:"SMTP_PASSWORD"`
	RecipientEmail string `json:"recipient_email" env:"RECIPIENT_EMAIL"`
	PBSUsername    string `json:"pbs_username" env:"PBS_USERNAME"`
	PollInterval   int    `json:"poll_interval" env:"POLL_INTERVAL"`
	HistoryDB      string `json:"history_db" env:"HISTORY_DB"`
}

// Load reads the JSON config at path, applies defaults, layers
// MQSUB_-prefixed environment variables on top and validates that every
// required key ended up set. The error for missing keys names all of
// them at once.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("configuration file not found: %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read configuration file: %w", err)
	}

	cfg := Config{
		PBSUsername:  defaultPBSUsername,
		PollInterval: defaultPollInterval,
		HistoryDB:    defaultHistoryDB,
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON in configuration file: %w", err)
	}

	// Load .env if present (development), then env overrides so SMTP
	// credentials can stay out of the config file.
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MQSUB_"}); err != nil {
		return Config{}, fmt.Errorf("parse environment overrides: %w", err)
	}

	if missing := cfg.missingKeys(); len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration parameters: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func (c Config) missingKeys() []string {
	var missing []string
	if c.SMTPServer == "" {
		missing = append(missing, "smtp_server")
	}
	if c.SMTPPort == 0 {
		missing = append(missing, "smtp_port")
	}
	if c.SMTPUser == "" {
		missing = append(missing, "smtp_user")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "smtp_password")
	}
	if c.RecipientEmail == "" {
		missing = append(missing, "recipient_email")
	}
	return missing
}

// PollDuration returns the poll interval as a time.Duration.
func (c Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}
