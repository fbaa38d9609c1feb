// Package config loads runtime settings from the environment
package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule runs the reminder sweep every morning at 09:00
const DefaultReminderSchedule = "0 9 * * *"

var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")

// Config holds the bot settings
type Config struct {
	TelegramToken    string
	OpenAIAPIKey     string // optional
	ReminderSchedule string // standard 5-field cron spec
	MetricsAddr      string // optional, e.g. ":9090"
}

// Load reads settings from the environment, after loading .env files if they exist.
// Variables already present in the environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
		log.Printf("Loaded environment from %s", f)
	}

	cfg := Config{
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		ReminderSchedule: envOr("REMINDER_SCHEDULE", DefaultReminderSchedule),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the bot cannot start without
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid REMINDER_SCHEDULE %q: %w", c.ReminderSchedule, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
