package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REMINDER_SCHEDULE", "")
	t.Setenv("METRICS_ADDR", "")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")
	os.Unsetenv("REMINDER_SCHEDULE")
	os.Unsetenv("METRICS_ADDR")

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "TELEGRAM_BOT_TOKEN=123:abc\nMETRICS_ADDR=:9191\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TelegramToken != "123:abc" || cfg.MetricsAddr != ":9191" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.ReminderSchedule != DefaultReminderSchedule {
		t.Errorf("Expected default schedule, got %q", cfg.ReminderSchedule)
	}
}

func TestLoadEnvironmentWins(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("REMINDER_SCHEDULE", "*/30 * * * *")

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("TELEGRAM_BOT_TOKEN=from-file\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TelegramToken != "from-env" || cfg.ReminderSchedule != "*/30 * * * *" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{ReminderSchedule: DefaultReminderSchedule}).Validate(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Expected ErrMissingToken, got %v", err)
	}
	if err := (Config{TelegramToken: "x", ReminderSchedule: "every day"}).Validate(); err == nil {
		t.Error("Expected an error for an invalid cron spec")
	}
	if err := (Config{TelegramToken: "x", ReminderSchedule: DefaultReminderSchedule}).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
