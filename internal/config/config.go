package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config keeps runtime settings for the scheduler process. Values come
// from an optional YAML file (CONFIG_FILE) with environment variables
// taking precedence.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`

	TickIntervalHours     int `yaml:"tick_interval_hours"`
	ReminderIntervalHours int `yaml:"reminder_interval_hours"`
	DefaultLeadTimeDays   int `yaml:"default_lead_time_days"`

	Reminders RemindersConfig `yaml:"reminders"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

// RemindersConfig sets the offsets used when a reminder configures none.
type RemindersConfig struct {
	SameDay    bool  `yaml:"same_day"`
	DayBefore  bool  `yaml:"day_before"`
	WeekBefore bool  `yaml:"week_before"`
	CustomDays []int `yaml:"custom_days"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalHours) * time.Hour
}

func (c Config) ReminderInterval() time.Duration {
	return time.Duration(c.ReminderIntervalHours) * time.Hour
}

// Load reads configuration from the optional YAML file and environment
// variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:           "recaller.db",
		LogLevel:              "info",
		TickIntervalHours:     6,
		ReminderIntervalHours: 12,
		DefaultLeadTimeDays:   3,
		Reminders:             RemindersConfig{SameDay: true, DayBefore: true},
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := envInt("TICK_INTERVAL_HOURS"); ok {
		cfg.TickIntervalHours = v
	}
	if v, ok := envInt("REMINDER_INTERVAL_HOURS"); ok {
		cfg.ReminderIntervalHours = v
	}
	if v, ok := envInt("DEFAULT_LEAD_TIME_DAYS"); ok {
		cfg.DefaultLeadTimeDays = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = chatID
	}

	if cfg.TickIntervalHours <= 0 {
		return cfg, fmt.Errorf("tick interval must be positive, got %d", cfg.TickIntervalHours)
	}
	if cfg.DefaultLeadTimeDays < 0 {
		return cfg, fmt.Errorf("default lead time must not be negative, got %d", cfg.DefaultLeadTimeDays)
	}

	return cfg, nil
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
