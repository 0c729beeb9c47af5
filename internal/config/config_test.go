package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DATABASE_URL", "LOG_LEVEL", "TICK_INTERVAL_HOURS", "REMINDER_INTERVAL_HOURS", "DEFAULT_LEAD_TIME_DAYS", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "recaller.db", cfg.DatabaseURL)
	assert.Equal(t, 6*time.Hour, cfg.TickInterval())
	assert.Equal(t, 12*time.Hour, cfg.ReminderInterval())
	assert.Equal(t, 3, cfg.DefaultLeadTimeDays)
	assert.True(t, cfg.Reminders.SameDay)
	assert.True(t, cfg.Reminders.DayBefore)
	assert.False(t, cfg.Reminders.WeekBefore)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "/var/lib/recaller/data.db")
	t.Setenv("TICK_INTERVAL_HOURS", "2")
	t.Setenv("DEFAULT_LEAD_TIME_DAYS", "14")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/recaller/data.db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.TickInterval())
	assert.Equal(t, 14, cfg.DefaultLeadTimeDays)
	assert.Equal(t, int64(-100200300), cfg.Telegram.ChatID)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
database_url: /data/from-file.db
tick_interval_hours: 4
reminders:
  same_day: false
  week_before: true
  custom_days: [3, 30]
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TICK_INTERVAL_HOURS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/from-file.db", cfg.DatabaseURL)
	assert.Equal(t, 8*time.Hour, cfg.TickInterval(), "env wins over file")
	assert.False(t, cfg.Reminders.SameDay)
	assert.True(t, cfg.Reminders.WeekBefore)
	assert.Equal(t, []int{3, 30}, cfg.Reminders.CustomDays)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TICK_INTERVAL_HOURS", "-1")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TICK_INTERVAL_HOURS", "")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err = Load()
	require.Error(t, err)
}
