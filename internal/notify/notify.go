// Package notify is the delivery boundary for due reminders. The scheduler
// only promises a correct, de-duplicated due list; how it reaches the user
// is a sink's problem.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DueReminder is one triggered reminder as handed to a sink.
type DueReminder struct {
	ReminderID  uint
	TenantID    uint
	UserID      uint
	Title       string
	Description string
	ContactName string
	DueOn       time.Time
	DaysUntil   int
}

// Summary renders the one-line message sinks deliver.
func (d DueReminder) Summary() string {
	when := "due today"
	switch {
	case d.DaysUntil == 1:
		when = "due tomorrow"
	case d.DaysUntil > 1:
		when = fmt.Sprintf("due in %d days (%s)", d.DaysUntil, d.DueOn.Format("2006-01-02"))
	}
	if d.ContactName != "" {
		return fmt.Sprintf("%s (%s) — %s", d.Title, d.ContactName, when)
	}
	return fmt.Sprintf("%s — %s", d.Title, when)
}

// Notifier delivers a batch of due reminders.
type Notifier interface {
	Send(ctx context.Context, due []DueReminder) error
}

// LogNotifier writes due reminders to the log. Always available; used when
// no external sink is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Send(_ context.Context, due []DueReminder) error {
	for _, d := range due {
		n.log.Info().
			Uint("reminder_id", d.ReminderID).
			Uint("user_id", d.UserID).
			Time("due_on", d.DueOn).
			Int("days_until", d.DaysUntil).
			Msg(d.Summary())
	}
	return nil
}
