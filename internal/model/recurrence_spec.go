package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

// Polymorphic owner types as GORM stores them (owner table names).
const (
	OwnerTasks        = "tasks"
	OwnerTransactions = "recurring_transactions"
	OwnerReminders    = "reminders"
)

// RecurrenceSpec is the persisted repeat pattern, owned 1:1 by a task,
// recurring-transaction template or reminder via a polymorphic relation.
// Bookkeeping fields (GenerationCount, LastGeneratedAt) are written only by
// the scheduler; user edits to the pattern reset them.
type RecurrenceSpec struct {
	ID        uint   `gorm:"primaryKey"`
	OwnerID   uint   `gorm:"index:idx_spec_owner,unique"`
	OwnerType string `gorm:"index:idx_spec_owner,unique"`

	Frequency      string `gorm:"default:daily"`
	Interval       int    `gorm:"default:1"`
	DaysOfWeek     string // CSV of weekday indices, weekly only
	DayOfMonth     *int   // monthly only, clamped to month length
	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences *int

	LeadTimeDays    *int // nil defers to the configured default window
	LastGeneratedAt *time.Time
	GenerationCount int `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rule maps the stored row onto the pure calendar engine's value type.
func (s RecurrenceSpec) Rule() (recurrence.Rule, error) {
	days, err := parseWeekdays(s.DaysOfWeek)
	if err != nil {
		return recurrence.Rule{}, err
	}

	rule := recurrence.Rule{
		Frequency:       recurrence.Frequency(s.Frequency),
		Interval:        s.Interval,
		DaysOfWeek:      days,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		LeadTimeDays:    s.LeadTimeDays,
		LastGeneratedAt: s.LastGeneratedAt,
	}
	if s.DayOfMonth != nil {
		rule.DayOfMonth = *s.DayOfMonth
	}
	if s.MaxOccurrences != nil {
		rule.MaxOccurrences = *s.MaxOccurrences
	}
	return rule, rule.Validate()
}

func parseWeekdays(csv string) ([]time.Weekday, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: weekday %q", recurrence.ErrInvalidRule, part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

// WeekdayCSV renders a weekday set in the storage format.
func WeekdayCSV(days ...time.Weekday) string {
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(int(day))
	}
	return strings.Join(parts, ",")
}
