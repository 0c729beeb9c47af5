package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Frequency is the calendar unit a rule repeats on.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ErrInvalidRule marks a malformed or contradictory rule. Callers treat it
// as a skipped recurrence, never as a fatal condition.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// Rule is a declarative description of a repeating calendar pattern.
// All dates are naive calendar dates: midnight UTC, no wall-clock time.
type Rule struct {
	Frequency  Frequency
	Interval   int            // every N units, >= 1
	DaysOfWeek []time.Weekday // weekly only; overrides interval-week stepping
	DayOfMonth int            // monthly only; 0 preserves the source day

	StartDate       time.Time
	EndDate         *time.Time // inclusive upper bound
	MaxOccurrences  int        // 0 = unbounded
	LeadTimeDays    *int       // generation look-ahead window, >= 0; nil = unset
	LastGeneratedAt *time.Time
}

// Validate rejects contradictory rules before any date arithmetic runs.
func (r Rule) Validate() error {
	switch r.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval %d, want >= 1", ErrInvalidRule, r.Interval)
	}
	if len(r.DaysOfWeek) > 0 && r.Frequency != Weekly {
		return fmt.Errorf("%w: days of week set on %s rule", ErrInvalidRule, r.Frequency)
	}
	if r.DayOfMonth != 0 {
		if r.Frequency != Monthly {
			return fmt.Errorf("%w: day of month set on %s rule", ErrInvalidRule, r.Frequency)
		}
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month %d out of range", ErrInvalidRule, r.DayOfMonth)
		}
	}
	if r.LeadTimeDays != nil && *r.LeadTimeDays < 0 {
		return fmt.Errorf("%w: negative lead time %d", ErrInvalidRule, *r.LeadTimeDays)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}
	return nil
}

// DateOf strips the wall-clock part, leaving midnight UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from one date to another,
// negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

func daysInMonth(year int, month time.Month) int {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
