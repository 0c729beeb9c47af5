package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

// Reminder is a personal reminder (birthdays, check-ins, renewals). It is
// never materialized into rows; the due query classifies it against its
// notification offsets and the notifier delivers it. LastSentFor records
// the occurrence date last dispatched so one occurrence notifies once.
type Reminder struct {
	ID          uint `gorm:"primaryKey"`
	TenantID    uint `gorm:"index"`
	UserID      uint `gorm:"index"`
	ContactID   *uint
	Title       string
	Description string
	IsActive    bool

	NotifySameDay    bool
	NotifyDayBefore  bool
	NotifyWeekBefore bool
	CustomOffsets    string // CSV of day counts before the due date

	LastSentAt  *time.Time
	LastSentFor *time.Time

	Recurrence *RecurrenceSpec `gorm:"polymorphic:Owner"`
	Contact    *Contact

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Offsets maps the stored notification flags onto the engine's offset set.
func (r Reminder) Offsets() (recurrence.Offsets, error) {
	offsets := recurrence.Offsets{
		SameDay:    r.NotifySameDay,
		DayBefore:  r.NotifyDayBefore,
		WeekBefore: r.NotifyWeekBefore,
	}
	csv := strings.TrimSpace(r.CustomOffsets)
	if csv == "" {
		return offsets, nil
	}
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return offsets, fmt.Errorf("reminder %d: custom offset %q", r.ID, part)
		}
		offsets.CustomDays = append(offsets.CustomDays, n)
	}
	return offsets, nil
}
