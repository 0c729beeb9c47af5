package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nexlified/Recaller-sub002/internal/notify"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
	"github.com/Nexlified/Recaller-sub002/internal/repository"
)

// ReminderService builds the due list for personal reminders and hands it
// to the notifier. Reminders never materialize rows; de-duplication is the
// LastSentFor occurrence marker.
type ReminderService struct {
	repo     *repository.ReminderRepository
	notifier notify.Notifier
	defaults recurrence.Offsets
	log      zerolog.Logger
}

func NewReminderService(repo *repository.ReminderRepository, notifier notify.Notifier, defaults recurrence.Offsets, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		repo:     repo,
		notifier: notifier,
		defaults: defaults,
		log:      log.With().Str("component", "reminders").Logger(),
	}
}

// DueReminders classifies every active reminder against its offsets for
// the given day. Reminders with malformed rules are logged and skipped.
func (s *ReminderService) DueReminders(ctx context.Context, today time.Time) ([]notify.DueReminder, error) {
	reminders, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	today = recurrence.DateOf(today)
	var due []notify.DueReminder
	for _, reminder := range reminders {
		if reminder.Recurrence == nil {
			continue
		}
		rule, err := reminder.Recurrence.Rule()
		if err != nil {
			s.log.Warn().Err(err).Uint("reminder_id", reminder.ID).Msg("skipping reminder with invalid rule")
			continue
		}

		// Reminders never materialize rows, so the rule's bookkeeping never
		// advances; re-anchor on today to find the upcoming occurrence.
		next, ok, err := recurrence.NextOnOrAfter(rule, today)
		if err != nil {
			s.log.Warn().Err(err).Uint("reminder_id", reminder.ID).Msg("skipping reminder")
			continue
		}
		if !ok {
			continue
		}

		offsets, err := reminder.Offsets()
		if err != nil {
			s.log.Warn().Err(err).Uint("reminder_id", reminder.ID).Msg("bad custom offsets, using stored flags only")
		}
		if !offsets.SameDay && !offsets.DayBefore && !offsets.WeekBefore && len(offsets.CustomDays) == 0 {
			offsets = s.defaults
		}

		daysUntil := recurrence.DaysBetween(today, next)
		if !offsets.Matches(daysUntil) {
			continue
		}
		// Already dispatched for this occurrence.
		if reminder.LastSentFor != nil && recurrence.DateOf(*reminder.LastSentFor).Equal(next) {
			continue
		}

		item := notify.DueReminder{
			ReminderID:  reminder.ID,
			TenantID:    reminder.TenantID,
			UserID:      reminder.UserID,
			Title:       reminder.Title,
			Description: reminder.Description,
			DueOn:       next,
			DaysUntil:   daysUntil,
		}
		if reminder.Contact != nil {
			item.ContactName = reminder.Contact.FullName()
		}
		due = append(due, item)
	}
	return due, nil
}

// DispatchDue sends the due list and marks each reminder's occurrence as
// notified. Returns how many reminders were delivered.
func (s *ReminderService) DispatchDue(ctx context.Context, today time.Time) (int, error) {
	due, err := s.DueReminders(ctx, today)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	if err := s.notifier.Send(ctx, due); err != nil {
		return 0, err
	}

	sentAt := time.Now().UTC()
	for _, d := range due {
		if err := s.repo.MarkNotified(ctx, d.ReminderID, d.DueOn, sentAt); err != nil {
			s.log.Error().Err(err).Uint("reminder_id", d.ReminderID).Msg("failed to mark reminder notified")
		}
	}
	return len(due), nil
}
