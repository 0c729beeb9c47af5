package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Nexlified/Recaller-sub002/internal/model"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

// ReminderRepository handles personal reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListActive(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Preload("Recurrence").Preload("Contact").
		Where("is_active = ?", true).
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// MarkNotified records which occurrence was dispatched so the same due
// date never notifies twice.
func (r *ReminderRepository) MarkNotified(ctx context.Context, reminderID uint, dueOn, sentAt time.Time) error {
	updates := map[string]interface{}{
		"last_sent_at":  sentAt,
		"last_sent_for": recurrence.DateOf(dueOn),
	}
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", reminderID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("mark reminder notified: %w", err)
	}
	return nil
}
