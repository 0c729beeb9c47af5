package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Nexlified/Recaller-sub002/internal/model"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

// TransactionRepository handles recurring-transaction templates and the
// ledger entries generated from them.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateTemplate(ctx context.Context, template *model.RecurringTransaction) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("create transaction template: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListActiveTemplates(ctx context.Context) ([]model.RecurringTransaction, error) {
	var templates []model.RecurringTransaction
	if err := r.db.WithContext(ctx).
		Preload("Recurrence").
		Where("is_active = ?", true).
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TransactionRepository) CountInstances(ctx context.Context, templateID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("template_id = ?", templateID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

// GenerateInstance books one occurrence of a template as a ledger entry.
// Balance posting is the ledger service's concern, not the scheduler's.
func (r *TransactionRepository) GenerateInstance(ctx context.Context, templateID uint, due time.Time) error {
	occurrence := recurrence.DateOf(due)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template model.RecurringTransaction
		err := tx.Preload("Recurrence").First(&template, templateID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("transaction template %d no longer exists", templateID)
		}
		if err != nil {
			return fmt.Errorf("load transaction template %d: %w", templateID, err)
		}
		if template.Recurrence == nil {
			return fmt.Errorf("transaction template %d has no recurrence spec", templateID)
		}

		var existing int64
		if err := tx.Model(&model.Transaction{}).
			Where("template_id = ? AND occurred_on = ?", templateID, occurrence).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing transaction: %w", err)
		}
		if existing > 0 {
			return nil
		}

		entry := model.Transaction{
			TenantID:    template.TenantID,
			UserID:      template.UserID,
			TemplateID:  &template.ID,
			OccurredOn:  occurrence,
			Description: template.Description,
			Amount:      template.Amount,
			Currency:    template.Currency,
			Direction:   template.Direction,
			Category:    template.Category,
			AccountID:   template.AccountID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if isDuplicate(err) {
				return nil
			}
			return fmt.Errorf("create transaction: %w", err)
		}

		return advanceBookkeeping(tx, template.Recurrence.ID, occurrence)
	})
}

// Deactivate retires a template without touching generated entries.
func (r *TransactionRepository) Deactivate(ctx context.Context, templateID uint) error {
	if err := r.db.WithContext(ctx).Model(&model.RecurringTransaction{}).
		Where("id = ?", templateID).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate template: %w", err)
	}
	return nil
}
