package model

import "time"

// Transaction directions.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// RecurringTransaction is the template a recurring financial entry is
// generated from. It never appears in ledgers itself.
type RecurringTransaction struct {
	ID          uint `gorm:"primaryKey"`
	TenantID    uint `gorm:"index"`
	UserID      uint `gorm:"index"`
	Description string
	Amount      float64
	Currency    string `gorm:"default:USD"`
	Direction   string `gorm:"default:debit"`
	Category    string
	AccountID   *uint
	IsActive    bool

	Recurrence *RecurrenceSpec `gorm:"polymorphic:Owner"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is one concrete ledger entry. Generated entries carry
// TemplateID back to their RecurringTransaction; (TemplateID, OccurredOn)
// is unique so a retried generation can never insert twice.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	TenantID    uint      `gorm:"index"`
	UserID      uint      `gorm:"index"`
	TemplateID  *uint     `gorm:"uniqueIndex:idx_transaction_occurrence"`
	OccurredOn  time.Time `gorm:"uniqueIndex:idx_transaction_occurrence"`
	Description string
	Amount      float64
	Currency    string
	Direction   string
	Category    string
	AccountID   *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
