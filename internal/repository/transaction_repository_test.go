package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexlified/Recaller-sub002/internal/model"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

func seedTemplate(t *testing.T, repo *TransactionRepository) *model.RecurringTransaction {
	t.Helper()
	day := 1
	template := &model.RecurringTransaction{
		TenantID:    1,
		UserID:      4,
		Description: "Rent",
		Amount:      1450,
		Currency:    "EUR",
		Direction:   model.DirectionDebit,
		Category:    "housing",
		IsActive:    true,
		Recurrence: &model.RecurrenceSpec{
			Frequency:  string(recurrence.Monthly),
			Interval:   1,
			DayOfMonth: &day,
			StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, repo.CreateTemplate(context.Background(), template))
	return template
}

func TestGenerateTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	template := seedTemplate(t, repo)
	due := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.GenerateInstance(ctx, template.ID, due))
	require.NoError(t, repo.GenerateInstance(ctx, template.ID, due), "retry must be a no-op")

	var entries []model.Transaction
	require.NoError(t, db.Where("template_id = ?", template.ID).Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, template.TenantID, entry.TenantID)
	assert.Equal(t, template.Description, entry.Description)
	assert.Equal(t, template.Amount, entry.Amount)
	assert.Equal(t, template.Currency, entry.Currency)
	assert.Equal(t, model.DirectionDebit, entry.Direction)
	assert.Equal(t, "housing", entry.Category)
	assert.True(t, entry.OccurredOn.Equal(due))

	var spec model.RecurrenceSpec
	require.NoError(t, db.Where("owner_type = ? AND owner_id = ?", model.OwnerTransactions, template.ID).
		First(&spec).Error)
	assert.Equal(t, 1, spec.GenerationCount)
}

func TestGenerateTransactionDistinctDates(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	template := seedTemplate(t, repo)
	require.NoError(t, repo.GenerateInstance(ctx, template.ID, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.GenerateInstance(ctx, template.ID, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))

	count, err := repo.CountInstances(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeactivateRemovesFromCandidates(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	template := seedTemplate(t, repo)
	require.NoError(t, repo.Deactivate(ctx, template.ID))

	templates, err := repo.ListActiveTemplates(ctx)
	require.NoError(t, err)
	assert.Empty(t, templates)
}
