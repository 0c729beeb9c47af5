package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Nexlified/Recaller-sub002/internal/model"
)

// SpecRepository manages recurrence specs across all owner types.
type SpecRepository struct {
	db *gorm.DB
}

func NewSpecRepository(db *gorm.DB) *SpecRepository {
	return &SpecRepository{db: db}
}

func (r *SpecRepository) FindForOwner(ctx context.Context, ownerType string, ownerID uint) (*model.RecurrenceSpec, error) {
	var spec model.RecurrenceSpec
	if err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		First(&spec).Error; err != nil {
		return nil, err
	}
	return &spec, nil
}

// ApplyPatch edits a pattern. When the pattern itself changed the
// generation bookkeeping is reset so the next tick recomputes from the
// start date.
func (r *SpecRepository) ApplyPatch(ctx context.Context, ownerType string, ownerID uint, patch model.RecurrencePatch) (*model.RecurrenceSpec, error) {
	var spec *model.RecurrenceSpec
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found model.RecurrenceSpec
		if err := tx.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
			First(&found).Error; err != nil {
			return err
		}
		if patch.Apply(&found) {
			found.GenerationCount = 0
			found.LastGeneratedAt = nil
		}
		if err := tx.Save(&found).Error; err != nil {
			return fmt.Errorf("save spec: %w", err)
		}
		spec = &found
		return nil
	})
	return spec, err
}

// DeleteForOwner removes the spec when its owner is converted to
// non-recurring or deleted.
func (r *SpecRepository) DeleteForOwner(ctx context.Context, ownerType string, ownerID uint) error {
	if err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&model.RecurrenceSpec{}).Error; err != nil {
		return fmt.Errorf("delete spec: %w", err)
	}
	return nil
}

// PurgeOrphans drops specs whose owner row is gone. Runs as the
// scheduler's cleanup job.
func (r *SpecRepository) PurgeOrphans(ctx context.Context) (int64, error) {
	// Owner type doubles as the owner's table name.
	owners := []string{model.OwnerTasks, model.OwnerTransactions, model.OwnerReminders}

	var purged int64
	db := r.db.WithContext(ctx)
	for _, owner := range owners {
		res := db.Exec(
			"DELETE FROM recurrence_specs WHERE owner_type = ? AND owner_id NOT IN (SELECT id FROM "+owner+")",
			owner,
		)
		if res.Error != nil {
			return purged, fmt.Errorf("purge %s specs: %w", owner, res.Error)
		}
		purged += res.RowsAffected
	}
	return purged, nil
}
