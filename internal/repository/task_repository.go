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

// TaskRepository handles tasks and their generated instances.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("Recurrence").Preload("Categories").Preload("Contacts").
		First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListRecurringTemplates returns tasks the scheduler considers candidates:
// recurring, not completed, with a recurrence spec attached.
func (r *TaskRepository) ListRecurringTemplates(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("Recurrence").
		Where("is_recurring = ? AND status <> ?", true, model.TaskStatusCompleted).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountInstances(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("parent_task_id = ?", parentID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count task instances: %w", err)
	}
	return count, nil
}

// GenerateInstance materializes one occurrence of a recurring task. The
// instance insert, the copied category/contact links and the spec
// bookkeeping commit in a single transaction; an occurrence that already
// exists is a silent no-op.
func (r *TaskRepository) GenerateInstance(ctx context.Context, parentID uint, due time.Time) error {
	occurrence := recurrence.DateOf(due)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent model.Task
		err := tx.Preload("Recurrence").Preload("Categories").Preload("Contacts").
			First(&parent, parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("recurring task %d no longer exists", parentID)
		}
		if err != nil {
			return fmt.Errorf("load recurring task %d: %w", parentID, err)
		}
		if parent.Recurrence == nil {
			return fmt.Errorf("task %d has no recurrence spec", parentID)
		}

		var existing int64
		if err := tx.Model(&model.Task{}).
			Where("parent_task_id = ? AND due_date = ?", parentID, occurrence).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing instance: %w", err)
		}
		if existing > 0 {
			return nil
		}

		instance := model.Task{
			TenantID:     parent.TenantID,
			UserID:       parent.UserID,
			Title:        parent.Title,
			Description:  parent.Description,
			Status:       model.TaskStatusPending,
			Priority:     parent.Priority,
			DueDate:      &occurrence,
			IsRecurring:  false,
			ParentTaskID: &parent.ID,
			Categories:   parent.Categories,
			Contacts:     parent.Contacts,
		}
		if err := tx.Create(&instance).Error; err != nil {
			if isDuplicate(err) {
				return nil
			}
			return fmt.Errorf("create task instance: %w", err)
		}

		return advanceBookkeeping(tx, parent.Recurrence.ID, occurrence)
	})
}

// Update applies a typed patch to a task.
func (r *TaskRepository) Update(ctx context.Context, taskID uint, patch model.TaskPatch) (*model.Task, error) {
	var task model.Task
	db := r.db.WithContext(ctx)
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, err
	}
	patch.Apply(&task)
	if err := db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

// Delete removes a task together with its recurrence spec and join rows.
func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", model.OwnerTasks, taskID).
			Delete(&model.RecurrenceSpec{}).Error; err != nil {
			return fmt.Errorf("delete task spec: %w", err)
		}
		if err := tx.Exec("DELETE FROM task_categories WHERE task_id = ?", taskID).Error; err != nil {
			return fmt.Errorf("delete task categories: %w", err)
		}
		if err := tx.Exec("DELETE FROM task_contacts WHERE task_id = ?", taskID).Error; err != nil {
			return fmt.Errorf("delete task contacts: %w", err)
		}
		if err := tx.Delete(&model.Task{}, taskID).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}
