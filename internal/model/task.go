package model

import "time"

// Task statuses and priorities are plain strings kept in sync with the API
// layer; the engine only distinguishes completed from everything else.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task is a single planner item. A recurring task acts as a template: the
// scheduler materializes concrete instances from it, each carrying
// ParentTaskID back to the template and never recurring itself.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	TenantID    uint `gorm:"index"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	Status      string `gorm:"default:pending"`
	Priority    string `gorm:"default:medium"`
	DueDate     *time.Time `gorm:"uniqueIndex:idx_task_occurrence"`
	IsRecurring bool       `gorm:"default:false"`

	ParentTaskID *uint           `gorm:"uniqueIndex:idx_task_occurrence"`
	Recurrence   *RecurrenceSpec `gorm:"polymorphic:Owner"`
	Categories   []Category      `gorm:"many2many:task_categories"`
	Contacts     []Contact       `gorm:"many2many:task_contacts"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
