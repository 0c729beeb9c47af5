package model

import "time"

// User owns tasks, reminders and transaction templates within a tenant.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  uint   `gorm:"index"`
	Email     string `gorm:"index:idx_tenant_email,unique"`
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
