package model

import "time"

// Category groups tasks by area (work, health, family, etc.).
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  uint   `gorm:"index"`
	Name      string `gorm:"index:idx_tenant_category_name,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
