package model

import (
	"strings"
	"time"
)

// Contact is a person in the tenant's address book. Tasks and reminders may
// link to contacts; generated task instances inherit those links.
type Contact struct {
	ID        uint `gorm:"primaryKey"`
	TenantID  uint `gorm:"index"`
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
