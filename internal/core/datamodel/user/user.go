package user

import (
	"time"
)

// Employment classifications accepted for a principal.
const (
	EmploymentEmployee = "employee"
	EmploymentIntern   = "intern"
	EmploymentManager  = "manager"
)

// User is the persisted shape of a principal. The ID is an opaque UUID so
// identifiers stay stable across the audit trail and cannot be enumerated.
type User struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	EmploymentType string    `gorm:"column:employment_type;default:employee"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentEmployee, EmploymentIntern, EmploymentManager:
		return true
	}
	return false
}
