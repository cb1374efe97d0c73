package rbac

import "time"

// Role is a named bundle of permissions assignable to principals.
type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"uniqueIndex;not null"`
	Permissions []Permission `gorm:"many2many:role_has_permissions;"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission is an atomic named capability, seeded from a fixed catalog.
type Permission struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// RoleHasPermission is the role-to-permission join row.
type RoleHasPermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (RoleHasPermission) TableName() string {
	return "role_has_permissions"
}

// ModelHasRole assigns a role to a principal. The principal id is the user
// UUID, kept as a plain string so this package stays independent of the user
// datamodel.
type ModelHasRole struct {
	PrincipalID string `gorm:"column:principal_id;primaryKey;type:uuid"`
	RoleID      int64  `gorm:"column:role_id;primaryKey"`
}

func (ModelHasRole) TableName() string {
	return "model_has_roles"
}
