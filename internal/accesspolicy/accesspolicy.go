// Package accesspolicy decides whether a principal may perform a named
// capability. Role-to-permission is a flat many-to-many: a principal holds
// roles, a role carries permissions, and a capability check is membership in
// the union of the principal's role permissions. There is no hierarchy or
// inheritance between roles.
package accesspolicy

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal/core/datamodel/rbac"
)

// AdminRole is the coarse-grained super-role checked directly by several
// services. A role check and a permission check are distinct predicates and
// are never collapsed into one.
const AdminRole = "Admin"

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrRoleNotFound = errors.New("role not found")
)

// Repository is the persistence contract for roles, permissions and role
// assignments.
type Repository interface {
	GetRoleByName(ctx context.Context, name string) (*rbac.Role, error)
	GetRoleByID(ctx context.Context, id int64) (*rbac.Role, error)
	ListRoles(ctx context.Context) ([]rbac.Role, error)
	ListPermissions(ctx context.Context) ([]rbac.Permission, error)
	CreateRole(ctx context.Context, name string, permissionIDs []int64) (*rbac.Role, error)
	UpdateRole(ctx context.Context, id int64, name string, permissionIDs []int64) (*rbac.Role, error)

	// DeleteRole removes the role, its permission links and every
	// assignment of it in one transaction.
	DeleteRole(ctx context.Context, id int64) error

	RolesForPrincipal(ctx context.Context, principalID string) ([]rbac.Role, error)
	AssignRole(ctx context.Context, principalID string, roleID int64) error
	SyncRoles(ctx context.Context, principalID string, roleIDs []int64) error
}

// Evaluator is the read side consumed by middleware and services. Both
// checks fail closed: a store error yields (false, err) and every call site
// treats an error as deny.
type Evaluator interface {
	HasPermission(ctx context.Context, principalID, permission string) (bool, error)
	HasRole(ctx context.Context, principalID, roleName string) (bool, error)
	PrincipalAccess(ctx context.Context, principalID string) (roles []string, permissions []string, err error)
}
