package postgres

import (
	"context"
	"errors"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/core/datamodel/rbac"
	"gorm.io/gorm"
)

// RBACRepository implements accesspolicy.Repository on GORM.
type RBACRepository struct {
	db *gorm.DB
}

func NewRBACRepository(db *gorm.DB) accesspolicy.Repository {
	return &RBACRepository{db: db}
}

func (r *RBACRepository) GetRoleByName(ctx context.Context, name string) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accesspolicy.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) GetRoleByID(ctx context.Context, id int64) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accesspolicy.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	var roles []rbac.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RBACRepository) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	var perms []rbac.Permission
	err := r.db.WithContext(ctx).Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *RBACRepository) CreateRole(ctx context.Context, name string, permissionIDs []int64) (*rbac.Role, error) {
	role := &rbac.Role{Name: name}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return syncRolePermissions(tx, role.ID, permissionIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetRoleByID(ctx, role.ID)
}

func (r *RBACRepository) UpdateRole(ctx context.Context, id int64, name string, permissionIDs []int64) (*rbac.Role, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&rbac.Role{}).Where("id = ?", id).Update("name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return accesspolicy.ErrRoleNotFound
		}
		if err := tx.Where("role_id = ?", id).Delete(&rbac.RoleHasPermission{}).Error; err != nil {
			return err
		}
		return syncRolePermissions(tx, id, permissionIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetRoleByID(ctx, id)
}

func (r *RBACRepository) DeleteRole(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&rbac.RoleHasPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&rbac.ModelHasRole{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&rbac.Role{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return accesspolicy.ErrRoleNotFound
		}
		return nil
	})
}

func (r *RBACRepository) RolesForPrincipal(ctx context.Context, principalID string) ([]rbac.Role, error) {
	var assignments []rbac.ModelHasRole
	if err := r.db.WithContext(ctx).Where("principal_id = ?", principalID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []rbac.Role{}, nil
	}

	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.RoleID)
	}

	var roles []rbac.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

func (r *RBACRepository) AssignRole(ctx context.Context, principalID string, roleID int64) error {
	var existing rbac.ModelHasRole
	err := r.db.WithContext(ctx).
		Where("principal_id = ? AND role_id = ?", principalID, roleID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&rbac.ModelHasRole{PrincipalID: principalID, RoleID: roleID}).Error
}

func (r *RBACRepository) SyncRoles(ctx context.Context, principalID string, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("principal_id = ?", principalID).Delete(&rbac.ModelHasRole{}).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := tx.Create(&rbac.ModelHasRole{PrincipalID: principalID, RoleID: roleID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func syncRolePermissions(tx *gorm.DB, roleID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		if err := tx.Create(&rbac.RoleHasPermission{RoleID: roleID, PermissionID: pid}).Error; err != nil {
			return err
		}
	}
	return nil
}
