package accesspolicy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danuarta/hr-portal/internal/core/datamodel/rbac"
)

// Service evaluates capability checks and manages roles. All reads go
// through the permission cache; all mutations invalidate the affected cache
// keys before returning so the very next check observes the new state.
type Service struct {
	repo   Repository
	cache  *PermissionCache
	logger *slog.Logger
}

func NewService(repo Repository, cache *PermissionCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NewPermissionCache()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// HasPermission reports whether the permission name appears in the union of
// permissions across the principal's roles. Store errors deny.
func (s *Service) HasPermission(ctx context.Context, principalID, permission string) (bool, error) {
	perms, err := s.permissionsFor(ctx, principalID)
	if err != nil {
		s.logger.Error("permission check failed, denying", "error", err, "principal_id", principalID, "permission", permission)
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// HasRole reports whether the role name is among the principal's assigned
// roles. Store errors deny.
func (s *Service) HasRole(ctx context.Context, principalID, roleName string) (bool, error) {
	roles, err := s.rolesFor(ctx, principalID)
	if err != nil {
		s.logger.Error("role check failed, denying", "error", err, "principal_id", principalID, "role", roleName)
		return false, err
	}
	for _, r := range roles {
		if r == roleName {
			return true, nil
		}
	}
	return false, nil
}

// PrincipalAccess returns the principal's role names and the union of their
// permission names, used by the auth middleware to stamp the request user.
func (s *Service) PrincipalAccess(ctx context.Context, principalID string) ([]string, []string, error) {
	roles, err := s.rolesFor(ctx, principalID)
	if err != nil {
		return nil, nil, err
	}
	perms, err := s.permissionsFor(ctx, principalID)
	if err != nil {
		return nil, nil, err
	}
	return roles, perms, nil
}

// AssignRole adds a role assignment. Idempotent; assigning an already-held
// role is a no-op.
func (s *Service) AssignRole(ctx context.Context, principalID, roleName string) error {
	role, err := s.repo.GetRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return ErrUnknownRole
		}
		return err
	}

	if err := s.repo.AssignRole(ctx, principalID, role.ID); err != nil {
		return err
	}

	s.cache.InvalidatePrincipal(principalID)
	return nil
}

// SyncRoles replaces the principal's role assignments with exactly the named
// set. Any unknown name fails the whole call before anything is written.
func (s *Service) SyncRoles(ctx context.Context, principalID string, roleNames []string) error {
	roleIDs := make([]int64, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := s.repo.GetRoleByName(ctx, name)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				return ErrUnknownRole
			}
			return err
		}
		roleIDs = append(roleIDs, role.ID)
	}

	if err := s.repo.SyncRoles(ctx, principalID, roleIDs); err != nil {
		return err
	}

	s.cache.InvalidatePrincipal(principalID)
	return nil
}

// SyncRolesByID is SyncRoles keyed by role id, used by the user management
// endpoints whose forms submit role ids.
func (s *Service) SyncRolesByID(ctx context.Context, principalID string, roleIDs []int64) error {
	for _, id := range roleIDs {
		if _, err := s.repo.GetRoleByID(ctx, id); err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				return ErrUnknownRole
			}
			return err
		}
	}

	if err := s.repo.SyncRoles(ctx, principalID, roleIDs); err != nil {
		return err
	}

	s.cache.InvalidatePrincipal(principalID)
	return nil
}

func (s *Service) CreateRole(ctx context.Context, name string, permissionIDs []int64) (*rbac.Role, error) {
	role, err := s.repo.CreateRole(ctx, name, permissionIDs)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(name)
	s.logger.Info("role created", "role", name, "permissions", len(permissionIDs))
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, id int64, name string, permissionIDs []int64) (*rbac.Role, error) {
	existing, err := s.repo.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.UpdateRole(ctx, id, name, permissionIDs)
	if err != nil {
		return nil, err
	}

	if existing.Name != name {
		// principal memos hold role names; a rename stales every memo
		// listing the old name and there is no reverse index
		s.cache.Reset()
	} else {
		s.cache.Invalidate(name)
	}
	s.logger.Info("role updated", "role_id", id, "role", name)
	return role, nil
}

// DeleteRole cascades: the role is removed from every principal holding it
// along with its permission associations.
func (s *Service) DeleteRole(ctx context.Context, roleName string) error {
	role, err := s.repo.GetRoleByName(ctx, roleName)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRole(ctx, role.ID); err != nil {
		return err
	}

	// any principal may have held this role
	s.cache.Reset()
	s.logger.Info("role deleted", "role", roleName)
	return nil
}

func (s *Service) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *Service) rolesFor(ctx context.Context, principalID string) ([]string, error) {
	if roles, ok := s.cache.PrincipalRoles(principalID); ok {
		return roles, nil
	}

	assigned, err := s.repo.RolesForPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(assigned))
	for _, r := range assigned {
		names = append(names, r.Name)
		perms := make([]string, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			perms = append(perms, p.Name)
		}
		s.cache.SetRolePermissions(r.Name, perms)
	}
	s.cache.SetPrincipalRoles(principalID, names)
	return names, nil
}

func (s *Service) permissionsFor(ctx context.Context, principalID string) ([]string, error) {
	roleNames, err := s.rolesFor(ctx, principalID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var union []string
	for _, roleName := range roleNames {
		perms, ok := s.cache.RolePermissions(roleName)
		if !ok {
			role, err := s.repo.GetRoleByName(ctx, roleName)
			if err != nil {
				return nil, err
			}
			perms = make([]string, 0, len(role.Permissions))
			for _, p := range role.Permissions {
				perms = append(perms, p.Name)
			}
			s.cache.SetRolePermissions(roleName, perms)
		}
		for _, p := range perms {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				union = append(union, p)
			}
		}
	}
	return union, nil
}
