package accesspolicy

import "sync"

// PermissionCache is the only shared mutable state in the evaluator. It is
// an explicit, injectable object rather than a package global so the
// read-after-write guarantee stays testable. Every role or assignment
// mutation invalidates the affected keys synchronously before the mutating
// call returns; a stale grant after a revocation is a security defect, not
// a performance tradeoff.
type PermissionCache struct {
	mu             sync.RWMutex
	rolePerms      map[string][]string
	principalRoles map[string][]string
}

func NewPermissionCache() *PermissionCache {
	return &PermissionCache{
		rolePerms:      make(map[string][]string),
		principalRoles: make(map[string][]string),
	}
}

func (c *PermissionCache) RolePermissions(roleName string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	perms, ok := c.rolePerms[roleName]
	return perms, ok
}

func (c *PermissionCache) SetRolePermissions(roleName string, permissions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolePerms[roleName] = permissions
}

func (c *PermissionCache) PrincipalRoles(principalID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roles, ok := c.principalRoles[principalID]
	return roles, ok
}

func (c *PermissionCache) SetPrincipalRoles(principalID string, roles []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.principalRoles[principalID] = roles
}

// Invalidate drops the cached permission set for one role.
func (c *PermissionCache) Invalidate(roleName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rolePerms, roleName)
}

// InvalidatePrincipal drops the cached role list for one principal.
func (c *PermissionCache) InvalidatePrincipal(principalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.principalRoles, principalID)
}

// Reset clears everything. Used after role deletion, where any principal may
// have held the removed role.
func (c *PermissionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolePerms = make(map[string][]string)
	c.principalRoles = make(map[string][]string)
}
