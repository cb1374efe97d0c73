package accesspolicy

import "errors"

// RoleDTO is the transport shape for create/update role requests.
type RoleDTO struct {
	Name          string  `json:"name"`
	PermissionIDs []int64 `json:"permission_ids"`
}

func (d RoleDTO) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if len(d.Name) > 255 {
		return errors.New("name must be less than 255 characters")
	}
	if len(d.PermissionIDs) == 0 {
		return errors.New("at least one permission is required")
	}
	return nil
}

// RoleView is the API response shape for a role.
type RoleView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// PermissionView is the API response shape for a permission.
type PermissionView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
