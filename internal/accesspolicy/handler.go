package accesspolicy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danuarta/hr-portal/internal/core/datamodel/rbac"
	"github.com/danuarta/hr-portal/internal/transport"
	"github.com/danuarta/hr-portal/pkg/logger"
	"github.com/go-chi/chi"
)

// Handler exposes role and permission management endpoints.
type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

// ListRoles handles GET /roles, returning all roles with their permissions
// plus the full permission catalog for the role editor.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		h.Logger.Error("ListRoles: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list roles")
		return
	}

	perms, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		h.Logger.Error("ListRoles: permissions lookup failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list permissions")
		return
	}

	roleViews := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		roleViews = append(roleViews, toRoleView(&role))
	}
	permViews := make([]PermissionView, 0, len(perms))
	for _, p := range perms {
		permViews = append(permViews, PermissionView{ID: p.ID, Name: p.Name})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roles":       roleViews,
		"permissions": permViews,
	})
}

// CreateRole handles POST /roles.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto RoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.Service.CreateRole(r.Context(), dto.Name, dto.PermissionIDs)
	if err != nil {
		h.Logger.Error("CreateRole: service error", "error", err, "role", dto.Name)
		h.WriteError(w, http.StatusInternalServerError, "failed to create role")
		return
	}

	h.WriteJSON(w, http.StatusCreated, toRoleView(role))
}

// UpdateRole handles PUT /roles/{id}.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var dto RoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.Service.UpdateRole(r.Context(), id, dto.Name, dto.PermissionIDs)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			h.WriteError(w, http.StatusNotFound, "role not found")
			return
		}
		h.Logger.Error("UpdateRole: service error", "error", err, "role_id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to update role")
		return
	}

	h.WriteJSON(w, http.StatusOK, toRoleView(role))
}

// DeleteRole handles DELETE /roles/{name}. Deleting a role revokes it from
// every principal holding it.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.WriteError(w, http.StatusBadRequest, "role name is required")
		return
	}

	if err := h.Service.DeleteRole(r.Context(), name); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			h.WriteError(w, http.StatusNotFound, "role not found")
			return
		}
		h.Logger.Error("DeleteRole: service error", "error", err, "role", name)
		h.WriteError(w, http.StatusInternalServerError, "failed to delete role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toRoleView(role *rbac.Role) RoleView {
	perms := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		perms = append(perms, p.Name)
	}
	return RoleView{ID: role.ID, Name: role.Name, Permissions: perms}
}
