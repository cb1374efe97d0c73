package user

import (
	"encoding/json"
	"net/http"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/transport"
	"github.com/danuarta/hr-portal/pkg/logger"
	"github.com/go-chi/chi"
)

// Handler exposes the account management endpoints.
type Handler struct {
	*transport.BaseHandler
	Service *Service
	Policy  *accesspolicy.Service
}

func NewHandler(service *Service, policy *accesspolicy.Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
		Policy:      policy,
	}
}

// List handles GET /users, returning accounts with their roles plus the
// role catalog for the account editor.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	roles, err := h.Policy.ListRoles(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}
	roleViews := make([]accesspolicy.RoleView, 0, len(roles))
	for i := range roles {
		perms := make([]string, 0, len(roles[i].Permissions))
		for _, p := range roles[i].Permissions {
			perms = append(perms, p.Name)
		}
		roleViews = append(roleViews, accesspolicy.RoleView{ID: roles[i].ID, Name: roles[i].Name, Permissions: perms})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": views,
		"roles": roleViews,
	})
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// Create handles POST /users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, view)
}

// Update handles PUT /users/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
