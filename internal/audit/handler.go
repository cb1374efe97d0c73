package audit

import (
	"net/http"
	"strconv"

	"github.com/danuarta/hr-portal/internal/transport"
	"github.com/danuarta/hr-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Recorder:    recorder,
	}
}

// List handles GET /auditlogs. Filters: action (exact), user_id (exact),
// search (substring over message/url/route_name/ip_address), page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Action: r.URL.Query().Get("action"),
		UserID: r.URL.Query().Get("user_id"),
		Search: r.URL.Query().Get("search"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			filter.Page = p
		}
	}

	result, err := h.Recorder.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("List: audit listing failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
