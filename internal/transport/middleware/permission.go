package middleware

import (
	"log/slog"
	"net/http"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/auth"
)

// RequirePermission gates a route on one named capability, resolved live
// through the access policy evaluator. An evaluator error denies: a check
// that cannot be completed is never treated as a grant.
func RequirePermission(evaluator accesspolicy.Evaluator, logger *slog.Logger, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := evaluator.HasPermission(r.Context(), user.ID, permission)
			if err != nil {
				logger.Error("permission check errored, denying",
					"error", err,
					"user_id", user.ID,
					"permission", permission)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			if !allowed {
				logger.Warn("access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permission", permission)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on a role name. Kept as a separate predicate
// from RequirePermission; the two are not interchangeable.
func RequireRole(evaluator accesspolicy.Evaluator, logger *slog.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := evaluator.HasRole(r.Context(), user.ID, role)
			if err != nil {
				logger.Error("role check errored, denying",
					"error", err,
					"user_id", user.ID,
					"role", role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			if !allowed {
				logger.Warn("access denied: role required",
					"user_id", user.ID,
					"required_role", role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
