package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danuarta/hr-portal/internal/accesspolicy"
	"github.com/danuarta/hr-portal/internal/announcement"
	"github.com/danuarta/hr-portal/internal/audit"
	"github.com/danuarta/hr-portal/internal/auth"
	"github.com/danuarta/hr-portal/internal/event"
	"github.com/danuarta/hr-portal/internal/leaverequest"
	"github.com/danuarta/hr-portal/internal/performance"
	"github.com/danuarta/hr-portal/internal/transport/middleware"
	"github.com/danuarta/hr-portal/internal/transport/swagger"
	"github.com/danuarta/hr-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	Audit        *audit.Handler
	User         *user.Handler
	Role         *accesspolicy.Handler
	LeaveRequest *leaverequest.Handler
	Performance  *performance.Handler
	Event        *event.Handler
	Announcement *announcement.Handler
}

// RegisterAllRoutes wires the full route table. The audit middleware runs
// inside both route groups, after authentication in the protected group, so
// logged-in mutations are attributed to their principal. Capability gating
// happens per resource via the access policy evaluator and always denies on
// evaluator error.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, evaluator accesspolicy.Evaluator, recorder *audit.Recorder, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec and Swagger UI at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth routes. Audit middleware runs here so failed logins
		// and registrations are captured even without a principal.
		r.Group(func(pr chi.Router) {
			pr.Use(audit.Middleware(recorder, logger))
			pr.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/register", handlers.Auth.Register)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
			})
		})

		// Protected routes: authenticate first, then audit, so records
		// carry the acting principal.
		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)
			pr.Use(audit.Middleware(recorder, logger))

			pr.Post("/auth/logout", handlers.Auth.Logout)

			pr.Group(func(ur chi.Router) {
				ur.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewUserList))
				ur.Route("/users", func(rr chi.Router) {
					rr.Get("/", handlers.User.List)
					rr.Get("/{id}", handlers.User.Get)
					rr.With(middleware.RequirePermission(evaluator, logger, accesspolicy.PermCreateUser)).
						Post("/", handlers.User.Create)
					rr.With(middleware.RequirePermission(evaluator, logger, accesspolicy.PermEditUser)).
						Put("/{id}", handlers.User.Update)
					rr.With(middleware.RequirePermission(evaluator, logger, accesspolicy.PermDeleteUser)).
						Delete("/{id}", handlers.User.Delete)
				})
				ur.Route("/roles", func(rr chi.Router) {
					rr.Get("/", handlers.Role.ListRoles)
					// role mutations reshape the policy itself, Admin only
					adminOnly := middleware.RequireRole(evaluator, logger, accesspolicy.AdminRole)
					rr.With(adminOnly).Post("/", handlers.Role.CreateRole)
					rr.With(adminOnly).Put("/{id}", handlers.Role.UpdateRole)
					rr.With(adminOnly).Delete("/{name}", handlers.Role.DeleteRole)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewAuditlogList))
				ar.Get("/auditlogs", handlers.Audit.List)
			})

			pr.Group(func(lr chi.Router) {
				lr.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewLeaveRequests))
				lr.Route("/requests", func(rr chi.Router) {
					rr.Get("/", handlers.LeaveRequest.List)
					rr.Post("/", handlers.LeaveRequest.Create)
					rr.Patch("/{id}", handlers.LeaveRequest.UpdateStatus)
					rr.Delete("/{id}", handlers.LeaveRequest.Delete)
				})
			})

			pr.Group(func(fr chi.Router) {
				fr.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewPerformanceList))
				fr.Route("/performance", func(rr chi.Router) {
					rr.Get("/", handlers.Performance.List)
					rr.Post("/", handlers.Performance.Create)
					rr.Put("/{id}", handlers.Performance.Update)
					rr.Delete("/{id}", handlers.Performance.Delete)
				})
			})

			pr.Group(func(er chi.Router) {
				er.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewEventList))
				er.Route("/events", func(rr chi.Router) {
					rr.Get("/", handlers.Event.List)
					rr.Post("/", handlers.Event.Create)
					rr.Put("/{id}", handlers.Event.Update)
					rr.Delete("/{id}", handlers.Event.Delete)
				})
			})

			pr.Group(func(nr chi.Router) {
				nr.Use(middleware.RequirePermission(evaluator, logger, accesspolicy.PermViewAnnouncements))
				nr.Route("/announcements", func(rr chi.Router) {
					rr.Get("/", handlers.Announcement.List)
					rr.Post("/", handlers.Announcement.Create)
					rr.Put("/{id}", handlers.Announcement.Update)
					rr.Delete("/{id}", handlers.Announcement.Delete)
				})
			})
		})
	})
}
