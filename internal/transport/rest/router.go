package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/pradiptar/leave-management/internal/auth"
	"github.com/pradiptar/leave-management/internal/leave"
	"github.com/pradiptar/leave-management/internal/transport/middleware"
	"github.com/pradiptar/leave-management/internal/transport/swagger"
	"github.com/pradiptar/leave-management/internal/user"
)

// RegisterAllRoutes wires the HTTP surface: public auth routes, the
// authenticated group, and the role-gated employee/manager subgroups.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	leaveHandler *leave.Handler,
	roles *auth.RoleAuthorization,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and swagger UI at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/signup", authHandler.Signup)
			sr.Post("/login", authHandler.Login)
		})

		// Protected routes that require a valid session
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Profile)

			// Manager roster view
			pr.Group(func(mr chi.Router) {
				mr.Use(roles.RequireManager())
				mr.Get("/employees", userHandler.ListEmployees)
			})

			pr.Route("/leaves", func(lr chi.Router) {
				// Employee routes
				lr.Group(func(er chi.Router) {
					er.Use(roles.RequireEmployee())
					er.Post("/", leaveHandler.SubmitLeave)
					er.Get("/", leaveHandler.GetMyLeaves)
				})

				// Manager routes
				lr.Group(func(mr chi.Router) {
					mr.Use(roles.RequireManager())
					mr.Get("/pending", leaveHandler.GetPendingLeaves)
					mr.Patch("/{id}/approve", leaveHandler.ApproveLeave)
					mr.Patch("/{id}/reject", leaveHandler.RejectLeave)
				})
			})
		})
	})
}
