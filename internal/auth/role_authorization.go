package auth

import (
	"log/slog"
	"net/http"

	"github.com/pradiptar/leave-management/internal/user"
)

// Require is the access policy guard: it returns the user unchanged when the
// role matches and ErrForbidden otherwise.
func Require(u *user.User, role user.Role) (*user.User, error) {
	if u == nil || u.Role != role {
		return nil, ErrForbidden
	}
	return u, nil
}

// RoleAuthorization gates handlers behind a required role. Rejections carry a
// generic message that does not describe the role the route needs.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := Require(u, role); err != nil {
				ra.logger.WarnContext(r.Context(), "access denied: role mismatch",
					"user_id", u.ID,
					"user_role", u.Role)
				http.Error(w, "Forbidden: not authorized", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RoleAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleEmployee)
}

func (ra *RoleAuthorization) RequireManager() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleManager)
}
