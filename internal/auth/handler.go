package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pradiptar/leave-management/internal"
	"github.com/pradiptar/leave-management/internal/transport"
	"github.com/pradiptar/leave-management/internal/user"
	"github.com/pradiptar/leave-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.Logger.Error("signup failed", "error", err)

		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			h.WriteError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, user.ErrInvalidRole):
			h.WriteError(w, http.StatusBadRequest, "role must be Employee or Manager")
		default:
			var vErr ValidationError
			if errors.As(err, &vErr) {
				h.WriteError(w, http.StatusBadRequest, vErr.Error())
			} else {
				h.HandleServiceError(w, err)
			}
		}
		return
	}

	h.Logger.Info("signup succeeded", "user_id", result.User.ID, "role", result.User.Role)
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Error("login failed", "error", err)

		switch {
		case errors.Is(err, ErrInvalidCredentials):
			// uniform message, no account-existence signal
			h.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		default:
			var vErr ValidationError
			if errors.As(err, &vErr) {
				h.WriteError(w, http.StatusBadRequest, vErr.Error())
			} else {
				h.HandleServiceError(w, err)
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Profile handles GET /users/me
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := user.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// AuthMiddleware resolves the bearer token to the current user record and
// stores it in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		u, err := h.Service.CurrentUser(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				h.WriteError(w, http.StatusUnauthorized, "token expired")
			case errors.Is(err, ErrInvalidToken):
				h.WriteError(w, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, user.ErrNotFound):
				h.WriteError(w, http.StatusUnauthorized, "user not found")
			default:
				h.HandleServiceError(w, err)
			}
			return
		}

		ctx := user.ContextWithUser(r.Context(), u)
		ctx = internal.ContextWithUserID(ctx, u.ID)
		ctx = logger.With(ctx, "userID", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
