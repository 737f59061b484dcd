package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pradiptar/leave-management/internal/transport"
	"github.com/pradiptar/leave-management/pkg/logger"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context) ([]*User, error)
}

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

// ListEmployees handles GET /employees, the manager roster view.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	views := make([]EmployeeView, len(employees))
	for i, emp := range employees {
		views[i] = emp.ToEmployeeView()
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": views,
	})
}
