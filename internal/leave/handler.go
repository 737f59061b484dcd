package leave

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/pradiptar/leave-management/internal/transport"
	"github.com/pradiptar/leave-management/internal/user"
	"github.com/pradiptar/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, employee *user.User, dto SubmitLeaveDTO) (*LeaveApplication, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*LeaveApplication, error)
	ListPending(ctx context.Context) ([]*LeaveApplication, error)
	Decide(ctx context.Context, leaveID, decision string) (*LeaveApplication, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	u, ok := user.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lv, err := h.Service.Submit(r.Context(), u, dto)
	if err != nil {
		h.Logger.Error("SubmitLeave: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Leave submitted",
		"leave":   lv.ToView(),
	})
}

func (h *Handler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	u, ok := user.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.ListForEmployee(r.Context(), u.RoleID)
	if err != nil {
		h.Logger.Error("GetMyLeaves: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": ToViewSlice(leaves),
	})
}

func (h *Handler) GetPendingLeaves(w http.ResponseWriter, r *http.Request) {
	u, ok := user.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.ListPending(r.Context())
	if err != nil {
		h.Logger.Error("GetPendingLeaves: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": ToViewSlice(leaves),
	})
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, StatusApproved)
}

func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, StatusRejected)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, decision string) {
	u, ok := user.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaveID := chi.URLParam(r, "id")
	if leaveID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid leave ID")
		return
	}

	decided, err := h.Service.Decide(r.Context(), leaveID, decision)
	if err != nil {
		h.Logger.Error("DecideLeave: service error", "error", err, "leave_id", leaveID, "manager_id", u.ID)

		switch {
		case errors.Is(err, ErrNotFound):
			h.WriteError(w, http.StatusNotFound, "leave not found or already processed")
		case errors.Is(err, ErrInvalidDecision):
			h.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.Logger.Info("DecideLeave: leave decided",
		"leave_id", leaveID,
		"manager_id", u.ID,
		"decision", decision)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leave": decided.ToView(),
	})
}
