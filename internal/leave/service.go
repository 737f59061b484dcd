package leave

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pradiptar/leave-management/internal/user"
)

// Service is the leave ledger: it owns leave applications and their state
// transitions between the active and historical sets.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Submit creates a Pending application attributed to the submitting employee.
// The employee attributes are copied onto the record as a snapshot. Days is
// derived from the date range; any client-supplied value is ignored.
func (s *Service) Submit(ctx context.Context, employee *user.User, dto SubmitLeaveDTO) (*LeaveApplication, error) {
	start, end, err := dto.Validate()
	if err != nil {
		s.logger.Warn("leave submission rejected", "error", err, "employee_id", employee.RoleID)
		return nil, err
	}

	lv := &LeaveApplication{
		ID:                 uuid.NewString(),
		EmployeeID:         employee.RoleID,
		EmployeeName:       employee.Name,
		EmployeeEmail:      employee.Email,
		EmployeeDepartment: employee.Department,
		Title:              dto.Title,
		Description:        dto.Description,
		StartDate:          start,
		EndDate:            end,
		Days:               DeriveDays(start, end),
		Status:             StatusPending,
		SubmittedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, lv); err != nil {
		s.logger.Error("failed to create leave application", "error", err, "employee_id", employee.RoleID)
		return nil, err
	}

	s.logger.Info("leave submitted",
		"leave_id", lv.ID,
		"employee_id", lv.EmployeeID,
		"days", lv.Days)

	return lv, nil
}

// ListForEmployee unions the active and historical sets for one employee,
// most recent submission first.
func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]*LeaveApplication, error) {
	active, err := s.repo.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListHistoryByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	leaves := append(active, history...)
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].SubmittedAt.After(leaves[j].SubmittedAt)
	})

	return leaves, nil
}

// ListPending returns the manager review queue, oldest submission first.
func (s *Service) ListPending(ctx context.Context) ([]*LeaveApplication, error) {
	return s.repo.ListPending(ctx)
}

// Decide finalizes a pending application and moves it into history. A record
// that was already decided is gone from the active set, so a second decision
// on the same id fails with ErrNotFound rather than overwriting the outcome.
func (s *Service) Decide(ctx context.Context, leaveID, decision string) (*LeaveApplication, error) {
	if !ValidDecision(decision) {
		return nil, ErrInvalidDecision
	}

	decided, err := s.repo.Archive(ctx, leaveID, decision, time.Now().UTC())
	if err != nil {
		s.logger.Warn("leave decision failed", "error", err, "leave_id", leaveID, "decision", decision)
		return nil, err
	}

	s.logger.Info("leave decided",
		"leave_id", decided.ID,
		"employee_id", decided.EmployeeID,
		"decision", decision)

	return decided, nil
}
