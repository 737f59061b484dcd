package leave

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	ErrNotFound        = errors.New("leave application not found")
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")
)

// LeaveApplication is a leave request. The employee fields are a snapshot
// taken at submission time so later profile edits do not rewrite history.
// A record lives in the active table while Pending and is moved to the
// history table when decided; it is never in both.
type LeaveApplication struct {
	ID                 string     `json:"leave_id" gorm:"column:id;primaryKey"`
	EmployeeID         string     `json:"employee_id" gorm:"column:employee_id;index;not null"`
	EmployeeName       string     `json:"employee_name" gorm:"column:employee_name"`
	EmployeeEmail      string     `json:"employee_email" gorm:"column:employee_email"`
	EmployeeDepartment string     `json:"employee_department" gorm:"column:employee_department"`
	Title              string     `json:"title" gorm:"not null"`
	Description        string     `json:"description"`
	StartDate          time.Time  `json:"start_date" gorm:"column:start_date;type:date"`
	EndDate            time.Time  `json:"end_date" gorm:"column:end_date;type:date"`
	Days               int        `json:"days" gorm:"not null"`
	Status             string     `json:"status" gorm:"default:Pending"`
	SubmittedAt        time.Time  `json:"submitted_at" gorm:"column:submitted_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName is the active set; decided records live in leave_history.
func (LeaveApplication) TableName() string {
	return "leave_applications"
}

func (l *LeaveApplication) CanBeDecided() bool {
	return l.Status == StatusPending
}

func ValidDecision(decision string) bool {
	return decision == StatusApproved || decision == StatusRejected
}

// Repository is the persistence contract for the ledger. Archive must move a
// pending record into history atomically: decided-and-archived or untouched,
// never duplicated or lost.
type Repository interface {
	Create(ctx context.Context, lv *LeaveApplication) error
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]*LeaveApplication, error)
	ListHistoryByEmployee(ctx context.Context, employeeID string) ([]*LeaveApplication, error)
	ListPending(ctx context.Context) ([]*LeaveApplication, error)
	Archive(ctx context.Context, leaveID, status string, decidedAt time.Time) (*LeaveApplication, error)
}
