package leave

import (
	"time"

	"github.com/pradiptar/leave-management/internal"
)

const dateLayout = "2006-01-02"

// SubmitLeaveDTO is the request payload for submitting a leave application.
// Days is accepted for backward compatibility with older clients but the
// server always derives the day count from the date range.
type SubmitLeaveDTO struct {
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Days        int    `json:"days,omitempty"`
	Description string `json:"description"`
}

// Validate checks the payload and returns the parsed date range.
func (dto SubmitLeaveDTO) Validate() (start, end time.Time, err error) {
	if dto.Title == "" {
		return start, end, internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}

	start, err = time.Parse(dateLayout, dto.StartDate)
	if err != nil {
		return start, end, internal.NewValidationError("start_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}

	end, err = time.Parse(dateLayout, dto.EndDate)
	if err != nil {
		return start, end, internal.NewValidationError("end_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}

	if end.Before(start) {
		return start, end, internal.NewValidationError("end_date must not be before start_date", internal.ErrCodeInvalidDateRange)
	}

	return start, end, nil
}

// DeriveDays computes the inclusive day count of a date range.
func DeriveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// LeaveView is the API shape of a leave application; dates render as plain
// calendar dates, timestamps as UTC.
type LeaveView struct {
	LeaveID            string     `json:"leave_id"`
	EmployeeID         string     `json:"employee_id"`
	EmployeeName       string     `json:"employee_name"`
	EmployeeEmail      string     `json:"employee_email"`
	EmployeeDepartment string     `json:"employee_department"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	Days               int        `json:"days"`
	Status             string     `json:"status"`
	SubmittedAt        time.Time  `json:"submitted_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`
}

func (l *LeaveApplication) ToView() LeaveView {
	return LeaveView{
		LeaveID:            l.ID,
		EmployeeID:         l.EmployeeID,
		EmployeeName:       l.EmployeeName,
		EmployeeEmail:      l.EmployeeEmail,
		EmployeeDepartment: l.EmployeeDepartment,
		Title:              l.Title,
		Description:        l.Description,
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		Days:               l.Days,
		Status:             l.Status,
		SubmittedAt:        l.SubmittedAt.UTC(),
		DecidedAt:          l.DecidedAt,
	}
}

func ToViewSlice(leaves []*LeaveApplication) []LeaveView {
	views := make([]LeaveView, len(leaves))
	for i, l := range leaves {
		views[i] = l.ToView()
	}
	return views
}
