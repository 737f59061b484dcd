package user

// CreateUserParams carries validated signup input into the directory.
type CreateUserParams struct {
	Name       string
	Email      string
	Department string
	Password   string
	Role       Role
}

// EmployeeView is the roster row managers see. Status is a display field,
// every registered employee is active in this design.
type EmployeeView struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

func (u *User) ToEmployeeView() EmployeeView {
	return EmployeeView{
		EmployeeID: u.RoleID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Status:     "Active",
	}
}
