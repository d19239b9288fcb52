package models

type Role string

const (
	RolePI      Role = "PI"
	RoleAdmin   Role = "Admin"
	RoleFinance Role = "Finance"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanApprove reports whether the role may move transactions through the
// approval states.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleFinance
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
