package models

import "time"

// Role represents the closed set of roles in the production-tracking system.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleEmployee   Role = "Employee"
)

// Valid reports whether the role is one of the three enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// User represents an application user stored in the users table. Employee
// principals carry a numeric employee id used to scope assignment queries.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         Role       `db:"role" json:"role"`
	EmployeeID   *int64     `db:"employee_id" json:"employee_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Employee is a roster entry: an Employee-role user projected down to the
// fields assignment records denormalize.
type Employee struct {
	ID   int64  `db:"employee_id" json:"id"`
	Name string `db:"full_name" json:"name"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
