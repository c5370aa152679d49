package domain

import "time"

// Role defines the organization-level role of a user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// UserStatus marks whether an account is usable.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is an employee account.
type User struct {
	ID           string
	EmployeeKey  string
	Name         string
	Email        string
	Role         Role
	Department   string
	Designation  string
	Phone        string
	ReportingTo  *string
	Status       UserStatus
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate and act.
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}
