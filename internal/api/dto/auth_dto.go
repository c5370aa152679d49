package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID          string            `json:"id"`
	EmployeeKey string            `json:"employee_key"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Role        domain.Role       `json:"role"`
	Department  string            `json:"department,omitempty"`
	Designation string            `json:"designation,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	ReportingTo *string           `json:"reporting_to,omitempty"`
	Status      domain.UserStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		EmployeeKey: u.EmployeeKey,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Department:  u.Department,
		Designation: u.Designation,
		Phone:       u.Phone,
		ReportingTo: u.ReportingTo,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}
