package dto

import "github.com/wltlabs/staffhub/internal/domain"

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
	Department  string      `json:"department"`
	Designation string      `json:"designation"`
	Phone       string      `json:"phone"`
	ReportingTo *string     `json:"reporting_to"`
}

// UpdateUserRequest payload; nil fields are left unchanged.
type UpdateUserRequest struct {
	Name        *string            `json:"name"`
	Department  *string            `json:"department"`
	Designation *string            `json:"designation"`
	Phone       *string            `json:"phone"`
	ReportingTo *string            `json:"reporting_to"`
	Role        *domain.Role       `json:"role"`
	Status      *domain.UserStatus `json:"status"`
}
