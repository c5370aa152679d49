package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// AttendanceResponse payload.
type AttendanceResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Day          time.Time  `json:"day"`
	PunchIn      time.Time  `json:"punch_in"`
	PunchOut     *time.Time `json:"punch_out,omitempty"`
	AutoPunchOut bool       `json:"auto_punch_out"`
}

// NewAttendanceResponse maps a domain record.
func NewAttendanceResponse(a *domain.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Day:          a.Day,
		PunchIn:      a.PunchIn,
		PunchOut:     a.PunchOut,
		AutoPunchOut: a.AutoPunchOut,
	}
}

// ApplyLeaveRequest payload.
type ApplyLeaveRequest struct {
	Type   domain.LeaveType `json:"type"`
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Reason string           `json:"reason"`
}

// DecideLeaveRequest payload.
type DecideLeaveRequest struct {
	Approve bool `json:"approve"`
}

// LeaveResponse payload.
type LeaveResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Type      domain.LeaveType   `json:"type"`
	From      time.Time          `json:"from"`
	To        time.Time          `json:"to"`
	Reason    string             `json:"reason,omitempty"`
	Status    domain.LeaveStatus `json:"status"`
	DecidedBy *string            `json:"decided_by,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewLeaveResponse maps a domain leave.
func NewLeaveResponse(l *domain.Leave) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      l.Type,
		From:      l.From,
		To:        l.To,
		Reason:    l.Reason,
		Status:    l.Status,
		DecidedBy: l.DecidedBy,
		CreatedAt: l.CreatedAt,
	}
}

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssigneeID  string              `json:"assignee_id"`
	TeamID      *string             `json:"team_id"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

// TaskResponse payload.
type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	AssigneeID  string              `json:"assignee_id"`
	AssignedBy  string              `json:"assigned_by"`
	TeamID      *string             `json:"team_id,omitempty"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		AssignedBy:  t.AssignedBy,
		TeamID:      t.TeamID,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	}
}

// UpsertPayrollRequest payload.
type UpsertPayrollRequest struct {
	UserID     string `json:"user_id"`
	Month      string `json:"month"`
	BaseSalary int64  `json:"base_salary"`
	Allowances int64  `json:"allowances"`
	Deductions int64  `json:"deductions"`
}

// PayrollResponse payload.
type PayrollResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Month      string               `json:"month"`
	BaseSalary int64                `json:"base_salary"`
	Allowances int64                `json:"allowances"`
	Deductions int64                `json:"deductions"`
	NetPay     int64                `json:"net_pay"`
	Status     domain.PayrollStatus `json:"status"`
	PaidAt     *time.Time           `json:"paid_at,omitempty"`
}

// NewPayrollResponse maps a domain payroll record.
func NewPayrollResponse(p *domain.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Month:      p.Month,
		BaseSalary: p.BaseSalary,
		Allowances: p.Allowances,
		Deductions: p.Deductions,
		NetPay:     p.NetPay,
		Status:     p.Status,
		PaidAt:     p.PaidAt,
	}
}

// BroadcastNotificationRequest payload.
type BroadcastNotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationResponse payload.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body,omitempty"`
	Link      string                  `json:"link,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
