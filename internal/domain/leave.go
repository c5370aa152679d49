package domain

import "time"

// LeaveStatus tracks the approval state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveType enumerates supported leave categories.
type LeaveType string

const (
	LeaveTypeCasual LeaveType = "casual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeEarned LeaveType = "earned"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

// Leave is a request for time off, decided by a manager or hr.
type Leave struct {
	ID        string
	UserID    string
	Type      LeaveType
	From      time.Time
	To        time.Time
	Reason    string
	Status    LeaveStatus
	DecidedBy *string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
