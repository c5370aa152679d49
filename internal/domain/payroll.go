package domain

import "time"

// PayrollStatus tracks payout state for a monthly record.
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// Payroll is one user's pay record for a calendar month ("2026-01").
type Payroll struct {
	ID         string
	UserID     string
	Month      string
	BaseSalary int64
	Allowances int64
	Deductions int64
	NetPay     int64
	Status     PayrollStatus
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
