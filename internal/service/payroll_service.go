package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PayrollService manages monthly pay records.
type PayrollService struct {
	payroll repository.PayrollRepository
	users   repository.UserRepository
}

// NewPayrollService constructs the service.
func NewPayrollService(payroll repository.PayrollRepository, users repository.UserRepository) *PayrollService {
	return &PayrollService{payroll: payroll, users: users}
}

// PayrollInput describes a monthly record.
type PayrollInput struct {
	UserID     string
	Month      string
	BaseSalary int64
	Allowances int64
	Deductions int64
}

// Upsert creates or replaces the user's record for the month.
func (s *PayrollService) Upsert(ctx context.Context, input PayrollInput) (*domain.Payroll, error) {
	if input.UserID == "" || !monthPattern.MatchString(input.Month) {
		return nil, apperrors.NewValidationError("user id and month (YYYY-MM) required", nil)
	}
	if input.BaseSalary < 0 || input.Allowances < 0 || input.Deductions < 0 {
		return nil, apperrors.NewValidationError("amounts must be non-negative", nil)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	record := &domain.Payroll{
		UserID:     input.UserID,
		Month:      input.Month,
		BaseSalary: input.BaseSalary,
		Allowances: input.Allowances,
		Deductions: input.Deductions,
		NetPay:     input.BaseSalary + input.Allowances - input.Deductions,
	}
	if err := s.payroll.Upsert(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// ListMine returns the user's records, newest month first.
func (s *PayrollService) ListMine(ctx context.Context, userID string) ([]domain.Payroll, error) {
	records, err := s.payroll.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListForMonth returns every record in a month.
func (s *PayrollService) ListForMonth(ctx context.Context, month string) ([]domain.Payroll, error) {
	if !monthPattern.MatchString(month) {
		return nil, apperrors.NewValidationError("month must be YYYY-MM", nil)
	}
	records, err := s.payroll.ListForMonth(ctx, month)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// MarkPaid finalizes a draft record.
func (s *PayrollService) MarkPaid(ctx context.Context, id string) (*domain.Payroll, error) {
	if err := s.payroll.MarkPaid(ctx, id, time.Now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("draft payroll record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	record, err := s.payroll.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}
