package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// KYCService manages employee identity and bank verification records.
type KYCService struct {
	kyc   repository.KYCRepository
	users repository.UserRepository
}

// NewKYCService constructs the service.
func NewKYCService(kyc repository.KYCRepository, users repository.UserRepository) *KYCService {
	return &KYCService{kyc: kyc, users: users}
}

// KYCInput describes a submission. Document fields carry already-uploaded
// storage references; empty fields keep the previous upload.
type KYCInput struct {
	AadhaarNumber    string
	PANNumber        string
	DOB              *time.Time
	Gender           string
	PresentAddress   string
	PermanentAddress string
	City             string
	State            string
	Pincode          string
	BankName         string
	AccountNumber    string
	IFSCCode         string
	UPIID            string
	Documents        domain.DocumentSet
}

func canManageRecords(actor *domain.User) bool {
	return actor != nil && (actor.Role == domain.RoleHR || actor.Role == domain.RoleAdmin)
}

func canTouchRecord(actor *domain.User, userID string) bool {
	return actor != nil && (actor.ID == userID || canManageRecords(actor))
}

// Upsert saves the employee's KYC record. Employees may only submit their
// own; hr/admin may submit for anyone.
func (s *KYCService) Upsert(ctx context.Context, actor *domain.User, userID string, input KYCInput) (*domain.EmployeeKYC, error) {
	if !canTouchRecord(actor, userID) {
		return nil, apperrors.NewForbidden("not your record")
	}
	input.AadhaarNumber = strings.TrimSpace(input.AadhaarNumber)
	input.PANNumber = strings.TrimSpace(input.PANNumber)
	if input.AadhaarNumber == "" || input.PANNumber == "" {
		return nil, apperrors.NewValidationError("aadhaar and pan numbers required", nil)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	record := &domain.EmployeeKYC{
		UserID:           userID,
		AadhaarNumber:    input.AadhaarNumber,
		PANNumber:        input.PANNumber,
		DOB:              input.DOB,
		Gender:           input.Gender,
		PresentAddress:   input.PresentAddress,
		PermanentAddress: input.PermanentAddress,
		City:             input.City,
		State:            input.State,
		Pincode:          input.Pincode,
		BankName:         input.BankName,
		AccountNumber:    input.AccountNumber,
		IFSCCode:         input.IFSCCode,
		UPIID:            input.UPIID,
		Documents:        input.Documents,
		Status:           domain.VerificationPending,
	}

	existing, err := s.kyc.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		record.Documents = existing.Documents.Merge(input.Documents)
		record.Status = existing.Status
	}

	if err := s.kyc.Upsert(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// Get fetches one employee's KYC record.
func (s *KYCService) Get(ctx context.Context, actor *domain.User, userID string) (*domain.EmployeeKYC, error) {
	if !canTouchRecord(actor, userID) {
		return nil, apperrors.NewForbidden("not your record")
	}
	record, err := s.kyc.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("kyc record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// List returns all records, optionally narrowed to one status.
func (s *KYCService) List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeKYC, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}
	records, err := s.kyc.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// Verify records a review decision on the employee's KYC record.
func (s *KYCService) Verify(ctx context.Context, reviewerID, userID string, status domain.VerificationStatus, remarks string) (*domain.EmployeeKYC, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}
	record, err := s.kyc.SetStatus(ctx, userID, status, remarks, reviewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("kyc record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}
