package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// DocumentService manages employee onboarding paperwork and its review.
type DocumentService struct {
	documents repository.DocumentRepository
	users     repository.UserRepository
}

// NewDocumentService constructs the service.
func NewDocumentService(documents repository.DocumentRepository, users repository.UserRepository) *DocumentService {
	return &DocumentService{documents: documents, users: users}
}

// DocumentsInput describes a submission. Document fields carry
// already-uploaded storage references; empty fields keep prior uploads.
type DocumentsInput struct {
	PANNumber        string
	AadhaarNumber    string
	BankName         string
	IFSCCode         string
	AccountNumber    string
	PresentAddress   string
	PermanentAddress string
	City             string
	State            string
	Pincode          string
	Documents        domain.DocumentSet
}

// Upsert saves the employee's paperwork. A re-submission after the record
// was verified drops it back to pending for a fresh review.
func (s *DocumentService) Upsert(ctx context.Context, actor *domain.User, userID string, input DocumentsInput) (*domain.EmployeeDocuments, error) {
	if !canTouchRecord(actor, userID) {
		return nil, apperrors.NewForbidden("not your record")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	record := &domain.EmployeeDocuments{
		UserID:           userID,
		PANNumber:        input.PANNumber,
		AadhaarNumber:    input.AadhaarNumber,
		BankName:         input.BankName,
		IFSCCode:         input.IFSCCode,
		AccountNumber:    input.AccountNumber,
		PresentAddress:   input.PresentAddress,
		PermanentAddress: input.PermanentAddress,
		City:             input.City,
		State:            input.State,
		Pincode:          input.Pincode,
		Documents:        input.Documents,
		Status:           domain.VerificationPending,
	}

	existing, err := s.documents.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		record.Documents = existing.Documents.Merge(input.Documents)
		if existing.Status != domain.VerificationVerified {
			record.Status = existing.Status
		}
	}

	if err := s.documents.Upsert(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// Get fetches one employee's paperwork record.
func (s *DocumentService) Get(ctx context.Context, actor *domain.User, userID string) (*domain.EmployeeDocuments, error) {
	if !canTouchRecord(actor, userID) {
		return nil, apperrors.NewForbidden("not your record")
	}
	record, err := s.documents.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// List returns all records, optionally narrowed to one status.
func (s *DocumentService) List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeDocuments, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}
	records, err := s.documents.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// Verify records a review decision on the employee's paperwork.
func (s *DocumentService) Verify(ctx context.Context, reviewerID, userID string, status domain.VerificationStatus, remarks string) (*domain.EmployeeDocuments, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}
	record, err := s.documents.SetStatus(ctx, userID, status, remarks, reviewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// MissingReport classifies every non-admin employee by paperwork state:
// never submitted, incomplete, or the record's own review status. Only
// employees still missing paperwork are returned.
func (s *DocumentService) MissingReport(ctx context.Context) ([]domain.DocumentReportEntry, error) {
	employees, err := s.users.ListByRoles(ctx, []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleHR})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	records, err := s.documents.List(ctx, "")
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	byUser := make(map[string]*domain.EmployeeDocuments, len(records))
	for i := range records {
		byUser[records[i].UserID] = &records[i]
	}

	var missing []domain.DocumentReportEntry
	for i := range employees {
		emp := &employees[i]
		record, ok := byUser[emp.ID]
		if !ok {
			missing = append(missing, domain.DocumentReportEntry{
				User:  emp,
				State: domain.DocumentReportNotSubmitted,
			})
			continue
		}
		if record.Incomplete() {
			updated := record.UpdatedAt
			missing = append(missing, domain.DocumentReportEntry{
				User:      emp,
				State:     domain.DocumentReportIncomplete,
				UpdatedAt: &updated,
			})
		}
	}
	return missing, nil
}
