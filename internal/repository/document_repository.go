package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// DocumentRepository manages persistence for employee onboarding
// paperwork. One record per user, enforced by a unique constraint.
type DocumentRepository interface {
	Upsert(ctx context.Context, d *domain.EmployeeDocuments) error
	GetByUser(ctx context.Context, userID string) (*domain.EmployeeDocuments, error)
	List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeDocuments, error)
	SetStatus(ctx context.Context, userID string, status domain.VerificationStatus, remarks, verifiedBy string) (*domain.EmployeeDocuments, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id, user_id, pan_number, aadhaar_number,
    bank_name, ifsc_code, account_number,
    present_address, permanent_address, city, state, pincode,
    doc_aadhaar_front, doc_aadhaar_back, doc_pan_card, doc_passbook, doc_photo,
    status, remarks, verified_by, verified_at, created_at, updated_at`

func scanDocuments(row pgx.Row, d *domain.EmployeeDocuments) error {
	return row.Scan(
		&d.ID,
		&d.UserID,
		&d.PANNumber,
		&d.AadhaarNumber,
		&d.BankName,
		&d.IFSCCode,
		&d.AccountNumber,
		&d.PresentAddress,
		&d.PermanentAddress,
		&d.City,
		&d.State,
		&d.Pincode,
		&d.Documents.AadhaarFront,
		&d.Documents.AadhaarBack,
		&d.Documents.PANCard,
		&d.Documents.Passbook,
		&d.Documents.Photo,
		&d.Status,
		&d.Remarks,
		&d.VerifiedBy,
		&d.VerifiedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

func (r *documentRepository) Upsert(ctx context.Context, d *domain.EmployeeDocuments) error {
	const query = `
        INSERT INTO employee_documents (user_id, pan_number, aadhaar_number,
            bank_name, ifsc_code, account_number,
            present_address, permanent_address, city, state, pincode,
            doc_aadhaar_front, doc_aadhaar_back, doc_pan_card, doc_passbook, doc_photo, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        ON CONFLICT (user_id) DO UPDATE SET
            pan_number=EXCLUDED.pan_number, aadhaar_number=EXCLUDED.aadhaar_number,
            bank_name=EXCLUDED.bank_name, ifsc_code=EXCLUDED.ifsc_code,
            account_number=EXCLUDED.account_number,
            present_address=EXCLUDED.present_address, permanent_address=EXCLUDED.permanent_address,
            city=EXCLUDED.city, state=EXCLUDED.state, pincode=EXCLUDED.pincode,
            doc_aadhaar_front=EXCLUDED.doc_aadhaar_front, doc_aadhaar_back=EXCLUDED.doc_aadhaar_back,
            doc_pan_card=EXCLUDED.doc_pan_card, doc_passbook=EXCLUDED.doc_passbook,
            doc_photo=EXCLUDED.doc_photo, status=EXCLUDED.status, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		d.UserID, d.PANNumber, d.AadhaarNumber,
		d.BankName, d.IFSCCode, d.AccountNumber,
		d.PresentAddress, d.PermanentAddress, d.City, d.State, d.Pincode,
		d.Documents.AadhaarFront, d.Documents.AadhaarBack, d.Documents.PANCard,
		d.Documents.Passbook, d.Documents.Photo, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *documentRepository) GetByUser(ctx context.Context, userID string) (*domain.EmployeeDocuments, error) {
	var d domain.EmployeeDocuments
	if err := scanDocuments(r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM employee_documents WHERE user_id=$1`, userID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeDocuments, error) {
	query := `SELECT ` + documentColumns + ` FROM employee_documents`
	args := []any{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeDocuments
	for rows.Next() {
		var d domain.EmployeeDocuments
		if err := scanDocuments(rows, &d); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *documentRepository) SetStatus(ctx context.Context, userID string, status domain.VerificationStatus, remarks, verifiedBy string) (*domain.EmployeeDocuments, error) {
	const query = `
        UPDATE employee_documents
        SET status=$1, remarks=$2, verified_by=$3, verified_at=NOW(), updated_at=NOW()
        WHERE user_id=$4
        RETURNING ` + documentColumns
	var d domain.EmployeeDocuments
	if err := scanDocuments(r.pool.QueryRow(ctx, query, status, remarks, verifiedBy, userID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}
