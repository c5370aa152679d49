package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// KYCRepository manages persistence for employee KYC records. One record
// per user, enforced by a unique constraint; Upsert overwrites in place.
type KYCRepository interface {
	Upsert(ctx context.Context, k *domain.EmployeeKYC) error
	GetByUser(ctx context.Context, userID string) (*domain.EmployeeKYC, error)
	List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeKYC, error)
	SetStatus(ctx context.Context, userID string, status domain.VerificationStatus, remarks, verifiedBy string) (*domain.EmployeeKYC, error)
}

type kycRepository struct {
	pool *pgxpool.Pool
}

// NewKYCRepository constructs repository.
func NewKYCRepository(pool *pgxpool.Pool) KYCRepository {
	return &kycRepository{pool: pool}
}

const kycColumns = `id, user_id, aadhaar_number, pan_number, dob, gender,
    present_address, permanent_address, city, state, pincode,
    bank_name, account_number, ifsc_code, upi_id,
    doc_aadhaar_front, doc_aadhaar_back, doc_pan_card, doc_passbook, doc_photo,
    status, remarks, verified_by, verified_at, created_at, updated_at`

func scanKYC(row pgx.Row, k *domain.EmployeeKYC) error {
	return row.Scan(
		&k.ID,
		&k.UserID,
		&k.AadhaarNumber,
		&k.PANNumber,
		&k.DOB,
		&k.Gender,
		&k.PresentAddress,
		&k.PermanentAddress,
		&k.City,
		&k.State,
		&k.Pincode,
		&k.BankName,
		&k.AccountNumber,
		&k.IFSCCode,
		&k.UPIID,
		&k.Documents.AadhaarFront,
		&k.Documents.AadhaarBack,
		&k.Documents.PANCard,
		&k.Documents.Passbook,
		&k.Documents.Photo,
		&k.Status,
		&k.Remarks,
		&k.VerifiedBy,
		&k.VerifiedAt,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
}

func (r *kycRepository) Upsert(ctx context.Context, k *domain.EmployeeKYC) error {
	const query = `
        INSERT INTO employee_kyc (user_id, aadhaar_number, pan_number, dob, gender,
            present_address, permanent_address, city, state, pincode,
            bank_name, account_number, ifsc_code, upi_id,
            doc_aadhaar_front, doc_aadhaar_back, doc_pan_card, doc_passbook, doc_photo, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        ON CONFLICT (user_id) DO UPDATE SET
            aadhaar_number=EXCLUDED.aadhaar_number, pan_number=EXCLUDED.pan_number,
            dob=EXCLUDED.dob, gender=EXCLUDED.gender,
            present_address=EXCLUDED.present_address, permanent_address=EXCLUDED.permanent_address,
            city=EXCLUDED.city, state=EXCLUDED.state, pincode=EXCLUDED.pincode,
            bank_name=EXCLUDED.bank_name, account_number=EXCLUDED.account_number,
            ifsc_code=EXCLUDED.ifsc_code, upi_id=EXCLUDED.upi_id,
            doc_aadhaar_front=EXCLUDED.doc_aadhaar_front, doc_aadhaar_back=EXCLUDED.doc_aadhaar_back,
            doc_pan_card=EXCLUDED.doc_pan_card, doc_passbook=EXCLUDED.doc_passbook,
            doc_photo=EXCLUDED.doc_photo, status=EXCLUDED.status, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		k.UserID, k.AadhaarNumber, k.PANNumber, k.DOB, k.Gender,
		k.PresentAddress, k.PermanentAddress, k.City, k.State, k.Pincode,
		k.BankName, k.AccountNumber, k.IFSCCode, k.UPIID,
		k.Documents.AadhaarFront, k.Documents.AadhaarBack, k.Documents.PANCard,
		k.Documents.Passbook, k.Documents.Photo, k.Status,
	).Scan(&k.ID, &k.CreatedAt, &k.UpdatedAt)
}

func (r *kycRepository) GetByUser(ctx context.Context, userID string) (*domain.EmployeeKYC, error) {
	var k domain.EmployeeKYC
	if err := scanKYC(r.pool.QueryRow(ctx,
		`SELECT `+kycColumns+` FROM employee_kyc WHERE user_id=$1`, userID), &k); err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *kycRepository) List(ctx context.Context, status domain.VerificationStatus) ([]domain.EmployeeKYC, error) {
	query := `SELECT ` + kycColumns + ` FROM employee_kyc`
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

	var result []domain.EmployeeKYC
	for rows.Next() {
		var k domain.EmployeeKYC
		if err := scanKYC(rows, &k); err != nil {
			return nil, err
		}
		result = append(result, k)
	}
	return result, rows.Err()
}

func (r *kycRepository) SetStatus(ctx context.Context, userID string, status domain.VerificationStatus, remarks, verifiedBy string) (*domain.EmployeeKYC, error) {
	const query = `
        UPDATE employee_kyc
        SET status=$1, remarks=$2, verified_by=$3, verified_at=NOW(), updated_at=NOW()
        WHERE user_id=$4
        RETURNING ` + kycColumns
	var k domain.EmployeeKYC
	if err := scanKYC(r.pool.QueryRow(ctx, query, status, remarks, verifiedBy, userID), &k); err != nil {
		return nil, err
	}
	return &k, nil
}
