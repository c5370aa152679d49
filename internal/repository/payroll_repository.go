package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// PayrollRepository manages persistence for monthly payroll records.
type PayrollRepository interface {
	Upsert(ctx context.Context, p *domain.Payroll) error
	GetByID(ctx context.Context, id string) (*domain.Payroll, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Payroll, error)
	ListForMonth(ctx context.Context, month string) ([]domain.Payroll, error)
	MarkPaid(ctx context.Context, id string, at time.Time) error
}

type payrollRepository struct {
	pool *pgxpool.Pool
}

// NewPayrollRepository constructs repository.
func NewPayrollRepository(pool *pgxpool.Pool) PayrollRepository {
	return &payrollRepository{pool: pool}
}

const payrollColumns = `id, user_id, month, base_salary, allowances, deductions, net_pay, status, paid_at, created_at, updated_at`

func scanPayroll(row pgx.Row, p *domain.Payroll) error {
	return row.Scan(
		&p.ID,
		&p.UserID,
		&p.Month,
		&p.BaseSalary,
		&p.Allowances,
		&p.Deductions,
		&p.NetPay,
		&p.Status,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *payrollRepository) Upsert(ctx context.Context, p *domain.Payroll) error {
	const query = `
        INSERT INTO payroll (user_id, month, base_salary, allowances, deductions, net_pay, status)
        VALUES ($1,$2,$3,$4,$5,$6,'draft')
        ON CONFLICT (user_id, month) DO UPDATE
        SET base_salary=EXCLUDED.base_salary, allowances=EXCLUDED.allowances,
            deductions=EXCLUDED.deductions, net_pay=EXCLUDED.net_pay, updated_at=NOW()
        RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.UserID,
		p.Month,
		p.BaseSalary,
		p.Allowances,
		p.Deductions,
		p.NetPay,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (*domain.Payroll, error) {
	var p domain.Payroll
	if err := scanPayroll(r.pool.QueryRow(ctx,
		`SELECT `+payrollColumns+` FROM payroll WHERE id=$1`, id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payrollRepository) ListForUser(ctx context.Context, userID string) ([]domain.Payroll, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+payrollColumns+` FROM payroll WHERE user_id=$1 ORDER BY month DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayroll(rows)
}

func (r *payrollRepository) ListForMonth(ctx context.Context, month string) ([]domain.Payroll, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+payrollColumns+` FROM payroll WHERE month=$1 ORDER BY user_id`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayroll(rows)
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE payroll SET status='paid', paid_at=$1, updated_at=NOW()
        WHERE id=$2 AND status='draft'`
	cmd, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectPayroll(rows pgx.Rows) ([]domain.Payroll, error) {
	var result []domain.Payroll
	for rows.Next() {
		var p domain.Payroll
		if err := scanPayroll(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
