package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// LeaveRepository manages persistence for leave requests.
type LeaveRepository interface {
	Create(ctx context.Context, l *domain.Leave) error
	GetByID(ctx context.Context, id string) (*domain.Leave, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Leave, error)
	ListPendingForUsers(ctx context.Context, userIDs []string) ([]domain.Leave, error)
	ListPending(ctx context.Context) ([]domain.Leave, error)
	Decide(ctx context.Context, id string, status domain.LeaveStatus, decidedBy string, at time.Time) error
}

type leaveRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRepository constructs repository.
func NewLeaveRepository(pool *pgxpool.Pool) LeaveRepository {
	return &leaveRepository{pool: pool}
}

const leaveColumns = `id, user_id, type, from_date, to_date, reason, status, decided_by, decided_at, created_at, updated_at`

func scanLeave(row pgx.Row, l *domain.Leave) error {
	return row.Scan(
		&l.ID,
		&l.UserID,
		&l.Type,
		&l.From,
		&l.To,
		&l.Reason,
		&l.Status,
		&l.DecidedBy,
		&l.DecidedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

func (r *leaveRepository) Create(ctx context.Context, l *domain.Leave) error {
	const query = `
        INSERT INTO leaves (user_id, type, from_date, to_date, reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		l.UserID,
		l.Type,
		l.From,
		l.To,
		l.Reason,
	).Scan(&l.ID, &l.Status, &l.CreatedAt, &l.UpdatedAt)
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (*domain.Leave, error) {
	var l domain.Leave
	if err := scanLeave(r.pool.QueryRow(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE id=$1`, id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveRepository) ListForUser(ctx context.Context, userID string) ([]domain.Leave, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepository) ListPendingForUsers(ctx context.Context, userIDs []string) ([]domain.Leave, error) {
	if len(userIDs) == 0 {
		return []domain.Leave{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE status='pending' AND user_id = ANY($1) ORDER BY created_at`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepository) ListPending(ctx context.Context) ([]domain.Leave, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE status='pending' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepository) Decide(ctx context.Context, id string, status domain.LeaveStatus, decidedBy string, at time.Time) error {
	const query = `
        UPDATE leaves SET status=$1, decided_by=$2, decided_at=$3, updated_at=NOW()
        WHERE id=$4 AND status='pending'`
	cmd, err := r.pool.Exec(ctx, query, status, decidedBy, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectLeaves(rows pgx.Rows) ([]domain.Leave, error) {
	var result []domain.Leave
	for rows.Next() {
		var l domain.Leave
		if err := scanLeave(rows, &l); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
