package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, a *domain.Attendance) error
	GetOpenForDay(ctx context.Context, userID string, day time.Time) (*domain.Attendance, error)
	PunchOut(ctx context.Context, id string, at time.Time, auto bool) error
	ListForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Attendance, error)
	ListForUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]domain.Attendance, error)
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]domain.Attendance, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository constructs repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

const attendanceColumns = `id, user_id, day, punch_in, punch_out, auto_punch_out, created_at, updated_at`

func scanAttendance(row pgx.Row, a *domain.Attendance) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Day,
		&a.PunchIn,
		&a.PunchOut,
		&a.AutoPunchOut,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	const query = `
        INSERT INTO attendance (user_id, day, punch_in)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		a.UserID,
		a.Day,
		a.PunchIn,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *attendanceRepository) GetOpenForDay(ctx context.Context, userID string, day time.Time) (*domain.Attendance, error) {
	var a domain.Attendance
	if err := scanAttendance(r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE user_id=$1 AND day=$2`, userID, day), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepository) PunchOut(ctx context.Context, id string, at time.Time, auto bool) error {
	const query = `
        UPDATE attendance SET punch_out=$1, auto_punch_out=$2, updated_at=NOW()
        WHERE id=$3 AND punch_out IS NULL`
	cmd, err := r.pool.Exec(ctx, query, at, auto, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attendanceRepository) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Attendance, error) {
	const query = `
        SELECT ` + attendanceColumns + `
        FROM attendance WHERE user_id=$1 AND day BETWEEN $2 AND $3 ORDER BY day DESC`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func (r *attendanceRepository) ListForUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]domain.Attendance, error) {
	if len(userIDs) == 0 {
		return []domain.Attendance{}, nil
	}
	const query = `
        SELECT ` + attendanceColumns + `
        FROM attendance WHERE user_id = ANY($1) AND day BETWEEN $2 AND $3 ORDER BY day DESC, user_id`
	rows, err := r.pool.Query(ctx, query, userIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]domain.Attendance, error) {
	const query = `
        SELECT ` + attendanceColumns + `
        FROM attendance WHERE punch_out IS NULL AND punch_in < $1`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]domain.Attendance, error) {
	var result []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := scanAttendance(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
