package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// ProjectFilter narrows project listings. A nil TeamIDs means no team
// scoping; an empty slice matches nothing (user belongs to no teams).
type ProjectFilter struct {
	TeamIDs      []string
	OrManagerID  string
	Status       domain.ProjectStatus
	ManagerID    string
	Search       string
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	Limit        int
	Offset       int
}

// ProjectRepository manages persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Summary(ctx context.Context, filter ProjectFilter) (*domain.ProjectSummary, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository constructs repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, code, name, description, manager_id, team_id, status, deadline, created_at, updated_at`

func scanProject(row pgx.Row, p *domain.Project) error {
	return row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.ManagerID,
		&p.TeamID,
		&p.Status,
		&p.Deadline,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	const query = `
        INSERT INTO projects (code, name, description, manager_id, team_id, status, deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Code,
		p.Name,
		p.Description,
		p.ManagerID,
		p.TeamID,
		p.Status,
		p.Deadline,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	if err := scanProject(r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id=$1`, id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (f ProjectFilter) where() (string, []any) {
	var clauses []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.TeamIDs != nil {
		teams := next(f.TeamIDs)
		if f.OrManagerID != "" {
			clauses = append(clauses, fmt.Sprintf("(team_id = ANY(%s) OR manager_id = %s)", teams, next(f.OrManagerID)))
		} else {
			clauses = append(clauses, fmt.Sprintf("team_id = ANY(%s)", teams))
		}
	}
	if f.Status != "" {
		clauses = append(clauses, "status = "+next(f.Status))
	}
	if f.ManagerID != "" {
		clauses = append(clauses, "manager_id = "+next(f.ManagerID))
	}
	if f.Search != "" {
		pattern := next("%" + f.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE %s OR code ILIKE %s)", pattern, pattern))
	}
	if f.DeadlineFrom != nil {
		clauses = append(clauses, "deadline >= "+next(*f.DeadlineFrom))
	}
	if f.DeadlineTo != nil {
		clauses = append(clauses, "deadline <= "+next(*f.DeadlineTo))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	where, args := filter.where()
	query := `SELECT ` + projectColumns + ` FROM projects` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *projectRepository) Summary(ctx context.Context, filter ProjectFilter) (*domain.ProjectSummary, error) {
	where, args := filter.where()
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM projects`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary domain.ProjectSummary
	for rows.Next() {
		var status domain.ProjectStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.Total += count
		switch status {
		case domain.ProjectStatusCompleted:
			summary.Completed = count
		case domain.ProjectStatusInProgress:
			summary.InProgress = count
		case domain.ProjectStatusOnHold:
			summary.OnHold = count
		}
	}
	return &summary, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	const query = `
        UPDATE projects
        SET code=$1, name=$2, description=$3, manager_id=$4, team_id=$5, status=$6, deadline=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Code,
		p.Name,
		p.Description,
		p.ManagerID,
		p.TeamID,
		p.Status,
		p.Deadline,
		p.ID,
	).Scan(&p.UpdatedAt)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
