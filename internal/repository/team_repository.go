package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// TeamRepository manages persistence for teams and their rosters.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	ListLedBy(ctx context.Context, leaderID string) ([]domain.Team, error)
	ListContaining(ctx context.Context, userID string) ([]domain.Team, error)
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (name, description, leader_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		team.Name,
		team.Description,
		team.LeaderID,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt); err != nil {
		return err
	}
	for _, userID := range team.MemberIDs {
		if err := r.AddMember(ctx, team.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE teams SET name=$1, description=$2, leader_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		team.Name,
		team.Description,
		team.LeaderID,
		team.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `
        SELECT id, name, description, leader_id, created_at, updated_at
        FROM teams WHERE id=$1`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.LeaderID,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	members, err := r.memberIDs(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.MemberIDs = members
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const query = `
        SELECT id, name, description, leader_id, created_at, updated_at
        FROM teams ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectTeams(ctx, rows)
}

func (r *teamRepository) ListLedBy(ctx context.Context, leaderID string) ([]domain.Team, error) {
	const query = `
        SELECT id, name, description, leader_id, created_at, updated_at
        FROM teams WHERE leader_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, leaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectTeams(ctx, rows)
}

func (r *teamRepository) ListContaining(ctx context.Context, userID string) ([]domain.Team, error) {
	const query = `
        SELECT t.id, t.name, t.description, t.leader_id, t.created_at, t.updated_at
        FROM teams t
        JOIN team_members tm ON tm.team_id = t.id
        WHERE tm.user_id=$1 ORDER BY t.name`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectTeams(ctx, rows)
}

func (r *teamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	const query = `
        INSERT INTO team_members (team_id, user_id)
        VALUES ($1,$2) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	const query = `DELETE FROM team_members WHERE team_id=$1 AND user_id=$2`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

func (r *teamRepository) memberIDs(ctx context.Context, teamID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM team_members WHERE team_id=$1`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *teamRepository) collectTeams(ctx context.Context, rows pgx.Rows) ([]domain.Team, error) {
	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.LeaderID, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		members, err := r.memberIDs(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].MemberIDs = members
	}
	return result, nil
}
