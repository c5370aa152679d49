package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
)

// Directory resolves users, roles and team memberships for permission
// decisions. Lookups for absent records return (nil, nil) so callers can
// fail closed without inspecting storage errors.
type Directory interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
	TeamByID(ctx context.Context, id string) (*domain.Team, error)
	TeamsLedBy(ctx context.Context, userID string) ([]domain.Team, error)
	TeamsContaining(ctx context.Context, userID string) ([]domain.Team, error)
	AllTeams(ctx context.Context) ([]domain.Team, error)
	UsersByRoles(ctx context.Context, roles ...domain.Role) ([]domain.User, error)
	UsersByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	AllUsers(ctx context.Context) ([]domain.User, error)
}

type repoDirectory struct {
	users repository.UserRepository
	teams repository.TeamRepository
}

// NewDirectory builds a Directory backed by the user and team repositories.
func NewDirectory(users repository.UserRepository, teams repository.TeamRepository) Directory {
	return &repoDirectory{users: users, teams: teams}
}

func (d *repoDirectory) UserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := d.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (d *repoDirectory) TeamByID(ctx context.Context, id string) (*domain.Team, error) {
	team, err := d.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return team, nil
}

func (d *repoDirectory) TeamsLedBy(ctx context.Context, userID string) ([]domain.Team, error) {
	return d.teams.ListLedBy(ctx, userID)
}

func (d *repoDirectory) TeamsContaining(ctx context.Context, userID string) ([]domain.Team, error) {
	return d.teams.ListContaining(ctx, userID)
}

func (d *repoDirectory) AllTeams(ctx context.Context) ([]domain.Team, error) {
	return d.teams.List(ctx)
}

func (d *repoDirectory) UsersByRoles(ctx context.Context, roles ...domain.Role) ([]domain.User, error) {
	return d.users.ListByRoles(ctx, roles)
}

func (d *repoDirectory) UsersByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	return d.users.ListByIDs(ctx, ids)
}

func (d *repoDirectory) AllUsers(ctx context.Context) ([]domain.User, error) {
	return d.users.List(ctx, 1000, 0)
}
