package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// TeamService manages teams and rosters. Roster changes never resync
// existing team conversations; their membership stays the snapshot taken at
// creation.
type TeamService struct {
	teams repository.TeamRepository
	users repository.UserRepository
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// TeamCreateInput describes a new team.
type TeamCreateInput struct {
	Name        string
	Description string
	LeaderID    string
	MemberIDs   []string
}

// Create registers a team led by a manager.
func (s *TeamService) Create(ctx context.Context, input TeamCreateInput) (*domain.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.LeaderID == "" {
		return nil, apperrors.NewValidationError("name and leader required", nil)
	}

	leader, err := s.users.GetByID(ctx, input.LeaderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("leader", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if leader.Role != domain.RoleManager {
		return nil, apperrors.NewValidationError("team leader must be a manager", nil)
	}

	team := &domain.Team{
		Name:        input.Name,
		Description: input.Description,
		LeaderID:    input.LeaderID,
		MemberIDs:   dedupeIDs(input.MemberIDs, input.LeaderID),
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// Get fetches a team with its roster.
func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// List returns all teams.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// ListMine returns teams the user leads or belongs to.
func (s *TeamService) ListMine(ctx context.Context, userID string) ([]domain.Team, error) {
	led, err := s.teams.ListLedBy(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	containing, err := s.teams.ListContaining(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	seen := make(map[string]struct{}, len(led))
	out := append([]domain.Team{}, led...)
	for _, t := range led {
		seen[t.ID] = struct{}{}
	}
	for _, t := range containing {
		if _, ok := seen[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddMember adds a user to the roster.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID string) error {
	if _, err := s.Get(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if err := s.teams.AddMember(ctx, teamID, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RemoveMember removes a user from the roster.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	if _, err := s.Get(ctx, teamID); err != nil {
		return err
	}
	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func dedupeIDs(ids []string, exclude string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
