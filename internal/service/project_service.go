package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/persistence"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// ProjectService manages projects and their role-scoped listings.
type ProjectService struct {
	projects repository.ProjectRepository
	teams    repository.TeamRepository
	users    repository.UserRepository
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository, teams repository.TeamRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, teams: teams, users: users}
}

// ProjectCreateInput describes a new project. Code is optional; a random
// 8-digit code is assigned when absent.
type ProjectCreateInput struct {
	Name        string
	Code        string
	Description string
	ManagerID   string
	TeamID      *string
	Status      domain.ProjectStatus
	Deadline    *time.Time
}

// ProjectUpdateInput describes a partial project change.
type ProjectUpdateInput struct {
	Name        *string
	Code        *string
	Description *string
	ManagerID   *string
	TeamID      *string
	ClearTeam   bool
	Status      *domain.ProjectStatus
	Deadline    *time.Time
}

// ProjectListQuery narrows a listing. TeamID filters to one team the
// requester can see; Search matches name or code.
type ProjectListQuery struct {
	Status       domain.ProjectStatus
	ManagerID    string
	TeamID       string
	Search       string
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	Limit        int
	Offset       int
}

const projectCodeAttempts = 5

func newProjectCode() string {
	return fmt.Sprintf("%d", 10000000+rand.Intn(90000000))
}

// Create registers a project. A caller-provided code that collides is a
// conflict; generated codes are retried.
func (s *ProjectService) Create(ctx context.Context, input ProjectCreateInput) (*domain.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.ManagerID == "" {
		return nil, apperrors.NewValidationError("project name and manager required", nil)
	}
	if input.Status == "" {
		input.Status = domain.ProjectStatusInProgress
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid project status", nil)
	}
	if _, err := s.users.GetByID(ctx, input.ManagerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("manager", nil)
		}
		return nil, apperrors.MapError(err)
	}

	project := &domain.Project{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		ManagerID:   input.ManagerID,
		TeamID:      input.TeamID,
		Status:      input.Status,
		Deadline:    input.Deadline,
	}

	generated := project.Code == ""
	for attempt := 0; attempt < projectCodeAttempts; attempt++ {
		if generated {
			project.Code = newProjectCode()
		}
		err := s.projects.Create(ctx, project)
		if err == nil {
			return project, nil
		}
		if !persistence.IsUniqueViolation(err) {
			return nil, apperrors.MapError(err)
		}
		if !generated {
			return nil, apperrors.NewConflict("project code already exists", nil)
		}
	}
	return nil, apperrors.NewConflict("could not allocate a project code", nil)
}

// List returns projects the requester may see plus status counts over the
// full filtered set. Admin sees everything; everyone else sees projects of
// teams they lead or belong to, and managers additionally their own.
func (s *ProjectService) List(ctx context.Context, requester *domain.User, query ProjectListQuery) ([]domain.Project, *domain.ProjectSummary, error) {
	if requester == nil {
		return nil, nil, apperrors.NewUnauthorized("login required")
	}

	filter := repository.ProjectFilter{
		Status:       query.Status,
		ManagerID:    query.ManagerID,
		Search:       strings.TrimSpace(query.Search),
		DeadlineFrom: query.DeadlineFrom,
		DeadlineTo:   query.DeadlineTo,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}

	if requester.Role == domain.RoleAdmin {
		if query.TeamID != "" {
			filter.TeamIDs = []string{query.TeamID}
		}
	} else {
		teamIDs, err := s.visibleTeamIDs(ctx, requester.ID)
		if err != nil {
			return nil, nil, err
		}
		if query.TeamID != "" {
			if !contains(teamIDs, query.TeamID) {
				return []domain.Project{}, &domain.ProjectSummary{}, nil
			}
			filter.TeamIDs = []string{query.TeamID}
		} else {
			filter.TeamIDs = teamIDs
			if requester.Role == domain.RoleManager {
				filter.OrManagerID = requester.ID
			}
		}
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	summary, err := s.projects.Summary(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, summary, nil
}

// Get fetches one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// Update applies partial changes.
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectUpdateInput) (*domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("project name required", nil)
		}
		project.Name = name
	}
	if input.Code != nil && *input.Code != "" {
		project.Code = *input.Code
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ManagerID != nil {
		if _, err := s.users.GetByID(ctx, *input.ManagerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("manager", nil)
			}
			return nil, apperrors.MapError(err)
		}
		project.ManagerID = *input.ManagerID
	}
	if input.ClearTeam {
		project.TeamID = nil
	} else if input.TeamID != nil {
		project.TeamID = input.TeamID
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid project status", nil)
		}
		project.Status = *input.Status
	}
	if input.Deadline != nil {
		project.Deadline = input.Deadline
	}
	if err := s.projects.Update(ctx, project); err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("project code already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("project", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ProjectService) visibleTeamIDs(ctx context.Context, userID string) ([]string, error) {
	led, err := s.teams.ListLedBy(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	containing, err := s.teams.ListContaining(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(led)+len(containing))
	for _, t := range led {
		if _, ok := seen[t.ID]; !ok {
			seen[t.ID] = struct{}{}
			ids = append(ids, t.ID)
		}
	}
	for _, t := range containing {
		if _, ok := seen[t.ID]; !ok {
			seen[t.ID] = struct{}{}
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
