package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/repository"
)

// fakeUserRepo serves account lookups for the supplemented services.
type fakeUserRepo struct {
	users map[string]domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("u-%d", len(r.users)+1)
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles []domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListActiveIDs(_ context.Context) ([]string, error) {
	var out []string
	for id, u := range r.users {
		if u.Status == domain.UserStatusActive {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects    []*domain.Project
	seq         int
	failCreates int
}

func (r *fakeProjectRepo) Create(_ context.Context, p *domain.Project) error {
	if r.failCreates > 0 {
		r.failCreates--
		return uniqueViolation()
	}
	for _, existing := range r.projects {
		if existing.Code == p.Code {
			return uniqueViolation()
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("p-%d", r.seq)
	stored := *p
	r.projects = append(r.projects, &stored)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProjectRepo) matches(p *domain.Project, f repository.ProjectFilter) bool {
	if f.TeamIDs != nil {
		inTeams := p.TeamID != nil && contains(f.TeamIDs, *p.TeamID)
		ownedBy := f.OrManagerID != "" && p.ManagerID == f.OrManagerID
		if !inTeams && !ownedBy {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.ManagerID != "" && p.ManagerID != f.ManagerID {
		return false
	}
	return true
}

func (r *fakeProjectRepo) List(_ context.Context, f repository.ProjectFilter) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range r.projects {
		if r.matches(p, f) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Summary(_ context.Context, f repository.ProjectFilter) (*domain.ProjectSummary, error) {
	var s domain.ProjectSummary
	for _, p := range r.projects {
		if !r.matches(p, f) {
			continue
		}
		s.Total++
		switch p.Status {
		case domain.ProjectStatusCompleted:
			s.Completed++
		case domain.ProjectStatusInProgress:
			s.InProgress++
		case domain.ProjectStatusOnHold:
			s.OnHold++
		}
	}
	return &s, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *domain.Project) error {
	for i := range r.projects {
		if r.projects[i].ID == p.ID {
			stored := *p
			r.projects[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newProjectFixture() (*ProjectService, *fakeProjectRepo, *fakeTeamRepo, *fakeUserRepo) {
	users := &fakeUserRepo{users: map[string]domain.User{
		"adm1": {ID: "adm1", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
		"hr1":  {ID: "hr1", Role: domain.RoleHR, Status: domain.UserStatusActive},
		"mgr1": {ID: "mgr1", Role: domain.RoleManager, Status: domain.UserStatusActive},
		"mgr2": {ID: "mgr2", Role: domain.RoleManager, Status: domain.UserStatusActive},
		"e1":   {ID: "e1", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
		"e4":   {ID: "e4", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
	}}
	teams := &fakeTeamRepo{teams: []domain.Team{
		{ID: "alpha", LeaderID: "mgr1", MemberIDs: []string{"e1", "e2"}},
		{ID: "gamma", LeaderID: "mgr2", MemberIDs: []string{"e4"}},
	}}
	projects := &fakeProjectRepo{}
	return NewProjectService(projects, teams, users), projects, teams, users
}

func strPtr(s string) *string { return &s }

func TestProjectCreate(t *testing.T) {
	svc, repo, _, _ := newProjectFixture()
	ctx := context.Background()

	t.Run("requires name and manager", func(t *testing.T) {
		_, err := svc.Create(ctx, ProjectCreateInput{Name: "  ", ManagerID: "mgr1"})
		requireDomainCode(t, err, "VALIDATION_FAILED")
		_, err = svc.Create(ctx, ProjectCreateInput{Name: "Apollo"})
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown manager rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, ProjectCreateInput{Name: "Apollo", ManagerID: "ghost"})
		requireDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("assigns an 8-digit code when absent", func(t *testing.T) {
		project, err := svc.Create(ctx, ProjectCreateInput{Name: "Apollo", ManagerID: "mgr1"})
		require.NoError(t, err)
		assert.Len(t, project.Code, 8)
		assert.Equal(t, domain.ProjectStatusInProgress, project.Status)
	})

	t.Run("keeps a caller-provided code", func(t *testing.T) {
		project, err := svc.Create(ctx, ProjectCreateInput{Name: "Borealis", Code: "12345678", ManagerID: "mgr1"})
		require.NoError(t, err)
		assert.Equal(t, "12345678", project.Code)
	})

	t.Run("caller-provided duplicate code conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, ProjectCreateInput{Name: "Copy", Code: "12345678", ManagerID: "mgr1"})
		requireDomainCode(t, err, "CONFLICT")
	})

	t.Run("generated code retries past collisions", func(t *testing.T) {
		repo.failCreates = 2
		project, err := svc.Create(ctx, ProjectCreateInput{Name: "Cygnus", ManagerID: "mgr1"})
		require.NoError(t, err)
		assert.NotEmpty(t, project.Code)
		assert.Zero(t, repo.failCreates)
	})
}

func TestProjectListScoping(t *testing.T) {
	svc, _, _, users := newProjectFixture()
	ctx := context.Background()

	alpha := "alpha"
	gamma := "gamma"
	mustCreate := func(name string, managerID string, teamID *string, status domain.ProjectStatus) {
		t.Helper()
		_, err := svc.Create(ctx, ProjectCreateInput{Name: name, ManagerID: managerID, TeamID: teamID, Status: status})
		require.NoError(t, err)
	}
	mustCreate("Alpha Build", "mgr1", &alpha, domain.ProjectStatusInProgress)
	mustCreate("Gamma Build", "mgr2", &gamma, domain.ProjectStatusCompleted)
	mustCreate("Side Build", "mgr1", nil, domain.ProjectStatusOnHold)

	userOf := func(id string) *domain.User {
		u, err := users.GetByID(ctx, id)
		require.NoError(t, err)
		return u
	}
	names := func(projects []domain.Project) []string {
		out := make([]string, 0, len(projects))
		for _, p := range projects {
			out = append(out, p.Name)
		}
		return out
	}

	t.Run("admin sees everything", func(t *testing.T) {
		projects, summary, err := svc.List(ctx, userOf("adm1"), ProjectListQuery{})
		require.NoError(t, err)
		assert.Len(t, projects, 3)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 1, summary.Completed)
		assert.Equal(t, 1, summary.InProgress)
		assert.Equal(t, 1, summary.OnHold)
	})

	t.Run("manager sees led teams plus own projects", func(t *testing.T) {
		projects, summary, err := svc.List(ctx, userOf("mgr1"), ProjectListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Alpha Build", "Side Build"}, names(projects))
		assert.Equal(t, 2, summary.Total)
	})

	t.Run("employee sees only own teams", func(t *testing.T) {
		projects, _, err := svc.List(ctx, userOf("e1"), ProjectListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Alpha Build"}, names(projects))

		projects, _, err = svc.List(ctx, userOf("e4"), ProjectListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Gamma Build"}, names(projects))
	})

	t.Run("team filter outside scope returns nothing", func(t *testing.T) {
		projects, summary, err := svc.List(ctx, userOf("e1"), ProjectListQuery{TeamID: "gamma"})
		require.NoError(t, err)
		assert.Empty(t, projects)
		assert.Zero(t, summary.Total)
	})

	t.Run("team filter inside scope narrows", func(t *testing.T) {
		projects, _, err := svc.List(ctx, userOf("mgr1"), ProjectListQuery{TeamID: "alpha"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Alpha Build"}, names(projects))
	})

	t.Run("status filter applies", func(t *testing.T) {
		projects, summary, err := svc.List(ctx, userOf("adm1"), ProjectListQuery{Status: domain.ProjectStatusCompleted})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Gamma Build"}, names(projects))
		assert.Equal(t, 1, summary.Total)
	})
}

func TestProjectUpdateAndDelete(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()

	project, err := svc.Create(ctx, ProjectCreateInput{Name: "Apollo", ManagerID: "mgr1"})
	require.NoError(t, err)

	t.Run("partial update", func(t *testing.T) {
		done := domain.ProjectStatusCompleted
		updated, err := svc.Update(ctx, project.ID, ProjectUpdateInput{
			Name:   strPtr("Apollo II"),
			Status: &done,
		})
		require.NoError(t, err)
		assert.Equal(t, "Apollo II", updated.Name)
		assert.Equal(t, domain.ProjectStatusCompleted, updated.Status)
		assert.Equal(t, project.Code, updated.Code)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := domain.ProjectStatus("archived")
		_, err := svc.Update(ctx, project.ID, ProjectUpdateInput{Status: &bad})
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown manager rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, project.ID, ProjectUpdateInput{ManagerID: strPtr("ghost")})
		requireDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("clear team detaches the project", func(t *testing.T) {
		alpha := "alpha"
		updated, err := svc.Update(ctx, project.ID, ProjectUpdateInput{TeamID: &alpha})
		require.NoError(t, err)
		require.NotNil(t, updated.TeamID)

		updated, err = svc.Update(ctx, project.ID, ProjectUpdateInput{ClearTeam: true})
		require.NoError(t, err)
		assert.Nil(t, updated.TeamID)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, project.ID))
		err := svc.Delete(ctx, project.ID)
		requireDomainCode(t, err, "NOT_FOUND")
		_, err = svc.Get(ctx, project.ID)
		requireDomainCode(t, err, "NOT_FOUND")
	})
}
