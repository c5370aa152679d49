package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wltlabs/staffhub/internal/domain"
)

// fakeDirectory serves permission checks from in-memory fixtures.
type fakeDirectory struct {
	users map[string]domain.User
	teams []domain.Team
}

func newFakeDirectory(users []domain.User, teams []domain.Team) *fakeDirectory {
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &fakeDirectory{users: byID, teams: teams}
}

func (d *fakeDirectory) UserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (d *fakeDirectory) TeamByID(_ context.Context, id string) (*domain.Team, error) {
	for i := range d.teams {
		if d.teams[i].ID == id {
			team := d.teams[i]
			return &team, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) TeamsLedBy(_ context.Context, userID string) ([]domain.Team, error) {
	var out []domain.Team
	for _, t := range d.teams {
		if t.LeaderID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *fakeDirectory) TeamsContaining(_ context.Context, userID string) ([]domain.Team, error) {
	var out []domain.Team
	for _, t := range d.teams {
		if t.HasMember(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *fakeDirectory) AllTeams(_ context.Context) ([]domain.Team, error) {
	return d.teams, nil
}

func (d *fakeDirectory) UsersByRoles(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range d.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (d *fakeDirectory) UsersByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) AllUsers(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	return out, nil
}

func orgFixture() *fakeDirectory {
	users := []domain.User{
		{ID: "adm1", Name: "Ada", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
		{ID: "hr1", Name: "Hana", Role: domain.RoleHR, Status: domain.UserStatusActive},
		{ID: "mgr1", Name: "Mio", Role: domain.RoleManager, Status: domain.UserStatusActive},
		{ID: "mgr2", Name: "Max", Role: domain.RoleManager, Status: domain.UserStatusActive},
		{ID: "e1", Name: "Eli", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
		{ID: "e2", Name: "Eva", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
		{ID: "e3", Name: "Edo", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
		{ID: "e4", Name: "Ena", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
		{ID: "lone", Name: "Leo", Role: domain.RoleEmployee, Status: domain.UserStatusActive},
	}
	teams := []domain.Team{
		{ID: "alpha", Name: "Alpha", LeaderID: "mgr1", MemberIDs: []string{"e1", "e2"}},
		{ID: "beta", Name: "Beta", LeaderID: "mgr1", MemberIDs: []string{"e3"}},
		{ID: "gamma", Name: "Gamma", LeaderID: "mgr2", MemberIDs: []string{"e4"}},
	}
	return newFakeDirectory(users, teams)
}

func TestCanConverse(t *testing.T) {
	evaluator := NewPermissionEvaluator(orgFixture())
	ctx := context.Background()

	cases := []struct {
		name      string
		requester string
		target    string
		want      bool
	}{
		{"admin talks to anyone", "adm1", "lone", true},
		{"hr talks to anyone", "hr1", "e4", true},
		{"manager to admin", "mgr1", "adm1", true},
		{"manager to hr", "mgr1", "hr1", true},
		{"manager to own member", "mgr1", "e1", true},
		{"manager union across led teams", "mgr1", "e3", true},
		{"manager to other team's member", "mgr1", "e4", false},
		{"manager to teamless employee", "mgr1", "lone", false},
		{"manager to peer manager", "mgr1", "mgr2", false},
		{"employee to hr", "e1", "hr1", true},
		{"employee to own leader", "e1", "mgr1", true},
		{"employee to teammate", "e1", "e2", true},
		{"employee to sibling team", "e1", "e3", false},
		{"employee to admin", "e1", "adm1", false},
		{"teamless employee to hr", "lone", "hr1", true},
		{"teamless employee to anyone else", "lone", "e1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluator.CanConverse(ctx, tc.requester, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanConverseFailsClosedOnMissingUsers(t *testing.T) {
	evaluator := NewPermissionEvaluator(orgFixture())
	ctx := context.Background()

	ok, err := evaluator.CanConverse(ctx, "ghost", "e1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = evaluator.CanConverse(ctx, "adm1", "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanJoinTeamConversation(t *testing.T) {
	evaluator := NewPermissionEvaluator(orgFixture())
	ctx := context.Background()

	cases := []struct {
		name      string
		requester string
		teamID    string
		want      bool
	}{
		{"admin joins any team", "adm1", "gamma", true},
		{"hr joins any team", "hr1", "alpha", true},
		{"leader joins own team", "mgr1", "alpha", true},
		{"manager denied on foreign team", "mgr1", "gamma", false},
		{"member joins own team", "e1", "alpha", true},
		{"employee denied on foreign team", "e1", "beta", false},
		{"teamless employee denied", "lone", "alpha", false},
		{"missing team denies", "adm1", "nope", false},
		{"missing requester denies", "ghost", "alpha", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluator.CanJoinTeamConversation(ctx, tc.requester, tc.teamID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllowedCounterparts(t *testing.T) {
	evaluator := NewPermissionEvaluator(orgFixture())
	ctx := context.Background()

	userIDs := func(users []domain.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}
	teamIDs := func(teams []domain.Team) []string {
		out := make([]string, 0, len(teams))
		for _, t := range teams {
			out = append(out, t.ID)
		}
		return out
	}

	t.Run("manager gets staff plus led-team union", func(t *testing.T) {
		result, err := evaluator.AllowedCounterparts(ctx, "mgr1")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.ElementsMatch(t, []string{"adm1", "hr1", "e1", "e2", "e3"}, userIDs(result.Users))
		assert.ElementsMatch(t, []string{"alpha", "beta"}, teamIDs(result.Teams))
	})

	t.Run("employee gets hr, leaders and teammates", func(t *testing.T) {
		result, err := evaluator.AllowedCounterparts(ctx, "e1")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.ElementsMatch(t, []string{"hr1", "mgr1", "e2"}, userIDs(result.Users))
		assert.ElementsMatch(t, []string{"alpha"}, teamIDs(result.Teams))
	})

	t.Run("teamless employee gets only hr", func(t *testing.T) {
		result, err := evaluator.AllowedCounterparts(ctx, "lone")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.ElementsMatch(t, []string{"hr1"}, userIDs(result.Users))
		assert.Empty(t, result.Teams)
	})

	t.Run("admin gets everyone and every team", func(t *testing.T) {
		result, err := evaluator.AllowedCounterparts(ctx, "adm1")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.ElementsMatch(t,
			[]string{"hr1", "mgr1", "mgr2", "e1", "e2", "e3", "e4", "lone"},
			userIDs(result.Users))
		assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, teamIDs(result.Teams))
	})

	t.Run("never includes the requester", func(t *testing.T) {
		for _, id := range []string{"adm1", "hr1", "mgr1", "e1", "lone"} {
			result, err := evaluator.AllowedCounterparts(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotContains(t, userIDs(result.Users), id)
		}
	})

	t.Run("unknown user resolves to nil", func(t *testing.T) {
		result, err := evaluator.AllowedCounterparts(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}
