package service

import (
	"context"
	"sort"

	"github.com/wltlabs/staffhub/internal/domain"
)

// PermissionEvaluator decides who may converse with whom. Every rule is
// evaluated against the current directory state, so the same check at
// conversation-creation time and at send time can disagree after a team
// reassignment; the send-time answer wins.
//
// All checks fail closed: a missing requester or target denies permission
// rather than erroring.
type PermissionEvaluator struct {
	directory Directory
}

// NewPermissionEvaluator constructs the evaluator.
func NewPermissionEvaluator(directory Directory) *PermissionEvaluator {
	return &PermissionEvaluator{directory: directory}
}

// CanConverse reports whether requester may open or continue a direct
// conversation with target. Callers must reject self-conversation before
// invoking; identical ids are not evaluated here.
//
// Rules, in precedence order:
//   - admin and hr talk to anyone
//   - a manager talks to admin, hr, and members of teams the manager leads
//     (the union across all led teams)
//   - an employee talks to hr unconditionally, and to the leader and
//     members of each team the employee belongs to
func (p *PermissionEvaluator) CanConverse(ctx context.Context, requesterID, targetID string) (bool, error) {
	requester, err := p.directory.UserByID(ctx, requesterID)
	if err != nil {
		return false, err
	}
	target, err := p.directory.UserByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	if requester == nil || target == nil {
		return false, nil
	}

	switch requester.Role {
	case domain.RoleAdmin, domain.RoleHR:
		return true, nil

	case domain.RoleManager:
		if target.Role == domain.RoleAdmin || target.Role == domain.RoleHR {
			return true, nil
		}
		led, err := p.directory.TeamsLedBy(ctx, requesterID)
		if err != nil {
			return false, err
		}
		for _, team := range led {
			if team.HasMember(targetID) {
				return true, nil
			}
		}
		return false, nil

	case domain.RoleEmployee:
		if target.Role == domain.RoleHR {
			return true, nil
		}
		teams, err := p.directory.TeamsContaining(ctx, requesterID)
		if err != nil {
			return false, err
		}
		for _, team := range teams {
			if team.LeaderID == targetID || team.HasMember(targetID) {
				return true, nil
			}
		}
		return false, nil
	}

	return false, nil
}

// CanJoinTeamConversation reports whether requester may open the group
// conversation of the given team.
func (p *PermissionEvaluator) CanJoinTeamConversation(ctx context.Context, requesterID, teamID string) (bool, error) {
	requester, err := p.directory.UserByID(ctx, requesterID)
	if err != nil {
		return false, err
	}
	team, err := p.directory.TeamByID(ctx, teamID)
	if err != nil {
		return false, err
	}
	if requester == nil || team == nil {
		return false, nil
	}

	switch requester.Role {
	case domain.RoleAdmin, domain.RoleHR:
		return true, nil
	case domain.RoleManager:
		return team.LeaderID == requesterID, nil
	case domain.RoleEmployee:
		return team.HasMember(requesterID), nil
	}
	return false, nil
}

// AllowedCounterparts lists everyone the user may start a conversation with,
// plus the team conversations the user may open. The user is never included
// in its own result.
type AllowedCounterparts struct {
	Me    *domain.User
	Users []domain.User
	Teams []domain.Team
}

// AllowedCounterparts resolves the full counterpart set for userID.
func (p *PermissionEvaluator) AllowedCounterparts(ctx context.Context, userID string) (*AllowedCounterparts, error) {
	me, err := p.directory.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return nil, nil
	}

	result := &AllowedCounterparts{Me: me}

	switch me.Role {
	case domain.RoleAdmin, domain.RoleHR:
		users, err := p.directory.AllUsers(ctx)
		if err != nil {
			return nil, err
		}
		result.Users = excludeUser(users, userID)

	case domain.RoleManager:
		staff, err := p.directory.UsersByRoles(ctx, domain.RoleAdmin, domain.RoleHR)
		if err != nil {
			return nil, err
		}
		led, err := p.directory.TeamsLedBy(ctx, userID)
		if err != nil {
			return nil, err
		}
		memberIDs := map[string]struct{}{}
		for _, team := range led {
			for _, id := range team.MemberIDs {
				memberIDs[id] = struct{}{}
			}
		}
		members, err := p.directory.UsersByIDs(ctx, sortedKeys(memberIDs))
		if err != nil {
			return nil, err
		}
		result.Users = excludeUser(dedupeUsers(append(staff, members...)), userID)

	case domain.RoleEmployee:
		hr, err := p.directory.UsersByRoles(ctx, domain.RoleHR)
		if err != nil {
			return nil, err
		}
		teams, err := p.directory.TeamsContaining(ctx, userID)
		if err != nil {
			return nil, err
		}
		ids := map[string]struct{}{}
		for _, team := range teams {
			ids[team.LeaderID] = struct{}{}
			for _, id := range team.MemberIDs {
				ids[id] = struct{}{}
			}
		}
		peers, err := p.directory.UsersByIDs(ctx, sortedKeys(ids))
		if err != nil {
			return nil, err
		}
		result.Users = excludeUser(dedupeUsers(append(hr, peers...)), userID)
	}

	teams, err := p.allowedTeams(ctx, me)
	if err != nil {
		return nil, err
	}
	result.Teams = teams

	return result, nil
}

func (p *PermissionEvaluator) allowedTeams(ctx context.Context, me *domain.User) ([]domain.Team, error) {
	switch me.Role {
	case domain.RoleManager:
		return p.directory.TeamsLedBy(ctx, me.ID)
	case domain.RoleEmployee:
		return p.directory.TeamsContaining(ctx, me.ID)
	default:
		// admin and hr may open any team conversation
		return p.directory.AllTeams(ctx)
	}
}

func excludeUser(users []domain.User, userID string) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return out
}

func dedupeUsers(users []domain.User) []domain.User {
	seen := make(map[string]struct{}, len(users))
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
