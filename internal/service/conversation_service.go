package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/persistence"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// ConversationService owns conversation lifecycle: lazy create-or-get for
// dm pairs and team groups, plus per-user listing.
type ConversationService struct {
	conversations repository.ConversationRepository
	permissions   *PermissionEvaluator
	directory     Directory
}

// NewConversationService constructs the service.
func NewConversationService(conversations repository.ConversationRepository, permissions *PermissionEvaluator, directory Directory) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		permissions:   permissions,
		directory:     directory,
	}
}

// GetOrCreateDirect returns the dm conversation between requester and
// target, creating it when absent. Concurrent calls racing to create the
// same pair are resolved by the storage uniqueness constraint: a duplicate
// insert falls back to fetching the winner.
func (s *ConversationService) GetOrCreateDirect(ctx context.Context, requesterID, targetID string) (*domain.Conversation, error) {
	if targetID == "" {
		return nil, apperrors.NewValidationError("target user id required", nil)
	}
	if requesterID == targetID {
		return nil, apperrors.NewValidationError("cannot open a conversation with yourself", nil)
	}

	allowed, err := s.permissions.CanConverse(ctx, requesterID, targetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !allowed {
		return nil, apperrors.NewForbidden("you are not allowed to chat with this user")
	}

	membersKey := domain.DirectMembersKey(requesterID, targetID)
	convo, err := s.conversations.GetDirectByMembersKey(ctx, membersKey)
	if err == nil {
		return convo, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	convo = &domain.Conversation{
		Type:      domain.ConversationTypeDirect,
		MemberIDs: []string{requesterID, targetID},
	}
	if err := s.conversations.Create(ctx, convo); err != nil {
		if persistence.IsUniqueViolation(err) {
			// lost the creation race; the other member's insert won
			existing, fetchErr := s.conversations.GetDirectByMembersKey(ctx, membersKey)
			if fetchErr != nil {
				return nil, apperrors.MapError(fetchErr)
			}
			return existing, nil
		}
		return nil, apperrors.MapError(err)
	}
	return convo, nil
}

// GetOrCreateTeam returns the team's group conversation, creating it when
// absent. Membership is a snapshot of the current leader plus roster; later
// roster changes do not alter it.
func (s *ConversationService) GetOrCreateTeam(ctx context.Context, requesterID, teamID string) (*domain.Conversation, error) {
	if teamID == "" {
		return nil, apperrors.NewValidationError("team id required", nil)
	}

	allowed, err := s.permissions.CanJoinTeamConversation(ctx, requesterID, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !allowed {
		return nil, apperrors.NewForbidden("you are not allowed to join this team conversation")
	}

	convo, err := s.conversations.GetByTeamID(ctx, teamID)
	if err == nil {
		return convo, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	team, err := s.directory.TeamByID(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if team == nil {
		return nil, apperrors.NewNotFound("team", nil)
	}

	convo = &domain.Conversation{
		Type:      domain.ConversationTypeTeam,
		TeamID:    &team.ID,
		MemberIDs: team.Participants(),
	}
	if err := s.conversations.Create(ctx, convo); err != nil {
		if persistence.IsUniqueViolation(err) {
			existing, fetchErr := s.conversations.GetByTeamID(ctx, teamID)
			if fetchErr != nil {
				return nil, apperrors.MapError(fetchErr)
			}
			return existing, nil
		}
		return nil, apperrors.MapError(err)
	}
	return convo, nil
}

// ListForUser returns the user's conversations, most recent activity first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return conversations, nil
}
