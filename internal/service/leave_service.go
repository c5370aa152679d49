package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// LeaveService manages leave requests and approvals.
type LeaveService struct {
	leaves     repository.LeaveRepository
	teams      repository.TeamRepository
	dispatcher events.Dispatcher
}

// NewLeaveService constructs the service.
func NewLeaveService(leaves repository.LeaveRepository, teams repository.TeamRepository, dispatcher events.Dispatcher) *LeaveService {
	return &LeaveService{leaves: leaves, teams: teams, dispatcher: dispatcher}
}

// LeaveApplyInput describes a new request.
type LeaveApplyInput struct {
	Type   domain.LeaveType
	From   time.Time
	To     time.Time
	Reason string
}

// Apply files a leave request.
func (s *LeaveService) Apply(ctx context.Context, userID string, input LeaveApplyInput) (*domain.Leave, error) {
	if input.From.IsZero() || input.To.IsZero() || input.To.Before(input.From) {
		return nil, apperrors.NewValidationError("invalid leave period", nil)
	}
	leave := &domain.Leave{
		UserID: userID,
		Type:   input.Type,
		From:   input.From,
		To:     input.To,
		Reason: input.Reason,
	}
	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, apperrors.MapError(err)
	}
	return leave, nil
}

// ListMine returns the user's requests.
func (s *LeaveService) ListMine(ctx context.Context, userID string) ([]domain.Leave, error) {
	leaves, err := s.leaves.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leaves, nil
}

// ListPendingFor returns requests awaiting the approver. Managers see
// requests from members of teams they lead; hr and admin see all.
func (s *LeaveService) ListPendingFor(ctx context.Context, approver *domain.User) ([]domain.Leave, error) {
	if approver.Role == domain.RoleHR || approver.Role == domain.RoleAdmin {
		leaves, err := s.leaves.ListPending(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return leaves, nil
	}

	led, err := s.teams.ListLedBy(ctx, approver.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idSet := map[string]struct{}{}
	for _, team := range led {
		for _, id := range team.MemberIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	leaves, err := s.leaves.ListPendingForUsers(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leaves, nil
}

// Decide approves or rejects a pending request.
func (s *LeaveService) Decide(ctx context.Context, approverID, leaveID string, approve bool) (*domain.Leave, error) {
	status := domain.LeaveStatusRejected
	if approve {
		status = domain.LeaveStatusApproved
	}
	now := time.Now()
	if err := s.leaves.Decide(ctx, leaveID, status, approverID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pending leave", nil)
		}
		return nil, apperrors.MapError(err)
	}
	leave, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLeaveDecided,
			ActorID:   approverID,
			Timestamp: now,
			Payload: events.LeaveDecidedPayload{
				LeaveID: leave.ID,
				UserID:  leave.UserID,
				Status:  leave.Status,
			},
		})
	}
	return leave, nil
}
