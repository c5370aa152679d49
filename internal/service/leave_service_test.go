package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
)

type fakeLeaveRepo struct {
	leaves []*domain.Leave
	seq    int
}

func (r *fakeLeaveRepo) Create(_ context.Context, l *domain.Leave) error {
	r.seq++
	l.ID = fmt.Sprintf("leave-%d", r.seq)
	l.Status = domain.LeaveStatusPending
	l.CreatedAt = time.Now()
	stored := *l
	r.leaves = append(r.leaves, &stored)
	return nil
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, id string) (*domain.Leave, error) {
	for _, l := range r.leaves {
		if l.ID == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLeaveRepo) ListForUser(_ context.Context, userID string) ([]domain.Leave, error) {
	var out []domain.Leave
	for _, l := range r.leaves {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListPendingForUsers(_ context.Context, userIDs []string) ([]domain.Leave, error) {
	allowed := map[string]struct{}{}
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}
	var out []domain.Leave
	for _, l := range r.leaves {
		if _, ok := allowed[l.UserID]; ok && l.Status == domain.LeaveStatusPending {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListPending(_ context.Context) ([]domain.Leave, error) {
	var out []domain.Leave
	for _, l := range r.leaves {
		if l.Status == domain.LeaveStatusPending {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) Decide(_ context.Context, id string, status domain.LeaveStatus, decidedBy string, at time.Time) error {
	for _, l := range r.leaves {
		if l.ID == id && l.Status == domain.LeaveStatusPending {
			l.Status = status
			l.DecidedBy = &decidedBy
			l.DecidedAt = &at
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newLeaveFixture() (*LeaveService, *fakeLeaveRepo, *[]events.Event) {
	repo := &fakeLeaveRepo{}
	teams := &fakeTeamRepo{teams: []domain.Team{
		{ID: "alpha", LeaderID: "mgr1", MemberIDs: []string{"e1", "e2"}},
		{ID: "gamma", LeaderID: "mgr2", MemberIDs: []string{"e4"}},
	}}
	dispatcher := events.NewInMemoryDispatcher()
	captured := &[]events.Event{}
	dispatcher.Subscribe(events.EventLeaveDecided, func(_ context.Context, event events.Event) error {
		*captured = append(*captured, event)
		return nil
	})
	return NewLeaveService(repo, teams, dispatcher), repo, captured
}

func apply(t *testing.T, svc *LeaveService, userID string) *domain.Leave {
	t.Helper()
	from := time.Now().AddDate(0, 0, 7)
	leave, err := svc.Apply(context.Background(), userID, LeaveApplyInput{
		Type: domain.LeaveTypeCasual,
		From: from,
		To:   from.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	return leave
}

func TestLeaveApplyValidation(t *testing.T) {
	svc, _, _ := newLeaveFixture()
	from := time.Now()

	_, err := svc.Apply(context.Background(), "e1", LeaveApplyInput{
		Type: domain.LeaveTypeSick,
		From: from,
		To:   from.AddDate(0, 0, -1),
	})
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Apply(context.Background(), "e1", LeaveApplyInput{Type: domain.LeaveTypeSick})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestLeavePendingScoping(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLeaveFixture()

	apply(t, svc, "e1")
	apply(t, svc, "e2")
	apply(t, svc, "e4")

	t.Run("manager sees only led members", func(t *testing.T) {
		pending, err := svc.ListPendingFor(ctx, &domain.User{ID: "mgr1", Role: domain.RoleManager})
		require.NoError(t, err)
		require.Len(t, pending, 2)
		for _, l := range pending {
			assert.NotEqual(t, "e4", l.UserID)
		}
	})

	t.Run("hr sees everything", func(t *testing.T) {
		pending, err := svc.ListPendingFor(ctx, &domain.User{ID: "hr1", Role: domain.RoleHR})
		require.NoError(t, err)
		assert.Len(t, pending, 3)
	})
}

func TestLeaveDecide(t *testing.T) {
	ctx := context.Background()
	svc, _, captured := newLeaveFixture()
	leave := apply(t, svc, "e1")

	decided, err := svc.Decide(ctx, "mgr1", leave.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "mgr1", *decided.DecidedBy)

	require.Len(t, *captured, 1)
	payload, ok := (*captured)[0].Payload.(events.LeaveDecidedPayload)
	require.True(t, ok)
	assert.Equal(t, "e1", payload.UserID)
	assert.Equal(t, domain.LeaveStatusApproved, payload.Status)

	// deciding twice finds no pending request
	_, err = svc.Decide(ctx, "mgr1", leave.ID, false)
	requireDomainCode(t, err, "NOT_FOUND")
}
