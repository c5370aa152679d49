package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wltlabs/staffhub/internal/domain"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// fakeConversationRepo mimics the storage uniqueness guarantees: a second
// insert for the same dm pair or team fails with a 23505 error.
type fakeConversationRepo struct {
	byID     map[string]*domain.Conversation
	byKey    map[string]string
	byTeam   map[string]string
	seq      int
	onCreate func()
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		byID:   map[string]*domain.Conversation{},
		byKey:  map[string]string{},
		byTeam: map[string]string{},
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func (r *fakeConversationRepo) Create(_ context.Context, convo *domain.Conversation) error {
	if r.onCreate != nil {
		hook := r.onCreate
		r.onCreate = nil
		hook()
	}
	switch convo.Type {
	case domain.ConversationTypeDirect:
		key := domain.DirectMembersKey(convo.MemberIDs[0], convo.MemberIDs[1])
		if _, exists := r.byKey[key]; exists {
			return uniqueViolation()
		}
		r.insert(convo)
		r.byKey[key] = convo.ID
	case domain.ConversationTypeTeam:
		if _, exists := r.byTeam[*convo.TeamID]; exists {
			return uniqueViolation()
		}
		r.insert(convo)
		r.byTeam[*convo.TeamID] = convo.ID
	}
	return nil
}

func (r *fakeConversationRepo) insert(convo *domain.Conversation) {
	r.seq++
	convo.ID = fmt.Sprintf("convo-%d", r.seq)
	convo.CreatedAt = time.Now()
	convo.UpdatedAt = convo.CreatedAt
	stored := *convo
	r.byID[convo.ID] = &stored
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	convo, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *convo
	return &copied, nil
}

func (r *fakeConversationRepo) GetDirectByMembersKey(_ context.Context, membersKey string) (*domain.Conversation, error) {
	id, ok := r.byKey[membersKey]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakeConversationRepo) GetByTeamID(_ context.Context, teamID string) (*domain.Conversation, error) {
	id, ok := r.byTeam[teamID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakeConversationRepo) ListForUser(_ context.Context, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, convo := range r.byID {
		if convo.HasMember(userID) {
			out = append(out, *convo)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) UpdateSummary(_ context.Context, id, lastMessage string, at time.Time) error {
	convo, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	convo.LastMessage = lastMessage
	convo.LastMessageAt = &at
	convo.UpdatedAt = at
	return nil
}

func newConversationService(repo *fakeConversationRepo) *ConversationService {
	directory := orgFixture()
	return NewConversationService(repo, NewPermissionEvaluator(directory), directory)
}

func TestGetOrCreateDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then returns the same conversation", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())

		first, err := svc.GetOrCreateDirect(ctx, "e1", "e2")
		require.NoError(t, err)
		assert.Equal(t, domain.ConversationTypeDirect, first.Type)
		assert.ElementsMatch(t, []string{"e1", "e2"}, first.MemberIDs)

		second, err := svc.GetOrCreateDirect(ctx, "e2", "e1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("lost creation race falls back to the winner", func(t *testing.T) {
		repo := newFakeConversationRepo()
		svc := newConversationService(repo)

		var winnerID string
		repo.onCreate = func() {
			winner := &domain.Conversation{
				Type:      domain.ConversationTypeDirect,
				MemberIDs: []string{"e2", "e1"},
			}
			require.NoError(t, repo.Create(context.Background(), winner))
			winnerID = winner.ID
		}

		got, err := svc.GetOrCreateDirect(ctx, "e1", "e2")
		require.NoError(t, err)
		assert.Equal(t, winnerID, got.ID)
	})

	t.Run("rejects self conversation", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())
		_, err := svc.GetOrCreateDirect(ctx, "e1", "e1")
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("rejects empty target", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())
		_, err := svc.GetOrCreateDirect(ctx, "e1", "")
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("denies disallowed pairs", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())
		_, err := svc.GetOrCreateDirect(ctx, "e1", "e3")
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("denies unknown target", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())
		_, err := svc.GetOrCreateDirect(ctx, "e1", "ghost")
		requireDomainCode(t, err, "FORBIDDEN")
	})
}

func TestGetOrCreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots leader plus roster", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())

		convo, err := svc.GetOrCreateTeam(ctx, "mgr1", "alpha")
		require.NoError(t, err)
		assert.Equal(t, domain.ConversationTypeTeam, convo.Type)
		require.NotNil(t, convo.TeamID)
		assert.Equal(t, "alpha", *convo.TeamID)
		assert.Equal(t, []string{"mgr1", "e1", "e2"}, convo.MemberIDs)
	})

	t.Run("member reuses the existing conversation", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())

		first, err := svc.GetOrCreateTeam(ctx, "mgr1", "alpha")
		require.NoError(t, err)
		second, err := svc.GetOrCreateTeam(ctx, "e1", "alpha")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("lost creation race falls back to the winner", func(t *testing.T) {
		repo := newFakeConversationRepo()
		svc := newConversationService(repo)

		var winnerID string
		repo.onCreate = func() {
			teamID := "alpha"
			winner := &domain.Conversation{
				Type:      domain.ConversationTypeTeam,
				TeamID:    &teamID,
				MemberIDs: []string{"mgr1", "e1", "e2"},
			}
			require.NoError(t, repo.Create(context.Background(), winner))
			winnerID = winner.ID
		}

		got, err := svc.GetOrCreateTeam(ctx, "e2", "alpha")
		require.NoError(t, err)
		assert.Equal(t, winnerID, got.ID)
	})

	t.Run("denies non-members", func(t *testing.T) {
		svc := newConversationService(newFakeConversationRepo())
		_, err := svc.GetOrCreateTeam(ctx, "e4", "alpha")
		requireDomainCode(t, err, "FORBIDDEN")
	})
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}
