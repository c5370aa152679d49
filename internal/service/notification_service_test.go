package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
)

type fakeNotificationRepo struct {
	items []*domain.Notification
	seq   int
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.seq++
	n.ID = fmt.Sprintf("n-%d", r.seq)
	n.CreatedAt = time.Now()
	stored := *n
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.items {
		if n.UserID != userID || n.Deleted {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.Read && !n.Deleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.items {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) SoftDelete(_ context.Context, userID, id string) error {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.Deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newNotificationFixture() (*NotificationService, *fakeNotificationRepo, events.Dispatcher) {
	repo := &fakeNotificationRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(repo, nil, dispatcher, nil, zap.NewNop())
	svc.RegisterHandlers()
	return svc, repo, dispatcher
}

func TestChatMessageNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("dm message notifies the receiver", func(t *testing.T) {
		_, repo, dispatcher := newNotificationFixture()

		msg := &domain.Message{ID: "m1", ConversationID: "c1", SenderID: "e1", Text: "hello there"}
		err := dispatcher.Publish(ctx, events.Event{
			Type: events.EventMessageSent,
			Payload: events.MessageSentPayload{
				Message:        msg,
				ConversationID: "c1",
				Type:           domain.ConversationTypeDirect,
				RecipientIDs:   []string{"e2"},
			},
		})
		require.NoError(t, err)

		require.Len(t, repo.items, 1)
		got := repo.items[0]
		assert.Equal(t, "e2", got.UserID)
		assert.Equal(t, domain.NotificationTypeChatMessage, got.Type)
		assert.Equal(t, "hello there", got.Body)
		assert.Equal(t, "/chat/c1", got.Link)
		assert.False(t, got.Read)
	})

	t.Run("team messages do not notify", func(t *testing.T) {
		_, repo, dispatcher := newNotificationFixture()

		err := dispatcher.Publish(ctx, events.Event{
			Type: events.EventMessageSent,
			Payload: events.MessageSentPayload{
				Message:        &domain.Message{ID: "m1", Text: "hi"},
				ConversationID: "c2",
				Type:           domain.ConversationTypeTeam,
				RecipientIDs:   []string{"e1", "e2"},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, repo.items)
	})

	t.Run("long text is truncated in the preview", func(t *testing.T) {
		_, repo, dispatcher := newNotificationFixture()

		long := ""
		for i := 0; i < 40; i++ {
			long += "abcde"
		}
		err := dispatcher.Publish(ctx, events.Event{
			Type: events.EventMessageSent,
			Payload: events.MessageSentPayload{
				Message:        &domain.Message{ID: "m1", Text: long},
				ConversationID: "c1",
				Type:           domain.ConversationTypeDirect,
				RecipientIDs:   []string{"e2"},
			},
		})
		require.NoError(t, err)
		require.Len(t, repo.items, 1)
		assert.Len(t, repo.items[0].Body, 120)
	})
}

func TestLeaveAndTaskNotifications(t *testing.T) {
	ctx := context.Background()
	_, repo, dispatcher := newNotificationFixture()

	err := dispatcher.Publish(ctx, events.Event{
		Type:    events.EventLeaveDecided,
		Payload: events.LeaveDecidedPayload{LeaveID: "l1", UserID: "e1", Status: domain.LeaveStatusApproved},
	})
	require.NoError(t, err)

	err = dispatcher.Publish(ctx, events.Event{
		Type:    events.EventTaskAssigned,
		Payload: events.TaskAssignedPayload{TaskID: "t1", AssigneeID: "e2", Title: "ship it"},
	})
	require.NoError(t, err)

	require.Len(t, repo.items, 2)
	assert.Equal(t, domain.NotificationTypeLeaveStatus, repo.items[0].Type)
	assert.Equal(t, "e1", repo.items[0].UserID)
	assert.Equal(t, domain.NotificationTypeTask, repo.items[1].Type)
	assert.Equal(t, "e2", repo.items[1].UserID)
}

func TestNotificationInbox(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newNotificationFixture()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Notification{
			UserID: "e1",
			Type:   domain.NotificationTypeBroadcast,
			Title:  "hello",
		}))
	}

	count, err := svc.UnreadCount(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, svc.MarkRead(ctx, "e1", repo.items[0].ID))
	count, err = svc.UnreadCount(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkAllRead(ctx, "e1"))
	count, err = svc.UnreadCount(ctx, "e1")
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err := svc.ListMine(ctx, "e1", true, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, svc.Delete(ctx, "e1", repo.items[1].ID))
	all, err := svc.ListMine(ctx, "e1", false, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = svc.MarkRead(ctx, "e1", "missing")
	requireDomainCode(t, err, "NOT_FOUND")
}
