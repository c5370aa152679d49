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

// fakeMessageRepo reproduces the forward-only status guard the SQL enforces.
type fakeMessageRepo struct {
	messages []*domain.Message
	seq      int
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	msg.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) AdvanceStatus(_ context.Context, id string, status domain.MessageStatus) (bool, error) {
	for _, m := range r.messages {
		if m.ID == id {
			if !m.Status.Advances(status) {
				return false, nil
			}
			m.Status = status
			return true, nil
		}
	}
	return false, pgx.ErrNoRows
}

func (r *fakeMessageRepo) AdvanceIncoming(_ context.Context, conversationID, excludeSenderID string, status domain.MessageStatus) ([]string, error) {
	var changed []string
	for _, m := range r.messages {
		if m.ConversationID != conversationID || m.SenderID == excludeSenderID {
			continue
		}
		if m.Status.Advances(status) {
			m.Status = status
			changed = append(changed, m.ID)
		}
	}
	return changed, nil
}

type chatFixture struct {
	svc      *MessageService
	messages *fakeMessageRepo
	convos   *fakeConversationRepo
	events   *[]events.Event
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	directory := orgFixture()
	permissions := NewPermissionEvaluator(directory)
	convos := newFakeConversationRepo()
	messages := &fakeMessageRepo{}

	dispatcher := events.NewInMemoryDispatcher()
	captured := &[]events.Event{}
	record := func(_ context.Context, event events.Event) error {
		*captured = append(*captured, event)
		return nil
	}
	dispatcher.Subscribe(events.EventMessageSent, record)
	dispatcher.Subscribe(events.EventMessageStatusChanged, record)

	return &chatFixture{
		svc:      NewMessageService(messages, convos, permissions, dispatcher),
		messages: messages,
		convos:   convos,
		events:   captured,
	}
}

func (f *chatFixture) seedDirect(t *testing.T, a, b string) *domain.Conversation {
	t.Helper()
	convo := &domain.Conversation{
		Type:      domain.ConversationTypeDirect,
		MemberIDs: []string{a, b},
	}
	require.NoError(t, f.convos.Create(context.Background(), convo))
	return convo
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with status sent and notifies recipients", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")

		msg, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "  hello  "})
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSent, msg.Status)
		assert.Equal(t, "hello", msg.Text)

		stored, err := f.convos.GetByID(ctx, convo.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", stored.LastMessage)
		require.NotNil(t, stored.LastMessageAt)

		require.Len(t, *f.events, 1)
		payload, ok := (*f.events)[0].Payload.(events.MessageSentPayload)
		require.True(t, ok)
		assert.Equal(t, []string{"e2"}, payload.RecipientIDs)
	})

	t.Run("file-only message uses the file name as summary", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")

		msg, err := f.svc.Send(ctx, "e1", SendInput{
			ConversationID: convo.ID,
			File:           &domain.FileRef{URL: "https://files/x", Name: "report.pdf"},
		})
		require.NoError(t, err)
		require.NotNil(t, msg.File)

		stored, err := f.convos.GetByID(ctx, convo.ID)
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", stored.LastMessage)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")

		_, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "   "})
		requireDomainCode(t, err, "VALIDATION_FAILED")
		assert.Empty(t, *f.events)
	})

	t.Run("rejects non-members", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")

		_, err := f.svc.Send(ctx, "e3", SendInput{ConversationID: convo.ID, Text: "hi"})
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("rechecks permission at send time", func(t *testing.T) {
		f := newChatFixture(t)
		// conversation predates a reassignment; e1 and e3 are no longer
		// teammates so the send must be refused even though e1 is a member
		convo := f.seedDirect(t, "e1", "e3")

		_, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "hi"})
		requireDomainCode(t, err, "FORBIDDEN")
		assert.Empty(t, *f.events)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		f := newChatFixture(t)
		_, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: "nope", Text: "hi"})
		requireDomainCode(t, err, "NOT_FOUND")
	})
}

func TestMessageStatusLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("sent to delivered to seen", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")
		msg, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "hi"})
		require.NoError(t, err)

		require.NoError(t, f.svc.MarkDelivered(ctx, "e2", msg.ID))
		stored, err := f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusDelivered, stored.Status)

		require.NoError(t, f.svc.MarkSeen(ctx, "e2", msg.ID))
		stored, err = f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSeen, stored.Status)
	})

	t.Run("status never regresses", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")
		msg, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "hi"})
		require.NoError(t, err)

		require.NoError(t, f.svc.MarkSeen(ctx, "e2", msg.ID))
		eventsBefore := len(*f.events)

		// a late delivered receipt must not move seen backwards
		require.NoError(t, f.svc.MarkDelivered(ctx, "e2", msg.ID))
		stored, err := f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSeen, stored.Status)
		assert.Len(t, *f.events, eventsBefore)
	})

	t.Run("sender receipts are ignored", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")
		msg, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "hi"})
		require.NoError(t, err)

		require.NoError(t, f.svc.MarkDelivered(ctx, "e1", msg.ID))
		stored, err := f.messages.GetByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSent, stored.Status)
	})

	t.Run("non-member receipts are refused", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")
		msg, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "hi"})
		require.NoError(t, err)

		err = f.svc.MarkSeen(ctx, "e3", msg.ID)
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("mark conversation seen sweeps only incoming", func(t *testing.T) {
		f := newChatFixture(t)
		convo := f.seedDirect(t, "e1", "e2")
		incoming, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "one"})
		require.NoError(t, err)
		outgoing, err := f.svc.Send(ctx, "e2", SendInput{ConversationID: convo.ID, Text: "two"})
		require.NoError(t, err)

		require.NoError(t, f.svc.MarkConversationSeen(ctx, "e2", convo.ID))

		stored, err := f.messages.GetByID(ctx, incoming.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSeen, stored.Status)

		stored, err = f.messages.GetByID(ctx, outgoing.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusSent, stored.Status)
	})
}

func TestListMessagesAdvancesIncoming(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	convo := f.seedDirect(t, "e1", "e2")

	first, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "one"})
	require.NoError(t, err)
	second, err := f.svc.Send(ctx, "e1", SendInput{ConversationID: convo.ID, Text: "two"})
	require.NoError(t, err)

	msgs, err := f.svc.ListMessages(ctx, "e2", convo.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
	for _, m := range msgs {
		assert.Equal(t, domain.MessageStatusDelivered, m.Status)
	}

	// the status-changed event carried both message ids
	var statusEvents []events.MessageStatusChangedPayload
	for _, ev := range *f.events {
		if payload, ok := ev.Payload.(events.MessageStatusChangedPayload); ok {
			statusEvents = append(statusEvents, payload)
		}
	}
	require.Len(t, statusEvents, 1)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, statusEvents[0].MessageIDs)
	assert.Equal(t, domain.MessageStatusDelivered, statusEvents[0].Status)

	// the sender's own listing changes nothing further
	eventsBefore := len(*f.events)
	_, err = f.svc.ListMessages(ctx, "e1", convo.ID)
	require.NoError(t, err)
	assert.Len(t, *f.events, eventsBefore)
}
