package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
)

func TestSubscriberRoutesMessageSent(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	NewSubscriber(hub).Attach(dispatcher)

	recipient := &fakeConn{}
	sender := &fakeConn{}
	hub.Register("e2", recipient)
	hub.Register("e1", sender)

	msg := &domain.Message{ID: "m1", ConversationID: "c1", SenderID: "e1", Text: "hi"}
	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventMessageSent,
		Payload: events.MessageSentPayload{
			Message:        msg,
			ConversationID: "c1",
			Type:           domain.ConversationTypeDirect,
			RecipientIDs:   []string{"e2"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, recipient.eventsNamed(EventReceiveMessage), 1)
	assert.Empty(t, sender.eventsNamed(EventReceiveMessage))
}

func TestSubscriberRoutesStatusChanges(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	NewSubscriber(hub).Attach(dispatcher)

	member := &fakeConn{}
	hub.Register("e1", member)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventMessageStatusChanged,
		Payload: events.MessageStatusChangedPayload{
			ConversationID: "c1",
			MessageIDs:     []string{"m1"},
			Status:         domain.MessageStatusSeen,
			MemberIDs:      []string{"e1", "e2"},
		},
	})
	require.NoError(t, err)

	frames := member.eventsNamed(EventMessageStatus)
	require.Len(t, frames, 1)
	payload, ok := frames[0].Data.(events.MessageStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.MessageStatusSeen, payload.Status)
}
