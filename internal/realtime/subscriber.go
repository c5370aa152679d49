package realtime

import (
	"context"

	"github.com/wltlabs/staffhub/internal/events"
)

// Client event names pushed over the websocket.
const (
	EventReceiveMessage      = "chat:receiveMessage"
	EventMessageStatus       = "chat:messageStatus"
	EventNotification        = "notification:new"
	EventOnlineUsersSnapshot = "online_users"
)

// Subscriber bridges domain events onto the hub. Services publish after
// persisting; the subscriber only routes.
type Subscriber struct {
	hub *Hub
}

// NewSubscriber constructs the bridge.
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Attach registers fan-out handlers on the dispatcher.
func (s *Subscriber) Attach(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageSent, s.handleMessageSent)
	dispatcher.Subscribe(events.EventMessageStatusChanged, s.handleStatusChanged)
	dispatcher.Subscribe(events.EventNotificationCreated, s.handleNotificationCreated)
}

// handleMessageSent emits the new message to every member except the sender.
func (s *Subscriber) handleMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageSentPayload)
	if !ok {
		return nil
	}
	s.hub.EmitTo(payload.RecipientIDs, EventReceiveMessage, payload.Message)
	return nil
}

// handleStatusChanged emits status transitions to all members so every
// connected client reflects the new state.
func (s *Subscriber) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageStatusChangedPayload)
	if !ok {
		return nil
	}
	s.hub.EmitTo(payload.MemberIDs, EventMessageStatus, payload)
	return nil
}

func (s *Subscriber) handleNotificationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationCreatedPayload)
	if !ok || payload.Notification == nil {
		return nil
	}
	s.hub.EmitTo([]string{payload.Notification.UserID}, EventNotification, payload.Notification)
	return nil
}
