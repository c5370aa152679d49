package events

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageSent          EventType = "message_sent"
	EventMessageStatusChanged EventType = "message_status_changed"
	EventNotificationCreated  EventType = "notification_created"
	EventLeaveDecided         EventType = "leave_decided"
	EventTaskAssigned         EventType = "task_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MessageSentPayload carries a newly persisted message plus routing info.
type MessageSentPayload struct {
	Message        *domain.Message         `json:"message"`
	ConversationID string                  `json:"conversation_id"`
	Type           domain.ConversationType `json:"conversation_type"`
	RecipientIDs   []string                `json:"recipient_ids"`
}

// MessageStatusChangedPayload notifies members about a status transition.
type MessageStatusChangedPayload struct {
	ConversationID string               `json:"conversation_id"`
	MessageIDs     []string             `json:"message_ids"`
	Status         domain.MessageStatus `json:"status"`
	MemberIDs      []string             `json:"member_ids"`
}

// NotificationCreatedPayload routes a notification to its receiver.
type NotificationCreatedPayload struct {
	Notification *domain.Notification `json:"notification"`
}

// LeaveDecidedPayload notifies the requester about an approval decision.
type LeaveDecidedPayload struct {
	LeaveID string             `json:"leave_id"`
	UserID  string             `json:"user_id"`
	Status  domain.LeaveStatus `json:"status"`
}

// TaskAssignedPayload notifies an assignee about new work.
type TaskAssignedPayload struct {
	TaskID     string `json:"task_id"`
	AssigneeID string `json:"assignee_id"`
	Title      string `json:"title"`
}
