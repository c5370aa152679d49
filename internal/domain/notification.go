package domain

import "time"

// NotificationType categorizes notifications for client rendering.
type NotificationType string

const (
	NotificationTypeChatMessage NotificationType = "chat_message"
	NotificationTypeLeaveStatus NotificationType = "leave_status"
	NotificationTypeTask        NotificationType = "task"
	NotificationTypeBroadcast   NotificationType = "broadcast"
)

// Notification is delivered to exactly one user. It lives independently of
// the event that produced it; deleting a message never deletes its
// notification.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Body      string
	Link      string
	Read      bool
	Deleted   bool
	CreatedAt time.Time
}
