package domain

import "time"

// MessageStatus tracks recipient-side delivery state. Transitions only move
// forward: sent -> delivered -> seen.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusSeen      MessageStatus = "seen"
)

var messageStatusRank = map[MessageStatus]int{
	MessageStatusSent:      0,
	MessageStatusDelivered: 1,
	MessageStatusSeen:      2,
}

// Advances reports whether moving from current to next is a forward
// transition. Equal or backward moves return false.
func (s MessageStatus) Advances(next MessageStatus) bool {
	return messageStatusRank[next] > messageStatusRank[s]
}

// FileRef holds metadata about an attachment stored by the external upload
// service. The chat core never touches file bytes.
type FileRef struct {
	URL         string
	Name        string
	ContentType string
	SizeBytes   int64
}

// Message is a single chat entry. Messages are append-only; the only
// permitted mutation is a forward status transition.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	File           *FileRef
	Status         MessageStatus
	CreatedAt      time.Time
}

// HasContent reports whether the message carries text or an attachment.
func (m *Message) HasContent() bool {
	return m.Text != "" || m.File != nil
}
