package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// OpenDirectConversationRequest payload.
type OpenDirectConversationRequest struct {
	TargetUserID string `json:"target_user_id"`
}

// OpenTeamConversationRequest payload.
type OpenTeamConversationRequest struct {
	TeamID string `json:"team_id"`
}

// SendMessageRequest payload. File fields reference an already uploaded
// object; the upload itself happens outside this service.
type SendMessageRequest struct {
	ConversationID string       `json:"conversation_id"`
	Text           string       `json:"text"`
	File           *FileRequest `json:"file"`
}

// FileRequest is an attachment reference.
type FileRequest struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// MarkSeenRequest payload; exactly one of the ids must be set.
type MarkSeenRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

// ConversationResponse payload.
type ConversationResponse struct {
	ID            string                  `json:"id"`
	Type          domain.ConversationType `json:"type"`
	TeamID        *string                 `json:"team_id,omitempty"`
	MemberIDs     []string                `json:"member_ids"`
	LastMessage   string                  `json:"last_message"`
	LastMessageAt *time.Time              `json:"last_message_at"`
	CreatedAt     time.Time               `json:"created_at"`
}

// NewConversationResponse maps a domain conversation.
func NewConversationResponse(c *domain.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		Type:          c.Type,
		TeamID:        c.TeamID,
		MemberIDs:     c.MemberIDs,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

// MessageResponse payload.
type MessageResponse struct {
	ID             string               `json:"id"`
	ConversationID string               `json:"conversation_id"`
	SenderID       string               `json:"sender_id"`
	Text           string               `json:"text,omitempty"`
	File           *FileRequest         `json:"file,omitempty"`
	Status         domain.MessageStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	resp := MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
	if m.File != nil {
		resp.File = &FileRequest{
			URL:         m.File.URL,
			Name:        m.File.Name,
			ContentType: m.File.ContentType,
			SizeBytes:   m.File.SizeBytes,
		}
	}
	return resp
}

// AllowedCounterpartsResponse payload for the allowed-users endpoint.
type AllowedCounterpartsResponse struct {
	Me    UserResponse   `json:"me"`
	Users []UserResponse `json:"allowed_users"`
	Teams []TeamResponse `json:"allowed_teams"`
}
