package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// MessageService is the message pipeline: it persists messages, advances
// their delivery status and keeps the conversation summary current.
//
// Persistence always happens before any real-time emission; events are best
// effort and missed emissions are recoverable via the list endpoints.
type MessageService struct {
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	permissions   *PermissionEvaluator
	dispatcher    events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(messages repository.MessageRepository, conversations repository.ConversationRepository, permissions *PermissionEvaluator, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		permissions:   permissions,
		dispatcher:    dispatcher,
	}
}

// SendInput describes an outgoing message.
type SendInput struct {
	ConversationID string
	Text           string
	File           *domain.FileRef
}

// Send persists a message with status sent and updates the conversation
// summary. Membership is required, and the conversation-level permission is
// re-evaluated at send time: relationships can change after a conversation
// was created, and the send-time check is authoritative.
func (s *MessageService) Send(ctx context.Context, senderID string, input SendInput) (*domain.Message, error) {
	text := strings.TrimSpace(input.Text)
	if input.ConversationID == "" {
		return nil, apperrors.NewValidationError("conversation id required", nil)
	}
	if text == "" && input.File == nil {
		return nil, apperrors.NewValidationError("message requires text or an attachment", nil)
	}

	convo, err := s.getConversation(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !convo.HasMember(senderID) {
		return nil, apperrors.NewForbidden("not a member of this conversation")
	}

	if err := s.recheckPermission(ctx, senderID, convo); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: convo.ID,
		SenderID:       senderID,
		Text:           text,
		File:           input.File,
		Status:         domain.MessageStatusSent,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	// separate atomic update; a stale summary is tolerated decoration
	summary := text
	if summary == "" && input.File != nil {
		summary = input.File.Name
	}
	if err := s.conversations.UpdateSummary(ctx, convo.ID, summary, msg.CreatedAt); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, senderID, events.Event{
		Type: events.EventMessageSent,
		Payload: events.MessageSentPayload{
			Message:        msg,
			ConversationID: convo.ID,
			Type:           convo.Type,
			RecipientIDs:   recipientsOf(convo, senderID),
		},
	})
	return msg, nil
}

// MarkDelivered advances a single message to delivered on behalf of a
// recipient. Already delivered or seen messages are left untouched.
func (s *MessageService) MarkDelivered(ctx context.Context, recipientID, messageID string) error {
	msg, convo, err := s.getMessageWithConversation(ctx, messageID)
	if err != nil {
		return err
	}
	if !convo.HasMember(recipientID) {
		return apperrors.NewForbidden("not a member of this conversation")
	}
	if msg.SenderID == recipientID {
		// a sender's own message has no recipient-side status to advance
		return nil
	}

	changed, err := s.messages.AdvanceStatus(ctx, messageID, domain.MessageStatusDelivered)
	if err != nil {
		return apperrors.MapError(err)
	}
	if changed {
		s.publishStatus(ctx, recipientID, convo, []string{messageID}, domain.MessageStatusDelivered)
	}
	return nil
}

// MarkSeen advances a single message to seen.
func (s *MessageService) MarkSeen(ctx context.Context, recipientID, messageID string) error {
	msg, convo, err := s.getMessageWithConversation(ctx, messageID)
	if err != nil {
		return err
	}
	if !convo.HasMember(recipientID) {
		return apperrors.NewForbidden("not a member of this conversation")
	}
	if msg.SenderID == recipientID {
		return nil
	}

	changed, err := s.messages.AdvanceStatus(ctx, messageID, domain.MessageStatusSeen)
	if err != nil {
		return apperrors.MapError(err)
	}
	if changed {
		s.publishStatus(ctx, recipientID, convo, []string{messageID}, domain.MessageStatusSeen)
	}
	return nil
}

// MarkConversationSeen advances all of the recipient's unseen incoming
// messages in the conversation to seen.
func (s *MessageService) MarkConversationSeen(ctx context.Context, recipientID, conversationID string) error {
	convo, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !convo.HasMember(recipientID) {
		return apperrors.NewForbidden("not a member of this conversation")
	}

	ids, err := s.messages.AdvanceIncoming(ctx, conversationID, recipientID, domain.MessageStatusSeen)
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(ids) > 0 {
		s.publishStatus(ctx, recipientID, convo, ids, domain.MessageStatusSeen)
	}
	return nil
}

// ListMessages returns the conversation's messages in creation order. As a
// side effect of the fetch, incoming messages the requester has not seen yet
// are advanced to delivered (read-on-fetch).
func (s *MessageService) ListMessages(ctx context.Context, requesterID, conversationID string) ([]domain.Message, error) {
	convo, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !convo.HasMember(requesterID) {
		return nil, apperrors.NewForbidden("not a member of this conversation")
	}

	ids, err := s.messages.AdvanceIncoming(ctx, conversationID, requesterID, domain.MessageStatusDelivered)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(ids) > 0 {
		s.publishStatus(ctx, requesterID, convo, ids, domain.MessageStatusDelivered)
	}

	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

func (s *MessageService) getConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	convo, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("conversation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return convo, nil
}

func (s *MessageService) getMessageWithConversation(ctx context.Context, messageID string) (*domain.Message, *domain.Conversation, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("message", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	convo, err := s.getConversation(ctx, msg.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	return msg, convo, nil
}

func (s *MessageService) recheckPermission(ctx context.Context, senderID string, convo *domain.Conversation) error {
	switch convo.Type {
	case domain.ConversationTypeDirect:
		other, ok := convo.OtherMember(senderID)
		if !ok {
			return apperrors.NewForbidden("you are not allowed to chat in this conversation")
		}
		allowed, err := s.permissions.CanConverse(ctx, senderID, other)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !allowed {
			return apperrors.NewForbidden("you are not allowed to chat with this user")
		}
	case domain.ConversationTypeTeam:
		if convo.TeamID == nil {
			return apperrors.NewForbidden("you are not allowed to chat in this conversation")
		}
		allowed, err := s.permissions.CanJoinTeamConversation(ctx, senderID, *convo.TeamID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !allowed {
			return apperrors.NewForbidden("you are not allowed to chat in this team")
		}
	}
	return nil
}

func (s *MessageService) publishStatus(ctx context.Context, actorID string, convo *domain.Conversation, messageIDs []string, status domain.MessageStatus) {
	s.publish(ctx, actorID, events.Event{
		Type: events.EventMessageStatusChanged,
		Payload: events.MessageStatusChangedPayload{
			ConversationID: convo.ID,
			MessageIDs:     messageIDs,
			Status:         status,
			MemberIDs:      convo.MemberIDs,
		},
	})
}

func (s *MessageService) publish(ctx context.Context, actorID string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ActorID = actorID
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func recipientsOf(convo *domain.Conversation, senderID string) []string {
	out := make([]string, 0, len(convo.MemberIDs))
	for _, id := range convo.MemberIDs {
		if id != senderID {
			out = append(out, id)
		}
	}
	return out
}
