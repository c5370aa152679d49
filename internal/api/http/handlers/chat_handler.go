package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wltlabs/staffhub/internal/api/dto"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/service"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// ChatHandler exposes the chat core over HTTP.
type ChatHandler struct {
	permissions   *service.PermissionEvaluator
	conversations *service.ConversationService
	messages      *service.MessageService
}

// NewChatHandler constructs handler.
func NewChatHandler(permissions *service.PermissionEvaluator, conversations *service.ConversationService, messages *service.MessageService) *ChatHandler {
	return &ChatHandler{
		permissions:   permissions,
		conversations: conversations,
		messages:      messages,
	}
}

// AllowedUsers GET /api/chat/allowed-users.
func (h *ChatHandler) AllowedUsers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	counterparts, err := h.permissions.AllowedCounterparts(c.Context(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if counterparts == nil {
		return apperrors.NewNotFound("user", nil)
	}

	resp := dto.AllowedCounterpartsResponse{
		Me:    dto.NewUserResponse(counterparts.Me),
		Users: make([]dto.UserResponse, 0, len(counterparts.Users)),
		Teams: make([]dto.TeamResponse, 0, len(counterparts.Teams)),
	}
	for i := range counterparts.Users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&counterparts.Users[i]))
	}
	for i := range counterparts.Teams {
		resp.Teams = append(resp.Teams, dto.NewTeamResponse(&counterparts.Teams[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// OpenDirect POST /api/chat/conversations/direct.
func (h *ChatHandler) OpenDirect(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.OpenDirectConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	convo, err := h.conversations.GetOrCreateDirect(c.Context(), principal.User.ID, req.TargetUserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConversationResponse(convo)})
}

// OpenTeam POST /api/chat/conversations/team.
func (h *ChatHandler) OpenTeam(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.OpenTeamConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	convo, err := h.conversations.GetOrCreateTeam(c.Context(), principal.User.ID, req.TeamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConversationResponse(convo)})
}

// ListConversations GET /api/chat/conversations.
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	conversations, err := h.conversations.ListForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		items = append(items, dto.NewConversationResponse(&conversations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SendMessage POST /api/chat/messages.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.SendInput{
		ConversationID: req.ConversationID,
		Text:           req.Text,
	}
	if req.File != nil {
		if req.File.URL == "" {
			return apperrors.NewValidationError("file url required", nil)
		}
		input.File = &domain.FileRef{
			URL:         req.File.URL,
			Name:        req.File.Name,
			ContentType: req.File.ContentType,
			SizeBytes:   req.File.SizeBytes,
		}
	}
	msg, err := h.messages.Send(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// ListMessages GET /api/chat/conversations/:id/messages.
//
// Listing advances unseen incoming messages to delivered.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	msgs, err := h.messages.ListMessages(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkDelivered POST /api/chat/messages/:id/delivered.
func (h *ChatHandler) MarkDelivered(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	if err := h.messages.MarkDelivered(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkSeen POST /api/chat/seen. Accepts a conversation id (marks all its
// incoming messages seen) or a single message id.
func (h *ChatHandler) MarkSeen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.MarkSeenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	switch {
	case req.ConversationID != "":
		if err := h.messages.MarkConversationSeen(c.Context(), principal.User.ID, req.ConversationID); err != nil {
			return err
		}
	case req.MessageID != "":
		if err := h.messages.MarkSeen(c.Context(), principal.User.ID, req.MessageID); err != nil {
			return err
		}
	default:
		return apperrors.NewValidationError("conversation_id or message_id required", nil)
	}
	return c.SendStatus(http.StatusNoContent)
}
