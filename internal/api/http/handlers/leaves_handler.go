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

// LeavesHandler manages leave applications and approvals.
type LeavesHandler struct {
	leaves *service.LeaveService
}

// NewLeavesHandler constructs handler.
func NewLeavesHandler(leaves *service.LeaveService) *LeavesHandler {
	return &LeavesHandler{leaves: leaves}
}

// Apply POST /api/leaves.
func (h *LeavesHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.ApplyLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	leave, err := h.leaves.Apply(c.Context(), principal.User.ID, service.LeaveApplyInput{
		Type:   req.Type,
		From:   req.From,
		To:     req.To,
		Reason: req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeaveResponse(leave)})
}

// ListMine GET /api/leaves.
func (h *LeavesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	leaves, err := h.leaves.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaveResponses(leaves)})
}

// ListPending GET /api/leaves/pending. HR and admins see everything pending,
// managers only their led teams' members.
func (h *LeavesHandler) ListPending(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	leaves, err := h.leaves.ListPendingFor(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaveResponses(leaves)})
}

// Decide POST /api/leaves/:id/decision.
func (h *LeavesHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.DecideLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	leave, err := h.leaves.Decide(c.Context(), principal.User.ID, c.Params("id"), req.Approve)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeaveResponse(leave)})
}

func leaveResponses(leaves []domain.Leave) []dto.LeaveResponse {
	items := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		items = append(items, dto.NewLeaveResponse(&leaves[i]))
	}
	return items
}
