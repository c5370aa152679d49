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

// TeamsHandler manages team endpoints.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// Create POST /api/teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.teams.Create(c.Context(), service.TeamCreateInput{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// List GET /api/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.teams.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponses(teams)})
}

// ListMine GET /api/teams/mine.
func (h *TeamsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	teams, err := h.teams.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teamResponses(teams)})
}

// Get GET /api/teams/:id.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	team, err := h.teams.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// AddMember POST /api/teams/:id/members.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	var req dto.TeamMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	if err := h.teams.AddMember(c.Context(), c.Params("id"), req.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveMember DELETE /api/teams/:id/members/:userId.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.teams.RemoveMember(c.Context(), c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func teamResponses(teams []domain.Team) []dto.TeamResponse {
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.NewTeamResponse(&teams[i]))
	}
	return items
}
