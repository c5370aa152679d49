package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wltlabs/staffhub/internal/api/dto"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/service"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// AttendanceHandler manages punch in/out and attendance reports.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// PunchIn POST /api/attendance/punch-in.
func (h *AttendanceHandler) PunchIn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	record, err := h.attendance.PunchIn(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAttendanceResponse(record)})
}

// PunchOut POST /api/attendance/punch-out.
func (h *AttendanceHandler) PunchOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	record, err := h.attendance.PunchOut(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAttendanceResponse(record)})
}

// History GET /api/attendance/history.
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}
	records, err := h.attendance.History(c.Context(), principal.User.ID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records)})
}

// TeamReport GET /api/attendance/team. Managers see their led teams.
func (h *AttendanceHandler) TeamReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}
	records, err := h.attendance.TeamReport(c.Context(), principal.User.ID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records)})
}

// parseRange reads from/to query params, defaulting to the past 30 days.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("from must be YYYY-MM-DD", nil)
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("to must be YYYY-MM-DD", nil)
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("to must not precede from", nil)
	}
	return from, to, nil
}

func attendanceResponses(records []domain.Attendance) []dto.AttendanceResponse {
	items := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewAttendanceResponse(&records[i]))
	}
	return items
}
