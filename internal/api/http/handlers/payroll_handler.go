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

// PayrollHandler manages payroll records. Write access is restricted to HR
// and admins at the routing layer.
type PayrollHandler struct {
	payroll *service.PayrollService
}

// NewPayrollHandler constructs handler.
func NewPayrollHandler(payroll *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: payroll}
}

// Upsert PUT /api/payroll.
func (h *PayrollHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertPayrollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.payroll.Upsert(c.Context(), service.PayrollInput{
		UserID:     req.UserID,
		Month:      req.Month,
		BaseSalary: req.BaseSalary,
		Allowances: req.Allowances,
		Deductions: req.Deductions,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPayrollResponse(record)})
}

// ListMine GET /api/payroll.
func (h *PayrollHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	records, err := h.payroll.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payrollResponses(records)})
}

// ListForMonth GET /api/payroll/month/:month.
func (h *PayrollHandler) ListForMonth(c *fiber.Ctx) error {
	records, err := h.payroll.ListForMonth(c.Context(), c.Params("month"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payrollResponses(records)})
}

// MarkPaid POST /api/payroll/:id/paid.
func (h *PayrollHandler) MarkPaid(c *fiber.Ctx) error {
	record, err := h.payroll.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPayrollResponse(record)})
}

func payrollResponses(records []domain.Payroll) []dto.PayrollResponse {
	items := make([]dto.PayrollResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewPayrollResponse(&records[i]))
	}
	return items
}
