package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wltlabs/staffhub/internal/api/dto"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/service"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// DocumentsHandler manages onboarding paperwork endpoints.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// List GET /api/documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	records, err := h.documents.List(c.Context(), domain.VerificationStatus(c.Query("status")))
	if err != nil {
		return err
	}
	items := make([]dto.DocumentsResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewDocumentsResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Missing GET /api/documents/missing.
func (h *DocumentsHandler) Missing(c *fiber.Ctx) error {
	entries, err := h.documents.MissingReport(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DocumentReportEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewDocumentReportEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items, "total": len(items)})
}

// Upsert POST /api/documents/:employeeId.
func (h *DocumentsHandler) Upsert(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.UpsertDocumentsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.documents.Upsert(c.Context(), principal.User, c.Params("employeeId"), service.DocumentsInput{
		PANNumber:        req.PANNumber,
		AadhaarNumber:    req.AadhaarNumber,
		BankName:         req.BankName,
		IFSCCode:         req.IFSCCode,
		AccountNumber:    req.AccountNumber,
		PresentAddress:   req.PresentAddress,
		PermanentAddress: req.PermanentAddress,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		Documents:        req.Documents.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentsResponse(record)})
}

// Get GET /api/documents/:employeeId.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	record, err := h.documents.Get(c.Context(), principal.User, c.Params("employeeId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentsResponse(record)})
}

// Verify PATCH /api/documents/:employeeId/verify.
func (h *DocumentsHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.VerifyRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.documents.Verify(c.Context(), principal.User.ID, c.Params("employeeId"), req.Status, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentsResponse(record)})
}
