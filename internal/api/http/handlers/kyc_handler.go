package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wltlabs/staffhub/internal/api/dto"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/service"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// KYCHandler manages employee KYC endpoints.
type KYCHandler struct {
	kyc *service.KYCService
}

// NewKYCHandler constructs handler.
func NewKYCHandler(kyc *service.KYCService) *KYCHandler {
	return &KYCHandler{kyc: kyc}
}

// List GET /api/kyc.
func (h *KYCHandler) List(c *fiber.Ctx) error {
	records, err := h.kyc.List(c.Context(), domain.VerificationStatus(c.Query("status")))
	if err != nil {
		return err
	}
	items := make([]dto.KYCResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewKYCResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Upsert POST /api/kyc/:employeeId.
func (h *KYCHandler) Upsert(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.UpsertKYCRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.kyc.Upsert(c.Context(), principal.User, c.Params("employeeId"), service.KYCInput{
		AadhaarNumber:    req.AadhaarNumber,
		PANNumber:        req.PANNumber,
		DOB:              req.DOB,
		Gender:           req.Gender,
		PresentAddress:   req.PresentAddress,
		PermanentAddress: req.PermanentAddress,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		BankName:         req.BankName,
		AccountNumber:    req.AccountNumber,
		IFSCCode:         req.IFSCCode,
		UPIID:            req.UPIID,
		Documents:        req.Documents.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewKYCResponse(record)})
}

// Get GET /api/kyc/:employeeId.
func (h *KYCHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	record, err := h.kyc.Get(c.Context(), principal.User, c.Params("employeeId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewKYCResponse(record)})
}

// Verify PATCH /api/kyc/:employeeId/verify.
func (h *KYCHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.VerifyRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.kyc.Verify(c.Context(), principal.User.ID, c.Params("employeeId"), req.Status, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewKYCResponse(record)})
}
