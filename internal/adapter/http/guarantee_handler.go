package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	ucGuarantee "garantia-backend/internal/usecase/guarantee"
)

type GuaranteeHandler struct{ uc *ucGuarantee.Usecase }

func NewGuaranteeHandler(uc *ucGuarantee.Usecase) *GuaranteeHandler {
	return &GuaranteeHandler{uc: uc}
}

type createGuaranteeReq struct {
	TenantName          string  `json:"tenant_name"           validate:"required"`
	TenantNationalID    string  `json:"tenant_national_id"    validate:"required"`
	TenantMonthlyIncome float64 `json:"tenant_monthly_income" validate:"gte=0,dec2"`
	TenantContact       string  `json:"tenant_contact"`
	TenantAddress       string  `json:"tenant_address"`

	PropertyType        string  `json:"property_type"     validate:"required"`
	PropertyAddress     string  `json:"property_address"  validate:"required"`
	PropertyArea        string  `json:"property_area"`
	PropertyDescription string  `json:"property_description"`
	MonthlyRent         float64 `json:"monthly_rent"      validate:"required,gt=0,dec2"`
	LeaseTermMonths     int     `json:"lease_term_months" validate:"required,gt=0"`
}

func (h *GuaranteeHandler) CreateGuarantee(c echo.Context) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var req createGuaranteeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), actor, ucGuarantee.CreateInput{
		TenantName:          req.TenantName,
		TenantNationalID:    req.TenantNationalID,
		TenantMonthlyIncome: decimal.NewFromFloat(req.TenantMonthlyIncome),
		TenantContact:       req.TenantContact,
		TenantAddress:       req.TenantAddress,
		PropertyType:        req.PropertyType,
		PropertyAddress:     req.PropertyAddress,
		PropertyArea:        req.PropertyArea,
		PropertyDescription: req.PropertyDescription,
		MonthlyRent:         decimal.NewFromFloat(req.MonthlyRent),
		LeaseTermMonths:     req.LeaseTermMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *GuaranteeHandler) GetGuarantee(c echo.Context) error {
	guaranteeID := c.Param("guarantee_id")
	if guaranteeID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing guarantee_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), guaranteeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *GuaranteeHandler) GetHistory(c echo.Context) error {
	guaranteeID := c.Param("guarantee_id")
	if guaranteeID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing guarantee_id path param"})
	}
	entries, err := h.uc.History(c.Request().Context(), guaranteeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
