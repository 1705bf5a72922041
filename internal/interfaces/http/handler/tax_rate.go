package handler

import (
	"context"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	taxapp "github.com/openbooks/backend/internal/application/tax"
)

// TaxRateHandler handles tax rate API endpoints
type TaxRateHandler struct {
	BaseHandler
	taxRateService *taxapp.TaxRateService
}

// NewTaxRateHandler creates a new TaxRateHandler
func NewTaxRateHandler(taxRateService *taxapp.TaxRateService) *TaxRateHandler {
	return &TaxRateHandler{
		taxRateService: taxRateService,
	}
}

// Create godoc
// @Summary      Create tax rate
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        request body taxapp.CreateTaxRateRequest true "Tax rate data"
// @Success      201 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates [post]
func (h *TaxRateHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req taxapp.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.taxRateService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rate)
}

// GetByID godoc
// @Summary      Get tax rate by ID
// @Tags         tax
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      200 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates/{id} [get]
func (h *TaxRateHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	rate, err := h.taxRateService.GetByID(c.Request.Context(), tenantID, rateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// List godoc
// @Summary      List tax rates
// @Tags         tax
// @Produce      json
// @Param        status query string false "Status" Enums(ACTIVE, INACTIVE)
// @Param        effective_on query string false "Only rates effective on this date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]taxapp.TaxRateResponse}
// @Security     BearerAuth
// @Router       /tax/rates [get]
func (h *TaxRateHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter taxapp.TaxRateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rates, total, err := h.taxRateService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, rates, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update tax rate
// @Description  Update a tax rate's name or percentage. Changes never rewrite tax already captured on posted documents.
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Param        request body taxapp.UpdateTaxRateRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates/{id} [put]
func (h *TaxRateHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	var req taxapp.UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.taxRateService.Update(c.Request.Context(), tenantID, rateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// End godoc
// @Summary      End tax rate validity
// @Description  Set the date after which the rate no longer applies to new documents
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Param        request body taxapp.EndTaxRateRequest true "End date"
// @Success      200 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates/{id}/end [post]
func (h *TaxRateHandler) End(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	var req taxapp.EndTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.taxRateService.End(c.Request.Context(), tenantID, rateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// Activate godoc
// @Summary      Activate tax rate
// @Tags         tax
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      200 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Security     BearerAuth
// @Router       /tax/rates/{id}/activate [post]
func (h *TaxRateHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.taxRateService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate tax rate
// @Tags         tax
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      200 {object} dto.Response{data=taxapp.TaxRateResponse}
// @Security     BearerAuth
// @Router       /tax/rates/{id}/deactivate [post]
func (h *TaxRateHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.taxRateService.Deactivate)
}

// Preview godoc
// @Summary      Preview tax calculation
// @Description  Compute the tax amount a rate would produce for a given base amount without creating any document
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Param        request body taxapp.PreviewTaxRequest true "Base amount and mode"
// @Success      200 {object} dto.Response{data=taxapp.TaxPreviewResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates/{id}/preview [post]
func (h *TaxRateHandler) Preview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	var req taxapp.PreviewTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.taxRateService.Preview(c.Request.Context(), tenantID, rateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, preview)
}

// Delete godoc
// @Summary      Delete tax rate
// @Description  Delete a tax rate that has never been applied to a document
// @Tags         tax
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tax/rates/{id} [delete]
func (h *TaxRateHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	if err := h.taxRateService.Delete(c.Request.Context(), tenantID, rateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *TaxRateHandler) changeStatus(c *gin.Context, op func(ctx context.Context, tenantID, rateID uuid.UUID) (*taxapp.TaxRateResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID format")
		return
	}

	rate, err := op(c.Request.Context(), tenantID, rateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}
