package handler

import (
	"context"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/openbooks/backend/internal/application/partner"
)

// VendorHandler handles vendor API endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *partnerapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *partnerapp.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// Create godoc
// @Summary      Create vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body partnerapp.CreateVendorRequest true "Vendor data"
// @Success      201 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req partnerapp.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, vendor)
}

// GetByID godoc
// @Summary      Get vendor by ID
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), tenantID, companyID, vendorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vendor)
}

// List godoc
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        status query string false "Status" Enums(ACTIVE, INACTIVE, BLOCKED)
// @Param        search query string false "Search by code, name or email"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]partnerapp.VendorResponse}
// @Security     BearerAuth
// @Router       /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter partnerapp.VendorListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendors, total, err := h.vendorService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, vendors, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body partnerapp.UpdateVendorRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	var req partnerapp.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), tenantID, companyID, vendorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vendor)
}

// Activate godoc
// @Summary      Activate vendor
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Security     BearerAuth
// @Router       /vendors/{id}/activate [post]
func (h *VendorHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate vendor
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Security     BearerAuth
// @Router       /vendors/{id}/deactivate [post]
func (h *VendorHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Deactivate)
}

// Block godoc
// @Summary      Block vendor
// @Description  A blocked vendor cannot appear on newly approved bills
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Security     BearerAuth
// @Router       /vendors/{id}/block [post]
func (h *VendorHandler) Block(c *gin.Context) {
	h.changeStatus(c, h.vendorService.Block)
}

// Delete godoc
// @Summary      Delete vendor
// @Description  Delete a vendor that has never been referenced by a document
// @Tags         vendors
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), tenantID, companyID, vendorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *VendorHandler) changeStatus(c *gin.Context, op func(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*partnerapp.VendorResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	vendor, err := op(c.Request.Context(), tenantID, companyID, vendorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vendor)
}
