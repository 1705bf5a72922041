package handler

import (
	"context"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/openbooks/backend/internal/application/identity"
)

// CompanyHandler handles company management HTTP requests
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// CompanyAddressRequest represents an address in company requests
type CompanyAddressRequest struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"omitempty,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	Region     string `json:"region" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" binding:"omitempty,max=20"`
	Country    string `json:"country" binding:"omitempty,len=2"`
}

// CreateCompanyRequest represents the request body for creating a company
type CreateCompanyRequest struct {
	Name                 string                 `json:"name" binding:"required,min=1,max=200"`
	LegalName            string                 `json:"legal_name" binding:"omitempty,max=300"`
	BaseCurrency         string                 `json:"base_currency" binding:"required,len=3"`
	TaxID                string                 `json:"tax_id" binding:"omitempty,max=50"`
	FiscalYearStartMonth int                    `json:"fiscal_year_start_month" binding:"omitempty,min=1,max=12"`
	Address              *CompanyAddressRequest `json:"address" binding:"omitempty"`
	Notes                string                 `json:"notes" binding:"omitempty"`
}

// UpdateCompanyRequest represents the request body for updating a company
type UpdateCompanyRequest struct {
	Name                 *string                `json:"name" binding:"omitempty,min=1,max=200"`
	LegalName            *string                `json:"legal_name" binding:"omitempty,max=300"`
	TaxID                *string                `json:"tax_id" binding:"omitempty,max=50"`
	FiscalYearStartMonth *int                   `json:"fiscal_year_start_month" binding:"omitempty,min=1,max=12"`
	Address              *CompanyAddressRequest `json:"address" binding:"omitempty"`
	Notes                *string                `json:"notes" binding:"omitempty"`
}

// CompanyListQuery represents query parameters for listing companies
type CompanyListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
}

func toAddressInput(req *CompanyAddressRequest) *identityapp.AddressInput {
	if req == nil {
		return nil
	}
	return &identityapp.AddressInput{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}

// Create godoc
// @Summary      Create a new company
// @Description  Create a new company (legal entity) within the tenant
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body CreateCompanyRequest true "Company creation request"
// @Success      201 {object} dto.Response{data=identityapp.CompanyDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := identityapp.CreateCompanyInput{
		TenantID:             tenantID,
		Name:                 req.Name,
		LegalName:            req.LegalName,
		BaseCurrency:         req.BaseCurrency,
		TaxID:                req.TaxID,
		FiscalYearStartMonth: req.FiscalYearStartMonth,
		Address:              toAddressInput(req.Address),
		Notes:                req.Notes,
	}

	company, err := h.companyService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID godoc
// @Summary      Get a company by ID
// @Description  Retrieve a company by its ID
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.CompanyDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List godoc
// @Summary      List companies
// @Description  Retrieve a paginated list of companies for the tenant
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        keyword query string false "Search keyword"
// @Param        status query string false "Filter by status" Enums(active, archived)
// @Success      200 {object} dto.Response{data=identityapp.CompanyListResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var query CompanyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := identityapp.CompanyFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   query.SortBy,
		SortDir:  query.SortDir,
		Keyword:  query.Keyword,
		Status:   query.Status,
	}

	result, err := h.companyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListActive godoc
// @Summary      List active companies
// @Description  Retrieve all active companies for the tenant
// @Tags         companies
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.CompanyDTO}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/active [get]
func (h *CompanyHandler) ListActive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	companies, err := h.companyService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, companies)
}

// Update godoc
// @Summary      Update a company
// @Description  Update a company's information
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body UpdateCompanyRequest true "Company update request"
// @Success      200 {object} dto.Response{data=identityapp.CompanyDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := identityapp.UpdateCompanyInput{
		Name:                 req.Name,
		LegalName:            req.LegalName,
		TaxID:                req.TaxID,
		FiscalYearStartMonth: req.FiscalYearStartMonth,
		Address:              toAddressInput(req.Address),
		Notes:                req.Notes,
	}

	company, err := h.companyService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Archive godoc
// @Summary      Archive a company
// @Description  Archive a company so it rejects new documents but remains readable
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.CompanyDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/{id}/archive [post]
func (h *CompanyHandler) Archive(c *gin.Context) {
	h.changeStatus(c, h.companyService.Archive)
}

// Restore godoc
// @Summary      Restore a company
// @Description  Reactivate an archived company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.CompanyDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/{id}/restore [post]
func (h *CompanyHandler) Restore(c *gin.Context) {
	h.changeStatus(c, h.companyService.Restore)
}

// Delete godoc
// @Summary      Delete a company
// @Description  Delete an archived company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /identity/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CompanyHandler) changeStatus(c *gin.Context, op func(ctx context.Context, tenantID, companyID uuid.UUID) (*identityapp.CompanyDTO, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := op(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}
