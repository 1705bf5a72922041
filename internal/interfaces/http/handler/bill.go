package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoicingapp "github.com/openbooks/backend/internal/application/invoicing"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// BillHandler handles vendor bill API endpoints
type BillHandler struct {
	BaseHandler
	billService *invoicingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *invoicingapp.BillService) *BillHandler {
	return &BillHandler{
		billService: billService,
	}
}

// Create godoc
// @Summary      Create draft bill
// @Description  Record a vendor bill in draft state
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body invoicingapp.CreateBillRequest true "Bill data"
// @Success      201 {object} dto.Response{data=invoicingapp.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	var req invoicingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = &userID

	bill, err := h.billService.Create(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bill)
}

// GetByID godoc
// @Summary      Get bill by ID
// @Tags         bills
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
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

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), tenantID, companyID, billID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// List godoc
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, APPROVED, PARTIALLY_PAID, PAID, VOID)
// @Param        vendor_id query string false "Filter by vendor" format(uuid)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        overdue query bool false "Only overdue bills"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]invoicingapp.BillResponse}
// @Security     BearerAuth
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter invoicingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bills, total, err := h.billService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update draft bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body invoicingapp.UpdateBillRequest true "Bill data"
// @Success      200 {object} dto.Response{data=invoicingapp.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
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

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req invoicingapp.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), tenantID, companyID, billID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Approve godoc
// @Summary      Approve bill
// @Description  Approve a draft bill. The approver must not be the bill's creator.
// @Tags         bills
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills/{id}/approve [post]
func (h *BillHandler) Approve(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.Approve(c.Request.Context(), tenantID, companyID, billID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Void godoc
// @Summary      Void bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body invoicingapp.VoidDocumentRequest true "Void reason"
// @Success      200 {object} dto.Response{data=invoicingapp.BillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills/{id}/void [post]
func (h *BillHandler) Void(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req invoicingapp.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Void(c.Request.Context(), tenantID, companyID, billID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete godoc
// @Summary      Delete draft bill
// @Tags         bills
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Bill ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
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

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), tenantID, companyID, billID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
