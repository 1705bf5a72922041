package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoicingapp "github.com/openbooks/backend/internal/application/invoicing"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles customer invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// booksScope extracts tenant, company, and user identity for document endpoints
func booksScope(c *gin.Context) (tenantID, companyID, userID uuid.UUID, err error) {
	tenantID, err = getTenantID(c)
	if err != nil {
		return
	}
	companyID, err = getCompanyID(c)
	if err != nil {
		return
	}
	userID, err = getUserID(c)
	return
}

// Create godoc
// @Summary      Create draft invoice
// @Description  Create a customer invoice in draft state. Line amounts and taxes are computed server-side.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body invoicingapp.CreateInvoiceRequest true "Invoice data"
// @Success      201 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	var req invoicingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = &userID

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
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

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, companyID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, APPROVED, SENT, PARTIALLY_PAID, PAID, VOID)
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        overdue query bool false "Only overdue invoices"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]invoicingapp.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter invoicingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicingapp.UpdateInvoiceRequest true "Invoice data"
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
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

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoicingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, companyID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Approve godoc
// @Summary      Approve invoice
// @Description  Approve a draft invoice. The approver must not be the invoice's creator.
// @Tags         invoices
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Approve(c.Request.Context(), tenantID, companyID, invoiceID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// MarkSent godoc
// @Summary      Mark invoice sent
// @Tags         invoices
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
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

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.MarkSent(c.Request.Context(), tenantID, companyID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Void godoc
// @Summary      Void invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicingapp.VoidDocumentRequest true "Void reason"
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoicingapp.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Void(c.Request.Context(), tenantID, companyID, invoiceID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete draft invoice
// @Tags         invoices
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
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

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, companyID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
