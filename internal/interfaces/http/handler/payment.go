package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoicingapp "github.com/openbooks/backend/internal/application/invoicing"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *invoicingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *invoicingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Create godoc
// @Summary      Create draft payment
// @Description  Record a payment received from a customer or made to a vendor, with optional initial allocations
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body invoicingapp.CreatePaymentRequest true "Payment data"
// @Success      201 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	var req invoicingapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = &userID

	payment, err := h.paymentService.Create(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID godoc
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
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

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, companyID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, CONFIRMED, VOID)
// @Param        direction query string false "Direction" Enums(RECEIVED, MADE)
// @Param        party_id query string false "Filter by customer or vendor" format(uuid)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]invoicingapp.PaymentResponse}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter invoicingapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// Allocate godoc
// @Summary      Allocate payment to document
// @Description  Allocate part of a draft payment against an open invoice or bill
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body invoicingapp.AllocationRequest true "Allocation data"
// @Success      200 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/allocations [post]
func (h *PaymentHandler) Allocate(c *gin.Context) {
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

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req invoicingapp.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Allocate(c.Request.Context(), tenantID, companyID, paymentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// RemoveAllocation godoc
// @Summary      Remove payment allocation
// @Tags         payments
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Param        allocation_id path string true "Allocation ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/allocations/{allocation_id} [delete]
func (h *PaymentHandler) RemoveAllocation(c *gin.Context) {
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

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	allocationID, err := uuid.Parse(c.Param("allocation_id"))
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID format")
		return
	}

	payment, err := h.paymentService.RemoveAllocation(c.Request.Context(), tenantID, companyID, paymentID, allocationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Confirm godoc
// @Summary      Confirm payment
// @Description  Confirm a draft payment and apply its allocations to the targeted documents. The confirmer must not be the payment's creator.
// @Tags         payments
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.Confirm(c.Request.Context(), tenantID, companyID, paymentID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Void godoc
// @Summary      Void payment
// @Description  Void a payment and reverse any applied allocations
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body invoicingapp.VoidDocumentRequest true "Void reason"
// @Success      200 {object} dto.Response{data=invoicingapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/void [post]
func (h *PaymentHandler) Void(c *gin.Context) {
	tenantID, companyID, userID, err := booksScope(c)
	if err != nil {
		h.BadRequest(c, "Invalid request identity")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req invoicingapp.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Void(c.Request.Context(), tenantID, companyID, paymentID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Delete godoc
// @Summary      Delete draft payment
// @Tags         payments
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
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

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), tenantID, companyID, paymentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
