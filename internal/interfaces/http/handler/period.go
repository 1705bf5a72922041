package handler

import (
	"context"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// PeriodHandler handles accounting period API endpoints
type PeriodHandler struct {
	BaseHandler
	periodService *ledgerapp.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *ledgerapp.PeriodService) *PeriodHandler {
	return &PeriodHandler{
		periodService: periodService,
	}
}

func parsePeriodParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// Open godoc
// @Summary      Open accounting period
// @Description  Open a new accounting period for the company's books
// @Tags         periods
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ledgerapp.OpenPeriodRequest true "Period year and month"
// @Success      201 {object} dto.Response{data=ledgerapp.PeriodResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/periods [post]
func (h *PeriodHandler) Open(c *gin.Context) {
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

	var req ledgerapp.OpenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	period, err := h.periodService.Open(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, period)
}

// List godoc
// @Summary      List accounting periods
// @Tags         periods
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]ledgerapp.PeriodResponse}
// @Security     BearerAuth
// @Router       /ledger/periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	periods, err := h.periodService.List(c.Request.Context(), companyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, periods)
}

// GetByMonth godoc
// @Summary      Get accounting period
// @Tags         periods
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=ledgerapp.PeriodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/periods/{year}/{month} [get]
func (h *PeriodHandler) GetByMonth(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	year, month, ok := parsePeriodParams(c)
	if !ok {
		h.BadRequest(c, "Invalid period year or month")
		return
	}

	period, err := h.periodService.GetByMonth(c.Request.Context(), companyID, year, month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// Close godoc
// @Summary      Close accounting period
// @Description  Close a period after verifying no unposted journals remain, debits equal credits, and the previous period is closed
// @Tags         periods
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=ledgerapp.PeriodResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/periods/{year}/{month}/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	h.transition(c, h.periodService.Close)
}

// Reopen godoc
// @Summary      Reopen accounting period
// @Description  Reopen the most recently closed period
// @Tags         periods
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=ledgerapp.PeriodResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/periods/{year}/{month}/reopen [post]
func (h *PeriodHandler) Reopen(c *gin.Context) {
	h.transition(c, h.periodService.Reopen)
}

func (h *PeriodHandler) transition(c *gin.Context, op func(ctx context.Context, companyID uuid.UUID, year, month int, actor uuid.UUID) (*ledgerapp.PeriodResponse, error)) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	year, month, ok := parsePeriodParams(c)
	if !ok {
		h.BadRequest(c, "Invalid period year or month")
		return
	}

	period, err := op(c.Request.Context(), companyID, year, month, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}
