package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/openbooks/backend/internal/application/billing"
	"github.com/openbooks/backend/internal/domain/billing"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// UsageHandler handles tenant usage and quota API endpoints
type UsageHandler struct {
	BaseHandler
	quotaService *billingapp.QuotaService
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(quotaService *billingapp.QuotaService) *UsageHandler {
	return &UsageHandler{
		quotaService: quotaService,
	}
}

// GetUsageSummary godoc
// @Summary      Get usage summary
// @Description  Metered usage totals for the tenant's current reset period
// @Tags         billing
// @Produce      json
// @Param        period query string false "Reset period" Enums(DAILY, WEEKLY, MONTHLY, YEARLY, NEVER) default(MONTHLY)
// @Success      200 {object} dto.Response{data=billingapp.UsageSummaryDTO}
// @Security     BearerAuth
// @Router       /billing/usage [get]
func (h *UsageHandler) GetUsageSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	period := billing.ResetPeriod(c.DefaultQuery("period", string(billing.ResetPeriodMonthly)))
	if !period.IsValid() {
		h.BadRequest(c, "Invalid reset period")
		return
	}

	summary, err := h.quotaService.GetUsageSummary(c.Request.Context(), tenantID, period)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetQuotaStatus godoc
// @Summary      Get quota status
// @Description  Current usage against the plan limit for every tracked usage type
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=map[string]billingapp.QuotaCheckResult}
// @Security     BearerAuth
// @Router       /billing/quotas [get]
func (h *UsageHandler) GetQuotaStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	status, err := h.quotaService.GetQuotaStatus(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}
