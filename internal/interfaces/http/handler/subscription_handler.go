package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/openbooks/backend/internal/application/billing"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// SubscriptionHandler handles tenant subscription API endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *billingapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *billingapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Get godoc
// @Summary      Get current subscription
// @Description  The calling tenant's subscription, including plan, status and current period
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billingapp.SubscriptionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	subscription, err := h.subscriptionService.GetForTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subscription)
}

// Start godoc
// @Summary      Start subscription
// @Description  Start a subscription for a tenant that has none, optionally with a trial period
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body billingapp.StartSubscriptionRequest true "Plan selection"
// @Success      201 {object} dto.Response{data=billingapp.SubscriptionResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription [post]
func (h *SubscriptionHandler) Start(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.StartSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscription, err := h.subscriptionService.Start(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, subscription)
}

// ChangePlan godoc
// @Summary      Change subscription plan
// @Description  Upgrade or downgrade the tenant's plan. Downgrades are rejected while current usage exceeds the target plan's quotas.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body billingapp.ChangePlanRequest true "Target plan"
// @Success      200 {object} dto.Response{data=billingapp.SubscriptionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription/change-plan [post]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscription, err := h.subscriptionService.ChangePlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subscription)
}

// Cancel godoc
// @Summary      Cancel subscription
// @Description  Cancel at period end by default, or immediately when requested
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CancelSubscriptionRequest true "Cancellation options"
// @Success      200 {object} dto.Response{data=billingapp.SubscriptionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscription, err := h.subscriptionService.Cancel(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subscription)
}

// ListPlans godoc
// @Summary      List available plans
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]billingapp.PlanResponse}
// @Security     BearerAuth
// @Router       /billing/plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	h.Success(c, h.subscriptionService.ListPlans())
}
