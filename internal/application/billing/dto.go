package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/billing"
)

// StartSubscriptionRequest starts a subscription for a tenant
type StartSubscriptionRequest struct {
	PlanCode string `json:"plan_code" binding:"required,oneof=free standard premium"`
}

// ChangePlanRequest switches the tenant to a different plan
type ChangePlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required,oneof=free standard premium"`
}

// CancelSubscriptionRequest cancels the tenant's subscription
type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	PlanCode           string     `json:"plan_code"`
	PlanName           string     `json:"plan_name"`
	Status             string     `json:"status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PlanResponse describes a plan from the compiled-in catalog
type PlanResponse struct {
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	MonthlyPrice        decimal.Decimal `json:"monthly_price"`
	MaxUsers            int64           `json:"max_users"`
	MaxCompanies        int64           `json:"max_companies"`
	MaxStorageBytes     int64           `json:"max_storage_bytes"`
	MaxInvoicesPerMonth int64           `json:"max_invoices_per_month"`
	TrialDays           int             `json:"trial_days"`
}

// ToSubscriptionResponse converts a domain subscription to its response DTO
func ToSubscriptionResponse(subscription *billing.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 subscription.ID,
		TenantID:           subscription.TenantID,
		PlanCode:           string(subscription.PlanCode),
		PlanName:           subscription.Plan().Name,
		Status:             string(subscription.Status),
		TrialEndsAt:        subscription.TrialEndsAt,
		CurrentPeriodStart: subscription.CurrentPeriodStart,
		CurrentPeriodEnd:   subscription.CurrentPeriodEnd,
		CanceledAt:         subscription.CanceledAt,
		CancelReason:       subscription.CancelReason,
		CreatedAt:          subscription.CreatedAt,
		UpdatedAt:          subscription.UpdatedAt,
	}
}

// ToPlanResponse converts a catalog plan to its response DTO
func ToPlanResponse(plan billing.Plan) PlanResponse {
	return PlanResponse{
		Code:                string(plan.Code),
		Name:                plan.Name,
		MonthlyPrice:        plan.MonthlyPrice,
		MaxUsers:            plan.MaxUsers,
		MaxCompanies:        plan.MaxCompanies,
		MaxStorageBytes:     plan.MaxStorageBytes,
		MaxInvoicesPerMonth: plan.MaxInvoicesPerMonth,
		TrialDays:           plan.TrialDays,
	}
}
