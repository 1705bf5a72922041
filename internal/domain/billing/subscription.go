package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// SubscriptionStatus represents the lifecycle state of a tenant subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// IsValid checks if the status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCanceled:
		return true
	}
	return false
}

// GrantsAccess reports whether tenants in this status may use the product.
// Past-due tenants keep access during dunning; only cancellation cuts it.
func (s SubscriptionStatus) GrantsAccess() bool {
	return s != SubscriptionStatusCanceled
}

// Subscription tracks a tenant's plan and payment state. Stripe owns the
// money side; this aggregate mirrors the state Stripe reports through
// webhooks plus the plan the tenant selected.
type Subscription struct {
	shared.TenantAggregateRoot
	PlanCode             PlanCode           `gorm:"type:varchar(20);not null" json:"plan_code"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TrialEndsAt          *time.Time         `json:"trial_ends_at,omitempty"`
	CurrentPeriodStart   time.Time          `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd     time.Time          `gorm:"not null" json:"current_period_end"`
	StripeCustomerID     string             `gorm:"type:varchar(100);index" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string             `gorm:"type:varchar(100);uniqueIndex" json:"stripe_subscription_id,omitempty"`
	CanceledAt           *time.Time         `json:"canceled_at,omitempty"`
	CancelReason         string             `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
}

// NewSubscription starts a subscription for a tenant. Plans with trial days
// begin trialing; the free plan begins active immediately.
func NewSubscription(tenantID uuid.UUID, planCode PlanCode, now time.Time) (*Subscription, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	plan, err := PlanByCode(planCode)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlanCode:            planCode,
		CurrentPeriodStart:  now,
		CurrentPeriodEnd:    now.AddDate(0, 1, 0),
	}
	if plan.TrialDays > 0 {
		trialEnd := now.AddDate(0, 0, plan.TrialDays)
		sub.Status = SubscriptionStatusTrialing
		sub.TrialEndsAt = &trialEnd
	} else {
		sub.Status = SubscriptionStatusActive
	}

	sub.AddDomainEvent(NewSubscriptionStartedEvent(sub))
	return sub, nil
}

// LinkStripe records the Stripe identifiers once checkout completes.
func (s *Subscription) LinkStripe(customerID, subscriptionID string) error {
	if customerID == "" {
		return shared.NewDomainError("INVALID_STRIPE_CUSTOMER", "Stripe customer ID cannot be empty")
	}

	s.StripeCustomerID = customerID
	s.StripeSubscriptionID = subscriptionID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Activate moves a trialing or past-due subscription to active, extending
// the period window to the one Stripe reports.
func (s *Subscription) Activate(periodStart, periodEnd time.Time) error {
	if s.Status == SubscriptionStatusCanceled {
		return shared.NewDomainError("INVALID_STATE", "Canceled subscriptions cannot be reactivated")
	}
	if !periodEnd.After(periodStart) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	previous := s.Status
	s.Status = SubscriptionStatusActive
	s.TrialEndsAt = nil
	s.CurrentPeriodStart = periodStart
	s.CurrentPeriodEnd = periodEnd
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if previous != SubscriptionStatusActive {
		s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, previous))
	}
	return nil
}

// MarkPastDue records a failed renewal payment. Access continues while
// Stripe retries the charge.
func (s *Subscription) MarkPastDue() error {
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrialing {
		return shared.NewDomainError("INVALID_STATE", "Only active or trialing subscriptions can become past due")
	}

	previous := s.Status
	s.Status = SubscriptionStatusPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, previous))
	return nil
}

// Cancel ends the subscription. Terminal.
func (s *Subscription) Cancel(reason string) error {
	if s.Status == SubscriptionStatusCanceled {
		return shared.NewDomainError("INVALID_STATE", "Subscription is already canceled")
	}

	previous := s.Status
	now := time.Now()
	s.Status = SubscriptionStatusCanceled
	s.CanceledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, previous))
	return nil
}

// ChangePlan switches the tenant to a different plan at the next period.
func (s *Subscription) ChangePlan(planCode PlanCode) error {
	if s.Status == SubscriptionStatusCanceled {
		return shared.NewDomainError("INVALID_STATE", "Canceled subscriptions cannot change plans")
	}
	if _, err := PlanByCode(planCode); err != nil {
		return err
	}
	if planCode == s.PlanCode {
		return shared.NewDomainError("SAME_PLAN", "Subscription is already on this plan")
	}

	previous := s.PlanCode
	s.PlanCode = planCode
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionPlanChangedEvent(s, previous))
	return nil
}

// Plan resolves the catalog entry for the subscription's plan code.
func (s *Subscription) Plan() Plan {
	plan, err := PlanByCode(s.PlanCode)
	if err != nil {
		// Unknown codes cannot be constructed; fall back to free limits.
		return planCatalog[PlanFree]
	}
	return plan
}

// IsTrialExpired reports whether a trialing subscription's trial has ended.
func (s *Subscription) IsTrialExpired(now time.Time) bool {
	return s.Status == SubscriptionStatusTrialing && s.TrialEndsAt != nil && now.After(*s.TrialEndsAt)
}

// GrantsAccess reports whether the tenant may currently use the product.
func (s *Subscription) GrantsAccess() bool {
	return s.Status.GrantsAccess()
}

// TableName returns the database table name
func (Subscription) TableName() string {
	return "subscriptions"
}
