package billing

import (
	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSubscription = "Subscription"

// Event type constants
const (
	EventTypeSubscriptionStarted       = "SubscriptionStarted"
	EventTypeSubscriptionStatusChanged = "SubscriptionStatusChanged"
	EventTypeSubscriptionPlanChanged   = "SubscriptionPlanChanged"
)

// SubscriptionStartedEvent is published when a tenant subscription begins
type SubscriptionStartedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID          `json:"subscription_id"`
	PlanCode       PlanCode           `json:"plan_code"`
	Status         SubscriptionStatus `json:"status"`
}

// NewSubscriptionStartedEvent creates a new SubscriptionStartedEvent
func NewSubscriptionStartedEvent(s *Subscription) *SubscriptionStartedEvent {
	return &SubscriptionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionStarted, AggregateTypeSubscription, s.ID, s.TenantID),
		SubscriptionID:  s.ID,
		PlanCode:        s.PlanCode,
		Status:          s.Status,
	}
}

// SubscriptionStatusChangedEvent is published on every lifecycle transition
type SubscriptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID          `json:"subscription_id"`
	PlanCode       PlanCode           `json:"plan_code"`
	OldStatus      SubscriptionStatus `json:"old_status"`
	NewStatus      SubscriptionStatus `json:"new_status"`
}

// NewSubscriptionStatusChangedEvent creates a new SubscriptionStatusChangedEvent
func NewSubscriptionStatusChangedEvent(s *Subscription, previous SubscriptionStatus) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionStatusChanged, AggregateTypeSubscription, s.ID, s.TenantID),
		SubscriptionID:  s.ID,
		PlanCode:        s.PlanCode,
		OldStatus:       previous,
		NewStatus:       s.Status,
	}
}

// SubscriptionPlanChangedEvent is published when the tenant switches plans
type SubscriptionPlanChangedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	OldPlanCode    PlanCode  `json:"old_plan_code"`
	NewPlanCode    PlanCode  `json:"new_plan_code"`
}

// NewSubscriptionPlanChangedEvent creates a new SubscriptionPlanChangedEvent
func NewSubscriptionPlanChangedEvent(s *Subscription, previous PlanCode) *SubscriptionPlanChangedEvent {
	return &SubscriptionPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionPlanChanged, AggregateTypeSubscription, s.ID, s.TenantID),
		SubscriptionID:  s.ID,
		OldPlanCode:     previous,
		NewPlanCode:     s.PlanCode,
	}
}
