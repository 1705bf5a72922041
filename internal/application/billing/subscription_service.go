package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
)

// SubscriptionService manages the local subscription lifecycle. Money moves
// through Stripe; this service handles everything that happens before and
// after the checkout redirect.
type SubscriptionService struct {
	subscriptionRepo billing.SubscriptionRepository
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptionRepo billing.SubscriptionRepository, eventPublisher shared.EventPublisher, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

// Start begins a subscription for a tenant that does not have one yet
func (s *SubscriptionService) Start(ctx context.Context, tenantID uuid.UUID, req StartSubscriptionRequest) (*SubscriptionResponse, error) {
	_, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant already has a subscription")
	case errors.Is(err, shared.ErrNotFound):
		// no subscription yet, proceed
	default:
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	subscription, err := billing.NewSubscription(tenantID, billing.PlanCode(req.PlanCode), time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// GetForTenant returns the tenant's subscription. Tenants that never
// subscribed are reported on the free plan.
func (s *SubscriptionService) GetForTenant(ctx context.Context, tenantID uuid.UUID) (*SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			plan, _ := billing.PlanByCode(billing.PlanFree)
			now := time.Now()
			return &SubscriptionResponse{
				TenantID:           tenantID,
				PlanCode:           string(plan.Code),
				PlanName:           plan.Name,
				Status:             string(billing.SubscriptionStatusActive),
				CurrentPeriodStart: now,
				CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			}, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// ChangePlan switches the tenant's plan
func (s *SubscriptionService) ChangePlan(ctx context.Context, tenantID uuid.UUID, req ChangePlanRequest) (*SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := subscription.ChangePlan(billing.PlanCode(req.PlanCode)); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// Cancel ends the tenant's subscription
func (s *SubscriptionService) Cancel(ctx context.Context, tenantID uuid.UUID, req CancelSubscriptionRequest) (*SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := subscription.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// ListPlans returns the compiled-in plan catalog
func (s *SubscriptionService) ListPlans() []PlanResponse {
	plans := billing.AllPlans()
	responses := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		responses[i] = ToPlanResponse(plan)
	}
	return responses
}

// ExpireTrials downgrades trialing subscriptions whose trial ended before
// the cutoff to the free plan. Called by the scheduler; returns the number
// of subscriptions downgraded.
func (s *SubscriptionService) ExpireTrials(ctx context.Context, now time.Time) (int, error) {
	expiring, err := s.subscriptionRepo.FindTrialsEndingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring trials: %w", err)
	}

	downgraded := 0
	for _, subscription := range expiring {
		if !subscription.IsTrialExpired(now) {
			continue
		}

		if subscription.PlanCode != billing.PlanFree {
			if err := subscription.ChangePlan(billing.PlanFree); err != nil {
				s.logger.Warn("Failed to downgrade expired trial",
					zap.String("tenant_id", subscription.TenantID.String()),
					zap.Error(err))
				continue
			}
		}
		if err := subscription.Activate(now, now.AddDate(0, 1, 0)); err != nil {
			s.logger.Warn("Failed to activate downgraded subscription",
				zap.String("tenant_id", subscription.TenantID.String()),
				zap.Error(err))
			continue
		}

		if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
			s.logger.Error("Failed to save downgraded subscription",
				zap.String("tenant_id", subscription.TenantID.String()),
				zap.Error(err))
			continue
		}
		s.publishDomainEvents(ctx, subscription)
		downgraded++

		s.logger.Info("Trial expired, downgraded to free plan",
			zap.String("tenant_id", subscription.TenantID.String()))
	}
	return downgraded, nil
}

func (s *SubscriptionService) publishDomainEvents(ctx context.Context, subscription *billing.Subscription) {
	if s.eventPublisher == nil {
		return
	}
	events := subscription.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	subscription.ClearDomainEvents()
}
