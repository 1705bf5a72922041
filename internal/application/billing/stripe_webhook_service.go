package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	billinginfra "github.com/openbooks/backend/internal/infrastructure/billing"
)

// StripeWebhookService mirrors subscription state reported by Stripe into
// the local subscription aggregate
type StripeWebhookService struct {
	config           *billinginfra.StripeConfig
	subscriptionRepo billing.SubscriptionRepository
	idempotency      shared.IdempotencyStore
	idempotencyTTL   time.Duration
	eventBus         shared.EventBus
	logger           *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config           *billinginfra.StripeConfig
	SubscriptionRepo billing.SubscriptionRepository
	Idempotency      shared.IdempotencyStore
	IdempotencyTTL   time.Duration
	EventBus         shared.EventBus
	Logger           *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	ttl := cfg.IdempotencyTTL
	if ttl == 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &StripeWebhookService{
		config:           cfg.Config,
		subscriptionRepo: cfg.SubscriptionRepo,
		idempotency:      cfg.Idempotency,
		idempotencyTTL:   ttl,
		eventBus:         cfg.EventBus,
		logger:           cfg.Logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and dispatches a Stripe webhook event. Stripe
// retries delivery, so events are deduplicated by ID before any state
// changes.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, event.ID, s.idempotencyTTL)
		if err != nil {
			s.logger.Warn("Idempotency check failed, processing anyway",
				zap.String("event_id", event.ID),
				zap.Error(err))
		} else if !fresh {
			s.logger.Info("Skipping duplicate webhook event",
				zap.String("event_id", event.ID))
			result.Message = "Event already processed"
			return result, nil
		}
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case "customer.subscription.created":
		err = s.handleSubscriptionCreated(ctx, event)
	case "customer.subscription.updated":
		err = s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoicePaymentFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleSubscriptionCreated links a fresh Stripe subscription to the tenant
// named in the checkout metadata
func (s *StripeWebhookService) handleSubscriptionCreated(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("Subscription has no customer ID, skipping",
			zap.String("subscription_id", stripeSub.ID))
		return nil
	}

	tenantID, err := tenantIDFromMetadata(stripeSub.Metadata)
	if err != nil {
		// Checkout sessions created outside this system carry no tenant
		// metadata. Acknowledge so Stripe stops retrying.
		s.logger.Warn("Subscription has no tenant metadata, skipping",
			zap.String("subscription_id", stripeSub.ID))
		return nil
	}

	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No subscription record for tenant, skipping",
				zap.String("tenant_id", tenantID.String()),
				zap.String("subscription_id", stripeSub.ID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := subscription.LinkStripe(customerID, stripeSub.ID); err != nil {
		return err
	}
	s.applyPlanMetadata(subscription, stripeSub.Metadata)
	s.applyStripeStatus(subscription, &stripeSub)

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	s.logger.Info("Stripe subscription linked",
		zap.String("tenant_id", subscription.TenantID.String()),
		zap.String("subscription_id", stripeSub.ID))
	return nil
}

// handleSubscriptionUpdated mirrors plan and status changes from Stripe
func (s *StripeWebhookService) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	subscription, err := s.findForStripeSubscription(ctx, &stripeSub)
	if err != nil {
		return err
	}
	if subscription == nil {
		return nil
	}

	s.applyPlanMetadata(subscription, stripeSub.Metadata)
	s.applyStripeStatus(subscription, &stripeSub)

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	s.logger.Info("Stripe subscription update applied",
		zap.String("tenant_id", subscription.TenantID.String()),
		zap.String("subscription_id", stripeSub.ID),
		zap.String("status", string(subscription.Status)))
	return nil
}

// handleSubscriptionDeleted cancels the local subscription
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	subscription, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, stripeSub.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No subscription record for Stripe subscription, skipping",
				zap.String("subscription_id", stripeSub.ID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := subscription.Cancel("Subscription deleted in Stripe"); err != nil {
		// Already canceled locally, nothing left to mirror.
		s.logger.Info("Subscription already canceled",
			zap.String("tenant_id", subscription.TenantID.String()))
		return nil
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	s.logger.Info("Subscription canceled from Stripe",
		zap.String("tenant_id", subscription.TenantID.String()),
		zap.String("subscription_id", stripeSub.ID))
	return nil
}

// handleInvoicePaid reactivates the subscription and extends the period
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	subscription, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, invoice.Subscription.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No subscription record for paid invoice, skipping",
				zap.String("invoice_id", invoice.ID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	periodStart := time.Unix(invoice.PeriodStart, 0)
	periodEnd := time.Unix(invoice.PeriodEnd, 0)
	if !periodEnd.After(periodStart) {
		periodStart = time.Now()
		periodEnd = periodStart.AddDate(0, 1, 0)
	}
	if err := subscription.Activate(periodStart, periodEnd); err != nil {
		s.logger.Warn("Could not activate subscription after payment",
			zap.String("tenant_id", subscription.TenantID.String()),
			zap.Error(err))
		return nil
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	s.logger.Info("Subscription renewed after payment",
		zap.String("tenant_id", subscription.TenantID.String()),
		zap.String("invoice_id", invoice.ID))
	return nil
}

// handleInvoicePaymentFailed marks the subscription past due. Access
// continues while Stripe runs dunning; only deletion cuts it.
func (s *StripeWebhookService) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping")
		return nil
	}

	subscription, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, invoice.Subscription.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No subscription record for failed invoice, skipping",
				zap.String("invoice_id", invoice.ID))
			return nil
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := subscription.MarkPastDue(); err != nil {
		s.logger.Info("Subscription already past due or canceled",
			zap.String("tenant_id", subscription.TenantID.String()))
		return nil
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.publishDomainEvents(ctx, subscription)

	s.logger.Warn("Subscription payment failed, marked past due",
		zap.String("tenant_id", subscription.TenantID.String()),
		zap.String("invoice_id", invoice.ID))
	return nil
}

// findForStripeSubscription looks up the local record by Stripe
// subscription ID, falling back to the customer ID for events that arrive
// before the link is stored. A nil result means the event should be
// acknowledged without action.
func (s *StripeWebhookService) findForStripeSubscription(ctx context.Context, stripeSub *stripe.Subscription) (*billing.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, stripeSub.ID)
	if err == nil {
		return subscription, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}
	if customerID == "" {
		s.logger.Warn("No subscription record and no customer ID, skipping",
			zap.String("subscription_id", stripeSub.ID))
		return nil, nil
	}

	subscription, err = s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No subscription record for Stripe customer, skipping",
				zap.String("customer_id", customerID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return subscription, nil
}

// applyPlanMetadata switches the plan when checkout metadata names one
func (s *StripeWebhookService) applyPlanMetadata(subscription *billing.Subscription, metadata map[string]string) {
	code, ok := metadata["plan_code"]
	if !ok {
		return
	}
	planCode := billing.PlanCode(code)
	if !planCode.IsValid() || planCode == subscription.PlanCode {
		return
	}
	if err := subscription.ChangePlan(planCode); err != nil {
		s.logger.Warn("Failed to change plan from Stripe metadata",
			zap.String("plan_code", code),
			zap.Error(err))
	}
}

// applyStripeStatus maps the Stripe subscription status onto the aggregate
func (s *StripeWebhookService) applyStripeStatus(subscription *billing.Subscription, stripeSub *stripe.Subscription) {
	switch stripeSub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		periodStart := time.Unix(stripeSub.CurrentPeriodStart, 0)
		periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0)
		if !periodEnd.After(periodStart) {
			periodStart = time.Now()
			periodEnd = periodStart.AddDate(0, 1, 0)
		}
		if err := subscription.Activate(periodStart, periodEnd); err != nil {
			s.logger.Warn("Failed to activate subscription",
				zap.String("tenant_id", subscription.TenantID.String()),
				zap.Error(err))
		}
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		if subscription.Status != billing.SubscriptionStatusPastDue {
			if err := subscription.MarkPastDue(); err != nil {
				s.logger.Warn("Failed to mark subscription past due",
					zap.String("tenant_id", subscription.TenantID.String()),
					zap.Error(err))
			}
		}
	case stripe.SubscriptionStatusCanceled:
		// customer.subscription.deleted carries the cancellation.
		s.logger.Info("Subscription reported canceled",
			zap.String("tenant_id", subscription.TenantID.String()))
	}
}

func tenantIDFromMetadata(metadata map[string]string) (uuid.UUID, error) {
	raw, ok := metadata["tenant_id"]
	if !ok {
		return uuid.Nil, errors.New("no tenant_id in metadata")
	}
	return uuid.Parse(raw)
}

func (s *StripeWebhookService) publishDomainEvents(ctx context.Context, subscription *billing.Subscription) {
	if s.eventBus == nil {
		return
	}
	events := subscription.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish subscription events", zap.Error(err))
	}
	subscription.ClearDomainEvents()
}
