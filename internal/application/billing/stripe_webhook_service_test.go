package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	billinginfra "github.com/openbooks/backend/internal/infrastructure/billing"
)

func newWebhookServiceFixture() (*StripeWebhookService, *mockSubscriptionRepository) {
	subscriptionRepo := new(mockSubscriptionRepository)
	service := NewStripeWebhookService(StripeWebhookServiceConfig{
		Config: &billinginfra.StripeConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: "whsec_test_secret",
			IsTestMode:    true,
		},
		SubscriptionRepo: subscriptionRepo,
		Logger:           zap.NewNop(),
	})
	return service, subscriptionRepo
}

func stripeEvent(t *testing.T, payload map[string]interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return stripe.Event{Data: &stripe.EventData{Raw: raw}}
}

func TestStripeWebhookService_ProcessWebhook(t *testing.T) {
	t.Run("rejects payloads with an invalid signature", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		result, err := service.ProcessWebhook(context.Background(), []byte(`{"id":"evt_1"}`), "t=1,v1=bad")

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "signature verification failed")
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStripeWebhookService_HandleSubscriptionCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("links the Stripe subscription and applies the checkout plan", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)
		subscriptionRepo.On("FindByTenantID", mock.Anything, tenantID).Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		now := time.Now()
		event := stripeEvent(t, map[string]interface{}{
			"id":                   "sub_abc123",
			"customer":             map[string]interface{}{"id": "cus_abc123"},
			"status":               "active",
			"current_period_start": now.Unix(),
			"current_period_end":   now.AddDate(0, 1, 0).Unix(),
			"metadata": map[string]string{
				"tenant_id": tenantID.String(),
				"plan_code": "premium",
			},
		})

		err := service.handleSubscriptionCreated(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, "cus_abc123", subscription.StripeCustomerID)
		assert.Equal(t, "sub_abc123", subscription.StripeSubscriptionID)
		assert.Equal(t, billing.PlanPremium, subscription.PlanCode)
		assert.Equal(t, billing.SubscriptionStatusActive, subscription.Status)
		subscriptionRepo.AssertExpectations(t)
	})

	t.Run("acknowledges subscriptions without tenant metadata", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		event := stripeEvent(t, map[string]interface{}{
			"id":       "sub_no_meta",
			"customer": map[string]interface{}{"id": "cus_other"},
			"status":   "active",
		})

		err := service.handleSubscriptionCreated(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("acknowledges tenants with no local subscription record", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscriptionRepo.On("FindByTenantID", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)

		event := stripeEvent(t, map[string]interface{}{
			"id":       "sub_unknown",
			"customer": map[string]interface{}{"id": "cus_unknown"},
			"status":   "active",
			"metadata": map[string]string{"tenant_id": tenantID.String()},
		})

		err := service.handleSubscriptionCreated(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStripeWebhookService_HandleSubscriptionUpdated(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the subscription past due when Stripe reports unpaid", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)
		require.NoError(t, subscription.Activate(time.Now(), time.Now().AddDate(0, 1, 0)))
		subscription.ClearDomainEvents()

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_upd").Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		event := stripeEvent(t, map[string]interface{}{
			"id":       "sub_upd",
			"customer": map[string]interface{}{"id": "cus_upd"},
			"status":   "past_due",
		})

		err := service.handleSubscriptionUpdated(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusPastDue, subscription.Status)
		subscriptionRepo.AssertExpectations(t)
	})

	t.Run("falls back to the customer ID when the subscription ID is unknown", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_new").Return(nil, shared.ErrNotFound)
		subscriptionRepo.On("FindByStripeCustomerID", mock.Anything, "cus_known").Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		now := time.Now()
		event := stripeEvent(t, map[string]interface{}{
			"id":                   "sub_new",
			"customer":             map[string]interface{}{"id": "cus_known"},
			"status":               "active",
			"current_period_start": now.Unix(),
			"current_period_end":   now.AddDate(0, 1, 0).Unix(),
		})

		err := service.handleSubscriptionUpdated(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusActive, subscription.Status)
		subscriptionRepo.AssertExpectations(t)
	})

	t.Run("acknowledges events for subscriptions this system never issued", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_foreign").Return(nil, shared.ErrNotFound)
		subscriptionRepo.On("FindByStripeCustomerID", mock.Anything, "cus_foreign").Return(nil, shared.ErrNotFound)

		event := stripeEvent(t, map[string]interface{}{
			"id":       "sub_foreign",
			"customer": map[string]interface{}{"id": "cus_foreign"},
			"status":   "active",
		})

		err := service.handleSubscriptionUpdated(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStripeWebhookService_HandleSubscriptionDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels the local subscription", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanPremium)
		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_del").Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		event := stripeEvent(t, map[string]interface{}{"id": "sub_del", "status": "canceled"})

		err := service.handleSubscriptionDeleted(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusCanceled, subscription.Status)
		assert.Contains(t, subscription.CancelReason, "deleted in Stripe")
	})

	t.Run("acknowledges subscriptions already canceled locally", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanPremium)
		require.NoError(t, subscription.Cancel("user request"))
		subscription.ClearDomainEvents()
		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_del2").Return(subscription, nil)

		event := stripeEvent(t, map[string]interface{}{"id": "sub_del2", "status": "canceled"})

		err := service.handleSubscriptionDeleted(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStripeWebhookService_HandleInvoicePaid(t *testing.T) {
	ctx := context.Background()

	t.Run("reactivates a past due subscription and extends the period", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)
		require.NoError(t, subscription.Activate(time.Now().AddDate(0, -1, 0), time.Now()))
		require.NoError(t, subscription.MarkPastDue())
		subscription.ClearDomainEvents()

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_paid").Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		periodStart := time.Now()
		periodEnd := periodStart.AddDate(0, 1, 0)
		event := stripeEvent(t, map[string]interface{}{
			"id":           "in_123",
			"subscription": "sub_paid",
			"period_start": periodStart.Unix(),
			"period_end":   periodEnd.Unix(),
		})

		err := service.handleInvoicePaid(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusActive, subscription.Status)
		assert.Equal(t, periodStart.Unix(), subscription.CurrentPeriodStart.Unix())
		assert.Equal(t, periodEnd.Unix(), subscription.CurrentPeriodEnd.Unix())
	})

	t.Run("skips invoices that are not for a subscription", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		event := stripeEvent(t, map[string]interface{}{"id": "in_oneoff"})

		err := service.handleInvoicePaid(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "FindByStripeSubscriptionID", mock.Anything, mock.Anything)
	})
}

func TestStripeWebhookService_HandleInvoicePaymentFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("marks an active subscription past due", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)
		require.NoError(t, subscription.Activate(time.Now(), time.Now().AddDate(0, 1, 0)))
		subscription.ClearDomainEvents()

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_fail").Return(subscription, nil)
		subscriptionRepo.On("Save", mock.Anything, subscription).Return(nil)

		event := stripeEvent(t, map[string]interface{}{
			"id":           "in_fail",
			"subscription": "sub_fail",
		})

		err := service.handleInvoicePaymentFailed(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusPastDue, subscription.Status)
	})

	t.Run("acknowledges subscriptions already past due", func(t *testing.T) {
		service, subscriptionRepo := newWebhookServiceFixture()

		tenantID := uuid.New()
		subscription := storedSubscription(t, tenantID, billing.PlanStandard)
		require.NoError(t, subscription.Activate(time.Now(), time.Now().AddDate(0, 1, 0)))
		require.NoError(t, subscription.MarkPastDue())
		subscription.ClearDomainEvents()

		subscriptionRepo.On("FindByStripeSubscriptionID", mock.Anything, "sub_fail2").Return(subscription, nil)

		event := stripeEvent(t, map[string]interface{}{
			"id":           "in_fail2",
			"subscription": "sub_fail2",
		})

		err := service.handleInvoicePaymentFailed(ctx, event)

		require.NoError(t, err)
		subscriptionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
