package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the persistence interface for subscriptions
type SubscriptionRepository interface {
	Save(ctx context.Context, subscription *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)
	FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)
	FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*Subscription, error)
	FindByStatus(ctx context.Context, status SubscriptionStatus) ([]*Subscription, error)
	FindTrialsEndingBefore(ctx context.Context, cutoff time.Time) ([]*Subscription, error)
	CountByStatus(ctx context.Context, status SubscriptionStatus) (int64, error)
}
