package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *billing.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

// FindByID finds a subscription by ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var subscription billing.Subscription
	if err := r.db.WithContext(ctx).First(&subscription, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

// FindByTenantID finds the subscription belonging to a tenant
func (r *GormSubscriptionRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, error) {
	var subscription billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

// FindByStripeSubscriptionID finds a subscription by its Stripe subscription ID
func (r *GormSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error) {
	if stripeSubscriptionID == "" {
		return nil, shared.ErrNotFound
	}
	var subscription billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

// FindByStripeCustomerID finds a subscription by its Stripe customer ID
func (r *GormSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*billing.Subscription, error) {
	if stripeCustomerID == "" {
		return nil, shared.ErrNotFound
	}
	var subscription billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", stripeCustomerID).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

// FindByStatus finds subscriptions by status
func (r *GormSubscriptionRepository) FindByStatus(ctx context.Context, status billing.SubscriptionStatus) ([]*billing.Subscription, error) {
	var subscriptions []*billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// FindTrialsEndingBefore finds trialing subscriptions whose trial expires before the cutoff
func (r *GormSubscriptionRepository) FindTrialsEndingBefore(ctx context.Context, cutoff time.Time) ([]*billing.Subscription, error) {
	var subscriptions []*billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?",
			billing.SubscriptionStatusTrialing, cutoff).
		Order("trial_ends_at ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// CountByStatus counts subscriptions by status
func (r *GormSubscriptionRepository) CountByStatus(ctx context.Context, status billing.SubscriptionStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
