package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
	"github.com/openbooks/backend/internal/infrastructure/persistence/tenant"
)

// GormResourceCounter counts tenant resources for usage snapshots
type GormResourceCounter struct {
	db *gorm.DB
}

// NewGormResourceCounter creates a new GormResourceCounter
func NewGormResourceCounter(db *gorm.DB) *GormResourceCounter {
	return &GormResourceCounter{db: db}
}

// CountUsers counts users belonging to the tenant
func (r *GormResourceCounter) CountUsers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &models.UserModel{}, tenantID)
}

// CountAccounts counts ledger accounts belonging to the tenant
func (r *GormResourceCounter) CountAccounts(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &models.AccountModel{}, tenantID)
}

// CountCompanies counts companies belonging to the tenant
func (r *GormResourceCounter) CountCompanies(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &models.CompanyModel{}, tenantID)
}

// CountCustomers counts customers belonging to the tenant
func (r *GormResourceCounter) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &partner.Customer{}, tenantID)
}

// CountVendors counts vendors belonging to the tenant
func (r *GormResourceCounter) CountVendors(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &partner.Vendor{}, tenantID)
}

// CountInvoices counts invoices belonging to the tenant
func (r *GormResourceCounter) CountInvoices(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.countByTenant(ctx, &invoicing.Invoice{}, tenantID)
}

func (r *GormResourceCounter) countByTenant(ctx context.Context, model interface{}, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Scopes(tenant.TenantScope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
