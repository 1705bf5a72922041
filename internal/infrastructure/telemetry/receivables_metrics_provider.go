// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivablesMetricsProvider implements ReceivablesMetricsProvider using
// GORM. It aggregates over the invoices table directly; amounts are reported
// in minor units so the gauge stays integral.
type GormReceivablesMetricsProvider struct {
	db *gorm.DB
}

// NewGormReceivablesMetricsProvider creates a new GormReceivablesMetricsProvider.
func NewGormReceivablesMetricsProvider(db *gorm.DB) *GormReceivablesMetricsProvider {
	return &GormReceivablesMetricsProvider{db: db}
}

// GetOutstandingReceivables returns the unpaid invoice balance per company
// for a tenant, in minor currency units.
func (p *GormReceivablesMetricsProvider) GetOutstandingReceivables(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		CompanyID   uuid.UUID `gorm:"column:company_id"`
		Outstanding int64     `gorm:"column:outstanding"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("invoices").
		Select("company_id, COALESCE(SUM(ROUND((total - paid_amount) * 100)), 0) as outstanding").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Where("status IN ?", []string{"APPROVED", "SENT", "PARTIALLY_PAID"}).
		Group("company_id").
		Having("SUM(total - paid_amount) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.CompanyID] = r.Outstanding
	}

	return m, nil
}

// GetOverdueInvoiceCount returns the number of open invoices past their due
// date for a tenant.
func (p *GormReceivablesMetricsProvider) GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("invoices").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Where("status IN ?", []string{"APPROVED", "SENT", "PARTIALLY_PAID"}).
		Where("due_date < ?", time.Now()).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("deleted_at IS NULL AND status = ?", "active").
		Find(&ids).Error

	return ids, err
}
