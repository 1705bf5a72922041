package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/tax"
)

// GormTaxRateRepository implements TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// Delete deletes a tax rate
func (r *GormTaxRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tax.TaxRate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a tax rate by ID
func (r *GormTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	var rate tax.TaxRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindByIDForTenant finds a tax rate by ID within a tenant
func (r *GormTaxRateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tax.TaxRate, error) {
	var rate tax.TaxRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindByCode finds a tax rate by its code within a tenant
func (r *GormTaxRateRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*tax.TaxRate, error) {
	var rate tax.TaxRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindAllForTenant finds all tax rates for a tenant
func (r *GormTaxRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*tax.TaxRate, error) {
	query := r.db.WithContext(ctx).
		Model(&tax.TaxRate{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR jurisdiction ILIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "jurisdiction":
			query = query.Where("jurisdiction = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("code ASC")
	}

	var rates []*tax.TaxRate
	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindUsableOn finds active rates effective on the given date
func (r *GormTaxRateRepository) FindUsableOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*tax.TaxRate, error) {
	var rates []*tax.TaxRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND effective_from <= ?", tenantID, true, date).
		Where("effective_to IS NULL OR effective_to >= ?", date).
		Order("code ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindByIDs finds multiple tax rates by their IDs
func (r *GormTaxRateRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*tax.TaxRate, error) {
	if len(ids) == 0 {
		return []*tax.TaxRate{}, nil
	}

	var rates []*tax.TaxRate
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// CountForTenant counts tax rates for a tenant
func (r *GormTaxRateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tax.TaxRate{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a tax rate with the given code exists in the tenant
func (r *GormTaxRateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tax.TaxRate{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsReferenced reports whether any invoice or bill line uses the rate.
// Lines are stored as JSONB arrays, so this uses containment matching.
func (r *GormTaxRateRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	match := fmt.Sprintf(`[{"tax_rate_id": %q}]`, id)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("lines @> ?", match).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&invoicing.Bill{}).
		Where("lines @> ?", match).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
