package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByIDForTenant finds a vendor by ID within a tenant
func (r *GormVendorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode finds a vendor by its code within a company
func (r *GormVendorRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, strings.ToUpper(code)).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAllForCompany finds all vendors for a company
func (r *GormVendorRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	var vendors []partner.Vendor
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Vendor{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindByStatus finds vendors by status for a company
func (r *GormVendorRepository) FindByStatus(ctx context.Context, companyID uuid.UUID, status partner.VendorStatus, filter shared.Filter) ([]partner.Vendor, error) {
	var vendors []partner.Vendor
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Vendor{}).
			Where("company_id = ? AND status = ?", companyID, status),
		filter,
	)

	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindActive finds all active vendors for a company
func (r *GormVendorRepository) FindActive(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	return r.FindByStatus(ctx, companyID, partner.VendorStatusActive, filter)
}

// FindByIDs finds multiple vendors by their IDs
func (r *GormVendorRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]partner.Vendor, error) {
	if len(ids) == 0 {
		return []partner.Vendor{}, nil
	}

	var vendors []partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// SaveWithLock saves a vendor with optimistic locking (version check)
func (r *GormVendorRepository) SaveWithLock(ctx context.Context, vendor *partner.Vendor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&partner.Vendor{}).
			Where("id = ?", vendor.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != vendor.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The vendor has been modified by another user")
		}

		vendor.Version++
		vendor.UpdatedAt = time.Now()

		result := tx.Model(&partner.Vendor{}).
			Where("id = ? AND version = ?", vendor.ID, currentVersion).
			Updates(map[string]interface{}{
				"name":                       vendor.Name,
				"short_name":                 vendor.ShortName,
				"status":                     vendor.Status,
				"contact_name":               vendor.ContactName,
				"phone":                      vendor.Phone,
				"email":                      vendor.Email,
				"address":                    vendor.Address,
				"currency":                   vendor.Currency,
				"payment_terms_days":         vendor.PaymentTermsDays,
				"tax_id":                     vendor.TaxID,
				"bank_name":                  vendor.BankName,
				"bank_account":               vendor.BankAccount,
				"default_expense_account_id": vendor.DefaultExpenseAccountID,
				"notes":                      vendor.Notes,
				"attributes":                 vendor.Attributes,
				"version":                    vendor.Version,
				"updated_at":                 vendor.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The vendor has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForCompany counts vendors for a company
func (r *GormVendorRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&partner.Vendor{}).Where("company_id = ?", companyID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a vendor with the given code exists in the company
func (r *GormVendorRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Vendor{}).
		Where("company_id = ? AND code = ?", companyID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies common filter options including pagination
func (r *GormVendorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
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

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormVendorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		}
	}

	return query
}
