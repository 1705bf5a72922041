package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID within the tenant
func (r *GormCompanyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all companies for the tenant matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR legal_name ILIKE ?", keyword, keyword)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, CompanySortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	query = query.Offset(offset).Limit(limit)

	var companyModels []models.CompanyModel
	if err := query.Find(&companyModels).Error; err != nil {
		return nil, 0, err
	}

	companies := make([]identity.Company, len(companyModels))
	for i, model := range companyModels {
		companies[i] = *model.ToDomain()
	}

	return companies, total, nil
}

// FindActive finds all active companies for the tenant
func (r *GormCompanyRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]identity.Company, error) {
	var companyModels []models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, identity.CompanyStatusActive).
		Order("name ASC").
		Find(&companyModels).Error; err != nil {
		return nil, err
	}

	companies := make([]identity.Company, len(companyModels))
	for i, model := range companyModels {
		companies[i] = *model.ToDomain()
	}

	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	model := models.CompanyModelFromDomain(company)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.CompanyModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts companies for the tenant
func (r *GormCompanyRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a company with the given name exists in the tenant
func (r *GormCompanyRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
