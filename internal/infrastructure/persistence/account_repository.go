package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	model := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	*account = *model.ToDomain()
	return nil
}

// Update updates an existing account
func (r *GormAccountRepository) Update(ctx context.Context, account *ledger.Account) error {
	model := models.AccountModelFromDomain(account)
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"parent_id":   model.ParentID,
			"description": model.Description,
			"is_active":   model.IsActive,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an account by ID
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by code within a company
func (r *GormAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns accounts for a company with pagination
func (r *GormAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]*ledger.Account, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("company_id = ?", filter.CompanyID)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if !isValidAccountSortField(sortBy) {
		sortBy = "code"
	}
	orderDir := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		orderDir = "DESC"
	}

	var accountModels []models.AccountModel
	if err := query.
		Order(sortBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&accountModels).Error; err != nil {
		return nil, 0, err
	}

	accounts := make([]*ledger.Account, 0, len(accountModels))
	for i := range accountModels {
		accounts = append(accounts, accountModels[i].ToDomain())
	}
	return accounts, total, nil
}

// FindChildren returns direct children of an account
func (r *GormAccountRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*ledger.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*ledger.Account, 0, len(accountModels))
	for i := range accountModels {
		accounts = append(accounts, accountModels[i].ToDomain())
	}
	return accounts, nil
}

// ExistsByCode checks if an account code already exists within a company
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("company_id = ? AND code = ?", companyID, strings.TrimSpace(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPostings reports whether any journal line references the account
func (r *GormAccountRepository) HasPostings(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JournalLineModel{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of accounts for a company
func (r *GormAccountRepository) Count(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// isValidAccountSortField whitelists sortable columns to keep user input out
// of the ORDER BY clause
func isValidAccountSortField(field string) bool {
	switch field {
	case "code", "name", "type", "created_at":
		return true
	}
	return false
}
