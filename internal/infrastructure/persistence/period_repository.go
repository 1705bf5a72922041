package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
)

// GormPeriodRepository implements PeriodRepository using GORM
type GormPeriodRepository struct {
	db *gorm.DB
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

// Create creates a new accounting period
func (r *GormPeriodRepository) Create(ctx context.Context, period *ledger.AccountingPeriod) error {
	model := models.AccountingPeriodModelFromDomain(period)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	*period = *model.ToDomain()
	return nil
}

// Update updates an existing accounting period
func (r *GormPeriodRepository) Update(ctx context.Context, period *ledger.AccountingPeriod) error {
	model := models.AccountingPeriodModelFromDomain(period)
	result := r.db.WithContext(ctx).
		Model(&models.AccountingPeriodModel{}).
		Where("id = ?", period.ID).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"closed_at":   model.ClosedAt,
			"closed_by":   model.ClosedBy,
			"reopened_at": model.ReopenedAt,
			"reopened_by": model.ReopenedBy,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a period by ID
func (r *GormPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMonth finds a company's period for a specific year and month
func (r *GormPeriodRepository) FindByMonth(ctx context.Context, companyID uuid.UUID, year, month int) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND year = ? AND month = ?", companyID, year, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds the period containing the given date
func (r *GormPeriodRepository) FindByDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND start_date <= ? AND end_date >= ?", companyID, date, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a company's periods ordered by year and month
func (r *GormPeriodRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]*ledger.AccountingPeriod, error) {
	var periodModels []models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("year ASC, month ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return toPeriods(periodModels), nil
}

// FindOpen returns all open periods for a company
func (r *GormPeriodRepository) FindOpen(ctx context.Context, companyID uuid.UUID) ([]*ledger.AccountingPeriod, error) {
	var periodModels []models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, ledger.PeriodStatusOpen).
		Order("year ASC, month ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return toPeriods(periodModels), nil
}

// FindLatestClosed returns the most recently closed period, or nil
func (r *GormPeriodRepository) FindLatestClosed(ctx context.Context, companyID uuid.UUID) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, ledger.PeriodStatusClosed).
		Order("year DESC, month DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func toPeriods(periodModels []models.AccountingPeriodModel) []*ledger.AccountingPeriod {
	periods := make([]*ledger.AccountingPeriod, 0, len(periodModels))
	for i := range periodModels {
		periods = append(periods, periodModels[i].ToDomain())
	}
	return periods
}
