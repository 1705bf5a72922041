package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
)

// GormJournalRepository implements JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// Create creates a new journal entry with its lines
func (r *GormJournalRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	*entry = *model.ToDomain()
	return nil
}

// Update updates an existing journal entry and replaces its lines
func (r *GormJournalRepository) Update(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.JournalEntryModel{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"entry_number": model.EntryNumber,
				"entry_date":   model.EntryDate,
				"memo":         model.Memo,
				"currency":     model.Currency,
				"status":       model.Status,
				"source":       model.Source,
				"source_id":    model.SourceID,
				"posted_at":    model.PostedAt,
				"posted_by":    model.PostedBy,
				"voided_at":    model.VoidedAt,
				"voided_by":    model.VoidedBy,
				"void_reason":  model.VoidReason,
				"reverses_id":  model.ReversesID,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Delete(&models.JournalLineModel{}, "entry_id = ?", entry.ID).Error; err != nil {
			return err
		}
		if len(model.Lines) > 0 {
			if err := tx.Create(&model.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a draft journal entry by ID
func (r *GormJournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.JournalLineModel{}, "entry_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.JournalEntryModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a journal entry with its lines by ID
func (r *GormJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntryNumber finds a journal entry by its posted number within a company
func (r *GormJournalRepository) FindByEntryNumber(ctx context.Context, companyID uuid.UUID, entryNumber string) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("company_id = ? AND entry_number = ?", companyID, entryNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds entries generated from a source document
func (r *GormJournalRepository) FindBySource(ctx context.Context, source ledger.JournalSource, sourceID uuid.UUID) ([]*ledger.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("source = ? AND source_id = ?", source, sourceID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*ledger.JournalEntry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, entryModels[i].ToDomain())
	}
	return entries, nil
}

// FindAll returns journal entries for a company with pagination
func (r *GormJournalRepository) FindAll(ctx context.Context, filter ledger.JournalFilter) ([]*ledger.JournalEntry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("company_id = ?", filter.CompanyID)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("entry_number ILIKE ? OR memo ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.AccountID != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.JournalLineModel{}).
				Select("entry_id").
				Where("account_id = ?", *filter.AccountID),
		)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if !isValidJournalSortField(sortBy) {
		sortBy = "entry_date"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDir = "ASC"
	}

	var entryModels []models.JournalEntryModel
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(sortBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*ledger.JournalEntry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, entryModels[i].ToDomain())
	}
	return entries, total, nil
}

// NextEntryNumber allocates the next sequential entry number for a company
// within a year. Format: JE-YYYY-NNNNNN (e.g., JE-2026-000042)
func (r *GormJournalRepository) NextEntryNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error) {
	prefix := fmt.Sprintf("JE-%d-", year)

	var lastEntry models.JournalEntryModel
	err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("company_id = ? AND entry_number LIKE ?", companyID, prefix+"%").
		Order("entry_number DESC").
		First(&lastEntry).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequence(lastEntry.EntryNumber)
	return fmt.Sprintf("%s%06d", prefix, nextNum), nil
}

// CountDraftsInRange counts draft entries dated within the range
func (r *GormJournalRepository) CountDraftsInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("company_id = ? AND status = ? AND entry_date >= ? AND entry_date <= ?",
			companyID, ledger.JournalStatusDraft, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AccountBalances aggregates posted lines per account over a date range.
// A zero from-time means "from the beginning", used by balance sheet queries.
func (r *GormJournalRepository) AccountBalances(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]ledger.AccountBalance, error) {
	query := r.db.WithContext(ctx).
		Table("journal_lines").
		Select(`accounts.id AS account_id,
			accounts.code AS account_code,
			accounts.name AS account_name,
			accounts.type AS account_type,
			COALESCE(SUM(journal_lines.debit), 0) AS debits,
			COALESCE(SUM(journal_lines.credit), 0) AS credits`).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Joins("JOIN accounts ON accounts.id = journal_lines.account_id").
		Where("journal_entries.company_id = ? AND journal_entries.status = ?",
			companyID, ledger.JournalStatusPosted).
		Where("journal_entries.entry_date <= ?", to)

	if !from.IsZero() {
		query = query.Where("journal_entries.entry_date >= ?", from)
	}

	var balances []ledger.AccountBalance
	if err := query.
		Group("accounts.id, accounts.code, accounts.name, accounts.type").
		Order("accounts.code ASC").
		Scan(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// isValidJournalSortField whitelists sortable columns to keep user input out
// of the ORDER BY clause
func isValidJournalSortField(field string) bool {
	switch field {
	case "entry_date", "entry_number", "status", "created_at":
		return true
	}
	return false
}
