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
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Payment, error) {
	var payment invoicing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByIDForTenant finds a payment by ID for a specific tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Payment, error) {
	var payment invoicing.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByNumber finds a payment by its number within a company
func (r *GormPaymentRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, paymentNumber string) (*invoicing.Payment, error) {
	var payment invoicing.Payment
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND payment_number = ?", companyID, paymentNumber).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForCompany finds all payments for a company with filtering
func (r *GormPaymentRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.PaymentFilter) ([]invoicing.Payment, error) {
	var payments []invoicing.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Payment{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByParty finds payments for a customer or vendor
func (r *GormPaymentRepository) FindByParty(ctx context.Context, companyID, partyID uuid.UUID, filter invoicing.PaymentFilter) ([]invoicing.Payment, error) {
	var payments []invoicing.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Payment{}).
			Where("company_id = ? AND party_id = ?", companyID, partyID),
		filter,
	)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByAllocatedDocument finds payments carrying an allocation against a document.
// Allocations are stored as a JSONB array, so this uses containment matching.
func (r *GormPaymentRepository) FindByAllocatedDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]invoicing.Payment, error) {
	var payments []invoicing.Payment
	match := fmt.Sprintf(`[{"document_id": %q}]`, documentID)
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND allocations @> ?", companyID, match).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// NextPaymentNumber allocates the next sequential payment number for a company.
// Format: PAY-YYYY-NNNN (e.g., PAY-2026-0001)
func (r *GormPaymentRepository) NextPaymentNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PAY-%d-", year)

	var lastPayment invoicing.Payment
	err := r.db.WithContext(ctx).
		Model(&invoicing.Payment{}).
		Where("company_id = ? AND payment_number LIKE ?", companyID, prefix+"%").
		Order("payment_number DESC").
		First(&lastPayment).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequence(lastPayment.PaymentNumber)
	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *invoicing.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *invoicing.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&invoicing.Payment{}).
			Where("id = ?", payment.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != payment.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}

		payment.Version++
		payment.UpdatedAt = time.Now()

		result := tx.Model(&invoicing.Payment{}).
			Where("id = ? AND version = ?", payment.ID, currentVersion).
			Updates(map[string]interface{}{
				"party_id":     payment.PartyID,
				"party_name":   payment.PartyName,
				"method":       payment.Method,
				"reference":    payment.Reference,
				"payment_date": payment.PaymentDate,
				"currency":     payment.Currency,
				"amount":       payment.Amount,
				"allocations":  payment.Allocations,
				"status":       payment.Status,
				"memo":         payment.Memo,
				"confirmed_at": payment.ConfirmedAt,
				"confirmed_by": payment.ConfirmedBy,
				"voided_at":    payment.VoidedAt,
				"voided_by":    payment.VoidedBy,
				"void_reason":  payment.VoidReason,
				"version":      payment.Version,
				"updated_at":   payment.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a draft payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&invoicing.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForCompany counts payments for a company matching the filter
func (r *GormPaymentRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.PaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&invoicing.Payment{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter invoicing.PaymentFilter) *gorm.DB {
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
		query = query.Order("payment_date DESC, payment_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter invoicing.PaymentFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("payment_number ILIKE ? OR party_name ILIKE ? OR reference ILIKE ? OR memo ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date <= ?", *filter.DateTo)
	}

	return query
}
