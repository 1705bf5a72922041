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

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForTenant finds an invoice by ID for a specific tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its number within a company
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND invoice_number = ?", companyID, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForCompany finds all invoices for a company with filtering
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Invoice{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByCustomer finds invoices for a customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
			Where("company_id = ? AND customer_id = ?", companyID, customerID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOutstanding finds invoices that still accept payment for a customer
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, companyID, customerID uuid.UUID) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ? AND status IN ?",
			companyID, customerID, payableInvoiceStatuses()).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdue finds all overdue invoices for a company
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, companyID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Invoice{}).
			Where("company_id = ? AND status IN ? AND due_date < ?",
				companyID, payableInvoiceStatuses(), time.Now()),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// NextInvoiceNumber allocates the next sequential invoice number for a company.
// Format: INV-YYYY-NNNN (e.g., INV-2026-0001)
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	var lastInvoice invoicing.Invoice
	err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("company_id = ? AND invoice_number LIKE ?", companyID, prefix+"%").
		Order("invoice_number DESC").
		First(&lastInvoice).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequence(lastInvoice.InvoiceNumber)
	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// CountIssuedInMonth counts non-draft invoices issued in a month, used for plan limits
func (r *GormInvoiceRepository) CountIssuedInMonth(ctx context.Context, tenantID uuid.UUID, year int, month int) (int64, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("tenant_id = ? AND status <> ? AND issue_date >= ? AND issue_date < ?",
			tenantID, invoicing.InvoiceStatusDraft, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&invoicing.Invoice{}).
			Where("id = ?", invoice.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != invoice.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		invoice.Version++
		invoice.UpdatedAt = time.Now()

		result := tx.Model(&invoicing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_id":   invoice.CustomerID,
				"customer_name": invoice.CustomerName,
				"issue_date":    invoice.IssueDate,
				"due_date":      invoice.DueDate,
				"currency":      invoice.Currency,
				"lines":         invoice.Lines,
				"subtotal":      invoice.Subtotal,
				"tax_total":     invoice.TaxTotal,
				"total":         invoice.Total,
				"paid_amount":   invoice.PaidAmount,
				"status":        invoice.Status,
				"memo":          invoice.Memo,
				"approved_at":   invoice.ApprovedAt,
				"approved_by":   invoice.ApprovedBy,
				"sent_at":       invoice.SentAt,
				"paid_at":       invoice.PaidAt,
				"voided_at":     invoice.VoidedAt,
				"voided_by":     invoice.VoidedBy,
				"void_reason":   invoice.VoidReason,
				"version":       invoice.Version,
				"updated_at":    invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a draft invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&invoicing.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForCompany counts invoices for a company matching the filter
func (r *GormInvoiceRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&invoicing.Invoice{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// payableInvoiceStatuses lists statuses that still accept payment
func payableInvoiceStatuses() []invoicing.InvoiceStatus {
	return []invoicing.InvoiceStatus{
		invoicing.InvoiceStatusApproved,
		invoicing.InvoiceStatusSent,
		invoicing.InvoiceStatusPartiallyPaid,
	}
}

// applyFilter applies filter options including pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
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
		query = query.Order("issue_date DESC, invoice_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ? OR memo ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IssueFrom != nil {
		query = query.Where("issue_date >= ?", *filter.IssueFrom)
	}
	if filter.IssueTo != nil {
		query = query.Where("issue_date <= ?", *filter.IssueTo)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("status IN ? AND due_date < ?", payableInvoiceStatuses(), time.Now())
	}

	return query
}

// nextSequence parses the trailing sequence of a document number and returns
// the next value, starting at 1 when the number is empty or malformed
func nextSequence(number string) int64 {
	if number == "" {
		return 1
	}
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return 1
	}
	var num int64
	if _, err := fmt.Sscanf(parts[2], "%d", &num); err != nil {
		return 1
	}
	return num + 1
}
