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

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Bill, error) {
	var bill invoicing.Bill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByIDForTenant finds a bill by ID for a specific tenant
func (r *GormBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Bill, error) {
	var bill invoicing.Bill
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByNumber finds a bill by its number within a company
func (r *GormBillRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, billNumber string) (*invoicing.Bill, error) {
	var bill invoicing.Bill
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND bill_number = ?", companyID, billNumber).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindAllForCompany finds all bills for a company with filtering
func (r *GormBillRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.BillFilter) ([]invoicing.Bill, error) {
	var bills []invoicing.Bill
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Bill{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindByVendor finds bills for a vendor
func (r *GormBillRepository) FindByVendor(ctx context.Context, companyID, vendorID uuid.UUID, filter invoicing.BillFilter) ([]invoicing.Bill, error) {
	var bills []invoicing.Bill
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Bill{}).
			Where("company_id = ? AND vendor_id = ?", companyID, vendorID),
		filter,
	)

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindOutstanding finds bills that still accept payment for a vendor
func (r *GormBillRepository) FindOutstanding(ctx context.Context, companyID, vendorID uuid.UUID) ([]invoicing.Bill, error) {
	var bills []invoicing.Bill
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND vendor_id = ? AND status IN ?",
			companyID, vendorID, payableBillStatuses()).
		Order("due_date ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindOverdue finds all overdue bills for a company
func (r *GormBillRepository) FindOverdue(ctx context.Context, companyID uuid.UUID, filter invoicing.BillFilter) ([]invoicing.Bill, error) {
	var bills []invoicing.Bill
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Bill{}).
			Where("company_id = ? AND status IN ? AND due_date < ?",
				companyID, payableBillStatuses(), time.Now()),
		filter,
	)

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// NextBillNumber allocates the next sequential bill number for a company.
// Format: BILL-YYYY-NNNN (e.g., BILL-2026-0001)
func (r *GormBillRepository) NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("BILL-%d-", year)

	var lastBill invoicing.Bill
	err := r.db.WithContext(ctx).
		Model(&invoicing.Bill{}).
		Where("company_id = ? AND bill_number LIKE ?", companyID, prefix+"%").
		Order("bill_number DESC").
		First(&lastBill).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextSequence(lastBill.BillNumber)
	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *invoicing.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *invoicing.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&invoicing.Bill{}).
			Where("id = ?", bill.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != bill.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The bill has been modified by another user")
		}

		bill.Version++
		bill.UpdatedAt = time.Now()

		result := tx.Model(&invoicing.Bill{}).
			Where("id = ? AND version = ?", bill.ID, currentVersion).
			Updates(map[string]interface{}{
				"vendor_id":        bill.VendorID,
				"vendor_name":      bill.VendorName,
				"vendor_reference": bill.VendorReference,
				"bill_date":        bill.BillDate,
				"due_date":         bill.DueDate,
				"currency":         bill.Currency,
				"lines":            bill.Lines,
				"subtotal":         bill.Subtotal,
				"tax_total":        bill.TaxTotal,
				"total":            bill.Total,
				"paid_amount":      bill.PaidAmount,
				"status":           bill.Status,
				"memo":             bill.Memo,
				"approved_at":      bill.ApprovedAt,
				"approved_by":      bill.ApprovedBy,
				"paid_at":          bill.PaidAt,
				"voided_at":        bill.VoidedAt,
				"voided_by":        bill.VoidedBy,
				"void_reason":      bill.VoidReason,
				"version":          bill.Version,
				"updated_at":       bill.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The bill has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a draft bill
func (r *GormBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&invoicing.Bill{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForCompany counts bills for a company matching the filter
func (r *GormBillRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter invoicing.BillFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&invoicing.Bill{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// payableBillStatuses lists statuses that still accept payment
func payableBillStatuses() []invoicing.BillStatus {
	return []invoicing.BillStatus{
		invoicing.BillStatusApproved,
		invoicing.BillStatusPartiallyPaid,
	}
}

// applyFilter applies filter options including pagination
func (r *GormBillRepository) applyFilter(query *gorm.DB, filter invoicing.BillFilter) *gorm.DB {
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
		query = query.Order("bill_date DESC, bill_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter invoicing.BillFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("bill_number ILIKE ? OR vendor_name ILIKE ? OR vendor_reference ILIKE ? OR memo ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("bill_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("bill_date <= ?", *filter.DateTo)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("status IN ? AND due_date < ?", payableBillStatuses(), time.Now())
	}

	return query
}
