package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// BillStatus represents the status of a vendor bill
type BillStatus string

const (
	BillStatusDraft         BillStatus = "DRAFT"
	BillStatusApproved      BillStatus = "APPROVED"
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillStatusPaid          BillStatus = "PAID"
	BillStatusVoid          BillStatus = "VOID"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDraft, BillStatusApproved, BillStatusPartiallyPaid, BillStatusPaid, BillStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the bill is in a terminal state
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusVoid
}

// CanApplyPayment returns true if payments can be applied in this status
func (s BillStatus) CanApplyPayment() bool {
	return s == BillStatusApproved || s == BillStatusPartiallyPaid
}

// Bill represents a vendor bill (accounts payable).
// It is the aggregate root for bill-related operations
type Bill struct {
	shared.TenantAggregateRoot
	CompanyID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"company_id"`
	BillNumber      string               `gorm:"type:varchar(30);not null;uniqueIndex:idx_bill_company_number,priority:2" json:"bill_number"`
	VendorID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"vendor_id"`
	VendorName      string               `gorm:"type:varchar(200);not null" json:"vendor_name"`      // Snapshot at entry time
	VendorReference string               `gorm:"type:varchar(100)" json:"vendor_reference"`          // The vendor's own invoice number
	BillDate        time.Time            `gorm:"not null;index" json:"bill_date"`
	DueDate         time.Time            `gorm:"not null;index" json:"due_date"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null" json:"currency"`
	Lines           DocumentLines        `gorm:"type:jsonb" json:"lines"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxTotal        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"tax_total"`
	Total           decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	PaidAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	Status          BillStatus           `gorm:"type:varchar(20);not null;index" json:"status"`
	Memo            string               `gorm:"type:text" json:"memo"`
	ApprovedAt      *time.Time           `json:"approved_at"`
	ApprovedBy      *uuid.UUID           `gorm:"type:uuid" json:"approved_by"`
	PaidAt          *time.Time           `json:"paid_at"`
	VoidedAt        *time.Time           `json:"voided_at"`
	VoidedBy        *uuid.UUID           `gorm:"type:uuid" json:"voided_by"`
	VoidReason      string               `gorm:"type:varchar(500)" json:"void_reason"`
}

// TableName returns the database table name
func (Bill) TableName() string {
	return "bills"
}

// NewBill creates a draft bill
func NewBill(
	tenantID, companyID uuid.UUID,
	billNumber string,
	vendorID uuid.UUID,
	vendorName string,
	billDate, dueDate time.Time,
	currency valueobject.Currency,
) (*Bill, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot exceed 50 characters")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}
	if billDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Bill and due dates are required")
	}
	if dueDate.Before(billDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Due date cannot be before bill date")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}

	bill := &Bill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		BillNumber:          billNumber,
		VendorID:            vendorID,
		VendorName:          vendorName,
		BillDate:            billDate,
		DueDate:             dueDate,
		Currency:            currency,
		Lines:               DocumentLines{},
		Subtotal:            decimal.Zero,
		TaxTotal:            decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              BillStatusDraft,
	}

	bill.AddDomainEvent(NewBillCreatedEvent(bill))

	return bill, nil
}

// SetVendorReference records the vendor's own invoice number
func (b *Bill) SetVendorReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Vendor reference cannot exceed 100 characters")
	}

	b.VendorReference = reference
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetLines replaces the lines on a draft bill and recomputes totals
func (b *Bill) SetLines(lines []DocumentLine) error {
	if b.Status != BillStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be changed on draft bills")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "Bill must have at least one line")
	}

	b.Lines = make(DocumentLines, 0, len(lines))
	for _, line := range lines {
		line.Position = len(b.Lines)
		b.Lines = append(b.Lines, line)
	}
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// AddLine appends a line to a draft bill and recomputes totals
func (b *Bill) AddLine(line DocumentLine) error {
	if b.Status != BillStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft bills")
	}

	line.Position = len(b.Lines)
	b.Lines = append(b.Lines, line)
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

func (b *Bill) recalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, line := range b.Lines {
		subtotal = subtotal.Add(line.Amount)
		taxTotal = taxTotal.Add(line.TaxAmount)
	}
	b.Subtotal = subtotal
	b.TaxTotal = taxTotal
	b.Total = subtotal.Add(taxTotal)
}

// SetMemo sets the bill memo
func (b *Bill) SetMemo(memo string) error {
	if len(memo) > 500 {
		return shared.NewDomainError("INVALID_MEMO", "Memo cannot exceed 500 characters")
	}

	b.Memo = memo
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Approve transitions the bill from draft to approved. The approver must
// differ from the creator, which the application service enforces against
// CreatedBy before calling.
func (b *Bill) Approve(approvedBy uuid.UUID) error {
	if b.Status != BillStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve bill in %s status", b.Status))
	}
	if len(b.Lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "Bill must have at least one line")
	}
	if !b.Total.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Bill total must be positive")
	}

	now := time.Now()
	b.Status = BillStatusApproved
	b.ApprovedAt = &now
	b.ApprovedBy = &approvedBy
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillApprovedEvent(b))

	return nil
}

// OutstandingAmount returns the unpaid remainder
func (b *Bill) OutstandingAmount() decimal.Decimal {
	return b.Total.Sub(b.PaidAmount)
}

// ApplyPayment records a settled amount against the bill
func (b *Bill) ApplyPayment(amount decimal.Decimal) error {
	if !b.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to bill in %s status", b.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(b.OutstandingAmount()) {
		return shared.ErrOverAllocation
	}

	b.PaidAmount = b.PaidAmount.Add(amount)

	if b.OutstandingAmount().IsZero() {
		now := time.Now()
		b.Status = BillStatusPaid
		b.PaidAt = &now
		b.AddDomainEvent(NewBillPaidEvent(b))
	} else {
		b.Status = BillStatusPartiallyPaid
	}

	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// ReversePayment backs out a previously applied amount
func (b *Bill) ReversePayment(amount decimal.Decimal) error {
	if b.Status == BillStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reverse payment on a void bill")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(b.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount exceeds paid amount")
	}

	b.PaidAmount = b.PaidAmount.Sub(amount)
	b.PaidAt = nil

	if b.PaidAmount.IsZero() {
		b.Status = BillStatusApproved
	} else {
		b.Status = BillStatusPartiallyPaid
	}

	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Void voids the bill. Bills with applied payments cannot be voided until
// the payments are reversed.
func (b *Bill) Void(voidedBy uuid.UUID, reason string) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void bill in %s status", b.Status))
	}
	if b.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot void bill with applied payments")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	b.Status = BillStatusVoid
	b.VoidedAt = &now
	b.VoidedBy = &voidedBy
	b.VoidReason = strings.TrimSpace(reason)
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillVoidedEvent(b))

	return nil
}

// IsDraft returns true if the bill is still editable
func (b *Bill) IsDraft() bool {
	return b.Status == BillStatusDraft
}

// IsPaid returns true if the bill is fully settled
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

// IsOverdue returns true if the bill is past due and not settled
func (b *Bill) IsOverdue() bool {
	if b.Status.IsTerminal() || b.Status == BillStatusDraft {
		return false
	}
	return time.Now().After(b.DueDate)
}
