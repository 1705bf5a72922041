package invoicing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of a customer invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusApproved      InvoiceStatus = "APPROVED"       // Approved, not yet sent
	InvoiceStatusSent          InvoiceStatus = "SENT"           // Delivered to the customer
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < paid < total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully settled
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusApproved, InvoiceStatusSent,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusApproved || s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid
}

// DocumentLine is a single billable line on an invoice or bill.
// Amount and TaxAmount are derived and banker's-rounded to 2 places.
// The tax percentage is snapshotted so later rate changes never alter
// historical documents.
type DocumentLine struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxRateID     *uuid.UUID      `json:"tax_rate_id,omitempty"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Position      int             `json:"position"`
}

// NewDocumentLine creates a line and computes its amounts
func NewDocumentLine(description string, quantity, unitPrice decimal.Decimal) (DocumentLine, error) {
	if strings.TrimSpace(description) == "" {
		return DocumentLine{}, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if len(description) > 500 {
		return DocumentLine{}, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot exceed 500 characters")
	}
	if !quantity.IsPositive() {
		return DocumentLine{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return DocumentLine{}, shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}

	line := DocumentLine{
		ID:            uuid.New(),
		Description:   strings.TrimSpace(description),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TaxPercentage: decimal.Zero,
		TaxAmount:     decimal.Zero,
	}
	line.Amount = quantity.Mul(unitPrice).RoundBank(2)

	return line, nil
}

// WithTax applies a snapshotted tax rate to the line
func (l DocumentLine) WithTax(taxRateID uuid.UUID, percentage decimal.Decimal) (DocumentLine, error) {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return DocumentLine{}, shared.NewDomainError("INVALID_TAX_PERCENTAGE", "Tax percentage must be between 0 and 100")
	}

	id := taxRateID
	l.TaxRateID = &id
	l.TaxPercentage = percentage
	l.TaxAmount = l.Amount.Mul(percentage).Div(decimal.NewFromInt(100)).RoundBank(2)

	return l, nil
}

// Total returns the line amount including tax
func (l DocumentLine) Total() decimal.Decimal {
	return l.Amount.Add(l.TaxAmount)
}

// DocumentLines is a slice of DocumentLine that implements GORM Scanner/Valuer for JSONB storage
type DocumentLines []DocumentLine

// Value implements driver.Valuer interface for GORM to store as JSONB
func (d DocumentLines) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (d *DocumentLines) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DocumentLines: unsupported type")
	}

	if len(bytes) == 0 {
		*d = DocumentLines{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Invoice represents a customer invoice (accounts receivable).
// It is the aggregate root for invoice-related operations
type Invoice struct {
	shared.TenantAggregateRoot
	CompanyID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"company_id"`
	InvoiceNumber string               `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_company_number,priority:2" json:"invoice_number"`
	CustomerID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName  string               `gorm:"type:varchar(200);not null" json:"customer_name"` // Snapshot at issue time
	IssueDate     time.Time            `gorm:"not null;index" json:"issue_date"`
	DueDate       time.Time            `gorm:"not null;index" json:"due_date"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null" json:"currency"`
	Lines         DocumentLines        `gorm:"type:jsonb" json:"lines"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"tax_total"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	PaidAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	Status        InvoiceStatus        `gorm:"type:varchar(20);not null;index" json:"status"`
	Memo          string               `gorm:"type:text" json:"memo"`
	ApprovedAt    *time.Time           `json:"approved_at"`
	ApprovedBy    *uuid.UUID           `gorm:"type:uuid" json:"approved_by"`
	SentAt        *time.Time           `json:"sent_at"`
	PaidAt        *time.Time           `json:"paid_at"`
	VoidedAt      *time.Time           `json:"voided_at"`
	VoidedBy      *uuid.UUID           `gorm:"type:uuid" json:"voided_by"`
	VoidReason    string               `gorm:"type:varchar(500)" json:"void_reason"`
}

// TableName returns the database table name
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a draft invoice
func NewInvoice(
	tenantID, companyID uuid.UUID,
	invoiceNumber string,
	customerID uuid.UUID,
	customerName string,
	issueDate, dueDate time.Time,
	currency valueobject.Currency,
) (*Invoice, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if issueDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Issue and due dates are required")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Due date cannot be before issue date")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}

	invoice := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Currency:            currency,
		Lines:               DocumentLines{},
		Subtotal:            decimal.Zero,
		TaxTotal:            decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              InvoiceStatusDraft,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// SetLines replaces the lines on a draft invoice and recomputes totals
func (i *Invoice) SetLines(lines []DocumentLine) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be changed on draft invoices")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "Invoice must have at least one line")
	}

	i.Lines = make(DocumentLines, 0, len(lines))
	for _, line := range lines {
		line.Position = len(i.Lines)
		i.Lines = append(i.Lines, line)
	}
	i.recalculateTotals()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AddLine appends a line to a draft invoice and recomputes totals
func (i *Invoice) AddLine(line DocumentLine) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft invoices")
	}

	line.Position = len(i.Lines)
	i.Lines = append(i.Lines, line)
	i.recalculateTotals()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

func (i *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.Amount)
		taxTotal = taxTotal.Add(line.TaxAmount)
	}
	i.Subtotal = subtotal
	i.TaxTotal = taxTotal
	i.Total = subtotal.Add(taxTotal)
}

// SetMemo sets the invoice memo
func (i *Invoice) SetMemo(memo string) error {
	if len(memo) > 500 {
		return shared.NewDomainError("INVALID_MEMO", "Memo cannot exceed 500 characters")
	}

	i.Memo = memo
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetDueDate updates the due date on a non-terminal invoice
func (i *Invoice) SetDueDate(dueDate time.Time) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify due date for invoice in terminal state")
	}
	if dueDate.Before(i.IssueDate) {
		return shared.NewDomainError("INVALID_DATES", "Due date cannot be before issue date")
	}

	i.DueDate = dueDate
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Approve transitions the invoice from draft to approved. The approver must
// differ from the creator, which the application service enforces against
// CreatedBy before calling.
func (i *Invoice) Approve(approvedBy uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "Invoice must have at least one line")
	}
	if !i.Total.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}

	now := time.Now()
	i.Status = InvoiceStatusApproved
	i.ApprovedAt = &now
	i.ApprovedBy = &approvedBy
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceApprovedEvent(i))

	return nil
}

// MarkSent records that the invoice was delivered to the customer
func (i *Invoice) MarkSent() error {
	if i.Status != InvoiceStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved invoices can be sent")
	}

	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceSentEvent(i))

	return nil
}

// OutstandingAmount returns the unpaid remainder
func (i *Invoice) OutstandingAmount() decimal.Decimal {
	return i.Total.Sub(i.PaidAmount)
}

// ApplyPayment records a settled amount against the invoice
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !i.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to invoice in %s status", i.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(i.OutstandingAmount()) {
		return shared.ErrOverAllocation
	}

	i.PaidAmount = i.PaidAmount.Add(amount)

	if i.OutstandingAmount().IsZero() {
		now := time.Now()
		i.Status = InvoiceStatusPaid
		i.PaidAt = &now
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	} else {
		i.Status = InvoiceStatusPartiallyPaid
		i.AddDomainEvent(NewInvoicePartiallyPaidEvent(i, amount))
	}

	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ReversePayment backs out a previously applied amount, e.g. when the
// settling payment is voided
func (i *Invoice) ReversePayment(amount decimal.Decimal) error {
	if i.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reverse payment on a void invoice")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(i.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount exceeds paid amount")
	}

	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.PaidAt = nil

	if i.PaidAmount.IsZero() {
		i.Status = InvoiceStatusSent
	} else {
		i.Status = InvoiceStatusPartiallyPaid
	}

	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Void voids the invoice. Invoices with applied payments cannot be voided
// until the payments are reversed.
func (i *Invoice) Void(voidedBy uuid.UUID, reason string) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", i.Status))
	}
	if i.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot void invoice with applied payments")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusVoid
	i.VoidedAt = &now
	i.VoidedBy = &voidedBy
	i.VoidReason = strings.TrimSpace(reason)
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceVoidedEvent(i))

	return nil
}

// IsDraft returns true if the invoice is still editable
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice is fully settled
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is past due and not settled
func (i *Invoice) IsOverdue() bool {
	if i.Status.IsTerminal() || i.Status == InvoiceStatusDraft {
		return false
	}
	return time.Now().After(i.DueDate)
}

// DaysOverdue returns the number of days past due (0 if not overdue)
func (i *Invoice) DaysOverdue() int {
	if !i.IsOverdue() {
		return 0
	}
	return int(time.Since(i.DueDate).Hours() / 24)
}
