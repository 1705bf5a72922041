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

// PaymentDirection indicates whether money came in or went out
type PaymentDirection string

const (
	PaymentDirectionReceived PaymentDirection = "RECEIVED" // From a customer, settles invoices
	PaymentDirectionMade     PaymentDirection = "MADE"     // To a vendor, settles bills
)

// IsValid checks if the direction is valid
func (d PaymentDirection) IsValid() bool {
	return d == PaymentDirectionReceived || d == PaymentDirectionMade
}

// PaymentMethod represents how the payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentStatus represents the lifecycle status of a payment
type PaymentStatus string

const (
	PaymentStatusDraft     PaymentStatus = "DRAFT"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusVoid      PaymentStatus = "VOID"
)

// IsValid checks if the status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusDraft, PaymentStatusConfirmed, PaymentStatusVoid:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusVoid
}

// PaymentAllocation assigns part of a payment to an open invoice or bill.
// Stored as JSONB within the Payment aggregate.
type PaymentAllocation struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"` // Invoice or bill, per the payment direction
	Amount      decimal.Decimal `json:"amount"`
	AllocatedAt time.Time       `json:"allocated_at"`
}

// PaymentAllocations is a slice of PaymentAllocation that implements GORM Scanner/Valuer for JSONB storage
type PaymentAllocations []PaymentAllocation

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentAllocations) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentAllocations) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentAllocations{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentAllocations: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentAllocations{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Payment represents money received from a customer or paid to a vendor.
// It is the aggregate root for payment-related operations
type Payment struct {
	shared.TenantAggregateRoot
	CompanyID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"company_id"`
	PaymentNumber string               `gorm:"type:varchar(30);not null;uniqueIndex:idx_payment_company_number,priority:2" json:"payment_number"`
	Direction     PaymentDirection     `gorm:"type:varchar(10);not null;index" json:"direction"`
	PartyID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"party_id"`   // Customer or vendor, per direction
	PartyName     string               `gorm:"type:varchar(200);not null" json:"party_name"` // Snapshot
	Method        PaymentMethod        `gorm:"type:varchar(20);not null" json:"method"`
	Reference     string               `gorm:"type:varchar(100)" json:"reference"` // Check number, wire reference
	PaymentDate   time.Time            `gorm:"not null;index" json:"payment_date"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null" json:"currency"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"amount"`
	Allocations   PaymentAllocations   `gorm:"type:jsonb" json:"allocations"`
	Status        PaymentStatus        `gorm:"type:varchar(20);not null;index" json:"status"`
	Memo          string               `gorm:"type:text" json:"memo"`
	ConfirmedAt   *time.Time           `json:"confirmed_at"`
	ConfirmedBy   *uuid.UUID           `gorm:"type:uuid" json:"confirmed_by"`
	VoidedAt      *time.Time           `json:"voided_at"`
	VoidedBy      *uuid.UUID           `gorm:"type:uuid" json:"voided_by"`
	VoidReason    string               `gorm:"type:varchar(500)" json:"void_reason"`
}

// TableName returns the database table name
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a draft payment
func NewPayment(
	tenantID, companyID uuid.UUID,
	paymentNumber string,
	direction PaymentDirection,
	partyID uuid.UUID,
	partyName string,
	method PaymentMethod,
	paymentDate time.Time,
	currency valueobject.Currency,
	amount decimal.Decimal,
) (*Payment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Payment direction is not valid")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if partyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	payment := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		PaymentNumber:       paymentNumber,
		Direction:           direction,
		PartyID:             partyID,
		PartyName:           partyName,
		Method:              method,
		PaymentDate:         paymentDate,
		Currency:            currency,
		Amount:              amount,
		Allocations:         PaymentAllocations{},
		Status:              PaymentStatusDraft,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// SetReference records an external reference such as a check number
func (p *Payment) SetReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 100 characters")
	}

	p.Reference = reference
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMemo sets the payment memo
func (p *Payment) SetMemo(memo string) error {
	if len(memo) > 500 {
		return shared.NewDomainError("INVALID_MEMO", "Memo cannot exceed 500 characters")
	}

	p.Memo = memo
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AllocatedAmount returns the sum of all allocations
func (p *Payment) AllocatedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range p.Allocations {
		total = total.Add(alloc.Amount)
	}
	return total
}

// UnallocatedAmount returns the portion not yet assigned to a document
func (p *Payment) UnallocatedAmount() decimal.Decimal {
	return p.Amount.Sub(p.AllocatedAmount())
}

// Allocate assigns part of a draft payment to an open document. The caller
// verifies the document's outstanding amount covers the allocation.
func (p *Payment) Allocate(documentID uuid.UUID, amount decimal.Decimal) error {
	if p.Status != PaymentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Allocations can only be changed on draft payments")
	}
	if documentID == uuid.Nil {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(p.UnallocatedAmount()) {
		return shared.ErrOverAllocation
	}
	for _, alloc := range p.Allocations {
		if alloc.DocumentID == documentID {
			return shared.NewDomainError("DUPLICATE_ALLOCATION", "Document already has an allocation on this payment")
		}
	}

	p.Allocations = append(p.Allocations, PaymentAllocation{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Amount:      amount,
		AllocatedAt: time.Now(),
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveAllocation removes an allocation from a draft payment
func (p *Payment) RemoveAllocation(allocationID uuid.UUID) error {
	if p.Status != PaymentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Allocations can only be changed on draft payments")
	}

	for idx, alloc := range p.Allocations {
		if alloc.ID == allocationID {
			p.Allocations = append(p.Allocations[:idx], p.Allocations[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// Confirm finalizes the payment. The application service then applies each
// allocation to its document and posts the cash journal.
func (p *Payment) Confirm(confirmedBy uuid.UUID) error {
	if p.Status != PaymentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm payment in %s status", p.Status))
	}
	if len(p.Allocations) == 0 {
		return shared.NewDomainError("NO_ALLOCATIONS", "Payment must be allocated to at least one document")
	}

	now := time.Now()
	p.Status = PaymentStatusConfirmed
	p.ConfirmedAt = &now
	p.ConfirmedBy = &confirmedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentConfirmedEvent(p))

	return nil
}

// Void voids a confirmed payment. The application service reverses the
// applied allocations on the settled documents.
func (p *Payment) Void(voidedBy uuid.UUID, reason string) error {
	if p.Status != PaymentStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed payments can be voided")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusVoid
	p.VoidedAt = &now
	p.VoidedBy = &voidedBy
	p.VoidReason = strings.TrimSpace(reason)
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentVoidedEvent(p))

	return nil
}

// IsDraft returns true if the payment is still editable
func (p *Payment) IsDraft() bool {
	return p.Status == PaymentStatusDraft
}

// IsConfirmed returns true if the payment has been confirmed
func (p *Payment) IsConfirmed() bool {
	return p.Status == PaymentStatusConfirmed
}

// IsFullyAllocated returns true if the whole amount is assigned
func (p *Payment) IsFullyAllocated() bool {
	return p.UnallocatedAmount().IsZero()
}
