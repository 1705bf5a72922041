package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBill = "Bill"

// Event type constants
const (
	EventTypeBillCreated  = "BillCreated"
	EventTypeBillApproved = "BillApproved"
	EventTypeBillPaid     = "BillPaid"
	EventTypeBillVoided   = "BillVoided"
)

// BillCreatedEvent is published when a new bill is created
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	VendorID   uuid.UUID `json:"vendor_id"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(bill *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, bill.ID, bill.TenantID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		VendorID:        bill.VendorID,
	}
}

// BillApprovedEvent is published when a bill is approved.
// The ledger module consumes it to post the AP journal.
type BillApprovedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	BillNumber string          `json:"bill_number"`
	CompanyID  uuid.UUID       `json:"company_id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	BillDate   time.Time       `json:"bill_date"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	ApprovedBy uuid.UUID       `json:"approved_by"`
}

// NewBillApprovedEvent creates a new BillApprovedEvent
func NewBillApprovedEvent(bill *Bill) *BillApprovedEvent {
	e := &BillApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillApproved, AggregateTypeBill, bill.ID, bill.TenantID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		CompanyID:       bill.CompanyID,
		VendorID:        bill.VendorID,
		BillDate:        bill.BillDate,
		Subtotal:        bill.Subtotal,
		TaxTotal:        bill.TaxTotal,
		Total:           bill.Total,
		Currency:        bill.Currency.String(),
	}
	if bill.ApprovedBy != nil {
		e.ApprovedBy = *bill.ApprovedBy
	}
	return e
}

// BillPaidEvent is published when a bill is fully settled
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	BillNumber string          `json:"bill_number"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewBillPaidEvent creates a new BillPaidEvent
func NewBillPaidEvent(bill *Bill) *BillPaidEvent {
	return &BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillPaid, AggregateTypeBill, bill.ID, bill.TenantID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		VendorID:        bill.VendorID,
		Total:           bill.Total,
	}
}

// BillVoidedEvent is published when a bill is voided.
// The ledger module consumes it to reverse the AP journal if one was posted.
type BillVoidedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	CompanyID  uuid.UUID `json:"company_id"`
	Reason     string    `json:"reason"`
}

// NewBillVoidedEvent creates a new BillVoidedEvent
func NewBillVoidedEvent(bill *Bill) *BillVoidedEvent {
	return &BillVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillVoided, AggregateTypeBill, bill.ID, bill.TenantID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		CompanyID:       bill.CompanyID,
		Reason:          bill.VoidReason,
	}
}
