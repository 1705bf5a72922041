package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceApproved      = "InvoiceApproved"
	EventTypeInvoiceSent          = "InvoiceSent"
	EventTypeInvoicePartiallyPaid = "InvoicePartiallyPaid"
	EventTypeInvoicePaid          = "InvoicePaid"
	EventTypeInvoiceVoided        = "InvoiceVoided"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceApprovedEvent is published when an invoice is approved.
// The ledger module consumes it to post the AR journal.
type InvoiceApprovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CompanyID     uuid.UUID       `json:"company_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	IssueDate     time.Time       `json:"issue_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
}

// NewInvoiceApprovedEvent creates a new InvoiceApprovedEvent
func NewInvoiceApprovedEvent(invoice *Invoice) *InvoiceApprovedEvent {
	e := &InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceApproved, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		CompanyID:       invoice.CompanyID,
		CustomerID:      invoice.CustomerID,
		IssueDate:       invoice.IssueDate,
		Subtotal:        invoice.Subtotal,
		TaxTotal:        invoice.TaxTotal,
		Total:           invoice.Total,
		Currency:        invoice.Currency.String(),
	}
	if invoice.ApprovedBy != nil {
		e.ApprovedBy = *invoice.ApprovedBy
	}
	return e
}

// InvoiceSentEvent is published when an invoice is delivered to the customer
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(invoice *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
	}
}

// InvoicePartiallyPaidEvent is published when a partial payment is applied
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// NewInvoicePartiallyPaidEvent creates a new InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(invoice *Invoice, applied decimal.Decimal) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePartiallyPaid, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		AppliedAmount:   applied,
		PaidAmount:      invoice.PaidAmount,
		Outstanding:     invoice.OutstandingAmount(),
	}
}

// InvoicePaidEvent is published when an invoice is fully settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
		Total:           invoice.Total,
	}
}

// InvoiceVoidedEvent is published when an invoice is voided.
// The ledger module consumes it to reverse the AR journal if one was posted.
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CompanyID     uuid.UUID `json:"company_id"`
	Reason        string    `json:"reason"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(invoice *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		CompanyID:       invoice.CompanyID,
		Reason:          invoice.VoidReason,
	}
}
