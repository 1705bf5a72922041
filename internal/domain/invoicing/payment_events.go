package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentCreated   = "PaymentCreated"
	EventTypePaymentConfirmed = "PaymentConfirmed"
	EventTypePaymentVoided    = "PaymentVoided"
)

// PaymentCreatedEvent is published when a new payment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID        `json:"payment_id"`
	PaymentNumber string           `json:"payment_number"`
	Direction     PaymentDirection `json:"direction"`
	Amount        decimal.Decimal  `json:"amount"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(payment *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, payment.ID, payment.TenantID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		Direction:       payment.Direction,
		Amount:          payment.Amount,
	}
}

// PaymentConfirmedEvent is published when a payment is confirmed.
// The ledger module consumes it to post the cash journal.
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID        `json:"payment_id"`
	PaymentNumber string           `json:"payment_number"`
	CompanyID     uuid.UUID        `json:"company_id"`
	Direction     PaymentDirection `json:"direction"`
	PartyID       uuid.UUID        `json:"party_id"`
	PaymentDate   time.Time        `json:"payment_date"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	ConfirmedBy   uuid.UUID        `json:"confirmed_by"`
}

// NewPaymentConfirmedEvent creates a new PaymentConfirmedEvent
func NewPaymentConfirmedEvent(payment *Payment) *PaymentConfirmedEvent {
	e := &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, AggregateTypePayment, payment.ID, payment.TenantID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		CompanyID:       payment.CompanyID,
		Direction:       payment.Direction,
		PartyID:         payment.PartyID,
		PaymentDate:     payment.PaymentDate,
		Amount:          payment.Amount,
		Currency:        payment.Currency.String(),
	}
	if payment.ConfirmedBy != nil {
		e.ConfirmedBy = *payment.ConfirmedBy
	}
	return e
}

// PaymentVoidedEvent is published when a confirmed payment is voided.
// The ledger module consumes it to reverse the cash journal.
type PaymentVoidedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID        `json:"payment_id"`
	PaymentNumber string           `json:"payment_number"`
	CompanyID     uuid.UUID        `json:"company_id"`
	Direction     PaymentDirection `json:"direction"`
	Amount        decimal.Decimal  `json:"amount"`
	Reason        string           `json:"reason"`
	VoidedBy      uuid.UUID        `json:"voided_by"`
}

// NewPaymentVoidedEvent creates a new PaymentVoidedEvent
func NewPaymentVoidedEvent(payment *Payment) *PaymentVoidedEvent {
	e := &PaymentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentVoided, AggregateTypePayment, payment.ID, payment.TenantID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		CompanyID:       payment.CompanyID,
		Direction:       payment.Direction,
		Amount:          payment.Amount,
		Reason:          payment.VoidReason,
	}
	if payment.VoidedBy != nil {
		e.VoidedBy = *payment.VoidedBy
	}
	return e
}
