package tax

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTaxRate = "TaxRate"

// Event type constants
const (
	EventTypeTaxRateCreated       = "TaxRateCreated"
	EventTypeTaxRateUpdated       = "TaxRateUpdated"
	EventTypeTaxRateStatusChanged = "TaxRateStatusChanged"
	EventTypeTaxRateDeleted       = "TaxRateDeleted"
)

// TaxRateCreatedEvent is published when a new tax rate is created
type TaxRateCreatedEvent struct {
	shared.BaseDomainEvent
	TaxRateID  uuid.UUID       `json:"tax_rate_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NewTaxRateCreatedEvent creates a new TaxRateCreatedEvent
func NewTaxRateCreatedEvent(rate *TaxRate) *TaxRateCreatedEvent {
	return &TaxRateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaxRateCreated, AggregateTypeTaxRate, rate.ID, rate.TenantID),
		TaxRateID:       rate.ID,
		Code:            rate.Code,
		Name:            rate.Name,
		Percentage:      rate.Percentage,
	}
}

// TaxRateUpdatedEvent is published when a tax rate is updated
type TaxRateUpdatedEvent struct {
	shared.BaseDomainEvent
	TaxRateID uuid.UUID `json:"tax_rate_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewTaxRateUpdatedEvent creates a new TaxRateUpdatedEvent
func NewTaxRateUpdatedEvent(rate *TaxRate) *TaxRateUpdatedEvent {
	return &TaxRateUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaxRateUpdated, AggregateTypeTaxRate, rate.ID, rate.TenantID),
		TaxRateID:       rate.ID,
		Code:            rate.Code,
		Name:            rate.Name,
	}
}

// TaxRateStatusChangedEvent is published when a tax rate is activated or deactivated
type TaxRateStatusChangedEvent struct {
	shared.BaseDomainEvent
	TaxRateID uuid.UUID `json:"tax_rate_id"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
}

// NewTaxRateStatusChangedEvent creates a new TaxRateStatusChangedEvent
func NewTaxRateStatusChangedEvent(rate *TaxRate) *TaxRateStatusChangedEvent {
	return &TaxRateStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaxRateStatusChanged, AggregateTypeTaxRate, rate.ID, rate.TenantID),
		TaxRateID:       rate.ID,
		Code:            rate.Code,
		IsActive:        rate.IsActive,
	}
}

// TaxRateDeletedEvent is published when a tax rate is deleted
type TaxRateDeletedEvent struct {
	shared.BaseDomainEvent
	TaxRateID uuid.UUID `json:"tax_rate_id"`
	Code      string    `json:"code"`
}

// NewTaxRateDeletedEvent creates a new TaxRateDeletedEvent
func NewTaxRateDeletedEvent(rate *TaxRate) *TaxRateDeletedEvent {
	return &TaxRateDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaxRateDeleted, AggregateTypeTaxRate, rate.ID, rate.TenantID),
		TaxRateID:       rate.ID,
		Code:            rate.Code,
	}
}
