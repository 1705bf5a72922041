package ledger

import (
	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

const (
	EventTypePeriodClosed   = "ledger.period.closed"
	EventTypePeriodReopened = "ledger.period.reopened"

	AggregateTypePeriod = "AccountingPeriod"
)

// PeriodClosedEvent is emitted when a period close completes
type PeriodClosedEvent struct {
	shared.BaseDomainEvent
	CompanyID string    `json:"company_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	ClosedBy  uuid.UUID `json:"closed_by"`
}

func NewPeriodClosedEvent(period *AccountingPeriod) *PeriodClosedEvent {
	e := &PeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodClosed, AggregateTypePeriod, period.ID, period.TenantID),
		CompanyID:       period.CompanyID.String(),
		Year:            period.Year,
		Month:           period.Month,
	}
	if period.ClosedBy != nil {
		e.ClosedBy = *period.ClosedBy
	}
	return e
}

// PeriodReopenedEvent is emitted when a closed period is reopened
type PeriodReopenedEvent struct {
	shared.BaseDomainEvent
	CompanyID  string    `json:"company_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	ReopenedBy uuid.UUID `json:"reopened_by"`
}

func NewPeriodReopenedEvent(period *AccountingPeriod) *PeriodReopenedEvent {
	e := &PeriodReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodReopened, AggregateTypePeriod, period.ID, period.TenantID),
		CompanyID:       period.CompanyID.String(),
		Year:            period.Year,
		Month:           period.Month,
	}
	if period.ReopenedBy != nil {
		e.ReopenedBy = *period.ReopenedBy
	}
	return e
}
