package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// PeriodStatus represents the close state of an accounting period
type PeriodStatus string

const (
	PeriodStatusOpen    PeriodStatus = "open"
	PeriodStatusClosing PeriodStatus = "closing" // Close initiated, pre-close checks running
	PeriodStatusClosed  PeriodStatus = "closed"
)

// IsValid returns true if the status is recognized
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusClosing, PeriodStatusClosed:
		return true
	}
	return false
}

// AccountingPeriod is one calendar month of a company's fiscal calendar.
// Posting is only allowed while the period is open.
type AccountingPeriod struct {
	shared.TenantAggregateRoot
	CompanyID  uuid.UUID
	Year       int
	Month      int // 1-12
	StartDate  time.Time
	EndDate    time.Time
	Status     PeriodStatus
	ClosedAt   *time.Time
	ClosedBy   *uuid.UUID
	ReopenedAt *time.Time
	ReopenedBy *uuid.UUID
}

// NewAccountingPeriod creates an open period for the given month
func NewAccountingPeriod(tenantID, companyID uuid.UUID, year, month int) (*AccountingPeriod, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if year < 1900 || year > 2999 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	return &AccountingPeriod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		Year:                year,
		Month:               month,
		StartDate:           start,
		EndDate:             end,
		Status:              PeriodStatusOpen,
	}, nil
}

// Name returns the period label, e.g. "2026-03"
func (p *AccountingPeriod) Name() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Contains returns true if the date falls within the period
func (p *AccountingPeriod) Contains(date time.Time) bool {
	d := date.UTC()
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// IsOpen returns true if the period accepts postings
func (p *AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodStatusOpen
}

// IsClosed returns true if the period is fully closed
func (p *AccountingPeriod) IsClosed() bool {
	return p.Status == PeriodStatusClosed
}

// BeginClose moves the period into the closing state. While closing, new
// postings are rejected but the close can still be abandoned.
func (p *AccountingPeriod) BeginClose() error {
	if p.Status != PeriodStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open periods can begin closing")
	}

	p.Status = PeriodStatusClosing
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AbandonClose returns a closing period to open
func (p *AccountingPeriod) AbandonClose() error {
	if p.Status != PeriodStatusClosing {
		return shared.NewDomainError("INVALID_STATE", "Period is not in the closing state")
	}

	p.Status = PeriodStatusOpen
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// CompleteClose finishes the close. The caller has already verified that
// no draft entries remain dated within the period.
func (p *AccountingPeriod) CompleteClose(closedBy uuid.UUID) error {
	if p.Status != PeriodStatusClosing {
		return shared.NewDomainError("INVALID_STATE", "Close must be initiated before completing")
	}

	now := time.Now()
	p.Status = PeriodStatusClosed
	p.ClosedAt = &now
	p.ClosedBy = &closedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodClosedEvent(p))

	return nil
}

// Reopen reverts a closed period to open. Restricted to controllers and
// always audited.
func (p *AccountingPeriod) Reopen(reopenedBy uuid.UUID) error {
	if p.Status != PeriodStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Only closed periods can be reopened")
	}

	now := time.Now()
	p.Status = PeriodStatusOpen
	p.ReopenedAt = &now
	p.ReopenedBy = &reopenedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodReopenedEvent(p))

	return nil
}
