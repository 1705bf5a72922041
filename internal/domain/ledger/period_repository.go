package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PeriodRepository defines the interface for accounting period persistence
type PeriodRepository interface {
	// Create creates a new accounting period
	Create(ctx context.Context, period *AccountingPeriod) error

	// Update updates an existing accounting period
	Update(ctx context.Context, period *AccountingPeriod) error

	// FindByID finds a period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccountingPeriod, error)

	// FindByMonth finds a company's period for a specific year and month
	FindByMonth(ctx context.Context, companyID uuid.UUID, year, month int) (*AccountingPeriod, error)

	// FindByDate finds the period containing the given date
	FindByDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*AccountingPeriod, error)

	// FindAll returns a company's periods ordered by year and month
	FindAll(ctx context.Context, companyID uuid.UUID) ([]*AccountingPeriod, error)

	// FindOpen returns all open periods for a company
	FindOpen(ctx context.Context, companyID uuid.UUID) ([]*AccountingPeriod, error)

	// FindLatestClosed returns the most recently closed period, or nil
	FindLatestClosed(ctx context.Context, companyID uuid.UUID) (*AccountingPeriod, error)
}
