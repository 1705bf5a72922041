package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountBalance is the aggregated activity of one account over a date range.
// Debits and Credits are sums of posted journal lines only.
type AccountBalance struct {
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	AccountType AccountType
	Debits      decimal.Decimal
	Credits     decimal.Decimal
}

// Net returns the balance in the account's normal-balance convention
func (b AccountBalance) Net() decimal.Decimal {
	if b.AccountType.NormalBalance() == NormalBalanceDebit {
		return b.Debits.Sub(b.Credits)
	}
	return b.Credits.Sub(b.Debits)
}

// JournalRepository defines the interface for journal entry persistence
type JournalRepository interface {
	// Create creates a new journal entry with its lines
	Create(ctx context.Context, entry *JournalEntry) error

	// Update updates an existing journal entry and replaces its lines
	Update(ctx context.Context, entry *JournalEntry) error

	// Delete deletes a draft journal entry by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a journal entry with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindByEntryNumber finds a journal entry by its posted number within a company
	FindByEntryNumber(ctx context.Context, companyID uuid.UUID, entryNumber string) (*JournalEntry, error)

	// FindBySource finds entries generated from a source document
	FindBySource(ctx context.Context, source JournalSource, sourceID uuid.UUID) ([]*JournalEntry, error)

	// FindAll returns journal entries for a company with pagination
	FindAll(ctx context.Context, filter JournalFilter) ([]*JournalEntry, int64, error)

	// NextEntryNumber allocates the next sequential entry number for a
	// company within a year, e.g. JE-2026-000042
	NextEntryNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error)

	// CountDraftsInRange counts draft entries dated within the range, used by
	// the period close pre-check
	CountDraftsInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error)

	// AccountBalances aggregates posted lines per account over a date range
	AccountBalances(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]AccountBalance, error)
}

// JournalFilter contains filter options for querying journal entries
type JournalFilter struct {
	// Company the entries belong to
	CompanyID uuid.UUID

	// Search keyword for entry number or memo
	Keyword string

	// Filter by status
	Status *JournalStatus

	// Filter by source document type
	Source *JournalSource

	// Filter by account appearing on any line
	AccountID *uuid.UUID

	// Entry date range
	DateFrom *time.Time
	DateTo   *time.Time

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewJournalFilter creates a new JournalFilter with default values
func NewJournalFilter(companyID uuid.UUID) JournalFilter {
	return JournalFilter{
		CompanyID: companyID,
		Page:      1,
		PageSize:  20,
		SortBy:    "entry_date",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f JournalFilter) WithKeyword(keyword string) JournalFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter
func (f JournalFilter) WithStatus(status JournalStatus) JournalFilter {
	f.Status = &status
	return f
}

// WithSource sets the source filter
func (f JournalFilter) WithSource(source JournalSource) JournalFilter {
	f.Source = &source
	return f
}

// WithAccountID sets the account filter
func (f JournalFilter) WithAccountID(accountID uuid.UUID) JournalFilter {
	f.AccountID = &accountID
	return f
}

// WithDateRange sets the entry date range
func (f JournalFilter) WithDateRange(from, to time.Time) JournalFilter {
	f.DateFrom = &from
	f.DateTo = &to
	return f
}

// WithPagination sets pagination parameters
func (f JournalFilter) WithPagination(page, pageSize int) JournalFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f JournalFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f JournalFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
