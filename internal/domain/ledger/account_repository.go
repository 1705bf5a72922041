package ledger

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for chart-of-accounts persistence
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Update updates an existing account
	Update(ctx context.Context, account *Account) error

	// Delete deletes an account by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Account, error)

	// FindAll returns accounts for a company with pagination
	FindAll(ctx context.Context, filter AccountFilter) ([]*Account, int64, error)

	// FindChildren returns direct children of an account
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*Account, error)

	// ExistsByCode checks if an account code already exists within a company
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)

	// HasPostings reports whether any journal line references the account
	HasPostings(ctx context.Context, accountID uuid.UUID) (bool, error)

	// Count returns the total number of accounts for a company
	Count(ctx context.Context, companyID uuid.UUID) (int64, error)
}

// AccountFilter contains filter options for querying accounts
type AccountFilter struct {
	// Company the chart belongs to
	CompanyID uuid.UUID

	// Search keyword for code or name
	Keyword string

	// Filter by account type
	Type *AccountType

	// Filter by active flag
	IsActive *bool

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewAccountFilter creates a new AccountFilter with default values
func NewAccountFilter(companyID uuid.UUID) AccountFilter {
	return AccountFilter{
		CompanyID: companyID,
		Page:      1,
		PageSize:  20,
		SortBy:    "code",
		SortOrder: "asc",
	}
}

// WithKeyword sets the search keyword
func (f AccountFilter) WithKeyword(keyword string) AccountFilter {
	f.Keyword = keyword
	return f
}

// WithType sets the account type filter
func (f AccountFilter) WithType(accountType AccountType) AccountFilter {
	f.Type = &accountType
	return f
}

// WithActive sets the active flag filter
func (f AccountFilter) WithActive(active bool) AccountFilter {
	f.IsActive = &active
	return f
}

// WithPagination sets pagination parameters
func (f AccountFilter) WithPagination(page, pageSize int) AccountFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f AccountFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f AccountFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
