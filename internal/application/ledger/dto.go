package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// =============================================================================
// Account DTOs
// =============================================================================

// CreateAccountRequest represents a request to create a chart of accounts entry
type CreateAccountRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=20"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Type        string     `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description string     `json:"description" binding:"max=500"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=500"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsSystem    bool       `json:"is_system"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// AccountListFilter represents filter options for the account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToAccountResponse converts a domain account to its response DTO
func ToAccountResponse(account *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		CompanyID:   account.CompanyID,
		Code:        account.Code,
		Name:        account.Name,
		Type:        string(account.Type),
		ParentID:    account.ParentID,
		Description: account.Description,
		IsActive:    account.IsActive,
		IsSystem:    account.IsSystem,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
		Version:     account.Version,
	}
}

// =============================================================================
// Journal DTOs
// =============================================================================

// JournalLineRequest represents one debit or credit in a journal request
type JournalLineRequest struct {
	AccountID   uuid.UUID        `json:"account_id" binding:"required"`
	Description string           `json:"description" binding:"max=200"`
	Debit       *decimal.Decimal `json:"debit"`
	Credit      *decimal.Decimal `json:"credit"`
}

// CreateJournalRequest represents a request to create a draft journal entry
type CreateJournalRequest struct {
	EntryDate time.Time            `json:"entry_date" binding:"required"`
	Currency  string               `json:"currency" binding:"required,len=3"`
	Memo      string               `json:"memo" binding:"max=500"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	CreatedBy *uuid.UUID           `json:"-"`
}

// UpdateJournalRequest replaces the lines and memo of a draft entry
type UpdateJournalRequest struct {
	EntryDate *time.Time           `json:"entry_date"`
	Memo      *string              `json:"memo" binding:"omitempty,max=500"`
	Lines     []JournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// VoidJournalRequest represents a request to void a posted entry
type VoidJournalRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// JournalLineResponse represents a journal line in API responses
type JournalLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Position    int             `json:"position"`
}

// JournalResponse represents a journal entry in API responses
type JournalResponse struct {
	ID           uuid.UUID             `json:"id"`
	CompanyID    uuid.UUID             `json:"company_id"`
	EntryNumber  string                `json:"entry_number,omitempty"`
	EntryDate    time.Time             `json:"entry_date"`
	Memo         string                `json:"memo,omitempty"`
	Currency     string                `json:"currency"`
	Status       string                `json:"status"`
	Source       string                `json:"source"`
	SourceID     *uuid.UUID            `json:"source_id,omitempty"`
	Lines        []JournalLineResponse `json:"lines"`
	TotalDebits  decimal.Decimal       `json:"total_debits"`
	TotalCredits decimal.Decimal       `json:"total_credits"`
	PostedAt     *time.Time            `json:"posted_at,omitempty"`
	PostedBy     *uuid.UUID            `json:"posted_by,omitempty"`
	VoidedAt     *time.Time            `json:"voided_at,omitempty"`
	VoidReason   string                `json:"void_reason,omitempty"`
	ReversesID   *uuid.UUID            `json:"reverses_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// JournalListFilter represents filter options for the journal list
type JournalListFilter struct {
	Status    string     `form:"status" binding:"omitempty,oneof=draft posted void"`
	Source    string     `form:"source" binding:"omitempty,oneof=manual invoice bill payment closing reversal"`
	AccountID *uuid.UUID `form:"account_id"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToJournalResponse converts a domain journal entry to its response DTO
func ToJournalResponse(entry *ledger.JournalEntry) JournalResponse {
	lines := make([]JournalLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = JournalLineResponse{
			ID:          line.ID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Position:    line.Position,
		}
	}

	return JournalResponse{
		ID:           entry.ID,
		CompanyID:    entry.CompanyID,
		EntryNumber:  entry.EntryNumber,
		EntryDate:    entry.EntryDate,
		Memo:         entry.Memo,
		Currency:     string(entry.Currency),
		Status:       string(entry.Status),
		Source:       string(entry.Source),
		SourceID:     entry.SourceID,
		Lines:        lines,
		TotalDebits:  entry.TotalDebits(),
		TotalCredits: entry.TotalCredits(),
		PostedAt:     entry.PostedAt,
		PostedBy:     entry.PostedBy,
		VoidedAt:     entry.VoidedAt,
		VoidReason:   entry.VoidReason,
		ReversesID:   entry.ReversesID,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
		Version:      entry.Version,
	}
}

// =============================================================================
// Period DTOs
// =============================================================================

// PeriodResponse represents an accounting period in API responses
type PeriodResponse struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	Name       string     `json:"name"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	Status     string     `json:"status"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	ClosedBy   *uuid.UUID `json:"closed_by,omitempty"`
	ReopenedAt *time.Time `json:"reopened_at,omitempty"`
	ReopenedBy *uuid.UUID `json:"reopened_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// OpenPeriodRequest represents a request to open a new accounting period
type OpenPeriodRequest struct {
	Year  int `json:"year" binding:"required,min=1900,max=2999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ToPeriodResponse converts a domain period to its response DTO
func ToPeriodResponse(period *ledger.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		ID:         period.ID,
		CompanyID:  period.CompanyID,
		Name:       period.Name(),
		Year:       period.Year,
		Month:      period.Month,
		StartDate:  period.StartDate,
		EndDate:    period.EndDate,
		Status:     string(period.Status),
		ClosedAt:   period.ClosedAt,
		ClosedBy:   period.ClosedBy,
		ReopenedAt: period.ReopenedAt,
		ReopenedBy: period.ReopenedBy,
		CreatedAt:  period.CreatedAt,
		UpdatedAt:  period.UpdatedAt,
	}
}
