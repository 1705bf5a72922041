package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// JournalStatus represents the lifecycle status of a journal entry
type JournalStatus string

const (
	JournalStatusDraft  JournalStatus = "draft"
	JournalStatusPosted JournalStatus = "posted"
	JournalStatusVoid   JournalStatus = "void"
)

// IsValid returns true if the status is recognized
func (s JournalStatus) IsValid() bool {
	switch s {
	case JournalStatusDraft, JournalStatusPosted, JournalStatusVoid:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s JournalStatus) IsTerminal() bool {
	return s == JournalStatusVoid
}

// JournalSource identifies what produced a journal entry
type JournalSource string

const (
	JournalSourceManual   JournalSource = "manual"
	JournalSourceInvoice  JournalSource = "invoice"
	JournalSourceBill     JournalSource = "bill"
	JournalSourcePayment  JournalSource = "payment"
	JournalSourceClosing  JournalSource = "closing"
	JournalSourceReversal JournalSource = "reversal"
)

// JournalLine is a single debit or credit within a journal entry.
// Exactly one of Debit and Credit is non-zero.
type JournalLine struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Position    int             `json:"position"`
}

// NewDebitLine creates a debit line
func NewDebitLine(accountID uuid.UUID, amount decimal.Decimal, description string) (JournalLine, error) {
	if accountID == uuid.Nil {
		return JournalLine{}, shared.NewDomainError("INVALID_ACCOUNT_ID", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return JournalLine{}, shared.NewDomainError("INVALID_AMOUNT", "Line amount must be positive")
	}
	return JournalLine{
		ID:          uuid.New(),
		AccountID:   accountID,
		Description: strings.TrimSpace(description),
		Debit:       amount,
		Credit:      decimal.Zero,
	}, nil
}

// NewCreditLine creates a credit line
func NewCreditLine(accountID uuid.UUID, amount decimal.Decimal, description string) (JournalLine, error) {
	if accountID == uuid.Nil {
		return JournalLine{}, shared.NewDomainError("INVALID_ACCOUNT_ID", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return JournalLine{}, shared.NewDomainError("INVALID_AMOUNT", "Line amount must be positive")
	}
	return JournalLine{
		ID:          uuid.New(),
		AccountID:   accountID,
		Description: strings.TrimSpace(description),
		Debit:       decimal.Zero,
		Credit:      amount,
	}, nil
}

// IsDebit returns true if the line carries a debit amount
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// JournalEntry records a balanced set of debits and credits against
// a company's chart of accounts. It is the aggregate root for all
// general ledger postings.
type JournalEntry struct {
	shared.TenantAggregateRoot
	CompanyID   uuid.UUID
	EntryNumber string // e.g., JE-2026-000042, assigned on posting
	EntryDate   time.Time
	Memo        string
	Currency    valueobject.Currency
	Status      JournalStatus
	Source      JournalSource
	SourceID    *uuid.UUID // Originating document when not manual
	Lines       []JournalLine
	PostedAt    *time.Time
	PostedBy    *uuid.UUID
	VoidedAt    *time.Time
	VoidedBy    *uuid.UUID
	VoidReason  string
	ReversesID  *uuid.UUID // Set on reversal entries
}

// NewJournalEntry creates a draft journal entry
func NewJournalEntry(tenantID, companyID uuid.UUID, entryDate time.Time, currency valueobject.Currency, memo string) (*JournalEntry, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}
	if len(memo) > 500 {
		return nil, shared.NewDomainError("INVALID_MEMO", "Memo cannot exceed 500 characters")
	}

	return &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		EntryDate:           entryDate,
		Memo:                strings.TrimSpace(memo),
		Currency:            currency,
		Status:              JournalStatusDraft,
		Source:              JournalSourceManual,
		Lines:               make([]JournalLine, 0),
	}, nil
}

// NewSourcedJournalEntry creates a draft entry tied to an originating document
func NewSourcedJournalEntry(tenantID, companyID uuid.UUID, entryDate time.Time, currency valueobject.Currency, memo string, source JournalSource, sourceID uuid.UUID) (*JournalEntry, error) {
	entry, err := NewJournalEntry(tenantID, companyID, entryDate, currency, memo)
	if err != nil {
		return nil, err
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source ID cannot be empty")
	}

	entry.Source = source
	entry.SourceID = &sourceID
	return entry, nil
}

// AddLine appends a line to a draft entry
func (e *JournalEntry) AddLine(line JournalLine) error {
	if e.Status != JournalStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft entries")
	}

	line.Position = len(e.Lines)
	e.Lines = append(e.Lines, line)
	e.UpdatedAt = time.Now()

	return nil
}

// SetLines replaces all lines on a draft entry
func (e *JournalEntry) SetLines(lines []JournalLine) error {
	if e.Status != JournalStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be changed on draft entries")
	}

	e.Lines = make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		line.Position = len(e.Lines)
		e.Lines = append(e.Lines, line)
	}
	e.UpdatedAt = time.Now()

	return nil
}

// SetEntryDate moves a draft entry to a different date
func (e *JournalEntry) SetEntryDate(entryDate time.Time) error {
	if e.Status != JournalStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Entry date can only be changed on draft entries")
	}
	if entryDate.IsZero() {
		return shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date cannot be empty")
	}

	e.EntryDate = entryDate
	e.UpdatedAt = time.Now()

	return nil
}

// TotalDebits returns the sum of all debit amounts
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredits returns the sum of all credit amounts
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced returns true if debits equal credits
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Equal(e.TotalCredits())
}

// Validate checks the structural invariants required for posting
func (e *JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return shared.NewDomainError("INVALID_LINES", "Journal entry must have at least two lines")
	}
	for _, line := range e.Lines {
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return shared.NewDomainError("INVALID_LINES", "Each line must carry exactly one of debit or credit")
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.NewDomainError("INVALID_LINES", "Line amounts cannot be negative")
		}
	}
	if !e.IsBalanced() {
		return shared.ErrUnbalancedEntry
	}
	return nil
}

// Post transitions the entry from draft to posted. The caller verifies that
// the accounting period for EntryDate is open and that all accounts are
// active before calling.
func (e *JournalEntry) Post(entryNumber string, postedBy uuid.UUID) error {
	if e.Status != JournalStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft entries can be posted")
	}
	if strings.TrimSpace(entryNumber) == "" {
		return shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if err := e.Validate(); err != nil {
		return err
	}

	now := time.Now()
	e.EntryNumber = entryNumber
	e.Status = JournalStatusPosted
	e.PostedAt = &now
	e.PostedBy = &postedBy
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewJournalEntryPostedEvent(e))

	return nil
}

// Void marks a posted entry void. Allowed only while the period is open;
// closed-period corrections go through BuildReversal instead.
func (e *JournalEntry) Void(voidedBy uuid.UUID, reason string) error {
	if e.Status != JournalStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Only posted entries can be voided")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason cannot be empty")
	}

	now := time.Now()
	e.Status = JournalStatusVoid
	e.VoidedAt = &now
	e.VoidedBy = &voidedBy
	e.VoidReason = strings.TrimSpace(reason)
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewJournalEntryVoidedEvent(e))

	return nil
}

// BuildReversal creates a draft entry that mirrors this entry with debits
// and credits swapped, dated in the given (open) period
func (e *JournalEntry) BuildReversal(entryDate time.Time, memo string) (*JournalEntry, error) {
	if e.Status != JournalStatusPosted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only posted entries can be reversed")
	}

	reversal, err := NewJournalEntry(e.TenantID, e.CompanyID, entryDate, e.Currency, memo)
	if err != nil {
		return nil, err
	}

	reversal.Source = JournalSourceReversal
	reversesID := e.ID
	reversal.SourceID = &reversesID
	reversal.ReversesID = &reversesID

	for _, line := range e.Lines {
		reversal.Lines = append(reversal.Lines, JournalLine{
			ID:          uuid.New(),
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Position:    line.Position,
		})
	}

	return reversal, nil
}

// IsPosted returns true if the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == JournalStatusPosted
}

// IsDraft returns true if the entry is still editable
func (e *JournalEntry) IsDraft() bool {
	return e.Status == JournalStatusDraft
}
