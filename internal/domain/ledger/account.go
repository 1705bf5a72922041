package ledger

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// AccountType classifies an account within the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// IsValid returns true if the account type is recognized
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance indicates which side increases an account
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "debit"
	NormalBalanceCredit NormalBalance = "credit"
)

// NormalBalance returns the side on which the account type increases
func (t AccountType) NormalBalance() NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}

// Account is a node in a company's chart of accounts
// It is the aggregate root for account-related operations
type Account struct {
	shared.TenantAggregateRoot
	CompanyID   uuid.UUID
	Code        string
	Name        string
	Type        AccountType
	ParentID    *uuid.UUID
	Description string
	IsActive    bool
	IsSystem    bool // Seeded control accounts cannot be deactivated or renamed
}

// NewAccount creates a new account with required fields
func NewAccount(tenantID, companyID uuid.UUID, code, name string, accountType AccountType) (*Account, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if err := validateAccountCode(code); err != nil {
		return nil, err
	}
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type")
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		Code:                strings.TrimSpace(code),
		Name:                strings.TrimSpace(name),
		Type:                accountType,
		IsActive:            true,
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// NewSystemAccount creates a seeded control account
func NewSystemAccount(tenantID, companyID uuid.UUID, code, name string, accountType AccountType) (*Account, error) {
	account, err := NewAccount(tenantID, companyID, code, name, accountType)
	if err != nil {
		return nil, err
	}

	account.IsSystem = true
	return account, nil
}

// Update updates the account name and description
func (a *Account) Update(name, description string) error {
	if a.IsSystem {
		return shared.NewDomainError("SYSTEM_ACCOUNT", "System accounts cannot be renamed")
	}
	if err := validateAccountName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	a.Name = strings.TrimSpace(name)
	a.Description = description
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetParent nests the account under a parent of the same type
func (a *Account) SetParent(parent *Account) error {
	if parent == nil {
		a.ParentID = nil
		a.UpdatedAt = time.Now()
		a.IncrementVersion()
		return nil
	}
	if parent.ID == a.ID {
		return shared.NewDomainError("INVALID_PARENT", "Account cannot be its own parent")
	}
	if parent.CompanyID != a.CompanyID {
		return shared.NewDomainError("INVALID_PARENT", "Parent account must belong to the same company")
	}
	if parent.Type != a.Type {
		return shared.NewDomainError("INVALID_PARENT", "Parent account must have the same account type")
	}

	parentID := parent.ID
	a.ParentID = &parentID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Deactivate hides the account from new postings. The account must carry
// no balance, which the caller verifies against posted journal lines.
func (a *Account) Deactivate() error {
	if a.IsSystem {
		return shared.NewDomainError("SYSTEM_ACCOUNT", "System accounts cannot be deactivated")
	}
	if !a.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Account is already inactive")
	}

	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeactivatedEvent(a))

	return nil
}

// Activate re-enables the account for posting
func (a *Account) Activate() error {
	if a.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Account is already active")
	}

	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// CanDelete returns true if the account may be removed. Accounts that have
// ever been posted to are deactivated instead.
func (a *Account) CanDelete(hasPostings bool) bool {
	return !a.IsSystem && !hasPostings
}

var accountCodeRegex = regexp.MustCompile(`^[0-9]{3,10}(\.[0-9]{1,4})?$`)

func validateAccountCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if !accountCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code must be numeric, optionally with a dotted suffix (e.g., 1000 or 1000.10)")
	}
	return nil
}

func validateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 200 characters")
	}
	return nil
}

// Well-known control account codes seeded for every company
const (
	AccountCodeCash               = "1000"
	AccountCodeAccountsReceivable = "1100"
	AccountCodeAccountsPayable    = "2000"
	AccountCodeSalesTaxPayable    = "2200"
	AccountCodeRetainedEarnings   = "3900"
	AccountCodeRevenue            = "4000"
	AccountCodeExpense            = "5000"
)
