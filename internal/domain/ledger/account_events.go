package ledger

import (
	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Account domain event types
const (
	EventTypeAccountCreated     = "AccountCreated"
	EventTypeAccountDeactivated = "AccountDeactivated"
)

// AccountCreatedEvent is published when a new account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string `json:"code"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, account.ID, account.TenantID),
		Code:            account.Code,
		Name:            account.Name,
		AccountType:     string(account.Type),
	}
}

// AccountDeactivatedEvent is published when an account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(account *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeactivated, AggregateTypeAccount, account.ID, account.TenantID),
		Code:            account.Code,
	}
}
