package identity

import (
	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant for Company
const AggregateTypeCompany = "Company"

// Company domain event types
const (
	EventTypeCompanyCreated  = "CompanyCreated"
	EventTypeCompanyArchived = "CompanyArchived"
)

// CompanyCreatedEvent is published when a new company is created
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, company.ID, company.TenantID),
		Name:            company.Name,
		BaseCurrency:    string(company.BaseCurrency),
	}
}

// CompanyArchivedEvent is published when a company is archived
type CompanyArchivedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCompanyArchivedEvent creates a new CompanyArchivedEvent
func NewCompanyArchivedEvent(company *Company) *CompanyArchivedEvent {
	return &CompanyArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyArchived, AggregateTypeCompany, company.ID, company.TenantID),
		Name:            company.Name,
	}
}
