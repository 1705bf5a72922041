package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// CompanyStatus represents the status of a company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusArchived CompanyStatus = "archived"
)

// Company represents a legal entity within a tenant. Each company keeps
// its own chart of accounts, documents, and fiscal calendar.
type Company struct {
	shared.TenantAggregateRoot
	Name                 string
	LegalName            string
	TaxID                string // EIN or equivalent registration number
	BaseCurrency         valueobject.Currency
	FiscalYearStartMonth int // 1 = January
	Address              valueobject.Address
	Status               CompanyStatus
	Notes                string
}

// NewCompany creates a new company with required fields
func NewCompany(tenantID uuid.UUID, name string, baseCurrency valueobject.Currency) (*Company, error) {
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}
	if !baseCurrency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Base currency is not a supported currency code")
	}

	company := &Company{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		Name:                 strings.TrimSpace(name),
		BaseCurrency:         baseCurrency,
		FiscalYearStartMonth: 1,
		Status:               CompanyStatusActive,
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company))

	return company, nil
}

// Update updates the company's basic information
func (c *Company) Update(name, legalName string) error {
	if err := validateCompanyName(name); err != nil {
		return err
	}
	if legalName != "" && len(legalName) > 300 {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 300 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.LegalName = strings.TrimSpace(legalName)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetTaxID sets the company's tax registration number
func (c *Company) SetTaxID(taxID string) error {
	taxID = strings.TrimSpace(taxID)
	if taxID != "" && !taxIDRegex.MatchString(taxID) {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID may contain only letters, numbers, and hyphens")
	}

	c.TaxID = taxID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetFiscalYearStart sets the first month of the company's fiscal year
func (c *Company) SetFiscalYearStart(month int) error {
	if month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_FISCAL_YEAR_START", "Fiscal year start month must be between 1 and 12")
	}

	c.FiscalYearStartMonth = month
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the company's registered address
func (c *Company) SetAddress(addr valueobject.Address) {
	c.Address = addr
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetNotes sets free-form notes
func (c *Company) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Archive marks the company as archived. Archived companies reject new
// documents but remain readable for reporting.
func (c *Company) Archive() error {
	if c.Status == CompanyStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Company is already archived")
	}

	c.Status = CompanyStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyArchivedEvent(c))

	return nil
}

// Restore reactivates an archived company
func (c *Company) Restore() error {
	if c.Status == CompanyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Company is already active")
	}

	c.Status = CompanyStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the company accepts new documents
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

var taxIDRegex = regexp.MustCompile(`^[a-zA-Z0-9\-]{2,50}$`)

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}
