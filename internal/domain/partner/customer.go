package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusOnHold   CustomerStatus = "on_hold" // Credit hold, no new invoices
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual   CustomerType = "individual"   // Personal customer
	CustomerTypeOrganization CustomerType = "organization" // Business/company
)

// Customer represents a party the company invoices.
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.TenantAggregateRoot
	CompanyID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	Code             string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_company_code,priority:2"`
	Name             string               `gorm:"type:varchar(200);not null"`
	ShortName        string               `gorm:"type:varchar(100)"` // Abbreviated name
	Type             CustomerType         `gorm:"type:varchar(20);not null;default:'organization'"`
	Status           CustomerStatus       `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName      string               `gorm:"type:varchar(100)"` // Primary contact person
	Phone            string               `gorm:"type:varchar(50);index"`
	Email            string               `gorm:"type:varchar(200);index"`
	BillingAddress   valueobject.Address  `gorm:"type:jsonb"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentTermsDays int                  `gorm:"not null;default:30"` // Net days until invoice due
	TaxID            string               `gorm:"type:varchar(50)"`    // Tax identification number
	TaxExempt        bool                 `gorm:"not null;default:false"`
	CreditLimit      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Notes            string               `gorm:"type:text"`
	Attributes       string               `gorm:"type:jsonb"` // Custom attributes
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(tenantID, companyID uuid.UUID, code, name string, customerType CustomerType) (*Customer, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                customerType,
		Status:              CustomerStatusActive,
		BillingAddress:      valueobject.EmptyAddress(),
		Currency:            valueobject.DefaultCurrency,
		PaymentTermsDays:    30,
		CreditLimit:         decimal.Zero,
		Attributes:          "{}",
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// NewIndividualCustomer creates a new individual customer
func NewIndividualCustomer(tenantID, companyID uuid.UUID, code, name string) (*Customer, error) {
	return NewCustomer(tenantID, companyID, code, name, CustomerTypeIndividual)
}

// NewOrganizationCustomer creates a new organization customer
func NewOrganizationCustomer(tenantID, companyID uuid.UUID, code, name string) (*Customer, error) {
	return NewCustomer(tenantID, companyID, code, name, CustomerTypeOrganization)
}

// Update updates the customer's basic information
func (c *Customer) Update(name, shortName string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if shortName != "" && len(shortName) > 100 {
		return shared.NewDomainError("INVALID_SHORT_NAME", "Short name cannot exceed 100 characters")
	}

	c.Name = name
	c.ShortName = shortName
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// UpdateCode updates the customer's code
func (c *Customer) UpdateCode(code string) error {
	if err := validateCustomerCode(code); err != nil {
		return err
	}

	c.Code = strings.ToUpper(code)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetBillingAddress sets the address invoices are issued to
func (c *Customer) SetBillingAddress(address valueobject.Address) {
	c.BillingAddress = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetCurrency sets the currency the customer is invoiced in
func (c *Customer) SetCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}

	c.Currency = currency
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPaymentTerms sets the net payment terms and credit limit
func (c *Customer) SetPaymentTerms(netDays int, creditLimit decimal.Decimal) error {
	if netDays < 0 || netDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.PaymentTermsDays = netDays
	c.CreditLimit = creditLimit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetTaxID sets the customer's tax identification number
func (c *Customer) SetTaxID(taxID string) error {
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	c.TaxID = taxID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetTaxExempt marks the customer exempt from sales tax
func (c *Customer) SetTaxExempt(exempt bool) {
	c.TaxExempt = exempt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetAttributes sets custom attributes as JSON
func (c *Customer) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	trimmed := strings.TrimSpace(attributes)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be valid JSON object")
	}

	c.Attributes = trimmed
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusActive))

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusInactive))

	return nil
}

// PlaceOnHold puts the customer on credit hold, blocking new invoices
func (c *Customer) PlaceOnHold() error {
	if c.Status == CustomerStatusOnHold {
		return shared.NewDomainError("ALREADY_ON_HOLD", "Customer is already on hold")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusOnHold
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusOnHold))

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsOnHold returns true if the customer is on credit hold
func (c *Customer) IsOnHold() bool {
	return c.Status == CustomerStatusOnHold
}

// IsIndividual returns true if customer is an individual
func (c *Customer) IsIndividual() bool {
	return c.Type == CustomerTypeIndividual
}

// IsOrganization returns true if customer is an organization
func (c *Customer) IsOrganization() bool {
	return c.Type == CustomerTypeOrganization
}

// HasCreditLimit returns true if customer has a credit limit set
func (c *Customer) HasCreditLimit() bool {
	return c.CreditLimit.GreaterThan(decimal.Zero)
}

// DueDateFor returns the due date for an invoice issued on the given date
func (c *Customer) DueDateFor(issueDate time.Time) time.Time {
	return issueDate.AddDate(0, 0, c.PaymentTermsDays)
}

// Validation functions

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeIndividual, CustomerTypeOrganization:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Customer type must be 'individual' or 'organization'")
	}
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	// Basic phone validation - allow digits, spaces, hyphens, parentheses, and plus sign
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	// Basic email validation
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
