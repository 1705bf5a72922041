package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
	VendorStatusBlocked  VendorStatus = "blocked" // Blocked due to disputes, no new bills
)

// Vendor represents a party the company receives bills from.
// It is the aggregate root for vendor-related operations
type Vendor struct {
	shared.TenantAggregateRoot
	CompanyID               uuid.UUID            `gorm:"type:uuid;not null;index"`
	Code                    string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_vendor_company_code,priority:2"`
	Name                    string               `gorm:"type:varchar(200);not null"`
	ShortName               string               `gorm:"type:varchar(100)"` // Abbreviated name
	Status                  VendorStatus         `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName             string               `gorm:"type:varchar(100)"` // Primary contact person
	Phone                   string               `gorm:"type:varchar(50);index"`
	Email                   string               `gorm:"type:varchar(200);index"`
	Address                 valueobject.Address  `gorm:"type:jsonb"`
	Currency                valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentTermsDays        int                  `gorm:"not null;default:30"` // Net days until bill due
	TaxID                   string               `gorm:"type:varchar(50)"`    // Tax identification number
	BankName                string               `gorm:"type:varchar(200)"`
	BankAccount             string               `gorm:"type:varchar(100)"` // Remittance account
	DefaultExpenseAccountID *uuid.UUID           `gorm:"type:uuid"`         // Pre-fills bill lines
	Notes                   string               `gorm:"type:text"`
	Attributes              string               `gorm:"type:jsonb"` // Custom attributes
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor with required fields
func NewVendor(tenantID, companyID uuid.UUID, code, name string) (*Vendor, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_ID", "Company ID cannot be empty")
	}
	if err := validateVendorCode(code); err != nil {
		return nil, err
	}
	if err := validateVendorName(name); err != nil {
		return nil, err
	}

	vendor := &Vendor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              VendorStatusActive,
		Address:             valueobject.EmptyAddress(),
		Currency:            valueobject.DefaultCurrency,
		PaymentTermsDays:    30,
		Attributes:          "{}",
	}

	vendor.AddDomainEvent(NewVendorCreatedEvent(vendor))

	return vendor, nil
}

// Update updates the vendor's basic information
func (v *Vendor) Update(name, shortName string) error {
	if err := validateVendorName(name); err != nil {
		return err
	}
	if shortName != "" && len(shortName) > 100 {
		return shared.NewDomainError("INVALID_SHORT_NAME", "Short name cannot exceed 100 characters")
	}

	v.Name = name
	v.ShortName = shortName
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVendorUpdatedEvent(v))

	return nil
}

// UpdateCode updates the vendor's code
func (v *Vendor) UpdateCode(code string) error {
	if err := validateVendorCode(code); err != nil {
		return err
	}

	v.Code = strings.ToUpper(code)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVendorUpdatedEvent(v))

	return nil
}

// SetContact sets the vendor's contact information
func (v *Vendor) SetContact(contactName, phone, email string) error {
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

	v.ContactName = contactName
	v.Phone = phone
	v.Email = email
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetAddress sets the vendor's remittance address
func (v *Vendor) SetAddress(address valueobject.Address) {
	v.Address = address
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// SetCurrency sets the currency the vendor bills in
func (v *Vendor) SetCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is not a supported currency code")
	}

	v.Currency = currency
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetPaymentTerms sets the net payment terms offered by the vendor
func (v *Vendor) SetPaymentTerms(netDays int) error {
	if netDays < 0 || netDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}

	v.PaymentTermsDays = netDays
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetTaxID sets the vendor's tax identification number
func (v *Vendor) SetTaxID(taxID string) error {
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	v.TaxID = taxID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetBankInfo sets the vendor's remittance bank details
func (v *Vendor) SetBankInfo(bankName, bankAccount string) error {
	if bankName != "" && len(bankName) > 200 {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot exceed 200 characters")
	}
	if bankAccount != "" && len(bankAccount) > 100 {
		return shared.NewDomainError("INVALID_BANK_ACCOUNT", "Bank account cannot exceed 100 characters")
	}

	v.BankName = bankName
	v.BankAccount = bankAccount
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetDefaultExpenseAccount sets the expense account pre-filled on new bills
func (v *Vendor) SetDefaultExpenseAccount(accountID *uuid.UUID) {
	v.DefaultExpenseAccountID = accountID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// SetNotes sets the vendor's notes
func (v *Vendor) SetNotes(notes string) {
	v.Notes = notes
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// SetAttributes sets custom attributes as JSON
func (v *Vendor) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	trimmed := strings.TrimSpace(attributes)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be valid JSON object")
	}

	v.Attributes = trimmed
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// Activate activates the vendor
func (v *Vendor) Activate() error {
	if v.Status == VendorStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Vendor is already active")
	}

	oldStatus := v.Status
	v.Status = VendorStatusActive
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVendorStatusChangedEvent(v, oldStatus, VendorStatusActive))

	return nil
}

// Deactivate deactivates the vendor
func (v *Vendor) Deactivate() error {
	if v.Status == VendorStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Vendor is already inactive")
	}

	oldStatus := v.Status
	v.Status = VendorStatusInactive
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVendorStatusChangedEvent(v, oldStatus, VendorStatusInactive))

	return nil
}

// Block blocks the vendor, preventing new bills
func (v *Vendor) Block() error {
	if v.Status == VendorStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Vendor is already blocked")
	}

	oldStatus := v.Status
	v.Status = VendorStatusBlocked
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewVendorStatusChangedEvent(v, oldStatus, VendorStatusBlocked))

	return nil
}

// IsActive returns true if the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

// IsBlocked returns true if the vendor is blocked
func (v *Vendor) IsBlocked() bool {
	return v.Status == VendorStatusBlocked
}

// HasBankInfo returns true if remittance details are on file
func (v *Vendor) HasBankInfo() bool {
	return v.BankName != "" && v.BankAccount != ""
}

// DueDateFor returns the due date for a bill received on the given date
func (v *Vendor) DueDateFor(billDate time.Time) time.Time {
	return billDate.AddDate(0, 0, v.PaymentTermsDays)
}

func validateVendorCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Vendor code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Vendor code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Vendor code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateVendorName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot exceed 200 characters")
	}
	return nil
}
