package tax

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

var taxRateCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-]{0,19}$`)

// TaxRate is a tenant-scoped percentage applied to document lines.
// Documents snapshot the percentage at the time a line is created, so
// editing a rate never changes amounts on historical invoices or bills.
type TaxRate struct {
	shared.TenantAggregateRoot
	Code          string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_tax_rate_tenant_code" json:"code"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Percentage    decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"percentage"`
	Jurisdiction  string          `gorm:"type:varchar(100)" json:"jurisdiction"`
	EffectiveFrom time.Time       `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	Description   string          `gorm:"type:varchar(500)" json:"description"`
}

// NewTaxRate creates an active tax rate effective from the given date.
func NewTaxRate(tenantID uuid.UUID, code, name string, percentage decimal.Decimal, jurisdiction string, effectiveFrom time.Time) (*TaxRate, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if !taxRateCodeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Tax rate code must be 1-20 uppercase letters, digits, underscores or hyphens")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax rate name must be between 1 and 100 characters")
	}
	if err := validatePercentage(percentage); err != nil {
		return nil, err
	}
	if effectiveFrom.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_FROM", "Effective from date cannot be empty")
	}

	rate := &TaxRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Percentage:          percentage,
		Jurisdiction:        strings.TrimSpace(jurisdiction),
		EffectiveFrom:       effectiveFrom,
		IsActive:            true,
	}

	rate.AddDomainEvent(NewTaxRateCreatedEvent(rate))
	return rate, nil
}

func validatePercentage(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Tax percentage must be between 0 and 100")
	}
	return nil
}

// UpdateDetails changes the display fields of the rate. The percentage
// itself is immutable once created; supersede a rate by ending it and
// creating a new one.
func (r *TaxRate) UpdateDetails(name, jurisdiction, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Tax rate name must be between 1 and 100 characters")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	r.Name = name
	r.Jurisdiction = strings.TrimSpace(jurisdiction)
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewTaxRateUpdatedEvent(r))
	return nil
}

// EndEffective closes the active window of the rate. The rate stays
// queryable for documents dated inside the window.
func (r *TaxRate) EndEffective(effectiveTo time.Time) error {
	if r.EffectiveTo != nil {
		return shared.NewDomainError("ALREADY_ENDED", "Tax rate already has an end date")
	}
	if !effectiveTo.After(r.EffectiveFrom) {
		return shared.NewDomainError("INVALID_EFFECTIVE_TO", "End date must be after the effective from date")
	}

	r.EffectiveTo = &effectiveTo
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewTaxRateUpdatedEvent(r))
	return nil
}

// Activate re-enables a deactivated rate.
func (r *TaxRate) Activate() error {
	if r.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tax rate is already active")
	}

	r.IsActive = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewTaxRateStatusChangedEvent(r))
	return nil
}

// Deactivate hides the rate from new documents without affecting
// existing ones.
func (r *TaxRate) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tax rate is already inactive")
	}

	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewTaxRateStatusChangedEvent(r))
	return nil
}

// IsEffectiveOn reports whether the rate's active window covers the date.
func (r *TaxRate) IsEffectiveOn(date time.Time) bool {
	if date.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && date.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// IsUsableOn reports whether the rate may be applied to a new document
// line dated on the given date.
func (r *TaxRate) IsUsableOn(date time.Time) bool {
	return r.IsActive && r.IsEffectiveOn(date)
}

// TaxFor computes the tax on a net amount, rounded half-to-even to two
// decimal places.
func (r *TaxRate) TaxFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Percentage).Div(decimal.NewFromInt(100)).RoundBank(2)
}

// TableName returns the database table name
func (TaxRate) TableName() string {
	return "tax_rates"
}
