package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// AddressRequest carries an address in API requests
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,min=1,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"omitempty,len=2"`
}

func (r AddressRequest) toAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Line1, r.City, r.Region,
		valueobject.WithLine2(r.Line2),
		valueobject.WithPostalCode(r.PostalCode),
		valueobject.WithCountry(r.Country))
}

// AddressResponse carries an address in API responses
type AddressResponse struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func toAddressResponse(address valueobject.Address) AddressResponse {
	return AddressResponse{
		Line1:      address.Line1(),
		Line2:      address.Line2(),
		City:       address.City(),
		Region:     address.Region(),
		PostalCode: address.PostalCode(),
		Country:    address.Country(),
	}
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Code             string           `json:"code" binding:"required,min=1,max=50"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	ShortName        string           `json:"short_name" binding:"max=100"`
	Type             string           `json:"type" binding:"required,oneof=individual organization"`
	ContactName      string           `json:"contact_name" binding:"max=100"`
	Phone            string           `json:"phone" binding:"max=50"`
	Email            string           `json:"email" binding:"omitempty,email,max=200"`
	BillingAddress   *AddressRequest  `json:"billing_address"`
	Currency         string           `json:"currency" binding:"omitempty,len=3"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
	TaxID            string           `json:"tax_id" binding:"max=50"`
	TaxExempt        bool             `json:"tax_exempt"`
	Notes            string           `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ShortName        *string          `json:"short_name" binding:"omitempty,max=100"`
	ContactName      *string          `json:"contact_name" binding:"omitempty,max=100"`
	Phone            *string          `json:"phone" binding:"omitempty,max=50"`
	Email            *string          `json:"email" binding:"omitempty,email,max=200"`
	BillingAddress   *AddressRequest  `json:"billing_address"`
	Currency         *string          `json:"currency" binding:"omitempty,len=3"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
	TaxID            *string          `json:"tax_id" binding:"omitempty,max=50"`
	TaxExempt        *bool            `json:"tax_exempt"`
	Notes            *string          `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ShortName        string          `json:"short_name,omitempty"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	ContactName      string          `json:"contact_name,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Email            string          `json:"email,omitempty"`
	BillingAddress   AddressResponse `json:"billing_address"`
	Currency         string          `json:"currency"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	TaxID            string          `json:"tax_id,omitempty"`
	TaxExempt        bool            `json:"tax_exempt"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive on_hold"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCustomerResponse converts a domain customer to its response DTO
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               customer.ID,
		CompanyID:        customer.CompanyID,
		Code:             customer.Code,
		Name:             customer.Name,
		ShortName:        customer.ShortName,
		Type:             string(customer.Type),
		Status:           string(customer.Status),
		ContactName:      customer.ContactName,
		Phone:            customer.Phone,
		Email:            customer.Email,
		BillingAddress:   toAddressResponse(customer.BillingAddress),
		Currency:         customer.Currency.String(),
		PaymentTermsDays: customer.PaymentTermsDays,
		CreditLimit:      customer.CreditLimit,
		TaxID:            customer.TaxID,
		TaxExempt:        customer.TaxExempt,
		Notes:            customer.Notes,
		CreatedAt:        customer.CreatedAt,
		UpdatedAt:        customer.UpdatedAt,
		Version:          customer.Version,
	}
}

// =============================================================================
// Vendor DTOs
// =============================================================================

// CreateVendorRequest represents a request to create a vendor
type CreateVendorRequest struct {
	Code                    string          `json:"code" binding:"required,min=1,max=50"`
	Name                    string          `json:"name" binding:"required,min=1,max=200"`
	ShortName               string          `json:"short_name" binding:"max=100"`
	ContactName             string          `json:"contact_name" binding:"max=100"`
	Phone                   string          `json:"phone" binding:"max=50"`
	Email                   string          `json:"email" binding:"omitempty,email,max=200"`
	Address                 *AddressRequest `json:"address"`
	Currency                string          `json:"currency" binding:"omitempty,len=3"`
	PaymentTermsDays        *int            `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	TaxID                   string          `json:"tax_id" binding:"max=50"`
	BankName                string          `json:"bank_name" binding:"max=200"`
	BankAccount             string          `json:"bank_account" binding:"max=100"`
	DefaultExpenseAccountID *uuid.UUID      `json:"default_expense_account_id"`
	Notes                   string          `json:"notes"`
}

// UpdateVendorRequest represents a request to update a vendor
type UpdateVendorRequest struct {
	Name                    *string         `json:"name" binding:"omitempty,min=1,max=200"`
	ShortName               *string         `json:"short_name" binding:"omitempty,max=100"`
	ContactName             *string         `json:"contact_name" binding:"omitempty,max=100"`
	Phone                   *string         `json:"phone" binding:"omitempty,max=50"`
	Email                   *string         `json:"email" binding:"omitempty,email,max=200"`
	Address                 *AddressRequest `json:"address"`
	Currency                *string         `json:"currency" binding:"omitempty,len=3"`
	PaymentTermsDays        *int            `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	TaxID                   *string         `json:"tax_id" binding:"omitempty,max=50"`
	BankName                *string         `json:"bank_name" binding:"omitempty,max=200"`
	BankAccount             *string         `json:"bank_account" binding:"omitempty,max=100"`
	DefaultExpenseAccountID *uuid.UUID      `json:"default_expense_account_id"`
	Notes                   *string         `json:"notes"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID                      uuid.UUID       `json:"id"`
	CompanyID               uuid.UUID       `json:"company_id"`
	Code                    string          `json:"code"`
	Name                    string          `json:"name"`
	ShortName               string          `json:"short_name,omitempty"`
	Status                  string          `json:"status"`
	ContactName             string          `json:"contact_name,omitempty"`
	Phone                   string          `json:"phone,omitempty"`
	Email                   string          `json:"email,omitempty"`
	Address                 AddressResponse `json:"address"`
	Currency                string          `json:"currency"`
	PaymentTermsDays        int             `json:"payment_terms_days"`
	TaxID                   string          `json:"tax_id,omitempty"`
	BankName                string          `json:"bank_name,omitempty"`
	BankAccount             string          `json:"bank_account,omitempty"`
	DefaultExpenseAccountID *uuid.UUID      `json:"default_expense_account_id,omitempty"`
	Notes                   string          `json:"notes,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	Version                 int             `json:"version"`
}

// VendorListFilter represents filter options for the vendor list
type VendorListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToVendorResponse converts a domain vendor to its response DTO
func ToVendorResponse(vendor *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:                      vendor.ID,
		CompanyID:               vendor.CompanyID,
		Code:                    vendor.Code,
		Name:                    vendor.Name,
		ShortName:               vendor.ShortName,
		Status:                  string(vendor.Status),
		ContactName:             vendor.ContactName,
		Phone:                   vendor.Phone,
		Email:                   vendor.Email,
		Address:                 toAddressResponse(vendor.Address),
		Currency:                vendor.Currency.String(),
		PaymentTermsDays:        vendor.PaymentTermsDays,
		TaxID:                   vendor.TaxID,
		BankName:                vendor.BankName,
		BankAccount:             vendor.BankAccount,
		DefaultExpenseAccountID: vendor.DefaultExpenseAccountID,
		Notes:                   vendor.Notes,
		CreatedAt:               vendor.CreatedAt,
		UpdatedAt:               vendor.UpdatedAt,
		Version:                 vendor.Version,
	}
}
