package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/tax"
)

// CreateTaxRateRequest represents a request to create a tax rate
type CreateTaxRateRequest struct {
	Code          string          `json:"code" binding:"required,min=1,max=20"`
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	Percentage    decimal.Decimal `json:"percentage" binding:"required"`
	Jurisdiction  string          `json:"jurisdiction" binding:"max=100"`
	EffectiveFrom time.Time       `json:"effective_from" binding:"required"`
	Description   string          `json:"description" binding:"max=500"`
}

// UpdateTaxRateRequest updates the descriptive fields of a tax rate.
// The percentage is immutable; superseding a rate means ending this one
// and creating a replacement
type UpdateTaxRateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Jurisdiction *string `json:"jurisdiction" binding:"omitempty,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
}

// EndTaxRateRequest closes a rate's effective window. A replacement rate
// with a new code is created separately
type EndTaxRateRequest struct {
	EffectiveTo time.Time `json:"effective_to" binding:"required"`
}

// PreviewTaxRequest asks what tax a rate would add to a net amount on a date
type PreviewTaxRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	On     time.Time       `json:"on" binding:"required"`
}

// TaxPreviewResponse is the computed tax for a preview request
type TaxPreviewResponse struct {
	RateID     uuid.UUID       `json:"rate_id"`
	Code       string          `json:"code"`
	Percentage decimal.Decimal `json:"percentage"`
	Base       decimal.Decimal `json:"base"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// TaxRateResponse represents a tax rate in API responses
type TaxRateResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Percentage    decimal.Decimal `json:"percentage"`
	Jurisdiction  string          `json:"jurisdiction,omitempty"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	IsActive      bool            `json:"is_active"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// TaxRateListFilter represents filter options for the tax rate list
type TaxRateListFilter struct {
	UsableOn *time.Time `form:"usable_on" time_format:"2006-01-02"`
	Search   string     `form:"search" binding:"max=100"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToTaxRateResponse converts a domain tax rate to its response DTO
func ToTaxRateResponse(rate *tax.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:            rate.ID,
		Code:          rate.Code,
		Name:          rate.Name,
		Percentage:    rate.Percentage,
		Jurisdiction:  rate.Jurisdiction,
		EffectiveFrom: rate.EffectiveFrom,
		EffectiveTo:   rate.EffectiveTo,
		IsActive:      rate.IsActive,
		Description:   rate.Description,
		CreatedAt:     rate.CreatedAt,
		UpdatedAt:     rate.UpdatedAt,
		Version:       rate.Version,
	}
}
