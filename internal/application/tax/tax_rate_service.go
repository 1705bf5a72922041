package tax

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/tax"
)

// TaxRateService handles tax rate application logic
type TaxRateService struct {
	taxRateRepo    tax.TaxRateRepository
	eventPublisher shared.EventPublisher
}

// NewTaxRateService creates a new tax rate service
func NewTaxRateService(taxRateRepo tax.TaxRateRepository, eventPublisher shared.EventPublisher) *TaxRateService {
	return &TaxRateService{
		taxRateRepo:    taxRateRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new tax rate
func (s *TaxRateService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaxRateRequest) (*TaxRateResponse, error) {
	exists, err := s.taxRateRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check tax rate code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tax rate with this code already exists")
	}

	rate, err := tax.NewTaxRate(tenantID, req.Code, req.Name, req.Percentage, req.Jurisdiction, req.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := rate.UpdateDetails(rate.Name, rate.Jurisdiction, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save tax rate: %w", err)
	}
	s.publishDomainEvents(ctx, rate)

	response := ToTaxRateResponse(rate)
	return &response, nil
}

// GetByID retrieves a tax rate by ID
func (s *TaxRateService) GetByID(ctx context.Context, tenantID, rateID uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}

	response := ToTaxRateResponse(rate)
	return &response, nil
}

// List retrieves tax rates for a tenant. With a usable-on date, only rates
// effective and active on that date are returned
func (s *TaxRateService) List(ctx context.Context, tenantID uuid.UUID, filter TaxRateListFilter) ([]TaxRateResponse, int64, error) {
	var rates []*tax.TaxRate
	var err error

	if filter.UsableOn != nil {
		rates, err = s.taxRateRepo.FindUsableOn(ctx, tenantID, *filter.UsableOn)
	} else {
		domainFilter := shared.DefaultFilter()
		if filter.Page > 0 {
			domainFilter.Page = filter.Page
		}
		if filter.PageSize > 0 {
			domainFilter.PageSize = filter.PageSize
		}
		domainFilter.Search = filter.Search
		rates, err = s.taxRateRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tax rates: %w", err)
	}

	total, err := s.taxRateRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tax rates: %w", err)
	}

	responses := make([]TaxRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = ToTaxRateResponse(rate)
	}
	return responses, total, nil
}

// Update updates a tax rate's descriptive fields. The percentage is
// immutable once created
func (s *TaxRateService) Update(ctx context.Context, tenantID, rateID uuid.UUID, req UpdateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}

	name := rate.Name
	if req.Name != nil {
		name = *req.Name
	}
	jurisdiction := rate.Jurisdiction
	if req.Jurisdiction != nil {
		jurisdiction = *req.Jurisdiction
	}
	description := rate.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := rate.UpdateDetails(name, jurisdiction, description); err != nil {
		return nil, err
	}

	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update tax rate: %w", err)
	}
	s.publishDomainEvents(ctx, rate)

	response := ToTaxRateResponse(rate)
	return &response, nil
}

// End closes a rate's effective window so it stops applying to new documents
func (s *TaxRateService) End(ctx context.Context, tenantID, rateID uuid.UUID, req EndTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}

	if err := rate.EndEffective(req.EffectiveTo); err != nil {
		return nil, err
	}
	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save tax rate: %w", err)
	}
	s.publishDomainEvents(ctx, rate)

	response := ToTaxRateResponse(rate)
	return &response, nil
}

// Activate re-enables a tax rate
func (s *TaxRateService) Activate(ctx context.Context, tenantID, rateID uuid.UUID) (*TaxRateResponse, error) {
	return s.changeStatus(ctx, tenantID, rateID, (*tax.TaxRate).Activate)
}

// Deactivate disables a tax rate without touching its effective window
func (s *TaxRateService) Deactivate(ctx context.Context, tenantID, rateID uuid.UUID) (*TaxRateResponse, error) {
	return s.changeStatus(ctx, tenantID, rateID, (*tax.TaxRate).Deactivate)
}

// Delete removes a tax rate that no document line references. Referenced
// rates are deactivated instead of deleted so historical documents keep
// resolving
func (s *TaxRateService) Delete(ctx context.Context, tenantID, rateID uuid.UUID) error {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return fmt.Errorf("failed to find tax rate: %w", err)
	}

	referenced, err := s.taxRateRepo.IsReferenced(ctx, rate.ID)
	if err != nil {
		return fmt.Errorf("failed to check tax rate references: %w", err)
	}
	if referenced {
		return shared.NewDomainError("TAX_RATE_REFERENCED", "Tax rates referenced by documents cannot be deleted")
	}

	if err := s.taxRateRepo.Delete(ctx, rate.ID); err != nil {
		return fmt.Errorf("failed to delete tax rate: %w", err)
	}
	return nil
}

// Preview computes the tax a rate would add to a net amount on a given date
func (s *TaxRateService) Preview(ctx context.Context, tenantID, rateID uuid.UUID, req PreviewTaxRequest) (*TaxPreviewResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}
	if !rate.IsUsableOn(req.On) {
		return nil, shared.NewDomainError("TAX_RATE_NOT_USABLE",
			fmt.Sprintf("Tax rate %s is not usable on the given date", rate.Code))
	}

	taxAmount := rate.TaxFor(req.Amount)
	return &TaxPreviewResponse{
		RateID:     rate.ID,
		Code:       rate.Code,
		Percentage: rate.Percentage,
		Base:       req.Amount,
		Tax:        taxAmount,
		Total:      req.Amount.Add(taxAmount),
	}, nil
}

// GetByCode retrieves a tax rate by its code
func (s *TaxRateService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}

	response := ToTaxRateResponse(rate)
	return &response, nil
}

func (s *TaxRateService) changeStatus(ctx context.Context, tenantID, rateID uuid.UUID, transition func(*tax.TaxRate) error) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rate: %w", err)
	}

	if err := transition(rate); err != nil {
		return nil, err
	}
	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save tax rate: %w", err)
	}
	s.publishDomainEvents(ctx, rate)

	response := ToTaxRateResponse(rate)
	return &response, nil
}

func (s *TaxRateService) publishDomainEvents(ctx context.Context, rate *tax.TaxRate) {
	if s.eventPublisher == nil {
		return
	}
	events := rate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	rate.ClearDomainEvents()
}
