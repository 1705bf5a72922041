package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// CompanyService handles company management operations
type CompanyService struct {
	companyRepo identity.CompanyRepository
	tenantRepo  identity.TenantRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo identity.CompanyRepository,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		tenantRepo:  tenantRepo,
		logger:      logger,
	}
}

// AddressInput contains input for a company address
type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// CreateCompanyInput contains input for creating a company
type CreateCompanyInput struct {
	TenantID             uuid.UUID
	Name                 string
	LegalName            string
	BaseCurrency         string
	TaxID                string
	FiscalYearStartMonth int // 0 means default (January)
	Address              *AddressInput
	Notes                string
}

// UpdateCompanyInput contains input for updating a company
type UpdateCompanyInput struct {
	Name                 *string
	LegalName            *string
	TaxID                *string
	FiscalYearStartMonth *int
	Address              *AddressInput
	Notes                *string
}

// CompanyDTO represents company data transfer object
type CompanyDTO struct {
	ID                   uuid.UUID           `json:"id"`
	TenantID             uuid.UUID           `json:"tenant_id"`
	Name                 string              `json:"name"`
	LegalName            string              `json:"legal_name,omitempty"`
	TaxID                string              `json:"tax_id,omitempty"`
	BaseCurrency         string              `json:"base_currency"`
	FiscalYearStartMonth int                 `json:"fiscal_year_start_month"`
	Address              valueobject.Address `json:"address"`
	Status               string              `json:"status"`
	Notes                string              `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// CompanyFilter represents filter for querying companies
type CompanyFilter struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Keyword  string
	Status   string
}

// ToSharedFilter converts CompanyFilter to shared.Filter
func (f CompanyFilter) ToSharedFilter() shared.Filter {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  f.SortBy,
		OrderDir: f.SortDir,
		Search:   f.Keyword,
		Filters:  map[string]interface{}{},
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}

// CompanyListResult represents paginated company list result
type CompanyListResult struct {
	Companies  []CompanyDTO `json:"companies"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Create creates a new company within the tenant. The tenant's plan limits
// how many companies it may hold.
func (s *CompanyService) Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error) {
	s.logger.Info("Creating new company",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("name", input.Name))

	exists, err := s.companyRepo.ExistsByName(ctx, input.TenantID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check company name existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check name availability")
	}
	if exists {
		return nil, shared.NewDomainError("NAME_EXISTS", "A company with this name already exists")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	if tenant.Config.MaxCompanies > 0 {
		count, err := s.companyRepo.Count(ctx, input.TenantID)
		if err != nil {
			s.logger.Error("Failed to count companies", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count companies")
		}
		if count >= int64(tenant.Config.MaxCompanies) {
			return nil, shared.NewDomainError("COMPANY_LIMIT_REACHED", "The tenant's plan does not allow more companies")
		}
	}

	company, err := identity.NewCompany(input.TenantID, input.Name, valueobject.Currency(input.BaseCurrency))
	if err != nil {
		return nil, err
	}

	if input.LegalName != "" {
		if err := company.Update(input.Name, input.LegalName); err != nil {
			return nil, err
		}
	}
	if input.TaxID != "" {
		if err := company.SetTaxID(input.TaxID); err != nil {
			return nil, err
		}
	}
	if input.FiscalYearStartMonth > 0 {
		if err := company.SetFiscalYearStart(input.FiscalYearStartMonth); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		addr, err := toAddress(*input.Address)
		if err != nil {
			return nil, err
		}
		company.SetAddress(addr)
	}
	if input.Notes != "" {
		company.SetNotes(input.Notes)
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to create company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create company")
	}

	s.logger.Info("Company created successfully",
		zap.String("company_id", company.ID.String()),
		zap.String("tenant_id", input.TenantID.String()))

	return toCompanyDTO(company), nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		s.logger.Error("Failed to find company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find company")
	}
	return toCompanyDTO(company), nil
}

// List retrieves a paginated list of companies for the tenant
func (s *CompanyService) List(ctx context.Context, tenantID uuid.UUID, filter CompanyFilter) (*CompanyListResult, error) {
	sharedFilter := filter.ToSharedFilter()

	companies, total, err := s.companyRepo.FindAll(ctx, tenantID, sharedFilter)
	if err != nil {
		s.logger.Error("Failed to list companies", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list companies")
	}

	pageSize := sharedFilter.PageSize
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	companyDTOs := make([]CompanyDTO, len(companies))
	for i, company := range companies {
		companyDTOs[i] = *toCompanyDTO(&company)
	}

	return &CompanyListResult{
		Companies:  companyDTOs,
		Total:      total,
		Page:       sharedFilter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ListActive retrieves all active companies for the tenant
func (s *CompanyService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]CompanyDTO, error) {
	companies, err := s.companyRepo.FindActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list active companies", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list companies")
	}

	companyDTOs := make([]CompanyDTO, len(companies))
	for i, company := range companies {
		companyDTOs[i] = *toCompanyDTO(&company)
	}
	return companyDTOs, nil
}

// Update updates a company's information
func (s *CompanyService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find company")
	}

	if input.Name != nil || input.LegalName != nil {
		name := company.Name
		legalName := company.LegalName
		if input.Name != nil {
			name = *input.Name
		}
		if input.LegalName != nil {
			legalName = *input.LegalName
		}
		if name != company.Name {
			exists, err := s.companyRepo.ExistsByName(ctx, tenantID, name)
			if err != nil {
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check name availability")
			}
			if exists {
				return nil, shared.NewDomainError("NAME_EXISTS", "A company with this name already exists")
			}
		}
		if err := company.Update(name, legalName); err != nil {
			return nil, err
		}
	}

	if input.TaxID != nil {
		if err := company.SetTaxID(*input.TaxID); err != nil {
			return nil, err
		}
	}
	if input.FiscalYearStartMonth != nil {
		if err := company.SetFiscalYearStart(*input.FiscalYearStartMonth); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		addr, err := toAddress(*input.Address)
		if err != nil {
			return nil, err
		}
		company.SetAddress(addr)
	}
	if input.Notes != nil {
		company.SetNotes(*input.Notes)
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to update company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update company")
	}

	s.logger.Info("Company updated", zap.String("company_id", id.String()))

	return toCompanyDTO(company), nil
}

// Archive archives a company. Archived companies reject new documents but
// remain readable for reporting.
func (s *CompanyService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find company")
	}

	if err := company.Archive(); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to archive company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive company")
	}

	s.logger.Info("Company archived", zap.String("company_id", id.String()))

	return toCompanyDTO(company), nil
}

// Restore reactivates an archived company
func (s *CompanyService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find company")
	}

	if err := company.Restore(); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to restore company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to restore company")
	}

	s.logger.Info("Company restored", zap.String("company_id", id.String()))

	return toCompanyDTO(company), nil
}

// Delete deletes a company. Only archived companies can be deleted.
func (s *CompanyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	company, err := s.companyRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find company")
	}

	if company.IsActive() {
		return shared.NewDomainError("COMPANY_ACTIVE", "Archive the company before deleting it")
	}

	if err := s.companyRepo.Delete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete company", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete company")
	}

	s.logger.Info("Company deleted", zap.String("company_id", id.String()))

	return nil
}

// toAddress converts an AddressInput to an Address value object
func toAddress(input AddressInput) (valueobject.Address, error) {
	if input.Line1 == "" && input.City == "" {
		return valueobject.EmptyAddress(), nil
	}
	addr, err := valueobject.NewAddress(input.Line1, input.City, input.Region,
		valueobject.WithLine2(input.Line2),
		valueobject.WithPostalCode(input.PostalCode),
		valueobject.WithCountry(input.Country),
	)
	if err != nil {
		return valueobject.Address{}, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	return addr, nil
}

// toCompanyDTO converts domain Company to CompanyDTO
func toCompanyDTO(company *identity.Company) *CompanyDTO {
	return &CompanyDTO{
		ID:                   company.ID,
		TenantID:             company.TenantID,
		Name:                 company.Name,
		LegalName:            company.LegalName,
		TaxID:                company.TaxID,
		BaseCurrency:         string(company.BaseCurrency),
		FiscalYearStartMonth: company.FiscalYearStartMonth,
		Address:              company.Address,
		Status:               string(company.Status),
		Notes:                company.Notes,
		CreatedAt:            company.CreatedAt,
		UpdatedAt:            company.UpdatedAt,
	}
}
