package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// VendorService handles vendor-related application logic
type VendorService struct {
	vendorRepo partner.VendorRepository
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo partner.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	exists, err := s.vendorRepo.ExistsByCode(ctx, companyID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check vendor code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Vendor with this code already exists")
	}

	vendor, err := partner.NewVendor(tenantID, companyID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.ShortName != "" {
		if err := vendor.Update(req.Name, req.ShortName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := vendor.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		address, err := req.Address.toAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		vendor.SetAddress(address)
	}
	if req.Currency != "" {
		if err := vendor.SetCurrency(valueobject.Currency(req.Currency)); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := vendor.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.TaxID != "" {
		if err := vendor.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.BankName != "" || req.BankAccount != "" {
		if err := vendor.SetBankInfo(req.BankName, req.BankAccount); err != nil {
			return nil, err
		}
	}
	vendor.SetDefaultExpenseAccount(req.DefaultExpenseAccountID)
	if req.Notes != "" {
		vendor.SetNotes(req.Notes)
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// GetByID retrieves a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.findForCompany(ctx, tenantID, companyID, vendorID)
	if err != nil {
		return nil, err
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// GetByCode retrieves a vendor by its code
func (s *VendorService) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// List retrieves vendors for a company with filtering and pagination
func (s *VendorService) List(ctx context.Context, companyID uuid.UUID, filter VendorListFilter) ([]VendorResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	var vendors []partner.Vendor
	var err error
	if filter.Status != "" {
		vendors, err = s.vendorRepo.FindByStatus(ctx, companyID, partner.VendorStatus(filter.Status), domainFilter)
	} else {
		vendors, err = s.vendorRepo.FindAllForCompany(ctx, companyID, domainFilter)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vendors: %w", err)
	}

	total, err := s.vendorRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	responses := make([]VendorResponse, len(vendors))
	for i := range vendors {
		responses[i] = ToVendorResponse(&vendors[i])
	}
	return responses, total, nil
}

// Update updates a vendor's details
func (s *VendorService) Update(ctx context.Context, tenantID, companyID, vendorID uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.findForCompany(ctx, tenantID, companyID, vendorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.ShortName != nil {
		name := vendor.Name
		if req.Name != nil {
			name = *req.Name
		}
		shortName := vendor.ShortName
		if req.ShortName != nil {
			shortName = *req.ShortName
		}
		if err := vendor.Update(name, shortName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := vendor.ContactName
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		phone := vendor.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := vendor.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := vendor.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		address, err := req.Address.toAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		vendor.SetAddress(address)
	}
	if req.Currency != nil {
		if err := vendor.SetCurrency(valueobject.Currency(*req.Currency)); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := vendor.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		if err := vendor.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.BankName != nil || req.BankAccount != nil {
		bankName := vendor.BankName
		if req.BankName != nil {
			bankName = *req.BankName
		}
		bankAccount := vendor.BankAccount
		if req.BankAccount != nil {
			bankAccount = *req.BankAccount
		}
		if err := vendor.SetBankInfo(bankName, bankAccount); err != nil {
			return nil, err
		}
	}
	if req.DefaultExpenseAccountID != nil {
		vendor.SetDefaultExpenseAccount(req.DefaultExpenseAccountID)
	}
	if req.Notes != nil {
		vendor.SetNotes(*req.Notes)
	}

	if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Activate activates a vendor
func (s *VendorService) Activate(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*VendorResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, vendorID, (*partner.Vendor).Activate)
}

// Deactivate deactivates a vendor
func (s *VendorService) Deactivate(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*VendorResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, vendorID, (*partner.Vendor).Deactivate)
}

// Block blocks a vendor, preventing new bills
func (s *VendorService) Block(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*VendorResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, vendorID, (*partner.Vendor).Block)
}

// Delete removes a vendor. Vendors referenced by bills are kept by a
// database constraint; the repository surfaces that as a conflict
func (s *VendorService) Delete(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) error {
	vendor, err := s.findForCompany(ctx, tenantID, companyID, vendorID)
	if err != nil {
		return err
	}

	if err := s.vendorRepo.Delete(ctx, vendor.ID); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}

func (s *VendorService) changeStatus(ctx context.Context, tenantID, companyID, vendorID uuid.UUID, transition func(*partner.Vendor) error) (*VendorResponse, error) {
	vendor, err := s.findForCompany(ctx, tenantID, companyID, vendorID)
	if err != nil {
		return nil, err
	}

	if err := transition(vendor); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

func (s *VendorService) findForCompany(ctx context.Context, tenantID, companyID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	if vendor.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return vendor, nil
}
