package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// CustomerService handles customer-related application logic
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, companyID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}
	if req.Email != "" {
		exists, err = s.customerRepo.ExistsByEmail(ctx, companyID, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check customer email: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	customer, err := partner.NewCustomer(tenantID, companyID, req.Code, req.Name, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.ShortName != "" {
		if err := customer.Update(req.Name, req.ShortName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.BillingAddress != nil {
		address, err := req.BillingAddress.toAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		customer.SetBillingAddress(address)
	}
	if req.Currency != "" {
		if err := customer.SetCurrency(valueobject.Currency(req.Currency)); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil || req.CreditLimit != nil {
		netDays := customer.PaymentTermsDays
		if req.PaymentTermsDays != nil {
			netDays = *req.PaymentTermsDays
		}
		creditLimit := customer.CreditLimit
		if req.CreditLimit != nil {
			creditLimit = *req.CreditLimit
		}
		if err := customer.SetPaymentTerms(netDays, creditLimit); err != nil {
			return nil, err
		}
	}
	if req.TaxID != "" {
		if err := customer.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}
	customer.SetTaxExempt(req.TaxExempt)
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.findForCompany(ctx, tenantID, companyID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByCode retrieves a customer by its code
func (s *CustomerService) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers for a company with filtering and pagination
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	var customers []partner.Customer
	var err error
	if filter.Status != "" {
		customers, err = s.customerRepo.FindByStatus(ctx, companyID, partner.CustomerStatus(filter.Status), domainFilter)
	} else {
		customers, err = s.customerRepo.FindAllForCompany(ctx, companyID, domainFilter)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	total, err := s.customerRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update updates a customer's details
func (s *CustomerService) Update(ctx context.Context, tenantID, companyID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.findForCompany(ctx, tenantID, companyID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.ShortName != nil {
		name := customer.Name
		if req.Name != nil {
			name = *req.Name
		}
		shortName := customer.ShortName
		if req.ShortName != nil {
			shortName = *req.ShortName
		}
		if err := customer.Update(name, shortName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := customer.ContactName
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		phone := customer.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := customer.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.BillingAddress != nil {
		address, err := req.BillingAddress.toAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		customer.SetBillingAddress(address)
	}
	if req.Currency != nil {
		if err := customer.SetCurrency(valueobject.Currency(*req.Currency)); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil || req.CreditLimit != nil {
		netDays := customer.PaymentTermsDays
		if req.PaymentTermsDays != nil {
			netDays = *req.PaymentTermsDays
		}
		creditLimit := customer.CreditLimit
		if req.CreditLimit != nil {
			creditLimit = *req.CreditLimit
		}
		if err := customer.SetPaymentTerms(netDays, creditLimit); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		if err := customer.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.TaxExempt != nil {
		customer.SetTaxExempt(*req.TaxExempt)
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, customerID, (*partner.Customer).Activate)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, customerID, (*partner.Customer).Deactivate)
}

// PlaceOnHold puts a customer on credit hold, blocking new invoices
func (s *CustomerService) PlaceOnHold(ctx context.Context, tenantID, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, tenantID, companyID, customerID, (*partner.Customer).PlaceOnHold)
}

// Delete removes a customer. Customers referenced by invoices are kept by
// a database constraint; the repository surfaces that as a conflict
func (s *CustomerService) Delete(ctx context.Context, tenantID, companyID, customerID uuid.UUID) error {
	customer, err := s.findForCompany(ctx, tenantID, companyID, customerID)
	if err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, customer.ID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *CustomerService) changeStatus(ctx context.Context, tenantID, companyID, customerID uuid.UUID, transition func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.findForCompany(ctx, tenantID, companyID, customerID)
	if err != nil {
		return nil, err
	}

	if err := transition(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) findForCompany(ctx context.Context, tenantID, companyID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return customer, nil
}
