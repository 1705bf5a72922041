package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
	"github.com/openbooks/backend/internal/domain/tax"
)

// InvoiceService handles invoice-related application logic
type InvoiceService struct {
	invoiceRepo      invoicing.InvoiceRepository
	customerRepo     partner.CustomerRepository
	taxRateRepo      tax.TaxRateRepository
	subscriptionRepo billing.SubscriptionRepository
	eventPublisher   shared.EventPublisher
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	taxRateRepo tax.TaxRateRepository,
	subscriptionRepo billing.SubscriptionRepository,
	eventPublisher shared.EventPublisher,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:      invoiceRepo,
		customerRepo:     customerRepo,
		taxRateRepo:      taxRateRepo,
		subscriptionRepo: subscriptionRepo,
		eventPublisher:   eventPublisher,
	}
}

// Create creates a draft invoice for a customer
func (s *InvoiceService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_NOT_ACTIVE", "Invoices cannot be created for inactive or on-hold customers")
	}

	currency := customer.Currency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	dueDate := customer.DueDateFor(req.IssueDate)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	invoiceNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	invoice, err := invoicing.NewInvoice(tenantID, companyID, invoiceNumber,
		customer.ID, customer.Name, req.IssueDate, dueDate, currency)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		invoice.SetCreatedBy(*req.CreatedBy)
	}

	if len(req.Lines) > 0 {
		lines, err := s.buildDocumentLines(ctx, customer.TaxExempt, req.IssueDate, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := invoice.SetLines(lines); err != nil {
			return nil, err
		}
	}
	if req.Memo != "" {
		if err := invoice.SetMemo(req.Memo); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	s.publishDomainEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, companyID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices for a company with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := toInvoiceFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := s.invoiceRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// Update replaces the editable fields of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, companyID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be updated")
	}

	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Memo != nil {
		if err := invoice.SetMemo(*req.Memo); err != nil {
			return nil, err
		}
	}
	if req.Lines != nil {
		customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, invoice.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find customer: %w", err)
		}
		lines, err := s.buildDocumentLines(ctx, customer.TaxExempt, invoice.IssueDate, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := invoice.SetLines(lines); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Approve moves a draft invoice to APPROVED and triggers ledger posting.
// The approver must not be the user who created the invoice
func (s *InvoiceService) Approve(ctx context.Context, tenantID, companyID, invoiceID, approvedBy uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.CreatedBy != nil && *invoice.CreatedBy == approvedBy {
		return nil, shared.ErrDutyConflict
	}
	if err := s.ensureInvoiceQuota(ctx, tenantID, invoice); err != nil {
		return nil, err
	}

	if err := invoice.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to approve invoice: %w", err)
	}
	s.publishDomainEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkSent records that an approved invoice was delivered to the customer
func (s *InvoiceService) MarkSent(ctx context.Context, tenantID, companyID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to mark invoice sent: %w", err)
	}
	s.publishDomainEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Void voids an invoice that has no payments applied
func (s *InvoiceService) Void(ctx context.Context, tenantID, companyID, invoiceID, voidedBy uuid.UUID, req VoidDocumentRequest) (*InvoiceResponse, error) {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Void(voidedBy, req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to void invoice: %w", err)
	}
	s.publishDomainEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, companyID, invoiceID uuid.UUID) error {
	invoice, err := s.findForCompany(ctx, tenantID, companyID, invoiceID)
	if err != nil {
		return err
	}
	if !invoice.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}

	if err := s.invoiceRepo.Delete(ctx, invoice.ID); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// ensureInvoiceQuota rejects approval when the tenant's plan has run out
// of invoices for the issue month. Tenants without a subscription row are
// treated as being on the free plan
func (s *InvoiceService) ensureInvoiceQuota(ctx context.Context, tenantID uuid.UUID, invoice *invoicing.Invoice) error {
	plan, _ := billing.PlanByCode(billing.PlanFree)

	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	switch {
	case err == nil:
		if !subscription.GrantsAccess() {
			return shared.NewDomainError("SUBSCRIPTION_CANCELED", "The subscription for this tenant has been canceled")
		}
		plan = subscription.Plan()
	case errors.Is(err, shared.ErrNotFound):
		// fall through with the free plan
	default:
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	issued, err := s.invoiceRepo.CountIssuedInMonth(ctx, tenantID,
		invoice.IssueDate.Year(), int(invoice.IssueDate.Month()))
	if err != nil {
		return fmt.Errorf("failed to count issued invoices: %w", err)
	}
	if !plan.AllowsInvoices(issued + 1) {
		return shared.NewDomainError("PLAN_LIMIT_REACHED",
			fmt.Sprintf("The %s plan allows %d invoices per month", plan.Name, plan.MaxInvoicesPerMonth))
	}
	return nil
}

func (s *InvoiceService) buildDocumentLines(ctx context.Context, taxExempt bool, documentDate time.Time, requests []DocumentLineRequest) ([]invoicing.DocumentLine, error) {
	return buildDocumentLines(ctx, s.taxRateRepo, taxExempt, documentDate, requests)
}

func (s *InvoiceService) findForCompany(ctx context.Context, tenantID, companyID, invoiceID uuid.UUID) (*invoicing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	if invoice.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return invoice, nil
}

func (s *InvoiceService) publishDomainEvents(ctx context.Context, invoice *invoicing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	invoice.ClearDomainEvents()
}

func toInvoiceFilter(filter InvoiceListFilter) invoicing.InvoiceFilter {
	domainFilter := invoicing.InvoiceFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := invoicing.InvoiceStatus(filter.Status)
		domainFilter.Status = &status
	}
	domainFilter.CustomerID = filter.CustomerID
	domainFilter.IssueFrom = filter.DateFrom
	domainFilter.IssueTo = filter.DateTo
	domainFilter.Overdue = filter.Overdue
	return domainFilter
}
