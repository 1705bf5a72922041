package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// PaymentService handles payment application logic. Confirming a payment
// applies its allocations to the targeted invoices or bills in the same
// operation, so document paid amounts always agree with confirmed payments
type PaymentService struct {
	paymentRepo    invoicing.PaymentRepository
	invoiceRepo    invoicing.InvoiceRepository
	billRepo       invoicing.BillRepository
	customerRepo   partner.CustomerRepository
	vendorRepo     partner.VendorRepository
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo invoicing.PaymentRepository,
	invoiceRepo invoicing.InvoiceRepository,
	billRepo invoicing.BillRepository,
	customerRepo partner.CustomerRepository,
	vendorRepo partner.VendorRepository,
	eventPublisher shared.EventPublisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		invoiceRepo:    invoiceRepo,
		billRepo:       billRepo,
		customerRepo:   customerRepo,
		vendorRepo:     vendorRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a draft payment, optionally with initial allocations
func (s *PaymentService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	direction := invoicing.PaymentDirection(req.Direction)

	partyName, partyCurrency, err := s.resolveParty(ctx, tenantID, companyID, direction, req.PartyID)
	if err != nil {
		return nil, err
	}

	currency := partyCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	paymentNumber, err := s.paymentRepo.NextPaymentNumber(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate payment number: %w", err)
	}

	payment, err := invoicing.NewPayment(tenantID, companyID, paymentNumber,
		direction, req.PartyID, partyName, invoicing.PaymentMethod(req.Method),
		req.PaymentDate, currency, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}

	if req.Reference != "" {
		if err := payment.SetReference(req.Reference); err != nil {
			return nil, err
		}
	}
	if req.Memo != "" {
		if err := payment.SetMemo(req.Memo); err != nil {
			return nil, err
		}
	}
	for _, alloc := range req.Allocations {
		if err := s.allocate(ctx, payment, alloc.DocumentID, alloc.Amount); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, tenantID, companyID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments for a company with filtering and pagination
func (s *PaymentService) List(ctx context.Context, companyID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := toPaymentFilter(filter)

	payments, err := s.paymentRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	total, err := s.paymentRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// Allocate adds an allocation to a draft payment
func (s *PaymentService) Allocate(ctx context.Context, tenantID, companyID, paymentID uuid.UUID, req AllocationRequest) (*PaymentResponse, error) {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.allocate(ctx, payment, req.DocumentID, req.Amount); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// RemoveAllocation removes an allocation from a draft payment
func (s *PaymentService) RemoveAllocation(ctx context.Context, tenantID, companyID, paymentID, allocationID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.RemoveAllocation(allocationID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Confirm confirms a draft payment and applies its allocations to the
// targeted documents
func (s *PaymentService) Confirm(ctx context.Context, tenantID, companyID, paymentID, confirmedBy uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Confirm(confirmedBy); err != nil {
		return nil, err
	}
	if err := s.applyAllocations(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		// Undo the document updates so invoices and bills never record
		// a settlement from a payment that stayed draft
		s.rollbackApplied(ctx, payment, len(payment.Allocations))
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Void voids a confirmed payment, reversing its allocations on the
// targeted documents. Ledger reversal follows from the voided event
func (s *PaymentService) Void(ctx context.Context, tenantID, companyID, paymentID, voidedBy uuid.UUID, req VoidDocumentRequest) (*PaymentResponse, error) {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Void(voidedBy, req.Reason); err != nil {
		return nil, err
	}
	if err := s.reverseAllocations(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		s.reapplyReversed(ctx, payment, len(payment.Allocations))
		return nil, fmt.Errorf("failed to void payment: %w", err)
	}
	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Delete removes a draft payment
func (s *PaymentService) Delete(ctx context.Context, tenantID, companyID, paymentID uuid.UUID) error {
	payment, err := s.findForCompany(ctx, tenantID, companyID, paymentID)
	if err != nil {
		return err
	}
	if !payment.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft payments can be deleted")
	}

	if err := s.paymentRepo.Delete(ctx, payment.ID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// allocate validates the target document before recording the allocation
// on the payment
func (s *PaymentService) allocate(ctx context.Context, payment *invoicing.Payment, documentID uuid.UUID, amount decimal.Decimal) error {
	outstanding, currency, err := s.documentOutstanding(ctx, payment, documentID)
	if err != nil {
		return err
	}
	if currency != payment.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Allocation target must use the payment currency")
	}
	if amount.GreaterThan(outstanding) {
		return shared.ErrOverAllocation
	}
	return payment.Allocate(documentID, amount)
}

// documentOutstanding resolves the allocation target per the payment
// direction and returns how much of it remains payable
func (s *PaymentService) documentOutstanding(ctx context.Context, payment *invoicing.Payment, documentID uuid.UUID) (decimal.Decimal, valueobject.Currency, error) {
	if payment.Direction == invoicing.PaymentDirectionReceived {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, payment.TenantID, documentID)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("failed to find invoice: %w", err)
		}
		if invoice.CompanyID != payment.CompanyID || invoice.CustomerID != payment.PartyID {
			return decimal.Zero, "", shared.ErrNotFound
		}
		if !invoice.Status.CanApplyPayment() {
			return decimal.Zero, "", shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Invoice %s does not accept payments in %s status", invoice.InvoiceNumber, invoice.Status))
		}
		return invoice.OutstandingAmount(), invoice.Currency, nil
	}

	bill, err := s.billRepo.FindByIDForTenant(ctx, payment.TenantID, documentID)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("failed to find bill: %w", err)
	}
	if bill.CompanyID != payment.CompanyID || bill.VendorID != payment.PartyID {
		return decimal.Zero, "", shared.ErrNotFound
	}
	if !bill.Status.CanApplyPayment() {
		return decimal.Zero, "", shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Bill %s does not accept payments in %s status", bill.BillNumber, bill.Status))
	}
	return bill.OutstandingAmount(), bill.Currency, nil
}

// applyAllocations applies every allocation to its target document. A
// failure part-way through rolls back the allocations already applied so
// documents never record a settlement the payment does not carry
func (s *PaymentService) applyAllocations(ctx context.Context, payment *invoicing.Payment) error {
	for i, alloc := range payment.Allocations {
		if err := s.applyAllocation(ctx, payment, alloc); err != nil {
			s.rollbackApplied(ctx, payment, i)
			return err
		}
	}
	return nil
}

func (s *PaymentService) applyAllocation(ctx context.Context, payment *invoicing.Payment, alloc invoicing.PaymentAllocation) error {
	if payment.Direction == invoicing.PaymentDirectionReceived {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, payment.TenantID, alloc.DocumentID)
		if err != nil {
			return fmt.Errorf("failed to find invoice: %w", err)
		}
		if err := invoice.ApplyPayment(alloc.Amount); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		s.publishEvents(ctx, invoice.GetDomainEvents())
		invoice.ClearDomainEvents()
		return nil
	}

	bill, err := s.billRepo.FindByIDForTenant(ctx, payment.TenantID, alloc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to find bill: %w", err)
	}
	if err := bill.ApplyPayment(alloc.Amount); err != nil {
		return err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	s.publishEvents(ctx, bill.GetDomainEvents())
	bill.ClearDomainEvents()
	return nil
}

// reverseAllocations backs every allocation out of its target document.
// A failure part-way through re-applies the allocations already reversed
func (s *PaymentService) reverseAllocations(ctx context.Context, payment *invoicing.Payment) error {
	for i, alloc := range payment.Allocations {
		if err := s.reverseAllocation(ctx, payment, alloc); err != nil {
			s.reapplyReversed(ctx, payment, i)
			return err
		}
	}
	return nil
}

func (s *PaymentService) reverseAllocation(ctx context.Context, payment *invoicing.Payment, alloc invoicing.PaymentAllocation) error {
	if payment.Direction == invoicing.PaymentDirectionReceived {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, payment.TenantID, alloc.DocumentID)
		if err != nil {
			return fmt.Errorf("failed to find invoice: %w", err)
		}
		if err := invoice.ReversePayment(alloc.Amount); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		s.publishEvents(ctx, invoice.GetDomainEvents())
		invoice.ClearDomainEvents()
		return nil
	}

	bill, err := s.billRepo.FindByIDForTenant(ctx, payment.TenantID, alloc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to find bill: %w", err)
	}
	if err := bill.ReversePayment(alloc.Amount); err != nil {
		return err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	s.publishEvents(ctx, bill.GetDomainEvents())
	bill.ClearDomainEvents()
	return nil
}

// rollbackApplied undoes the first n allocations. Best effort: a document
// that cannot be reverted surfaces through the original error
func (s *PaymentService) rollbackApplied(ctx context.Context, payment *invoicing.Payment, n int) {
	for _, alloc := range payment.Allocations[:n] {
		_ = s.reverseAllocation(ctx, payment, alloc)
	}
}

// reapplyReversed re-applies the first n allocations after a partial reversal
func (s *PaymentService) reapplyReversed(ctx context.Context, payment *invoicing.Payment, n int) {
	for _, alloc := range payment.Allocations[:n] {
		_ = s.applyAllocation(ctx, payment, alloc)
	}
}

// resolveParty returns the snapshot name and default currency of the
// customer or vendor the payment settles against
func (s *PaymentService) resolveParty(ctx context.Context, tenantID, companyID uuid.UUID, direction invoicing.PaymentDirection, partyID uuid.UUID) (string, valueobject.Currency, error) {
	switch direction {
	case invoicing.PaymentDirectionReceived:
		customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, partyID)
		if err != nil {
			return "", "", fmt.Errorf("failed to find customer: %w", err)
		}
		if customer.CompanyID != companyID {
			return "", "", shared.ErrNotFound
		}
		return customer.Name, customer.Currency, nil
	case invoicing.PaymentDirectionMade:
		vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, partyID)
		if err != nil {
			return "", "", fmt.Errorf("failed to find vendor: %w", err)
		}
		if vendor.CompanyID != companyID {
			return "", "", shared.ErrNotFound
		}
		return vendor.Name, vendor.Currency, nil
	default:
		return "", "", shared.NewDomainError("INVALID_DIRECTION", "Payment direction is not valid")
	}
}

func (s *PaymentService) findForCompany(ctx context.Context, tenantID, companyID, paymentID uuid.UUID) (*invoicing.Payment, error) {
	payment, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	if payment.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return payment, nil
}

func (s *PaymentService) publishDomainEvents(ctx context.Context, payment *invoicing.Payment) {
	s.publishEvents(ctx, payment.GetDomainEvents())
	payment.ClearDomainEvents()
}

func (s *PaymentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func toPaymentFilter(filter PaymentListFilter) invoicing.PaymentFilter {
	domainFilter := invoicing.PaymentFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := invoicing.PaymentStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Direction != "" {
		direction := invoicing.PaymentDirection(filter.Direction)
		domainFilter.Direction = &direction
	}
	domainFilter.PartyID = filter.PartyID
	domainFilter.DateFrom = filter.DateFrom
	domainFilter.DateTo = filter.DateTo
	return domainFilter
}
