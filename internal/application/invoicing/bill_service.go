package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
	"github.com/openbooks/backend/internal/domain/tax"
)

// BillService handles vendor bill application logic
type BillService struct {
	billRepo       invoicing.BillRepository
	vendorRepo     partner.VendorRepository
	taxRateRepo    tax.TaxRateRepository
	eventPublisher shared.EventPublisher
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo invoicing.BillRepository,
	vendorRepo partner.VendorRepository,
	taxRateRepo tax.TaxRateRepository,
	eventPublisher shared.EventPublisher,
) *BillService {
	return &BillService{
		billRepo:       billRepo,
		vendorRepo:     vendorRepo,
		taxRateRepo:    taxRateRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a draft bill for a vendor
func (s *BillService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	if vendor.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	if !vendor.IsActive() {
		return nil, shared.NewDomainError("VENDOR_NOT_ACTIVE", "Bills cannot be created for inactive or blocked vendors")
	}

	currency := vendor.Currency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	dueDate := vendor.DueDateFor(req.BillDate)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	billNumber, err := s.billRepo.NextBillNumber(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bill number: %w", err)
	}

	bill, err := invoicing.NewBill(tenantID, companyID, billNumber,
		vendor.ID, vendor.Name, req.BillDate, dueDate, currency)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		bill.SetCreatedBy(*req.CreatedBy)
	}

	if req.VendorReference != "" {
		if err := bill.SetVendorReference(req.VendorReference); err != nil {
			return nil, err
		}
	}
	if len(req.Lines) > 0 {
		lines, err := s.buildDocumentLines(ctx, req.BillDate, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := bill.SetLines(lines); err != nil {
			return nil, err
		}
	}
	if req.Memo != "" {
		if err := bill.SetMemo(req.Memo); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	s.publishDomainEvents(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID retrieves a bill by ID
func (s *BillService) GetByID(ctx context.Context, tenantID, companyID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.findForCompany(ctx, tenantID, companyID, billID)
	if err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves bills for a company with filtering and pagination
func (s *BillService) List(ctx context.Context, companyID uuid.UUID, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter := toBillFilter(filter)

	bills, err := s.billRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	total, err := s.billRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses, total, nil
}

// Update replaces the editable fields of a draft bill
func (s *BillService) Update(ctx context.Context, tenantID, companyID, billID uuid.UUID, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.findForCompany(ctx, tenantID, companyID, billID)
	if err != nil {
		return nil, err
	}
	if !bill.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft bills can be updated")
	}

	if req.BillDate != nil {
		bill.BillDate = *req.BillDate
	}
	if req.DueDate != nil {
		bill.DueDate = *req.DueDate
	}
	if bill.DueDate.Before(bill.BillDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Due date cannot be before bill date")
	}
	if req.VendorReference != nil {
		if err := bill.SetVendorReference(*req.VendorReference); err != nil {
			return nil, err
		}
	}
	if req.Memo != nil {
		if err := bill.SetMemo(*req.Memo); err != nil {
			return nil, err
		}
	}
	if req.Lines != nil {
		lines, err := s.buildDocumentLines(ctx, bill.BillDate, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := bill.SetLines(lines); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Approve moves a draft bill to APPROVED and triggers ledger posting.
// The approver must not be the user who entered the bill
func (s *BillService) Approve(ctx context.Context, tenantID, companyID, billID, approvedBy uuid.UUID) (*BillResponse, error) {
	bill, err := s.findForCompany(ctx, tenantID, companyID, billID)
	if err != nil {
		return nil, err
	}

	if bill.CreatedBy != nil && *bill.CreatedBy == approvedBy {
		return nil, shared.ErrDutyConflict
	}

	if err := bill.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to approve bill: %w", err)
	}
	s.publishDomainEvents(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}

// Void voids a bill that has no payments applied
func (s *BillService) Void(ctx context.Context, tenantID, companyID, billID, voidedBy uuid.UUID, req VoidDocumentRequest) (*BillResponse, error) {
	bill, err := s.findForCompany(ctx, tenantID, companyID, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.Void(voidedBy, req.Reason); err != nil {
		return nil, err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to void bill: %w", err)
	}
	s.publishDomainEvents(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}

// Delete removes a draft bill
func (s *BillService) Delete(ctx context.Context, tenantID, companyID, billID uuid.UUID) error {
	bill, err := s.findForCompany(ctx, tenantID, companyID, billID)
	if err != nil {
		return err
	}
	if !bill.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft bills can be deleted")
	}

	if err := s.billRepo.Delete(ctx, bill.ID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

func (s *BillService) buildDocumentLines(ctx context.Context, documentDate time.Time, requests []DocumentLineRequest) ([]invoicing.DocumentLine, error) {
	return buildDocumentLines(ctx, s.taxRateRepo, false, documentDate, requests)
}

func (s *BillService) findForCompany(ctx context.Context, tenantID, companyID, billID uuid.UUID) (*invoicing.Bill, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill: %w", err)
	}
	if bill.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return bill, nil
}

func (s *BillService) publishDomainEvents(ctx context.Context, bill *invoicing.Bill) {
	if s.eventPublisher == nil {
		return
	}
	events := bill.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	bill.ClearDomainEvents()
}

func toBillFilter(filter BillListFilter) invoicing.BillFilter {
	domainFilter := invoicing.BillFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := invoicing.BillStatus(filter.Status)
		domainFilter.Status = &status
	}
	domainFilter.VendorID = filter.VendorID
	domainFilter.DateFrom = filter.DateFrom
	domainFilter.DateTo = filter.DateTo
	return domainFilter
}
