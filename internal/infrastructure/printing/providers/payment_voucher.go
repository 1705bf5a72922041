package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/printing"
	"github.com/openbooks/backend/internal/domain/shared"
	infra "github.com/openbooks/backend/internal/infrastructure/printing"
)

// PaymentVoucherProvider implements DataProvider for the PAYMENT_VOUCHER
// document type. It renders payments made to vendors, with the bills each
// payment settles.
type PaymentVoucherProvider struct {
	paymentRepo invoicing.PaymentRepository
	billRepo    invoicing.BillRepository
	vendorRepo  partner.VendorRepository
	companyRepo identity.CompanyRepository
}

// NewPaymentVoucherProvider creates a new PaymentVoucherProvider.
func NewPaymentVoucherProvider(
	paymentRepo invoicing.PaymentRepository,
	billRepo invoicing.BillRepository,
	vendorRepo partner.VendorRepository,
	companyRepo identity.CompanyRepository,
) *PaymentVoucherProvider {
	return &PaymentVoucherProvider{
		paymentRepo: paymentRepo,
		billRepo:    billRepo,
		vendorRepo:  vendorRepo,
		companyRepo: companyRepo,
	}
}

// GetDocType returns the document type this provider handles.
func (p *PaymentVoucherProvider) GetDocType() printing.DocType {
	return printing.DocTypePaymentVoucher
}

// GetData retrieves outgoing payment data for rendering.
func (p *PaymentVoucherProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	payment, err := p.paymentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.Direction != invoicing.PaymentDirectionMade {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Payment is not an outgoing payment")
	}

	vendor, err := p.vendorRepo.FindByIDForTenant(ctx, tenantID, payment.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}

	company, err := p.companyRepo.FindByID(ctx, tenantID, payment.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	currency := payment.Currency.String()

	// Resolve each allocation to the bill it settles
	allocations := make([]infra.AllocationInfo, 0, len(payment.Allocations))
	for _, alloc := range payment.Allocations {
		info := infra.AllocationInfo{
			Amount:          alloc.Amount,
			AmountFormatted: infra.FormatMoneyValue(currency, alloc.Amount),
		}
		bill, err := p.billRepo.FindByIDForTenant(ctx, tenantID, alloc.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load allocated bill: %w", err)
		}
		info.DocumentNumber = bill.BillNumber
		info.DocumentDate = bill.BillDate
		info.DocumentTotal = bill.Total
		info.DocumentDateFormatted = bill.BillDate.Format("2006-01-02")
		info.DocumentTotalFormatted = infra.FormatMoneyValue(currency, bill.Total)
		allocations = append(allocations, info)
	}

	docData := infra.NewDocumentData(printing.DocTypePaymentVoucher, payment.PaymentNumber)
	docData.Meta.Currency = currency
	docData.Meta.Status = string(payment.Status)
	docData.Meta.StatusText = statusToText(string(payment.Status))
	docData.Meta.CreatedAt = payment.CreatedAt
	docData.Meta.UpdatedAt = payment.UpdatedAt
	docData.Meta.Memo = payment.Memo
	docData.Company = buildCompanyInfo(company)

	unallocated := payment.UnallocatedAmount()

	docData.Document = infra.PaymentVoucherData{
		ID:            payment.ID,
		PaymentNumber: payment.PaymentNumber,
		Vendor:        partyFromVendor(vendor),
		Method:        string(payment.Method),
		MethodText:    paymentMethodToText(string(payment.Method)),
		Reference:     payment.Reference,
		PaymentDate:   payment.PaymentDate,
		Currency:      currency,
		Amount:        payment.Amount,
		Allocations:   allocations,
		Unallocated:   unallocated,
		Status:        string(payment.Status),
		ConfirmedAt:   payment.ConfirmedAt,
		Memo:          payment.Memo,

		PaymentDateFormatted: payment.PaymentDate.Format("2006-01-02"),
		AmountFormatted:      infra.FormatMoneyValue(currency, payment.Amount),
		UnallocatedFormatted: infra.FormatMoneyValue(currency, unallocated),
		AmountInWords:        infra.AmountInWords(payment.Amount),
	}

	return docData, nil
}
