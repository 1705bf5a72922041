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

// ReceiptVoucherProvider implements DataProvider for the RECEIPT_VOUCHER
// document type. It renders payments received from customers, with the
// invoices each receipt settles.
type ReceiptVoucherProvider struct {
	paymentRepo  invoicing.PaymentRepository
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	companyRepo  identity.CompanyRepository
}

// NewReceiptVoucherProvider creates a new ReceiptVoucherProvider.
func NewReceiptVoucherProvider(
	paymentRepo invoicing.PaymentRepository,
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	companyRepo identity.CompanyRepository,
) *ReceiptVoucherProvider {
	return &ReceiptVoucherProvider{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
	}
}

// GetDocType returns the document type this provider handles.
func (p *ReceiptVoucherProvider) GetDocType() printing.DocType {
	return printing.DocTypeReceiptVoucher
}

// GetData retrieves received payment data for rendering.
func (p *ReceiptVoucherProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	payment, err := p.paymentRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.Direction != invoicing.PaymentDirectionReceived {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Payment is not a received payment")
	}

	customer, err := p.customerRepo.FindByIDForTenant(ctx, tenantID, payment.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	company, err := p.companyRepo.FindByID(ctx, tenantID, payment.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	currency := payment.Currency.String()

	// Resolve each allocation to the invoice it settles
	allocations := make([]infra.AllocationInfo, 0, len(payment.Allocations))
	for _, alloc := range payment.Allocations {
		info := infra.AllocationInfo{
			Amount:          alloc.Amount,
			AmountFormatted: infra.FormatMoneyValue(currency, alloc.Amount),
		}
		invoice, err := p.invoiceRepo.FindByIDForTenant(ctx, tenantID, alloc.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load allocated invoice: %w", err)
		}
		info.DocumentNumber = invoice.InvoiceNumber
		info.DocumentDate = invoice.IssueDate
		info.DocumentTotal = invoice.Total
		info.DocumentDateFormatted = invoice.IssueDate.Format("2006-01-02")
		info.DocumentTotalFormatted = infra.FormatMoneyValue(currency, invoice.Total)
		allocations = append(allocations, info)
	}

	docData := infra.NewDocumentData(printing.DocTypeReceiptVoucher, payment.PaymentNumber)
	docData.Meta.Currency = currency
	docData.Meta.Status = string(payment.Status)
	docData.Meta.StatusText = statusToText(string(payment.Status))
	docData.Meta.CreatedAt = payment.CreatedAt
	docData.Meta.UpdatedAt = payment.UpdatedAt
	docData.Meta.Memo = payment.Memo
	docData.Company = buildCompanyInfo(company)

	unallocated := payment.UnallocatedAmount()

	docData.Document = infra.ReceiptVoucherData{
		ID:            payment.ID,
		PaymentNumber: payment.PaymentNumber,
		Customer:      partyFromCustomer(customer),
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
