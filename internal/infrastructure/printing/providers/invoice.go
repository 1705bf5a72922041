package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/printing"
	infra "github.com/openbooks/backend/internal/infrastructure/printing"
)

// InvoiceProvider implements DataProvider for the INVOICE document type.
// It loads customer invoice data from the repositories for use in print templates.
type InvoiceProvider struct {
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	companyRepo  identity.CompanyRepository
}

// NewInvoiceProvider creates a new InvoiceProvider.
func NewInvoiceProvider(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	companyRepo identity.CompanyRepository,
) *InvoiceProvider {
	return &InvoiceProvider{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
	}
}

// GetDocType returns the document type this provider handles.
func (p *InvoiceProvider) GetDocType() printing.DocType {
	return printing.DocTypeInvoice
}

// GetData retrieves invoice data for rendering.
func (p *InvoiceProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	invoice, err := p.invoiceRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	customer, err := p.customerRepo.FindByIDForTenant(ctx, tenantID, invoice.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	company, err := p.companyRepo.FindByID(ctx, tenantID, invoice.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	currency := invoice.Currency.String()
	balanceDue := invoice.OutstandingAmount()

	docData := infra.NewDocumentData(printing.DocTypeInvoice, invoice.InvoiceNumber)
	docData.Meta.Currency = currency
	docData.Meta.Status = string(invoice.Status)
	docData.Meta.StatusText = statusToText(string(invoice.Status))
	docData.Meta.CreatedAt = invoice.CreatedAt
	docData.Meta.UpdatedAt = invoice.UpdatedAt
	docData.Meta.Memo = invoice.Memo
	docData.Company = buildCompanyInfo(company)

	docData.Document = infra.InvoiceData{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Customer:      partyFromCustomer(customer),
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Currency:      currency,
		Lines:         buildLineData(invoice.Lines, currency),
		Subtotal:      invoice.Subtotal,
		TaxTotal:      invoice.TaxTotal,
		Total:         invoice.Total,
		PaidAmount:    invoice.PaidAmount,
		BalanceDue:    balanceDue,
		Status:        string(invoice.Status),
		ApprovedAt:    invoice.ApprovedAt,
		SentAt:        invoice.SentAt,
		PaidAt:        invoice.PaidAt,
		Memo:          invoice.Memo,

		IssueDateFormatted:  invoice.IssueDate.Format("2006-01-02"),
		DueDateFormatted:    invoice.DueDate.Format("2006-01-02"),
		SubtotalFormatted:   infra.FormatMoneyValue(currency, invoice.Subtotal),
		TaxTotalFormatted:   infra.FormatMoneyValue(currency, invoice.TaxTotal),
		TotalFormatted:      infra.FormatMoneyValue(currency, invoice.Total),
		PaidAmountFormatted: infra.FormatMoneyValue(currency, invoice.PaidAmount),
		BalanceDueFormatted: infra.FormatMoneyValue(currency, balanceDue),
		TotalInWords:        infra.AmountInWords(invoice.Total),
	}

	return docData, nil
}
