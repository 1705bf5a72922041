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

// BillProvider implements DataProvider for the BILL document type.
// It loads vendor bill data from the repositories for use in print templates.
type BillProvider struct {
	billRepo    invoicing.BillRepository
	vendorRepo  partner.VendorRepository
	companyRepo identity.CompanyRepository
}

// NewBillProvider creates a new BillProvider.
func NewBillProvider(
	billRepo invoicing.BillRepository,
	vendorRepo partner.VendorRepository,
	companyRepo identity.CompanyRepository,
) *BillProvider {
	return &BillProvider{
		billRepo:    billRepo,
		vendorRepo:  vendorRepo,
		companyRepo: companyRepo,
	}
}

// GetDocType returns the document type this provider handles.
func (p *BillProvider) GetDocType() printing.DocType {
	return printing.DocTypeBill
}

// GetData retrieves bill data for rendering.
func (p *BillProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	bill, err := p.billRepo.FindByIDForTenant(ctx, tenantID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	vendor, err := p.vendorRepo.FindByIDForTenant(ctx, tenantID, bill.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}

	company, err := p.companyRepo.FindByID(ctx, tenantID, bill.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	currency := bill.Currency.String()
	balanceDue := bill.OutstandingAmount()

	docData := infra.NewDocumentData(printing.DocTypeBill, bill.BillNumber)
	docData.Meta.Currency = currency
	docData.Meta.Status = string(bill.Status)
	docData.Meta.StatusText = statusToText(string(bill.Status))
	docData.Meta.CreatedAt = bill.CreatedAt
	docData.Meta.UpdatedAt = bill.UpdatedAt
	docData.Meta.Memo = bill.Memo
	docData.Company = buildCompanyInfo(company)

	docData.Document = infra.BillData{
		ID:              bill.ID,
		BillNumber:      bill.BillNumber,
		VendorReference: bill.VendorReference,
		Vendor:          partyFromVendor(vendor),
		BillDate:        bill.BillDate,
		DueDate:         bill.DueDate,
		Currency:        currency,
		Lines:           buildLineData(bill.Lines, currency),
		Subtotal:        bill.Subtotal,
		TaxTotal:        bill.TaxTotal,
		Total:           bill.Total,
		PaidAmount:      bill.PaidAmount,
		BalanceDue:      balanceDue,
		Status:          string(bill.Status),
		ApprovedAt:      bill.ApprovedAt,
		PaidAt:          bill.PaidAt,
		Memo:            bill.Memo,

		BillDateFormatted:   bill.BillDate.Format("2006-01-02"),
		DueDateFormatted:    bill.DueDate.Format("2006-01-02"),
		SubtotalFormatted:   infra.FormatMoneyValue(currency, bill.Subtotal),
		TaxTotalFormatted:   infra.FormatMoneyValue(currency, bill.TaxTotal),
		TotalFormatted:      infra.FormatMoneyValue(currency, bill.Total),
		PaidAmountFormatted: infra.FormatMoneyValue(currency, bill.PaidAmount),
		BalanceDueFormatted: infra.FormatMoneyValue(currency, balanceDue),
		TotalInWords:        infra.AmountInWords(bill.Total),
	}

	return docData, nil
}
