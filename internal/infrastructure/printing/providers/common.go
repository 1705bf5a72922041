package providers

import (
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/partner"
	infra "github.com/openbooks/backend/internal/infrastructure/printing"
)

// buildCompanyInfo converts the issuing company to its printable form
func buildCompanyInfo(company *identity.Company) infra.CompanyInfo {
	return infra.CompanyInfo{
		ID:           company.ID,
		Name:         company.Name,
		LegalName:    company.LegalName,
		Address:      company.Address.String(),
		TaxID:        company.TaxID,
		BaseCurrency: company.BaseCurrency.String(),
	}
}

// partyFromCustomer converts a customer to printable party info
func partyFromCustomer(customer *partner.Customer) infra.PartyInfo {
	return infra.PartyInfo{
		ID:          customer.ID,
		Code:        customer.Code,
		Name:        customer.Name,
		ContactName: customer.ContactName,
		Phone:       customer.Phone,
		Email:       customer.Email,
		Address:     customer.BillingAddress.String(),
		TaxID:       customer.TaxID,
	}
}

// partyFromVendor converts a vendor to printable party info
func partyFromVendor(vendor *partner.Vendor) infra.PartyInfo {
	return infra.PartyInfo{
		ID:          vendor.ID,
		Code:        vendor.Code,
		Name:        vendor.Name,
		ContactName: vendor.ContactName,
		Phone:       vendor.Phone,
		Email:       vendor.Email,
		Address:     vendor.Address.String(),
		TaxID:       vendor.TaxID,
		BankName:    vendor.BankName,
		BankAccount: vendor.BankAccount,
	}
}

// buildLineData converts invoice or bill lines to printable line data with
// per-line formatted amounts in the document currency
func buildLineData(lines []invoicing.DocumentLine, currency string) []infra.DocumentLineData {
	result := make([]infra.DocumentLineData, len(lines))
	for i, line := range lines {
		result[i] = infra.DocumentLineData{
			Index:               i + 1,
			Description:         line.Description,
			Quantity:            line.Quantity,
			UnitPrice:           line.UnitPrice,
			TaxPercentage:       line.TaxPercentage,
			Amount:              line.Amount,
			TaxAmount:           line.TaxAmount,
			QuantityFormatted:   line.Quantity.String(),
			UnitPriceFormatted:  infra.FormatMoneyValue(currency, line.UnitPrice),
			TaxPercentFormatted: line.TaxPercentage.StringFixed(2) + "%",
			AmountFormatted:     infra.FormatMoneyValue(currency, line.Amount),
			TaxAmountFormatted:  infra.FormatMoneyValue(currency, line.TaxAmount),
		}
	}
	return result
}

// statusToText converts document status codes to display text
func statusToText(status string) string {
	statusMap := map[string]string{
		"DRAFT":          "Draft",
		"APPROVED":       "Approved",
		"SENT":           "Sent",
		"PARTIALLY_PAID": "Partially Paid",
		"PAID":           "Paid",
		"VOID":           "Void",
		"CONFIRMED":      "Confirmed",
		"draft":          "Draft",
		"posted":         "Posted",
		"void":           "Void",
	}
	if text, ok := statusMap[status]; ok {
		return text
	}
	return status
}

// paymentMethodToText converts payment method codes to display text
func paymentMethodToText(method string) string {
	methodMap := map[string]string{
		"CASH":          "Cash",
		"CHECK":         "Check",
		"BANK_TRANSFER": "Bank Transfer",
		"CARD":          "Card",
		"OTHER":         "Other",
	}
	if text, ok := methodMap[method]; ok {
		return text
	}
	return method
}
