package printing

import (
	"embed"
	"fmt"

	"github.com/openbooks/backend/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate represents a built-in print template configuration
type DefaultTemplate struct {
	DocType     printing.DocType
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	FilePath    string // Path within embed.FS
	IsDefault   bool   // Whether this is the default for its doc type
}

// GetDefaultTemplates returns all built-in template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		// =============================================================================
		// INVOICE templates
		// =============================================================================
		{
			DocType:     printing.DocTypeInvoice,
			Name:        "Invoice - A4",
			Description: "Standard A4 customer invoice with line items, tax breakdown, and balance due",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/invoice_a4.html",
			IsDefault:   true,
		},
		{
			DocType:     printing.DocTypeInvoice,
			Name:        "Invoice - Letter",
			Description: "US Letter customer invoice, identical layout to the A4 variant",
			PaperSize:   printing.PaperSizeLetter,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/invoice_a4.html",
			IsDefault:   false,
		},

		// =============================================================================
		// BILL templates
		// =============================================================================
		{
			DocType:     printing.DocTypeBill,
			Name:        "Vendor Bill - A4",
			Description: "Standard A4 vendor bill with line items, vendor reference, and balance due",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/bill_a4.html",
			IsDefault:   true,
		},

		// =============================================================================
		// RECEIPT_VOUCHER templates
		// =============================================================================
		{
			DocType:     printing.DocTypeReceiptVoucher,
			Name:        "Receipt Voucher - A4",
			Description: "Standard A4 receipt voucher with customer details, amount in words, and settled invoices",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/receipt_voucher_a4.html",
			IsDefault:   true,
		},
		{
			DocType:     printing.DocTypeReceiptVoucher,
			Name:        "Receipt Voucher - A5 Landscape",
			Description: "Compact A5 landscape receipt voucher for quick printing",
			PaperSize:   printing.PaperSizeA5,
			Orientation: printing.OrientationLandscape,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/receipt_voucher_a4.html",
			IsDefault:   false,
		},

		// =============================================================================
		// PAYMENT_VOUCHER templates
		// =============================================================================
		{
			DocType:     printing.DocTypePaymentVoucher,
			Name:        "Payment Voucher - A4",
			Description: "Standard A4 payment voucher with vendor remittance details and settled bills",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/payment_voucher_a4.html",
			IsDefault:   true,
		},

		// =============================================================================
		// JOURNAL_ENTRY templates
		// =============================================================================
		{
			DocType:     printing.DocTypeJournalEntry,
			Name:        "Journal Voucher - A4",
			Description: "Standard A4 general ledger voucher with account codes and debit/credit columns",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/journal_entry_a4.html",
			IsDefault:   true,
		},
	}
}

// LoadTemplateContent loads the HTML content for a built-in template
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}
	return string(content), nil
}

// GetDefaultTemplateByDocTypeAndPaperSize finds a built-in template configuration
func GetDefaultTemplateByDocTypeAndPaperSize(docType printing.DocType, paperSize printing.PaperSize) *DefaultTemplate {
	templates := GetDefaultTemplates()
	for _, t := range templates {
		if t.DocType == docType && t.PaperSize == paperSize {
			return &t
		}
	}
	return nil
}

// GetDefaultTemplateForDocType finds the default template for a document type
func GetDefaultTemplateForDocType(docType printing.DocType) *DefaultTemplate {
	templates := GetDefaultTemplates()
	for _, t := range templates {
		if t.DocType == docType && t.IsDefault {
			return &t
		}
	}
	return nil
}

// GetTemplatesByDocType returns all built-in templates for a document type
func GetTemplatesByDocType(docType printing.DocType) []DefaultTemplate {
	templates := GetDefaultTemplates()
	var result []DefaultTemplate
	for _, t := range templates {
		if t.DocType == docType {
			result = append(result, t)
		}
	}
	return result
}
