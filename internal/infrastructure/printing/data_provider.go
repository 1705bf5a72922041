package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// DataProvider is the interface for providing document data for template rendering.
// Each document type should have its own implementation.
type DataProvider interface {
	// GetDocType returns the document type this provider handles
	GetDocType() printing.DocType
	// GetData retrieves the document data for rendering
	// documentID is the ID of the document to render
	GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*DocumentData, error)
}

// DocumentData is the common structure for all document data used in templates.
// It contains both common metadata and document-specific data.
type DocumentData struct {
	// Common metadata
	Meta DocumentMeta `json:"meta"`

	// Issuing company information
	Company CompanyInfo `json:"company"`

	// Document-specific data (varies by document type)
	// This will be one of: InvoiceData, BillData, ReceiptVoucherData, etc.
	Document any `json:"document"`

	// Formatted/computed fields for convenience
	PrintDate     string `json:"printDate"`
	PrintDateTime string `json:"printDateTime"`
	PrintTime     string `json:"printTime"`
}

// DocumentMeta contains common metadata for all documents
type DocumentMeta struct {
	DocType     printing.DocType `json:"docType"`
	DocTypeName string           `json:"docTypeName"`
	DocNo       string           `json:"docNo"` // Document number
	Currency    string           `json:"currency"`
	Status      string           `json:"status"`
	StatusText  string           `json:"statusText"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Memo        string           `json:"memo"`
}

// CompanyInfo contains issuing company information for printing
type CompanyInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LegalName    string    `json:"legalName"`
	Address      string    `json:"address"`
	TaxID        string    `json:"taxId"`
	BaseCurrency string    `json:"baseCurrency"`
}

// =============================================================================
// Invoice Data
// =============================================================================

// InvoiceData represents customer invoice data for template rendering
type InvoiceData struct {
	ID            uuid.UUID          `json:"id"`
	InvoiceNumber string             `json:"invoiceNumber"`
	Customer      PartyInfo          `json:"customer"`
	IssueDate     time.Time          `json:"issueDate"`
	DueDate       time.Time          `json:"dueDate"`
	Currency      string             `json:"currency"`
	Lines         []DocumentLineData `json:"lines"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"taxTotal"`
	Total         decimal.Decimal    `json:"total"`
	PaidAmount    decimal.Decimal    `json:"paidAmount"`
	BalanceDue    decimal.Decimal    `json:"balanceDue"`
	Status        string             `json:"status"`
	ApprovedAt    *time.Time         `json:"approvedAt"`
	SentAt        *time.Time         `json:"sentAt"`
	PaidAt        *time.Time         `json:"paidAt"`
	Memo          string             `json:"memo"`

	// Formatted fields
	IssueDateFormatted  string `json:"issueDateFormatted"`
	DueDateFormatted    string `json:"dueDateFormatted"`
	SubtotalFormatted   string `json:"subtotalFormatted"`
	TaxTotalFormatted   string `json:"taxTotalFormatted"`
	TotalFormatted      string `json:"totalFormatted"`
	PaidAmountFormatted string `json:"paidAmountFormatted"`
	BalanceDueFormatted string `json:"balanceDueFormatted"`
	TotalInWords        string `json:"totalInWords"`
}

// =============================================================================
// Bill Data
// =============================================================================

// BillData represents vendor bill data for template rendering
type BillData struct {
	ID              uuid.UUID          `json:"id"`
	BillNumber      string             `json:"billNumber"`
	VendorReference string             `json:"vendorReference"` // The vendor's own invoice number
	Vendor          PartyInfo          `json:"vendor"`
	BillDate        time.Time          `json:"billDate"`
	DueDate         time.Time          `json:"dueDate"`
	Currency        string             `json:"currency"`
	Lines           []DocumentLineData `json:"lines"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxTotal        decimal.Decimal    `json:"taxTotal"`
	Total           decimal.Decimal    `json:"total"`
	PaidAmount      decimal.Decimal    `json:"paidAmount"`
	BalanceDue      decimal.Decimal    `json:"balanceDue"`
	Status          string             `json:"status"`
	ApprovedAt      *time.Time         `json:"approvedAt"`
	PaidAt          *time.Time         `json:"paidAt"`
	Memo            string             `json:"memo"`

	// Formatted fields
	BillDateFormatted   string `json:"billDateFormatted"`
	DueDateFormatted    string `json:"dueDateFormatted"`
	SubtotalFormatted   string `json:"subtotalFormatted"`
	TaxTotalFormatted   string `json:"taxTotalFormatted"`
	TotalFormatted      string `json:"totalFormatted"`
	PaidAmountFormatted string `json:"paidAmountFormatted"`
	BalanceDueFormatted string `json:"balanceDueFormatted"`
	TotalInWords        string `json:"totalInWords"`
}

// DocumentLineData represents a line item on an invoice or bill
type DocumentLineData struct {
	Index         int             `json:"index"` // 1-based index
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`

	// Formatted fields
	QuantityFormatted   string `json:"quantityFormatted"`
	UnitPriceFormatted  string `json:"unitPriceFormatted"`
	TaxPercentFormatted string `json:"taxPercentFormatted"`
	AmountFormatted     string `json:"amountFormatted"`
	TaxAmountFormatted  string `json:"taxAmountFormatted"`
}

// =============================================================================
// Receipt Voucher Data (payment received from a customer)
// =============================================================================

// ReceiptVoucherData represents a received payment for template rendering
type ReceiptVoucherData struct {
	ID            uuid.UUID        `json:"id"`
	PaymentNumber string           `json:"paymentNumber"`
	Customer      PartyInfo        `json:"customer"`
	Method        string           `json:"method"`
	MethodText    string           `json:"methodText"`
	Reference     string           `json:"reference"` // Check number, wire reference
	PaymentDate   time.Time        `json:"paymentDate"`
	Currency      string           `json:"currency"`
	Amount        decimal.Decimal  `json:"amount"`
	Allocations   []AllocationInfo `json:"allocations"` // Invoices this receipt settles
	Unallocated   decimal.Decimal  `json:"unallocated"`
	Status        string           `json:"status"`
	ConfirmedAt   *time.Time       `json:"confirmedAt"`
	Memo          string           `json:"memo"`

	// Formatted fields
	PaymentDateFormatted string `json:"paymentDateFormatted"`
	AmountFormatted      string `json:"amountFormatted"`
	UnallocatedFormatted string `json:"unallocatedFormatted"`
	AmountInWords        string `json:"amountInWords"`
}

// =============================================================================
// Payment Voucher Data (payment made to a vendor)
// =============================================================================

// PaymentVoucherData represents an outgoing payment for template rendering
type PaymentVoucherData struct {
	ID            uuid.UUID        `json:"id"`
	PaymentNumber string           `json:"paymentNumber"`
	Vendor        PartyInfo        `json:"vendor"`
	Method        string           `json:"method"`
	MethodText    string           `json:"methodText"`
	Reference     string           `json:"reference"`
	PaymentDate   time.Time        `json:"paymentDate"`
	Currency      string           `json:"currency"`
	Amount        decimal.Decimal  `json:"amount"`
	Allocations   []AllocationInfo `json:"allocations"` // Bills this payment settles
	Unallocated   decimal.Decimal  `json:"unallocated"`
	Status        string           `json:"status"`
	ConfirmedAt   *time.Time       `json:"confirmedAt"`
	Memo          string           `json:"memo"`

	// Formatted fields
	PaymentDateFormatted string `json:"paymentDateFormatted"`
	AmountFormatted      string `json:"amountFormatted"`
	UnallocatedFormatted string `json:"unallocatedFormatted"`
	AmountInWords        string `json:"amountInWords"`
}

// =============================================================================
// Journal Entry Data
// =============================================================================

// JournalEntryData represents a general ledger voucher for template rendering
type JournalEntryData struct {
	ID           uuid.UUID         `json:"id"`
	EntryNumber  string            `json:"entryNumber"`
	EntryDate    time.Time         `json:"entryDate"`
	Currency     string            `json:"currency"`
	Source       string            `json:"source"`
	Status       string            `json:"status"`
	Lines        []JournalLineData `json:"lines"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	PostedAt     *time.Time        `json:"postedAt"`
	Memo         string            `json:"memo"`

	// Formatted fields
	EntryDateFormatted    string `json:"entryDateFormatted"`
	TotalDebitsFormatted  string `json:"totalDebitsFormatted"`
	TotalCreditsFormatted string `json:"totalCreditsFormatted"`
}

// JournalLineData represents a single debit or credit line on a voucher
type JournalLineData struct {
	Index       int             `json:"index"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`

	// Formatted fields; blank for the zero side of the line
	DebitFormatted  string `json:"debitFormatted"`
	CreditFormatted string `json:"creditFormatted"`
}

// =============================================================================
// Common Info Types
// =============================================================================

// PartyInfo contains customer or vendor information for printing
type PartyInfo struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	TaxID       string    `json:"taxId"`
	BankName    string    `json:"bankName"`    // Vendors only
	BankAccount string    `json:"bankAccount"` // Vendors only
}

// AllocationInfo represents allocation of a payment to an invoice or bill
type AllocationInfo struct {
	DocumentNumber string          `json:"documentNumber"`
	DocumentDate   time.Time       `json:"documentDate"`
	DocumentTotal  decimal.Decimal `json:"documentTotal"`
	Amount         decimal.Decimal `json:"amount"`

	// Formatted fields
	DocumentDateFormatted  string `json:"documentDateFormatted"`
	DocumentTotalFormatted string `json:"documentTotalFormatted"`
	AmountFormatted        string `json:"amountFormatted"`
}

// =============================================================================
// Helper Functions for Data Providers
// =============================================================================

// NewDocumentData creates a new DocumentData with common fields initialized
func NewDocumentData(docType printing.DocType, docNo string) *DocumentData {
	now := time.Now()
	return &DocumentData{
		Meta: DocumentMeta{
			DocType:     docType,
			DocTypeName: docType.DisplayName(),
			DocNo:       docNo,
		},
		PrintDate:     now.Format("2006-01-02"),
		PrintDateTime: now.Format("2006-01-02 15:04:05"),
		PrintTime:     now.Format("15:04:05"),
	}
}

// FormatMoneyValue formats a decimal as a money string in the given currency
func FormatMoneyValue(currencyCode string, d decimal.Decimal) string {
	return currencySymbol(currencyCode) + formatMoneyRaw(d)
}

// AmountInWords spells out a money value for voucher signature blocks
func AmountInWords(d decimal.Decimal) string {
	return amountInWords(d)
}
