package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/invoicing"
)

// =============================================================================
// Shared line DTOs
// =============================================================================

// DocumentLineRequest represents one line on an invoice or bill
type DocumentLineRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRateID   *uuid.UUID      `json:"tax_rate_id"`
}

// DocumentLineResponse represents a line in API responses
type DocumentLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxRateID     *uuid.UUID      `json:"tax_rate_id,omitempty"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Position      int             `json:"position"`
}

func toLineResponses(lines invoicing.DocumentLines) []DocumentLineResponse {
	responses := make([]DocumentLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = DocumentLineResponse{
			ID:            line.ID,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			TaxRateID:     line.TaxRateID,
			TaxPercentage: line.TaxPercentage,
			Amount:        line.Amount,
			TaxAmount:     line.TaxAmount,
			Position:      line.Position,
		}
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID             `json:"customer_id" binding:"required"`
	IssueDate  time.Time             `json:"issue_date" binding:"required"`
	DueDate    *time.Time            `json:"due_date"`
	Currency   string                `json:"currency" binding:"omitempty,len=3"`
	Memo       string                `json:"memo" binding:"max=500"`
	Lines      []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
	CreatedBy  *uuid.UUID            `json:"-"`
}

// UpdateInvoiceRequest replaces the lines or memo of a draft invoice
type UpdateInvoiceRequest struct {
	IssueDate *time.Time            `json:"issue_date"`
	DueDate   *time.Time            `json:"due_date"`
	Memo      *string               `json:"memo" binding:"omitempty,max=500"`
	Lines     []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

// VoidDocumentRequest represents a request to void an invoice, bill or payment
type VoidDocumentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID              `json:"id"`
	CompanyID     uuid.UUID              `json:"company_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	CustomerName  string                 `json:"customer_name"`
	IssueDate     time.Time              `json:"issue_date"`
	DueDate       time.Time              `json:"due_date"`
	Currency      string                 `json:"currency"`
	Lines         []DocumentLineResponse `json:"lines"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TaxTotal      decimal.Decimal        `json:"tax_total"`
	Total         decimal.Decimal        `json:"total"`
	PaidAmount    decimal.Decimal        `json:"paid_amount"`
	Outstanding   decimal.Decimal        `json:"outstanding"`
	Status        string                 `json:"status"`
	Memo          string                 `json:"memo,omitempty"`
	ApprovedAt    *time.Time             `json:"approved_at,omitempty"`
	SentAt        *time.Time             `json:"sent_at,omitempty"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
	VoidedAt      *time.Time             `json:"voided_at,omitempty"`
	VoidReason    string                 `json:"void_reason,omitempty"`
	IsOverdue     bool                   `json:"is_overdue"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED SENT PARTIALLY_PAID PAID VOID"`
	CustomerID *uuid.UUID `form:"customer_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Overdue    *bool      `form:"overdue"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToInvoiceResponse converts a domain invoice to its response DTO
func ToInvoiceResponse(invoice *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		CompanyID:     invoice.CompanyID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Currency:      invoice.Currency.String(),
		Lines:         toLineResponses(invoice.Lines),
		Subtotal:      invoice.Subtotal,
		TaxTotal:      invoice.TaxTotal,
		Total:         invoice.Total,
		PaidAmount:    invoice.PaidAmount,
		Outstanding:   invoice.OutstandingAmount(),
		Status:        string(invoice.Status),
		Memo:          invoice.Memo,
		ApprovedAt:    invoice.ApprovedAt,
		SentAt:        invoice.SentAt,
		PaidAt:        invoice.PaidAt,
		VoidedAt:      invoice.VoidedAt,
		VoidReason:    invoice.VoidReason,
		IsOverdue:     invoice.IsOverdue(),
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
		Version:       invoice.Version,
	}
}

// =============================================================================
// Bill DTOs
// =============================================================================

// CreateBillRequest represents a request to create a draft bill
type CreateBillRequest struct {
	VendorID        uuid.UUID             `json:"vendor_id" binding:"required"`
	VendorReference string                `json:"vendor_reference" binding:"max=100"`
	BillDate        time.Time             `json:"bill_date" binding:"required"`
	DueDate         *time.Time            `json:"due_date"`
	Currency        string                `json:"currency" binding:"omitempty,len=3"`
	Memo            string                `json:"memo" binding:"max=500"`
	Lines           []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
	CreatedBy       *uuid.UUID            `json:"-"`
}

// UpdateBillRequest replaces the lines or memo of a draft bill
type UpdateBillRequest struct {
	BillDate        *time.Time            `json:"bill_date"`
	DueDate         *time.Time            `json:"due_date"`
	VendorReference *string               `json:"vendor_reference" binding:"omitempty,max=100"`
	Memo            *string               `json:"memo" binding:"omitempty,max=500"`
	Lines           []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID              uuid.UUID              `json:"id"`
	CompanyID       uuid.UUID              `json:"company_id"`
	BillNumber      string                 `json:"bill_number"`
	VendorID        uuid.UUID              `json:"vendor_id"`
	VendorName      string                 `json:"vendor_name"`
	VendorReference string                 `json:"vendor_reference,omitempty"`
	BillDate        time.Time              `json:"bill_date"`
	DueDate         time.Time              `json:"due_date"`
	Currency        string                 `json:"currency"`
	Lines           []DocumentLineResponse `json:"lines"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxTotal        decimal.Decimal        `json:"tax_total"`
	Total           decimal.Decimal        `json:"total"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	Outstanding     decimal.Decimal        `json:"outstanding"`
	Status          string                 `json:"status"`
	Memo            string                 `json:"memo,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	PaidAt          *time.Time             `json:"paid_at,omitempty"`
	VoidedAt        *time.Time             `json:"voided_at,omitempty"`
	VoidReason      string                 `json:"void_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// BillListFilter represents filter options for the bill list
type BillListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PARTIALLY_PAID PAID VOID"`
	VendorID *uuid.UUID `form:"vendor_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToBillResponse converts a domain bill to its response DTO
func ToBillResponse(bill *invoicing.Bill) BillResponse {
	return BillResponse{
		ID:              bill.ID,
		CompanyID:       bill.CompanyID,
		BillNumber:      bill.BillNumber,
		VendorID:        bill.VendorID,
		VendorName:      bill.VendorName,
		VendorReference: bill.VendorReference,
		BillDate:        bill.BillDate,
		DueDate:         bill.DueDate,
		Currency:        bill.Currency.String(),
		Lines:           toLineResponses(bill.Lines),
		Subtotal:        bill.Subtotal,
		TaxTotal:        bill.TaxTotal,
		Total:           bill.Total,
		PaidAmount:      bill.PaidAmount,
		Outstanding:     bill.OutstandingAmount(),
		Status:          string(bill.Status),
		Memo:            bill.Memo,
		ApprovedAt:      bill.ApprovedAt,
		PaidAt:          bill.PaidAt,
		VoidedAt:        bill.VoidedAt,
		VoidReason:      bill.VoidReason,
		CreatedAt:       bill.CreatedAt,
		UpdatedAt:       bill.UpdatedAt,
		Version:         bill.Version,
	}
}

// =============================================================================
// Payment DTOs
// =============================================================================

// AllocationRequest represents one allocation of a payment to a document
type AllocationRequest struct {
	DocumentID uuid.UUID       `json:"document_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePaymentRequest represents a request to create a draft payment
type CreatePaymentRequest struct {
	Direction   string              `json:"direction" binding:"required,oneof=RECEIVED MADE"`
	PartyID     uuid.UUID           `json:"party_id" binding:"required"`
	Method      string              `json:"method" binding:"required,oneof=CASH CHECK BANK_TRANSFER CARD OTHER"`
	Reference   string              `json:"reference" binding:"max=100"`
	PaymentDate time.Time           `json:"payment_date" binding:"required"`
	Currency    string              `json:"currency" binding:"omitempty,len=3"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Memo        string              `json:"memo" binding:"max=500"`
	Allocations []AllocationRequest `json:"allocations" binding:"omitempty,dive"`
	CreatedBy   *uuid.UUID          `json:"-"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Amount      decimal.Decimal `json:"amount"`
	AllocatedAt time.Time       `json:"allocated_at"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	CompanyID     uuid.UUID            `json:"company_id"`
	PaymentNumber string               `json:"payment_number"`
	Direction     string               `json:"direction"`
	PartyID       uuid.UUID            `json:"party_id"`
	PartyName     string               `json:"party_name"`
	Method        string               `json:"method"`
	Reference     string               `json:"reference,omitempty"`
	PaymentDate   time.Time            `json:"payment_date"`
	Currency      string               `json:"currency"`
	Amount        decimal.Decimal      `json:"amount"`
	Allocated     decimal.Decimal      `json:"allocated"`
	Unallocated   decimal.Decimal      `json:"unallocated"`
	Allocations   []AllocationResponse `json:"allocations"`
	Status        string               `json:"status"`
	Memo          string               `json:"memo,omitempty"`
	ConfirmedAt   *time.Time           `json:"confirmed_at,omitempty"`
	VoidedAt      *time.Time           `json:"voided_at,omitempty"`
	VoidReason    string               `json:"void_reason,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Status    string     `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED VOID"`
	Direction string     `form:"direction" binding:"omitempty,oneof=RECEIVED MADE"`
	PartyID   *uuid.UUID `form:"party_id"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPaymentResponse converts a domain payment to its response DTO
func ToPaymentResponse(payment *invoicing.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(payment.Allocations))
	for i, alloc := range payment.Allocations {
		allocations[i] = AllocationResponse{
			ID:          alloc.ID,
			DocumentID:  alloc.DocumentID,
			Amount:      alloc.Amount,
			AllocatedAt: alloc.AllocatedAt,
		}
	}

	return PaymentResponse{
		ID:            payment.ID,
		CompanyID:     payment.CompanyID,
		PaymentNumber: payment.PaymentNumber,
		Direction:     string(payment.Direction),
		PartyID:       payment.PartyID,
		PartyName:     payment.PartyName,
		Method:        string(payment.Method),
		Reference:     payment.Reference,
		PaymentDate:   payment.PaymentDate,
		Currency:      payment.Currency.String(),
		Amount:        payment.Amount,
		Allocated:     payment.AllocatedAmount(),
		Unallocated:   payment.UnallocatedAmount(),
		Allocations:   allocations,
		Status:        string(payment.Status),
		Memo:          payment.Memo,
		ConfirmedAt:   payment.ConfirmedAt,
		VoidedAt:      payment.VoidedAt,
		VoidReason:    payment.VoidReason,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
		Version:       payment.Version,
	}
}
