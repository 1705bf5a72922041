package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID     // Filter by customer
	Status     *InvoiceStatus // Filter by status
	IssueFrom  *time.Time     // Filter by issue date range start
	IssueTo    *time.Time     // Filter by issue date range end
	DueFrom    *time.Time     // Filter by due date range start
	DueTo      *time.Time     // Filter by due date range end
	Overdue    *bool          // Filter only overdue invoices
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number within a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForCompany finds all invoices for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindOutstanding finds invoices that still accept payment for a customer
	FindOutstanding(ctx context.Context, companyID, customerID uuid.UUID) ([]Invoice, error)

	// FindOverdue finds all overdue invoices for a company
	FindOverdue(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// NextInvoiceNumber allocates the next sequential invoice number for a company
	NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error)

	// CountIssuedInMonth counts non-draft invoices issued in a month, used for plan limits
	CountIssuedInMonth(ctx context.Context, tenantID uuid.UUID, year int, month int) (int64, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete deletes a draft invoice
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForCompany counts invoices for a company matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) (int64, error)
}

// BillFilter defines filtering options for bill queries
type BillFilter struct {
	shared.Filter
	VendorID *uuid.UUID  // Filter by vendor
	Status   *BillStatus // Filter by status
	DateFrom *time.Time  // Filter by bill date range start
	DateTo   *time.Time  // Filter by bill date range end
	DueFrom  *time.Time  // Filter by due date range start
	DueTo    *time.Time  // Filter by due date range end
	Overdue  *bool       // Filter only overdue bills
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByIDForTenant finds a bill by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Bill, error)

	// FindByNumber finds a bill by its number within a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, billNumber string) (*Bill, error)

	// FindAllForCompany finds all bills for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter BillFilter) ([]Bill, error)

	// FindByVendor finds bills for a vendor
	FindByVendor(ctx context.Context, companyID, vendorID uuid.UUID, filter BillFilter) ([]Bill, error)

	// FindOutstanding finds bills that still accept payment for a vendor
	FindOutstanding(ctx context.Context, companyID, vendorID uuid.UUID) ([]Bill, error)

	// FindOverdue finds all overdue bills for a company
	FindOverdue(ctx context.Context, companyID uuid.UUID, filter BillFilter) ([]Bill, error)

	// NextBillNumber allocates the next sequential bill number for a company
	NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error)

	// Save creates or updates a bill
	Save(ctx context.Context, bill *Bill) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, bill *Bill) error

	// Delete deletes a draft bill
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForCompany counts bills for a company matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter BillFilter) (int64, error)
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	PartyID   *uuid.UUID        // Filter by customer or vendor
	Direction *PaymentDirection // Filter by direction
	Status    *PaymentStatus    // Filter by status
	Method    *PaymentMethod    // Filter by method
	DateFrom  *time.Time        // Filter by payment date range start
	DateTo    *time.Time        // Filter by payment date range end
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForTenant finds a payment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByNumber finds a payment by its number within a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, paymentNumber string) (*Payment, error)

	// FindAllForCompany finds all payments for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// FindByParty finds payments for a customer or vendor
	FindByParty(ctx context.Context, companyID, partyID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// FindByAllocatedDocument finds payments carrying an allocation against a document
	FindByAllocatedDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]Payment, error)

	// NextPaymentNumber allocates the next sequential payment number for a company
	NextPaymentNumber(ctx context.Context, companyID uuid.UUID) (string, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// Delete deletes a draft payment
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForCompany counts payments for a company matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter PaymentFilter) (int64, error)
}
