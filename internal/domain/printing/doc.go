// Package printing contains the Printing bounded context.
// This context is responsible for managing print templates and print jobs
// for accounting documents such as invoices, vendor bills, receipt and
// payment vouchers, and journal entries.
package printing
