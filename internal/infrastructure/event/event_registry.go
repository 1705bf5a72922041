package event

import (
	"github.com/openbooks/backend/internal/domain/attachment"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/printing"
	"github.com/openbooks/backend/internal/domain/tax"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Invoicing domain - Invoice events
	serializer.Register(invoicing.EventTypeInvoiceCreated, &invoicing.InvoiceCreatedEvent{})
	serializer.Register(invoicing.EventTypeInvoiceApproved, &invoicing.InvoiceApprovedEvent{})
	serializer.Register(invoicing.EventTypeInvoiceSent, &invoicing.InvoiceSentEvent{})
	serializer.Register(invoicing.EventTypeInvoicePartiallyPaid, &invoicing.InvoicePartiallyPaidEvent{})
	serializer.Register(invoicing.EventTypeInvoicePaid, &invoicing.InvoicePaidEvent{})
	serializer.Register(invoicing.EventTypeInvoiceVoided, &invoicing.InvoiceVoidedEvent{})

	// Invoicing domain - Bill events
	serializer.Register(invoicing.EventTypeBillCreated, &invoicing.BillCreatedEvent{})
	serializer.Register(invoicing.EventTypeBillApproved, &invoicing.BillApprovedEvent{})
	serializer.Register(invoicing.EventTypeBillPaid, &invoicing.BillPaidEvent{})
	serializer.Register(invoicing.EventTypeBillVoided, &invoicing.BillVoidedEvent{})

	// Invoicing domain - Payment events
	serializer.Register(invoicing.EventTypePaymentCreated, &invoicing.PaymentCreatedEvent{})
	serializer.Register(invoicing.EventTypePaymentConfirmed, &invoicing.PaymentConfirmedEvent{})
	serializer.Register(invoicing.EventTypePaymentVoided, &invoicing.PaymentVoidedEvent{})

	// Ledger domain events
	serializer.Register(ledger.EventTypeAccountCreated, &ledger.AccountCreatedEvent{})
	serializer.Register(ledger.EventTypeAccountDeactivated, &ledger.AccountDeactivatedEvent{})
	serializer.Register(ledger.EventTypeJournalEntryPosted, &ledger.JournalEntryPostedEvent{})
	serializer.Register(ledger.EventTypeJournalEntryVoided, &ledger.JournalEntryVoidedEvent{})
	serializer.Register(ledger.EventTypePeriodClosed, &ledger.PeriodClosedEvent{})
	serializer.Register(ledger.EventTypePeriodReopened, &ledger.PeriodReopenedEvent{})

	// Partner domain events
	serializer.Register(partner.EventTypeCustomerCreated, &partner.CustomerCreatedEvent{})
	serializer.Register(partner.EventTypeCustomerUpdated, &partner.CustomerUpdatedEvent{})
	serializer.Register(partner.EventTypeCustomerStatusChanged, &partner.CustomerStatusChangedEvent{})
	serializer.Register(partner.EventTypeCustomerDeleted, &partner.CustomerDeletedEvent{})
	serializer.Register(partner.EventTypeVendorCreated, &partner.VendorCreatedEvent{})
	serializer.Register(partner.EventTypeVendorUpdated, &partner.VendorUpdatedEvent{})
	serializer.Register(partner.EventTypeVendorStatusChanged, &partner.VendorStatusChangedEvent{})
	serializer.Register(partner.EventTypeVendorDeleted, &partner.VendorDeletedEvent{})

	// Tax domain events
	serializer.Register(tax.EventTypeTaxRateCreated, &tax.TaxRateCreatedEvent{})
	serializer.Register(tax.EventTypeTaxRateUpdated, &tax.TaxRateUpdatedEvent{})
	serializer.Register(tax.EventTypeTaxRateStatusChanged, &tax.TaxRateStatusChangedEvent{})
	serializer.Register(tax.EventTypeTaxRateDeleted, &tax.TaxRateDeletedEvent{})

	// Attachment domain events
	serializer.Register(attachment.EventTypeAttachmentUploaded, &attachment.AttachmentUploadedEvent{})
	serializer.Register(attachment.EventTypeAttachmentDeleted, &attachment.AttachmentDeletedEvent{})

	// Printing domain events
	serializer.Register(printing.EventTypePrintTemplateCreated, &printing.PrintTemplateCreatedEvent{})
	serializer.Register(printing.EventTypePrintTemplateUpdated, &printing.PrintTemplateUpdatedEvent{})
	serializer.Register(printing.EventTypePrintTemplateStatusChanged, &printing.PrintTemplateStatusChangedEvent{})
	serializer.Register(printing.EventTypePrintTemplateSetAsDefault, &printing.PrintTemplateSetAsDefaultEvent{})
	serializer.Register(printing.EventTypePrintTemplateDeleted, &printing.PrintTemplateDeletedEvent{})
	serializer.Register(printing.EventTypePrintJobCreated, &printing.PrintJobCreatedEvent{})
	serializer.Register(printing.EventTypePrintJobStatusChanged, &printing.PrintJobStatusChangedEvent{})
	serializer.Register(printing.EventTypePrintJobCompleted, &printing.PrintJobCompletedEvent{})
	serializer.Register(printing.EventTypePrintJobFailed, &printing.PrintJobFailedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypeSubscriptionStarted, &billing.SubscriptionStartedEvent{})
	serializer.Register(billing.EventTypeSubscriptionStatusChanged, &billing.SubscriptionStatusChangedEvent{})
	serializer.Register(billing.EventTypeSubscriptionPlanChanged, &billing.SubscriptionPlanChangedEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	serializer.Register(identity.EventTypeTenantUpdated, &identity.TenantUpdatedEvent{})
	serializer.Register(identity.EventTypeTenantStatusChanged, &identity.TenantStatusChangedEvent{})
	serializer.Register(identity.EventTypeTenantPlanChanged, &identity.TenantPlanChangedEvent{})
	serializer.Register(identity.EventTypeTenantDeleted, &identity.TenantDeletedEvent{})
	serializer.Register(identity.EventTypeCompanyCreated, &identity.CompanyCreatedEvent{})
	serializer.Register(identity.EventTypeCompanyArchived, &identity.CompanyArchivedEvent{})
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserDeactivated, &identity.UserDeactivatedEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserRoleAssigned, &identity.UserRoleAssignedEvent{})
	serializer.Register(identity.EventTypeUserRoleRemoved, &identity.UserRoleRemovedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	serializer.Register(identity.EventTypeRoleCreated, &identity.RoleCreatedEvent{})
	serializer.Register(identity.EventTypeRoleUpdated, &identity.RoleUpdatedEvent{})
	serializer.Register(identity.EventTypeRoleDeleted, &identity.RoleDeletedEvent{})
	serializer.Register(identity.EventTypeRolePermissionGranted, &identity.RolePermissionGrantedEvent{})
	serializer.Register(identity.EventTypeRolePermissionRevoked, &identity.RolePermissionRevokedEvent{})
}
