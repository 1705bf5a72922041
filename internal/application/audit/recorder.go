package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/audit"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// Recorder subscribes to sensitive domain events and appends audit log
// entries for them. Failures are logged and returned so the event bus can
// surface them, but they never roll back the action being audited since
// handlers run after the aggregate was saved.
type Recorder struct {
	repo   audit.AuditLogRepository
	logger *zap.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(repo audit.AuditLogRepository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (r *Recorder) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceApproved,
		invoicing.EventTypeBillApproved,
		invoicing.EventTypePaymentConfirmed,
		invoicing.EventTypePaymentVoided,
		ledger.EventTypePeriodClosed,
		ledger.EventTypePeriodReopened,
		identity.EventTypeRolePermissionGranted,
		identity.EventTypeRolePermissionRevoked,
		billing.EventTypeSubscriptionStatusChanged,
		billing.EventTypeSubscriptionPlanChanged,
	}
}

// Handle writes an audit entry for the event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := r.buildEntry(event)
	if err != nil {
		r.logger.Error("Failed to build audit entry",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	if entry == nil {
		return nil
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("Failed to append audit entry",
			zap.String("event_type", event.EventType()),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

func (r *Recorder) buildEntry(event shared.DomainEvent) (*audit.AuditLog, error) {
	switch e := event.(type) {
	case *invoicing.InvoiceApprovedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), e.ApprovedBy, "",
			audit.ActionInvoiceApproved, invoicing.AggregateTypeInvoice, e.InvoiceID,
			fmt.Sprintf("Invoice %s approved", e.InvoiceNumber))
		if err != nil {
			return nil, err
		}
		return entry.WithSnapshots(nil, map[string]string{
			"total":    e.Total.String(),
			"currency": e.Currency,
		}), nil

	case *invoicing.BillApprovedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), e.ApprovedBy, "",
			audit.ActionBillApproved, invoicing.AggregateTypeBill, e.BillID,
			fmt.Sprintf("Bill %s approved", e.BillNumber))
		if err != nil {
			return nil, err
		}
		return entry.WithSnapshots(nil, map[string]string{
			"total":    e.Total.String(),
			"currency": e.Currency,
		}), nil

	case *invoicing.PaymentConfirmedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), e.ConfirmedBy, "",
			audit.ActionPaymentConfirmed, invoicing.AggregateTypePayment, e.PaymentID,
			fmt.Sprintf("Payment %s confirmed", e.PaymentNumber))
		if err != nil {
			return nil, err
		}
		return entry.WithSnapshots(nil, map[string]string{
			"amount":    e.Amount.String(),
			"currency":  e.Currency,
			"direction": string(e.Direction),
		}), nil

	case *invoicing.PaymentVoidedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), e.VoidedBy, "",
			audit.ActionPaymentVoided, invoicing.AggregateTypePayment, e.PaymentID,
			fmt.Sprintf("Payment %s voided: %s", e.PaymentNumber, e.Reason))
		if err != nil {
			return nil, err
		}
		return entry, nil

	case *ledger.PeriodClosedEvent:
		return audit.NewAuditLog(e.TenantID(), e.ClosedBy, "",
			audit.ActionPeriodClosed, ledger.AggregateTypePeriod, e.AggregateID(),
			fmt.Sprintf("Accounting period %04d-%02d closed", e.Year, e.Month))

	case *ledger.PeriodReopenedEvent:
		return audit.NewAuditLog(e.TenantID(), e.ReopenedBy, "",
			audit.ActionPeriodReopened, ledger.AggregateTypePeriod, e.AggregateID(),
			fmt.Sprintf("Accounting period %04d-%02d reopened", e.Year, e.Month))

	case *identity.RolePermissionGrantedEvent:
		// Role events carry no acting user, the HTTP layer logs the admin
		// separately in request logs
		return audit.NewAuditLog(e.TenantID(), audit.SystemActorID, audit.SystemActorName,
			audit.ActionRoleChanged, identity.AggregateTypeRole, e.AggregateID(),
			fmt.Sprintf("Permission %s granted to role %s", e.PermissionCode, e.RoleCode))

	case *identity.RolePermissionRevokedEvent:
		return audit.NewAuditLog(e.TenantID(), audit.SystemActorID, audit.SystemActorName,
			audit.ActionRoleChanged, identity.AggregateTypeRole, e.AggregateID(),
			fmt.Sprintf("Permission %s revoked from role %s", e.PermissionCode, e.RoleCode))

	case *billing.SubscriptionStatusChangedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), audit.SystemActorID, audit.SystemActorName,
			audit.ActionSubscriptionChanged, billing.AggregateTypeSubscription, e.SubscriptionID,
			fmt.Sprintf("Subscription moved from %s to %s", e.OldStatus, e.NewStatus))
		if err != nil {
			return nil, err
		}
		return entry.WithSnapshots(
			map[string]string{"status": string(e.OldStatus)},
			map[string]string{"status": string(e.NewStatus)},
		), nil

	case *billing.SubscriptionPlanChangedEvent:
		entry, err := audit.NewAuditLog(e.TenantID(), audit.SystemActorID, audit.SystemActorName,
			audit.ActionSubscriptionChanged, billing.AggregateTypeSubscription, e.SubscriptionID,
			fmt.Sprintf("Subscription plan changed from %s to %s", e.OldPlanCode, e.NewPlanCode))
		if err != nil {
			return nil, err
		}
		return entry.WithSnapshots(
			map[string]string{"plan": string(e.OldPlanCode)},
			map[string]string{"plan": string(e.NewPlanCode)},
		), nil

	default:
		r.logger.Warn("unexpected event type", zap.String("event_type", event.EventType()))
		return nil, nil
	}
}
