package audit

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Action names follow "resource.verb", matching the permission strings
// checked at the HTTP layer.
const (
	ActionInvoiceApproved      = "invoice.approve"
	ActionBillApproved         = "bill.approve"
	ActionPaymentConfirmed     = "payment.confirm"
	ActionPaymentVoided        = "payment.void"
	ActionJournalPosted        = "journal.post"
	ActionJournalVoided        = "journal.void"
	ActionPeriodClosed         = "period.close"
	ActionPeriodReopened       = "period.reopen"
	ActionRoleChanged          = "role.update"
	ActionUserLocked           = "user.lock"
	ActionSubscriptionChanged  = "subscription.change"
	ActionAttachmentDeleted    = "attachment.delete"
)

// SystemActorID marks entries recorded by automated flows, such as Stripe
// webhooks and scheduler jobs, where no user performed the action.
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SystemActorName is the display name recorded alongside SystemActorID
const SystemActorName = "system"

// AuditLog is an append-only record of a sensitive action. Entries are
// written once and never updated or deleted.
type AuditLog struct {
	shared.BaseEntity
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_tenant_time" json:"tenant_id"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	ActorName  string    `gorm:"type:varchar(100);not null" json:"actor_name"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Summary    string    `gorm:"type:varchar(500)" json:"summary"`
	Before     string    `gorm:"type:jsonb" json:"before,omitempty"`
	After      string    `gorm:"type:jsonb" json:"after,omitempty"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	OccurredAt time.Time `gorm:"not null;index:idx_audit_tenant_time" json:"occurred_at"`
}

// NewAuditLog records an action an actor performed on an entity.
func NewAuditLog(tenantID, actorID uuid.UUID, actorName, action, entityType string, entityID uuid.UUID, summary string) (*AuditLog, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	action = strings.TrimSpace(action)
	if action == "" || len(action) > 50 {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action must be between 1 and 50 characters")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID cannot be empty")
	}
	if len(summary) > 500 {
		summary = summary[:500]
	}

	return &AuditLog{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ActorID:    actorID,
		ActorName:  strings.TrimSpace(actorName),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Summary:    summary,
		OccurredAt: time.Now(),
	}, nil
}

// WithSnapshots attaches JSON state snapshots taken before and after the
// action. Values that fail to marshal are left empty rather than blocking
// the action being audited.
func (l *AuditLog) WithSnapshots(before, after any) *AuditLog {
	if before != nil {
		if data, err := json.Marshal(before); err == nil {
			l.Before = string(data)
		}
	}
	if after != nil {
		if data, err := json.Marshal(after); err == nil {
			l.After = string(data)
		}
	}
	return l
}

// WithIPAddress records the client address the action came from.
func (l *AuditLog) WithIPAddress(ip string) *AuditLog {
	if len(ip) <= 45 {
		l.IPAddress = ip
	}
	return l
}

// TableName returns the database table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
