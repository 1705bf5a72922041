package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditLogRepository defines the persistence interface for audit entries.
// Entries are append-only; there is no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *AuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*AuditLog, error)
	FindAll(ctx context.Context, filter AuditLogFilter) ([]*AuditLog, int64, error)
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) ([]*AuditLog, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// AuditLogFilter narrows audit queries. Results are always newest first.
type AuditLogFilter struct {
	TenantID   uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// NewAuditLogFilter creates a filter for a tenant with default pagination
func NewAuditLogFilter(tenantID uuid.UUID) AuditLogFilter {
	return AuditLogFilter{
		TenantID: tenantID,
		Page:     1,
		PageSize: 50,
	}
}

// WithActor filters by the acting user
func (f AuditLogFilter) WithActor(actorID uuid.UUID) AuditLogFilter {
	f.ActorID = &actorID
	return f
}

// WithAction filters by action name
func (f AuditLogFilter) WithAction(action string) AuditLogFilter {
	f.Action = action
	return f
}

// WithEntityType filters by entity type
func (f AuditLogFilter) WithEntityType(entityType string) AuditLogFilter {
	f.EntityType = entityType
	return f
}

// WithTimeRange filters by occurrence window
func (f AuditLogFilter) WithTimeRange(from, to time.Time) AuditLogFilter {
	f.From = &from
	f.To = &to
	return f
}

// WithPagination sets page and page size
func (f AuditLogFilter) WithPagination(page, pageSize int) AuditLogFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset calculates the query offset
func (f AuditLogFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the capped page size
func (f AuditLogFilter) Limit() int {
	if f.PageSize <= 0 {
		return 50
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
