package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/audit"
	"github.com/openbooks/backend/internal/domain/shared"
)

// AuditService provides read access to the audit trail
type AuditService struct {
	repo   audit.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo audit.AuditLogRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// ListInput narrows the audit trail query
type ListInput struct {
	TenantID   uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// AuditLogDTO is the transport shape of one audit entry
type AuditLogDTO struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorName  string    `json:"actor_name,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Summary    string    `json:"summary,omitempty"`
	Before     string    `json:"before,omitempty"`
	After      string    `json:"after,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListResult is a page of audit entries, newest first
type ListResult struct {
	Entries  []AuditLogDTO `json:"entries"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// List returns a page of the tenant's audit trail
func (s *AuditService) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID is required")
	}

	filter := audit.NewAuditLogFilter(input.TenantID)
	if input.ActorID != nil {
		filter = filter.WithActor(*input.ActorID)
	}
	if input.Action != "" {
		filter = filter.WithAction(input.Action)
	}
	if input.EntityType != "" {
		filter = filter.WithEntityType(input.EntityType)
	}
	if input.From != nil && input.To != nil {
		filter = filter.WithTimeRange(*input.From, *input.To)
	}
	if input.Page > 0 || input.PageSize > 0 {
		filter = filter.WithPagination(input.Page, input.PageSize)
	}

	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to query audit trail", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to query audit trail")
	}

	dtos := make([]AuditLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toAuditLogDTO(entry)
	}

	return &ListResult{
		Entries:  dtos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// History returns the full audit trail of one entity
func (s *AuditService) History(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) ([]AuditLogDTO, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID is required")
	}
	if entityType == "" || entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity type and ID are required")
	}

	entries, err := s.repo.FindByEntity(ctx, tenantID, entityType, entityID)
	if err != nil {
		s.logger.Error("Failed to query entity history", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to query entity history")
	}

	dtos := make([]AuditLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toAuditLogDTO(entry)
	}
	return dtos, nil
}

func toAuditLogDTO(entry *audit.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Summary:    entry.Summary,
		Before:     entry.Before,
		After:      entry.After,
		IPAddress:  entry.IPAddress,
		OccurredAt: entry.OccurredAt,
	}
}
