package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/audit"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormAuditLogRepository implements AuditLogRepository using GORM.
// The table is append-only; the repository exposes no update or delete.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append stores a new audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *audit.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an audit entry by ID
func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	var entry audit.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll returns audit entries matching the filter, newest first, with the total count
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter audit.AuditLogFilter) ([]*audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&audit.AuditLog{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*audit.AuditLog
	if err := query.
		Order("occurred_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByEntity returns the full history of one entity, newest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) ([]*audit.AuditLog, error) {
	var entries []*audit.AuditLog
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("occurred_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountForTenant counts all audit entries for a tenant
func (r *GormAuditLogRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&audit.AuditLog{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
