package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/attachment"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Save creates or updates attachment metadata
func (r *GormAttachmentRepository) Save(ctx context.Context, att *attachment.Attachment) error {
	return r.db.WithContext(ctx).Save(att).Error
}

// Delete deletes attachment metadata
func (r *GormAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&attachment.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an attachment by ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	var att attachment.Attachment
	if err := r.db.WithContext(ctx).First(&att, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

// FindByIDForTenant finds an attachment by ID within a tenant
func (r *GormAttachmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*attachment.Attachment, error) {
	var att attachment.Attachment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

// FindByIDs finds multiple attachments by their IDs within a tenant
func (r *GormAttachmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*attachment.Attachment, error) {
	if len(ids) == 0 {
		return []*attachment.Attachment{}, nil
	}

	var attachments []*attachment.Attachment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindByOwner finds all attachments on an owning document
func (r *GormAttachmentRepository) FindByOwner(ctx context.Context, tenantID uuid.UUID, ownerType attachment.OwnerType, ownerID uuid.UUID) ([]*attachment.Attachment, error) {
	var attachments []*attachment.Attachment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND owner_type = ? AND owner_id = ?", tenantID, ownerType, ownerID).
		Order("created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// CountByOwner counts attachments on an owning document
func (r *GormAttachmentRepository) CountByOwner(ctx context.Context, tenantID uuid.UUID, ownerType attachment.OwnerType, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&attachment.Attachment{}).
		Where("tenant_id = ? AND owner_type = ? AND owner_id = ?", tenantID, ownerType, ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalSizeForTenant sums stored bytes across a tenant's attachments
func (r *GormAttachmentRepository) TotalSizeForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&attachment.Attachment{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
