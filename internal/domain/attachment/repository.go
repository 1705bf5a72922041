package attachment

import (
	"context"

	"github.com/google/uuid"
)

// AttachmentRepository defines the persistence interface for attachment metadata
type AttachmentRepository interface {
	Save(ctx context.Context, attachment *Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Attachment, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Attachment, error)
	FindByOwner(ctx context.Context, tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) ([]*Attachment, error)
	CountByOwner(ctx context.Context, tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) (int64, error)
	TotalSizeForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
