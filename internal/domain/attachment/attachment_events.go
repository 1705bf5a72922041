package attachment

import (
	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAttachment = "Attachment"

// Event type constants
const (
	EventTypeAttachmentUploaded = "AttachmentUploaded"
	EventTypeAttachmentDeleted  = "AttachmentDeleted"
)

// AttachmentUploadedEvent is published when attachment metadata is recorded
type AttachmentUploadedEvent struct {
	shared.BaseDomainEvent
	AttachmentID uuid.UUID `json:"attachment_id"`
	OwnerType    OwnerType `json:"owner_type"`
	OwnerID      uuid.UUID `json:"owner_id"`
	FileName     string    `json:"file_name"`
	Size         int64     `json:"size"`
	StorageKey   string    `json:"storage_key"`
}

// NewAttachmentUploadedEvent creates a new AttachmentUploadedEvent
func NewAttachmentUploadedEvent(a *Attachment) *AttachmentUploadedEvent {
	return &AttachmentUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttachmentUploaded, AggregateTypeAttachment, a.ID, a.TenantID),
		AttachmentID:    a.ID,
		OwnerType:       a.OwnerType,
		OwnerID:         a.OwnerID,
		FileName:        a.FileName,
		Size:            a.Size,
		StorageKey:      a.StorageKey,
	}
}

// AttachmentDeletedEvent is published when an attachment is removed. Storage
// cleanup subscribes to this and deletes the object under StorageKey.
type AttachmentDeletedEvent struct {
	shared.BaseDomainEvent
	AttachmentID uuid.UUID `json:"attachment_id"`
	StorageKey   string    `json:"storage_key"`
	DeletedBy    uuid.UUID `json:"deleted_by"`
}

// NewAttachmentDeletedEvent creates a new AttachmentDeletedEvent
func NewAttachmentDeletedEvent(a *Attachment, deletedBy uuid.UUID) *AttachmentDeletedEvent {
	return &AttachmentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttachmentDeleted, AggregateTypeAttachment, a.ID, a.TenantID),
		AttachmentID:    a.ID,
		StorageKey:      a.StorageKey,
		DeletedBy:       deletedBy,
	}
}
