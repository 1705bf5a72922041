package attachment

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// OwnerType identifies the kind of document an attachment belongs to
type OwnerType string

const (
	OwnerTypeInvoice OwnerType = "invoice"
	OwnerTypeBill    OwnerType = "bill"
	OwnerTypePayment OwnerType = "payment"
	OwnerTypeJournal OwnerType = "journal"
	OwnerTypeCompany OwnerType = "company"
)

// IsValid checks if the owner type is valid
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerTypeInvoice, OwnerTypeBill, OwnerTypePayment, OwnerTypeJournal, OwnerTypeCompany:
		return true
	}
	return false
}

// MaxFileSize caps uploads at 25 MiB.
const MaxFileSize = 25 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"text/csv":        true,
	"text/plain":      true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"application/zip":    true,
}

// Attachment is the relational metadata for a file whose bytes live in
// object storage under StorageKey.
type Attachment struct {
	shared.TenantAggregateRoot
	OwnerType   OwnerType `gorm:"type:varchar(20);not null;index:idx_attachment_owner" json:"owner_type"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_attachment_owner" json:"owner_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	ContentType string    `gorm:"type:varchar(100);not null" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	StorageKey  string    `gorm:"type:varchar(512);not null;uniqueIndex" json:"storage_key"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
}

// NewAttachment records metadata for an uploaded file. The storage key is
// derived from the tenant, owner and a fresh UUID so uploads never collide.
func NewAttachment(tenantID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID, fileName, contentType string, size int64, uploadedBy uuid.UUID) (*Attachment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	if !ownerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Owner type is not valid")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	fileName = sanitizeFileName(fileName)
	if fileName == "" || len(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name must be between 1 and 255 characters")
	}
	if !allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Content type is not supported for attachments")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "File size must be positive")
	}
	if size > MaxFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File size exceeds the 25 MiB limit")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOADER", "Uploader ID cannot be empty")
	}

	attachment := &Attachment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OwnerType:           ownerType,
		OwnerID:             ownerID,
		FileName:            fileName,
		ContentType:         strings.ToLower(strings.TrimSpace(contentType)),
		Size:                size,
		UploadedBy:          uploadedBy,
	}
	attachment.StorageKey = buildStorageKey(tenantID, ownerType, ownerID, attachment.ID, fileName)

	attachment.AddDomainEvent(NewAttachmentUploadedEvent(attachment))
	return attachment, nil
}

// sanitizeFileName strips any path component from a client supplied name.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}

func buildStorageKey(tenantID uuid.UUID, ownerType OwnerType, ownerID, attachmentID uuid.UUID, fileName string) string {
	return path.Join(
		"tenants", tenantID.String(),
		string(ownerType), ownerID.String(),
		attachmentID.String()+path.Ext(fileName),
	)
}

// SetDescription updates the free-form description
func (a *Attachment) SetDescription(description string) error {
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	a.Description = description
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Extension returns the lowercase file extension including the dot.
func (a *Attachment) Extension() string {
	return strings.ToLower(path.Ext(a.FileName))
}

// MarkDeleted emits the deletion event so storage cleanup can follow.
func (a *Attachment) MarkDeleted(deletedBy uuid.UUID) {
	a.AddDomainEvent(NewAttachmentDeletedEvent(a, deletedBy))
}

// TableName returns the database table name
func (Attachment) TableName() string {
	return "attachments"
}
