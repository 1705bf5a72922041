package attachment

import (
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/attachment"
)

// InitiateUploadRequest registers metadata for a file about to be uploaded
type InitiateUploadRequest struct {
	OwnerType   string     `json:"owner_type" binding:"required,oneof=invoice bill payment journal company"`
	OwnerID     uuid.UUID  `json:"owner_id" binding:"required"`
	FileName    string     `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string     `json:"content_type" binding:"required,max=100"`
	Size        int64      `json:"size" binding:"required,min=1"`
	Description string     `json:"description" binding:"max=500"`
	UploadedBy  *uuid.UUID `json:"-"`
}

// InitiateUploadResponse carries the stored metadata plus a presigned PUT URL
type InitiateUploadResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// DownloadURLResponse carries a presigned GET URL for an attachment
type DownloadURLResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	DownloadURL  string    `json:"download_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UpdateDescriptionRequest updates the free-form description of an attachment
type UpdateDescriptionRequest struct {
	Description string `json:"description" binding:"max=500"`
}

// AttachmentResponse represents attachment metadata in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerType   string    `json:"owner_type"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToAttachmentResponse converts a domain attachment to its response DTO
func ToAttachmentResponse(a *attachment.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		OwnerType:   string(a.OwnerType),
		OwnerID:     a.OwnerID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedBy:  a.UploadedBy,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAttachmentResponses(attachments []*attachment.Attachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = ToAttachmentResponse(a)
	}
	return responses
}
