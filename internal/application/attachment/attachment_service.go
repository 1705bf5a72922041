package attachment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/attachment"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
)

// ObjectStorageService is the object storage contract implemented by the
// infrastructure layer
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry        time.Duration
	DownloadURLExpiry      time.Duration
	MaxAttachmentsPerOwner int
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:        15 * time.Minute,
		DownloadURLExpiry:      1 * time.Hour,
		MaxAttachmentsPerOwner: 50,
	}
}

// AttachmentService manages file metadata and presigned storage access
type AttachmentService struct {
	attachmentRepo   attachment.AttachmentRepository
	subscriptionRepo billing.SubscriptionRepository
	storageService   ObjectStorageService
	eventPublisher   shared.EventPublisher
	config           AttachmentServiceConfig
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo attachment.AttachmentRepository,
	subscriptionRepo billing.SubscriptionRepository,
	storageService ObjectStorageService,
	eventPublisher shared.EventPublisher,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo:   attachmentRepo,
		subscriptionRepo: subscriptionRepo,
		storageService:   storageService,
		eventPublisher:   eventPublisher,
		config:           DefaultAttachmentServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload stores attachment metadata and returns a presigned upload
// URL. The file bytes never pass through the API server.
func (s *AttachmentService) InitiateUpload(ctx context.Context, tenantID uuid.UUID, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	if req.UploadedBy == nil {
		return nil, shared.NewDomainError("INVALID_UPLOADER", "Uploader ID cannot be empty")
	}

	ownerType := attachment.OwnerType(req.OwnerType)
	count, err := s.attachmentRepo.CountByOwner(ctx, tenantID, ownerType, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attachments: %w", err)
	}
	if count >= int64(s.config.MaxAttachmentsPerOwner) {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("A document can carry at most %d attachments", s.config.MaxAttachmentsPerOwner))
	}

	if err := s.ensureStorageQuota(ctx, tenantID, req.Size); err != nil {
		return nil, err
	}

	record, err := attachment.NewAttachment(tenantID, ownerType, req.OwnerID,
		req.FileName, req.ContentType, req.Size, *req.UploadedBy)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := record.SetDescription(req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.attachmentRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(ctx,
		record.StorageKey, record.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		// metadata without an upload URL is useless, roll it back
		_ = s.attachmentRepo.Delete(ctx, record.ID)
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	s.publishDomainEvents(ctx, record)

	return &InitiateUploadResponse{
		Attachment: ToAttachmentResponse(record),
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// GetDownloadURL returns a presigned GET URL for an uploaded attachment
func (s *AttachmentService) GetDownloadURL(ctx context.Context, tenantID, attachmentID uuid.UUID) (*DownloadURLResponse, error) {
	record, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	exists, err := s.storageService.ObjectExists(ctx, record.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check stored object: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("FILE_NOT_UPLOADED", "The file has not been uploaded yet")
	}

	downloadURL, expiresAt, err := s.storageService.GenerateDownloadURL(ctx,
		record.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DownloadURLResponse{
		AttachmentID: record.ID,
		FileName:     record.FileName,
		DownloadURL:  downloadURL,
		ExpiresAt:    expiresAt,
	}, nil
}

// ListByOwner returns the attachments of a single document
func (s *AttachmentService) ListByOwner(ctx context.Context, tenantID uuid.UUID, ownerType string, ownerID uuid.UUID) ([]AttachmentResponse, error) {
	ot := attachment.OwnerType(ownerType)
	if !ot.IsValid() {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Owner type is not valid")
	}

	records, err := s.attachmentRepo.FindByOwner(ctx, tenantID, ot, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return toAttachmentResponses(records), nil
}

// GetByIDs batch resolves attachment metadata, preserving tenant isolation
func (s *AttachmentService) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]AttachmentResponse, error) {
	if len(ids) == 0 {
		return []AttachmentResponse{}, nil
	}

	records, err := s.attachmentRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attachments: %w", err)
	}
	return toAttachmentResponses(records), nil
}

// UpdateDescription updates the free-form description of an attachment
func (s *AttachmentService) UpdateDescription(ctx context.Context, tenantID, attachmentID uuid.UUID, req UpdateDescriptionRequest) (*AttachmentResponse, error) {
	record, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	if err := record.SetDescription(req.Description); err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	response := ToAttachmentResponse(record)
	return &response, nil
}

// Delete removes the metadata and the stored object. A storage failure
// after the metadata is gone leaves an orphaned object, which the cleanup
// job sweeps later.
func (s *AttachmentService) Delete(ctx context.Context, tenantID, attachmentID, deletedBy uuid.UUID) error {
	record, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to find attachment: %w", err)
	}

	record.MarkDeleted(deletedBy)
	if err := s.attachmentRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	s.publishDomainEvents(ctx, record)

	if err := s.storageService.DeleteObject(ctx, record.StorageKey); err != nil {
		return shared.NewDomainError("STORAGE_DELETE_FAILED", "Attachment metadata was removed but the stored file could not be deleted")
	}
	return nil
}

func (s *AttachmentService) ensureStorageQuota(ctx context.Context, tenantID uuid.UUID, incoming int64) error {
	plan, _ := billing.PlanByCode(billing.PlanFree)

	subscription, err := s.subscriptionRepo.FindByTenantID(ctx, tenantID)
	switch {
	case err == nil:
		if !subscription.GrantsAccess() {
			return shared.NewDomainError("SUBSCRIPTION_CANCELED", "The subscription for this tenant has been canceled")
		}
		plan = subscription.Plan()
	case errors.Is(err, shared.ErrNotFound):
		// fall through with the free plan
	default:
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	used, err := s.attachmentRepo.TotalSizeForTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to compute storage usage: %w", err)
	}
	if !plan.AllowsStorage(used + incoming) {
		return shared.NewDomainError("PLAN_LIMIT_REACHED",
			fmt.Sprintf("The %s plan allows %d bytes of attachment storage", plan.Name, plan.MaxStorageBytes))
	}
	return nil
}

func (s *AttachmentService) publishDomainEvents(ctx context.Context, record *attachment.Attachment) {
	if s.eventPublisher == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}
