package attachment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/attachment"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
)

type attachmentServiceFixture struct {
	service       *AttachmentService
	attachments   *MockAttachmentRepository
	subscriptions *MockSubscriptionRepository
	storage       *MockObjectStorageService
}

func newAttachmentFixture() *attachmentServiceFixture {
	attachments := new(MockAttachmentRepository)
	subscriptions := new(MockSubscriptionRepository)
	storage := new(MockObjectStorageService)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &attachmentServiceFixture{
		service:       NewAttachmentService(attachments, subscriptions, storage, publisher),
		attachments:   attachments,
		subscriptions: subscriptions,
		storage:       storage,
	}
}

func newStoredAttachment(t *testing.T, tenantID uuid.UUID) *attachment.Attachment {
	t.Helper()
	record, err := attachment.NewAttachment(
		tenantID, attachment.OwnerTypeInvoice, uuid.New(),
		"receipt.pdf", "application/pdf", 128*1024, uuid.New(),
	)
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func activeSubscription(t *testing.T, tenantID uuid.UUID, plan billing.PlanCode) *billing.Subscription {
	t.Helper()
	sub, err := billing.NewSubscription(tenantID, plan, time.Now())
	require.NoError(t, err)
	sub.ClearDomainEvents()
	return sub
}

func TestAttachmentService_InitiateUpload(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	invoiceID := uuid.New()

	t.Run("stores metadata and returns a presigned URL", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachments.On("CountByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, invoiceID).
			Return(int64(2), nil)
		f.subscriptions.On("FindByTenantID", ctx, tenantID).
			Return(activeSubscription(t, tenantID, billing.PlanStandard), nil)
		f.attachments.On("TotalSizeForTenant", ctx, tenantID).Return(int64(1<<20), nil)
		f.attachments.On("Save", ctx, mock.AnythingOfType("*attachment.Attachment")).Return(nil)
		expiresAt := time.Now().Add(15 * time.Minute)
		f.storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "application/pdf", 15*time.Minute).
			Return("https://storage.example.com/put", expiresAt, nil)

		resp, err := f.service.InitiateUpload(ctx, tenantID, InitiateUploadRequest{
			OwnerType:   "invoice",
			OwnerID:     invoiceID,
			FileName:    "receipt.pdf",
			ContentType: "application/pdf",
			Size:        256 * 1024,
			UploadedBy:  &userID,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/put", resp.UploadURL)
		assert.Equal(t, "receipt.pdf", resp.Attachment.FileName)
		assert.Equal(t, "invoice", resp.Attachment.OwnerType)
		assert.NotEqual(t, uuid.Nil, resp.Attachment.ID)
		f.attachments.AssertExpectations(t)
	})

	t.Run("rejects uploads past the storage quota", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachments.On("CountByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, invoiceID).
			Return(int64(0), nil)
		f.subscriptions.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		// free plan caps storage at 1 GiB
		f.attachments.On("TotalSizeForTenant", ctx, tenantID).Return(int64(1<<30), nil)

		_, err := f.service.InitiateUpload(ctx, tenantID, InitiateUploadRequest{
			OwnerType:   "invoice",
			OwnerID:     invoiceID,
			FileName:    "receipt.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			UploadedBy:  &userID,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "attachment storage")
		f.attachments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachments.On("CountByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, invoiceID).
			Return(int64(0), nil)
		f.subscriptions.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		f.attachments.On("TotalSizeForTenant", ctx, tenantID).Return(int64(0), nil)

		_, err := f.service.InitiateUpload(ctx, tenantID, InitiateUploadRequest{
			OwnerType:   "invoice",
			OwnerID:     invoiceID,
			FileName:    "malware.exe",
			ContentType: "application/x-msdownload",
			Size:        1024,
			UploadedBy:  &userID,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("rejects the 51st attachment on a document", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachments.On("CountByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, invoiceID).
			Return(int64(50), nil)

		_, err := f.service.InitiateUpload(ctx, tenantID, InitiateUploadRequest{
			OwnerType:   "invoice",
			OwnerID:     invoiceID,
			FileName:    "receipt.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			UploadedBy:  &userID,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 50 attachments")
	})

	t.Run("rolls back metadata when presigning fails", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachments.On("CountByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, invoiceID).
			Return(int64(0), nil)
		f.subscriptions.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		f.attachments.On("TotalSizeForTenant", ctx, tenantID).Return(int64(0), nil)
		f.attachments.On("Save", ctx, mock.AnythingOfType("*attachment.Attachment")).Return(nil)
		f.storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "application/pdf", 15*time.Minute).
			Return("", time.Time{}, assert.AnError)
		f.attachments.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := f.service.InitiateUpload(ctx, tenantID, InitiateUploadRequest{
			OwnerType:   "invoice",
			OwnerID:     invoiceID,
			FileName:    "receipt.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			UploadedBy:  &userID,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload URL")
		f.attachments.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
	})
}

func TestAttachmentService_GetDownloadURL(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns a presigned GET URL", func(t *testing.T) {
		f := newAttachmentFixture()
		record := newStoredAttachment(t, tenantID)
		f.attachments.On("FindByIDForTenant", ctx, tenantID, record.ID).Return(record, nil)
		f.storage.On("ObjectExists", ctx, record.StorageKey).Return(true, nil)
		expiresAt := time.Now().Add(time.Hour)
		f.storage.On("GenerateDownloadURL", ctx, record.StorageKey, time.Hour).
			Return("https://storage.example.com/get", expiresAt, nil)

		resp, err := f.service.GetDownloadURL(ctx, tenantID, record.ID)

		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/get", resp.DownloadURL)
		assert.Equal(t, "receipt.pdf", resp.FileName)
	})

	t.Run("rejects when the file was never uploaded", func(t *testing.T) {
		f := newAttachmentFixture()
		record := newStoredAttachment(t, tenantID)
		f.attachments.On("FindByIDForTenant", ctx, tenantID, record.ID).Return(record, nil)
		f.storage.On("ObjectExists", ctx, record.StorageKey).Return(false, nil)

		_, err := f.service.GetDownloadURL(ctx, tenantID, record.ID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not been uploaded")
		f.storage.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("removes metadata and the stored object", func(t *testing.T) {
		f := newAttachmentFixture()
		record := newStoredAttachment(t, tenantID)
		f.attachments.On("FindByIDForTenant", ctx, tenantID, record.ID).Return(record, nil)
		f.attachments.On("Delete", ctx, record.ID).Return(nil)
		f.storage.On("DeleteObject", ctx, record.StorageKey).Return(nil)

		err := f.service.Delete(ctx, tenantID, record.ID, uuid.New())
		require.NoError(t, err)
		f.storage.AssertExpectations(t)
	})

	t.Run("missing attachment maps to not found", func(t *testing.T) {
		f := newAttachmentFixture()
		missing := uuid.New()
		f.attachments.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		err := f.service.Delete(ctx, tenantID, missing, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAttachmentService_ListByOwner(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("rejects unknown owner types", func(t *testing.T) {
		f := newAttachmentFixture()

		_, err := f.service.ListByOwner(ctx, tenantID, "journal_entry", uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid")
	})

	t.Run("returns the owner's attachments", func(t *testing.T) {
		f := newAttachmentFixture()
		record := newStoredAttachment(t, tenantID)
		f.attachments.On("FindByOwner", ctx, tenantID, attachment.OwnerTypeInvoice, record.OwnerID).
			Return([]*attachment.Attachment{record}, nil)

		responses, err := f.service.ListByOwner(ctx, tenantID, "invoice", record.OwnerID)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, record.ID, responses[0].ID)
	})
}
