package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage defines the interface for storing and retrieving rendered PDFs
type PDFStorage interface {
	// Store saves a PDF and returns its storage key and download URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// DownloadURL returns a fresh presigned URL for a stored PDF
	DownloadURL(ctx context.Context, storageKey string) (string, error)
	// Delete removes a stored PDF
	Delete(ctx context.Context, storageKey string) error
	// Exists reports whether a PDF is present in storage
	Exists(ctx context.Context, storageKey string) (bool, error)
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// TenantID for multi-tenant isolation
	TenantID uuid.UUID
	// JobID is the print job identifier
	JobID uuid.UUID
	// PDFData is the raw PDF content
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// StorageKey is the object key within the bucket
	StorageKey string
	// URL is a presigned download URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// ObjectStore is the subset of the object storage client used for PDFs.
// Implemented by storage.S3ObjectStorage.
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// S3PDFStorageConfig contains configuration for S3-backed PDF storage
type S3PDFStorageConfig struct {
	// KeyPrefix is prepended to all object keys
	// Default: prints
	KeyPrefix string
	// URLExpiration is the lifetime of generated download URLs
	// Default: 1 hour
	URLExpiration time.Duration
	// Logger for operations
	Logger *zap.Logger
}

// S3PDFStorage stores rendered PDFs in S3-compatible object storage.
// Keys follow prints/{tenant_id}/{year}/{month}/{job_id}.pdf so tenant
// data stays grouped and lifecycle rules can expire by prefix.
type S3PDFStorage struct {
	store  ObjectStore
	config *S3PDFStorageConfig
	logger *zap.Logger
}

// NewS3PDFStorage creates an S3-backed PDF storage
func NewS3PDFStorage(store ObjectStore, config *S3PDFStorageConfig) (*S3PDFStorage, error) {
	if store == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "object store is required", nil)
	}
	if config == nil {
		config = &S3PDFStorageConfig{}
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "prints"
	}
	if config.URLExpiration <= 0 {
		config.URLExpiration = time.Hour
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3PDFStorage{
		store:  store,
		config: config,
		logger: logger,
	}, nil
}

// Store uploads a PDF to object storage
func (s *S3PDFStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.TenantID == uuid.Nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "tenant ID is required", nil)
	}
	if req.JobID == uuid.Nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "job ID is required", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	storageKey := s.buildKey(req.TenantID, req.JobID, time.Now())

	if err := s.store.Upload(ctx, storageKey, req.PDFData, "application/pdf"); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	url, _, err := s.store.GenerateDownloadURL(ctx, storageKey, s.config.URLExpiration)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to generate download URL", err)
	}

	s.logger.Info("PDF stored",
		zap.String("storageKey", storageKey),
		zap.Int("size", len(req.PDFData)))

	return &StoreResult{
		StorageKey: storageKey,
		URL:        url,
		Size:       int64(len(req.PDFData)),
	}, nil
}

// DownloadURL returns a fresh presigned URL for a stored PDF
func (s *S3PDFStorage) DownloadURL(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", NewRenderError(ErrCodeStorageFailed, "storage key is required", nil)
	}

	url, _, err := s.store.GenerateDownloadURL(ctx, storageKey, s.config.URLExpiration)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to generate download URL", err)
	}
	return url, nil
}

// Delete removes a stored PDF
func (s *S3PDFStorage) Delete(ctx context.Context, storageKey string) error {
	select {
	case <-ctx.Done():
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if storageKey == "" {
		return NewRenderError(ErrCodeStorageFailed, "storage key is required", nil)
	}

	if err := s.store.DeleteObject(ctx, storageKey); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF", err)
	}

	s.logger.Info("PDF deleted", zap.String("storageKey", storageKey))
	return nil
}

// Exists reports whether a PDF is present in storage
func (s *S3PDFStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, NewRenderError(ErrCodeStorageFailed, "storage key is required", nil)
	}

	exists, err := s.store.ObjectExists(ctx, storageKey)
	if err != nil {
		return false, NewRenderError(ErrCodeStorageFailed, "failed to check PDF existence", err)
	}
	return exists, nil
}

// buildKey builds the object key: {prefix}/{tenant_id}/{year}/{month}/{job_id}.pdf
func (s *S3PDFStorage) buildKey(tenantID, jobID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d/%02d/%s.pdf",
		s.config.KeyPrefix,
		tenantID.String(),
		now.Year(),
		now.Month(),
		jobID.String(),
	)
}

// Ensure S3PDFStorage implements PDFStorage
var _ PDFStorage = (*S3PDFStorage)(nil)
