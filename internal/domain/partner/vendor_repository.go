package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// FindByID finds a vendor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)

	// FindByIDForTenant finds a vendor by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)

	// FindByCode finds a vendor by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Vendor, error)

	// FindAllForCompany finds all vendors for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// FindByStatus finds vendors by status for a company
	FindByStatus(ctx context.Context, companyID uuid.UUID, status VendorStatus, filter shared.Filter) ([]Vendor, error)

	// FindActive finds all active vendors for a company
	FindActive(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// FindByIDs finds multiple vendors by their IDs
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Vendor, error)

	// Save creates or updates a vendor
	Save(ctx context.Context, vendor *Vendor) error

	// SaveWithLock saves a vendor with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, vendor *Vendor) error

	// Delete deletes a vendor
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForCompany counts vendors for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a vendor with the given code exists in the company
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
}
