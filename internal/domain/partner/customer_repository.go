package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Customer, error)

	// FindByEmail finds a customer by email within a company
	FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Customer, error)

	// FindAllForCompany finds all customers for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindByStatus finds customers by status for a company
	FindByStatus(ctx context.Context, companyID uuid.UUID, status CustomerStatus, filter shared.Filter) ([]Customer, error)

	// FindActive finds all active customers for a company
	FindActive(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindByIDs finds multiple customers by their IDs
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves a customer with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, customer *Customer) error

	// Delete deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForCompany counts customers for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts customers by status for a company
	CountByStatus(ctx context.Context, companyID uuid.UUID, status CustomerStatus) (int64, error)

	// ExistsByCode checks if a customer with the given code exists in the company
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)

	// ExistsByEmail checks if a customer with the given email exists in the company
	ExistsByEmail(ctx context.Context, companyID uuid.UUID, email string) (bool, error)
}
