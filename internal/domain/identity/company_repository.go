package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by ID within the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)

	// FindAll finds all companies for the tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Company, int64, error)

	// FindActive finds all active companies for the tenant
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// Delete deletes a company
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts companies for the tenant
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// ExistsByName checks if a company with the given name exists in the tenant
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
}
