package tax

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// TaxRateRepository defines the persistence interface for tax rates
type TaxRateRepository interface {
	Save(ctx context.Context, rate *TaxRate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaxRate, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TaxRate, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*TaxRate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*TaxRate, error)
	FindUsableOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*TaxRate, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*TaxRate, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
