package tax

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/tax"
)

type MockTaxRateRepository struct {
	mock.Mock
}

func (m *MockTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tax.TaxRate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*tax.TaxRate, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*tax.TaxRate, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindUsableOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*tax.TaxRate, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*tax.TaxRate, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxRateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaxRateRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
