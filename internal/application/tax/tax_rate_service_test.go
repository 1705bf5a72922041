package tax

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/tax"
)

func newTestTaxRate(t *testing.T, tenantID uuid.UUID) *tax.TaxRate {
	t.Helper()
	rate, err := tax.NewTaxRate(
		tenantID, "VAT-STD", "Standard VAT",
		decimal.NewFromFloat(8.5), "EU",
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	rate.ClearDomainEvents()
	return rate
}

func newTaxServiceFixture() (*TaxRateService, *MockTaxRateRepository) {
	repo := new(MockTaxRateRepository)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewTaxRateService(repo, publisher), repo
}

func TestTaxRateService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates a rate with description", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		repo.On("ExistsByCode", ctx, tenantID, "GST-CA").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*tax.TaxRate")).Return(nil)

		resp, err := service.Create(ctx, tenantID, CreateTaxRateRequest{
			Code:          "GST-CA",
			Name:          "Canada GST",
			Percentage:    decimal.NewFromFloat(5),
			Jurisdiction:  "CA",
			EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Description:   "Federal goods and services tax",
		})

		require.NoError(t, err)
		assert.Equal(t, "GST-CA", resp.Code)
		assert.Equal(t, "Canada GST", resp.Name)
		assert.True(t, decimal.NewFromFloat(5).Equal(resp.Percentage))
		assert.Equal(t, "Federal goods and services tax", resp.Description)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		repo.On("ExistsByCode", ctx, tenantID, "VAT-STD").Return(true, nil)

		_, err := service.Create(ctx, tenantID, CreateTaxRateRequest{
			Code:          "VAT-STD",
			Name:          "Standard VAT",
			Percentage:    decimal.NewFromFloat(8.5),
			EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a percentage above 100", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		repo.On("ExistsByCode", ctx, tenantID, "BAD").Return(false, nil)

		_, err := service.Create(ctx, tenantID, CreateTaxRateRequest{
			Code:          "BAD",
			Name:          "Broken",
			Percentage:    decimal.NewFromInt(120),
			EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 100")
	})
}

func TestTaxRateService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("updates only the provided fields", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)
		repo.On("Save", ctx, rate).Return(nil)

		newName := "Standard VAT (2026)"
		resp, err := service.Update(ctx, tenantID, rate.ID, UpdateTaxRateRequest{
			Name: &newName,
		})

		require.NoError(t, err)
		assert.Equal(t, "Standard VAT (2026)", resp.Name)
		assert.Equal(t, "EU", resp.Jurisdiction)
		assert.True(t, decimal.NewFromFloat(8.5).Equal(resp.Percentage))
		repo.AssertExpectations(t)
	})
}

func TestTaxRateService_End(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("closes the effective window", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)
		repo.On("Save", ctx, rate).Return(nil)

		end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		resp, err := service.End(ctx, tenantID, rate.ID, EndTaxRateRequest{EffectiveTo: end})

		require.NoError(t, err)
		require.NotNil(t, resp.EffectiveTo)
		assert.True(t, end.Equal(*resp.EffectiveTo))
	})

	t.Run("rejects ending an already ended rate", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		require.NoError(t, rate.EndEffective(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)

		_, err := service.End(ctx, tenantID, rate.ID, EndTaxRateRequest{
			EffectiveTo: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already has an end date")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTaxRateService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("deactivate then activate", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)
		repo.On("Save", ctx, rate).Return(nil)

		resp, err := service.Deactivate(ctx, tenantID, rate.ID)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)

		resp, err = service.Activate(ctx, tenantID, rate.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
	})

	t.Run("double deactivate is rejected", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		require.NoError(t, rate.Deactivate())
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)

		_, err := service.Deactivate(ctx, tenantID, rate.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already inactive")
	})
}

func TestTaxRateService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("deletes an unreferenced rate", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)
		repo.On("IsReferenced", ctx, rate.ID).Return(false, nil)
		repo.On("Delete", ctx, rate.ID).Return(nil)

		err := service.Delete(ctx, tenantID, rate.ID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects deleting a referenced rate", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)
		repo.On("IsReferenced", ctx, rate.ID).Return(true, nil)

		err := service.Delete(ctx, tenantID, rate.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be deleted")
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTaxRateService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("usable-on filter uses the effective window query", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		on := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		repo.On("FindUsableOn", ctx, tenantID, on).Return([]*tax.TaxRate{rate}, nil)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(1), nil)

		responses, total, err := service.List(ctx, tenantID, TaxRateListFilter{UsableOn: &on})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
		assert.Equal(t, "VAT-STD", responses[0].Code)
		repo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unfiltered list pages through all rates", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindAllForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).
			Return([]*tax.TaxRate{rate}, nil)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(1), nil)

		responses, total, err := service.List(ctx, tenantID, TaxRateListFilter{Page: 1, PageSize: 25})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
	})
}

func TestTaxRateService_Preview(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("computes banker's rounded tax", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)

		resp, err := service.Preview(ctx, tenantID, rate.ID, PreviewTaxRequest{
			Amount: decimal.NewFromInt(1000),
			On:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(85).Equal(resp.Tax))
		assert.True(t, decimal.NewFromInt(1085).Equal(resp.Total))
	})

	t.Run("rejects a date outside the effective window", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		rate := newTestTaxRate(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, rate.ID).Return(rate, nil)

		_, err := service.Preview(ctx, tenantID, rate.ID, PreviewTaxRequest{
			Amount: decimal.NewFromInt(1000),
			On:     time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not usable on the given date")
	})
}

func TestTaxRateService_GetByCode(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("missing code maps to not found", func(t *testing.T) {
		service, repo := newTaxServiceFixture()
		repo.On("FindByCode", ctx, tenantID, "MISSING").Return(nil, shared.ErrNotFound)

		_, err := service.GetByCode(ctx, tenantID, "MISSING")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
