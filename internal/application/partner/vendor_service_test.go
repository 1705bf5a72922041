package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
)

func newTestVendor(t *testing.T, tenantID, companyID uuid.UUID) *partner.Vendor {
	t.Helper()
	vendor, err := partner.NewVendor(tenantID, companyID, "VEND-001", "Office Supply Co")
	assert.NoError(t, err)
	vendor.ClearDomainEvents()
	return vendor
}

func TestVendorService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("successful creation with bank info", func(t *testing.T) {
		repo := new(MockVendorRepository)
		service := NewVendorService(repo)

		repo.On("ExistsByCode", ctx, companyID, "VEND-001").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Vendor")).Return(nil)

		expenseAccountID := uuid.New()
		resp, err := service.Create(ctx, tenantID, companyID, CreateVendorRequest{
			Code:                    "VEND-001",
			Name:                    "Office Supply Co",
			BankName:                "First National",
			BankAccount:             "9900112233",
			DefaultExpenseAccountID: &expenseAccountID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "VEND-001", resp.Code)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "First National", resp.BankName)
		assert.Equal(t, &expenseAccountID, resp.DefaultExpenseAccountID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		repo := new(MockVendorRepository)
		service := NewVendorService(repo)

		repo.On("ExistsByCode", ctx, companyID, "VEND-001").Return(true, nil)

		_, err := service.Create(ctx, tenantID, companyID, CreateVendorRequest{
			Code: "VEND-001",
			Name: "Office Supply Co",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "code already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestVendorService_Block(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("active vendor can be blocked", func(t *testing.T) {
		repo := new(MockVendorRepository)
		service := NewVendorService(repo)

		vendor := newTestVendor(t, tenantID, companyID)
		repo.On("FindByIDForTenant", ctx, tenantID, vendor.ID).Return(vendor, nil)
		repo.On("SaveWithLock", ctx, vendor).Return(nil)

		resp, err := service.Block(ctx, tenantID, companyID, vendor.ID)

		assert.NoError(t, err)
		assert.Equal(t, "blocked", resp.Status)
	})

	t.Run("vendor from another company is invisible", func(t *testing.T) {
		repo := new(MockVendorRepository)
		service := NewVendorService(repo)

		vendor := newTestVendor(t, tenantID, uuid.New())
		repo.On("FindByIDForTenant", ctx, tenantID, vendor.ID).Return(vendor, nil)

		_, err := service.Block(ctx, tenantID, companyID, vendor.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestVendorService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("payment terms update", func(t *testing.T) {
		repo := new(MockVendorRepository)
		service := NewVendorService(repo)

		vendor := newTestVendor(t, tenantID, companyID)
		repo.On("FindByIDForTenant", ctx, tenantID, vendor.ID).Return(vendor, nil)
		repo.On("SaveWithLock", ctx, vendor).Return(nil)

		terms := 60
		resp, err := service.Update(ctx, tenantID, companyID, vendor.ID, UpdateVendorRequest{PaymentTermsDays: &terms})

		assert.NoError(t, err)
		assert.Equal(t, 60, resp.PaymentTermsDays)
	})
}
