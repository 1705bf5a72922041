package partner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

func TestNewVendor(t *testing.T) {
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("creates vendor successfully", func(t *testing.T) {
		vendor, err := NewVendor(tenantID, companyID, "vend-001", "Office Depot")

		require.NoError(t, err)
		assert.Equal(t, tenantID, vendor.TenantID)
		assert.Equal(t, companyID, vendor.CompanyID)
		assert.Equal(t, "VEND-001", vendor.Code)
		assert.Equal(t, "Office Depot", vendor.Name)
		assert.Equal(t, VendorStatusActive, vendor.Status)
		assert.Equal(t, valueobject.USD, vendor.Currency)
		assert.Equal(t, 30, vendor.PaymentTermsDays)
		assert.Nil(t, vendor.DefaultExpenseAccountID)
		assert.Len(t, vendor.GetDomainEvents(), 1)
	})

	t.Run("fails with empty company ID", func(t *testing.T) {
		_, err := NewVendor(tenantID, uuid.Nil, "VEND-001", "Office Depot")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Company ID cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewVendor(tenantID, companyID, "VEND-001", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestVendor_SetPaymentTerms(t *testing.T) {
	t.Run("sets net days", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")

		err := vendor.SetPaymentTerms(60)

		require.NoError(t, err)
		assert.Equal(t, 60, vendor.PaymentTermsDays)
	})

	t.Run("fails out of range", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")

		err := vendor.SetPaymentTerms(400)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 365")
	})
}

func TestVendor_SetBankInfo(t *testing.T) {
	t.Run("sets remittance details", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")

		err := vendor.SetBankInfo("First National", "000123456789")

		require.NoError(t, err)
		assert.True(t, vendor.HasBankInfo())
	})

	t.Run("no bank info by default", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")

		assert.False(t, vendor.HasBankInfo())
	})
}

func TestVendor_SetDefaultExpenseAccount(t *testing.T) {
	vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")
	accountID := uuid.New()

	vendor.SetDefaultExpenseAccount(&accountID)

	require.NotNil(t, vendor.DefaultExpenseAccountID)
	assert.Equal(t, accountID, *vendor.DefaultExpenseAccountID)
}

func TestVendor_DueDateFor(t *testing.T) {
	vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")
	require.NoError(t, vendor.SetPaymentTerms(10))

	billDate := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC), vendor.DueDateFor(billDate))
}

func TestVendor_StatusTransitions(t *testing.T) {
	t.Run("blocks vendor", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")
		vendor.ClearDomainEvents()

		err := vendor.Block()

		require.NoError(t, err)
		assert.True(t, vendor.IsBlocked())
		assert.Len(t, vendor.GetDomainEvents(), 1)
	})

	t.Run("cannot block twice", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")
		require.NoError(t, vendor.Block())

		err := vendor.Block()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already blocked")
	})

	t.Run("reactivates blocked vendor", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")
		require.NoError(t, vendor.Block())

		err := vendor.Activate()

		require.NoError(t, err)
		assert.True(t, vendor.IsActive())
	})

	t.Run("deactivates vendor", func(t *testing.T) {
		vendor, _ := NewVendor(uuid.New(), uuid.New(), "VEND-001", "Office Depot")

		err := vendor.Deactivate()

		require.NoError(t, err)
		assert.False(t, vendor.IsActive())
	})
}
