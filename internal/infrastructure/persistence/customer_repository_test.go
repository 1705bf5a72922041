package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/partner"
	"github.com/openbooks/backend/internal/domain/shared"
)

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&partner.Customer{})
	require.NoError(t, err)

	return db
}

func newTestCustomer(t *testing.T, companyID uuid.UUID, code, name string) *partner.Customer {
	customer, err := partner.NewCustomer(uuid.New(), companyID, code, name, partner.CustomerTypeOrganization)
	require.NoError(t, err)
	return customer
}

func TestCustomerRepository_SaveAndFindByCode(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	customer := newTestCustomer(t, companyID, "CUST-001", "Globex Corporation")
	require.NoError(t, repo.Save(ctx, customer))

	// Lookup is case-insensitive on the code
	found, err := repo.FindByCode(ctx, companyID, "cust-001")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, found.ID)
	assert.Equal(t, "Globex Corporation", found.Name)
	assert.Equal(t, partner.CustomerStatusActive, found.Status)
}

func TestCustomerRepository_FindByCode_NotFound(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	_, err := repo.FindByCode(ctx, uuid.New(), "MISSING")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerRepository_FindByIDForTenant_WrongTenant(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, uuid.New(), "CUST-001", "Globex Corporation")
	require.NoError(t, repo.Save(ctx, customer))

	_, err := repo.FindByIDForTenant(ctx, uuid.New(), customer.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	found, err := repo.FindByIDForTenant(ctx, customer.TenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, found.ID)
}

func TestCustomerRepository_FindByStatus(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	active := newTestCustomer(t, companyID, "CUST-001", "Active Co")
	inactive := newTestCustomer(t, companyID, "CUST-002", "Dormant Co")
	inactive.Status = partner.CustomerStatusInactive
	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, inactive))

	customers, err := repo.FindActive(ctx, companyID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "CUST-001", customers[0].Code)
}

func TestCustomerRepository_CountAndExists(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestCustomer(t, companyID, "CUST-001", "First")))
	require.NoError(t, repo.Save(ctx, newTestCustomer(t, companyID, "CUST-002", "Second")))

	count, err := repo.CountForCompany(ctx, companyID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	exists, err := repo.ExistsByCode(ctx, companyID, "cust-002")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, companyID, "CUST-099")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCustomerRepository_SaveWithLock_ConcurrentModification(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, uuid.New(), "CUST-001", "Globex Corporation")
	require.NoError(t, repo.Save(ctx, customer))

	// First writer wins and bumps the version
	customer.Name = "Globex International"
	require.NoError(t, repo.SaveWithLock(ctx, customer))

	// Second writer still holds the old version
	stale := *customer
	stale.Version--
	stale.Name = "Globex Stale"
	err := repo.SaveWithLock(ctx, &stale)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
}

func TestCustomerRepository_Delete_NotFound(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	err := repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
