package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// MockCompanyRepository is a mock implementation of identity.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Company, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]identity.Company, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]identity.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

func createCompanyService(companyRepo *MockCompanyRepository, tenantRepo *MockTenantRepository) *CompanyService {
	return NewCompanyService(companyRepo, tenantRepo, zap.NewNop())
}

func createTestCompany(tenantID uuid.UUID) *identity.Company {
	company, _ := identity.NewCompany(tenantID, "Acme Books", valueobject.Currency("USD"))
	return company
}

func TestCompanyService_Create_Success(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant()
	tenant.Config.MaxCompanies = 3

	companyRepo.On("ExistsByName", ctx, tenant.ID, "Acme Books").Return(false, nil)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	companyRepo.On("Count", ctx, tenant.ID).Return(int64(1), nil)
	companyRepo.On("Save", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	service := createCompanyService(companyRepo, tenantRepo)

	result, err := service.Create(ctx, CreateCompanyInput{
		TenantID:     tenant.ID,
		Name:         "Acme Books",
		LegalName:    "Acme Books LLC",
		BaseCurrency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Books", result.Name)
	assert.Equal(t, "Acme Books LLC", result.LegalName)
	assert.Equal(t, "USD", result.BaseCurrency)
	assert.Equal(t, "active", result.Status)
	companyRepo.AssertExpectations(t)
	tenantRepo.AssertExpectations(t)
}

func TestCompanyService_Create_NameExists(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	companyRepo.On("ExistsByName", ctx, tenantID, "Acme Books").Return(true, nil)

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.Create(ctx, CreateCompanyInput{
		TenantID:     tenantID,
		Name:         "Acme Books",
		BaseCurrency: "USD",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NAME_EXISTS", domainErr.Code)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_Create_CompanyLimitReached(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant()
	tenant.Config.MaxCompanies = 1

	companyRepo.On("ExistsByName", ctx, tenant.ID, "Second Books").Return(false, nil)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	companyRepo.On("Count", ctx, tenant.ID).Return(int64(1), nil)

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.Create(ctx, CreateCompanyInput{
		TenantID:     tenant.ID,
		Name:         "Second Books",
		BaseCurrency: "USD",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "COMPANY_LIMIT_REACHED", domainErr.Code)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_Create_TenantNotFound(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	companyRepo.On("ExistsByName", ctx, tenantID, "Orphan Co").Return(false, nil)
	tenantRepo.On("FindByID", ctx, tenantID).Return(nil, shared.ErrNotFound)

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.Create(ctx, CreateCompanyInput{
		TenantID:     tenantID,
		Name:         "Orphan Co",
		BaseCurrency: "USD",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TENANT_NOT_FOUND", domainErr.Code)
}

func TestCompanyService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	companyID := uuid.New()
	companyRepo.On("FindByID", ctx, tenantID, companyID).Return(nil, shared.ErrNotFound)

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.GetByID(ctx, tenantID, companyID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "COMPANY_NOT_FOUND", domainErr.Code)
}

func TestCompanyService_Update_Success(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	company := createTestCompany(tenantID)

	newName := "Acme Ledgers"
	fiscalStart := 4

	companyRepo.On("FindByID", ctx, tenantID, company.ID).Return(company, nil)
	companyRepo.On("ExistsByName", ctx, tenantID, newName).Return(false, nil)
	companyRepo.On("Save", ctx, company).Return(nil)

	service := createCompanyService(companyRepo, tenantRepo)

	result, err := service.Update(ctx, tenantID, company.ID, UpdateCompanyInput{
		Name:                 &newName,
		FiscalYearStartMonth: &fiscalStart,
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Ledgers", result.Name)
	assert.Equal(t, 4, result.FiscalYearStartMonth)
	companyRepo.AssertExpectations(t)
}

func TestCompanyService_Update_DuplicateName(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	company := createTestCompany(tenantID)

	newName := "Taken Name"
	companyRepo.On("FindByID", ctx, tenantID, company.ID).Return(company, nil)
	companyRepo.On("ExistsByName", ctx, tenantID, newName).Return(true, nil)

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.Update(ctx, tenantID, company.ID, UpdateCompanyInput{Name: &newName})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NAME_EXISTS", domainErr.Code)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_Archive_And_Restore(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	company := createTestCompany(tenantID)

	companyRepo.On("FindByID", ctx, tenantID, company.ID).Return(company, nil)
	companyRepo.On("Save", ctx, company).Return(nil)

	service := createCompanyService(companyRepo, tenantRepo)

	archived, err := service.Archive(ctx, tenantID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", archived.Status)

	restored, err := service.Restore(ctx, tenantID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", restored.Status)
}

func TestCompanyService_Delete_RequiresArchive(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	company := createTestCompany(tenantID)

	companyRepo.On("FindByID", ctx, tenantID, company.ID).Return(company, nil)

	service := createCompanyService(companyRepo, tenantRepo)

	err := service.Delete(ctx, tenantID, company.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "COMPANY_ACTIVE", domainErr.Code)
	companyRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompanyService_Delete_Archived(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	company := createTestCompany(tenantID)
	require.NoError(t, company.Archive())

	companyRepo.On("FindByID", ctx, tenantID, company.ID).Return(company, nil)
	companyRepo.On("Delete", ctx, tenantID, company.ID).Return(nil)

	service := createCompanyService(companyRepo, tenantRepo)

	err := service.Delete(ctx, tenantID, company.ID)

	require.NoError(t, err)
	companyRepo.AssertExpectations(t)
}

func TestCompanyService_List_Paginates(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	companies := []identity.Company{*createTestCompany(tenantID)}

	companyRepo.On("FindAll", ctx, tenantID, mock.AnythingOfType("shared.Filter")).Return(companies, int64(41), nil)

	service := createCompanyService(companyRepo, tenantRepo)

	result, err := service.List(ctx, tenantID, CompanyFilter{Page: 2, PageSize: 20})

	require.NoError(t, err)
	assert.Len(t, result.Companies, 1)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.TotalPages)
}

func TestCompanyService_ListActive(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenantID := uuid.New()
	companies := []identity.Company{*createTestCompany(tenantID), *createTestCompany(tenantID)}

	companyRepo.On("FindActive", ctx, tenantID).Return(companies, nil)

	service := createCompanyService(companyRepo, tenantRepo)

	result, err := service.ListActive(ctx, tenantID)

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestCompanyService_Create_CountError(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant()
	tenant.Config.MaxCompanies = 3

	companyRepo.On("ExistsByName", ctx, tenant.ID, "Acme Books").Return(false, nil)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	companyRepo.On("Count", ctx, tenant.ID).Return(int64(0), errors.New("db unavailable"))

	service := createCompanyService(companyRepo, tenantRepo)

	_, err := service.Create(ctx, CreateCompanyInput{
		TenantID:     tenant.ID,
		Name:         "Acme Books",
		BaseCurrency: "USD",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}
