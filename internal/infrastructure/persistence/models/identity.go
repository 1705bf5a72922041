package models

import (
	"time"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Username           string              `gorm:"type:varchar(100);not null"`
	Email              string              `gorm:"type:varchar(200)"`
	Phone              string              `gorm:"type:varchar(50)"`
	PasswordHash       string              `gorm:"type:varchar(255);not null"`
	DisplayName        string              `gorm:"type:varchar(200)"`
	Avatar             string              `gorm:"type:varchar(500)"`
	Status             identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	LastLoginAt        *time.Time          `gorm:"index"`
	LastLoginIP        string              `gorm:"type:varchar(45)"`
	FailedAttempts     int                 `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool   `gorm:"not null;default:false"`
	Notes              string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Note: RoleIDs must be loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		DisplayName:        m.DisplayName,
		Avatar:             m.Avatar,
		Status:             m.Status,
		RoleIDs:            make([]uuid.UUID, 0), // Loaded separately
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
		Notes:              m.Notes,
	}
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Avatar = u.Avatar
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.MustChangePassword = u.MustChangePassword
	m.Notes = u.Notes
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for the UserRole relationship.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain UserRole.
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		TenantID:  m.TenantID,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain UserRole.
func (m *UserRoleModel) FromDomain(ur identity.UserRole) {
	m.UserID = ur.UserID
	m.RoleID = ur.RoleID
	m.TenantID = ur.TenantID
	m.CreatedAt = ur.CreatedAt
}

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	ShortName    string                `gorm:"type:varchar(100)"`
	Status       identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         identity.TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName  string                `gorm:"type:varchar(100)"`
	ContactPhone string                `gorm:"type:varchar(50)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	Address      string                `gorm:"type:text"`
	LogoURL      string                `gorm:"type:varchar(500)"`
	Domain       string                `gorm:"type:varchar(200);uniqueIndex"`
	ExpiresAt    *time.Time            `gorm:"index"`
	TrialEndsAt  *time.Time
	// Embedded config fields
	ConfigMaxUsers             int    `gorm:"column:config_max_users;not null;default:3"`
	ConfigMaxCompanies         int    `gorm:"column:config_max_companies;not null;default:1"`
	ConfigMaxMonthlyInvoices   int    `gorm:"column:config_max_monthly_invoices;not null;default:20"`
	ConfigFeatures             string `gorm:"column:config_features;type:jsonb;default:'{}'"`
	ConfigSettings             string `gorm:"column:config_settings;type:jsonb;default:'{}'"`
	ConfigFiscalYearStartMonth int    `gorm:"column:config_fiscal_year_start_month;not null;default:1"`
	ConfigCurrency             string `gorm:"column:config_currency;type:varchar(10);default:'USD'"`
	ConfigTimezone             string `gorm:"column:config_timezone;type:varchar(50);default:'America/New_York'"`
	ConfigLocale               string `gorm:"column:config_locale;type:varchar(20);default:'en-US'"`
	Notes                      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:         m.Code,
		Name:         m.Name,
		ShortName:    m.ShortName,
		Status:       m.Status,
		Plan:         m.Plan,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
		LogoURL:      m.LogoURL,
		Domain:       m.Domain,
		ExpiresAt:    m.ExpiresAt,
		TrialEndsAt:  m.TrialEndsAt,
		Config: identity.TenantConfig{
			MaxUsers:             m.ConfigMaxUsers,
			MaxCompanies:         m.ConfigMaxCompanies,
			MaxMonthlyInvoices:   m.ConfigMaxMonthlyInvoices,
			Features:             m.ConfigFeatures,
			Settings:             m.ConfigSettings,
			FiscalYearStartMonth: m.ConfigFiscalYearStartMonth,
			Currency:             m.ConfigCurrency,
			Timezone:             m.ConfigTimezone,
			Locale:               m.ConfigLocale,
		},
		Notes: m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.ShortName = t.ShortName
	m.Status = t.Status
	m.Plan = t.Plan
	m.ContactName = t.ContactName
	m.ContactPhone = t.ContactPhone
	m.ContactEmail = t.ContactEmail
	m.Address = t.Address
	m.LogoURL = t.LogoURL
	m.Domain = t.Domain
	m.ExpiresAt = t.ExpiresAt
	m.TrialEndsAt = t.TrialEndsAt
	m.ConfigMaxUsers = t.Config.MaxUsers
	m.ConfigMaxCompanies = t.Config.MaxCompanies
	m.ConfigMaxMonthlyInvoices = t.Config.MaxMonthlyInvoices
	m.ConfigFeatures = t.Config.Features
	m.ConfigSettings = t.Config.Settings
	m.ConfigFiscalYearStartMonth = t.Config.FiscalYearStartMonth
	m.ConfigCurrency = t.Config.Currency
	m.ConfigTimezone = t.Config.Timezone
	m.ConfigLocale = t.Config.Locale
	m.Notes = t.Notes
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	TenantAggregateModel
	Code         string `gorm:"type:varchar(50);not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsEnabled    bool   `gorm:"not null;default:true"`
	SortOrder    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
// Note: Permissions and DataScopes must be loaded separately by the repository.
func (m *RoleModel) ToDomain() *identity.Role {
	return &identity.Role{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		IsSystemRole: m.IsSystemRole,
		IsEnabled:    m.IsEnabled,
		SortOrder:    m.SortOrder,
		Permissions:  make([]identity.Permission, 0),
		DataScopes:   make([]identity.DataScope, 0),
	}
}

// FromDomain populates the persistence model from a domain Role entity.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Code = r.Code
	m.Name = r.Name
	m.Description = r.Description
	m.IsSystemRole = r.IsSystemRole
	m.IsEnabled = r.IsEnabled
	m.SortOrder = r.SortOrder
}

// RoleModelFromDomain creates a new persistence model from a domain Role entity.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{}
	m.FromDomain(r)
	return m
}

// RolePermissionModel is the persistence model for role permissions.
type RolePermissionModel struct {
	RoleID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(100);primaryKey"`
	Resource    string    `gorm:"type:varchar(50);not null;index"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:varchar(200)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// ToDomain converts the persistence model to a domain Permission.
func (m *RolePermissionModel) ToDomain() identity.Permission {
	return identity.Permission{
		Code:        m.Code,
		Resource:    m.Resource,
		Action:      m.Action,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Permission.
func (m *RolePermissionModel) FromDomain(roleID, tenantID uuid.UUID, p identity.Permission) {
	m.RoleID = roleID
	m.TenantID = tenantID
	m.Code = p.Code
	m.Resource = p.Resource
	m.Action = p.Action
	m.Description = p.Description
	m.CreatedAt = time.Now()
}

// RoleDataScopeModel is the persistence model for role data scopes.
type RoleDataScopeModel struct {
	RoleID      uuid.UUID              `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Resource    string                 `gorm:"type:varchar(50);primaryKey"`
	ScopeType   identity.DataScopeType `gorm:"type:varchar(20);not null"`
	ScopeField  string                 `gorm:"type:varchar(50)"`
	ScopeValues string                 `gorm:"type:text"` // JSON array
	Description string                 `gorm:"type:varchar(200)"`
	CreatedAt   time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RoleDataScopeModel) TableName() string {
	return "role_data_scopes"
}

// ToDomain converts the persistence model to a domain DataScope.
// Note: ScopeValues JSON parsing must be handled by the repository.
func (m *RoleDataScopeModel) ToDomain() identity.DataScope {
	return identity.DataScope{
		Resource:    m.Resource,
		ScopeType:   m.ScopeType,
		ScopeField:  m.ScopeField,
		ScopeValues: make([]string, 0), // Parsed from JSON by repository
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain DataScope.
// Note: ScopeValues must be JSON-encoded by the repository.
func (m *RoleDataScopeModel) FromDomain(roleID, tenantID uuid.UUID, ds identity.DataScope, scopeValuesJSON string) {
	m.RoleID = roleID
	m.TenantID = tenantID
	m.Resource = ds.Resource
	m.ScopeType = ds.ScopeType
	m.ScopeField = ds.ScopeField
	m.ScopeValues = scopeValuesJSON
	m.Description = ds.Description
	m.CreatedAt = time.Now()
}

// CompanyModel is the persistence model for the Company aggregate.
type CompanyModel struct {
	TenantAggregateModel
	Name                 string                 `gorm:"type:varchar(200);not null;uniqueIndex:idx_company_tenant_name,priority:2"`
	LegalName            string                 `gorm:"type:varchar(300)"`
	TaxID                string                 `gorm:"type:varchar(50)"`
	BaseCurrency         valueobject.Currency   `gorm:"type:varchar(10);not null"`
	FiscalYearStartMonth int                    `gorm:"not null;default:1"`
	Address              valueobject.Address    `gorm:"type:jsonb"`
	Status               identity.CompanyStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes                string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company aggregate.
func (m *CompanyModel) ToDomain() *identity.Company {
	company := &identity.Company{
		Name:                 m.Name,
		LegalName:            m.LegalName,
		TaxID:                m.TaxID,
		BaseCurrency:         m.BaseCurrency,
		FiscalYearStartMonth: m.FiscalYearStartMonth,
		Address:              m.Address,
		Status:               m.Status,
		Notes:                m.Notes,
	}
	m.PopulateTenantAggregateRoot(&company.TenantAggregateRoot)
	return company
}

// FromDomain populates the persistence model from a domain Company aggregate.
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.LegalName = c.LegalName
	m.TaxID = c.TaxID
	m.BaseCurrency = c.BaseCurrency
	m.FiscalYearStartMonth = c.FiscalYearStartMonth
	m.Address = c.Address
	m.Status = c.Status
	m.Notes = c.Notes
}

// CompanyModelFromDomain creates a new persistence model from a domain Company aggregate.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}
