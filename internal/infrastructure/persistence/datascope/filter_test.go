package datascope

import (
	"context"
	"testing"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates filter with empty roles", func(t *testing.T) {
		ctx := context.Background()
		filter := NewFilter(ctx, []identity.Role{})

		assert.NotNil(t, filter)
		assert.Empty(t, filter.dataScopes)
	})

	t.Run("creates filter with user ID from context", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		filter := NewFilter(ctx, []identity.Role{})

		assert.Equal(t, userID, filter.userID)
	})

	t.Run("merges data scopes from multiple roles", func(t *testing.T) {
		ctx := context.Background()

		role1, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role1.SetDataScope(*ds1)

		role2, _ := identity.NewRole(tenantID, "ROLE2", "Role 2")
		ds2, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role2.SetDataScope(*ds2)

		filter := NewFilter(ctx, []identity.Role{*role1, *role2})

		// Should have ALL scope (higher permission wins)
		assert.Equal(t, identity.DataScopeAll, filter.GetScopeType("invoice"))
	})

	t.Run("ignores disabled roles", func(t *testing.T) {
		ctx := context.Background()

		role1, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role1.SetDataScope(*ds1)
		_ = role1.Disable()

		role2, _ := identity.NewRole(tenantID, "ROLE2", "Role 2")
		ds2, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role2.SetDataScope(*ds2)

		filter := NewFilter(ctx, []identity.Role{*role1, *role2})

		// Role1 is disabled, so should use SELF from role2
		assert.Equal(t, identity.DataScopeSelf, filter.GetScopeType("invoice"))
	})
}

func TestFilter_GetScopeType(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns ALL for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		scopeType := filter.GetScopeType("unconfigured_resource")

		assert.Equal(t, identity.DataScopeAll, scopeType)
	})

	t.Run("returns configured scope type", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.Equal(t, identity.DataScopeSelf, filter.GetScopeType("invoice"))
	})
}

func TestFilter_HasScope(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns false for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.False(t, filter.HasScope("unconfigured_resource"))
	})

	t.Run("returns true for configured resource", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.True(t, filter.HasScope("invoice"))
	})
}

func TestFilter_CanAccessAll(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns true for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.True(t, filter.CanAccessAll("unconfigured_resource"))
	})

	t.Run("returns true for ALL scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.True(t, filter.CanAccessAll("invoice"))
	})

	t.Run("returns false for SELF scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.False(t, filter.CanAccessAll("invoice"))
	})
}

func TestFilter_IsOwner(t *testing.T) {
	userID := uuid.New()

	t.Run("returns false for nil createdBy", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		filter := NewFilter(ctx, []identity.Role{})

		assert.False(t, filter.IsOwner(nil))
	})

	t.Run("returns false for nil userID", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})
		createdBy := uuid.New()

		assert.False(t, filter.IsOwner(&createdBy))
	})

	t.Run("returns true when user is owner", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		filter := NewFilter(ctx, []identity.Role{})

		assert.True(t, filter.IsOwner(&userID))
	})

	t.Run("returns false when user is not owner", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		filter := NewFilter(ctx, []identity.Role{})
		otherUser := uuid.New()

		assert.False(t, filter.IsOwner(&otherUser))
	})
}

func TestWithDataScopes(t *testing.T) {
	tenantID := uuid.New()

	t.Run("stores data scopes in context", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		ds2, _ := identity.NewDataScope("bill", identity.DataScopeAll)
		_ = role.SetDataScope(*ds1)
		_ = role.SetDataScope(*ds2)

		ctx = WithDataScopes(ctx, []identity.Role{*role})

		scopes, ok := ctx.Value(ScopesKey).(map[string]identity.DataScope)
		require.True(t, ok)
		assert.Len(t, scopes, 2)
		assert.Equal(t, identity.DataScopeSelf, scopes["invoice"].ScopeType)
		assert.Equal(t, identity.DataScopeAll, scopes["bill"].ScopeType)
	})
}

func TestNewFilterFromContext(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates filter from context scopes", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role.SetDataScope(*ds)

		ctx = WithDataScopes(ctx, []identity.Role{*role})

		filter := NewFilterFromContext(ctx)

		assert.Equal(t, userID, filter.userID)
		assert.Equal(t, identity.DataScopeSelf, filter.GetScopeType("invoice"))
	})

	t.Run("handles missing scopes in context", func(t *testing.T) {
		filter := NewFilterFromContext(context.Background())

		assert.Empty(t, filter.dataScopes)
		assert.Equal(t, identity.DataScopeAll, filter.GetScopeType("any_resource"))
	})
}

func TestCompareScopeLevel(t *testing.T) {
	testCases := []struct {
		name     string
		a        identity.DataScopeType
		b        identity.DataScopeType
		expected int
	}{
		{"ALL > SELF", identity.DataScopeAll, identity.DataScopeSelf, 90},
		{"ALL > COMPANY", identity.DataScopeAll, identity.DataScopeCompany, 50},
		{"COMPANY > SELF", identity.DataScopeCompany, identity.DataScopeSelf, 40},
		{"SELF < ALL", identity.DataScopeSelf, identity.DataScopeAll, -90},
		{"SELF == SELF", identity.DataScopeSelf, identity.DataScopeSelf, 0},
		{"ALL == ALL", identity.DataScopeAll, identity.DataScopeAll, 0},
		{"CUSTOM > SELF", identity.DataScopeCustom, identity.DataScopeSelf, 30},
		{"COMPANY > CUSTOM", identity.DataScopeCompany, identity.DataScopeCustom, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := compareScopeLevel(tc.a, tc.b)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestMergeScopes(t *testing.T) {
	t.Run("merges empty lists", func(t *testing.T) {
		result := MergeScopes()
		assert.Empty(t, result)
	})

	t.Run("merges single list", func(t *testing.T) {
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		ds2, _ := identity.NewDataScope("bill", identity.DataScopeAll)

		result := MergeScopes([]identity.DataScope{*ds1, *ds2})

		assert.Len(t, result, 2)
		assert.Equal(t, identity.DataScopeSelf, result["invoice"].ScopeType)
		assert.Equal(t, identity.DataScopeAll, result["bill"].ScopeType)
	})

	t.Run("merges multiple lists keeping higher permission", func(t *testing.T) {
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		ds2, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		ds3, _ := identity.NewDataScope("bill", identity.DataScopeSelf)

		result := MergeScopes(
			[]identity.DataScope{*ds1},
			[]identity.DataScope{*ds2, *ds3},
		)

		assert.Len(t, result, 2)
		assert.Equal(t, identity.DataScopeAll, result["invoice"].ScopeType)
		assert.Equal(t, identity.DataScopeSelf, result["bill"].ScopeType)
	})

	t.Run("handles overlapping resources correctly", func(t *testing.T) {
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeCompany)
		ds2, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		ds3, _ := identity.NewDataScope("invoice", identity.DataScopeAll)

		result := MergeScopes(
			[]identity.DataScope{*ds1},
			[]identity.DataScope{*ds2},
			[]identity.DataScope{*ds3},
		)

		assert.Len(t, result, 1)
		assert.Equal(t, identity.DataScopeAll, result["invoice"].ScopeType)
	})
}

func TestFilter_GetUserID(t *testing.T) {
	t.Run("returns user ID from context", func(t *testing.T) {
		userID := uuid.New()
		ctx := context.Background()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())

		filter := NewFilter(ctx, []identity.Role{})

		assert.Equal(t, userID, filter.GetUserID())
	})

	t.Run("returns nil UUID for missing user ID", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.Equal(t, uuid.Nil, filter.GetUserID())
	})
}

func TestDataScopeScopeFromContext(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates GORM scope function", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ROLE1", "Role 1")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role.SetDataScope(*ds)

		ctx = WithDataScopes(ctx, []identity.Role{*role})

		scopeFunc := DataScopeScopeFromContext(ctx, "invoice")

		assert.NotNil(t, scopeFunc)
	})
}

func TestFilter_getDefaultScopeField(t *testing.T) {
	filter := &Filter{}

	testCases := []struct {
		resource      string
		expectedField string
	}{
		{"invoice", "company_id"},
		{"bill", "company_id"},
		{"payment", "company_id"},
		{"journal_entry", "company_id"},
		{"account", "company_id"},
		{"period", "company_id"},
		{"report", "company_id"},
		{"customer", "company_id"},
		{"vendor", "company_id"},
		{"user", ""},
		{"unknown_resource", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.resource, func(t *testing.T) {
			field := filter.getDefaultScopeField(tc.resource)
			assert.Equal(t, tc.expectedField, field)
		})
	}
}

func TestFilter_CustomScopeWithField(t *testing.T) {
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("uses custom scope field when specified", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCustomDataScopeWithField("invoice", "company_id", []string{companyID.String()})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		scopeType := filter.GetScopeType("invoice")
		assert.Equal(t, identity.DataScopeCustom, scopeType)
	})

	t.Run("falls back to default field when scope field is empty", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCustomDataScope("invoice", []string{companyID.String()})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		defaultField := filter.getDefaultScopeField("invoice")
		assert.Equal(t, "company_id", defaultField)
	})
}

func TestCustomDataScopeWithField(t *testing.T) {
	t.Run("creates custom scope with field", func(t *testing.T) {
		ds, err := identity.NewCustomDataScopeWithField("invoice", "company_id", []string{"co-1", "co-2"})
		require.NoError(t, err)

		assert.Equal(t, "invoice", ds.Resource)
		assert.Equal(t, identity.DataScopeCustom, ds.ScopeType)
		assert.Equal(t, "company_id", ds.ScopeField)
		assert.Equal(t, []string{"co-1", "co-2"}, ds.ScopeValues)
	})

	t.Run("fails with empty scope field", func(t *testing.T) {
		_, err := identity.NewCustomDataScopeWithField("invoice", "", []string{"co-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Scope field cannot be empty")
	})

	t.Run("fails with empty scope values", func(t *testing.T) {
		_, err := identity.NewCustomDataScopeWithField("invoice", "company_id", []string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one scope value")
	})
}

func TestCompanyDataScope(t *testing.T) {
	t.Run("creates company scope successfully", func(t *testing.T) {
		companyIDs := []string{"co-001", "co-002"}
		ds, err := identity.NewCompanyDataScope("invoice", companyIDs)
		require.NoError(t, err)

		assert.Equal(t, "invoice", ds.Resource)
		assert.Equal(t, identity.DataScopeCompany, ds.ScopeType)
		assert.Equal(t, "company_id", ds.ScopeField)
		assert.Equal(t, companyIDs, ds.ScopeValues)
	})

	t.Run("fails with empty company IDs", func(t *testing.T) {
		_, err := identity.NewCompanyDataScope("invoice", []string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one company ID")
	})

	t.Run("fails with invalid resource", func(t *testing.T) {
		_, err := identity.NewCompanyDataScope("", []string{"co-001"})
		require.Error(t, err)
	})

	t.Run("makes defensive copy of company IDs", func(t *testing.T) {
		companyIDs := []string{"co-001", "co-002"}
		ds, err := identity.NewCompanyDataScope("invoice", companyIDs)
		require.NoError(t, err)

		// Modify original slice
		companyIDs[0] = "modified"

		// DataScope should not be affected
		assert.Equal(t, "co-001", ds.ScopeValues[0])
	})
}

func TestFilter_CompanyScope(t *testing.T) {
	tenantID := uuid.New()
	companyID1 := uuid.New().String()
	companyID2 := uuid.New().String()

	t.Run("filters by company_id for COMPANY scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCompanyDataScope("invoice", []string{companyID1, companyID2})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.Equal(t, identity.DataScopeCompany, filter.GetScopeType("invoice"))
	})

	t.Run("company scope takes precedence over lower scopes", func(t *testing.T) {
		ctx := context.Background()

		role1, _ := identity.NewRole(tenantID, "CLERK", "AR Clerk")
		ds1, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)
		_ = role1.SetDataScope(*ds1)

		role2, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds2, _ := identity.NewCompanyDataScope("invoice", []string{companyID1})
		_ = role2.SetDataScope(*ds2)

		filter := NewFilter(ctx, []identity.Role{*role1, *role2})

		// COMPANY (50) > SELF (10)
		assert.Equal(t, identity.DataScopeCompany, filter.GetScopeType("invoice"))
	})

	t.Run("ALL scope takes precedence over COMPANY scope", func(t *testing.T) {
		ctx := context.Background()

		role1, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds1, _ := identity.NewCompanyDataScope("invoice", []string{companyID1})
		_ = role1.SetDataScope(*ds1)

		role2, _ := identity.NewRole(tenantID, "CONTROLLER", "Controller")
		ds2, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role2.SetDataScope(*ds2)

		filter := NewFilter(ctx, []identity.Role{*role1, *role2})

		// ALL (100) > COMPANY (50)
		assert.Equal(t, identity.DataScopeAll, filter.GetScopeType("invoice"))
	})
}

func TestFilter_GetCompanyIDs(t *testing.T) {
	tenantID := uuid.New()
	companyID1 := uuid.New().String()
	companyID2 := uuid.New().String()

	t.Run("returns company IDs for COMPANY scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCompanyDataScope("invoice", []string{companyID1, companyID2})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		companyIDs := filter.GetCompanyIDs("invoice")
		assert.Len(t, companyIDs, 2)
		assert.Contains(t, companyIDs, companyID1)
		assert.Contains(t, companyIDs, companyID2)
	})

	t.Run("returns nil for non-COMPANY scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "CONTROLLER", "Controller")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.Nil(t, filter.GetCompanyIDs("invoice"))
	})

	t.Run("returns nil for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.Nil(t, filter.GetCompanyIDs("invoice"))
	})
}

func TestFilter_HasCompanyAccess(t *testing.T) {
	tenantID := uuid.New()
	companyID1 := uuid.New().String()
	companyID2 := uuid.New().String()
	companyID3 := uuid.New().String()

	t.Run("returns true for company in scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCompanyDataScope("invoice", []string{companyID1, companyID2})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.True(t, filter.HasCompanyAccess("invoice", companyID1))
		assert.True(t, filter.HasCompanyAccess("invoice", companyID2))
	})

	t.Run("returns false for company not in scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCompanyDataScope("invoice", []string{companyID1, companyID2})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.False(t, filter.HasCompanyAccess("invoice", companyID3))
	})

	t.Run("returns true for ALL scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "CONTROLLER", "Controller")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.True(t, filter.HasCompanyAccess("invoice", companyID1))
		assert.True(t, filter.HasCompanyAccess("invoice", companyID3))
	})

	t.Run("returns true for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.True(t, filter.HasCompanyAccess("invoice", companyID1))
	})
}

func TestFilter_IsCompanyScoped(t *testing.T) {
	tenantID := uuid.New()
	companyID := uuid.New().String()

	t.Run("returns true for COMPANY scope", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "ACCOUNTANT", "Company Accountant")
		ds, _ := identity.NewCompanyDataScope("invoice", []string{companyID})
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.True(t, filter.IsCompanyScoped("invoice"))
	})

	t.Run("returns false for other scope types", func(t *testing.T) {
		ctx := context.Background()

		role, _ := identity.NewRole(tenantID, "CONTROLLER", "Controller")
		ds, _ := identity.NewDataScope("invoice", identity.DataScopeAll)
		_ = role.SetDataScope(*ds)

		filter := NewFilter(ctx, []identity.Role{*role})

		assert.False(t, filter.IsCompanyScoped("invoice"))
	})

	t.Run("returns false for unconfigured resource", func(t *testing.T) {
		filter := NewFilter(context.Background(), []identity.Role{})

		assert.False(t, filter.IsCompanyScoped("invoice"))
	})
}

func TestIsResourceCompanyScoped(t *testing.T) {
	t.Run("returns true for document resources", func(t *testing.T) {
		assert.True(t, IsResourceCompanyScoped("invoice"))
		assert.True(t, IsResourceCompanyScoped("bill"))
		assert.True(t, IsResourceCompanyScoped("payment"))
		assert.True(t, IsResourceCompanyScoped("journal_entry"))
		assert.True(t, IsResourceCompanyScoped("account"))
		assert.True(t, IsResourceCompanyScoped("period"))
		assert.True(t, IsResourceCompanyScoped("customer"))
		assert.True(t, IsResourceCompanyScoped("vendor"))
		assert.True(t, IsResourceCompanyScoped("report"))
	})

	t.Run("returns false for tenant-wide resources", func(t *testing.T) {
		assert.False(t, IsResourceCompanyScoped("user"))
		assert.False(t, IsResourceCompanyScoped("role"))
		assert.False(t, IsResourceCompanyScoped("unknown"))
	})
}

func TestCreateCompanyScopesForRole(t *testing.T) {
	t.Run("creates scopes for all company resources", func(t *testing.T) {
		companyIDs := []string{"co-001", "co-002"}
		scopes, err := CreateCompanyScopesForRole(companyIDs)
		require.NoError(t, err)

		assert.Len(t, scopes, 9)

		resourcesFound := make(map[string]bool)
		for _, ds := range scopes {
			assert.Equal(t, identity.DataScopeCompany, ds.ScopeType)
			assert.Equal(t, "company_id", ds.ScopeField)
			assert.Equal(t, companyIDs, ds.ScopeValues)
			resourcesFound[ds.Resource] = true
		}

		assert.True(t, resourcesFound["invoice"])
		assert.True(t, resourcesFound["bill"])
		assert.True(t, resourcesFound["journal_entry"])
	})

	t.Run("returns nil for empty company IDs", func(t *testing.T) {
		scopes, err := CreateCompanyScopesForRole([]string{})
		require.NoError(t, err)
		assert.Nil(t, scopes)
	})

	t.Run("returns nil for nil company IDs", func(t *testing.T) {
		scopes, err := CreateCompanyScopesForRole(nil)
		require.NoError(t, err)
		assert.Nil(t, scopes)
	})
}

func TestWithCompanyIDs(t *testing.T) {
	t.Run("stores company IDs in context", func(t *testing.T) {
		ctx := context.Background()
		companyIDs := []string{"co-001", "co-002"}

		ctx = WithCompanyIDs(ctx, companyIDs)

		retrieved := GetCompanyIDsFromContext(ctx)
		assert.Equal(t, companyIDs, retrieved)
	})

	t.Run("returns nil for context without company IDs", func(t *testing.T) {
		ctx := context.Background()

		retrieved := GetCompanyIDsFromContext(ctx)
		assert.Nil(t, retrieved)
	})
}

func TestMergeScopes_WithCompany(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("ALL takes precedence over COMPANY", func(t *testing.T) {
		dsCompany, _ := identity.NewCompanyDataScope("invoice", []string{companyID})
		dsAll, _ := identity.NewDataScope("invoice", identity.DataScopeAll)

		result := MergeScopes(
			[]identity.DataScope{*dsCompany},
			[]identity.DataScope{*dsAll},
		)

		assert.Len(t, result, 1)
		assert.Equal(t, identity.DataScopeAll, result["invoice"].ScopeType)
	})

	t.Run("COMPANY takes precedence over SELF", func(t *testing.T) {
		dsCompany, _ := identity.NewCompanyDataScope("invoice", []string{companyID})
		dsSelf, _ := identity.NewDataScope("invoice", identity.DataScopeSelf)

		result := MergeScopes(
			[]identity.DataScope{*dsSelf},
			[]identity.DataScope{*dsCompany},
		)

		assert.Len(t, result, 1)
		assert.Equal(t, identity.DataScopeCompany, result["invoice"].ScopeType)
	})

	t.Run("COMPANY takes precedence over CUSTOM", func(t *testing.T) {
		dsCompany, _ := identity.NewCompanyDataScope("invoice", []string{companyID})
		dsCustom, _ := identity.NewCustomDataScope("invoice", []string{"value1"})

		result := MergeScopes(
			[]identity.DataScope{*dsCustom},
			[]identity.DataScope{*dsCompany},
		)

		assert.Len(t, result, 1)
		assert.Equal(t, identity.DataScopeCompany, result["invoice"].ScopeType)
	})
}
