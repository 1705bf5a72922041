package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/audit"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// MockAuditLogRepository is a mock implementation of audit.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *audit.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) FindAll(ctx context.Context, filter audit.AuditLogFilter) ([]*audit.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*audit.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) ([]*audit.AuditLog, error) {
	args := m.Called(ctx, tenantID, entityType, entityID)
	return args.Get(0).([]*audit.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func captureEntry(repo *MockAuditLogRepository, ctx context.Context, captured **audit.AuditLog) {
	repo.On("Append", ctx, mock.AnythingOfType("*audit.AuditLog")).
		Return(nil).
		Run(func(args mock.Arguments) {
			*captured = args.Get(1).(*audit.AuditLog)
		})
}

func TestRecorder_InvoiceApproved(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	invoiceID := uuid.New()
	approverID := uuid.New()

	repo := new(MockAuditLogRepository)
	var captured *audit.AuditLog
	captureEntry(repo, ctx, &captured)

	recorder := NewRecorder(repo, zap.NewNop())

	event := &invoicing.InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(invoicing.EventTypeInvoiceApproved, invoicing.AggregateTypeInvoice, invoiceID, tenantID),
		InvoiceID:       invoiceID,
		InvoiceNumber:   "INV-2026-0001",
		Total:           decimal.RequireFromString("120.00"),
		Currency:        "USD",
		ApprovedBy:      approverID,
	}

	require.NoError(t, recorder.Handle(ctx, event))
	require.NotNil(t, captured)
	assert.Equal(t, tenantID, captured.TenantID)
	assert.Equal(t, approverID, captured.ActorID)
	assert.Equal(t, audit.ActionInvoiceApproved, captured.Action)
	assert.Equal(t, invoicing.AggregateTypeInvoice, captured.EntityType)
	assert.Equal(t, invoiceID, captured.EntityID)
	assert.Contains(t, captured.Summary, "INV-2026-0001")
	assert.Contains(t, captured.After, "120")

	repo.AssertExpectations(t)
}

func TestRecorder_PeriodClosed(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	periodID := uuid.New()
	controllerID := uuid.New()

	repo := new(MockAuditLogRepository)
	var captured *audit.AuditLog
	captureEntry(repo, ctx, &captured)

	recorder := NewRecorder(repo, zap.NewNop())

	event := &ledger.PeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ledger.EventTypePeriodClosed, ledger.AggregateTypePeriod, periodID, tenantID),
		CompanyID:       uuid.New().String(),
		Year:            2026,
		Month:           3,
		ClosedBy:        controllerID,
	}

	require.NoError(t, recorder.Handle(ctx, event))
	require.NotNil(t, captured)
	assert.Equal(t, controllerID, captured.ActorID)
	assert.Equal(t, audit.ActionPeriodClosed, captured.Action)
	assert.Contains(t, captured.Summary, "2026-03")
}

func TestRecorder_RolePermissionGranted_SystemActor(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	roleID := uuid.New()

	repo := new(MockAuditLogRepository)
	var captured *audit.AuditLog
	captureEntry(repo, ctx, &captured)

	recorder := NewRecorder(repo, zap.NewNop())

	event := &identity.RolePermissionGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(identity.EventTypeRolePermissionGranted, identity.AggregateTypeRole, roleID, tenantID),
		RoleCode:        "ACCOUNTANT",
		PermissionCode:  "journal:create",
	}

	require.NoError(t, recorder.Handle(ctx, event))
	require.NotNil(t, captured)
	assert.Equal(t, audit.SystemActorID, captured.ActorID)
	assert.Equal(t, audit.ActionRoleChanged, captured.Action)
	assert.Contains(t, captured.Summary, "journal:create")
	assert.Contains(t, captured.Summary, "ACCOUNTANT")
}

func TestRecorder_SubscriptionStatusChanged(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	subscriptionID := uuid.New()

	repo := new(MockAuditLogRepository)
	var captured *audit.AuditLog
	captureEntry(repo, ctx, &captured)

	recorder := NewRecorder(repo, zap.NewNop())

	event := &billing.SubscriptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(billing.EventTypeSubscriptionStatusChanged, billing.AggregateTypeSubscription, subscriptionID, tenantID),
		SubscriptionID:  subscriptionID,
		OldStatus:       billing.SubscriptionStatusTrialing,
		NewStatus:       billing.SubscriptionStatusActive,
	}

	require.NoError(t, recorder.Handle(ctx, event))
	require.NotNil(t, captured)
	assert.Equal(t, audit.ActionSubscriptionChanged, captured.Action)
	assert.Contains(t, captured.Before, "trialing")
	assert.Contains(t, captured.After, "active")
}

func TestRecorder_AppendFailurePropagates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	invoiceID := uuid.New()

	repo := new(MockAuditLogRepository)
	repo.On("Append", ctx, mock.AnythingOfType("*audit.AuditLog")).Return(errors.New("db down"))

	recorder := NewRecorder(repo, zap.NewNop())

	event := &invoicing.InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(invoicing.EventTypeInvoiceApproved, invoicing.AggregateTypeInvoice, invoiceID, tenantID),
		InvoiceID:       invoiceID,
		InvoiceNumber:   "INV-2026-0002",
		Total:           decimal.RequireFromString("50.00"),
		Currency:        "USD",
		ApprovedBy:      uuid.New(),
	}

	require.Error(t, recorder.Handle(ctx, event))
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	entry, err := audit.NewAuditLog(tenantID, uuid.New(), "jdoe",
		audit.ActionJournalPosted, "JournalEntry", uuid.New(), "Journal JE-2026-000001 posted")
	require.NoError(t, err)

	repo := new(MockAuditLogRepository)
	repo.On("FindAll", ctx, mock.AnythingOfType("audit.AuditLogFilter")).
		Return([]*audit.AuditLog{entry}, int64(1), nil)

	service := NewAuditService(repo, zap.NewNop())

	result, err := service.List(ctx, ListInput{TenantID: tenantID})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, audit.ActionJournalPosted, result.Entries[0].Action)
}

func TestAuditService_List_MissingTenant(t *testing.T) {
	ctx := context.Background()
	service := NewAuditService(new(MockAuditLogRepository), zap.NewNop())

	result, err := service.List(ctx, ListInput{})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TENANT_ID", domainErr.Code)
}
