package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/openbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_RecordDocumentIssued(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	// Should not panic
	bm.RecordDocumentIssued(ctx, tenantID, telemetry.DocumentTypeInvoice)
	bm.RecordDocumentIssued(ctx, tenantID, telemetry.DocumentTypeBill)
}

func TestBusinessMetrics_RecordDocumentAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	// Should not panic
	bm.RecordDocumentAmount(ctx, tenantID, telemetry.DocumentTypeInvoice, 10000) // 100.00 USD
	bm.RecordDocumentAmount(ctx, tenantID, telemetry.DocumentTypeBill, 50000)
}

func TestBusinessMetrics_RecordDocumentWithAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	amount := decimal.NewFromFloat(199.99)

	// Should not panic and record both count and amount
	bm.RecordDocumentWithAmount(ctx, tenantID, telemetry.DocumentTypeInvoice, amount)
}

func TestBusinessMetrics_RecordPayment(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	// Should not panic
	bm.RecordPayment(ctx, tenantID, "bank_transfer", telemetry.PaymentStatusConfirmed)
	bm.RecordPayment(ctx, tenantID, "check", telemetry.PaymentStatusVoided)
}

func TestBusinessMetrics_RecordJournalPosted(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	companyID := uuid.New()

	// Should not panic
	bm.RecordJournalPosted(ctx, tenantID, companyID)
	bm.RecordJournalPosted(ctx, tenantID, companyID)
}

func TestBusinessMetrics_RecordOutstandingReceivables(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	companyID := uuid.New()

	// Should not panic
	bm.RecordOutstandingReceivables(ctx, tenantID, companyID, 100000)
	bm.RecordOutstandingReceivables(ctx, tenantID, companyID, 50000)
}

func TestBusinessMetrics_RecordOverdueInvoiceCount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	// Should not panic
	bm.RecordOverdueInvoiceCount(ctx, tenantID, 5)
	bm.RecordOverdueInvoiceCount(ctx, tenantID, 10)
}

// Mock implementations for testing periodic collection

type mockTenantProvider struct {
	tenantIDs []uuid.UUID
	err       error
}

func (m *mockTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	return m.tenantIDs, m.err
}

type mockReceivablesProvider struct {
	outstanding  map[uuid.UUID]int64
	overdueCount int64
	err          error
}

func (m *mockReceivablesProvider) GetOutstandingReceivables(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.outstanding, nil
}

func (m *mockReceivablesProvider) GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.overdueCount, nil
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	tenantID := uuid.New()
	companyID := uuid.New()

	receivablesProvider := &mockReceivablesProvider{
		outstanding: map[uuid.UUID]int64{
			companyID: 100000,
		},
		overdueCount: 5,
	}

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:               meter,
		Logger:              zap.NewNop(),
		ReceivablesProvider: receivablesProvider,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tenantProvider := &mockTenantProvider{
		tenantIDs: []uuid.UUID{tenantID},
	}

	// Start periodic collection with short interval for testing
	bm.StartPeriodicCollection(ctx, tenantProvider, 100*time.Millisecond)

	// Wait for at least one collection cycle
	time.Sleep(150 * time.Millisecond)

	// Stop collection
	bm.Stop()

	// Should complete without error
}

func TestBusinessMetrics_PeriodicCollection_NoProvider(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
		// No receivables provider
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tenantProvider := &mockTenantProvider{
		tenantIDs: []uuid.UUID{uuid.New()},
	}

	// Should not panic with no receivables provider
	bm.StartPeriodicCollection(ctx, tenantProvider, 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	bm.Stop()
}

func TestBusinessMetrics_Stop_Idempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	// Calling Stop multiple times should not panic
	bm.Stop()
	bm.Stop()
	bm.Stop()
}

func TestBusinessMetrics_StartPeriodicCollection_OnlyOnce(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tenantProvider := &mockTenantProvider{
		tenantIDs: []uuid.UUID{},
	}

	// Calling StartPeriodicCollection multiple times should only start once
	bm.StartPeriodicCollection(ctx, tenantProvider, time.Hour)
	bm.StartPeriodicCollection(ctx, tenantProvider, time.Minute)
	bm.StartPeriodicCollection(ctx, tenantProvider, time.Second)

	bm.Stop()
}

func TestDocumentType_Values(t *testing.T) {
	assert.Equal(t, telemetry.DocumentType("invoice"), telemetry.DocumentTypeInvoice)
	assert.Equal(t, telemetry.DocumentType("bill"), telemetry.DocumentTypeBill)
}

func TestPaymentStatus_Values(t *testing.T) {
	assert.Equal(t, telemetry.PaymentStatus("confirmed"), telemetry.PaymentStatusConfirmed)
	assert.Equal(t, telemetry.PaymentStatus("voided"), telemetry.PaymentStatusVoided)
}

func TestMetricsError_Error(t *testing.T) {
	err := &telemetry.MetricsError{
		Op:  "TestOperation",
		Err: "test error message",
	}

	assert.Equal(t, "TestOperation: test error message", err.Error())
}
