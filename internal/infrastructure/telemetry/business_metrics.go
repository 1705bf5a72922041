// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the accounting system.
// It tracks document issuance, payment activity, and receivables health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	documentIssuedTotal *Counter
	documentAmountTotal *Counter
	paymentTotal        *Counter
	journalPostedTotal  *Counter

	// Gauge metrics (point-in-time values)
	receivablesOutstanding *Gauge
	overdueInvoiceCount    *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	receivablesProvider ReceivablesMetricsProvider
}

// ReceivablesMetricsProvider provides accounts receivable data for periodic
// metrics collection. This interface allows the telemetry layer to query
// document state without depending on the invoicing domain directly.
type ReceivablesMetricsProvider interface {
	// GetOutstandingReceivables returns the total open invoice balance in
	// minor units (cents) per company for a tenant
	GetOutstandingReceivables(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)

	// GetOverdueInvoiceCount returns the number of overdue invoices for a tenant
	GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter               metric.Meter
	Logger              *zap.Logger
	CollectInterval     time.Duration // Default: 5 minutes
	ReceivablesProvider ReceivablesMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:               cfg.Meter,
		logger:              logger,
		stopChan:            make(chan struct{}),
		receivablesProvider: cfg.ReceivablesProvider,
	}

	// Initialize counter metrics
	var err error

	// Document metrics
	bm.documentIssuedTotal, err = NewCounter(
		cfg.Meter,
		"books_document_issued_total",
		"Total number of documents issued",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentAmountTotal, err = NewCounter(
		cfg.Meter,
		"books_document_amount_total",
		"Total issued document amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"books_payment_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Journal metrics
	bm.journalPostedTotal, err = NewCounter(
		cfg.Meter,
		"books_journal_posted_total",
		"Total number of journal entries posted",
		"{journals}",
	)
	if err != nil {
		return nil, err
	}

	// Receivables gauge metrics
	bm.receivablesOutstanding, err = NewGauge(
		cfg.Meter,
		"books_receivables_outstanding",
		"Current open invoice balance in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.overdueInvoiceCount, err = NewGauge(
		cfg.Meter,
		"books_overdue_invoice_count",
		"Number of invoices past their due date",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// DocumentType represents the type of document for metrics labeling.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeBill    DocumentType = "bill"
)

// RecordDocumentIssued records a document issuance event.
// This should be called from the application layer when an invoice or bill
// transitions out of draft.
func (bm *BusinessMetrics) RecordDocumentIssued(ctx context.Context, tenantID uuid.UUID, docType DocumentType) {
	bm.documentIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(string(docType)),
	)
}

// RecordDocumentAmount records the document total.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordDocumentAmount(ctx context.Context, tenantID uuid.UUID, docType DocumentType, amountCents int64) {
	bm.documentAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(string(docType)),
	)
}

// RecordDocumentWithAmount is a convenience method that records both document count and amount.
func (bm *BusinessMetrics) RecordDocumentWithAmount(ctx context.Context, tenantID uuid.UUID, docType DocumentType, amount decimal.Decimal) {
	bm.RecordDocumentIssued(ctx, tenantID, docType)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordDocumentAmount(ctx, tenantID, docType, amountCents)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentStatus represents the outcome of a payment for metrics labeling.
type PaymentStatus string

const (
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusVoided    PaymentStatus = "voided"
)

// RecordPayment records a payment transaction.
// This should be called when a payment is confirmed or voided.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, paymentMethod string, status PaymentStatus) {
	bm.paymentTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(status)),
	)
}

// =============================================================================
// Journal Metrics
// =============================================================================

// RecordJournalPosted records a posted journal entry.
func (bm *BusinessMetrics) RecordJournalPosted(ctx context.Context, tenantID, companyID uuid.UUID) {
	bm.journalPostedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrCompanyID.String(companyID.String()),
	)
}

// =============================================================================
// Receivables Metrics
// =============================================================================

// RecordOutstandingReceivables records the current open invoice balance for a company.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutstandingReceivables(ctx context.Context, tenantID, companyID uuid.UUID, amountCents int64) {
	bm.receivablesOutstanding.Record(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrCompanyID.String(companyID.String()),
	)
}

// RecordOverdueInvoiceCount records the number of invoices past their due date.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.overdueInvoiceCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects receivables metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectReceivablesMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectReceivablesMetrics(ctx, tenantProvider)
		}
	}
}

// collectReceivablesMetrics collects receivables gauge metrics for all tenants.
func (bm *BusinessMetrics) collectReceivablesMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.receivablesProvider == nil {
		bm.logger.Debug("No receivables provider configured, skipping receivables metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantReceivablesMetrics(ctx, tenantID)
	}
}

// collectTenantReceivablesMetrics collects receivables metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantReceivablesMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect outstanding balance by company
	outstandingByCompany, err := bm.receivablesProvider.GetOutstandingReceivables(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get outstanding receivables for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for companyID, amountCents := range outstandingByCompany {
			bm.RecordOutstandingReceivables(ctx, tenantID, companyID, amountCents)
		}
	}

	// Collect overdue invoice count
	overdueCount, err := bm.receivablesProvider.GetOverdueInvoiceCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get overdue invoice count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueInvoiceCount(ctx, tenantID, overdueCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	// Additional business attributes can be added here
	AttrDocumentStatus = attribute.Key("document_status")
)
