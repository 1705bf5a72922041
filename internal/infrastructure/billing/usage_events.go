package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/billing"
)

// LoggingUsageEventPublisher emits quota lifecycle events to the structured
// log. Quota warnings and overages are operational signals consumed from log
// pipelines; they do not flow through the domain event outbox.
type LoggingUsageEventPublisher struct {
	logger *zap.Logger
}

// NewLoggingUsageEventPublisher creates a new LoggingUsageEventPublisher
func NewLoggingUsageEventPublisher(logger *zap.Logger) *LoggingUsageEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingUsageEventPublisher{logger: logger}
}

// PublishQuotaWarning logs a usage-approaching-limit event
func (p *LoggingUsageEventPublisher) PublishQuotaWarning(_ context.Context, tenantID uuid.UUID, result billing.QuotaCheckResult) error {
	p.logger.Warn("Tenant approaching usage quota",
		zap.String("tenant_id", tenantID.String()),
		zap.String("usage_type", string(result.UsageType)),
		zap.Int64("current_usage", result.CurrentUsage),
		zap.Int64("limit", result.Limit),
		zap.Float64("usage_percent", result.UsagePercent),
	)
	return nil
}

// PublishQuotaExceeded logs a quota-exceeded event
func (p *LoggingUsageEventPublisher) PublishQuotaExceeded(_ context.Context, tenantID uuid.UUID, result billing.QuotaCheckResult) error {
	p.logger.Error("Tenant exceeded usage quota",
		zap.String("tenant_id", tenantID.String()),
		zap.String("usage_type", string(result.UsageType)),
		zap.Int64("current_usage", result.CurrentUsage),
		zap.Int64("limit", result.Limit),
		zap.Int64("overage", result.Overage),
		zap.String("overage_policy", string(result.OveragePolicy)),
	)
	return nil
}

// PublishUsageRecorded logs a recorded usage event at debug level
func (p *LoggingUsageEventPublisher) PublishUsageRecorded(_ context.Context, record *billing.UsageRecord) error {
	p.logger.Debug("Usage recorded",
		zap.String("tenant_id", record.TenantID.String()),
		zap.String("usage_type", string(record.UsageType)),
		zap.Int64("quantity", record.Quantity),
		zap.String("source_type", record.SourceType),
	)
	return nil
}
