package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/infrastructure/scheduler"
)

// ReportRefreshService recomputes financial statements for every active
// company of a tenant on a schedule. The nightly trial balance run doubles
// as an integrity check: an unbalanced ledger is logged loudly so it can be
// investigated before period close.
type ReportRefreshService struct {
	reportService *ReportService
	companyRepo   identity.CompanyRepository
	logger        *zap.Logger
}

// NewReportRefreshService creates a new report refresh service
func NewReportRefreshService(
	reportService *ReportService,
	companyRepo identity.CompanyRepository,
	logger *zap.Logger,
) *ReportRefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRefreshService{
		reportService: reportService,
		companyRepo:   companyRepo,
		logger:        logger,
	}
}

// Execute implements scheduler.JobExecutor
func (s *ReportRefreshService) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.TenantID == nil {
		return scheduler.ErrInvalidReportType
	}

	companies, err := s.companyRepo.FindActive(ctx, *job.TenantID)
	if err != nil {
		return err
	}

	for _, company := range companies {
		if err := s.refreshCompany(ctx, company.ID, job.ReportType, job.PeriodStart, job.PeriodEnd); err != nil {
			s.logger.Error("Statement refresh failed",
				zap.String("tenant_id", job.TenantID.String()),
				zap.String("company_id", company.ID.String()),
				zap.String("statement", string(job.ReportType)),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}

func (s *ReportRefreshService) refreshCompany(ctx context.Context, companyID uuid.UUID, reportType scheduler.ReportType, periodStart, periodEnd time.Time) error {
	switch reportType {
	case scheduler.ReportTypeTrialBalance:
		tb, err := s.reportService.TrialBalance(ctx, companyID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		if !tb.Balanced {
			s.logger.Warn("Trial balance out of balance",
				zap.String("company_id", companyID.String()),
				zap.String("total_debits", tb.TotalDebits.String()),
				zap.String("total_credits", tb.TotalCredits.String()),
			)
		}
		return nil
	case scheduler.ReportTypeBalanceSheet:
		bs, err := s.reportService.BalanceSheet(ctx, companyID, periodEnd)
		if err != nil {
			return err
		}
		if !bs.Balanced {
			s.logger.Warn("Balance sheet does not balance",
				zap.String("company_id", companyID.String()),
				zap.Time("as_of", periodEnd),
			)
		}
		return nil
	case scheduler.ReportTypeIncomeStatement:
		_, err := s.reportService.IncomeStatement(ctx, companyID, periodStart, periodEnd)
		return err
	default:
		return scheduler.ErrInvalidReportType
	}
}
