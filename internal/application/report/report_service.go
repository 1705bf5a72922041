package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/report"
	"github.com/openbooks/backend/internal/domain/shared"
)

// ReportService builds financial statements from posted journal activity
type ReportService struct {
	journalRepo ledger.JournalRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(journalRepo ledger.JournalRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// TrialBalance returns per-account debit and credit totals over posted
// journals in the date range
func (s *ReportService) TrialBalance(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*report.TrialBalance, error) {
	if err := validateRange(companyID, from, to); err != nil {
		return nil, err
	}

	balances, err := s.journalRepo.AccountBalances(ctx, companyID, from, to)
	if err != nil {
		s.logger.Error("Failed to aggregate account balances", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build trial balance")
	}

	return report.BuildTrialBalance(companyID, from, to, balances), nil
}

// BalanceSheet returns financial position as of a date. Activity is
// aggregated from inception through the end of the as-of day.
func (s *ReportService) BalanceSheet(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*report.BalanceSheet, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID is required")
	}
	if asOf.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "As-of date is required")
	}

	balances, err := s.journalRepo.AccountBalances(ctx, companyID, time.Time{}, asOf)
	if err != nil {
		s.logger.Error("Failed to aggregate account balances", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build balance sheet")
	}

	return report.BuildBalanceSheet(companyID, asOf, balances), nil
}

// IncomeStatement returns revenue and expense totals plus net income for
// the date range
func (s *ReportService) IncomeStatement(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*report.IncomeStatement, error) {
	if err := validateRange(companyID, from, to); err != nil {
		return nil, err
	}

	balances, err := s.journalRepo.AccountBalances(ctx, companyID, from, to)
	if err != nil {
		s.logger.Error("Failed to aggregate account balances", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build income statement")
	}

	return report.BuildIncomeStatement(companyID, from, to, balances), nil
}

func validateRange(companyID uuid.UUID, from, to time.Time) error {
	if companyID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPANY", "Company ID is required")
	}
	if from.IsZero() || to.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Both start and end dates are required")
	}
	if to.Before(from) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	return nil
}
