package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// PeriodService handles accounting period lifecycle operations
type PeriodService struct {
	periodRepo     ledger.PeriodRepository
	journalRepo    ledger.JournalRepository
	eventPublisher shared.EventPublisher
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(
	periodRepo ledger.PeriodRepository,
	journalRepo ledger.JournalRepository,
	eventPublisher shared.EventPublisher,
) *PeriodService {
	return &PeriodService{
		periodRepo:     periodRepo,
		journalRepo:    journalRepo,
		eventPublisher: eventPublisher,
	}
}

// Open creates a new open period for the given month
func (s *PeriodService) Open(ctx context.Context, tenantID, companyID uuid.UUID, req OpenPeriodRequest) (*PeriodResponse, error) {
	existing, err := s.periodRepo.FindByMonth(ctx, companyID, req.Year, req.Month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Period for this month already exists")
	}

	period, err := ledger.NewAccountingPeriod(tenantID, companyID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(period)
	return &response, nil
}

// Close closes a period. The close is rejected while draft entries remain
// inside the period window, so nothing can become unpostable silently, and
// while the preceding month is still open, so periods close in order. The
// period's postings balance by construction: only balanced entries post.
func (s *PeriodService) Close(ctx context.Context, companyID uuid.UUID, year, month int, closedBy uuid.UUID) (*PeriodResponse, error) {
	period, err := s.findForCompany(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	prev, err := s.periodRepo.FindByMonth(ctx, companyID, prevYear, prevMonth)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if prev != nil && !prev.IsClosed() {
		return nil, shared.NewDomainError("PRIOR_PERIOD_OPEN", "The preceding period must be closed first")
	}

	if err := period.BeginClose(); err != nil {
		return nil, err
	}

	drafts, err := s.journalRepo.CountDraftsInRange(ctx, companyID, period.StartDate, period.EndDate)
	if err != nil {
		if abandonErr := period.AbandonClose(); abandonErr == nil {
			_ = s.periodRepo.Update(ctx, period)
		}
		return nil, err
	}
	if drafts > 0 {
		if err := period.AbandonClose(); err != nil {
			return nil, err
		}
		if err := s.periodRepo.Update(ctx, period); err != nil {
			return nil, err
		}
		return nil, shared.NewDomainError("DRAFTS_REMAIN", "Period has draft journal entries that must be posted or deleted first")
	}

	if err := period.CompleteClose(closedBy); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Update(ctx, period); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, period)

	response := ToPeriodResponse(period)
	return &response, nil
}

// Reopen reverts a closed period to open. Only the most recently closed
// period may reopen, so a closed period is never preceded by an open one.
func (s *PeriodService) Reopen(ctx context.Context, companyID uuid.UUID, year, month int, reopenedBy uuid.UUID) (*PeriodResponse, error) {
	period, err := s.findForCompany(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}

	latest, err := s.periodRepo.FindLatestClosed(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if latest != nil && (latest.Year > year || (latest.Year == year && latest.Month > month)) {
		return nil, shared.NewDomainError("NOT_LATEST_CLOSED", "Only the most recently closed period can be reopened")
	}

	if err := period.Reopen(reopenedBy); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Update(ctx, period); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, period)

	response := ToPeriodResponse(period)
	return &response, nil
}

// GetByMonth retrieves a period by its month
func (s *PeriodService) GetByMonth(ctx context.Context, companyID uuid.UUID, year, month int) (*PeriodResponse, error) {
	period, err := s.findForCompany(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}

	response := ToPeriodResponse(period)
	return &response, nil
}

// List retrieves all periods for a company, newest first
func (s *PeriodService) List(ctx context.Context, companyID uuid.UUID) ([]PeriodResponse, error) {
	periods, err := s.periodRepo.FindAll(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]PeriodResponse, len(periods))
	for i, period := range periods {
		responses[i] = ToPeriodResponse(period)
	}
	return responses, nil
}

func (s *PeriodService) findForCompany(ctx context.Context, companyID uuid.UUID, year, month int) (*ledger.AccountingPeriod, error) {
	period, err := s.periodRepo.FindByMonth(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}
	if period.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return period, nil
}

func (s *PeriodService) publishDomainEvents(ctx context.Context, period *ledger.AccountingPeriod) {
	if s.eventPublisher == nil {
		return
	}
	events := period.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	period.ClearDomainEvents()
}
