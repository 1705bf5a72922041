package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// JournalService handles journal entry operations. Posting requires an
// open accounting period covering the entry date and active accounts on
// every line; the user who created a draft may not post it.
type JournalService struct {
	journalRepo    ledger.JournalRepository
	accountRepo    ledger.AccountRepository
	periodRepo     ledger.PeriodRepository
	eventPublisher shared.EventPublisher
}

// NewJournalService creates a new JournalService
func NewJournalService(
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	periodRepo ledger.PeriodRepository,
	eventPublisher shared.EventPublisher,
) *JournalService {
	return &JournalService{
		journalRepo:    journalRepo,
		accountRepo:    accountRepo,
		periodRepo:     periodRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateDraft creates a manual draft journal entry
func (s *JournalService) CreateDraft(ctx context.Context, tenantID, companyID uuid.UUID, req CreateJournalRequest) (*JournalResponse, error) {
	entry, err := ledger.NewJournalEntry(tenantID, companyID, req.EntryDate, valueobject.Currency(req.Currency), req.Memo)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	lines, err := buildJournalLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := entry.SetLines(lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	response := ToJournalResponse(entry)
	return &response, nil
}

// Update replaces the lines, memo or date of a draft entry
func (s *JournalService) Update(ctx context.Context, companyID, journalID uuid.UUID, req UpdateJournalRequest) (*JournalResponse, error) {
	entry, err := s.findForCompany(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	if req.EntryDate != nil {
		if err := entry.SetEntryDate(*req.EntryDate); err != nil {
			return nil, err
		}
	}
	if req.Memo != nil {
		entry.Memo = *req.Memo
	}
	if req.Lines != nil {
		lines, err := buildJournalLines(req.Lines)
		if err != nil {
			return nil, err
		}
		if err := entry.SetLines(lines); err != nil {
			return nil, err
		}
	}

	if err := s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	response := ToJournalResponse(entry)
	return &response, nil
}

// Post validates and posts a draft entry to the general ledger
func (s *JournalService) Post(ctx context.Context, companyID, journalID, postedBy uuid.UUID) (*JournalResponse, error) {
	entry, err := s.findForCompany(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	if entry.CreatedBy != nil && *entry.CreatedBy == postedBy {
		return nil, shared.ErrDutyConflict
	}

	if err := s.ensurePostable(ctx, entry); err != nil {
		return nil, err
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, companyID, entry.EntryDate.Year())
	if err != nil {
		return nil, err
	}
	if err := entry.Post(entryNumber, postedBy); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, entry)

	response := ToJournalResponse(entry)
	return &response, nil
}

// Void voids a posted entry. The entry's period must still be open.
func (s *JournalService) Void(ctx context.Context, companyID, journalID, voidedBy uuid.UUID, reason string) (*JournalResponse, error) {
	entry, err := s.findForCompany(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureOpenPeriod(ctx, companyID, entry.EntryDate); err != nil {
		return nil, err
	}

	if err := entry.Void(voidedBy, reason); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, entry)

	response := ToJournalResponse(entry)
	return &response, nil
}

// Reverse creates a draft entry that mirrors a posted entry with debits
// and credits swapped. Used to correct entries in closed periods, where
// voiding is no longer possible.
func (s *JournalService) Reverse(ctx context.Context, companyID, journalID uuid.UUID, entryDate time.Time, memo string, createdBy uuid.UUID) (*JournalResponse, error) {
	entry, err := s.findForCompany(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	reversal, err := entry.BuildReversal(entryDate, memo)
	if err != nil {
		return nil, err
	}
	reversal.SetCreatedBy(createdBy)

	if err := s.journalRepo.Create(ctx, reversal); err != nil {
		return nil, err
	}

	response := ToJournalResponse(reversal)
	return &response, nil
}

// GetByID retrieves a journal entry by ID
func (s *JournalService) GetByID(ctx context.Context, companyID, journalID uuid.UUID) (*JournalResponse, error) {
	entry, err := s.findForCompany(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}

	response := ToJournalResponse(entry)
	return &response, nil
}

// List retrieves journal entries with filtering and pagination
func (s *JournalService) List(ctx context.Context, companyID uuid.UUID, filter JournalListFilter) ([]JournalResponse, int64, error) {
	domainFilter := ledger.NewJournalFilter(companyID)
	if filter.Status != "" {
		domainFilter = domainFilter.WithStatus(ledger.JournalStatus(filter.Status))
	}
	if filter.Source != "" {
		domainFilter = domainFilter.WithSource(ledger.JournalSource(filter.Source))
	}
	if filter.AccountID != nil {
		domainFilter = domainFilter.WithAccountID(*filter.AccountID)
	}
	if filter.DateFrom != nil && filter.DateTo != nil {
		domainFilter = domainFilter.WithDateRange(*filter.DateFrom, *filter.DateTo)
	}
	if filter.Page > 0 {
		domainFilter = domainFilter.WithPagination(filter.Page, filter.PageSize)
	}

	entries, total, err := s.journalRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]JournalResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToJournalResponse(entry)
	}
	return responses, total, nil
}

// ensurePostable checks the period and every line account before posting
func (s *JournalService) ensurePostable(ctx context.Context, entry *ledger.JournalEntry) error {
	if err := s.ensureOpenPeriod(ctx, entry.CompanyID, entry.EntryDate); err != nil {
		return err
	}

	for _, line := range entry.Lines {
		account, err := s.accountRepo.FindByID(ctx, line.AccountID)
		if err != nil {
			return err
		}
		if account.CompanyID != entry.CompanyID {
			return shared.NewDomainError("INVALID_ACCOUNT", "Line account does not belong to this company")
		}
		if !account.IsActive {
			return shared.NewDomainError("INACTIVE_ACCOUNT", "Cannot post to an inactive account")
		}
	}
	return nil
}

func (s *JournalService) ensureOpenPeriod(ctx context.Context, companyID uuid.UUID, date time.Time) error {
	period, err := s.periodRepo.FindByDate(ctx, companyID, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NO_OPEN_PERIOD", "No accounting period covers this entry date")
		}
		return err
	}
	if period.Status != ledger.PeriodStatusOpen {
		return shared.ErrPeriodClosed
	}
	return nil
}

func (s *JournalService) publishDomainEvents(ctx context.Context, entry *ledger.JournalEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	entry.ClearDomainEvents()
}

func (s *JournalService) findForCompany(ctx context.Context, companyID, journalID uuid.UUID) (*ledger.JournalEntry, error) {
	entry, err := s.journalRepo.FindByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func buildJournalLines(reqs []JournalLineRequest) ([]ledger.JournalLine, error) {
	lines := make([]ledger.JournalLine, 0, len(reqs))
	for _, req := range reqs {
		hasDebit := req.Debit != nil && !req.Debit.IsZero()
		hasCredit := req.Credit != nil && !req.Credit.IsZero()
		if hasDebit == hasCredit {
			return nil, shared.NewDomainError("INVALID_LINE", "Each line must carry exactly one of debit or credit")
		}

		var (
			line ledger.JournalLine
			err  error
		)
		if hasDebit {
			line, err = ledger.NewDebitLine(req.AccountID, *req.Debit, req.Description)
		} else {
			line, err = ledger.NewCreditLine(req.AccountID, *req.Credit, req.Description)
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
