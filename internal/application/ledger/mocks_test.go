package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*ledger.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]*ledger.Account, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*ledger.Account, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, companyID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasPostings(ctx context.Context, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

// MockJournalRepository is a mock implementation of ledger.JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) Update(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindByEntryNumber(ctx context.Context, companyID uuid.UUID, entryNumber string) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindBySource(ctx context.Context, source ledger.JournalSource, sourceID uuid.UUID) ([]*ledger.JournalEntry, error) {
	args := m.Called(ctx, source, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindAll(ctx context.Context, filter ledger.JournalFilter) ([]*ledger.JournalEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.JournalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, companyID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, companyID, year)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) CountDraftsInRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) AccountBalances(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]ledger.AccountBalance, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountBalance), args.Error(1)
}

// MockPeriodRepository is a mock implementation of ledger.PeriodRepository
type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) Create(ctx context.Context, period *ledger.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) Update(ctx context.Context, period *ledger.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindByMonth(ctx context.Context, companyID uuid.UUID, year, month int) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, companyID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindByDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOpen(ctx context.Context, companyID uuid.UUID) ([]*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindLatestClosed(ctx context.Context, companyID uuid.UUID) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
