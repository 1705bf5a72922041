package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
	"github.com/openbooks/backend/internal/infrastructure/persistence/models"
)

func setupJournalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.AccountModel{}, &models.JournalEntryModel{}, &models.JournalLineModel{})
	require.NoError(t, err)

	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, companyID uuid.UUID, code, name string, accountType ledger.AccountType) *ledger.Account {
	account, err := ledger.NewAccount(uuid.New(), companyID, code, name, accountType)
	require.NoError(t, err)
	require.NoError(t, NewGormAccountRepository(db).Create(context.Background(), account))
	return account
}

func newBalancedEntry(t *testing.T, tenantID, companyID uuid.UUID, entryDate time.Time, debitAccount, creditAccount uuid.UUID, amount decimal.Decimal) *ledger.JournalEntry {
	entry, err := ledger.NewJournalEntry(tenantID, companyID, entryDate, valueobject.Currency("USD"), "Test entry")
	require.NoError(t, err)

	debit, err := ledger.NewDebitLine(debitAccount, amount, "debit side")
	require.NoError(t, err)
	credit, err := ledger.NewCreditLine(creditAccount, amount, "credit side")
	require.NoError(t, err)
	require.NoError(t, entry.AddLine(debit))
	require.NoError(t, entry.AddLine(credit))
	return entry
}

func TestJournalRepository_CreateAndFindByID(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	entryDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := newBalancedEntry(t, tenantID, companyID, entryDate, cash.ID, revenue.ID, decimal.NewFromInt(500))
	require.NoError(t, repo.Create(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.JournalStatusDraft, found.Status)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, cash.ID, found.Lines[0].AccountID)
	assert.True(t, found.IsBalanced())
}

func TestJournalRepository_Update_ReplacesLines(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	entryDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := newBalancedEntry(t, tenantID, companyID, entryDate, cash.ID, revenue.ID, decimal.NewFromInt(500))
	require.NoError(t, repo.Create(ctx, entry))

	debit, err := ledger.NewDebitLine(cash.ID, decimal.NewFromInt(750), "adjusted debit")
	require.NoError(t, err)
	credit, err := ledger.NewCreditLine(revenue.ID, decimal.NewFromInt(750), "adjusted credit")
	require.NoError(t, err)
	require.NoError(t, entry.SetLines([]ledger.JournalLine{debit, credit}))
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.True(t, found.TotalDebits().Equal(decimal.NewFromInt(750)))
}

func TestJournalRepository_NextEntryNumber(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	number, err := repo.NextEntryNumber(ctx, companyID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "JE-2026-000001", number)

	entryDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := newBalancedEntry(t, tenantID, companyID, entryDate, cash.ID, revenue.ID, decimal.NewFromInt(500))
	require.NoError(t, entry.Post(number, uuid.New()))
	require.NoError(t, repo.Create(ctx, entry))

	number, err = repo.NextEntryNumber(ctx, companyID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "JE-2026-000002", number)

	// Sequences restart per year
	number, err = repo.NextEntryNumber(ctx, companyID, 2027)
	require.NoError(t, err)
	assert.Equal(t, "JE-2027-000001", number)
}

func TestJournalRepository_CountDraftsInRange(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	inRange := newBalancedEntry(t, tenantID, companyID,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(100))
	outOfRange := newBalancedEntry(t, tenantID, companyID,
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(200))
	require.NoError(t, repo.Create(ctx, inRange))
	require.NoError(t, repo.Create(ctx, outOfRange))

	count, err := repo.CountDraftsInRange(ctx, companyID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJournalRepository_AccountBalances(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	post := func(day int, amount int64, seq int) {
		entry := newBalancedEntry(t, tenantID, companyID,
			time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(amount))
		require.NoError(t, entry.Post(fmt.Sprintf("JE-2026-%06d", seq), uuid.New()))
		require.NoError(t, repo.Create(ctx, entry))
	}
	post(5, 300, 1)
	post(20, 200, 2)

	// A draft never shows up in balances
	draft := newBalancedEntry(t, tenantID, companyID,
		time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(999))
	require.NoError(t, repo.Create(ctx, draft))

	balances, err := repo.AccountBalances(ctx, companyID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "1000", balances[0].AccountCode)
	assert.True(t, balances[0].Debits.Equal(decimal.NewFromInt(500)), "cash debits were %s", balances[0].Debits)
	assert.True(t, balances[0].Net().Equal(decimal.NewFromInt(500)))

	assert.Equal(t, "4000", balances[1].AccountCode)
	assert.True(t, balances[1].Credits.Equal(decimal.NewFromInt(500)))
	assert.True(t, balances[1].Net().Equal(decimal.NewFromInt(500)))
}

func TestJournalRepository_AccountBalances_ZeroFromMeansInception(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	equity := createTestAccount(t, db, companyID, "3000", "Owner Capital", ledger.AccountTypeEquity)

	entry := newBalancedEntry(t, tenantID, companyID,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), cash.ID, equity.ID, decimal.NewFromInt(1000))
	require.NoError(t, entry.Post("JE-2024-000001", uuid.New()))
	require.NoError(t, repo.Create(ctx, entry))

	balances, err := repo.AccountBalances(ctx, companyID,
		time.Time{}, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.True(t, balances[0].Debits.Equal(decimal.NewFromInt(1000)))
}

func TestJournalRepository_FindAll_Pagination(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	for day := 1; day <= 5; day++ {
		entry := newBalancedEntry(t, tenantID, companyID,
			time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(int64(day)))
		require.NoError(t, repo.Create(ctx, entry))
	}

	filter := ledger.NewJournalFilter(companyID).WithPagination(1, 2)
	entries, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, entries, 2)

	// Default sort is entry_date descending
	assert.True(t, entries[0].EntryDate.After(entries[1].EntryDate))
}

func TestJournalRepository_FindBySource(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	receivable := createTestAccount(t, db, companyID, "1100", "Accounts Receivable", ledger.AccountTypeAsset)

	invoiceID := uuid.New()
	entry := newBalancedEntry(t, tenantID, companyID,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), cash.ID, receivable.ID, decimal.NewFromInt(120))
	entry.Source = ledger.JournalSourceInvoice
	entry.SourceID = &invoiceID
	require.NoError(t, repo.Create(ctx, entry))

	entries, err := repo.FindBySource(ctx, ledger.JournalSourceInvoice, invoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	entries, err = repo.FindBySource(ctx, ledger.JournalSourceInvoice, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalRepository_Delete(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()
	cash := createTestAccount(t, db, companyID, "1000", "Cash", ledger.AccountTypeAsset)
	revenue := createTestAccount(t, db, companyID, "4000", "Sales Revenue", ledger.AccountTypeRevenue)

	entry := newBalancedEntry(t, tenantID, companyID,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, decimal.NewFromInt(100))
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, repo.Delete(ctx, entry.ID))

	_, err := repo.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Lines are removed along with the entry
	var lineCount int64
	require.NoError(t, db.Model(&models.JournalLineModel{}).Where("entry_id = ?", entry.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(0), lineCount)
}
