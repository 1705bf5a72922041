package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/ledger"
)

func balance(code, name string, accountType ledger.AccountType, debits, credits string) ledger.AccountBalance {
	return ledger.AccountBalance{
		AccountID:   uuid.New(),
		AccountCode: code,
		AccountName: name,
		AccountType: accountType,
		Debits:      decimal.RequireFromString(debits),
		Credits:     decimal.RequireFromString(credits),
	}
}

func TestBuildTrialBalance(t *testing.T) {
	companyID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	balances := []ledger.AccountBalance{
		balance("1000", "Cash", ledger.AccountTypeAsset, "1500.00", "200.00"),
		balance("4000", "Sales Revenue", ledger.AccountTypeRevenue, "0", "1300.00"),
		balance("1100", "Accounts Receivable", ledger.AccountTypeAsset, "0", "0"),
	}

	tb := BuildTrialBalance(companyID, from, to, balances)

	// Zero-activity accounts are dropped
	require.Len(t, tb.Rows, 2)
	assert.True(t, tb.TotalDebits.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, tb.TotalCredits.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, tb.Balanced)
}

func TestBuildTrialBalance_Unbalanced(t *testing.T) {
	companyID := uuid.New()
	now := time.Now()

	tb := BuildTrialBalance(companyID, now.AddDate(0, -1, 0), now, []ledger.AccountBalance{
		balance("1000", "Cash", ledger.AccountTypeAsset, "100.00", "0"),
	})

	assert.False(t, tb.Balanced)
}

func TestBuildBalanceSheet_RollsEarningsIntoEquity(t *testing.T) {
	companyID := uuid.New()
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	// Owner invests 1000, sells services for 500 cash, pays 200 rent
	balances := []ledger.AccountBalance{
		balance("1000", "Cash", ledger.AccountTypeAsset, "1500.00", "200.00"),
		balance("3000", "Owner Capital", ledger.AccountTypeEquity, "0", "1000.00"),
		balance("4000", "Service Revenue", ledger.AccountTypeRevenue, "0", "500.00"),
		balance("5000", "Rent Expense", ledger.AccountTypeExpense, "200.00", "0"),
	}

	bs := BuildBalanceSheet(companyID, asOf, balances)

	assert.True(t, bs.Assets.Total.Equal(decimal.RequireFromString("1300.00")))
	assert.True(t, bs.Liabilities.Total.IsZero())
	assert.True(t, bs.Equity.Total.Equal(decimal.RequireFromString("1300.00")))
	assert.True(t, bs.Balanced)

	require.Len(t, bs.Equity.Lines, 2)
	earningsLine := bs.Equity.Lines[len(bs.Equity.Lines)-1]
	assert.Equal(t, CurrentEarningsLabel, earningsLine.AccountName)
	assert.True(t, earningsLine.Balance.Equal(decimal.RequireFromString("300.00")))
}

func TestBuildBalanceSheet_WithLiabilities(t *testing.T) {
	companyID := uuid.New()

	balances := []ledger.AccountBalance{
		balance("1000", "Cash", ledger.AccountTypeAsset, "800.00", "0"),
		balance("2000", "Accounts Payable", ledger.AccountTypeLiability, "0", "300.00"),
		balance("3000", "Owner Capital", ledger.AccountTypeEquity, "0", "500.00"),
	}

	bs := BuildBalanceSheet(companyID, time.Now(), balances)

	assert.True(t, bs.Liabilities.Total.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, bs.Balanced)
	// No activity in revenue or expense accounts, no earnings line
	require.Len(t, bs.Equity.Lines, 1)
}

func TestBuildIncomeStatement(t *testing.T) {
	companyID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	balances := []ledger.AccountBalance{
		balance("1000", "Cash", ledger.AccountTypeAsset, "900.00", "400.00"),
		balance("4000", "Service Revenue", ledger.AccountTypeRevenue, "0", "900.00"),
		balance("5000", "Rent Expense", ledger.AccountTypeExpense, "300.00", "0"),
		balance("5100", "Salaries Expense", ledger.AccountTypeExpense, "100.00", "0"),
	}

	is := BuildIncomeStatement(companyID, from, to, balances)

	// Asset activity does not appear on the income statement
	require.Len(t, is.RevenueLines, 1)
	require.Len(t, is.ExpenseLines, 2)
	assert.True(t, is.TotalRevenue.Equal(decimal.RequireFromString("900.00")))
	assert.True(t, is.TotalExpenses.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, is.NetIncome.Equal(decimal.RequireFromString("500.00")))
}

func TestBuildIncomeStatement_NetLoss(t *testing.T) {
	companyID := uuid.New()

	is := BuildIncomeStatement(companyID, time.Now().AddDate(0, -1, 0), time.Now(), []ledger.AccountBalance{
		balance("4000", "Service Revenue", ledger.AccountTypeRevenue, "0", "100.00"),
		balance("5000", "Rent Expense", ledger.AccountTypeExpense, "250.00", "0"),
	})

	assert.True(t, is.NetIncome.Equal(decimal.RequireFromString("-150.00")))
}
