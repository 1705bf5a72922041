package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// CurrentEarningsLabel names the synthetic equity line that rolls the
// period's revenue and expense activity into the balance sheet
const CurrentEarningsLabel = "Current Period Earnings"

// BalanceSheetLine is a single account balance within a section
type BalanceSheetLine struct {
	AccountID   uuid.UUID       `json:"account_id,omitempty"`
	AccountCode string          `json:"account_code,omitempty"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetSection groups lines of one account type with a subtotal
type BalanceSheetSection struct {
	Lines []BalanceSheetLine `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// BalanceSheet is a read model of financial position as of a date.
// Revenue and expense activity up to the date is rolled into equity as a
// synthetic current earnings line, so a sheet built from balanced journals
// always satisfies assets == liabilities + equity.
type BalanceSheet struct {
	CompanyID   uuid.UUID           `json:"company_id"`
	AsOf        time.Time           `json:"as_of"`
	Assets      BalanceSheetSection `json:"assets"`
	Liabilities BalanceSheetSection `json:"liabilities"`
	Equity      BalanceSheetSection `json:"equity"`
	Balanced    bool                `json:"balanced"`
}

// BuildBalanceSheet assembles a balance sheet from account activity
// aggregated since inception through the as-of date
func BuildBalanceSheet(companyID uuid.UUID, asOf time.Time, balances []ledger.AccountBalance) *BalanceSheet {
	bs := &BalanceSheet{
		CompanyID:   companyID,
		AsOf:        asOf,
		Assets:      BalanceSheetSection{Lines: []BalanceSheetLine{}, Total: decimal.Zero},
		Liabilities: BalanceSheetSection{Lines: []BalanceSheetLine{}, Total: decimal.Zero},
		Equity:      BalanceSheetSection{Lines: []BalanceSheetLine{}, Total: decimal.Zero},
	}

	earnings := decimal.Zero

	for _, b := range balances {
		net := b.Net()
		if net.IsZero() {
			continue
		}

		line := BalanceSheetLine{
			AccountID:   b.AccountID,
			AccountCode: b.AccountCode,
			AccountName: b.AccountName,
			Balance:     net,
		}

		switch b.AccountType {
		case ledger.AccountTypeAsset:
			bs.Assets.Lines = append(bs.Assets.Lines, line)
			bs.Assets.Total = bs.Assets.Total.Add(net)
		case ledger.AccountTypeLiability:
			bs.Liabilities.Lines = append(bs.Liabilities.Lines, line)
			bs.Liabilities.Total = bs.Liabilities.Total.Add(net)
		case ledger.AccountTypeEquity:
			bs.Equity.Lines = append(bs.Equity.Lines, line)
			bs.Equity.Total = bs.Equity.Total.Add(net)
		case ledger.AccountTypeRevenue:
			earnings = earnings.Add(net)
		case ledger.AccountTypeExpense:
			earnings = earnings.Sub(net)
		}
	}

	if !earnings.IsZero() {
		bs.Equity.Lines = append(bs.Equity.Lines, BalanceSheetLine{
			AccountName: CurrentEarningsLabel,
			Balance:     earnings,
		})
		bs.Equity.Total = bs.Equity.Total.Add(earnings)
	}

	bs.Balanced = bs.Assets.Total.Equal(bs.Liabilities.Total.Add(bs.Equity.Total))

	return bs
}
