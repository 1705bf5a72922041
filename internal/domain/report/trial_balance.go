package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// TrialBalanceRow is the activity of one account over the reporting range
type TrialBalanceRow struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
}

// TrialBalance is a read model listing per-account debit and credit totals
// over posted journal entries in a date range
type TrialBalance struct {
	CompanyID    uuid.UUID         `json:"company_id"`
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	Balanced     bool              `json:"balanced"`
}

// BuildTrialBalance assembles a trial balance from aggregated account
// activity. Accounts with no movement in the range are omitted.
func BuildTrialBalance(companyID uuid.UUID, from, to time.Time, balances []ledger.AccountBalance) *TrialBalance {
	tb := &TrialBalance{
		CompanyID:    companyID,
		From:         from,
		To:           to,
		Rows:         make([]TrialBalanceRow, 0, len(balances)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, b := range balances {
		if b.Debits.IsZero() && b.Credits.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountID:   b.AccountID,
			AccountCode: b.AccountCode,
			AccountName: b.AccountName,
			AccountType: string(b.AccountType),
			Debits:      b.Debits,
			Credits:     b.Credits,
		})
		tb.TotalDebits = tb.TotalDebits.Add(b.Debits)
		tb.TotalCredits = tb.TotalCredits.Add(b.Credits)
	}

	tb.Balanced = tb.TotalDebits.Equal(tb.TotalCredits)

	return tb
}
