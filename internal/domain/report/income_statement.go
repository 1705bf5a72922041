package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// IncomeStatementLine is one revenue or expense account's net activity
type IncomeStatementLine struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement is a read model of revenue and expense activity over a
// date range
type IncomeStatement struct {
	CompanyID     uuid.UUID             `json:"company_id"`
	From          time.Time             `json:"from"`
	To            time.Time             `json:"to"`
	RevenueLines  []IncomeStatementLine `json:"revenue_lines"`
	ExpenseLines  []IncomeStatementLine `json:"expense_lines"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	TotalExpenses decimal.Decimal       `json:"total_expenses"`
	NetIncome     decimal.Decimal       `json:"net_income"`
}

// BuildIncomeStatement assembles an income statement from aggregated account
// activity. Only revenue and expense accounts contribute; accounts with no
// net movement are omitted.
func BuildIncomeStatement(companyID uuid.UUID, from, to time.Time, balances []ledger.AccountBalance) *IncomeStatement {
	is := &IncomeStatement{
		CompanyID:     companyID,
		From:          from,
		To:            to,
		RevenueLines:  []IncomeStatementLine{},
		ExpenseLines:  []IncomeStatementLine{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, b := range balances {
		net := b.Net()
		if net.IsZero() {
			continue
		}

		line := IncomeStatementLine{
			AccountID:   b.AccountID,
			AccountCode: b.AccountCode,
			AccountName: b.AccountName,
			Amount:      net,
		}

		switch b.AccountType {
		case ledger.AccountTypeRevenue:
			is.RevenueLines = append(is.RevenueLines, line)
			is.TotalRevenue = is.TotalRevenue.Add(net)
		case ledger.AccountTypeExpense:
			is.ExpenseLines = append(is.ExpenseLines, line)
			is.TotalExpenses = is.TotalExpenses.Add(net)
		}
	}

	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)

	return is
}
