package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/identity"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/printing"
	"github.com/openbooks/backend/internal/domain/shared"
	infra "github.com/openbooks/backend/internal/infrastructure/printing"
)

// JournalEntryProvider implements DataProvider for the JOURNAL_ENTRY document
// type. It renders general ledger vouchers with account codes resolved per line.
type JournalEntryProvider struct {
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	companyRepo identity.CompanyRepository
}

// NewJournalEntryProvider creates a new JournalEntryProvider.
func NewJournalEntryProvider(
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	companyRepo identity.CompanyRepository,
) *JournalEntryProvider {
	return &JournalEntryProvider{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		companyRepo: companyRepo,
	}
}

// GetDocType returns the document type this provider handles.
func (p *JournalEntryProvider) GetDocType() printing.DocType {
	return printing.DocTypeJournalEntry
}

// GetData retrieves journal entry data for rendering.
func (p *JournalEntryProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	entry, err := p.journalRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}
	if entry.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}

	company, err := p.companyRepo.FindByID(ctx, tenantID, entry.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	currency := entry.Currency.String()

	// Resolve each line to its account; accounts are cached so a multi-line
	// entry hitting the same account loads it once
	accounts := make(map[uuid.UUID]*ledger.Account)
	lines := make([]infra.JournalLineData, len(entry.Lines))
	for i, line := range entry.Lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			account, err = p.accountRepo.FindByID(ctx, line.AccountID)
			if err != nil {
				return nil, fmt.Errorf("failed to load account: %w", err)
			}
			accounts[line.AccountID] = account
		}

		lines[i] = infra.JournalLineData{
			Index:       i + 1,
			AccountCode: account.Code,
			AccountName: account.Name,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
		}
		if line.Debit.IsPositive() {
			lines[i].DebitFormatted = infra.FormatMoneyValue(currency, line.Debit)
		}
		if line.Credit.IsPositive() {
			lines[i].CreditFormatted = infra.FormatMoneyValue(currency, line.Credit)
		}
	}

	// Draft entries have no posted number yet
	docNo := entry.EntryNumber
	if docNo == "" {
		docNo = "DRAFT"
	}

	docData := infra.NewDocumentData(printing.DocTypeJournalEntry, docNo)
	docData.Meta.Currency = currency
	docData.Meta.Status = string(entry.Status)
	docData.Meta.StatusText = statusToText(string(entry.Status))
	docData.Meta.CreatedAt = entry.CreatedAt
	docData.Meta.UpdatedAt = entry.UpdatedAt
	docData.Meta.Memo = entry.Memo
	docData.Company = buildCompanyInfo(company)

	totalDebits := entry.TotalDebits()
	totalCredits := entry.TotalCredits()

	docData.Document = infra.JournalEntryData{
		ID:           entry.ID,
		EntryNumber:  entry.EntryNumber,
		EntryDate:    entry.EntryDate,
		Currency:     currency,
		Source:       string(entry.Source),
		Status:       string(entry.Status),
		Lines:        lines,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		PostedAt:     entry.PostedAt,
		Memo:         entry.Memo,

		EntryDateFormatted:    entry.EntryDate.Format("2006-01-02"),
		TotalDebitsFormatted:  infra.FormatMoneyValue(currency, totalDebits),
		TotalCreditsFormatted: infra.FormatMoneyValue(currency, totalCredits),
	}

	return docData, nil
}
