package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// DocumentPostingHandler posts general ledger journals for approved
// invoices and bills. An approved invoice debits accounts receivable and
// credits revenue and sales tax payable; an approved bill mirrors that on
// the payable side.
type DocumentPostingHandler struct {
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	logger      *zap.Logger
}

// NewDocumentPostingHandler creates a new handler for approved document events
func NewDocumentPostingHandler(
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	logger *zap.Logger,
) *DocumentPostingHandler {
	return &DocumentPostingHandler{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DocumentPostingHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceApproved,
		invoicing.EventTypeBillApproved,
	}
}

// Handle posts the journal for an approved invoice or bill
func (h *DocumentPostingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoicing.InvoiceApprovedEvent:
		return h.postInvoice(ctx, e)
	case *invoicing.BillApprovedEvent:
		return h.postBill(ctx, e)
	default:
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *DocumentPostingHandler) postInvoice(ctx context.Context, event *invoicing.InvoiceApprovedEvent) error {
	posted, err := h.alreadyPosted(ctx, ledger.JournalSourceInvoice, event.InvoiceID)
	if err != nil {
		return err
	}
	if posted {
		h.logger.Warn("journal already exists for invoice, skipping",
			zap.String("invoice_id", event.InvoiceID.String()),
			zap.String("invoice_number", event.InvoiceNumber),
		)
		return nil
	}

	receivable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeAccountsReceivable)
	if err != nil {
		return fmt.Errorf("failed to resolve receivable account: %w", err)
	}
	revenue, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeRevenue)
	if err != nil {
		return fmt.Errorf("failed to resolve revenue account: %w", err)
	}

	memo := fmt.Sprintf("Invoice %s approved", event.InvoiceNumber)
	lines := []journalLineSpec{
		{accountID: receivable.ID, debit: event.Total, description: memo},
		{accountID: revenue.ID, credit: event.Subtotal, description: memo},
	}
	if event.TaxTotal.IsPositive() {
		taxPayable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeSalesTaxPayable)
		if err != nil {
			return fmt.Errorf("failed to resolve tax payable account: %w", err)
		}
		lines = append(lines, journalLineSpec{accountID: taxPayable.ID, credit: event.TaxTotal, description: memo})
	}

	return h.post(ctx, event.TenantID(), event.CompanyID, event.IssueDate,
		valueobject.Currency(event.Currency), memo,
		ledger.JournalSourceInvoice, event.InvoiceID, lines)
}

func (h *DocumentPostingHandler) postBill(ctx context.Context, event *invoicing.BillApprovedEvent) error {
	posted, err := h.alreadyPosted(ctx, ledger.JournalSourceBill, event.BillID)
	if err != nil {
		return err
	}
	if posted {
		h.logger.Warn("journal already exists for bill, skipping",
			zap.String("bill_id", event.BillID.String()),
			zap.String("bill_number", event.BillNumber),
		)
		return nil
	}

	payable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeAccountsPayable)
	if err != nil {
		return fmt.Errorf("failed to resolve payable account: %w", err)
	}
	expense, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeExpense)
	if err != nil {
		return fmt.Errorf("failed to resolve expense account: %w", err)
	}

	memo := fmt.Sprintf("Bill %s approved", event.BillNumber)
	lines := []journalLineSpec{
		{accountID: expense.ID, debit: event.Subtotal, description: memo},
		{accountID: payable.ID, credit: event.Total, description: memo},
	}
	if event.TaxTotal.IsPositive() {
		taxPayable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeSalesTaxPayable)
		if err != nil {
			return fmt.Errorf("failed to resolve tax payable account: %w", err)
		}
		lines = append(lines, journalLineSpec{accountID: taxPayable.ID, debit: event.TaxTotal, description: memo})
	}

	return h.post(ctx, event.TenantID(), event.CompanyID, event.BillDate,
		valueobject.Currency(event.Currency), memo,
		ledger.JournalSourceBill, event.BillID, lines)
}

func (h *DocumentPostingHandler) alreadyPosted(ctx context.Context, source ledger.JournalSource, sourceID uuid.UUID) (bool, error) {
	entries, err := h.journalRepo.FindBySource(ctx, source, sourceID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing journal: %w", err)
	}
	for _, entry := range entries {
		if entry.Status != ledger.JournalStatusVoid {
			return true, nil
		}
	}
	return false, nil
}

// journalLineSpec is the internal shape handlers use to assemble entries
type journalLineSpec struct {
	accountID   uuid.UUID
	debit       decimal.Decimal
	credit      decimal.Decimal
	description string
}

func (h *DocumentPostingHandler) post(
	ctx context.Context,
	tenantID, companyID uuid.UUID,
	entryDate time.Time,
	currency valueobject.Currency,
	memo string,
	source ledger.JournalSource,
	sourceID uuid.UUID,
	specs []journalLineSpec,
) error {
	entry, err := ledger.NewSourcedJournalEntry(tenantID, companyID, entryDate, currency, memo, source, sourceID)
	if err != nil {
		return err
	}

	lines := make([]ledger.JournalLine, 0, len(specs))
	for _, spec := range specs {
		var line ledger.JournalLine
		if spec.debit.IsPositive() {
			line, err = ledger.NewDebitLine(spec.accountID, spec.debit, spec.description)
		} else {
			line, err = ledger.NewCreditLine(spec.accountID, spec.credit, spec.description)
		}
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := entry.SetLines(lines); err != nil {
		return err
	}

	entryNumber, err := h.journalRepo.NextEntryNumber(ctx, companyID, entryDate.Year())
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}
	if err := entry.Post(entryNumber, uuid.Nil); err != nil {
		return err
	}

	if err := h.journalRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	h.logger.Info("posted journal for source document",
		zap.String("entry_number", entryNumber),
		zap.String("source", string(source)),
		zap.String("source_id", sourceID.String()),
	)
	return nil
}
