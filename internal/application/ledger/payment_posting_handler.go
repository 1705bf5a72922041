package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// PaymentPostingHandler posts cash journals for confirmed payments and
// reverses them when a payment is voided. A received payment debits cash
// and credits accounts receivable; a made payment debits accounts payable
// and credits cash.
type PaymentPostingHandler struct {
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	logger      *zap.Logger
}

// NewPaymentPostingHandler creates a new handler for payment events
func NewPaymentPostingHandler(
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	logger *zap.Logger,
) *PaymentPostingHandler {
	return &PaymentPostingHandler{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PaymentPostingHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypePaymentConfirmed,
		invoicing.EventTypePaymentVoided,
	}
}

// Handle posts or reverses the cash journal for a payment
func (h *PaymentPostingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoicing.PaymentConfirmedEvent:
		return h.postPayment(ctx, e)
	case *invoicing.PaymentVoidedEvent:
		return h.reversePayment(ctx, e)
	default:
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *PaymentPostingHandler) postPayment(ctx context.Context, event *invoicing.PaymentConfirmedEvent) error {
	entries, err := h.journalRepo.FindBySource(ctx, ledger.JournalSourcePayment, event.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to check existing journal: %w", err)
	}
	for _, entry := range entries {
		if entry.Status != ledger.JournalStatusVoid {
			h.logger.Warn("journal already exists for payment, skipping",
				zap.String("payment_id", event.PaymentID.String()),
				zap.String("payment_number", event.PaymentNumber),
			)
			return nil
		}
	}

	cash, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeCash)
	if err != nil {
		return fmt.Errorf("failed to resolve cash account: %w", err)
	}

	memo := fmt.Sprintf("Payment %s confirmed", event.PaymentNumber)
	var lines []ledger.JournalLine
	switch event.Direction {
	case invoicing.PaymentDirectionReceived:
		receivable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeAccountsReceivable)
		if err != nil {
			return fmt.Errorf("failed to resolve receivable account: %w", err)
		}
		debit, err := ledger.NewDebitLine(cash.ID, event.Amount, memo)
		if err != nil {
			return err
		}
		credit, err := ledger.NewCreditLine(receivable.ID, event.Amount, memo)
		if err != nil {
			return err
		}
		lines = []ledger.JournalLine{debit, credit}
	case invoicing.PaymentDirectionMade:
		payable, err := h.accountRepo.FindByCode(ctx, event.CompanyID, ledger.AccountCodeAccountsPayable)
		if err != nil {
			return fmt.Errorf("failed to resolve payable account: %w", err)
		}
		debit, err := ledger.NewDebitLine(payable.ID, event.Amount, memo)
		if err != nil {
			return err
		}
		credit, err := ledger.NewCreditLine(cash.ID, event.Amount, memo)
		if err != nil {
			return err
		}
		lines = []ledger.JournalLine{debit, credit}
	default:
		return fmt.Errorf("unknown payment direction: %s", event.Direction)
	}

	entry, err := ledger.NewSourcedJournalEntry(
		event.TenantID(), event.CompanyID, event.PaymentDate,
		valueobject.Currency(event.Currency), memo,
		ledger.JournalSourcePayment, event.PaymentID,
	)
	if err != nil {
		return err
	}
	if err := entry.SetLines(lines); err != nil {
		return err
	}

	return h.postEntry(ctx, entry)
}

// reversePayment builds and posts a reversal of the payment's cash journal
func (h *PaymentPostingHandler) reversePayment(ctx context.Context, event *invoicing.PaymentVoidedEvent) error {
	entries, err := h.journalRepo.FindBySource(ctx, ledger.JournalSourcePayment, event.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment journal: %w", err)
	}

	var original *ledger.JournalEntry
	for _, entry := range entries {
		if entry.IsPosted() {
			original = entry
			break
		}
	}
	if original == nil {
		h.logger.Warn("no posted journal found for voided payment, skipping",
			zap.String("payment_id", event.PaymentID.String()),
			zap.String("payment_number", event.PaymentNumber),
		)
		return nil
	}

	reversed, err := h.alreadyReversed(ctx, original.ID)
	if err != nil {
		return err
	}
	if reversed {
		h.logger.Warn("payment journal already reversed, skipping",
			zap.String("payment_id", event.PaymentID.String()),
		)
		return nil
	}

	memo := fmt.Sprintf("Payment %s voided: %s", event.PaymentNumber, event.Reason)
	reversal, err := original.BuildReversal(time.Now(), memo)
	if err != nil {
		return err
	}

	return h.postEntry(ctx, reversal)
}

func (h *PaymentPostingHandler) alreadyReversed(ctx context.Context, originalID uuid.UUID) (bool, error) {
	entries, err := h.journalRepo.FindBySource(ctx, ledger.JournalSourceReversal, originalID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing reversal: %w", err)
	}
	for _, entry := range entries {
		if entry.Status != ledger.JournalStatusVoid {
			return true, nil
		}
	}
	return false, nil
}

func (h *PaymentPostingHandler) postEntry(ctx context.Context, entry *ledger.JournalEntry) error {
	entryNumber, err := h.journalRepo.NextEntryNumber(ctx, entry.CompanyID, entry.EntryDate.Year())
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}
	if err := entry.Post(entryNumber, uuid.Nil); err != nil {
		return err
	}

	if err := h.journalRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	h.logger.Info("posted journal for payment event",
		zap.String("entry_number", entryNumber),
		zap.String("source", string(entry.Source)),
	)
	return nil
}
