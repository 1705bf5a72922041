package ledger

import (
	"github.com/openbooks/backend/internal/domain/shared"
)

// Aggregate type constant for JournalEntry
const AggregateTypeJournalEntry = "JournalEntry"

// Journal domain event types
const (
	EventTypeJournalEntryPosted = "JournalEntryPosted"
	EventTypeJournalEntryVoided = "JournalEntryVoided"
)

// JournalEntryPostedEvent is published when an entry is posted to the ledger
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryNumber string `json:"entry_number"`
	Source      string `json:"source"`
	TotalDebits string `json:"total_debits"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, AggregateTypeJournalEntry, entry.ID, entry.TenantID),
		EntryNumber:     entry.EntryNumber,
		Source:          string(entry.Source),
		TotalDebits:     entry.TotalDebits().String(),
	}
}

// JournalEntryVoidedEvent is published when a posted entry is voided
type JournalEntryVoidedEvent struct {
	shared.BaseDomainEvent
	EntryNumber string `json:"entry_number"`
	Reason      string `json:"reason"`
}

// NewJournalEntryVoidedEvent creates a new JournalEntryVoidedEvent
func NewJournalEntryVoidedEvent(entry *JournalEntry) *JournalEntryVoidedEvent {
	return &JournalEntryVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryVoided, AggregateTypeJournalEntry, entry.ID, entry.TenantID),
		EntryNumber:     entry.EntryNumber,
		Reason:          entry.VoidReason,
	}
}
