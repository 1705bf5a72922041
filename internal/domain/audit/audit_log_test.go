package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditLog(t *testing.T) {
	t.Run("records an action", func(t *testing.T) {
		tenantID := uuid.New()
		actorID := uuid.New()
		entityID := uuid.New()

		entry, err := NewAuditLog(tenantID, actorID, "alice", ActionInvoiceApproved, "Invoice", entityID, "Approved INV-2026-000017")

		require.NoError(t, err)
		assert.Equal(t, ActionInvoiceApproved, entry.Action)
		assert.Equal(t, "alice", entry.ActorName)
		assert.Equal(t, entityID, entry.EntityID)
		assert.False(t, entry.OccurredAt.IsZero())
	})

	t.Run("truncates long summaries", func(t *testing.T) {
		entry, err := NewAuditLog(uuid.New(), uuid.New(), "alice", ActionPeriodClosed, "AccountingPeriod", uuid.New(), strings.Repeat("x", 600))

		require.NoError(t, err)
		assert.Len(t, entry.Summary, 500)
	})

	t.Run("fails with empty action", func(t *testing.T) {
		_, err := NewAuditLog(uuid.New(), uuid.New(), "alice", "  ", "Invoice", uuid.New(), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Action must be")
	})

	t.Run("fails with empty actor", func(t *testing.T) {
		_, err := NewAuditLog(uuid.New(), uuid.Nil, "alice", ActionJournalPosted, "JournalEntry", uuid.New(), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Actor ID cannot be empty")
	})
}

func TestAuditLog_WithSnapshots(t *testing.T) {
	t.Run("marshals before and after state", func(t *testing.T) {
		entry, err := NewAuditLog(uuid.New(), uuid.New(), "alice", ActionRoleChanged, "Role", uuid.New(), "Added journal:approve")
		require.NoError(t, err)

		entry.WithSnapshots(
			map[string]any{"permissions": []string{"journal:create"}},
			map[string]any{"permissions": []string{"journal:create", "journal:approve"}},
		)

		assert.Contains(t, entry.Before, "journal:create")
		assert.Contains(t, entry.After, "journal:approve")
	})

	t.Run("nil snapshots stay empty", func(t *testing.T) {
		entry, err := NewAuditLog(uuid.New(), uuid.New(), "alice", ActionUserLocked, "User", uuid.New(), "")
		require.NoError(t, err)

		entry.WithSnapshots(nil, nil)

		assert.Empty(t, entry.Before)
		assert.Empty(t, entry.After)
	})
}

func TestAuditLogFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		filter := NewAuditLogFilter(uuid.New())

		assert.Equal(t, 0, filter.Offset())
		assert.Equal(t, 50, filter.Limit())
	})

	t.Run("caps page size", func(t *testing.T) {
		filter := NewAuditLogFilter(uuid.New()).WithPagination(2, 500)

		assert.Equal(t, 100, filter.Limit())
		assert.Equal(t, 100, filter.Offset())
	})

	t.Run("builders compose", func(t *testing.T) {
		actorID := uuid.New()
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		filter := NewAuditLogFilter(uuid.New()).
			WithActor(actorID).
			WithAction(ActionPaymentConfirmed).
			WithTimeRange(from, to)

		require.NotNil(t, filter.ActorID)
		assert.Equal(t, actorID, *filter.ActorID)
		assert.Equal(t, ActionPaymentConfirmed, filter.Action)
		assert.Equal(t, from, *filter.From)
	})
}
