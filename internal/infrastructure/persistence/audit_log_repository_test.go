package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/audit"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&audit.AuditLog{})
	require.NoError(t, err)

	return db
}

func appendTestLog(t *testing.T, repo audit.AuditLogRepository, tenantID, actorID uuid.UUID, action string, entityID uuid.UUID) *audit.AuditLog {
	log, err := audit.NewAuditLog(tenantID, actorID, "Jane Auditor", action, "invoice", entityID, "approved invoice INV-2026-0001")
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), log))
	return log
}

func TestAuditLogRepository_AppendAndFindByID(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	entityID := uuid.New()
	log, err := audit.NewAuditLog(tenantID, uuid.New(), "Jane Auditor", audit.ActionInvoiceApproved, "invoice", entityID, "approved")
	require.NoError(t, err)
	log.WithSnapshots(map[string]string{"status": "DRAFT"}, map[string]string{"status": "APPROVED"}).
		WithIPAddress("203.0.113.7")
	require.NoError(t, repo.Append(ctx, log))

	found, err := repo.FindByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionInvoiceApproved, found.Action)
	assert.Contains(t, found.Before, "DRAFT")
	assert.Contains(t, found.After, "APPROVED")
	assert.Equal(t, "203.0.113.7", found.IPAddress)
}

func TestAuditLogRepository_FindAll_Filters(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	actorID := uuid.New()
	appendTestLog(t, repo, tenantID, actorID, audit.ActionInvoiceApproved, uuid.New())
	appendTestLog(t, repo, tenantID, actorID, audit.ActionJournalPosted, uuid.New())
	appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionInvoiceApproved, uuid.New())
	appendTestLog(t, repo, uuid.New(), actorID, audit.ActionInvoiceApproved, uuid.New())

	logs, total, err := repo.FindAll(ctx, audit.NewAuditLogFilter(tenantID))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 3)

	logs, total, err = repo.FindAll(ctx, audit.NewAuditLogFilter(tenantID).WithActor(actorID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	logs, total, err = repo.FindAll(ctx, audit.NewAuditLogFilter(tenantID).WithAction(audit.ActionJournalPosted))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, audit.ActionJournalPosted, logs[0].Action)

	logs, total, err = repo.FindAll(ctx,
		audit.NewAuditLogFilter(tenantID).WithTimeRange(time.Now().Add(time.Hour), time.Now().Add(2*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, logs)
}

func TestAuditLogRepository_FindAll_Pagination(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	for i := 0; i < 5; i++ {
		appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionPaymentConfirmed, uuid.New())
	}

	logs, total, err := repo.FindAll(ctx, audit.NewAuditLogFilter(tenantID).WithPagination(2, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, logs, 2)
}

func TestAuditLogRepository_FindByEntity(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	entityID := uuid.New()

	first, err := audit.NewAuditLog(tenantID, uuid.New(), "Jane Auditor", audit.ActionInvoiceApproved, "invoice", entityID, "approved")
	require.NoError(t, err)
	first.OccurredAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Append(ctx, first))

	second := appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionPaymentConfirmed, entityID)
	appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionInvoiceApproved, uuid.New())

	logs, err := repo.FindByEntity(ctx, tenantID, "invoice", entityID)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first
	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, first.ID, logs[1].ID)
}

func TestAuditLogRepository_CountForTenant(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionUserLocked, uuid.New())
	appendTestLog(t, repo, tenantID, uuid.New(), audit.ActionRoleChanged, uuid.New())
	appendTestLog(t, repo, uuid.New(), uuid.New(), audit.ActionUserLocked, uuid.New())

	count, err := repo.CountForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
