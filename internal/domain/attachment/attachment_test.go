package attachment

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttachment(t *testing.T, fileName, contentType string, size int64) *Attachment {
	t.Helper()
	a, err := NewAttachment(uuid.New(), OwnerTypeInvoice, uuid.New(), fileName, contentType, size, uuid.New())
	require.NoError(t, err)
	return a
}

func TestNewAttachment(t *testing.T) {
	t.Run("records metadata with derived storage key", func(t *testing.T) {
		tenantID := uuid.New()
		ownerID := uuid.New()

		a, err := NewAttachment(tenantID, OwnerTypeInvoice, ownerID, "receipt.pdf", "application/pdf", 1024, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, "receipt.pdf", a.FileName)
		assert.True(t, strings.HasPrefix(a.StorageKey, "tenants/"+tenantID.String()+"/invoice/"+ownerID.String()+"/"))
		assert.True(t, strings.HasSuffix(a.StorageKey, ".pdf"))
		assert.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("strips path components from file name", func(t *testing.T) {
		a := newTestAttachment(t, "../../etc/passwd.pdf", "application/pdf", 512)

		assert.Equal(t, "passwd.pdf", a.FileName)
	})

	t.Run("strips windows path separators", func(t *testing.T) {
		a := newTestAttachment(t, `C:\Users\alice\scan.png`, "image/png", 512)

		assert.Equal(t, "scan.png", a.FileName)
	})

	t.Run("normalizes content type", func(t *testing.T) {
		a := newTestAttachment(t, "scan.png", " IMAGE/PNG ", 512)

		assert.Equal(t, "image/png", a.ContentType)
	})

	t.Run("rejects unsupported content type", func(t *testing.T) {
		_, err := NewAttachment(uuid.New(), OwnerTypeInvoice, uuid.New(), "app.exe", "application/x-msdownload", 512, uuid.New())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("rejects zero size", func(t *testing.T) {
		_, err := NewAttachment(uuid.New(), OwnerTypeInvoice, uuid.New(), "empty.pdf", "application/pdf", 0, uuid.New())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		_, err := NewAttachment(uuid.New(), OwnerTypeInvoice, uuid.New(), "huge.pdf", "application/pdf", MaxFileSize+1, uuid.New())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("rejects invalid owner type", func(t *testing.T) {
		_, err := NewAttachment(uuid.New(), OwnerType("widget"), uuid.New(), "a.pdf", "application/pdf", 1, uuid.New())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Owner type")
	})
}

func TestAttachment_Extension(t *testing.T) {
	a := newTestAttachment(t, "Invoice-0042.PDF", "application/pdf", 100)

	assert.Equal(t, ".pdf", a.Extension())
}

func TestAttachment_SetDescription(t *testing.T) {
	t.Run("sets description", func(t *testing.T) {
		a := newTestAttachment(t, "receipt.pdf", "application/pdf", 100)

		require.NoError(t, a.SetDescription("March phone bill"))

		assert.Equal(t, "March phone bill", a.Description)
	})

	t.Run("rejects overly long description", func(t *testing.T) {
		a := newTestAttachment(t, "receipt.pdf", "application/pdf", 100)

		err := a.SetDescription(strings.Repeat("x", 501))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 500")
	})
}

func TestAttachment_MarkDeleted(t *testing.T) {
	a := newTestAttachment(t, "receipt.pdf", "application/pdf", 100)
	a.ClearDomainEvents()

	a.MarkDeleted(uuid.New())

	events := a.GetDomainEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(*AttachmentDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, a.StorageKey, deleted.StorageKey)
}
