package providers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openbooks/backend/internal/domain/printing"
	infra "github.com/openbooks/backend/internal/infrastructure/printing"
	"github.com/openbooks/backend/internal/infrastructure/printing/providers"
)

type stubProvider struct {
	docType printing.DocType
	data    *infra.DocumentData
	err     error
	calls   int
}

func (p *stubProvider) GetDocType() printing.DocType {
	return p.docType
}

func (p *stubProvider) GetData(ctx context.Context, tenantID, documentID uuid.UUID) (*infra.DocumentData, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	registry := providers.NewDataProviderRegistry()

	assert.False(t, registry.HasProvider(printing.DocTypeInvoice))
	assert.Empty(t, registry.RegisteredTypes())

	invoiceProvider := &stubProvider{docType: printing.DocTypeInvoice}
	billProvider := &stubProvider{docType: printing.DocTypeBill}
	registry.Register(invoiceProvider)
	registry.Register(billProvider)

	assert.True(t, registry.HasProvider(printing.DocTypeInvoice))
	assert.True(t, registry.HasProvider(printing.DocTypeBill))
	assert.False(t, registry.HasProvider(printing.DocTypeJournalEntry))
	assert.Len(t, registry.RegisteredTypes(), 2)

	got, ok := registry.GetProvider(printing.DocTypeInvoice)
	assert.True(t, ok)
	assert.Same(t, invoiceProvider, got)

	_, ok = registry.GetProvider(printing.DocTypePaymentVoucher)
	assert.False(t, ok)
}

func TestRegistry_RegisterReplacesExisting(t *testing.T) {
	registry := providers.NewDataProviderRegistry()

	first := &stubProvider{docType: printing.DocTypeInvoice}
	second := &stubProvider{docType: printing.DocTypeInvoice}
	registry.Register(first)
	registry.Register(second)

	got, ok := registry.GetProvider(printing.DocTypeInvoice)
	assert.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, registry.RegisteredTypes(), 1)
}

func TestRegistry_RegisterNil(t *testing.T) {
	registry := providers.NewDataProviderRegistry()
	registry.Register(nil)
	assert.Empty(t, registry.RegisteredTypes())
}

func TestRegistry_LoadData(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	documentID := uuid.New()

	data := &infra.DocumentData{
		Meta: infra.DocumentMeta{DocNo: "INV-2026-0001"},
	}
	provider := &stubProvider{docType: printing.DocTypeInvoice, data: data}

	registry := providers.NewDataProviderRegistry()
	registry.Register(provider)

	got, err := registry.LoadData(ctx, tenantID, printing.DocTypeInvoice, documentID)
	assert.NoError(t, err)
	assert.Same(t, data, got)
	assert.Equal(t, 1, provider.calls)
}

func TestRegistry_LoadData_NoProvider(t *testing.T) {
	registry := providers.NewDataProviderRegistry()

	got, err := registry.LoadData(context.Background(), uuid.New(), printing.DocTypeBill, uuid.New())
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "BILL")
}

func TestRegistry_LoadData_ProviderError(t *testing.T) {
	providerErr := errors.New("invoice not found")
	provider := &stubProvider{docType: printing.DocTypeInvoice, err: providerErr}

	registry := providers.NewDataProviderRegistry()
	registry.Register(provider)

	got, err := registry.LoadData(context.Background(), uuid.New(), printing.DocTypeInvoice, uuid.New())
	assert.ErrorIs(t, err, providerErr)
	assert.Nil(t, got)
}
