package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/invoicing"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/openbooks/backend/internal/domain/tax"
)

// buildDocumentLines converts line requests into domain lines.
// Tax rate percentages are resolved in one batch and snapshotted onto the
// lines, so later rate changes never alter this document. Lines on documents
// for tax-exempt parties keep a zero tax amount regardless of the rate
// they reference
func buildDocumentLines(
	ctx context.Context,
	taxRateRepo tax.TaxRateRepository,
	taxExempt bool,
	documentDate time.Time,
	requests []DocumentLineRequest,
) ([]invoicing.DocumentLine, error) {
	rates, err := resolveTaxRates(ctx, taxRateRepo, documentDate, requests)
	if err != nil {
		return nil, err
	}

	lines := make([]invoicing.DocumentLine, 0, len(requests))
	for _, req := range requests {
		line, err := invoicing.NewDocumentLine(req.Description, req.Quantity, req.UnitPrice)
		if err != nil {
			return nil, err
		}
		if req.TaxRateID != nil && !taxExempt {
			rate := rates[*req.TaxRateID]
			line, err = line.WithTax(rate.ID, rate.Percentage)
			if err != nil {
				return nil, err
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func resolveTaxRates(
	ctx context.Context,
	taxRateRepo tax.TaxRateRepository,
	documentDate time.Time,
	requests []DocumentLineRequest,
) (map[uuid.UUID]*tax.TaxRate, error) {
	ids := make([]uuid.UUID, 0, len(requests))
	seen := make(map[uuid.UUID]bool)
	for _, req := range requests {
		if req.TaxRateID == nil || seen[*req.TaxRateID] {
			continue
		}
		seen[*req.TaxRateID] = true
		ids = append(ids, *req.TaxRateID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*tax.TaxRate{}, nil
	}

	rates, err := taxRateRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rates: %w", err)
	}

	byID := make(map[uuid.UUID]*tax.TaxRate, len(rates))
	for _, rate := range rates {
		byID[rate.ID] = rate
	}
	for _, id := range ids {
		rate, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("TAX_RATE_NOT_FOUND", "A referenced tax rate does not exist")
		}
		if !rate.IsUsableOn(documentDate) {
			return nil, shared.NewDomainError("TAX_RATE_NOT_USABLE",
				fmt.Sprintf("Tax rate %s is not usable on the document date", rate.Code))
		}
	}
	return byID, nil
}
