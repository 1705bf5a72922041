package billing

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// PlanCode identifies a subscription plan
type PlanCode string

const (
	PlanFree     PlanCode = "free"
	PlanStandard PlanCode = "standard"
	PlanPremium  PlanCode = "premium"
)

// IsValid checks if the plan code is valid
func (c PlanCode) IsValid() bool {
	switch c {
	case PlanFree, PlanStandard, PlanPremium:
		return true
	}
	return false
}

// Unlimited marks a limit that is not enforced for the plan.
const Unlimited = int64(-1)

// Plan describes what a tenant on a given plan may use. The catalog is
// compiled in rather than stored; limits change with a release, not at
// runtime.
type Plan struct {
	Code                PlanCode
	Name                string
	MonthlyPrice        decimal.Decimal
	MaxUsers            int64
	MaxCompanies        int64
	MaxStorageBytes     int64
	MaxInvoicesPerMonth int64
	TrialDays           int
}

// AllowsUsers reports whether the plan permits the given user count.
func (p Plan) AllowsUsers(count int64) bool {
	return p.MaxUsers == Unlimited || count <= p.MaxUsers
}

// AllowsCompanies reports whether the plan permits the given company count.
func (p Plan) AllowsCompanies(count int64) bool {
	return p.MaxCompanies == Unlimited || count <= p.MaxCompanies
}

// AllowsStorage reports whether the plan permits the given total byte count.
func (p Plan) AllowsStorage(bytes int64) bool {
	return p.MaxStorageBytes == Unlimited || bytes <= p.MaxStorageBytes
}

// AllowsInvoices reports whether the plan permits the given per-month
// issued invoice count.
func (p Plan) AllowsInvoices(count int64) bool {
	return p.MaxInvoicesPerMonth == Unlimited || count <= p.MaxInvoicesPerMonth
}

var planCatalog = map[PlanCode]Plan{
	PlanFree: {
		Code:                PlanFree,
		Name:                "Free",
		MonthlyPrice:        decimal.Zero,
		MaxUsers:            3,
		MaxCompanies:        1,
		MaxStorageBytes:     1 << 30, // 1 GiB
		MaxInvoicesPerMonth: 20,
		TrialDays:           0,
	},
	PlanStandard: {
		Code:                PlanStandard,
		Name:                "Standard",
		MonthlyPrice:        decimal.NewFromInt(29),
		MaxUsers:            15,
		MaxCompanies:        5,
		MaxStorageBytes:     25 << 30, // 25 GiB
		MaxInvoicesPerMonth: 500,
		TrialDays:           14,
	},
	PlanPremium: {
		Code:                PlanPremium,
		Name:                "Premium",
		MonthlyPrice:        decimal.NewFromInt(99),
		MaxUsers:            Unlimited,
		MaxCompanies:        Unlimited,
		MaxStorageBytes:     250 << 30, // 250 GiB
		MaxInvoicesPerMonth: Unlimited,
		TrialDays:           14,
	},
}

// PlanByCode looks up a plan in the catalog.
func PlanByCode(code PlanCode) (Plan, error) {
	plan, ok := planCatalog[code]
	if !ok {
		return Plan{}, shared.NewDomainError("UNKNOWN_PLAN", "Plan code is not in the catalog")
	}
	return plan, nil
}

// AllPlans returns the catalog in ascending price order.
func AllPlans() []Plan {
	return []Plan{planCatalog[PlanFree], planCatalog[PlanStandard], planCatalog[PlanPremium]}
}
