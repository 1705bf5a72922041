package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared/valueobject"
)

// AccountModel is the persistence model for the chart-of-accounts Account entity.
type AccountModel struct {
	TenantAggregateModel
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_account_company_code,priority:1"`
	Code        string             `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_company_code,priority:2"`
	Name        string             `gorm:"type:varchar(200);not null"`
	Type        ledger.AccountType `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID         `gorm:"type:uuid;index"`
	Description string             `gorm:"type:varchar(500)"`
	IsActive    bool               `gorm:"not null;default:true"`
	IsSystem    bool               `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	account := &ledger.Account{
		CompanyID:   m.CompanyID,
		Code:        m.Code,
		Name:        m.Name,
		Type:        m.Type,
		ParentID:    m.ParentID,
		Description: m.Description,
		IsActive:    m.IsActive,
		IsSystem:    m.IsSystem,
	}
	m.PopulateTenantAggregateRoot(&account.TenantAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.CompanyID = a.CompanyID
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.ParentID = a.ParentID
	m.Description = a.Description
	m.IsActive = a.IsActive
	m.IsSystem = a.IsSystem
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate.
// Lines live in their own table so balances can be aggregated in SQL.
type JournalEntryModel struct {
	TenantAggregateModel
	CompanyID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	EntryNumber string               `gorm:"type:varchar(30);index"`
	EntryDate   time.Time            `gorm:"not null;index"`
	Memo        string               `gorm:"type:varchar(500)"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	Status      ledger.JournalStatus `gorm:"type:varchar(10);not null;index"`
	Source      ledger.JournalSource `gorm:"type:varchar(10);not null;index:idx_journal_source"`
	SourceID    *uuid.UUID           `gorm:"type:uuid;index:idx_journal_source"`
	Lines       []JournalLineModel   `gorm:"foreignKey:EntryID;references:ID;constraint:OnDelete:CASCADE"`
	PostedAt    *time.Time
	PostedBy    *uuid.UUID `gorm:"type:uuid"`
	VoidedAt    *time.Time
	VoidedBy    *uuid.UUID `gorm:"type:uuid"`
	VoidReason  string     `gorm:"type:varchar(500)"`
	ReversesID  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalLineModel is the persistence model for one debit or credit line.
type JournalLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500)"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Position    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalEntry aggregate.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	entry := &ledger.JournalEntry{
		CompanyID:   m.CompanyID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		Memo:        m.Memo,
		Currency:    m.Currency,
		Status:      m.Status,
		Source:      m.Source,
		SourceID:    m.SourceID,
		PostedAt:    m.PostedAt,
		PostedBy:    m.PostedBy,
		VoidedAt:    m.VoidedAt,
		VoidedBy:    m.VoidedBy,
		VoidReason:  m.VoidReason,
		ReversesID:  m.ReversesID,
	}
	m.PopulateTenantAggregateRoot(&entry.TenantAggregateRoot)

	entry.Lines = make([]ledger.JournalLine, 0, len(m.Lines))
	for _, line := range m.Lines {
		entry.Lines = append(entry.Lines, ledger.JournalLine{
			ID:          line.ID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Position:    line.Position,
		})
	}
	return entry
}

// FromDomain populates the persistence model from a domain JournalEntry aggregate.
func (m *JournalEntryModel) FromDomain(e *ledger.JournalEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.CompanyID = e.CompanyID
	m.EntryNumber = e.EntryNumber
	m.EntryDate = e.EntryDate
	m.Memo = e.Memo
	m.Currency = e.Currency
	m.Status = e.Status
	m.Source = e.Source
	m.SourceID = e.SourceID
	m.PostedAt = e.PostedAt
	m.PostedBy = e.PostedBy
	m.VoidedAt = e.VoidedAt
	m.VoidedBy = e.VoidedBy
	m.VoidReason = e.VoidReason
	m.ReversesID = e.ReversesID

	m.Lines = make([]JournalLineModel, 0, len(e.Lines))
	for _, line := range e.Lines {
		m.Lines = append(m.Lines, JournalLineModel{
			ID:          line.ID,
			EntryID:     e.ID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Position:    line.Position,
		})
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(e)
	return m
}

// AccountingPeriodModel is the persistence model for the AccountingPeriod entity.
type AccountingPeriodModel struct {
	TenantAggregateModel
	CompanyID  uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_period_company_month,priority:1"`
	Year       int                 `gorm:"not null;uniqueIndex:idx_period_company_month,priority:2"`
	Month      int                 `gorm:"not null;uniqueIndex:idx_period_company_month,priority:3"`
	StartDate  time.Time           `gorm:"not null"`
	EndDate    time.Time           `gorm:"not null"`
	Status     ledger.PeriodStatus `gorm:"type:varchar(10);not null;index"`
	ClosedAt   *time.Time
	ClosedBy   *uuid.UUID `gorm:"type:uuid"`
	ReopenedAt *time.Time
	ReopenedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AccountingPeriodModel) TableName() string {
	return "accounting_periods"
}

// ToDomain converts the persistence model to a domain AccountingPeriod entity.
func (m *AccountingPeriodModel) ToDomain() *ledger.AccountingPeriod {
	period := &ledger.AccountingPeriod{
		CompanyID:  m.CompanyID,
		Year:       m.Year,
		Month:      m.Month,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		ClosedAt:   m.ClosedAt,
		ClosedBy:   m.ClosedBy,
		ReopenedAt: m.ReopenedAt,
		ReopenedBy: m.ReopenedBy,
	}
	m.PopulateTenantAggregateRoot(&period.TenantAggregateRoot)
	return period
}

// FromDomain populates the persistence model from a domain AccountingPeriod entity.
func (m *AccountingPeriodModel) FromDomain(p *ledger.AccountingPeriod) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.CompanyID = p.CompanyID
	m.Year = p.Year
	m.Month = p.Month
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.Status = p.Status
	m.ClosedAt = p.ClosedAt
	m.ClosedBy = p.ClosedBy
	m.ReopenedAt = p.ReopenedAt
	m.ReopenedBy = p.ReopenedBy
}

// AccountingPeriodModelFromDomain creates a new persistence model from a domain AccountingPeriod.
func AccountingPeriodModelFromDomain(p *ledger.AccountingPeriod) *AccountingPeriodModel {
	m := &AccountingPeriodModel{}
	m.FromDomain(p)
	return m
}
