package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// AccountService handles chart of accounts operations
type AccountService struct {
	accountRepo ledger.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.AccountRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
	}
}

// Create creates a new account in a company's chart of accounts
func (s *AccountService) Create(ctx context.Context, tenantID, companyID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByCode(ctx, companyID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account with this code already exists")
	}

	account, err := ledger.NewAccount(tenantID, companyID, req.Code, req.Name, ledger.AccountType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := account.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if req.ParentID != nil {
		parent, err := s.accountRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.CompanyID != companyID {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent account must belong to the same company")
		}
		if err := account.SetParent(parent); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, companyID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.findForCompany(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByCode retrieves an account by its code within a company
func (s *AccountService) GetByCode(ctx context.Context, companyID uuid.UUID, code string) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, companyID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := ledger.NewAccountFilter(companyID)
	if filter.Search != "" {
		domainFilter = domainFilter.WithKeyword(filter.Search)
	}
	if filter.Type != "" {
		domainFilter = domainFilter.WithType(ledger.AccountType(filter.Type))
	}
	if filter.IsActive != nil {
		domainFilter = domainFilter.WithActive(*filter.IsActive)
	}
	if filter.Page > 0 {
		domainFilter = domainFilter.WithPagination(filter.Page, filter.PageSize)
	}

	accounts, total, err := s.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = ToAccountResponse(account)
	}
	return responses, total, nil
}

// Update renames an account and updates its description
func (s *AccountService) Update(ctx context.Context, companyID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.findForCompany(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// Activate re-enables a deactivated account
func (s *AccountService) Activate(ctx context.Context, companyID, accountID uuid.UUID) error {
	account, err := s.findForCompany(ctx, companyID, accountID)
	if err != nil {
		return err
	}

	if err := account.Activate(); err != nil {
		return err
	}

	return s.accountRepo.Update(ctx, account)
}

// Deactivate hides an account from new postings
func (s *AccountService) Deactivate(ctx context.Context, companyID, accountID uuid.UUID) error {
	account, err := s.findForCompany(ctx, companyID, accountID)
	if err != nil {
		return err
	}

	if err := account.Deactivate(); err != nil {
		return err
	}

	return s.accountRepo.Update(ctx, account)
}

// Delete removes an account that has never been posted to
func (s *AccountService) Delete(ctx context.Context, companyID, accountID uuid.UUID) error {
	account, err := s.findForCompany(ctx, companyID, accountID)
	if err != nil {
		return err
	}

	hasPostings, err := s.accountRepo.HasPostings(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.CanDelete(hasPostings) {
		return shared.NewDomainError("HAS_POSTINGS", "Accounts with journal postings cannot be deleted")
	}

	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Accounts with child accounts cannot be deleted")
	}

	return s.accountRepo.Delete(ctx, accountID)
}

func (s *AccountService) findForCompany(ctx context.Context, companyID, accountID uuid.UUID) (*ledger.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return account, nil
}
