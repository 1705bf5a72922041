package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

func TestAccountService_Create(t *testing.T) {
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("creates account", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		accountRepo.On("ExistsByCode", mock.Anything, companyID, "1200").Return(false, nil)
		accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*ledger.Account")).Return(nil)

		resp, err := service.Create(context.Background(), tenantID, companyID, CreateAccountRequest{
			Code: "1200", Name: "Prepaid Expenses", Type: "asset",
		})

		require.NoError(t, err)
		assert.Equal(t, "1200", resp.Code)
		assert.Equal(t, "asset", resp.Type)
		assert.True(t, resp.IsActive)
		accountRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		accountRepo.On("ExistsByCode", mock.Anything, companyID, "1000").Return(true, nil)

		_, err := service.Create(context.Background(), tenantID, companyID, CreateAccountRequest{
			Code: "1000", Name: "Cash", Type: "asset",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects parent from another company", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		parent := activeAccount(t, tenantID, uuid.New(), "1000", ledger.AccountTypeAsset)
		accountRepo.On("ExistsByCode", mock.Anything, companyID, "1010").Return(false, nil)
		accountRepo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)

		_, err := service.Create(context.Background(), tenantID, companyID, CreateAccountRequest{
			Code: "1010", Name: "Petty Cash", Type: "asset", ParentID: &parent.ID,
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "same company")
	})
}

func TestAccountService_Delete(t *testing.T) {
	tenantID := uuid.New()
	companyID := uuid.New()

	t.Run("deletes unused account", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		account := activeAccount(t, tenantID, companyID, "1300", ledger.AccountTypeAsset)
		accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		accountRepo.On("HasPostings", mock.Anything, account.ID).Return(false, nil)
		accountRepo.On("FindChildren", mock.Anything, account.ID).Return([]*ledger.Account{}, nil)
		accountRepo.On("Delete", mock.Anything, account.ID).Return(nil)

		err := service.Delete(context.Background(), companyID, account.ID)

		require.NoError(t, err)
		accountRepo.AssertExpectations(t)
	})

	t.Run("refuses delete with postings", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		account := activeAccount(t, tenantID, companyID, "1300", ledger.AccountTypeAsset)
		accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		accountRepo.On("HasPostings", mock.Anything, account.ID).Return(true, nil)

		err := service.Delete(context.Background(), companyID, account.ID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "journal postings")
	})

	t.Run("refuses delete with children", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		account := activeAccount(t, tenantID, companyID, "1300", ledger.AccountTypeAsset)
		child := activeAccount(t, tenantID, companyID, "1310", ledger.AccountTypeAsset)
		accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
		accountRepo.On("HasPostings", mock.Anything, account.ID).Return(false, nil)
		accountRepo.On("FindChildren", mock.Anything, account.ID).Return([]*ledger.Account{child}, nil)

		err := service.Delete(context.Background(), companyID, account.ID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "child accounts")
	})

	t.Run("hides accounts of other companies", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		service := NewAccountService(accountRepo)

		account := activeAccount(t, tenantID, uuid.New(), "1300", ledger.AccountTypeAsset)
		accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)

		err := service.Delete(context.Background(), companyID, account.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
