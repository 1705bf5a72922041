package handler

import (
	"context"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// AccountHandler handles chart of accounts API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *ledgerapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *ledgerapp.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Create godoc
// @Summary      Create account
// @Description  Create a new chart of accounts entry
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ledgerapp.CreateAccountRequest true "Account data"
// @Success      201 {object} dto.Response{data=ledgerapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req ledgerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID godoc
// @Summary      Get account by ID
// @Tags         accounts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.AccountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), companyID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// List godoc
// @Summary      List accounts
// @Description  List chart of accounts entries with filtering and pagination
// @Tags         accounts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        search query string false "Search by code or name"
// @Param        type query string false "Account type" Enums(asset, liability, equity, revenue, expense)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]ledgerapp.AccountResponse}
// @Security     BearerAuth
// @Router       /ledger/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter ledgerapp.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update account
// @Description  Update an account's name and description
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body ledgerapp.UpdateAccountRequest true "Account data"
// @Success      200 {object} dto.Response{data=ledgerapp.AccountResponse}
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req ledgerapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), companyID, accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// Activate godoc
// @Summary      Activate account
// @Tags         accounts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /ledger/accounts/{id}/activate [post]
func (h *AccountHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.accountService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate account
// @Description  Deactivate an account so new journal lines cannot reference it
// @Tags         accounts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /ledger/accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.accountService.Deactivate)
}

// Delete godoc
// @Summary      Delete account
// @Description  Delete an account that has never been journaled
// @Tags         accounts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	h.changeStatus(c, h.accountService.Delete)
}

func (h *AccountHandler) changeStatus(c *gin.Context, op func(ctx context.Context, companyID, accountID uuid.UUID) error) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	if err := op(c.Request.Context(), companyID, accountID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
