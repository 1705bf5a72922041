package handler

import (
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// JournalHandler handles journal entry API endpoints
type JournalHandler struct {
	BaseHandler
	journalService *ledgerapp.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *ledgerapp.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// ReverseJournalRequest represents a request to reverse a posted entry
// @Description Request body for creating a reversing journal entry
type ReverseJournalRequest struct {
	EntryDate time.Time `json:"entry_date" binding:"required"`
	Memo      string    `json:"memo" binding:"max=500"`
}

// Create godoc
// @Summary      Create draft journal entry
// @Description  Create a manual journal entry in draft state. Lines must balance before posting.
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ledgerapp.CreateJournalRequest true "Journal data"
// @Success      201 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals [post]
func (h *JournalHandler) Create(c *gin.Context) {
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
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req ledgerapp.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = &userID

	entry, err := h.journalService.CreateDraft(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @Summary      Get journal entry by ID
// @Tags         journals
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Journal ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals/{id} [get]
func (h *JournalHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	journalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal ID format")
		return
	}

	entry, err := h.journalService.GetByID(c.Request.Context(), companyID, journalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @Summary      List journal entries
// @Tags         journals
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, posted, void)
// @Param        source query string false "Source" Enums(manual, invoice, bill, payment, closing, reversal)
// @Param        account_id query string false "Filter by account" format(uuid)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]ledgerapp.JournalResponse}
// @Security     BearerAuth
// @Router       /ledger/journals [get]
func (h *JournalHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter ledgerapp.JournalListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.journalService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update draft journal entry
// @Description  Replace the lines, memo, or date of a draft entry
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Journal ID" format(uuid)
// @Param        request body ledgerapp.UpdateJournalRequest true "Journal data"
// @Success      200 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals/{id} [put]
func (h *JournalHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	journalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal ID format")
		return
	}

	var req ledgerapp.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.journalService.Update(c.Request.Context(), companyID, journalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Post godoc
// @Summary      Post journal entry
// @Description  Post a balanced draft entry to the general ledger. The poster must not be the creator.
// @Tags         journals
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Journal ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals/{id}/post [post]
func (h *JournalHandler) Post(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	journalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal ID format")
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), companyID, journalID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Void godoc
// @Summary      Void journal entry
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Journal ID" format(uuid)
// @Param        request body ledgerapp.VoidJournalRequest true "Void reason"
// @Success      200 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals/{id}/void [post]
func (h *JournalHandler) Void(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	journalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal ID format")
		return
	}

	var req ledgerapp.VoidJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.journalService.Void(c.Request.Context(), companyID, journalID, userID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Reverse godoc
// @Summary      Reverse journal entry
// @Description  Create a reversing entry for a posted journal, swapping debits and credits
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Journal ID" format(uuid)
// @Param        request body ReverseJournalRequest true "Reversal date and memo"
// @Success      201 {object} dto.Response{data=ledgerapp.JournalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ledger/journals/{id}/reverse [post]
func (h *JournalHandler) Reverse(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	journalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid journal ID format")
		return
	}

	var req ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.journalService.Reverse(c.Request.Context(), companyID, journalID, req.EntryDate, req.Memo, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}
