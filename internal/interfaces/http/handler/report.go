package handler

import (
	_ "github.com/openbooks/backend/internal/domain/report"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/openbooks/backend/internal/application/report"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// reportRangeQuery binds a from/to date range for period reports
type reportRangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// TrialBalance godoc
// @Summary      Trial balance
// @Description  Per-account debit and credit totals over a date range, with the grand totals always in balance
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        from query string true "Range start (YYYY-MM-DD)"
// @Param        to query string true "Range end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.TrialBalance}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/trial-balance [get]
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.reportService.TrialBalance(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// BalanceSheet godoc
// @Summary      Balance sheet
// @Description  Assets, liabilities and equity as of a date, with retained earnings folded into equity
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        as_of query string true "Reporting date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.BalanceSheet}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/balance-sheet [get]
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	asOf, err := time.Parse("2006-01-02", c.Query("as_of"))
	if err != nil {
		h.BadRequest(c, "as_of must be a date in YYYY-MM-DD format")
		return
	}

	result, err := h.reportService.BalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// IncomeStatement godoc
// @Summary      Income statement
// @Description  Revenue and expense totals over a date range with the resulting net income
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        from query string true "Range start (YYYY-MM-DD)"
// @Param        to query string true "Range end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.IncomeStatement}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/income-statement [get]
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.reportService.IncomeStatement(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ReportHandler) bindRange(c *gin.Context) (time.Time, time.Time, bool) {
	var query reportRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return time.Time{}, time.Time{}, false
	}

	from, _ := time.Parse("2006-01-02", query.From)
	to, _ := time.Parse("2006-01-02", query.To)
	if to.Before(from) {
		h.BadRequest(c, "to must not be before from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
