package handler

import (
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	printingapp "github.com/openbooks/backend/internal/application/printing"
)

// PrintHandler handles print template and print job API endpoints
type PrintHandler struct {
	BaseHandler
	printService *printingapp.PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *printingapp.PrintService) *PrintHandler {
	return &PrintHandler{
		printService: printService,
	}
}

// =============================================================================
// Template Endpoints
// =============================================================================

// CreateTemplate godoc
// @Summary      Create print template
// @Tags         print-templates
// @Accept       json
// @Produce      json
// @Param        request body printingapp.CreateTemplateRequest true "Template data"
// @Success      201 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/templates [post]
func (h *PrintHandler) CreateTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req printingapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.printService.CreateTemplate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, template)
}

// GetTemplate godoc
// @Summary      Get print template by ID
// @Tags         print-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/templates/{id} [get]
func (h *PrintHandler) GetTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	template, err := h.printService.GetTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// ListTemplates godoc
// @Summary      List print templates
// @Tags         print-templates
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        doc_type query string false "Filter by document type"
// @Param        status query string false "Filter by status" Enums(ACTIVE, INACTIVE)
// @Param        search query string false "Search by name"
// @Success      200 {object} dto.Response{data=[]printingapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /print/templates [get]
func (h *PrintHandler) ListTemplates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := printingapp.ListTemplatesRequest{
		Page:     1,
		PageSize: 20,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.printService.ListTemplates(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// UpdateTemplate godoc
// @Summary      Update print template
// @Tags         print-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body printingapp.UpdateTemplateRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/templates/{id} [put]
func (h *PrintHandler) UpdateTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	var req printingapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.printService.UpdateTemplate(c.Request.Context(), tenantID, templateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// DeleteTemplate godoc
// @Summary      Delete print template
// @Tags         print-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/templates/{id} [delete]
func (h *PrintHandler) DeleteTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	if err := h.printService.DeleteTemplate(c.Request.Context(), tenantID, templateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefaultTemplate godoc
// @Summary      Set default template
// @Description  Make this template the default for its document type
// @Tags         print-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /print/templates/{id}/set-default [post]
func (h *PrintHandler) SetDefaultTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	template, err := h.printService.SetDefaultTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// ActivateTemplate godoc
// @Summary      Activate print template
// @Tags         print-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /print/templates/{id}/activate [post]
func (h *PrintHandler) ActivateTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	template, err := h.printService.ActivateTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// DeactivateTemplate godoc
// @Summary      Deactivate print template
// @Tags         print-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /print/templates/{id}/deactivate [post]
func (h *PrintHandler) DeactivateTemplate(c *gin.Context) {
	tenantID, templateID, ok := h.templateScope(c)
	if !ok {
		return
	}

	template, err := h.printService.DeactivateTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// GetTemplatesByDocType godoc
// @Summary      Get templates by document type
// @Description  Tenant templates for the document type, with built-in templates filling in when the tenant has none
// @Tags         print-templates
// @Produce      json
// @Param        doc_type path string true "Document type" Enums(INVOICE, BILL, RECEIPT_VOUCHER, PAYMENT_VOUCHER, JOURNAL_ENTRY)
// @Success      200 {object} dto.Response{data=[]printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/templates/by-doc-type/{doc_type} [get]
func (h *PrintHandler) GetTemplatesByDocType(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	docType := c.Param("doc_type")
	if docType == "" {
		h.BadRequest(c, "Document type is required")
		return
	}

	result, err := h.printService.GetTemplatesByDocType(c.Request.Context(), tenantID, docType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// =============================================================================
// Preview and PDF Generation Endpoints
// =============================================================================

// PreviewDocument godoc
// @Summary      Preview document as HTML
// @Description  Render a document through a print template. Data is loaded from the document itself unless an override is provided.
// @Tags         print
// @Accept       json
// @Produce      json
// @Param        request body printingapp.PreviewRequest true "Preview request"
// @Success      200 {object} dto.Response{data=printingapp.PreviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/preview [post]
func (h *PrintHandler) PreviewDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req printingapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.printService.PreviewDocument(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GeneratePDF godoc
// @Summary      Generate PDF
// @Description  Render a document to PDF, store it and record a print job
// @Tags         print-jobs
// @Accept       json
// @Produce      json
// @Param        request body printingapp.GeneratePDFRequest true "PDF generation request"
// @Success      201 {object} dto.Response{data=printingapp.PrintJobResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/generate [post]
func (h *PrintHandler) GeneratePDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req printingapp.GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.printService.GeneratePDF(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// =============================================================================
// Print Job Endpoints
// =============================================================================

// GetJob godoc
// @Summary      Get print job by ID
// @Tags         print-jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.PrintJobResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/jobs/{id} [get]
func (h *PrintHandler) GetJob(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.printService.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListJobs godoc
// @Summary      List print jobs
// @Tags         print-jobs
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        doc_type query string false "Filter by document type"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]printingapp.PrintJobResponse}
// @Security     BearerAuth
// @Router       /print/jobs [get]
func (h *PrintHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := printingapp.ListJobsRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.printService.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJobsByDocument godoc
// @Summary      Get print jobs for a document
// @Tags         print-jobs
// @Produce      json
// @Param        doc_type path string true "Document type"
// @Param        document_id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]printingapp.PrintJobResponse}
// @Security     BearerAuth
// @Router       /print/jobs/by-document/{doc_type}/{document_id} [get]
func (h *PrintHandler) GetJobsByDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	docType := c.Param("doc_type")
	if docType == "" {
		h.BadRequest(c, "Document type is required")
		return
	}

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	result, err := h.printService.GetJobsByDocument(c.Request.Context(), tenantID, docType, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadPDF godoc
// @Summary      Download PDF
// @Description  Redirects to a short-lived presigned URL for the completed job's PDF
// @Tags         print-jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      307
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /print/jobs/{id}/download [get]
func (h *PrintHandler) DownloadPDF(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.printService.GetJobDownloadURL(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, result.DownloadURL)
}

// =============================================================================
// Reference Data Endpoints
// =============================================================================

// GetDocumentTypes godoc
// @Summary      Get printable document types
// @Tags         print
// @Produce      json
// @Success      200 {object} dto.Response{data=[]printingapp.DocumentTypeResponse}
// @Security     BearerAuth
// @Router       /print/document-types [get]
func (h *PrintHandler) GetDocumentTypes(c *gin.Context) {
	h.Success(c, h.printService.GetDocumentTypes())
}

// GetPaperSizes godoc
// @Summary      Get available paper sizes
// @Tags         print
// @Produce      json
// @Success      200 {object} dto.Response{data=[]printingapp.PaperSizeResponse}
// @Security     BearerAuth
// @Router       /print/paper-sizes [get]
func (h *PrintHandler) GetPaperSizes(c *gin.Context) {
	h.Success(c, h.printService.GetPaperSizes())
}

func (h *PrintHandler) templateScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, templateID, true
}
