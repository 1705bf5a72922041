package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	attachmentapp "github.com/openbooks/backend/internal/application/attachment"
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
)

// AttachmentHandler handles attachment API endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *attachmentapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *attachmentapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// attachmentOwnerQuery binds the owner filter for listing attachments
type attachmentOwnerQuery struct {
	OwnerType string    `form:"owner_type" binding:"required,oneof=invoice bill payment journal company"`
	OwnerID   uuid.UUID `form:"owner_id" binding:"required"`
}

// attachmentBatchRequest requests metadata for a set of attachment IDs
type attachmentBatchRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1,max=100"`
}

// InitiateUpload godoc
// @Summary      Initiate attachment upload
// @Description  Register file metadata and receive a presigned URL the client uploads the file body to directly
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body attachmentapp.InitiateUploadRequest true "File metadata"
// @Success      201 {object} dto.Response{data=attachmentapp.InitiateUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
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

	var req attachmentapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UploadedBy = &userID

	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetDownloadURL godoc
// @Summary      Get attachment download URL
// @Description  Returns a short-lived presigned URL for the stored file
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      200 {object} dto.Response{data=attachmentapp.DownloadURLResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{id}/download-url [get]
func (h *AttachmentHandler) GetDownloadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	result, err := h.attachmentService.GetDownloadURL(c.Request.Context(), tenantID, attachmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByOwner godoc
// @Summary      List attachments for an owner
// @Tags         attachments
// @Produce      json
// @Param        owner_type query string true "Owner entity type" Enums(invoice, bill, payment, journal, company)
// @Param        owner_id query string true "Owner entity ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]attachmentapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /attachments [get]
func (h *AttachmentHandler) ListByOwner(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query attachmentOwnerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	attachments, err := h.attachmentService.ListByOwner(c.Request.Context(), tenantID, query.OwnerType, query.OwnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachments)
}

// GetByIDs godoc
// @Summary      Get attachments by IDs
// @Description  Batch fetch attachment metadata. IDs outside the caller's tenant are silently omitted.
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body attachmentBatchRequest true "Attachment IDs"
// @Success      200 {object} dto.Response{data=[]attachmentapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /attachments/batch [post]
func (h *AttachmentHandler) GetByIDs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req attachmentBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	attachments, err := h.attachmentService.GetByIDs(c.Request.Context(), tenantID, req.IDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachments)
}

// UpdateDescription godoc
// @Summary      Update attachment description
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Param        request body attachmentapp.UpdateDescriptionRequest true "New description"
// @Success      200 {object} dto.Response{data=attachmentapp.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{id} [patch]
func (h *AttachmentHandler) UpdateDescription(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	var req attachmentapp.UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	attachment, err := h.attachmentService.UpdateDescription(c.Request.Context(), tenantID, attachmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachment)
}

// Delete godoc
// @Summary      Delete attachment
// @Description  Remove attachment metadata and the stored object
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
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

	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), tenantID, attachmentID, userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
