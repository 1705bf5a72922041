package handler

import (
	_ "github.com/openbooks/backend/internal/interfaces/http/dto"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/openbooks/backend/internal/application/audit"
)

// AuditHandler handles audit trail API endpoints
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// auditListQuery binds audit trail list filters
type auditListQuery struct {
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	Action     string `form:"action" binding:"omitempty,max=50"`
	EntityType string `form:"entity_type" binding:"omitempty,max=50"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List godoc
// @Summary      List audit entries
// @Description  Tenant-wide audit trail, newest first, filterable by actor, action, entity type and date range
// @Tags         audit
// @Produce      json
// @Param        actor_id query string false "Filter by actor" format(uuid)
// @Param        action query string false "Filter by action, e.g. invoice.approved"
// @Param        entity_type query string false "Filter by entity type, e.g. invoice"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=auditapp.ListResult}
// @Security     BearerAuth
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query auditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := auditapp.ListInput{
		TenantID:   tenantID,
		Action:     query.Action,
		EntityType: query.EntityType,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if query.ActorID != "" {
		actorID, _ := uuid.Parse(query.ActorID)
		input.ActorID = &actorID
	}
	if query.From != "" {
		from, _ := time.Parse("2006-01-02", query.From)
		input.From = &from
	}
	if query.To != "" {
		// Inclusive end of day.
		to, _ := time.Parse("2006-01-02", query.To)
		to = to.Add(24*time.Hour - time.Nanosecond)
		input.To = &to
	}

	result, err := h.auditService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// History godoc
// @Summary      Entity change history
// @Description  All audit entries for one entity, oldest first
// @Tags         audit
// @Produce      json
// @Param        entity_type path string true "Entity type, e.g. invoice"
// @Param        entity_id path string true "Entity ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]auditapp.AuditLogDTO}
// @Security     BearerAuth
// @Router       /audit/entities/{entity_type}/{entity_id} [get]
func (h *AuditHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entityType := c.Param("entity_type")
	if entityType == "" {
		h.BadRequest(c, "Entity type is required")
		return
	}

	entityID, err := uuid.Parse(c.Param("entity_id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	entries, err := h.auditService.History(c.Request.Context(), tenantID, entityType, entityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
