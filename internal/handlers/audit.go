// internal/handlers/audit.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GET /audit-logs
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.AuditFilter{
		PaginationParams: params,
		TargetType:       c.Query("target_type"),
		TargetID:         c.Query("target_id"),
		PerformedBy:      c.Query("performed_by"),
	}
	if action := c.Query("action"); action != "" {
		a := models.AuditAction(action)
		filter.Action = &a
	}

	entries, total, err := h.auditService.Query(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}
