package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/audit"
	"clinic-scheduling-server/internal/utils"
)

// AuditHandler exposes the scheduling audit trail to admins.
type AuditHandler struct {
	Trail *audit.Trail
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(trail *audit.Trail) *AuditHandler {
	return &AuditHandler{Trail: trail}
}

// GetAuditLogs handles listing recent audit entries, optionally
// filtered by actor or by resource.
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	if actorID := c.Query("actorId"); actorID != "" {
		logs, err := h.Trail.ByActor(actorID)
		if err != nil {
			utils.InternalServerError(c, "Failed to fetch audit logs: "+err.Error())
			return
		}
		utils.Success(c, "Audit logs fetched successfully", logs)
		return
	}

	if resourceType := c.Query("resourceType"); resourceType != "" {
		logs, err := h.Trail.ByResource(resourceType, c.Query("resourceId"))
		if err != nil {
			utils.InternalServerError(c, "Failed to fetch audit logs: "+err.Error())
			return
		}
		utils.Success(c, "Audit logs fetched successfully", logs)
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			utils.BadRequest(c, "limit must be an integer between 1 and 1000")
			return
		}
		limit = parsed
	}

	logs, err := h.Trail.Recent(limit)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch audit logs: "+err.Error())
		return
	}
	utils.Success(c, "Audit logs fetched successfully", logs)
}
