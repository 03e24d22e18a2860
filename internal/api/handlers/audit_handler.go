package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mongorepo "github.com/jobspher/jobspher/internal/repositories/mongo"
	"github.com/jobspher/jobspher/internal/utils"
)

// AuditHandler exposes the workflow audit trail to admins.
type AuditHandler struct {
	repo mongorepo.AuditRepository
}

func NewAuditHandler(repo mongorepo.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

var auditKinds = map[string]bool{
	"job":         true,
	"payment":     true,
	"application": true,
}

func (h *AuditHandler) ListByEntity(c *gin.Context) {
	const op = "AuditHandler.ListByEntity"

	kind := c.Param("kind")
	if !auditKinds[kind] {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "unknown entity kind", nil))
		return
	}

	events, err := h.repo.ListByEntity(c.Request.Context(), kind, c.Param("id"), int64(queryInt(c, "limit", 50)))
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to list audit events", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
