package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobspher/jobspher/internal/services"
)

type NotificationHandler struct {
	svc services.NotificationService
}

func NewNotificationHandler(svc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	page, err := h.svc.ListByUser(c.Request.Context(), user.ID, queryInt(c, "page", 1), queryInt(c, "size", 20))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	n, err := h.svc.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	notif, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, notif)
}
