package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/collab-backend/internal/http/response"
	"github.com/yungbote/collab-backend/internal/services"
)

type NotificationHandler struct {
	notifier services.Notifier
}

func NewNotificationHandler(notifier services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// GET /api/notifications?unread=true&limit=50
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true" || c.Query("unread") == "1"
	rows, err := h.notifier.ListInbox(c.Request.Context(), actor, unreadOnly, queryInt(c, "limit", 50))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}

// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifier.MarkRead(c.Request.Context(), actor, id); err != nil {
		response.RespondFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
