package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/collab-backend/internal/http/response"
	"github.com/yungbote/collab-backend/internal/services"
)

type ChannelHandler struct {
	conversations services.ConversationService
}

func NewChannelHandler(conversations services.ConversationService) *ChannelHandler {
	return &ChannelHandler{conversations: conversations}
}

// GET /api/channels/:id/messages?limit=50&before=120
func (h *ChannelHandler) ListMessages(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	channelID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.conversations.ListMessages(c.Request.Context(), actor, channelID, queryInt(c, "limit", 50), int64(queryInt(c, "before", 0)))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

type postMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// POST /api/channels/:id/messages
func (h *ChannelHandler) PostMessage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	channelID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req postMessageReq
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.conversations.PostMessage(c.Request.Context(), channelID, actor.ID, req.Content)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}
