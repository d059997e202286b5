package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/types"
)

type ChatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

type RenameAssistantRequest struct {
	Name string `json:"name"`
}

// ChatHandler runs the assistant conversation. Both sides of each
// exchange are appended to the persisted history.
type ChatHandler struct {
	sessions  *server.SessionRegistry
	aiService service.IAIService
}

func NewChatHandler(sessions *server.SessionRegistry, aiService service.IAIService) *ChatHandler {
	return &ChatHandler{sessions: sessions, aiService: aiService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	chat := router.Group("/assistant")
	{
		chat.POST("/chat", aiLimit, h.Chat)
		chat.GET("/history", h.GetHistory)
		chat.PUT("/name", h.Rename)
	}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history := sess.ChatHistory()
	reply, err := h.aiService.Chat(c.Request.Context(), history, req.Message, req.Language, sess.AssistantName())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable"})
		return
	}

	sess.AppendChat(types.ChatRoleUser, req.Message)
	sess.AppendChat(types.ChatRoleAssistant, reply)

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assistantName": sess.AssistantName(),
		"messages":      sess.ChatHistory(),
	})
}

func (h *ChatHandler) Rename(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req RenameAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.SetAssistantName(req.Name)
	c.JSON(http.StatusOK, gin.H{"assistantName": sess.AssistantName()})
}
