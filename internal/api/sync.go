package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrisync/backend/internal/server"
)

// SyncHandler exposes the cloud sync outbox: its state for UI display and
// a manual flush for logout/"sync now".
type SyncHandler struct {
	sessions *server.SessionRegistry
}

func NewSyncHandler(sessions *server.SessionRegistry) *SyncHandler {
	return &SyncHandler{sessions: sessions}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	sync := router.Group("/sync")
	{
		sync.GET("/status", h.GetStatus)
		sync.POST("/flush", h.Flush)
	}
}

func (h *SyncHandler) GetStatus(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	outbox := h.sessions.Outbox(sess.UserID())
	if outbox == nil {
		c.JSON(http.StatusOK, gin.H{"state": "idle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": outbox.State().String()})
}

// Flush pushes the current snapshot synchronously, bypassing the
// debounce window.
func (h *SyncHandler) Flush(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	// Ensure the session (and with it the outbox) exists.
	h.sessions.Get(c.Request.Context(), id.String())
	outbox := h.sessions.Outbox(id.String())
	if outbox == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync is not available"})
		return
	}

	if err := outbox.Flush(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "sync push failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": outbox.State().String()})
}
