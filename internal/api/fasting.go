package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
)

type StartFastRequest struct {
	TargetHours float64 `json:"targetDuration" binding:"required,gt=0"`
	Protocol    string  `json:"protocol"`
}

// FastingHandler drives the two-state fasting tracker.
type FastingHandler struct {
	sessions *server.SessionRegistry
}

func NewFastingHandler(sessions *server.SessionRegistry) *FastingHandler {
	return &FastingHandler{sessions: sessions}
}

func (h *FastingHandler) RegisterRoutes(router *gin.RouterGroup) {
	fasting := router.Group("/fasting")
	{
		fasting.GET("", h.GetState)
		fasting.POST("/start", h.Start)
		fasting.POST("/stop", h.Stop)
	}
}

func (h *FastingHandler) GetState(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Fasting())
}

func (h *FastingHandler) Start(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req StartFastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.StartFasting(req.TargetHours, req.Protocol); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.Fasting())
}

func (h *FastingHandler) Stop(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	completed, err := sess.StopFasting()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completed": completed,
		"state":     sess.Fasting(),
	})
}
