package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/state"
)

// ChallengeHandler drives the 30-day challenge lifecycle.
type ChallengeHandler struct {
	sessions *server.SessionRegistry
}

func NewChallengeHandler(sessions *server.SessionRegistry) *ChallengeHandler {
	return &ChallengeHandler{sessions: sessions}
}

func (h *ChallengeHandler) RegisterRoutes(router *gin.RouterGroup) {
	challenge := router.Group("/challenge")
	{
		challenge.GET("", h.GetChallenge)
		challenge.POST("/start", h.Start)
		challenge.POST("/complete-task", h.CompleteTask)
		challenge.POST("/abandon", h.Abandon)
	}
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Challenge())
}

func (h *ChallengeHandler) Start(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	challenge := sess.StartChallenge()
	if !challenge.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "challenges are disabled in preferences"})
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (h *ChallengeHandler) CompleteTask(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	task, err := sess.CompleteChallengeTask()
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, state.ErrNoChallenge) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":      task,
		"challenge": sess.Challenge(),
	})
}

func (h *ChallengeHandler) Abandon(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	sess.AbandonChallenge()
	c.JSON(http.StatusOK, sess.Challenge())
}
