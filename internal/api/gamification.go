package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/gamification"
	"github.com/nutrisync/backend/internal/server"
)

// GamificationHandler exposes XP, level and the achievement catalog.
type GamificationHandler struct {
	sessions *server.SessionRegistry
}

func NewGamificationHandler(sessions *server.SessionRegistry) *GamificationHandler {
	return &GamificationHandler{sessions: sessions}
}

func (h *GamificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/gamification")
	{
		g.GET("", h.GetState)
		g.GET("/achievements", h.GetAchievements)
	}
}

func (h *GamificationHandler) GetState(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Gamification())
}

// GetAchievements returns the full catalog annotated with the caller's
// unlock state.
func (h *GamificationHandler) GetAchievements(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	state := sess.Gamification()
	out := make([]gin.H, 0, len(gamification.Achievements))
	for _, a := range gamification.Achievements {
		out = append(out, gin.H{
			"id":          a.ID,
			"title":       a.Title,
			"description": a.Description,
			"unlocked":    state.HasUnlocked(a.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"achievements": out})
}
