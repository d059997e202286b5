package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/types"
)

// ProfileHandler exposes the editable profile and feature preferences.
type ProfileHandler struct {
	sessions *server.SessionRegistry
}

func NewProfileHandler(sessions *server.SessionRegistry) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/preferences", h.GetPreferences)
		profile.PUT("/preferences", h.UpdatePreferences)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Profile())
}

// UpdateProfile replaces the profile. Derived goal targets are
// recalculated immediately and returned alongside.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var profile types.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := sess.UpdateProfile(profile)
	c.JSON(http.StatusOK, gin.H{
		"profile": updated,
		"goals":   sess.DailyGoals(),
	})
}

func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Preferences())
}

func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var prefs types.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.UpdatePreferences(prefs)
	c.JSON(http.StatusOK, sess.Preferences())
}
