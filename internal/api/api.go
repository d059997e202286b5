package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrisync/backend/internal/middleware"
	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/state"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NutriSync API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, sessions *server.SessionRegistry, authService service.IAuthService, aiService service.IAIService, imageService *service.ImageService, aiLimiter *middleware.RateLimiter) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(sessions)
	trackingHandler := NewTrackingHandler(sessions, aiService, imageService)
	planHandler := NewPlanHandler(sessions, aiService)
	recipeHandler := NewRecipeHandler(sessions, aiService)
	chatHandler := NewChatHandler(sessions, aiService)
	fastingHandler := NewFastingHandler(sessions)
	challengeHandler := NewChallengeHandler(sessions)
	gamificationHandler := NewGamificationHandler(sessions)
	reportHandler := NewReportHandler(sessions)
	syncHandler := NewSyncHandler(sessions)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	var aiLimit gin.HandlerFunc
	if aiLimiter != nil {
		aiLimit = aiLimiter.RateLimitMiddleware()
	} else {
		aiLimit = func(c *gin.Context) { c.Next() }
	}

	profileHandler.RegisterRoutes(authed)
	trackingHandler.RegisterRoutes(authed, aiLimit)
	planHandler.RegisterRoutes(authed, aiLimit)
	recipeHandler.RegisterRoutes(authed, aiLimit)
	chatHandler.RegisterRoutes(authed, aiLimit)
	fastingHandler.RegisterRoutes(authed)
	challengeHandler.RegisterRoutes(authed)
	gamificationHandler.RegisterRoutes(authed)
	reportHandler.RegisterRoutes(authed)
	syncHandler.RegisterRoutes(authed)
}

// session resolves the caller's state session from the auth context.
func session(c *gin.Context, sessions *server.SessionRegistry) (*state.Session, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return sessions.Get(c.Request.Context(), id.String()), true
}
