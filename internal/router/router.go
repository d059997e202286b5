package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/api"
	"github.com/nutrisync/backend/internal/middleware"
	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	sessions *server.SessionRegistry,
	authService service.IAuthService,
	aiService service.IAIService,
	imageService *service.ImageService,
	aiLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	api.RegisterRoutes(router, sessions, authService, aiService, imageService, aiLimiter)
	return router
}
