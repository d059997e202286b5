package main

import (
	"context"
	"log"

	"github.com/nutrisync/backend/config"
	"github.com/nutrisync/backend/internal/cloudsync"
	"github.com/nutrisync/backend/internal/database"
	"github.com/nutrisync/backend/internal/middleware"
	"github.com/nutrisync/backend/internal/router"
	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	backend, err := store.NewSQLiteBackend(cfg.SnapshotDBPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}

	// Redis backs both the cloud document mirror and AI rate limiting.
	// Without it the app still runs; sync state stays in memory.
	var docs cloudsync.DocumentStore
	var aiLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, sync mirror is in-memory only: %v", err)
		docs = cloudsync.NewMemoryDocumentStore()
	} else {
		docs = cloudsync.NewRedisDocumentStore(redisClient)
		aiLimiter = middleware.NewAIRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	aiService, err := service.NewAIService()
	if err != nil {
		log.Fatalf("Failed to initialize AI service: %v", err)
	}

	var imageService *service.ImageService
	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("Warning: S3 unavailable, meal photos will not be stored: %v", err)
	} else {
		imageService = service.NewImageService(s3cfg)
	}

	sessions := server.NewSessionRegistry(backend, docs, cfg.SyncDebounce)
	engine := router.SetupRouter(sessions, authService, aiService, imageService, aiLimiter)

	srv := server.NewServer(engine, sessions)
	if err := srv.Start(cfg.ServerHost + ":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
