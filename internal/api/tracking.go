package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/types"
)

// maxMealPhotoBytes caps meal photo uploads at 8 MiB.
const maxMealPhotoBytes = 8 << 20

type WaterRequest struct {
	Milliliters float64 `json:"milliliters" binding:"required,gt=0"`
}

type SupplementRequest struct {
	Taken bool `json:"taken"`
}

type ActivityRequest struct {
	Name           string  `json:"name" binding:"required"`
	DurationMin    int     `json:"durationMin" binding:"required,gt=0"`
	CaloriesBurned float64 `json:"caloriesBurned"`
}

type MoodRequest struct {
	Mood string `json:"mood" binding:"required"`
}

type WeightRequest struct {
	WeightKg float64 `json:"weight" binding:"required,gt=0"`
}

type SleepRequest struct {
	Hours float64 `json:"hours" binding:"required,gt=0"`
}

// TrackingHandler covers daily logging: meals, water, supplements,
// activity, mood, weight and sleep, plus the goal and history reads.
type TrackingHandler struct {
	sessions     *server.SessionRegistry
	aiService    service.IAIService
	imageService *service.ImageService
}

func NewTrackingHandler(sessions *server.SessionRegistry, aiService service.IAIService, imageService *service.ImageService) *TrackingHandler {
	return &TrackingHandler{
		sessions:     sessions,
		aiService:    aiService,
		imageService: imageService,
	}
}

func (h *TrackingHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	track := router.Group("/tracking")
	{
		track.POST("/meals", aiLimit, h.LogMeal)
		track.POST("/water", h.LogWater)
		track.POST("/supplement", h.SetSupplement)
		track.POST("/activity", h.LogActivity)
		track.GET("/activity", h.GetActivityLog)
		track.POST("/mood", h.LogMood)
		track.POST("/weight", h.LogWeight)
		track.POST("/sleep", h.LogSleep)
		track.GET("/goals", h.GetGoals)
		track.GET("/frequent-foods", h.GetFrequentFoods)
		track.GET("/history", h.GetHistory)
	}
}

// LogMeal accepts a multipart photo, analyzes it and applies the result
// to today's goals. The photo is kept in S3 for later re-analysis.
func (h *TrackingHandler) LogMeal(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxMealPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo exceeds the size limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxMealPhotoBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	language := c.PostForm("language")

	analysis, err := h.aiService.AnalyzeMealImage(c.Request.Context(), data, mimeType, language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "meal analysis failed"})
		return
	}

	var photoURL string
	if h.imageService != nil {
		photoURL, err = h.imageService.UploadMealPhoto(c.Request.Context(), sess.UserID(), data, mimeType)
		if err != nil {
			// The analysis already succeeded; losing the photo is not fatal.
			log.Printf("[Tracking] meal photo upload failed: %v", err)
		}
	}

	sess.LogMeal(*analysis)

	c.JSON(http.StatusOK, gin.H{
		"analysis": analysis,
		"photoUrl": photoURL,
		"goals":    sess.DailyGoals(),
	})
}

func (h *TrackingHandler) LogWater(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.LogWater(req.Milliliters)
	c.JSON(http.StatusOK, gin.H{"goals": sess.DailyGoals()})
}

func (h *TrackingHandler) SetSupplement(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.SetSupplementTaken(req.Taken)
	c.JSON(http.StatusOK, gin.H{"goals": sess.DailyGoals()})
}

func (h *TrackingHandler) LogActivity(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := sess.LogActivity(req.Name, req.DurationMin, req.CaloriesBurned)
	c.JSON(http.StatusCreated, entry)
}

func (h *TrackingHandler) GetActivityLog(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": sess.ActivityLog()})
}

func (h *TrackingHandler) LogMood(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req MoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.LogMood(req.Mood)
	c.JSON(http.StatusOK, gin.H{"moodHistory": sess.MoodHistory()})
}

func (h *TrackingHandler) LogWeight(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req WeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.LogWeight(req.WeightKg)
	c.JSON(http.StatusOK, gin.H{
		"profile": sess.Profile(),
		"goals":   sess.DailyGoals(),
	})
}

func (h *TrackingHandler) LogSleep(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req SleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.LogSleep(req.Hours)
	c.JSON(http.StatusOK, gin.H{"sleepHistory": sess.SleepHistory()})
}

func (h *TrackingHandler) GetGoals(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.DailyGoals())
}

func (h *TrackingHandler) GetFrequentFoods(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": sess.FrequentFoods()})
}

// GetHistory returns every history slice in one payload so the client can
// render its trends screen with a single request.
func (h *TrackingHandler) GetHistory(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	calories := sess.CalorieHistory()
	if calories == nil {
		calories = []types.CalorieRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"calories": calories,
		"goals":    sess.GoalsHistory(),
		"weight":   sess.WeightHistory(),
		"mood":     sess.MoodHistory(),
		"sleep":    sess.SleepHistory(),
	})
}
