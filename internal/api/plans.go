package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/state"
	"github.com/nutrisync/backend/internal/types"
)

type ReplaceMealRequest struct {
	DayIndex int        `json:"dayIndex"`
	Slot     string     `json:"slot" binding:"required"`
	Meal     types.Meal `json:"meal" binding:"required"`
}

type ToggleItemRequest struct {
	Index int `json:"index"`
}

// PlanHandler owns the weekly meal plan lifecycle and the shopping list
// derived from it.
type PlanHandler struct {
	sessions  *server.SessionRegistry
	aiService service.IAIService
}

func NewPlanHandler(sessions *server.SessionRegistry, aiService service.IAIService) *PlanHandler {
	return &PlanHandler{sessions: sessions, aiService: aiService}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	plans := router.Group("/plans")
	{
		plans.POST("/generate", aiLimit, h.GeneratePlan)
		plans.GET("/current", h.GetCurrentPlan)
		plans.POST("/current/save", h.SaveCurrentPlan)
		plans.PUT("/current/meal", h.ReplaceMeal)
		plans.GET("/saved", h.GetSavedPlans)
	}
	shopping := router.Group("/shopping-list")
	{
		shopping.POST("/generate", aiLimit, h.GenerateShoppingList)
		shopping.GET("", h.GetShoppingList)
		shopping.PUT("/toggle", h.ToggleItem)
	}
}

// GeneratePlan asks the generator for a 7-day plan shaped by the user's
// profile and stores it as the current plan.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req service.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := sess.Profile()
	if req.Diet == "" {
		req.Diet = profile.DietaryPreference
	}
	if req.CalorieTarget <= 0 {
		req.CalorieTarget = sess.DailyGoals().Nutrients[types.NutrientCalories].Target
	}

	plan, err := h.aiService.GenerateWeeklyPlan(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "plan generation failed"})
		return
	}

	sess.SetGeneratedPlan(*plan)
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	plan := sess.LastPlan()
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no plan generated yet"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) SaveCurrentPlan(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	saved, err := sess.SaveCurrentPlan()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *PlanHandler) ReplaceMeal(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req ReplaceMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.ReplacePlanMeal(req.DayIndex, req.Slot, req.Meal); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, state.ErrNoPlan) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.LastPlan())
}

func (h *PlanHandler) GetSavedPlans(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": sess.SavedPlans()})
}

// GenerateShoppingList derives a fresh list from the current plan,
// replacing any previous one.
func (h *PlanHandler) GenerateShoppingList(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	plan := sess.LastPlan()
	if plan == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "generate a plan first"})
		return
	}

	items, err := h.aiService.GenerateShoppingList(c.Request.Context(), *plan, c.Query("language"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "shopping list generation failed"})
		return
	}

	c.JSON(http.StatusOK, sess.SetShoppingList(items))
}

func (h *PlanHandler) GetShoppingList(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.ShoppingList())
}

func (h *PlanHandler) ToggleItem(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req ToggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.ToggleShoppingItem(req.Index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.ShoppingList())
}
