package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/state"
)

type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
	Language    string   `json:"language"`
}

// RecipeHandler owns the per-user recipe collection. Listing applies the
// weekly rotation so the collection feels fresh without new content.
type RecipeHandler struct {
	sessions  *server.SessionRegistry
	aiService service.IAIService
}

func NewRecipeHandler(sessions *server.SessionRegistry, aiService service.IAIService) *RecipeHandler {
	return &RecipeHandler{sessions: sessions, aiService: aiService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/saved", h.ListSavedRecipes)
		recipes.POST("/generate", aiLimit, h.GenerateRecipe)
		recipes.POST("/:id/save", h.SaveRecipe)
	}
}

// ListRecipes returns the collection with the weekly rotation applied.
// Pass ?all=true to bypass the rotation.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, gin.H{"recipes": sess.Recipes()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": sess.VisibleRecipes(time.Now())})
}

func (h *RecipeHandler) ListSavedRecipes(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": sess.SavedRecipes()})
}

func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generated, err := h.aiService.GenerateRecipe(c.Request.Context(), req.Ingredients, req.Language)
	if err != nil {
		if errors.Is(err, service.ErrNoIngredients) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe generation failed"})
		return
	}

	recipe := generated.Recipe
	recipe.ImageQuery = generated.ImageQuery
	recipe = sess.AddRecipe(recipe)

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	sess, ok := session(c, h.sessions)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := sess.SaveRecipe(id); err != nil {
		if errors.Is(err, state.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": sess.SavedRecipes()})
}
