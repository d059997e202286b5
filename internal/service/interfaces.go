package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nutrisync/backend/internal/types"
)

// PlanRequest carries the inputs for weekly meal plan generation.
type PlanRequest struct {
	Goal          string                  `json:"goal"`
	Restrictions  []string                `json:"restrictions"`
	CalorieTarget float64                 `json:"calorieTarget"`
	Language      string                  `json:"language"`
	Diet          types.DietaryPreference `json:"diet"`
}

// GeneratedRecipe is a recipe plus the image search query the generator
// suggests for illustrating it.
type GeneratedRecipe struct {
	Recipe     types.Recipe `json:"recipe"`
	ImageQuery string       `json:"imageQuery"`
}

// IAIService is the generative AI collaborator. Responses are validated
// for JSON shape only; semantic nonsense propagates to the caller.
type IAIService interface {
	AnalyzeMealImage(ctx context.Context, image []byte, mimeType, language string) (*types.MealAnalysis, error)
	GenerateWeeklyPlan(ctx context.Context, req PlanRequest) (*types.WeeklyPlan, error)
	GenerateRecipe(ctx context.Context, ingredients []string, language string) (*GeneratedRecipe, error)
	GenerateShoppingList(ctx context.Context, plan types.WeeklyPlan, language string) ([]types.ShoppingItem, error)
	Chat(ctx context.Context, history []types.ChatMessage, message, language, persona string) (string, error)
}

// IAuthService is the auth collaborator: session primitives mapped to the
// internal User identity.
type IAuthService interface {
	Register(name, email, password string) (string, types.User, error)
	Login(email, password string) (string, types.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUser(id uuid.UUID) (types.User, error)
}
