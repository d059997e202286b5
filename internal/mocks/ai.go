package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/types"
)

// MockAIService is a mock implementation of the IAIService interface
type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) AnalyzeMealImage(ctx context.Context, image []byte, mimeType, language string) (*types.MealAnalysis, error) {
	args := m.Called(ctx, image, mimeType, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealAnalysis), args.Error(1)
}

func (m *MockAIService) GenerateWeeklyPlan(ctx context.Context, req service.PlanRequest) (*types.WeeklyPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeeklyPlan), args.Error(1)
}

func (m *MockAIService) GenerateRecipe(ctx context.Context, ingredients []string, language string) (*service.GeneratedRecipe, error) {
	args := m.Called(ctx, ingredients, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedRecipe), args.Error(1)
}

func (m *MockAIService) GenerateShoppingList(ctx context.Context, plan types.WeeklyPlan, language string) ([]types.ShoppingItem, error) {
	args := m.Called(ctx, plan, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingItem), args.Error(1)
}

func (m *MockAIService) Chat(ctx context.Context, history []types.ChatMessage, message, language, persona string) (string, error) {
	args := m.Called(ctx, history, message, language, persona)
	return args.String(0), args.Error(1)
}
