package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nutrisync/backend/internal/cloudsync"
	"github.com/nutrisync/backend/internal/mocks"
	"github.com/nutrisync/backend/internal/server"
	"github.com/nutrisync/backend/internal/service"
	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

type testEnv struct {
	router *gin.Engine
	auth   *mocks.MockAuthService
	ai     *mocks.MockAIService
	userID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	auth := &mocks.MockAuthService{}
	auth.On("ValidateToken", "good-token").Return(&types.TokenClaims{UserID: userID, Name: "Dana"}, nil)
	auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken)

	ai := &mocks.MockAIService{}

	sessions := server.NewSessionRegistry(store.NewMemoryBackend(), cloudsync.NewMemoryDocumentStore(), 10*time.Millisecond)

	router := gin.New()
	RegisterRoutes(router, sessions, auth, ai, nil, nil)

	return &testEnv{router: router, auth: auth, ai: ai, userID: userID}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/tracking/goals", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/tracking/goals", nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogWaterUpdatesGoals(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/tracking/water", gin.H{"milliliters": 500}, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Goals types.DailyGoals `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 500.0, resp.Goals.Nutrients[types.NutrientWater].Current)
}

func TestLogWaterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/tracking/water", gin.H{"milliliters": -10}, "good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFastingFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/fasting/start", gin.H{"targetDuration": 16, "protocol": "16:8"}, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	// Double start conflicts.
	w = env.request(t, http.MethodPost, "/api/v1/fasting/start", gin.H{"targetDuration": 16}, "good-token")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/fasting/stop", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Completed bool               `json:"completed"`
		State     types.FastingState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Completed)
	assert.False(t, resp.State.IsFasting)
}

func TestGenerateRecipeUsesAIService(t *testing.T) {
	env := newTestEnv(t)
	env.ai.On("GenerateRecipe", mock.Anything, []string{"rice", "egg"}, "").
		Return(&service.GeneratedRecipe{
			Recipe:     types.Recipe{Name: "Fried Rice"},
			ImageQuery: "fried rice",
		}, nil)

	w := env.request(t, http.MethodPost, "/api/v1/recipes/generate", gin.H{"ingredients": []string{"rice", "egg"}}, "good-token")
	require.Equal(t, http.StatusCreated, w.Code)

	var recipe types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, 1, recipe.ID)
	assert.Equal(t, "Fried Rice", recipe.Name)
	assert.Equal(t, "fried rice", recipe.ImageQuery)

	env.ai.AssertExpectations(t)
}

func TestGeneratePlanRequiresUpstream(t *testing.T) {
	env := newTestEnv(t)
	env.ai.On("GenerateWeeklyPlan", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	w := env.request(t, http.MethodPost, "/api/v1/plans/generate", gin.H{"goal": "maintain"}, "good-token")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestShoppingListRequiresPlan(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/shopping-list/generate", nil, "good-token")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileUpdateRecalculatesGoals(t *testing.T) {
	env := newTestEnv(t)

	profile := types.UserProfile{
		Name: "Dana", Age: 30, HeightCm: 170, WeightKg: 70,
		Gender:        types.GenderFemale,
		ActivityLevel: types.ActivitySedentary,
		Objective:     types.ObjectiveMaintain,
	}
	w := env.request(t, http.MethodPut, "/api/v1/profile", profile, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profile types.UserProfile `json:"profile"`
		Goals   types.DailyGoals  `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1742.0, resp.Goals.Nutrients[types.NutrientCalories].Target)
	assert.Equal(t, 2450.0, resp.Goals.Nutrients[types.NutrientWater].Target)
	assert.InDelta(t, 24.22, resp.Profile.BMI, 0.01)
}

func TestChallengeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/challenge/start", nil, "good-token")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/challenge/complete-task", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	// Same-day second completion conflicts.
	w = env.request(t, http.MethodPost, "/api/v1/challenge/complete-task", nil, "good-token")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGamificationEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Earn some XP first.
	env.request(t, http.MethodPost, "/api/v1/tracking/water", gin.H{"milliliters": 250}, "good-token")

	w := env.request(t, http.MethodGet, "/api/v1/gamification", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var state types.GamificationState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 10, state.XP)
	assert.Equal(t, 1, state.Level)
}

func TestSyncStatusAndFlush(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/sync/status", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "idle", status.State)

	env.request(t, http.MethodPost, "/api/v1/tracking/water", gin.H{"milliliters": 250}, "good-token")

	w = env.request(t, http.MethodPost, "/api/v1/sync/flush", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "idle", status.State)
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodPost, "/api/v1/tracking/water", gin.H{"milliliters": 1000}, "good-token")

	w := env.request(t, http.MethodGet, "/api/v1/report", nil, "good-token")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "profile")
	assert.Contains(t, resp, "goals")
	assert.Contains(t, resp, "progress")
}
