package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrisync/backend/internal/types"
)

// stubCompletions returns a chat-completions server answering every
// request with the given content string.
func stubCompletions(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func stubService(url string) *AIService {
	return &AIService{
		apiKey: "test-key",
		apiURL: url,
		model:  "deepseek-chat",
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestAnalyzeMealImage(t *testing.T) {
	srv := stubCompletions(t, `{"calories": 450, "macros": {"protein": 30, "carbs": 40, "fat": 10}, "micros": {"iron": 2}, "identifiedFoods": ["grilled chicken", "rice"], "servingSize": "1 plate"}`)
	defer srv.Close()
	svc := stubService(srv.URL)

	analysis, err := svc.AnalyzeMealImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg", "")
	require.NoError(t, err)
	assert.Equal(t, 450.0, analysis.Calories)
	assert.Equal(t, 30.0, analysis.Macros.Protein)
	assert.Equal(t, 2.0, analysis.Micros["iron"])
	assert.Equal(t, []string{"grilled chicken", "rice"}, analysis.IdentifiedFoods)
}

func TestAnalyzeMealImageRejectsEmptyImage(t *testing.T) {
	svc := stubService("http://unused.invalid")

	_, err := svc.AnalyzeMealImage(context.Background(), nil, "", "")
	assert.Error(t, err)
}

func TestGenerateWeeklyPlanValidatesDayCount(t *testing.T) {
	day := `{"day": "Monday", "breakfast": {"name": "Oats"}, "lunch": {"name": "Salad"}, "dinner": {"name": "Soup"}}`

	t.Run("seven days", func(t *testing.T) {
		days := day
		for i := 0; i < 6; i++ {
			days += "," + day
		}
		srv := stubCompletions(t, fmt.Sprintf(`{"days": [%s]}`, days))
		defer srv.Close()

		plan, err := stubService(srv.URL).GenerateWeeklyPlan(context.Background(), PlanRequest{Goal: "maintain"})
		require.NoError(t, err)
		assert.Len(t, plan.Days, 7)
	})

	t.Run("wrong day count", func(t *testing.T) {
		srv := stubCompletions(t, fmt.Sprintf(`{"days": [%s]}`, day))
		defer srv.Close()

		_, err := stubService(srv.URL).GenerateWeeklyPlan(context.Background(), PlanRequest{Goal: "maintain"})
		assert.Error(t, err)
	})
}

func TestGenerateRecipeRejectsEmptyIngredients(t *testing.T) {
	svc := stubService("http://unused.invalid")

	_, err := svc.GenerateRecipe(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoIngredients)
}

func TestGenerateRecipe(t *testing.T) {
	srv := stubCompletions(t, `{"recipe": {"name": "Fried Rice", "ingredients": ["rice", "egg"], "instructions": ["Cook."], "calories": 500}, "imageQuery": "fried rice bowl"}`)
	defer srv.Close()

	generated, err := stubService(srv.URL).GenerateRecipe(context.Background(), []string{"rice", "egg"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", generated.Recipe.Name)
	assert.Equal(t, "fried rice bowl", generated.ImageQuery)
}

func TestGenerateShoppingList(t *testing.T) {
	srv := stubCompletions(t, `{"items": [{"name": "Rice", "quantity": "1kg"}, {"name": "Eggs", "quantity": "12"}]}`)
	defer srv.Close()

	items, err := stubService(srv.URL).GenerateShoppingList(context.Background(), types.WeeklyPlan{}, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Rice", items[0].Name)
	assert.False(t, items[0].Checked)
}

func TestChatPassesPersona(t *testing.T) {
	var gotBody Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Drink more water."}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	history := []types.ChatMessage{{Role: types.ChatRoleUser, Content: "hi"}}
	reply, err := stubService(srv.URL).Chat(context.Background(), history, "any tips?", "", "Nova")
	require.NoError(t, err)
	assert.Equal(t, "Drink more water.", reply)

	require.NotEmpty(t, gotBody.Messages)
	assert.Contains(t, gotBody.Messages[0].Content, "Nova")
	// history + system + new message
	assert.Len(t, gotBody.Messages, 3)
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := stubService(srv.URL).Chat(context.Background(), nil, "hello", "", "Nova")
	assert.Error(t, err)
}
