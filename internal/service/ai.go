package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nutrisync/backend/internal/types"
)

var ErrNoIngredients = errors.New("ingredients list is empty")

// AIService talks to a DeepSeek-compatible chat-completions API for meal
// analysis, plan/recipe generation and assistant chat.
type AIService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// Ensure AIService implements IAIService
var _ IAIService = (*AIService)(nil)

// NewAIService reads the API key from DEEPSEEK_API_KEY or the file named
// by DEEPSEEK_API_KEY_FILE.
func NewAIService() (*AIService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}
		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}
		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}
	model := os.Getenv("DEEPSEEK_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}

	return &AIService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Message is one turn of a chat-completions request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completions request body.
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

// complete sends one chat-completions request and returns the first
// choice's content.
func (s *AIService) complete(ctx context.Context, messages []Message, jsonMode bool, temperature float64) (string, error) {
	reqBody := Request{
		Model:       s.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if jsonMode {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[AIService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}

// AnalyzeMealImage sends the photo for nutritional analysis and returns
// the structured breakdown.
func (s *AIService) AnalyzeMealImage(ctx context.Context, image []byte, mimeType, language string) (*types.MealAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	messages := []Message{
		{
			Role: "system",
			Content: `You are a nutrition analysis engine. Given a photo of a meal, respond only with JSON of this shape:
{
    "calories": 450,
    "macros": {"protein": 30, "carbs": 40, "fat": 10},
    "micros": {"vitaminC": 12, "vitaminD": 0, "iron": 2, "calcium": 80, "magnesium": 40, "vitaminA": 100, "vitaminB12": 0.5, "potassium": 600, "sodium": 700, "zinc": 1.5},
    "identifiedFoods": ["grilled chicken", "rice"],
    "servingSize": "1 plate"
}
All numeric fields must be numbers. Macros are grams; micros use standard reference units. Answer food names in ` + languageOrDefault(language) + `.`,
		},
		{
			Role:    "user",
			Content: "Analyze this meal photo: " + dataURL,
		},
	}

	content, err := s.complete(ctx, messages, true, 0.2)
	if err != nil {
		return nil, err
	}

	var analysis types.MealAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse meal analysis: %w", err)
	}
	return &analysis, nil
}

// GenerateWeeklyPlan builds a 7-day Mon-Sun meal plan for the given goal.
func (s *AIService) GenerateWeeklyPlan(ctx context.Context, req PlanRequest) (*types.WeeklyPlan, error) {
	prompt := fmt.Sprintf("Generate a 7-day meal plan (Monday through Sunday, breakfast/lunch/dinner) for the goal: %s. Daily calorie target: %.0f kcal.", req.Goal, req.CalorieTarget)
	if req.Diet != "" {
		prompt += " Diet: " + string(req.Diet) + "."
	}
	if len(req.Restrictions) > 0 {
		prompt += " Avoid: " + strings.Join(req.Restrictions, ", ") + "."
	}

	messages := []Message{
		{
			Role: "system",
			Content: `You are a professional nutritionist. Respond only with JSON of this shape:
{
    "days": [
        {"day": "Monday",
         "breakfast": {"name": "...", "description": "...", "calories": 400, "protein": 25, "carbs": 40, "fat": 15},
         "lunch": {...},
         "dinner": {...}}
    ]
}
The days array must contain exactly 7 entries, Monday first. All numeric fields must be numbers. Answer meal names in ` + languageOrDefault(req.Language) + `.`,
		},
		{Role: "user", Content: prompt},
	}

	content, err := s.complete(ctx, messages, true, 0.8)
	if err != nil {
		return nil, err
	}

	var plan types.WeeklyPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse weekly plan: %w", err)
	}
	if len(plan.Days) != len(types.WeekDays) {
		return nil, fmt.Errorf("plan has %d days, want %d", len(plan.Days), len(types.WeekDays))
	}
	return &plan, nil
}

// GenerateRecipe builds a recipe from an ingredient list, plus an image
// search query for illustration. Empty ingredient lists are rejected
// before any network call.
func (s *AIService) GenerateRecipe(ctx context.Context, ingredients []string, language string) (*GeneratedRecipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	messages := []Message{
		{
			Role: "system",
			Content: `You are a professional chef and nutritionist. Respond only with JSON of this shape:
{
    "recipe": {
        "name": "...",
        "description": "...",
        "category": "...",
        "ingredients": ["2 cups flour"],
        "instructions": ["Step 1: ..."],
        "calories": 350, "protein": 15, "carbs": 45, "fat": 12
    },
    "imageQuery": "short photo search query for this dish"
}
All numeric fields must be numbers. Answer in ` + languageOrDefault(language) + `.`,
		},
		{
			Role:    "user",
			Content: "Create a recipe using: " + strings.Join(ingredients, ", "),
		},
	}

	content, err := s.complete(ctx, messages, true, 0.9)
	if err != nil {
		return nil, err
	}

	var generated GeneratedRecipe
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	return &generated, nil
}

// GenerateShoppingList consolidates a weekly plan into shopping items.
func (s *AIService) GenerateShoppingList(ctx context.Context, plan types.WeeklyPlan, language string) ([]types.ShoppingItem, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	messages := []Message{
		{
			Role: "system",
			Content: `You consolidate meal plans into shopping lists. Respond only with JSON: {"items": [{"name": "...", "quantity": "..."}]}. Merge duplicate ingredients. Answer in ` + languageOrDefault(language) + `.`,
		},
		{Role: "user", Content: "Build a shopping list for this weekly plan: " + string(planJSON)},
	}

	content, err := s.complete(ctx, messages, true, 0.3)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []types.ShoppingItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse shopping list: %w", err)
	}
	return result.Items, nil
}

// Chat answers one assistant turn with the conversation history as
// context.
func (s *AIService) Chat(ctx context.Context, history []types.ChatMessage, message, language, persona string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role: "system",
		Content: fmt.Sprintf("You are %s, a friendly nutrition assistant. Answer briefly and practically, in %s.",
			persona, languageOrDefault(language)),
	})
	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{Role: "user", Content: message})

	return s.complete(ctx, messages, false, 0.7)
}

func languageOrDefault(language string) string {
	if language == "" {
		return "English"
	}
	return language
}
