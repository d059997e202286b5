package types

import "time"

// Recipe is an AI-generated recipe kept in the user's collection.
// The numeric ID feeds the weekly rotation filter, so it is assigned
// sequentially per user rather than randomly.
type Recipe struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Carbs        float64   `json:"carbs"`
	Fat          float64   `json:"fat"`
	ImageQuery   string    `json:"imageQuery"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

// Chat roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// DefaultAssistantName is used until the user renames the assistant.
const DefaultAssistantName = "NutriBot"
