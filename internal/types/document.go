package types

import "time"

// CloudDocument is the single per-user JSON blob mirrored to the document
// store. Every field is optional: a pull only overwrites the local slices
// whose keys are present in the payload, and a push always carries the
// full consolidated snapshot. Whole-document last-write-wins; UpdatedAt
// records the writer's clock and is informational only.
type CloudDocument struct {
	Profile           *UserProfile        `json:"profile,omitempty"`
	Goals             *DailyGoals         `json:"goals,omitempty"`
	Preferences       *Preferences        `json:"preferences,omitempty"`
	Gamification      *GamificationState  `json:"gamification,omitempty"`
	Recipes           *[]Recipe           `json:"recipes,omitempty"`
	SavedRecipes      *[]Recipe           `json:"savedRecipes,omitempty"`
	LastGeneratedPlan *WeeklyPlan         `json:"lastGeneratedPlan,omitempty"`
	SavedPlans        *[]SavedPlan        `json:"savedPlans,omitempty"`
	CalorieHistory    *[]CalorieRecord    `json:"calorieHistory,omitempty"`
	GoalsHistory      *[]GoalsHistoryItem `json:"goalsHistory,omitempty"`
	FastingState      *FastingState       `json:"fastingState,omitempty"`
	ChatHistory       *[]ChatMessage      `json:"chatHistory,omitempty"`
	ShoppingList      *ShoppingList       `json:"shoppingList,omitempty"`
	ActivityLog       *[]ActivityEntry    `json:"activityLog,omitempty"`
	AssistantName     *string             `json:"assistantName,omitempty"`
	MoodHistory       *[]MoodRecord       `json:"moodHistory,omitempty"`
	WeightHistory     *[]WeightRecord     `json:"weightHistory,omitempty"`
	Challenge         *ChallengeState     `json:"challenge,omitempty"`
	SleepHistory      *[]SleepRecord      `json:"sleepHistory,omitempty"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}
