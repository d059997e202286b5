package store

// The fixed enumerated set of snapshot keys, one per state slice.
const (
	KeyDailyGoals     = "dailyGoals"
	KeyCalorieHistory = "calorieHistory"
	KeyFrequentFoods  = "frequentFoods"
	KeyLastPlan       = "lastGeneratedPlan"
	KeyRecipes        = "recipes"
	KeySavedRecipes   = "savedRecipes"
	KeyGoalsHistory   = "goalsHistory"
	KeySavedPlans     = "savedPlans"
	KeyFastingState   = "fastingState"
	KeyChatHistory    = "chatHistory"
	KeyShoppingList   = "shoppingList"
	KeyActivityLog    = "activityLog"
	KeyAssistantName  = "assistantName"
	KeyUserProfile    = "userProfile"
	KeyGamification   = "gamification"
	KeyMoodHistory    = "moodHistory"
	KeyWeightHistory  = "weightHistory"
	KeyChallenge      = "challenge"
	KeyPreferences    = "preferences"
	KeySleepHistory   = "sleepHistory"
)
